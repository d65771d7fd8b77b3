// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// TriageReport carries the extracted interview summary for the clinician email.
type TriageReport struct {
	ConversationID       string
	MainComplaint        string
	SymptomsReported     string
	LocationOfSymptoms   string
	DurationOfSymptoms   string
	AggravatingFactors   string
	AlleviatingFactors   string
	PreviousHistory      string
	ImageAnalysisSummary string
	TentativeOrientation string
}

type IEmailService interface {
	SendTriageReport(toEmail string, report TriageReport) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendTriageReport(toEmail string, report TriageReport) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Resumen de Triaje Dermatológico - Conversación %s", report.ConversationID))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Resumen de Triaje Dermatológico</h2>
			<p>Conversación: <strong>%s</strong></p>
			<table style="border-collapse: collapse;">
				%s
			</table>
			<p style="color: #888; font-size: 12px;">Este resumen fue generado automáticamente a partir de una entrevista guiada. No constituye un diagnóstico.</p>
		</div>
	`, html.EscapeString(report.ConversationID), renderRows(report))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send triage report to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Triage report sent to %s\n", toEmail)
	return nil
}

func renderRows(report TriageReport) string {
	rows := []struct {
		label string
		value string
	}{
		{"Motivo principal", report.MainComplaint},
		{"Síntomas reportados", report.SymptomsReported},
		{"Localización", report.LocationOfSymptoms},
		{"Duración", report.DurationOfSymptoms},
		{"Factores agravantes", report.AggravatingFactors},
		{"Factores de alivio", report.AlleviatingFactors},
		{"Antecedentes relevantes", report.PreviousHistory},
		{"Análisis de imagen", report.ImageAnalysisSummary},
		{"Orientación tentativa", report.TentativeOrientation},
	}

	out := ""
	for _, row := range rows {
		value := row.value
		if value == "" {
			value = "No informado"
		}
		out += fmt.Sprintf(
			`<tr><td style="padding: 6px 12px; font-weight: bold;">%s</td><td style="padding: 6px 12px;">%s</td></tr>`,
			html.EscapeString(row.label), html.EscapeString(value),
		)
	}
	return out
}

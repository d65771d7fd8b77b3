package service

import (
	"context"
	"encoding/json"
	"log"

	"derma-triage-be/internal/dto"
	"derma-triage-be/internal/pkg/mailer"
	"derma-triage-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IReportService interface {
	Consume(ctx context.Context) error
}

// reportService listens for summary-ready events and mails the extracted
// summary to the configured clinician inbox. Delivery is best effort and
// never blocks the interview flow.
type reportService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	clinicianEmail string
}

func NewReportService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	clinicianEmail string,
) IReportService {
	return &reportService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		emailService:   emailService,
		clinicianEmail: clinicianEmail,
	}
}

func (rs *reportService) Consume(ctx context.Context) error {
	messages, err := rs.pubSub.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (rs *reportService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SummaryReadyMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal summary-ready message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if rs.clinicianEmail == "" {
		msg.Ack()
		return
	}

	uow := rs.uowFactory.NewUnitOfWork(ctx)

	summary, err := uow.MedicalSummaryRepository().FindByConversationId(ctx, payload.ConversationId)
	if err != nil {
		log.Printf("[ERROR] Failed to load summary for conversation %s: %v", payload.ConversationId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if summary == nil {
		log.Printf("[WARN] Summary-ready event for conversation %s but no summary stored", payload.ConversationId)
		msg.Ack() // Conversation deleted? Ack.
		return
	}

	report := mailer.TriageReport{
		ConversationID:       summary.ConversationId.String(),
		MainComplaint:        summary.MainComplaint,
		SymptomsReported:     summary.SymptomsReported,
		LocationOfSymptoms:   summary.LocationOfSymptoms,
		DurationOfSymptoms:   summary.DurationOfSymptoms,
		AggravatingFactors:   summary.AggravatingFactors,
		AlleviatingFactors:   summary.AlleviatingFactors,
		PreviousHistory:      summary.PreviousHistory,
		ImageAnalysisSummary: summary.ImageAnalysisSummary,
		TentativeOrientation: summary.TentativeOrientation,
	}

	if err := rs.emailService.SendTriageReport(rs.clinicianEmail, report); err != nil {
		log.Printf("[ERROR] Failed to send triage report for conversation %s: %v", payload.ConversationId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Triage report sent for conversation %s", payload.ConversationId)
	msg.Ack()
}

package extract

import (
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantUserFacing string
		wantBlock      bool
		wantAdvisory   bool
	}{
		{
			name:           "plain reply without markers",
			raw:            "¿Desde cuándo tienes esta afección?",
			wantUserFacing: "¿Desde cuándo tienes esta afección?",
			wantBlock:      false,
			wantAdvisory:   false,
		},
		{
			name:           "block followed by orientation",
			raw:            "###INICIO_RESUMEN_MEDICO### Motivo Principal: dolor\n###FIN_RESUMEN_MEDICO### Parece ser X.",
			wantUserFacing: "Parece ser X.",
			wantBlock:      true,
			wantAdvisory:   false,
		},
		{
			name:           "block at the end falls back to preceding text",
			raw:            "Parece ser X. ###INICIO_RESUMEN_MEDICO###\nMotivo Principal: dolor\n###FIN_RESUMEN_MEDICO###",
			wantUserFacing: "Parece ser X.",
			wantBlock:      true,
			wantAdvisory:   false,
		},
		{
			name:           "only start marker treated as plain text",
			raw:            "###INICIO_RESUMEN_MEDICO### Motivo Principal: dolor",
			wantUserFacing: "###INICIO_RESUMEN_MEDICO### Motivo Principal: dolor",
			wantBlock:      false,
			wantAdvisory:   false,
		},
		{
			name:           "markers in wrong order treated as plain text",
			raw:            "###FIN_RESUMEN_MEDICO### hola ###INICIO_RESUMEN_MEDICO###",
			wantUserFacing: "###FIN_RESUMEN_MEDICO### hola ###INICIO_RESUMEN_MEDICO###",
			wantBlock:      false,
			wantAdvisory:   false,
		},
		{
			name:           "disclaimer without block is final advisory",
			raw:            "Podría tratarse de un eccema. Recuerda, esta es solo una orientación general y no reemplaza una consulta médica.",
			wantUserFacing: "Podría tratarse de un eccema. Recuerda, esta es solo una orientación general y no reemplaza una consulta médica.",
			wantBlock:      false,
			wantAdvisory:   true,
		},
		{
			name:           "unaccented disclaimer is still final advisory",
			raw:            "RECUERDA, ESTA ES SOLO UNA ORIENTACION general y no reemplaza una consulta medica.",
			wantUserFacing: "RECUERDA, ESTA ES SOLO UNA ORIENTACION general y no reemplaza una consulta medica.",
			wantBlock:      false,
			wantAdvisory:   true,
		},
		{
			name:           "block with nothing around it yields empty user facing",
			raw:            "###INICIO_RESUMEN_MEDICO###\nMotivo Principal: picazón\n###FIN_RESUMEN_MEDICO###",
			wantUserFacing: "",
			wantBlock:      true,
			wantAdvisory:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Extract(tt.raw)

			if result.UserFacing != tt.wantUserFacing {
				t.Errorf("UserFacing = %q, want %q", result.UserFacing, tt.wantUserFacing)
			}
			if (result.Block != nil) != tt.wantBlock {
				t.Errorf("Block present = %v, want %v", result.Block != nil, tt.wantBlock)
			}
			if result.FinalAdvisory != tt.wantAdvisory {
				t.Errorf("FinalAdvisory = %v, want %v", result.FinalAdvisory, tt.wantAdvisory)
			}
		})
	}
}

func TestExtractBlockFields(t *testing.T) {
	raw := `###INICIO_RESUMEN_MEDICO###
Motivo Principal: manchas rojas en el brazo
Síntomas Reportados: picazón intensa
Localización: antebrazo izquierdo
Duración: dos semanas
Factores Agravantes: calor
Factores de Alivio: crema hidratante
Antecedentes Relevantes: dermatitis en la infancia
Análisis de Imagen (CNN): Sin resultado específico
###FIN_RESUMEN_MEDICO###
Esto podría ser una dermatitis de contacto.`

	result := Extract(raw)
	if result.Block == nil {
		t.Fatal("expected a parsed block")
	}

	b := result.Block
	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"MainComplaint", b.MainComplaint, "manchas rojas en el brazo"},
		{"SymptomsReported", b.SymptomsReported, "picazón intensa"},
		{"Location", b.Location, "antebrazo izquierdo"},
		{"Duration", b.Duration, "dos semanas"},
		{"AggravatingFactors", b.AggravatingFactors, "calor"},
		{"AlleviatingFactors", b.AlleviatingFactors, "crema hidratante"},
		{"PreviousHistory", b.PreviousHistory, "dermatitis en la infancia"},
		{"ImageAnalysis", b.ImageAnalysis, "Sin resultado específico"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}

	if result.UserFacing != "Esto podría ser una dermatitis de contacto." {
		t.Errorf("UserFacing = %q", result.UserFacing)
	}
}

func TestExtractIgnoresUnknownLabels(t *testing.T) {
	raw := "###INICIO_RESUMEN_MEDICO###\nMotivo Principal: acné\nCampo Inventado: valor\n###FIN_RESUMEN_MEDICO### Orientación."

	result := Extract(raw)
	if result.Block == nil {
		t.Fatal("expected a parsed block")
	}
	if result.Block.MainComplaint != "acné" {
		t.Errorf("MainComplaint = %q", result.Block.MainComplaint)
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Motivo Principal", "motivo_principal"},
		{"Síntomas Reportados", "sintomas_reportados"},
		{"Análisis de Imagen (CNN)", "analisis_de_imagen_cnn"},
		{"  Duración  ", "duracion"},
		{"LOCALIZACIÓN", "localizacion"},
	}
	for _, tt := range tests {
		if got := normalizeLabel(tt.in); got != tt.want {
			t.Errorf("normalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

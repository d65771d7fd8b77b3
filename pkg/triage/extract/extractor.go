package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"derma-triage-be/internal/constant"
)

// Block holds the parsed fields of one structured summary block.
type Block struct {
	Raw                string
	MainComplaint      string
	SymptomsReported   string
	Location           string
	Duration           string
	AggravatingFactors string
	AlleviatingFactors string
	PreviousHistory    string
	ImageAnalysis      string
}

// Result is the outcome of scanning one raw model reply.
type Result struct {
	// UserFacing is the reply with the hidden block stripped. May be empty
	// when the model emitted nothing but the block; callers decide the
	// fallback in that case.
	UserFacing string

	// Block is non-nil when a valid marker pair was found.
	Block *Block

	// FinalAdvisory is set when no block was found but the reply carries
	// the mandatory closing disclaimer, i.e. the model ended the interview
	// without emitting the structured block.
	FinalAdvisory bool
}

// labelFields maps normalized block labels to their target field. Labels the
// model invents beyond this set are ignored.
var labelFields = map[string]func(*Block, string){
	"motivo_principal":        func(b *Block, v string) { b.MainComplaint = v },
	"sintomas_reportados":     func(b *Block, v string) { b.SymptomsReported = v },
	"localizacion":            func(b *Block, v string) { b.Location = v },
	"duracion":                func(b *Block, v string) { b.Duration = v },
	"factores_agravantes":     func(b *Block, v string) { b.AggravatingFactors = v },
	"factores_de_alivio":      func(b *Block, v string) { b.AlleviatingFactors = v },
	"antecedentes_relevantes": func(b *Block, v string) { b.PreviousHistory = v },
	"analisis_de_imagen_cnn":  func(b *Block, v string) { b.ImageAnalysis = v },
}

// Extract scans a raw model reply for the delimited summary block. This is a
// best-effort tagged-text parser: malformed or absent markers degrade to
// "treat the whole reply as user-facing", never to an error.
func Extract(raw string) Result {
	startIdx := strings.Index(raw, constant.SummaryStartMarker)
	endIdx := strings.Index(raw, constant.SummaryEndMarker)

	if startIdx == -1 || endIdx == -1 || startIdx >= endIdx {
		userFacing := strings.TrimSpace(raw)
		return Result{
			UserFacing:    userFacing,
			FinalAdvisory: containsDisclaimer(userFacing),
		}
	}

	rawBlock := strings.TrimSpace(raw[startIdx+len(constant.SummaryStartMarker) : endIdx])

	// The user-facing text is what follows the block; when the model placed
	// the block at the very end, fall back to what preceded it.
	userFacing := strings.TrimSpace(raw[endIdx+len(constant.SummaryEndMarker):])
	if userFacing == "" {
		userFacing = strings.TrimSpace(raw[:startIdx])
	}

	block := parseBlock(rawBlock)
	return Result{
		UserFacing: userFacing,
		Block:      block,
	}
}

func parseBlock(rawBlock string) *Block {
	block := &Block{Raw: rawBlock}
	for _, line := range strings.Split(rawBlock, "\n") {
		label, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if setter, ok := labelFields[normalizeLabel(label)]; ok {
			setter(block, strings.TrimSpace(value))
		}
	}
	return block
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// containsDisclaimer matches the closing disclaimer case- and
// diacritics-insensitively, so "orientacion" counts as "orientación".
func containsDisclaimer(text string) bool {
	return strings.Contains(foldForMatch(text), foldForMatch(constant.DisclaimerPhrase))
}

func foldForMatch(s string) string {
	s = strings.ToLower(s)
	if stripped, _, err := transform.String(diacriticStripper, s); err == nil {
		s = stripped
	}
	return s
}

// normalizeLabel folds a free-form label ("Análisis de Imagen (CNN)") into
// the lookup key form ("analisis_de_imagen_cnn").
func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.ReplaceAll(label, " ", "_")
	label = strings.ReplaceAll(label, "(", "")
	label = strings.ReplaceAll(label, ")", "")
	if stripped, _, err := transform.String(diacriticStripper, label); err == nil {
		label = stripped
	}
	return label
}

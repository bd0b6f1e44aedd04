package service

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

// stripCodeFences removes markdown code-fence wrappers the model tends to put
// around JSON output.
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// NormalizeExtraction turns a raw extraction response into an ordered section
// list. Shape degradations (unexpected but valid JSON) yield an empty list;
// only a hard JSON parse failure returns an error, and that error is a typed
// *AIResponseParseError carrying a raw-text excerpt. Partial content is never
// guessed out of broken JSON.
func NormalizeExtraction(raw string, mode ImportMode) ([]Section, error) {
	cleaned := stripCodeFences(raw)

	var probe any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		log.Warn().Err(err).Str("mode", string(mode)).Int("rawLen", len(raw)).Msg("Extraction response is not valid JSON")
		return nil, newAIResponseParseError(cleaned, err)
	}

	switch probe.(type) {
	case map[string]any:
		var envelope struct {
			Sections []Section `json:"sections"`
		}
		if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil || envelope.Sections == nil {
			log.Warn().Str("mode", string(mode)).Msg("Extraction response object has no usable 'sections' array, treating as zero sections")
			return []Section{}, nil
		}
		return sanitizeSections(envelope.Sections), nil

	case []any:
		// Legacy flat extraction: a bare question array, no section metadata.
		var questions []ExtractedQuestion
		if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
			log.Warn().Err(err).Str("mode", string(mode)).Msg("Extraction response array did not decode as questions, treating as zero sections")
			return []Section{}, nil
		}
		legacy := Section{
			Title:     legacySectionTitle,
			Type:      SectionTypeStandalone,
			Questions: questions,
		}
		return sanitizeSections([]Section{legacy}), nil

	default:
		return []Section{}, nil
	}
}

// sanitizeSections enforces the normalizer guarantee: every surviving question
// carries a non-nil text (JSON null decodes to "") and a sequential
// questionNumber within its section when the extraction omitted one.
func sanitizeSections(sections []Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, section := range sections {
		if section.Type == "" {
			section.Type = SectionTypeStandalone
		}
		for i := range section.Questions {
			if section.Questions[i].QuestionNumber <= 0 {
				section.Questions[i].QuestionNumber = i + 1
			}
		}
		out = append(out, section)
	}
	return out
}

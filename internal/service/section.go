package service

import "encoding/json"

// Section type labels produced by extraction. Sections are ephemeral: they are
// never persisted as rows, only embedded per-question as content metadata.
const (
	SectionTypeGapFill    = "GAP_FILL"
	SectionTypeReading    = "READING"
	SectionTypeStandalone = "STANDALONE"
	SectionTypeOrdering   = "ORDERING"
	SectionTypeListening  = "LISTENING"
)

// legacySectionTitle is the title given to the synthetic section wrapping a
// legacy flat-array extraction response.
const legacySectionTitle = "Câu hỏi"

// ImportMode selects the extraction prompt shape.
type ImportMode string

const (
	ImportModeMCQ       ImportMode = "MCQ"
	ImportModeSectioned ImportMode = "SECTIONED"
)

// flexString tolerates the model returning a number or boolean where a string
// was asked for (correct answers like 42 or true come back unquoted).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	*f = flexString(data)
	return nil
}

// ExtractedQuestion is one question as the extraction model reports it,
// before materialization into a persisted row.
type ExtractedQuestion struct {
	QuestionNumber int        `json:"questionNumber"`
	Type           string     `json:"type"`
	Text           string     `json:"text"`
	Options        []string   `json:"options,omitempty"`
	Items          []string   `json:"items,omitempty"`
	CorrectAnswer  flexString `json:"correctAnswer,omitempty"`
	Points         float64    `json:"points,omitempty"`
}

// Section groups extracted questions sharing a title and, for reading or
// listening material, a passage. Order within one extraction batch is
// significant and must be preserved end to end.
type Section struct {
	Title              string              `json:"title"`
	Type               string              `json:"type"`
	Passage            string              `json:"passage,omitempty"`
	PassageTranslation string              `json:"passageTranslation,omitempty"`
	Questions          []ExtractedQuestion `json:"questions"`
}

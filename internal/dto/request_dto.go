package dto

import "encoding/json"

// ClassCreateDTO creates a class owned by a teacher. Authorization itself is
// handled upstream; the teacher ID arrives already verified.
type ClassCreateDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	TeacherID   uint   `json:"teacher_id" binding:"required"`
}

type AssignmentCreateDTO struct {
	Title       string  `json:"title" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=LECTURE QUIZ TEST ESSAY"`
	Content     *string `json:"content"`
	MaxAttempts int     `json:"max_attempts" binding:"omitempty,min=1"`
	OrderIndex  int     `json:"order_index"`
}

// QuestionCreateDTO is manual authoring of a single question, section
// metadata included.
type QuestionCreateDTO struct {
	Type               string   `json:"type" binding:"required,oneof=MCQ GAP_FILL ORDERING ESSAY WRITING SPEAKING SORTABLE"`
	Text               string   `json:"text" binding:"required"`
	Options            []string `json:"options"`
	Items              []string `json:"items"`
	CorrectAnswer      string   `json:"correct_answer"`
	Points             float64  `json:"points" binding:"omitempty,gt=0"`
	SectionTitle       string   `json:"section_title"`
	SectionType        string   `json:"section_type" binding:"omitempty,oneof=GAP_FILL READING STANDALONE ORDERING LISTENING"`
	Passage            string   `json:"passage"`
	PassageTranslation string   `json:"passage_translation"`
	SectionAudio       string   `json:"section_audio"`
	SectionImages      []string `json:"section_images"`
}

// ImportRequestDTO triggers AI extraction of an exam document into questions.
type ImportRequestDTO struct {
	Mode         string `json:"mode" binding:"required,oneof=MCQ SECTIONED"`
	DocumentText string `json:"document_text" binding:"required"`
	// Base64 document bytes for scanned sources; optional.
	DocumentData string `json:"document_data"`
	MIMEType     string `json:"mime_type"`
}

type SectionReorderDTO struct {
	SectionTitle string `json:"section_title" binding:"required"`
	Direction    string `json:"direction" binding:"required,oneof=UP DOWN"`
}

type SectionContentUpdateDTO struct {
	QuestionIDs        []uint   `json:"question_ids" binding:"required,min=1"`
	SectionTitle       string   `json:"section_title" binding:"required"`
	Passage            string   `json:"passage"`
	PassageTranslation string   `json:"passage_translation"`
	SectionAudio       string   `json:"section_audio"`
	SectionImages      []string `json:"section_images"`
}

// SubmissionCreateDTO is a student submitting one full attempt. Answer values
// stay raw JSON because their shape varies by question type.
type SubmissionCreateDTO struct {
	UserID  uint                       `json:"user_id" binding:"required"`
	Answers map[string]json.RawMessage `json:"answers" binding:"required"`
}

// TeacherGradeDTO is a manual grading pass over one submission.
type TeacherGradeDTO struct {
	GradedByID      uint     `json:"graded_by_id" binding:"required"`
	Score           *float64 `json:"score"`
	TeacherFeedback string   `json:"teacher_feedback"`
}

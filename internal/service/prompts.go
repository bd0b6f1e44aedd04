package service

import (
	"fmt"
	"strings"

	"github.com/lshigami/examforge/internal/model"
)

// buildExtractionPrompt asks the model to digitize an exam document into the
// JSON shape the normalizer expects. MCQ mode asks for a flat question array;
// sectioned mode asks for the full sections envelope.
func buildExtractionPrompt(mode ImportMode, documentText string) string {
	var b strings.Builder
	b.WriteString("You are an expert at digitizing exam documents into structured question banks.\n")
	b.WriteString("Read the exam document below and extract every question exactly as written, without inventing or dropping content.\n\n")

	switch mode {
	case ImportModeMCQ:
		b.WriteString("Return ONLY a JSON array of question objects, each of the form:\n")
		b.WriteString(`{"questionNumber": 1, "type": "MCQ", "text": "...", "options": ["A. ...", "B. ..."], "correctAnswer": "B", "points": 1}`)
		b.WriteString("\n")
	default:
		b.WriteString("Group the questions into their sections. Return ONLY a JSON object of the form:\n")
		b.WriteString(`{"sections": [{"title": "...", "type": "GAP_FILL|READING|STANDALONE|ORDERING|LISTENING", "passage": "...", "passageTranslation": "...", "questions": [{"questionNumber": 1, "type": "MCQ|GAP_FILL|ORDERING|ESSAY|WRITING|SPEAKING|SORTABLE", "text": "...", "options": [], "items": [], "correctAnswer": "", "points": 1}]}]}`)
		b.WriteString("\n")
		b.WriteString("Keep the sections in document order. Reading passages go in the section's 'passage' field, not inside questions.\n")
	}

	b.WriteString("\nDo not wrap the JSON in markdown code fences. Do not add commentary.\n\n")
	b.WriteString("Exam document:\n---\n")
	b.WriteString(documentText)
	b.WriteString("\n---\n")
	return b.String()
}

// buildGradingPrompt asks the model to evaluate one subjective answer. The
// response contract (SCORE/FEEDBACK lines) matches what ParseGradingResponse
// reads; JSON output is tolerated as a fallback grammar.
func buildGradingPrompt(question model.Question, content model.QuestionContent, studentAnswer string) string {
	var b strings.Builder
	b.WriteString("You are an experienced teacher grading a student's answer.\n\n")

	switch question.Type {
	case model.QuestionTypeWriting:
		b.WriteString("This is a writing task. Evaluate grammar, vocabulary, coherence, and how well the answer fulfils the task.\n")
	case model.QuestionTypeSpeaking:
		b.WriteString("This is a speaking task; the student's answer is an audio recording provided with this prompt, or a reference to one.\n")
		b.WriteString("Evaluate pronunciation cues you can infer, fluency, vocabulary, and task achievement.\n")
	default:
		b.WriteString("This is an essay question. Evaluate the argument, structure, relevance, and language quality.\n")
	}

	b.WriteString("\nQuestion:\n---\n")
	b.WriteString(content.Text)
	b.WriteString("\n---\n")

	if content.Passage != "" {
		b.WriteString("\nContext passage the question refers to:\n---\n")
		b.WriteString(content.Passage)
		b.WriteString("\n---\n")
	}
	if question.CorrectAnswer != "" {
		b.WriteString("\nGrading rubric / reference answer:\n---\n")
		b.WriteString(question.CorrectAnswer)
		b.WriteString("\n---\n")
	}

	b.WriteString("\nStudent's answer:\n---\n")
	b.WriteString(studentAnswer)
	b.WriteString("\n---\n\n")

	fmt.Fprintf(&b, `Score the answer from 0 to %.1f.
Format your response strictly as:
SCORE: [numeric score]
FEEDBACK:
[constructive feedback: strengths, specific errors with corrections, advice]
`, question.Points)
	return b.String()
}

package service

import (
	"strings"

	"github.com/lshigami/examforge/internal/model"
	"github.com/rs/zerolog/log"
)

// MaterializeSections flattens normalized sections into insertable question
// rows for one assignment. The parent section's identity (title, type,
// passage, translation) is copied into every question's content payload so a
// row is self-describing without a join; the grouping scan recovers section
// boundaries later from exactly this embedding.
//
// Rows missing a question type or text after defaulting are dropped; the
// skipped count is reported to the caller, it is not an error.
func MaterializeSections(sections []Section, assignmentID uint) (rows []model.Question, skipped int) {
	orderIndex := 0
	for _, section := range sections {
		for _, q := range section.Questions {
			text := strings.TrimSpace(q.Text)
			if q.Type == "" || text == "" {
				skipped++
				log.Warn().
					Str("sectionTitle", section.Title).
					Int("questionNumber", q.QuestionNumber).
					Msg("Skipping extracted question without type or text")
				continue
			}

			points := q.Points
			if points <= 0 {
				points = 1
			}

			row := model.Question{
				AssignmentID:  assignmentID,
				Type:          q.Type,
				CorrectAnswer: string(q.CorrectAnswer),
				Points:        points,
				OrderIndex:    orderIndex,
			}
			content := model.QuestionContent{
				Text:               text,
				Options:            q.Options,
				Items:              q.Items,
				SectionTitle:       section.Title,
				SectionType:        section.Type,
				Passage:            section.Passage,
				PassageTranslation: section.PassageTranslation,
			}
			if err := row.SetContentPayload(content); err != nil {
				skipped++
				log.Error().Err(err).Str("sectionTitle", section.Title).Msg("Failed to encode question content payload")
				continue
			}
			rows = append(rows, row)
			orderIndex++
		}
	}
	return rows, skipped
}

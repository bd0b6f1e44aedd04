package service

import (
	"fmt"

	"github.com/lshigami/examforge/internal/model"
	"github.com/lshigami/examforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	ReorderDirectionUp   = "UP"
	ReorderDirectionDown = "DOWN"
)

// QuestionGroup is one reconstructed section: a contiguous run of questions
// sharing the same embedded section title.
type QuestionGroup struct {
	Title              string
	Type               string
	Passage            string
	PassageTranslation string
	SectionAudio       string
	SectionImages      []string
	Questions          []model.Question
}

// GroupQuestions reconstructs section boundaries from rows ordered by
// (order_index, created_at). This is a strict left-to-right scan, not a
// group-by: a new group starts whenever the embedded title differs from the
// previous question's, so two non-adjacent runs with the same title remain
// two distinct sections. Both the display pipeline and the reorder operation
// rely on exactly this behavior.
func GroupQuestions(rows []model.Question) []QuestionGroup {
	var groups []QuestionGroup
	for _, row := range rows {
		content := row.ContentPayload()
		if len(groups) == 0 || groups[len(groups)-1].Title != content.SectionTitle {
			groups = append(groups, QuestionGroup{
				Title:              content.SectionTitle,
				Type:               content.SectionType,
				Passage:            content.Passage,
				PassageTranslation: content.PassageTranslation,
				SectionAudio:       content.SectionAudio,
				SectionImages:      content.SectionImages,
			})
		}
		last := len(groups) - 1
		groups[last].Questions = append(groups[last].Questions, row)
	}
	return groups
}

// SectionMetadata is the section-wide content applied to every question that
// denormalizes it.
type SectionMetadata struct {
	Title              string
	Passage            string
	PassageTranslation string
	SectionAudio       string
	SectionImages      []string
}

type SectionService interface {
	GetSections(assignmentID uint) ([]QuestionGroup, error)
	ReorderSection(assignmentID uint, title string, direction string) (changed int, err error)
	UpdateSectionContent(questionIDs []uint, meta SectionMetadata) error
}

type sectionService struct {
	questionRepo repository.QuestionRepository
	db           *gorm.DB
}

func NewSectionService(questionRepo repository.QuestionRepository, db *gorm.DB) SectionService {
	return &sectionService{questionRepo: questionRepo, db: db}
}

func (s *sectionService) GetSections(assignmentID uint) ([]QuestionGroup, error) {
	rows, err := s.questionRepo.FindByAssignmentID(assignmentID)
	if err != nil {
		log.Error().Err(err).Uint("assignmentID", assignmentID).Msg("GetSections: failed to load questions")
		return nil, fmt.Errorf("error loading questions for assignment %d: %w", assignmentID, err)
	}
	return GroupQuestions(rows), nil
}

// ReorderSection swaps the first group matching title with its neighbor in the
// given direction, then renumbers the flattened order into a dense 0..n-1
// sequence. Only rows whose order index actually changed are written, in one
// transaction. Moving the first group UP or the last group DOWN is a no-op
// that still succeeds.
func (s *sectionService) ReorderSection(assignmentID uint, title string, direction string) (int, error) {
	if direction != ReorderDirectionUp && direction != ReorderDirectionDown {
		return 0, fmt.Errorf("invalid reorder direction %q", direction)
	}

	rows, err := s.questionRepo.FindByAssignmentID(assignmentID)
	if err != nil {
		return 0, fmt.Errorf("error loading questions for assignment %d: %w", assignmentID, err)
	}

	changes, err := reorderPlan(GroupQuestions(rows), title, direction)
	if err != nil {
		log.Warn().Uint("assignmentID", assignmentID).Str("title", title).Msg("ReorderSection: no group matches title")
		return 0, err
	}
	if len(changes) == 0 {
		return 0, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range changes {
			if err := tx.Model(&model.Question{}).Where("id = ?", c.id).Update("order_index", c.order).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("assignmentID", assignmentID).Str("title", title).Msg("ReorderSection: transaction failed")
		return 0, fmt.Errorf("error persisting section reorder: %w", err)
	}
	return len(changes), nil
}

type questionReindex struct {
	id    uint
	order int
}

// reorderPlan computes the row updates a neighbor swap produces: the first
// group matching title changes places with its neighbor, then the flattened
// question order is renumbered into a dense 0..n-1 sequence. Only rows whose
// index actually changes are in the plan; a boundary move yields an empty one.
func reorderPlan(groups []QuestionGroup, title, direction string) ([]questionReindex, error) {
	source := -1
	for i, g := range groups {
		if g.Title == title {
			source = i
			break
		}
	}
	if source == -1 {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, title)
	}

	target := source - 1
	if direction == ReorderDirectionDown {
		target = source + 1
	}
	if target < 0 || target >= len(groups) {
		// Already at the boundary in that direction.
		return nil, nil
	}

	reordered := make([]QuestionGroup, len(groups))
	copy(reordered, groups)
	reordered[source], reordered[target] = reordered[target], reordered[source]

	var changes []questionReindex
	next := 0
	for _, g := range reordered {
		for _, q := range g.Questions {
			if q.OrderIndex != next {
				changes = append(changes, questionReindex{id: q.ID, order: next})
			}
			next++
		}
	}
	return changes, nil
}

// UpdateSectionContent overwrites the embedded section fields of every named
// question in one transaction. This is how a section-wide metadata change
// (adding audio, fixing a passage) fans out to all questions denormalizing it.
func (s *sectionService) UpdateSectionContent(questionIDs []uint, meta SectionMetadata) error {
	if len(questionIDs) == 0 {
		return nil
	}
	rows, err := s.questionRepo.FindByIDs(questionIDs)
	if err != nil {
		return fmt.Errorf("error loading questions for section edit: %w", err)
	}
	if len(rows) != len(questionIDs) {
		log.Warn().Int("requested", len(questionIDs)).Int("found", len(rows)).Msg("UpdateSectionContent: some question IDs were not found")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			content := rows[i].ContentPayload()
			content.SectionTitle = meta.Title
			content.Passage = meta.Passage
			content.PassageTranslation = meta.PassageTranslation
			content.SectionAudio = meta.SectionAudio
			content.SectionImages = meta.SectionImages
			if err := rows[i].SetContentPayload(content); err != nil {
				return fmt.Errorf("error encoding content for question %d: %w", rows[i].ID, err)
			}
			if err := tx.Model(&model.Question{}).Where("id = ?", rows[i].ID).Update("content", rows[i].Content).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

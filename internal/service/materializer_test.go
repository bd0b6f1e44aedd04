package service

import "testing"

func TestMaterializeSections_EmbedsSectionMetadata(t *testing.T) {
	sections := []Section{
		{
			Title:   "Part A",
			Type:    "READING",
			Passage: "The passage text.",
			Questions: []ExtractedQuestion{
				{Type: "MCQ", Text: "Q1", Options: []string{"a", "b"}, CorrectAnswer: "a", Points: 2},
				{Type: "MCQ", Text: "Q2", Options: []string{"c", "d"}, CorrectAnswer: "c"},
			},
		},
		{
			Title: "Part B",
			Type:  "STANDALONE",
			Questions: []ExtractedQuestion{
				{Type: "ESSAY", Text: "Write about it."},
			},
		},
	}

	rows, skipped := MaterializeSections(sections, 7)
	if skipped != 0 {
		t.Fatalf("expected no skips, got %d", skipped)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	for i, row := range rows {
		if row.AssignmentID != 7 {
			t.Fatalf("row %d has assignment %d", i, row.AssignmentID)
		}
		if row.OrderIndex != i {
			t.Fatalf("expected dense order index %d, got %d", i, row.OrderIndex)
		}
	}

	first := rows[0].ContentPayload()
	if first.SectionTitle != "Part A" || first.SectionType != "READING" || first.Passage != "The passage text." {
		t.Fatalf("section metadata not embedded: %+v", first)
	}
	if rows[0].Points != 2 {
		t.Fatalf("explicit points lost: %v", rows[0].Points)
	}
	if rows[1].Points != 1 {
		t.Fatalf("expected default points 1, got %v", rows[1].Points)
	}

	third := rows[2].ContentPayload()
	if third.SectionTitle != "Part B" {
		t.Fatalf("second section metadata not embedded: %+v", third)
	}
}

func TestMaterializeSections_SkipsRowsWithoutTypeOrText(t *testing.T) {
	sections := []Section{
		{
			Title: "Mixed",
			Type:  "STANDALONE",
			Questions: []ExtractedQuestion{
				{Type: "MCQ", Text: "Keep me", CorrectAnswer: "a"},
				{Type: "", Text: "No type"},
				{Type: "MCQ", Text: "   "},
			},
		},
	}

	rows, skipped := MaterializeSections(sections, 1)
	if len(rows) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(rows))
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", skipped)
	}
	if rows[0].OrderIndex != 0 {
		t.Fatalf("surviving row should start at index 0, got %d", rows[0].OrderIndex)
	}
}

func TestMaterializeSections_RoundTripsThroughGrouping(t *testing.T) {
	sections := []Section{
		{Title: "S1", Type: "READING", Passage: "p1", Questions: []ExtractedQuestion{
			{Type: "MCQ", Text: "a"}, {Type: "MCQ", Text: "b"},
		}},
		{Title: "S2", Type: "GAP_FILL", Questions: []ExtractedQuestion{
			{Type: "GAP_FILL", Text: "c"},
		}},
		{Title: "S1", Type: "READING", Passage: "p1 again", Questions: []ExtractedQuestion{
			{Type: "MCQ", Text: "d"},
		}},
	}

	rows, _ := MaterializeSections(sections, 1)
	groups := GroupQuestions(rows)

	// The non-adjacent repeat of S1 must come back as a third group, not be
	// merged into the first one.
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	wantTitles := []string{"S1", "S2", "S1"}
	wantCounts := []int{2, 1, 1}
	for i, g := range groups {
		if g.Title != wantTitles[i] {
			t.Fatalf("group %d title %q, want %q", i, g.Title, wantTitles[i])
		}
		if len(g.Questions) != wantCounts[i] {
			t.Fatalf("group %d has %d questions, want %d", i, len(g.Questions), wantCounts[i])
		}
	}
}

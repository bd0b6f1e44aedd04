package service

import (
	"testing"

	"github.com/lshigami/examforge/internal/model"
)

func scored(v float64) model.Submission {
	return model.Submission{Score: &v}
}

func TestBestScoreKeepsHighestAttempt(t *testing.T) {
	previous := []model.Submission{scored(4), scored(9)}
	if got := bestScore(previous, 6); got != 9 {
		t.Fatalf("expected best score 9 across attempts 4, 9, 6, got %v", got)
	}
}

func TestBestScoreCurrentAttemptWins(t *testing.T) {
	previous := []model.Submission{scored(2.5), scored(5)}
	if got := bestScore(previous, 7.5); got != 7.5 {
		t.Fatalf("expected current attempt 7.5 to win, got %v", got)
	}
}

func TestBestScoreIgnoresUnscoredAttempts(t *testing.T) {
	previous := []model.Submission{{Score: nil}, scored(3)}
	if got := bestScore(previous, 1); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}

func TestBestScoreNoPreviousAttempts(t *testing.T) {
	if got := bestScore(nil, 4.2); got != 4.2 {
		t.Fatalf("expected 4.2, got %v", got)
	}
}

package service

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// parseFailedFeedback is returned when no grammar could make sense of the
// model output. The student still gets a result; a human grader follows up.
const parseFailedFeedback = "Automated grading could not be parsed for this answer. A teacher will review and score it manually."

// GradingFeedback is the normalized outcome of one subjective grading call.
// Degraded marks the "parsing failed, defaulted to zero" state that surfaces
// as needs-review in the gradebook.
type GradingFeedback struct {
	Score    float64
	Feedback string
	Degraded bool
}

var (
	scoreLineRe      = regexp.MustCompile(`(?i)score:\s*(-?[0-9]+(?:[.,][0-9]+)?)`)
	feedbackMarkerRe = regexp.MustCompile(`(?i)feedback:`)
)

// gradingGrammar attempts one way of reading the model response. ok is false
// when the grammar does not apply; the next one in the chain is tried.
type gradingGrammar func(raw string) (score float64, feedback string, ok bool)

// ParseGradingResponse parses a free-text grading response into a score and
// feedback. Grammars are tried in order, first success wins, and the final
// fallback never fails: unusable output degrades to score zero with a fixed
// review message rather than blocking the student.
func ParseGradingResponse(raw string, maxPoints float64) GradingFeedback {
	for _, grammar := range []gradingGrammar{parseMarkerGrammar, parseJSONGrammar} {
		if score, feedback, ok := grammar(raw); ok {
			return GradingFeedback{
				Score:    clampScore(score, maxPoints),
				Feedback: feedback,
			}
		}
	}
	return GradingFeedback{Score: 0, Feedback: parseFailedFeedback, Degraded: true}
}

// parseMarkerGrammar reads the primary "SCORE: <number>" / "FEEDBACK:" line
// format. Everything after the feedback marker, markdown and newlines
// included, is taken verbatim. A score line without a feedback marker falls
// back to everything after the score line.
func parseMarkerGrammar(raw string) (float64, string, bool) {
	scoreLoc := scoreLineRe.FindStringSubmatchIndex(raw)
	if scoreLoc == nil {
		return 0, "", false
	}
	scoreStr := strings.ReplaceAll(raw[scoreLoc[2]:scoreLoc[3]], ",", ".")
	score, err := strconv.ParseFloat(scoreStr, 64)
	if err != nil {
		return 0, "", false
	}

	rest := raw[scoreLoc[1]:]
	if markerLoc := feedbackMarkerRe.FindStringIndex(rest); markerLoc != nil {
		return score, strings.TrimSpace(rest[markerLoc[1]:]), true
	}
	return score, strings.TrimSpace(rest), true
}

// parseJSONGrammar locates a JSON object substring (first '{' to last '}')
// and reads {score, feedback} from it. Literal \n sequences the model left in
// the feedback text are unescaped.
func parseJSONGrammar(raw string) (float64, string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return 0, "", false
	}

	var payload struct {
		Score    json.Number `json:"score"`
		Feedback string      `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return 0, "", false
	}
	score, err := payload.Score.Float64()
	if err != nil {
		return 0, "", false
	}
	feedback := strings.ReplaceAll(payload.Feedback, `\n`, "\n")
	return score, strings.TrimSpace(feedback), true
}

// clampScore coerces a parsed score into the valid range: NaN becomes 0, the
// value is clamped to [0, maxPoints] and rounded to one decimal place.
func clampScore(score, maxPoints float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	if score < 0 {
		score = 0
	}
	if maxPoints >= 0 && score > maxPoints {
		score = maxPoints
	}
	return math.Round(score*10) / 10
}

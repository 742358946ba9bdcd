package domain

import (
	"fmt"
	"strings"
)

const (
	// QuizSize is the number of questions in a generated quiz.
	QuizSize = 10
	// OptionCount is the number of choices per question.
	OptionCount = 4
)

// Difficulty is the difficulty label of a quiz question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty maps a free-form label to one of the three recognized
// difficulties. Anything unrecognized (including an empty string) becomes
// Medium.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// QuizItem is one validated multiple-choice question.
type QuizItem struct {
	Question   string     `json:"question"`
	Options    []string   `json:"options"`
	Answer     int        `json:"answer"`
	Difficulty Difficulty `json:"difficulty"`
}

// Validate checks the QuizItem invariants: non-empty question, exactly
// four options, and an answer index into them.
func (q QuizItem) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewSchemaViolationError("question is required")
	}
	if len(q.Options) != OptionCount {
		return NewSchemaViolationError(fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)))
	}
	if q.Answer < 0 || q.Answer >= OptionCount {
		return NewSchemaViolationError(fmt.Sprintf("answer index %d out of range [0,%d]", q.Answer, OptionCount-1))
	}
	return nil
}

// CorrectOption returns the display text of the correct choice.
func (q QuizItem) CorrectOption() string {
	return q.Options[q.Answer]
}

// OptionLabel returns the display letter for an option index (A-D).
func OptionLabel(idx int) string {
	return string(rune('A' + idx))
}

package service

import (
	"fmt"
	"strings"

	"studygen/internal/domain"
)

// FallbackQuiz builds a deterministic quiz from the notes text when the
// model-backed pipeline has exhausted its attempts. Each question quotes
// a line of the notes as the true statement; the correct answer is always
// the first option. Difficulties split 4 Easy, 3 Medium, 3 Hard.
func FallbackQuiz(topic, notes string) []domain.QuizItem {
	var lines []string
	for _, line := range strings.Split(notes, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	items := make([]domain.QuizItem, 0, domain.QuizSize)
	for i := 0; i < domain.QuizSize; i++ {
		snippet := fmt.Sprintf("Fact about %s", topic)
		if len(lines) > 0 {
			snippet = lines[i%len(lines)]
		}

		items = append(items, domain.QuizItem{
			Question: fmt.Sprintf("Which statement about the topic is true? (%s)", truncate(snippet, 80)),
			Options: []string{
				snippet + " (true)",
				"Incorrect option A",
				"Incorrect option B",
				"Incorrect option C",
			},
			Answer:     0,
			Difficulty: fallbackDifficulty(i),
		})
	}
	return items
}

func fallbackDifficulty(i int) domain.Difficulty {
	switch {
	case i < 4:
		return domain.DifficultyEasy
	case i < 7:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyHard
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

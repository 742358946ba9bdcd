package pdf

import (
	"testing"

	"studygen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizItems() []domain.QuizItem {
	items := make([]domain.QuizItem, domain.QuizSize)
	for i := range items {
		items[i] = domain.QuizItem{
			Question:   "What does the select statement do?",
			Options:    []string{"Waits on channels", "Sorts slices", "Opens files", "Starts goroutines"},
			Answer:     0,
			Difficulty: domain.DifficultyMedium,
		}
	}
	return items
}

func assertPDF(t *testing.T, data []byte) {
	t.Helper()
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestNotes(t *testing.T) {
	md := "# Go Basics\n\nGo is a compiled language.\n\n## Syntax\n\n- Short variable declarations\n- Deferred calls\n\n```\nfmt.Println(\"hi\")\n```\n\n**Remember this.**\n\n1. First step\n"

	data, err := Notes("Notes: Go Basics", md)
	require.NoError(t, err)
	assertPDF(t, data)

	t.Run("Empty markdown still renders", func(t *testing.T) {
		data, err := Notes("Notes: Empty", "")
		require.NoError(t, err)
		assertPDF(t, data)
	})

	t.Run("Non-latin text is transliterated", func(t *testing.T) {
		data, err := Notes("Notes: Unicode", "Gödel wrote about 数学 and naïveté.")
		require.NoError(t, err)
		assertPDF(t, data)
	})
}

func TestQuiz(t *testing.T) {
	data, err := Quiz("Quiz: Go Basics", quizItems())
	require.NoError(t, err)
	assertPDF(t, data)
}

func TestAnswerKey(t *testing.T) {
	data, err := AnswerKey("Answer Key: Go Basics", quizItems())
	require.NoError(t, err)
	assertPDF(t, data)
}

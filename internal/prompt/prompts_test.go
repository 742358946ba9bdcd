package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestForQuizAttempt(t *testing.T) {
	assert.Equal(t, Quiz, ForQuizAttempt(0))
	assert.Equal(t, Quiz, ForQuizAttempt(1))
	assert.Equal(t, QuizStrict, ForQuizAttempt(2))
	assert.Equal(t, QuizStrict, ForQuizAttempt(3))

	assert.True(t, strings.HasPrefix(QuizStrict, "IMPORTANT:"))
	assert.Contains(t, QuizStrict, Quiz)
}

func TestIllustration(t *testing.T) {
	t.Run("With context", func(t *testing.T) {
		p := Illustration("Go", "Go is a compiled language.")
		assert.Contains(t, p, "Go")
		assert.Contains(t, p, "Context: Go is a compiled language.")
	})

	t.Run("Context is truncated", func(t *testing.T) {
		long := strings.Repeat("x", 500)
		p := Illustration("Go", long)
		assert.NotContains(t, p, strings.Repeat("x", 201))
	})

	t.Run("Multi-byte context truncates on a rune boundary", func(t *testing.T) {
		long := strings.Repeat("é", 300)
		p := Illustration("Go", long)
		assert.True(t, utf8.ValidString(p))
		assert.Equal(t, 200, strings.Count(p, "é"))
	})

	t.Run("Without context", func(t *testing.T) {
		p := Illustration("Go", "")
		assert.NotContains(t, p, "Context:")
	})
}

func TestIllustrationAspects(t *testing.T) {
	aspects := IllustrationAspects("Go")
	assert.Len(t, aspects, 5)
	for _, a := range aspects {
		assert.Contains(t, a, "Go")
	}
}

package domain

import (
	"time"
)

// Illustration is a generated educational image for a study pack.
type Illustration struct {
	Prompt string `json:"prompt"`
	URL    string `json:"url"`
}

// StudyPack is the full generated bundle for a topic. It is immutable
// once assembled.
type StudyPack struct {
	Topic         string         `json:"topic"`
	Outline       string         `json:"outline"`
	NotesMarkdown string         `json:"notes_markdown"`
	TOCMarkdown   string         `json:"toc_markdown"`
	References    string         `json:"references"`
	Images        []Illustration `json:"images"`
	Quiz          []QuizItem     `json:"quiz"`
	QuizFallback  bool           `json:"quiz_fallback"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// StudySession is the caller-owned state for one browser tab working
// through a pack: the pack itself plus recorded answers. All mutation
// goes through methods so the invariants stay local.
type StudySession struct {
	ID        string    `json:"id"`
	Pack      StudyPack `json:"pack"`
	Answers   []*int    `json:"answers"`
	Submitted bool      `json:"submitted"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStudySession creates a session over a pack with no answers recorded.
func NewStudySession(id string, pack StudyPack) *StudySession {
	return &StudySession{
		ID:        id,
		Pack:      pack,
		Answers:   make([]*int, len(pack.Quiz)),
		CreatedAt: time.Now(),
	}
}

// RecordAnswer stores the user's choice for one question. A choice of -1
// clears the recorded answer.
func (s *StudySession) RecordAnswer(question, choice int) error {
	if question < 0 || question >= len(s.Answers) {
		return ValidationErrors{NewOutOfRangeError("question", question, 0, len(s.Answers)-1)}
	}
	if choice == -1 {
		s.Answers[question] = nil
		return nil
	}
	if choice < 0 || choice >= OptionCount {
		return ValidationErrors{NewOutOfRangeError("choice", choice, 0, OptionCount-1)}
	}
	c := choice
	s.Answers[question] = &c
	return nil
}

// AllAnswered reports whether every question has a recorded answer.
func (s *StudySession) AllAnswered() bool {
	for _, a := range s.Answers {
		if a == nil {
			return false
		}
	}
	return len(s.Answers) > 0
}

// Reset clears all recorded answers and the submission flag.
func (s *StudySession) Reset() {
	s.Answers = make([]*int, len(s.Pack.Quiz))
	s.Submitted = false
}

// QuestionResult is the graded outcome of a single question.
type QuestionResult struct {
	Index         int        `json:"index"`
	Question      string     `json:"question"`
	Difficulty    Difficulty `json:"difficulty"`
	CorrectAnswer int        `json:"correct_answer"`
	CorrectOption string     `json:"correct_option"`
	UserAnswer    *int       `json:"user_answer,omitempty"`
	Correct       bool       `json:"correct"`
}

// QuizResult is the graded outcome of a whole session.
type QuizResult struct {
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Percentage float64          `json:"percentage"`
	Results    []QuestionResult `json:"results"`
}

// Grade scores the recorded answers against the quiz. Unanswered
// questions count as wrong.
func (s *StudySession) Grade() QuizResult {
	result := QuizResult{Total: len(s.Pack.Quiz)}
	for i, q := range s.Pack.Quiz {
		qr := QuestionResult{
			Index:         i,
			Question:      q.Question,
			Difficulty:    q.Difficulty,
			CorrectAnswer: q.Answer,
			CorrectOption: q.CorrectOption(),
			UserAnswer:    s.Answers[i],
		}
		if s.Answers[i] != nil && *s.Answers[i] == q.Answer {
			qr.Correct = true
			result.Score++
		}
		result.Results = append(result.Results, qr)
	}
	if result.Total > 0 {
		result.Percentage = float64(result.Score) / float64(result.Total) * 100
	}
	return result
}

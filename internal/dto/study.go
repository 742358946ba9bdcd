package dto

import (
	"time"

	"studygen/internal/domain"
)

// OutlineRequest asks for a preview outline of a topic
// @Description Request body for generating an outline
type OutlineRequest struct {
	Topic string `json:"topic"`
}

// OutlineResponse carries the generated outline
type OutlineResponse struct {
	Topic   string `json:"topic"`
	Outline string `json:"outline"`
}

// CreatePackRequest asks for a full study pack
// @Description Request body for generating a study pack
type CreatePackRequest struct {
	Topic string `json:"topic"`
}

// IllustrationResponse is one generated image
type IllustrationResponse struct {
	Prompt string `json:"prompt"`
	URL    string `json:"url"`
}

// QuizItemResponse is one quiz question as shown to the user. The
// correct answer index is deliberately omitted; it is revealed through
// submission results and the answer-key PDF.
type QuizItemResponse struct {
	Index      int      `json:"index"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

// StudyPackResponse is the generated pack plus the session handle
// @Description A generated study pack with its session
type StudyPackResponse struct {
	SessionID    string                 `json:"session_id"`
	SessionToken string                 `json:"session_token"`
	Topic        string                 `json:"topic"`
	Outline      string                 `json:"outline"`
	Notes        string                 `json:"notes"`
	TOC          string                 `json:"toc,omitempty"`
	References   string                 `json:"references,omitempty"`
	Images       []IllustrationResponse `json:"images,omitempty"`
	Quiz         []QuizItemResponse     `json:"quiz"`
	QuizFallback bool                   `json:"quiz_fallback"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

// SessionResponse is the current state of a study session
type SessionResponse struct {
	SessionID string             `json:"session_id"`
	Topic     string             `json:"topic"`
	Quiz      []QuizItemResponse `json:"quiz"`
	Answers   []*int             `json:"answers"`
	Submitted bool               `json:"submitted"`
}

// RecordAnswerRequest records the user's choice for one question
// @Description Request body for recording an answer; choice -1 clears it
type RecordAnswerRequest struct {
	Question int `json:"question"`
	Choice   int `json:"choice"`
}

// QuestionResultResponse is the graded outcome of one question
type QuestionResultResponse struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	Difficulty    string `json:"difficulty"`
	CorrectAnswer int    `json:"correct_answer"`
	CorrectOption string `json:"correct_option"`
	UserAnswer    *int   `json:"user_answer,omitempty"`
	Correct       bool   `json:"correct"`
}

// SubmitResponse is the graded quiz
type SubmitResponse struct {
	Score      int                      `json:"score"`
	Total      int                      `json:"total"`
	Percentage float64                  `json:"percentage"`
	Feedback   string                   `json:"feedback"`
	Results    []QuestionResultResponse `json:"results"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromQuizItems maps domain quiz items to their response shape.
func FromQuizItems(items []domain.QuizItem) []QuizItemResponse {
	out := make([]QuizItemResponse, len(items))
	for i, q := range items {
		out[i] = QuizItemResponse{
			Index:      i,
			Question:   q.Question,
			Options:    q.Options,
			Difficulty: string(q.Difficulty),
		}
	}
	return out
}

// FromStudyPack maps a pack and its session handle to the response shape.
func FromStudyPack(pack *domain.StudyPack, sessionID, token string) *StudyPackResponse {
	images := make([]IllustrationResponse, len(pack.Images))
	for i, img := range pack.Images {
		images[i] = IllustrationResponse{Prompt: img.Prompt, URL: img.URL}
	}
	return &StudyPackResponse{
		SessionID:    sessionID,
		SessionToken: token,
		Topic:        pack.Topic,
		Outline:      pack.Outline,
		Notes:        pack.NotesMarkdown,
		TOC:          pack.TOCMarkdown,
		References:   pack.References,
		Images:       images,
		Quiz:         FromQuizItems(pack.Quiz),
		QuizFallback: pack.QuizFallback,
		GeneratedAt:  pack.GeneratedAt,
	}
}

// FromSession maps a session to its response shape.
func FromSession(s *domain.StudySession) *SessionResponse {
	return &SessionResponse{
		SessionID: s.ID,
		Topic:     s.Pack.Topic,
		Quiz:      FromQuizItems(s.Pack.Quiz),
		Answers:   s.Answers,
		Submitted: s.Submitted,
	}
}

// FromQuizResult maps a graded result, attaching performance feedback.
func FromQuizResult(r *domain.QuizResult) *SubmitResponse {
	results := make([]QuestionResultResponse, len(r.Results))
	for i, qr := range r.Results {
		results[i] = QuestionResultResponse{
			Index:         qr.Index,
			Question:      qr.Question,
			Difficulty:    string(qr.Difficulty),
			CorrectAnswer: qr.CorrectAnswer,
			CorrectOption: qr.CorrectOption,
			UserAnswer:    qr.UserAnswer,
			Correct:       qr.Correct,
		}
	}
	return &SubmitResponse{
		Score:      r.Score,
		Total:      r.Total,
		Percentage: r.Percentage,
		Feedback:   feedbackFor(r.Percentage),
		Results:    results,
	}
}

func feedbackFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Excellent work! You've mastered this topic!"
	case percentage >= 80:
		return "Great job! You have a solid understanding."
	case percentage >= 70:
		return "Good effort! Review the incorrect answers to improve."
	case percentage >= 60:
		return "Keep studying! Focus on the areas you missed."
	default:
		return "More study needed. Review the material and try again."
	}
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"studygen/internal/domain"
	"studygen/internal/dto"
	"studygen/internal/handler"
	"studygen/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

// MockStudyService
type MockStudyService struct {
	GenerateOutlineFunc func(ctx context.Context, topic string) (string, error)
	GeneratePackFunc    func(ctx context.Context, topic string) (*domain.StudyPack, error)
}

func (m *MockStudyService) GenerateOutline(ctx context.Context, topic string) (string, error) {
	if m.GenerateOutlineFunc != nil {
		return m.GenerateOutlineFunc(ctx, topic)
	}
	panic("MockStudyService.GenerateOutlineFunc not implemented")
}
func (m *MockStudyService) GeneratePack(ctx context.Context, topic string) (*domain.StudyPack, error) {
	if m.GeneratePackFunc != nil {
		return m.GeneratePackFunc(ctx, topic)
	}
	panic("MockStudyService.GeneratePackFunc not implemented")
}

// MockSessionService
type MockSessionService struct {
	CreateSessionFunc func(ctx context.Context, pack *domain.StudyPack) (*domain.StudySession, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*domain.StudySession, error)
	RecordAnswerFunc  func(ctx context.Context, sessionID string, question, choice int) (*domain.StudySession, error)
	SubmitFunc        func(ctx context.Context, sessionID string) (*domain.QuizResult, error)
	ResetFunc         func(ctx context.Context, sessionID string) (*domain.StudySession, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error
}

func (m *MockSessionService) CreateSession(ctx context.Context, pack *domain.StudyPack) (*domain.StudySession, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, pack)
	}
	panic("MockSessionService.CreateSessionFunc not implemented")
}
func (m *MockSessionService) GetSession(ctx context.Context, sessionID string) (*domain.StudySession, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	panic("MockSessionService.GetSessionFunc not implemented")
}
func (m *MockSessionService) RecordAnswer(ctx context.Context, sessionID string, question, choice int) (*domain.StudySession, error) {
	if m.RecordAnswerFunc != nil {
		return m.RecordAnswerFunc(ctx, sessionID, question, choice)
	}
	panic("MockSessionService.RecordAnswerFunc not implemented")
}
func (m *MockSessionService) Submit(ctx context.Context, sessionID string) (*domain.QuizResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, sessionID)
	}
	panic("MockSessionService.SubmitFunc not implemented")
}
func (m *MockSessionService) Reset(ctx context.Context, sessionID string) (*domain.StudySession, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	panic("MockSessionService.ResetFunc not implemented")
}
func (m *MockSessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	panic("MockSessionService.DeleteSessionFunc not implemented")
}

// MockTokenService
type MockTokenService struct {
	IssueSessionTokenFunc    func(sessionID string) (string, error)
	ValidateSessionTokenFunc func(tokenString string) (string, error)
}

func (m *MockTokenService) IssueSessionToken(sessionID string) (string, error) {
	if m.IssueSessionTokenFunc != nil {
		return m.IssueSessionTokenFunc(sessionID)
	}
	panic("MockTokenService.IssueSessionTokenFunc not implemented")
}
func (m *MockTokenService) ValidateSessionToken(tokenString string) (string, error) {
	if m.ValidateSessionTokenFunc != nil {
		return m.ValidateSessionTokenFunc(tokenString)
	}
	panic("MockTokenService.ValidateSessionTokenFunc not implemented")
}

const validSessionID = "01ARZ3NDEKTSV4RRFFQ69G5FAV"

func testPack() *domain.StudyPack {
	items := make([]domain.QuizItem, domain.QuizSize)
	for i := range items {
		items[i] = domain.QuizItem{
			Question:   "Question",
			Options:    []string{"a", "b", "c", "d"},
			Answer:     0,
			Difficulty: domain.DifficultyEasy,
		}
	}
	return &domain.StudyPack{
		Topic:         "Go",
		Outline:       "1. Basics",
		NotesMarkdown: "# Go\n\nNotes.",
		Quiz:          items,
	}
}

func newTestApp(h *handler.StudyHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Post("/api/outline", h.GenerateOutline)
	app.Post("/api/study-packs", h.CreateStudyPack)
	app.Get("/api/sessions/:id", h.GetSession)
	app.Delete("/api/sessions/:id", h.DeleteSession)
	app.Put("/api/sessions/:id/answers", h.RecordAnswer)
	app.Post("/api/sessions/:id/submit", h.SubmitQuiz)
	app.Post("/api/sessions/:id/reset", h.ResetSession)
	app.Get("/api/sessions/:id/pdf/:kind", h.DownloadPDF)
	return app
}

type testResponse struct {
	Code int
	Body []byte
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) testResponse {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return testResponse{Code: resp.StatusCode, Body: data}
}

func TestGenerateOutline(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		studySvc := &MockStudyService{
			GenerateOutlineFunc: func(ctx context.Context, topic string) (string, error) {
				assert.Equal(t, "Go", topic)
				return "1. Basics\n2. Concurrency", nil
			},
		}
		h := handler.NewStudyHandler(studySvc, &MockSessionService{}, &MockTokenService{})
		app := newTestApp(h)

		rec := doJSON(t, app, "POST", "/api/outline", dto.OutlineRequest{Topic: "Go"})

		assert.Equal(t, fiber.StatusOK, rec.Code)
		var body dto.OutlineResponse
		require.NoError(t, json.Unmarshal(rec.Body, &body))
		assert.Equal(t, "1. Basics\n2. Concurrency", body.Outline)
	})

	t.Run("Empty topic rejected", func(t *testing.T) {
		h := handler.NewStudyHandler(&MockStudyService{}, &MockSessionService{}, &MockTokenService{})
		app := newTestApp(h)

		rec := doJSON(t, app, "POST", "/api/outline", dto.OutlineRequest{Topic: "   "})
		assert.Equal(t, fiber.StatusBadRequest, rec.Code)
	})

	t.Run("Upstream failure maps to 503", func(t *testing.T) {
		studySvc := &MockStudyService{
			GenerateOutlineFunc: func(ctx context.Context, topic string) (string, error) {
				return "", domain.NewUpstreamFailureError("model unavailable", nil)
			},
		}
		h := handler.NewStudyHandler(studySvc, &MockSessionService{}, &MockTokenService{})
		app := newTestApp(h)

		rec := doJSON(t, app, "POST", "/api/outline", dto.OutlineRequest{Topic: "Go"})
		assert.Equal(t, fiber.StatusServiceUnavailable, rec.Code)
	})
}

func TestCreateStudyPack(t *testing.T) {
	t.Run("Success issues a session and token", func(t *testing.T) {
		pack := testPack()
		studySvc := &MockStudyService{
			GeneratePackFunc: func(ctx context.Context, topic string) (*domain.StudyPack, error) {
				return pack, nil
			},
		}
		sessionSvc := &MockSessionService{
			CreateSessionFunc: func(ctx context.Context, p *domain.StudyPack) (*domain.StudySession, error) {
				return domain.NewStudySession(validSessionID, *p), nil
			},
		}
		tokenSvc := &MockTokenService{
			IssueSessionTokenFunc: func(sessionID string) (string, error) {
				assert.Equal(t, validSessionID, sessionID)
				return "signed-token", nil
			},
		}
		h := handler.NewStudyHandler(studySvc, sessionSvc, tokenSvc)
		app := newTestApp(h)

		rec := doJSON(t, app, "POST", "/api/study-packs", dto.CreatePackRequest{Topic: "Go"})

		assert.Equal(t, fiber.StatusCreated, rec.Code)
		var body dto.StudyPackResponse
		require.NoError(t, json.Unmarshal(rec.Body, &body))
		assert.Equal(t, validSessionID, body.SessionID)
		assert.Equal(t, "signed-token", body.SessionToken)
		assert.Len(t, body.Quiz, domain.QuizSize)
	})

	t.Run("Retry exhaustion maps to 503", func(t *testing.T) {
		studySvc := &MockStudyService{
			GeneratePackFunc: func(ctx context.Context, topic string) (*domain.StudyPack, error) {
				return nil, domain.NewRetryExhaustedError(nil)
			},
		}
		h := handler.NewStudyHandler(studySvc, &MockSessionService{}, &MockTokenService{})
		app := newTestApp(h)

		rec := doJSON(t, app, "POST", "/api/study-packs", dto.CreatePackRequest{Topic: "Go"})
		assert.Equal(t, fiber.StatusServiceUnavailable, rec.Code)
	})
}

func TestGetSession(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		sessionSvc := &MockSessionService{
			GetSessionFunc: func(ctx context.Context, sessionID string) (*domain.StudySession, error) {
				assert.Equal(t, validSessionID, sessionID)
				return domain.NewStudySession(validSessionID, *testPack()), nil
			},
		}
		h := handler.NewStudyHandler(&MockStudyService{}, sessionSvc, &MockTokenService{})
		app := newTestApp(h)

		req := httptest.NewRequest("GET", "/api/sessions/"+validSessionID, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body dto.SessionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, validSessionID, body.SessionID)
		assert.False(t, body.Submitted)
	})

	t.Run("Not found maps to 404", func(t *testing.T) {
		sessionSvc := &MockSessionService{
			GetSessionFunc: func(ctx context.Context, sessionID string) (*domain.StudySession, error) {
				return nil, domain.NewSessionNotFoundError(sessionID)
			},
		}
		h := handler.NewStudyHandler(&MockStudyService{}, sessionSvc, &MockTokenService{})
		app := newTestApp(h)

		req := httptest.NewRequest("GET", "/api/sessions/"+validSessionID, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Malformed session ID rejected", func(t *testing.T) {
		h := handler.NewStudyHandler(&MockStudyService{}, &MockSessionService{}, &MockTokenService{})
		app := newTestApp(h)

		req := httptest.NewRequest("GET", "/api/sessions/not-a-ulid", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestRecordAnswer(t *testing.T) {
	sessionSvc := &MockSessionService{
		RecordAnswerFunc: func(ctx context.Context, sessionID string, question, choice int) (*domain.StudySession, error) {
			assert.Equal(t, 2, question)
			assert.Equal(t, 1, choice)
			session := domain.NewStudySession(validSessionID, *testPack())
			_ = session.RecordAnswer(question, choice)
			return session, nil
		},
	}
	h := handler.NewStudyHandler(&MockStudyService{}, sessionSvc, &MockTokenService{})
	app := newTestApp(h)

	rec := doJSON(t, app, "PUT", "/api/sessions/"+validSessionID+"/answers",
		dto.RecordAnswerRequest{Question: 2, Choice: 1})

	assert.Equal(t, fiber.StatusOK, rec.Code)
	var body dto.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body, &body))
	require.NotNil(t, body.Answers[2])
	assert.Equal(t, 1, *body.Answers[2])
}

func TestSubmitQuiz(t *testing.T) {
	t.Run("Graded result with feedback", func(t *testing.T) {
		sessionSvc := &MockSessionService{
			SubmitFunc: func(ctx context.Context, sessionID string) (*domain.QuizResult, error) {
				session := domain.NewStudySession(validSessionID, *testPack())
				for i := range session.Answers {
					_ = session.RecordAnswer(i, 0)
				}
				result := session.Grade()
				return &result, nil
			},
		}
		h := handler.NewStudyHandler(&MockStudyService{}, sessionSvc, &MockTokenService{})
		app := newTestApp(h)

		rec := doJSON(t, app, "POST", "/api/sessions/"+validSessionID+"/submit", nil)

		assert.Equal(t, fiber.StatusOK, rec.Code)
		var body dto.SubmitResponse
		require.NoError(t, json.Unmarshal(rec.Body, &body))
		assert.Equal(t, domain.QuizSize, body.Score)
		assert.Equal(t, "Excellent work! You've mastered this topic!", body.Feedback)
	})

	t.Run("Incomplete answers map to 400", func(t *testing.T) {
		sessionSvc := &MockSessionService{
			SubmitFunc: func(ctx context.Context, sessionID string) (*domain.QuizResult, error) {
				return nil, domain.ValidationErrors{{
					Field:   "answers",
					Message: "all questions must be answered before submitting",
				}}
			},
		}
		h := handler.NewStudyHandler(&MockStudyService{}, sessionSvc, &MockTokenService{})
		app := newTestApp(h)

		rec := doJSON(t, app, "POST", "/api/sessions/"+validSessionID+"/submit", nil)
		assert.Equal(t, fiber.StatusBadRequest, rec.Code)
	})
}

func TestResetSession(t *testing.T) {
	sessionSvc := &MockSessionService{
		ResetFunc: func(ctx context.Context, sessionID string) (*domain.StudySession, error) {
			return domain.NewStudySession(validSessionID, *testPack()), nil
		},
	}
	h := handler.NewStudyHandler(&MockStudyService{}, sessionSvc, &MockTokenService{})
	app := newTestApp(h)

	rec := doJSON(t, app, "POST", "/api/sessions/"+validSessionID+"/reset", nil)
	assert.Equal(t, fiber.StatusOK, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	t.Run("Deleted", func(t *testing.T) {
		sessionSvc := &MockSessionService{
			DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
				assert.Equal(t, validSessionID, sessionID)
				return nil
			},
		}
		h := handler.NewStudyHandler(&MockStudyService{}, sessionSvc, &MockTokenService{})
		app := newTestApp(h)

		req := httptest.NewRequest("DELETE", "/api/sessions/"+validSessionID, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})

	t.Run("Unknown session maps to 404", func(t *testing.T) {
		sessionSvc := &MockSessionService{
			DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
				return domain.NewSessionNotFoundError(sessionID)
			},
		}
		h := handler.NewStudyHandler(&MockStudyService{}, sessionSvc, &MockTokenService{})
		app := newTestApp(h)

		req := httptest.NewRequest("DELETE", "/api/sessions/"+validSessionID, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestDownloadPDF(t *testing.T) {
	sessionSvc := &MockSessionService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*domain.StudySession, error) {
			return domain.NewStudySession(validSessionID, *testPack()), nil
		},
	}
	h := handler.NewStudyHandler(&MockStudyService{}, sessionSvc, &MockTokenService{})
	app := newTestApp(h)

	for _, kind := range []string{"notes", "quiz", "answer-key"} {
		t.Run(kind, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/sessions/"+validSessionID+"/pdf/"+kind, nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
			assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.NotEmpty(t, data)
			assert.Equal(t, "%PDF", string(data[:4]))
		})
	}

	t.Run("Unknown kind", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/sessions/"+validSessionID+"/pdf/bogus", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

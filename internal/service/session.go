package service

import (
	"context"
	"encoding/json"
	"time"

	"studygen/internal/cache"
	"studygen/internal/config"
	"studygen/internal/domain"
	"studygen/internal/logger"
	"studygen/internal/util"

	"go.uber.org/zap"
)

// SessionService owns the lifecycle of study sessions: creation over a
// generated pack, answer recording, grading, and reset. State lives in
// the cache under the session's ULID; the service itself is stateless.
type SessionService interface {
	CreateSession(ctx context.Context, pack *domain.StudyPack) (*domain.StudySession, error)
	GetSession(ctx context.Context, sessionID string) (*domain.StudySession, error)
	RecordAnswer(ctx context.Context, sessionID string, question, choice int) (*domain.StudySession, error)
	Submit(ctx context.Context, sessionID string) (*domain.QuizResult, error)
	Reset(ctx context.Context, sessionID string) (*domain.StudySession, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type sessionService struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSessionService creates a SessionService backed by the given cache.
func NewSessionService(cacheClient domain.Cache, cfg *config.Config) SessionService {
	return &sessionService{
		cache: cacheClient,
		ttl:   cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Session, 24*time.Hour),
	}
}

func sessionKey(sessionID string) string {
	return cache.GenerateCacheKey("session", "state", sessionID)
}

func (s *sessionService) CreateSession(ctx context.Context, pack *domain.StudyPack) (*domain.StudySession, error) {
	session := domain.NewStudySession(util.NewULID(), *pack)
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	logger.Get().Info("Session created",
		zap.String("session_id", session.ID),
		zap.String("topic", pack.Topic),
	)
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*domain.StudySession, error) {
	raw, err := s.cache.Get(ctx, sessionKey(sessionID))
	if err != nil {
		if err == domain.ErrCacheMiss {
			return nil, domain.NewSessionNotFoundError(sessionID)
		}
		return nil, domain.NewInternalError("failed to load session", err)
	}

	var session domain.StudySession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, domain.NewInternalError("failed to decode session", err)
	}
	return &session, nil
}

func (s *sessionService) RecordAnswer(ctx context.Context, sessionID string, question, choice int) (*domain.StudySession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.RecordAnswer(question, choice); err != nil {
		return nil, err
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) Submit(ctx context.Context, sessionID string) (*domain.QuizResult, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.AllAnswered() {
		return nil, domain.ValidationErrors{{
			Field:   "answers",
			Message: "all questions must be answered before submitting",
		}}
	}

	session.Submitted = true
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	result := session.Grade()
	logger.Get().Info("Quiz submitted",
		zap.String("session_id", sessionID),
		zap.Int("score", result.Score),
		zap.Int("total", result.Total),
	)
	return &result, nil
}

func (s *sessionService) Reset(ctx context.Context, sessionID string) (*domain.StudySession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Reset()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, sessionKey(sessionID)); err != nil {
		return domain.NewInternalError("failed to delete session", err)
	}
	logger.Get().Info("Session deleted", zap.String("session_id", sessionID))
	return nil
}

func (s *sessionService) save(ctx context.Context, session *domain.StudySession) error {
	encoded, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("failed to encode session", err)
	}
	if err := s.cache.Set(ctx, sessionKey(session.ID), string(encoded), s.ttl); err != nil {
		return domain.NewInternalError("failed to store session", err)
	}
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"studygen/internal/cache"
	"studygen/internal/config"
	"studygen/internal/domain"
	"studygen/internal/extractor"
	"studygen/internal/logger"
	"studygen/internal/prompt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// StudyService generates study packs for topics.
type StudyService interface {
	// GenerateOutline produces the short preview outline for a topic.
	GenerateOutline(ctx context.Context, topic string) (string, error)

	// GeneratePack produces the full study pack: notes, table of
	// contents, references, illustrations, and a validated quiz.
	GeneratePack(ctx context.Context, topic string) (*domain.StudyPack, error)
}

type studyService struct {
	textGen   domain.TextGenerator
	imageGen  domain.ImageGenerator
	cache     domain.Cache
	packTTL   time.Duration
	numImages int
	gen       config.GenerationConfig
	sfGroup   singleflight.Group
}

// NewStudyService creates a StudyService. The cache may be nil, in which
// case every request generates a fresh pack.
func NewStudyService(textGen domain.TextGenerator, imageGen domain.ImageGenerator, cacheClient domain.Cache, cfg *config.Config) StudyService {
	return &studyService{
		textGen:   textGen,
		imageGen:  imageGen,
		cache:     cacheClient,
		packTTL:   cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.StudyPack, 6*time.Hour),
		numImages: cfg.Generation.NumImages,
		gen:       cfg.Generation,
	}
}

func (s *studyService) GenerateOutline(ctx context.Context, topic string) (string, error) {
	return s.textGen.Generate(ctx, prompt.Outline, topic, domain.GenerationOptions{
		Temperature: 0,
		MaxTokens:   s.gen.OutlineMaxTokens,
	})
}

func (s *studyService) GeneratePack(ctx context.Context, topic string) (*domain.StudyPack, error) {
	cacheKey := cache.GenerateCacheKey("pack", "topic", normalizeTopic(topic))

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var pack domain.StudyPack
			if err := json.Unmarshal([]byte(cached), &pack); err == nil {
				logger.Get().Debug("Study pack cache hit", zap.String("topic", topic))
				return &pack, nil
			}
			logger.Get().Warn("Failed to decode cached study pack", zap.String("key", cacheKey))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("Study pack cache lookup failed", zap.Error(err))
		}
	}

	// Collapse concurrent generations of the same topic into one call.
	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		pack, err := s.generatePack(ctx, topic)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if encoded, err := json.Marshal(pack); err == nil {
				if err := s.cache.Set(ctx, cacheKey, string(encoded), s.packTTL); err != nil {
					logger.Get().Warn("Failed to cache study pack", zap.Error(err))
				}
			}
		}
		return pack, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.StudyPack), nil
}

// generatePack runs the full pipeline. Notes are mandatory; references
// and images degrade gracefully; the quiz falls back to a deterministic
// set derived from the notes when extraction keeps failing.
func (s *studyService) generatePack(ctx context.Context, topic string) (*domain.StudyPack, error) {
	log := logger.Get()

	outline, err := s.GenerateOutline(ctx, topic)
	if err != nil {
		return nil, err
	}

	notes, err := s.textGen.Generate(ctx, prompt.Notes, topic, domain.GenerationOptions{
		Temperature: 0,
		MaxTokens:   s.gen.NotesMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	references, err := s.textGen.Generate(ctx, prompt.References, topic, domain.GenerationOptions{
		Temperature: 0.3,
		MaxTokens:   s.gen.ReferencesMaxTokens,
	})
	if err != nil {
		log.Warn("Failed to generate references, continuing without them",
			zap.String("topic", topic), zap.Error(err))
		references = ""
	}

	pack := &domain.StudyPack{
		Topic:         topic,
		Outline:       outline,
		NotesMarkdown: notes,
		TOCMarkdown:   ExtractTableOfContents(notes),
		References:    references,
		Images:        s.generateImages(ctx, topic, notes),
		GeneratedAt:   time.Now(),
	}

	quiz, err := extractor.GenerateWithRetry(ctx, func(ctx context.Context, attempt int) (string, error) {
		return s.textGen.Generate(ctx, prompt.ForQuizAttempt(attempt), topic, domain.GenerationOptions{
			Temperature: 0,
			MaxTokens:   s.gen.QuizMaxTokens,
		})
	})
	if err != nil {
		log.Warn("Quiz generation failed, using deterministic fallback",
			zap.String("topic", topic), zap.Error(err))
		quiz = FallbackQuiz(topic, notes)
		pack.QuizFallback = true
	}
	pack.Quiz = quiz

	return pack, nil
}

// generateImages renders illustrations for up to numImages aspects of the
// topic. Individual failures are logged and skipped.
func (s *studyService) generateImages(ctx context.Context, topic, notes string) []domain.Illustration {
	if s.imageGen == nil || s.numImages <= 0 {
		return nil
	}

	context500 := truncate(notes, 500)

	aspects := prompt.IllustrationAspects(topic)
	n := s.numImages
	if n > len(aspects) {
		n = len(aspects)
	}

	var images []domain.Illustration
	for i := 0; i < n; i++ {
		p := prompt.Illustration(aspects[i], context500)
		url, err := s.imageGen.Generate(ctx, p)
		if err != nil {
			logger.Get().Warn("Failed to generate illustration",
				zap.Int("index", i+1), zap.Error(err))
			continue
		}
		images = append(images, domain.Illustration{Prompt: p, URL: url})
	}
	return images
}

// ExtractTableOfContents builds a nested markdown bullet list from the
// headings of a markdown document. Returns "" when there are no headings.
func ExtractTableOfContents(md string) string {
	var items []string
	for _, line := range strings.Split(md, "\n") {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		level := len(line) - len(strings.TrimLeft(line, "#"))
		title := strings.TrimSpace(strings.TrimLeft(line, "# "))
		if title == "" {
			continue
		}
		indent := strings.Repeat("  ", level-1)
		items = append(items, indent+"- "+title)
	}
	if len(items) == 0 {
		return ""
	}
	return "## Table of Contents\n\n" + strings.Join(items, "\n") + "\n"
}

// normalizeTopic canonicalizes a topic for use as a cache key.
func normalizeTopic(topic string) string {
	return strings.Join(strings.Fields(strings.ToLower(topic)), "-")
}

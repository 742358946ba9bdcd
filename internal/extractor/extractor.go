// Package extractor coerces free-form model output into a validated
// multiple-choice quiz. Models asked for "strict JSON" still wrap the
// array in commentary, single quotes, or tag delimiters often enough
// that a bounded set of recovery strategies is needed before giving up.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"studygen/internal/domain"
)

// ErrorSentinel is the reserved prefix legacy generate capabilities use
// to signal their own failure in-band. Input starting with it is treated
// as an upstream failure and never parsed.
const ErrorSentinel = "__ERROR__"

// MaxAttempts is the total number of generation attempts GenerateWithRetry
// makes before reporting RetryExhausted.
const MaxAttempts = 2

var (
	jsonTagPattern = regexp.MustCompile(`(?s)<JSON>(.*)</JSON>`)
	// Unicode letter/digit classes, not \w: apostrophes inside non-ASCII
	// words (l'état) are contractions too.
	contractionPattern = regexp.MustCompile(`([\p{L}\p{N}_])'([\p{L}\p{N}_])`)
)

// GenerateFunc produces raw model text for one attempt. The attempt
// number (starting at 1) lets the caller strengthen the instruction on
// the second try; prompt wording stays the caller's concern.
type GenerateFunc func(ctx context.Context, attempt int) (string, error)

// Extract locates and parses a JSON array inside arbitrary model output.
// It tries, in order: the text as-is, the substring from the first '[' to
// the last ']', the content of a <JSON>...</JSON> wrapper, and finally a
// quote-sanitized copy of the whole text. The first strategy that yields
// a JSON array wins; if none does, the returned ParseFailure carries the
// last strategy's error.
func Extract(raw string) ([]json.RawMessage, error) {
	if raw == "" {
		return nil, domain.NewUpstreamFailureError("empty response from generator", nil)
	}
	if strings.HasPrefix(raw, ErrorSentinel) {
		return nil, domain.NewUpstreamFailureError(raw, nil)
	}

	var lastErr error

	// Strategy 1: direct parse.
	if items, err := parseArray(raw); err == nil {
		return items, nil
	} else {
		lastErr = err
	}

	// Strategy 2: first '[' through last ']'.
	if start, end := strings.Index(raw, "["), strings.LastIndex(raw, "]"); start != -1 && end > start {
		if items, err := parseArray(raw[start : end+1]); err == nil {
			return items, nil
		} else {
			lastErr = err
		}
	}

	// Strategy 3: <JSON>...</JSON> wrapper.
	if m := jsonTagPattern.FindStringSubmatch(raw); m != nil {
		if items, err := parseArray(strings.TrimSpace(m[1])); err == nil {
			return items, nil
		} else {
			lastErr = err
		}
	}

	// Strategy 4: sanitize single quotes and retry.
	if items, err := parseArray(sanitizeQuotes(raw)); err == nil {
		return items, nil
	} else {
		lastErr = err
	}

	return nil, domain.NewParseFailureError(lastErr)
}

// sanitizeQuotes rewrites a single-quoted pseudo-JSON string into double
// quotes. An apostrophe between two word characters is assumed to be a
// contraction and becomes a typographic quote; every remaining single
// quote becomes a string delimiter. Best-effort recovery: legitimate
// quoted text containing contractions can still mis-parse.
func sanitizeQuotes(raw string) string {
	cand := strings.ReplaceAll(strings.TrimSpace(raw), "\n", " ")
	cand = contractionPattern.ReplaceAllString(cand, "$1’$2")
	return strings.ReplaceAll(cand, "'", `"`)
}

func parseArray(text string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// rawQuizItem is the loosely-typed shape an element must satisfy before
// it becomes a domain.QuizItem. Answer and options are kept generic so
// the checks below can report what was actually wrong.
type rawQuizItem struct {
	Question   string            `json:"question"`
	Options    []json.RawMessage `json:"options"`
	Answer     *float64          `json:"answer"`
	Difficulty string            `json:"difficulty"`
}

// Validate checks a parsed array against the quiz schema and produces
// normalized QuizItems. Validation is all-or-nothing: any bad element
// fails the whole batch. Option values are coerced to trimmed strings and
// an absent or unrecognized difficulty defaults to Medium. Validating the
// output of a previous Validate yields the same items.
func Validate(items []json.RawMessage) ([]domain.QuizItem, error) {
	if len(items) != domain.QuizSize {
		return nil, domain.NewSchemaViolationError(fmt.Sprintf("expected %d items, got %d", domain.QuizSize, len(items)))
	}

	out := make([]domain.QuizItem, 0, domain.QuizSize)
	for i, raw := range items {
		var rec rawQuizItem
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, domain.NewSchemaViolationError(fmt.Sprintf("item %d is not a question object: %v", i, err))
		}

		question := strings.TrimSpace(rec.Question)
		if question == "" {
			return nil, domain.NewSchemaViolationError(fmt.Sprintf("item %d: question is empty", i))
		}
		if len(rec.Options) != domain.OptionCount {
			return nil, domain.NewSchemaViolationError(fmt.Sprintf("item %d: expected %d options, got %d", i, domain.OptionCount, len(rec.Options)))
		}
		if rec.Answer == nil || *rec.Answer != float64(int(*rec.Answer)) {
			return nil, domain.NewSchemaViolationError(fmt.Sprintf("item %d: answer must be an integer index", i))
		}
		answer := int(*rec.Answer)
		if answer < 0 || answer >= domain.OptionCount {
			return nil, domain.NewSchemaViolationError(fmt.Sprintf("item %d: answer index %d out of range [0,%d]", i, answer, domain.OptionCount-1))
		}

		options := make([]string, domain.OptionCount)
		for j, opt := range rec.Options {
			options[j] = coerceOption(opt)
		}

		out = append(out, domain.QuizItem{
			Question:   question,
			Options:    options,
			Answer:     answer,
			Difficulty: domain.ParseDifficulty(rec.Difficulty),
		})
	}
	return out, nil
}

// coerceOption renders an option value as trimmed display text. String
// values are trimmed; everything else falls back to its compact JSON
// form, so a numeric option 3 becomes "3".
func coerceOption(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

// GenerateWithRetry runs the full pipeline: call generate, extract,
// validate. A parse or schema failure on the first attempt triggers one
// more generate call (with the attempt number bumped so the caller can
// harden the prompt); after MaxAttempts failures the last error is
// wrapped in RetryExhausted. Upstream failures abort immediately without
// consuming further attempts. The function performs no I/O of its own.
func GenerateWithRetry(ctx context.Context, generate GenerateFunc) ([]domain.QuizItem, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		raw, err := generate(ctx, attempt)
		if err != nil {
			if domain.IsCode(err, domain.CodeUpstreamFailure) {
				return nil, err
			}
			return nil, domain.NewUpstreamFailureError("generate capability failed", err)
		}

		items, err := Extract(raw)
		if err != nil {
			if domain.IsCode(err, domain.CodeUpstreamFailure) {
				return nil, err
			}
			lastErr = err
			continue
		}

		quiz, err := Validate(items)
		if err != nil {
			lastErr = err
			continue
		}
		return quiz, nil
	}
	return nil, domain.NewRetryExhaustedError(lastErr)
}

package recommend

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookrec/internal/logging"
	"bookrec/internal/metrics"
)

// ModelClient sends one prompt to a hosted model and returns its answer text.
// Implementations make a single attempt.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service runs recommendation requests against a model.
type Service struct {
	model ModelClient
}

func NewService(model ModelClient) *Service {
	return &Service{model: model}
}

// Recommend asks the model for recommendations matching query. It makes exactly
// one model call. Failures other than ErrQueryRequired are *Error.
func (s *Service) Recommend(ctx context.Context, query string) ([]Recommendation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	log := logging.Ctx(ctx)

	raw, err := s.model.Complete(ctx, BuildPrompt(query))
	if err != nil {
		return nil, s.fail(ctx, &Error{Kind: KindUpstream, Message: "model call failed", Err: err})
	}
	if strings.TrimSpace(raw) == "" {
		return nil, s.fail(ctx, &Error{Kind: KindUpstream, Message: "model returned no text"})
	}
	log.Debug().Str("raw", truncate(raw, rawLimit)).Msg("model answer")

	parsed, err := Parse(raw)
	if err != nil {
		var recErr *Error
		if errors.As(err, &recErr) {
			return nil, s.fail(ctx, recErr)
		}
		return nil, err
	}

	if len(parsed.Issues) > 0 {
		metrics.RecordRecommendationIssues(len(parsed.Issues))
		log.Warn().
			Strs("issues", parsed.Issues).
			Str("raw", truncate(raw, rawLimit)).
			Msg("recommendations passed through with invalid fields")
	}

	switch total := parsed.Received; {
	case total > MaxRecommendations:
		metrics.RecordRecommendation(metrics.OutcomeTruncated)
		log.Info().Int("received", total).Msg("recommendations truncated")
	case total < MaxRecommendations:
		metrics.RecordRecommendation(metrics.OutcomeShortList)
		log.Warn().Int("received", total).Msg("model returned fewer recommendations than asked")
	default:
		metrics.RecordRecommendation(metrics.OutcomeOK)
	}
	return parsed.Recommendations, nil
}

func (s *Service) fail(ctx context.Context, e *Error) *Error {
	metrics.RecordRecommendation(string(e.Kind))
	logging.Ctx(ctx).Error().
		Err(e.Err).
		Str("kind", string(e.Kind)).
		Str("detail", e.Message).
		Str("raw", e.Raw).
		Msg("recommendation failed")
	return e
}

type timeoutModel struct {
	next    ModelClient
	timeout time.Duration
}

// WithTimeout bounds every call to m by d. A non-positive d returns m unchanged.
func WithTimeout(m ModelClient, d time.Duration) ModelClient {
	if d <= 0 {
		return m
	}
	return timeoutModel{next: m, timeout: d}
}

func (t timeoutModel) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Complete(ctx, prompt)
}

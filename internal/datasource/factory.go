package datasource

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/rank-engine/internal/config"
	"github.com/yourusername/rank-engine/internal/repository"
)

// NewOutcomeSource creates the configured OutcomeSource. The postgres source
// needs no HTTP client; the http source builds a rate-limited client from the
// outcomes config.
func NewOutcomeSource(cfg *config.Config, repos *repository.Repositories, logger *log.Logger) (OutcomeSource, error) {
	switch cfg.Outcomes.Source {
	case "postgres":
		if repos == nil {
			return nil, fmt.Errorf("postgres outcome source requires repositories")
		}
		return NewPostgresSource(repos.Outcome), nil

	case "http":
		if cfg.Outcomes.FeedURL == "" {
			return nil, fmt.Errorf("http outcome source requires feed_url")
		}
		httpCfg := DefaultHTTPClientConfig()
		httpCfg.Timeout = time.Duration(cfg.Outcomes.TimeoutSeconds) * time.Second
		httpCfg.MaxRetries = cfg.Outcomes.MaxRetries
		httpCfg.RateLimit = cfg.Outcomes.RateLimit
		client := NewRateLimitedHTTPClient(httpCfg, logger)
		return NewOutcomeFeedClient(client, cfg.Outcomes.FeedURL, cfg.Outcomes.APIKey), nil

	default:
		return nil, fmt.Errorf("unknown outcome source: %s", cfg.Outcomes.Source)
	}
}

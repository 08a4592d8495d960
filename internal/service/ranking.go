package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/rank-engine/internal/config"
	"github.com/yourusername/rank-engine/internal/datasource"
	"github.com/yourusername/rank-engine/internal/engine"
	"github.com/yourusername/rank-engine/internal/logger"
	"github.com/yourusername/rank-engine/internal/metrics"
	"github.com/yourusername/rank-engine/internal/models"
	"github.com/yourusername/rank-engine/internal/repository"
)

// RunSummary reports what a single ranking run accomplished
type RunSummary struct {
	RunID              uuid.UUID     `json:"run_id"`
	StartedAt          time.Time     `json:"started_at"`
	Duration           time.Duration `json:"duration"`
	PartitionsComputed int           `json:"partitions_computed"`
	PartitionsFailed   int           `json:"partitions_failed"`
	RecordsSkipped     int           `json:"records_skipped"`
}

// partitionKey identifies one unit of parallel work
type partitionKey struct {
	sport   models.Sport
	betType models.BetType
}

// RankingService orchestrates the scheduled recompute: it fans the
// (sport, bet type) partitions out over a bounded worker set, runs the
// two-phase statistics pass for each, and publishes every partition
// atomically. A failed partition keeps its previous published run; an
// unavailable outcome store aborts the whole run.
type RankingService struct {
	cfg       *config.Config
	source    datasource.OutcomeSource
	models    repository.ModelRepository
	publisher repository.PublicationRepository
	validator *OutcomeValidator
	runLogger *logger.RunLogger
	logger    *logrus.Logger
}

// NewRankingService creates a new ranking service
func NewRankingService(
	cfg *config.Config,
	source datasource.OutcomeSource,
	modelRepo repository.ModelRepository,
	publisher repository.PublicationRepository,
	validator *OutcomeValidator,
	log *logrus.Logger,
) *RankingService {
	return &RankingService{
		cfg:       cfg,
		source:    source,
		models:    modelRepo,
		publisher: publisher,
		validator: validator,
		runLogger: logger.NewRunLogger(log),
		logger:    log,
	}
}

// RunOnce executes a full ranking run across every configured partition.
// The returned summary is best effort when the run aborts early.
func (s *RankingService) RunOnce(ctx context.Context) (*RunSummary, error) {
	runID := uuid.New()
	startedAt := time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout())
	defer cancel()

	partitions := s.partitions()
	s.runLogger.LogRunStarted(runID.String(), s.cfg.Ranking.Sports, len(partitions))
	metrics.RecordRunStarted()

	// The model registry is loaded once so every partition of the run sees
	// the same model set.
	registry, err := s.loadRegistry(ctx)
	if err != nil {
		metrics.RecordRunFailed()
		return nil, fmt.Errorf("failed to load model registry: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"run_id": runID.String(),
		"models": registry.Len(),
	}).Info("Model registry loaded")

	summary := &RunSummary{RunID: runID, StartedAt: startedAt}

	type partitionOutcome struct {
		key     partitionKey
		skipped int
		err     error
	}

	results := make(chan partitionOutcome, len(partitions))
	sem := make(chan struct{}, s.cfg.Ranking.MaxParallelPartitions)
	var wg sync.WaitGroup

	for _, key := range partitions {
		wg.Add(1)
		go func(key partitionKey) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			skipped, err := s.runPartition(ctx, runID, key)
			results <- partitionOutcome{key: key, skipped: skipped, err: err}
		}(key)
	}

	wg.Wait()
	close(results)

	var abortErr error
	for res := range results {
		summary.RecordsSkipped += res.skipped
		if res.err == nil {
			summary.PartitionsComputed++
			continue
		}
		summary.PartitionsFailed++
		metrics.RecordPartitionFailed()
		s.runLogger.LogPartitionFailed(runID.String(), string(res.key.sport), string(res.key.betType), res.err)

		// Upstream unavailability taints every partition's input, so the
		// run as a whole is reported failed rather than partially stale.
		if errors.Is(res.err, datasource.ErrUnavailable) || errors.Is(res.err, models.ErrStoreUnavailable) {
			abortErr = res.err
		}
	}

	summary.Duration = time.Since(startedAt)
	metrics.RecordRecordsSkipped(summary.RecordsSkipped)
	s.runLogger.LogRunCompleted(runID.String(), summary.PartitionsComputed, summary.PartitionsFailed, summary.RecordsSkipped, summary.Duration)

	if abortErr != nil {
		metrics.RecordRunFailed()
		return summary, fmt.Errorf("ranking run aborted: %w", abortErr)
	}

	metrics.RecordRunCompleted(summary.Duration.Seconds(), float64(time.Now().Unix()))
	return summary, nil
}

// runPartition fetches, validates, computes and publishes one partition
func (s *RankingService) runPartition(ctx context.Context, runID uuid.UUID, key partitionKey) (int, error) {
	started := time.Now()

	rc := s.runContext(runID, key)

	// Fetch the widest window once; narrower windows are filtered in memory.
	start := rc.RecommendationWindow.Start(rc.Now)
	for _, w := range rc.Windows {
		ws := w.Start(rc.Now)
		if ws.Before(start) {
			start = ws
		}
	}

	outcomes, err := s.source.FetchVerified(ctx, key.sport, key.betType, start, rc.Now)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch outcomes for %s/%s: %w", key.sport, key.betType, err)
	}

	clean, skipped := s.validator.Filter(outcomes)

	result := engine.ComputePartition(rc, clean)

	if err := s.publisher.PublishPartition(ctx, result); err != nil {
		return skipped, fmt.Errorf("%w: failed to publish %s/%s: %v", models.ErrStoreUnavailable, key.sport, key.betType, err)
	}

	metrics.RecordPartitionPublished(time.Since(started).Seconds())
	s.publishGauges(key, result.Weights)
	s.runLogger.LogPartitionPublished(
		runID.String(), string(key.sport), string(key.betType),
		len(result.Snapshots), len(result.Recommendations), len(result.Weights.Weights),
	)
	return skipped, nil
}

// runContext builds the per-partition computation context from config
func (s *RankingService) runContext(runID uuid.UUID, key partitionKey) engine.RunContext {
	rc := engine.NewRunContext(key.sport, key.betType, time.Now().UTC())
	rc.RunID = runID
	rc.MinSample = s.cfg.Ranking.MinSample
	rc.DiffThreshold = s.cfg.Ranking.DiffThreshold
	rc.WeightEpsilon = s.cfg.Ranking.WeightEpsilon
	rc.RecommendationWindow = models.Window(s.cfg.Ranking.RecommendationWindow)
	rc.EnsembleWindow = models.Window(s.cfg.Ranking.EnsembleWindow)

	windows := make([]models.Window, 0, len(s.cfg.Ranking.Windows))
	for _, w := range s.cfg.Ranking.Windows {
		windows = append(windows, models.Window(w))
	}
	rc.Windows = windows
	return rc
}

// partitions enumerates every (sport, bet type) pair the run covers
func (s *RankingService) partitions() []partitionKey {
	keys := make([]partitionKey, 0, len(s.cfg.Ranking.Sports)*len(models.AllBetTypes))
	for _, sport := range s.cfg.Ranking.Sports {
		for _, betType := range models.AllBetTypes {
			keys = append(keys, partitionKey{sport: models.Sport(sport), betType: betType})
		}
	}
	return keys
}

// loadRegistry reads the full model registry for the run
func (s *RankingService) loadRegistry(ctx context.Context) (*models.Registry, error) {
	infos, err := s.models.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return models.NewRegistry(infos), nil
}

// publishGauges exposes the partition's weight set on the metrics endpoint
func (s *RankingService) publishGauges(key partitionKey, ws *models.WeightSet) {
	if ws == nil {
		return
	}
	byName := make(map[string]float64, len(ws.Weights))
	for id, w := range ws.Weights {
		byName[id.String()] = w
	}
	metrics.UpdateEnsembleGauges(string(key.sport), string(key.betType), byName)
}

// Package presenter shapes published ranking artifacts into the views the
// dashboard renders: leaderboards, ensemble summaries, trend series and
// calibration charts.
package presenter

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/rank-engine/internal/engine"
	"github.com/yourusername/rank-engine/internal/models"
	"github.com/yourusername/rank-engine/internal/repository"
)

// SortKey selects the leaderboard ordering
type SortKey string

const (
	SortByAccuracy SortKey = "accuracy"
	SortByROI      SortKey = "roi"
)

// NoEnsembleMessage is shown when no model cleared the eligibility bar
const NoEnsembleMessage = "no ensemble available"

// LeaderboardRow is one model's line on the ranking table
type LeaderboardRow struct {
	ModelID          uuid.UUID        `json:"model_id"`
	ModelName        string           `json:"model_name"`
	Kind             models.ModelKind `json:"kind"`
	Verdict          models.Verdict   `json:"verdict"`
	Accuracy         float64          `json:"accuracy"`
	MeanROI          float64          `json:"mean_roi"`
	Sharpe           *float64         `json:"sharpe"`
	Total            int              `json:"total"`
	Weight           float64          `json:"weight"`
	InsufficientData bool             `json:"insufficient_data"`
}

// TimeSeriesPoint is one snapshot on a model's trend chart
type TimeSeriesPoint struct {
	ComputedAt time.Time `json:"computed_at"`
	Accuracy   float64   `json:"accuracy"`
	MeanROI    float64   `json:"mean_roi"`
	Total      int       `json:"total"`
}

// WeightEntry is one model's share of the ensemble
type WeightEntry struct {
	ModelID   uuid.UUID `json:"model_id"`
	ModelName string    `json:"model_name"`
	Weight    float64   `json:"weight"`
}

// EnsembleView summarizes the published weight set for a partition
type EnsembleView struct {
	Available bool          `json:"available"`
	Message   string        `json:"message,omitempty"`
	Window    models.Window `json:"window,omitempty"`
	Entries   []WeightEntry `json:"entries,omitempty"`
}

// BandView is one confidence band on the calibration chart
type BandView struct {
	Label    string   `json:"label"`
	Total    int      `json:"total"`
	Correct  int      `json:"correct"`
	Accuracy *float64 `json:"accuracy"`
}

// Highlights carries the best and worst settled picks for a partition range
type Highlights struct {
	Best  *models.VerifiedOutcome `json:"best"`
	Worst *models.VerifiedOutcome `json:"worst"`
}

// Presenter reads published artifacts and renders dashboard views. Views are
// cached briefly; a publish between runs only delays visibility by the TTL.
type Presenter struct {
	repos     *repository.Repositories
	cache     *cache.Cache
	minSample int
	logger    *logrus.Logger
}

// NewPresenter creates a presenter with the given cache TTL
func NewPresenter(repos *repository.Repositories, minSample int, ttl time.Duration, log *logrus.Logger) *Presenter {
	return &Presenter{
		repos:     repos,
		cache:     cache.New(ttl, 2*ttl),
		minSample: minSample,
		logger:    log,
	}
}

// Leaderboard builds the ranking table for one partition and window. Models
// below the minimum sample sort after every qualified model regardless of key.
func (p *Presenter) Leaderboard(ctx context.Context, sport models.Sport, betType models.BetType, window models.Window, sortBy SortKey) ([]LeaderboardRow, error) {
	if !window.IsValid() {
		return nil, models.ErrInvalidWindow
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%s:%s:%s", sport, betType, window, sortBy)
	if cached, found := p.cache.Get(cacheKey); found {
		return cached.([]LeaderboardRow), nil
	}

	snapshots, err := p.repos.Snapshot.GetLatest(ctx, sport, betType, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, models.ErrNoData
	}

	registry, err := p.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := p.repos.Recommendation.GetLatest(ctx, sport, betType)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	verdicts := make(map[uuid.UUID]models.Verdict, len(recs))
	for _, rec := range recs {
		verdicts[rec.ModelID] = rec.Verdict
	}

	weights, err := p.repos.Weight.GetLatest(ctx, sport, betType)
	if err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}

	rows := make([]LeaderboardRow, 0, len(snapshots))
	for _, s := range snapshots {
		if s.Stance != models.StanceOriginal {
			continue
		}
		info, _ := registry.Get(s.ModelID)
		verdict, ok := verdicts[s.ModelID]
		if !ok {
			verdict = models.VerdictAvoid
		}
		rows = append(rows, LeaderboardRow{
			ModelID:          s.ModelID,
			ModelName:        registry.Name(s.ModelID),
			Kind:             info.Kind,
			Verdict:          verdict,
			Accuracy:         s.Accuracy,
			MeanROI:          s.MeanROI,
			Sharpe:           s.Sharpe,
			Total:            s.Total,
			Weight:           weights.Weight(s.ModelID),
			InsufficientData: s.InsufficientData,
		})
	}

	sortRows(rows, sortBy, p.minSample)

	p.cache.Set(cacheKey, rows, cache.DefaultExpiration)
	return rows, nil
}

// Ensemble summarizes the published weight set for a partition
func (p *Presenter) Ensemble(ctx context.Context, sport models.Sport, betType models.BetType) (*EnsembleView, error) {
	cacheKey := fmt.Sprintf("ensemble:%s:%s", sport, betType)
	if cached, found := p.cache.Get(cacheKey); found {
		return cached.(*EnsembleView), nil
	}

	weights, err := p.repos.Weight.GetLatest(ctx, sport, betType)
	if err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}
	if weights.IsEmpty() {
		return &EnsembleView{Available: false, Message: NoEnsembleMessage}, nil
	}

	registry, err := p.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]WeightEntry, 0, len(weights.Weights))
	for id, w := range weights.Weights {
		entries = append(entries, WeightEntry{
			ModelID:   id,
			ModelName: registry.Name(id),
			Weight:    w,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].ModelName < entries[j].ModelName
	})

	view := &EnsembleView{Available: true, Window: weights.Window, Entries: entries}
	p.cache.Set(cacheKey, view, cache.DefaultExpiration)
	return view, nil
}

// ModelTrend reconstructs a model's performance series from retained snapshots
func (p *Presenter) ModelTrend(ctx context.Context, modelID uuid.UUID, sport models.Sport, betType models.BetType, window models.Window, start, end time.Time) ([]TimeSeriesPoint, error) {
	if !window.IsValid() {
		return nil, models.ErrInvalidWindow
	}

	history, err := p.repos.Snapshot.GetModelHistory(ctx, modelID, sport, betType, window, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot history: %w", err)
	}
	if len(history) == 0 {
		return nil, models.ErrNoData
	}

	points := make([]TimeSeriesPoint, 0, len(history))
	for _, s := range history {
		points = append(points, TimeSeriesPoint{
			ComputedAt: s.ComputedAt,
			Accuracy:   s.Accuracy,
			MeanROI:    s.MeanROI,
			Total:      s.Total,
		})
	}
	return points, nil
}

// CalibrationChart renders a model's confidence bands. Empty bands keep a nil
// accuracy so the chart can distinguish "no picks" from "all wrong".
func (p *Presenter) CalibrationChart(ctx context.Context, modelID uuid.UUID, sport models.Sport, betType models.BetType) ([]BandView, error) {
	bands, err := p.repos.Calibration.GetLatestForModel(ctx, modelID, sport, betType)
	if err != nil {
		return nil, fmt.Errorf("failed to load calibration bands: %w", err)
	}
	if len(bands) == 0 {
		return nil, models.ErrNoData
	}
	return bandViews(bands), nil
}

// PartitionHighlights returns the best and worst settled picks in the window
func (p *Presenter) PartitionHighlights(ctx context.Context, sport models.Sport, betType models.BetType, window models.Window, now time.Time) (*Highlights, error) {
	if !window.IsValid() {
		return nil, models.ErrInvalidWindow
	}

	best, worst, err := p.repos.Outcome.GetBestAndWorst(ctx, sport, betType, window.Start(now), now)
	if err != nil {
		return nil, fmt.Errorf("failed to load highlight outcomes: %w", err)
	}
	if best == nil && worst == nil {
		return nil, models.ErrNoData
	}
	return &Highlights{Best: best, Worst: worst}, nil
}

// Flush drops every cached view, used after a publish completes
func (p *Presenter) Flush() {
	p.cache.Flush()
}

func (p *Presenter) loadRegistry(ctx context.Context) (*models.Registry, error) {
	if cached, found := p.cache.Get("registry"); found {
		return cached.(*models.Registry), nil
	}
	infos, err := p.repos.Model.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load model registry: %w", err)
	}
	registry := models.NewRegistry(infos)
	p.cache.Set("registry", registry, cache.DefaultExpiration)
	return registry, nil
}

// sortRows orders qualified rows by the sort key, tie-broken by name, with
// under-sampled rows trailing in the same order.
func sortRows(rows []LeaderboardRow, sortBy SortKey, minSample int) {
	sort.SliceStable(rows, func(i, j int) bool {
		qi, qj := rows[i].Total >= minSample, rows[j].Total >= minSample
		if qi != qj {
			return qi
		}
		var vi, vj float64
		if sortBy == SortByROI {
			vi, vj = rows[i].MeanROI, rows[j].MeanROI
		} else {
			vi, vj = rows[i].Accuracy, rows[j].Accuracy
		}
		if vi != vj {
			return vi > vj
		}
		return rows[i].ModelName < rows[j].ModelName
	})
}

func bandViews(bands []engine.BandResult) []BandView {
	views := make([]BandView, 0, len(bands))
	for _, b := range bands {
		views = append(views, BandView{
			Label:    b.Band.Label(),
			Total:    b.Total,
			Correct:  b.Correct,
			Accuracy: b.Accuracy,
		})
	}
	return views
}

package presenter

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/rank-engine/internal/engine"
	"github.com/yourusername/rank-engine/internal/models"
	"github.com/yourusername/rank-engine/internal/repository"
)

type MockModelRepo struct{ mock.Mock }

func (m *MockModelRepo) GetAll(ctx context.Context) ([]models.ModelInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ModelInfo), args.Error(1)
}

func (m *MockModelRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ModelInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModelInfo), args.Error(1)
}

type MockSnapshotRepo struct{ mock.Mock }

func (m *MockSnapshotRepo) GetLatest(ctx context.Context, sport models.Sport, betType models.BetType, window models.Window) ([]*models.PerformanceSnapshot, error) {
	args := m.Called(ctx, sport, betType, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PerformanceSnapshot), args.Error(1)
}

func (m *MockSnapshotRepo) GetModelHistory(ctx context.Context, modelID uuid.UUID, sport models.Sport, betType models.BetType, window models.Window, start, end time.Time) ([]*models.PerformanceSnapshot, error) {
	args := m.Called(ctx, modelID, sport, betType, window, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PerformanceSnapshot), args.Error(1)
}

type MockRecommendationRepo struct{ mock.Mock }

func (m *MockRecommendationRepo) GetLatest(ctx context.Context, sport models.Sport, betType models.BetType) ([]models.Recommendation, error) {
	args := m.Called(ctx, sport, betType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recommendation), args.Error(1)
}

type MockWeightRepo struct{ mock.Mock }

func (m *MockWeightRepo) GetLatest(ctx context.Context, sport models.Sport, betType models.BetType) (*models.WeightSet, error) {
	args := m.Called(ctx, sport, betType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeightSet), args.Error(1)
}

type MockCalibrationRepo struct{ mock.Mock }

func (m *MockCalibrationRepo) GetLatestForModel(ctx context.Context, modelID uuid.UUID, sport models.Sport, betType models.BetType) ([]engine.BandResult, error) {
	args := m.Called(ctx, modelID, sport, betType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engine.BandResult), args.Error(1)
}

func testPresenter(repos *repository.Repositories) *Presenter {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewPresenter(repos, 10, time.Minute, log)
}

func snapshotFor(modelID uuid.UUID, accuracy, roi float64, total int) *models.PerformanceSnapshot {
	return &models.PerformanceSnapshot{
		ModelID:  modelID,
		Sport:    "nba",
		BetType:  models.BetTypeMoneyline,
		Stance:   models.StanceOriginal,
		Window:   models.WindowAll,
		Total:    total,
		Correct:  int(float64(total) * accuracy),
		Accuracy: accuracy,
		MeanROI:  roi,
	}
}

// TestLeaderboardOrdering tests accuracy ordering with under-sampled models
// trailing qualified ones
func TestLeaderboardOrdering(t *testing.T) {
	strong := uuid.New()
	weak := uuid.New()
	sparse := uuid.New()

	snapRepo := new(MockSnapshotRepo)
	modelRepo := new(MockModelRepo)
	recRepo := new(MockRecommendationRepo)
	weightRepo := new(MockWeightRepo)

	snapRepo.On("GetLatest", mock.Anything, models.Sport("nba"), models.BetTypeMoneyline, models.WindowAll).
		Return([]*models.PerformanceSnapshot{
			snapshotFor(weak, 0.52, 0.01, 40),
			snapshotFor(sparse, 0.90, 0.50, 3),
			snapshotFor(strong, 0.61, 0.12, 40),
		}, nil)
	modelRepo.On("GetAll", mock.Anything).Return([]models.ModelInfo{
		{ID: strong, Name: "sharp-money", Kind: models.ModelKindSystem, Active: true},
		{ID: weak, Name: "consensus", Kind: models.ModelKindSystem, Active: true},
		{ID: sparse, Name: "my-custom", Kind: models.ModelKindUser, Active: true},
	}, nil)
	recRepo.On("GetLatest", mock.Anything, models.Sport("nba"), models.BetTypeMoneyline).
		Return([]models.Recommendation{
			{ModelID: strong, Verdict: models.VerdictOriginal},
			{ModelID: weak, Verdict: models.VerdictAvoid},
		}, nil)
	weightRepo.On("GetLatest", mock.Anything, models.Sport("nba"), models.BetTypeMoneyline).
		Return(&models.WeightSet{Weights: map[uuid.UUID]float64{strong: 1.0}}, nil)

	repos := &repository.Repositories{
		Model:          modelRepo,
		Snapshot:       snapRepo,
		Recommendation: recRepo,
		Weight:         weightRepo,
	}

	rows, err := testPresenter(repos).Leaderboard(context.Background(), "nba", models.BetTypeMoneyline, models.WindowAll, SortByAccuracy)
	assert.NoError(t, err)
	assert.Len(t, rows, 3)

	// Qualified models first by accuracy, the 90% model trails on sample size.
	assert.Equal(t, "sharp-money", rows[0].ModelName)
	assert.Equal(t, "consensus", rows[1].ModelName)
	assert.Equal(t, "my-custom", rows[2].ModelName)

	assert.Equal(t, models.VerdictOriginal, rows[0].Verdict)
	assert.Equal(t, 1.0, rows[0].Weight)
	// A model with no recommendation row defaults to AVOID.
	assert.Equal(t, models.VerdictAvoid, rows[2].Verdict)
}

// TestLeaderboardNoData tests the empty-partition error
func TestLeaderboardNoData(t *testing.T) {
	snapRepo := new(MockSnapshotRepo)
	snapRepo.On("GetLatest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.PerformanceSnapshot{}, nil)

	repos := &repository.Repositories{Snapshot: snapRepo}
	_, err := testPresenter(repos).Leaderboard(context.Background(), "nba", models.BetTypeMoneyline, models.WindowAll, SortByROI)
	assert.ErrorIs(t, err, models.ErrNoData)
}

// TestLeaderboardInvalidWindow tests the window guard
func TestLeaderboardInvalidWindow(t *testing.T) {
	repos := &repository.Repositories{}
	_, err := testPresenter(repos).Leaderboard(context.Background(), "nba", models.BetTypeMoneyline, "7d", SortByROI)
	assert.ErrorIs(t, err, models.ErrInvalidWindow)
}

// TestEnsembleEmpty tests the no-ensemble fallback message
func TestEnsembleEmpty(t *testing.T) {
	weightRepo := new(MockWeightRepo)
	weightRepo.On("GetLatest", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.WeightSet{Weights: map[uuid.UUID]float64{}}, nil)

	repos := &repository.Repositories{Weight: weightRepo}
	view, err := testPresenter(repos).Ensemble(context.Background(), "nba", models.BetTypeTotal)
	assert.NoError(t, err)
	assert.False(t, view.Available)
	assert.Equal(t, NoEnsembleMessage, view.Message)
	assert.Empty(t, view.Entries)
}

// TestEnsembleSortedByWeight tests that entries come back heaviest first
func TestEnsembleSortedByWeight(t *testing.T) {
	heavy := uuid.New()
	light := uuid.New()

	weightRepo := new(MockWeightRepo)
	modelRepo := new(MockModelRepo)
	weightRepo.On("GetLatest", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.WeightSet{
			Window:  models.Window30d,
			Weights: map[uuid.UUID]float64{light: 0.25, heavy: 0.75},
		}, nil)
	modelRepo.On("GetAll", mock.Anything).Return([]models.ModelInfo{
		{ID: heavy, Name: "sharp-money"},
		{ID: light, Name: "consensus"},
	}, nil)

	repos := &repository.Repositories{Weight: weightRepo, Model: modelRepo}
	view, err := testPresenter(repos).Ensemble(context.Background(), "nba", models.BetTypeMoneyline)
	assert.NoError(t, err)
	assert.True(t, view.Available)
	assert.Equal(t, models.Window30d, view.Window)
	assert.Equal(t, "sharp-money", view.Entries[0].ModelName)
	assert.Equal(t, 0.75, view.Entries[0].Weight)
}

// TestCalibrationChartKeepsEmptyBands tests that empty bands render with a
// nil accuracy rather than zero
func TestCalibrationChartKeepsEmptyBands(t *testing.T) {
	modelID := uuid.New()
	accuracy := 0.7

	calRepo := new(MockCalibrationRepo)
	calRepo.On("GetLatestForModel", mock.Anything, modelID, mock.Anything, mock.Anything).
		Return([]engine.BandResult{
			{Band: engine.CalibrationBand{Lower: 0.5, Upper: 0.6}, Total: 10, Correct: 7, Accuracy: &accuracy},
			{Band: engine.CalibrationBand{Lower: 0.6, Upper: 0.7}},
		}, nil)

	repos := &repository.Repositories{Calibration: calRepo}
	views, err := testPresenter(repos).CalibrationChart(context.Background(), modelID, "nba", models.BetTypeMoneyline)
	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, "50-60%", views[0].Label)
	assert.NotNil(t, views[0].Accuracy)
	assert.Nil(t, views[1].Accuracy)
	assert.Equal(t, 0, views[1].Total)
}

// TestModelTrendNoHistory tests the empty-history error
func TestModelTrendNoHistory(t *testing.T) {
	snapRepo := new(MockSnapshotRepo)
	snapRepo.On("GetModelHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.PerformanceSnapshot{}, nil)

	repos := &repository.Repositories{Snapshot: snapRepo}
	_, err := testPresenter(repos).ModelTrend(context.Background(), uuid.New(), "nba", models.BetTypeMoneyline, models.Window90d, time.Now().Add(-90*24*time.Hour), time.Now())
	assert.ErrorIs(t, err, models.ErrNoData)
}

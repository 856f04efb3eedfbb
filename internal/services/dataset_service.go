package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"bbbcli/internal/dataprocessing"
	"bbbcli/internal/validation"
	"bbbcli/pkg/contracts/domain"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// DatasetLoader builds a dataset from a directory of match documents
type DatasetLoader interface {
	Load(ctx context.Context, dir string) (*domain.Dataset, error)
}

// DeliveryQuery selects rows of the loaded dataset. Zero values mean no filter.
type DeliveryQuery struct {
	MatchID     int    `json:"match_id" validate:"min=0"`
	BattingTeam string `json:"batting_team"`
	Innings     int    `json:"innings" validate:"min=0"`
	Limit       int    `json:"limit" validate:"min=0,max=1000"`
	Offset      int    `json:"offset" validate:"min=0"`
}

// DeliveryPage is one page of matching rows
type DeliveryPage struct {
	Total      int              `json:"total"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
	Deliveries []domain.FlatRow `json:"deliveries"`
}

// MatchInfo describes one match of the loaded dataset
type MatchInfo struct {
	*domain.MatchContext
	Date       string `json:"date"`
	Deliveries int    `json:"deliveries"`
}

// DatasetStatus reports what is currently served
type DatasetStatus struct {
	Loaded     bool      `json:"loaded"`
	Deliveries int       `json:"deliveries"`
	Matches    int       `json:"matches"`
	LoadedAt   time.Time `json:"loaded_at,omitempty"`
	Duration   string    `json:"load_duration,omitempty"`
}

// snapshot is an immutable loaded state; reloads swap it whole
type snapshot struct {
	dataset  *domain.Dataset
	summary  domain.DatasetSummary
	matches  []MatchInfo
	loadedAt time.Time
	duration time.Duration
}

// DatasetService keeps the most recently loaded dataset in memory and answers
// queries against it. Reloads build a new snapshot and replace the old one.
type DatasetService struct {
	loader     DatasetLoader
	matchesDir string
	validator  *validation.Validator
	logger     *slog.Logger

	mu      sync.RWMutex
	current *snapshot
	reloads singleflight.Group
}

// NewDatasetService creates a dataset service reading from matchesDir
func NewDatasetService(loader DatasetLoader, matchesDir string, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		loader:     loader,
		matchesDir: matchesDir,
		validator:  validation.NewValidator(),
		logger:     logger.With(slog.String("component", "dataset_service")),
	}
}

// Reload loads the corpus and swaps it in. Concurrent callers share one load,
// which is detached from the cancellation of whichever caller started it.
// On failure the previously loaded dataset keeps being served.
func (s *DatasetService) Reload(ctx context.Context) (DatasetStatus, error) {
	loadCtx := context.WithoutCancel(ctx)
	_, err, shared := s.reloads.Do("reload", func() (interface{}, error) {
		return nil, s.load(loadCtx)
	})
	if shared {
		s.logger.DebugContext(ctx, "Joined in-flight reload")
	}
	if err != nil {
		return s.Status(), err
	}
	return s.Status(), nil
}

func (s *DatasetService) load(ctx context.Context) error {
	start := time.Now()
	s.logger.InfoContext(ctx, "Loading dataset", slog.String("matches_dir", s.matchesDir))

	ds, err := s.loader.Load(ctx, s.matchesDir)
	if err != nil {
		s.logger.ErrorContext(ctx, "Dataset load failed",
			slog.String("matches_dir", s.matchesDir),
			slog.String("error", err.Error()))
		return fmt.Errorf("load %s: %w", s.matchesDir, err)
	}

	snap := &snapshot{
		dataset:  ds,
		summary:  dataprocessing.Summarize(ds),
		matches:  matchInfos(ds),
		loadedAt: time.Now(),
		duration: time.Since(start),
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Dataset loaded",
		slog.Int("deliveries", ds.Len()),
		slog.Int("matches", len(snap.matches)),
		slog.Duration("duration", snap.duration))
	return nil
}

func (s *DatasetService) loaded() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.current, nil
}

// Status reports the currently served dataset
func (s *DatasetService) Status() DatasetStatus {
	snap, err := s.loaded()
	if err != nil {
		return DatasetStatus{}
	}
	return DatasetStatus{
		Loaded:     true,
		Deliveries: snap.dataset.Len(),
		Matches:    len(snap.matches),
		LoadedAt:   snap.loadedAt,
		Duration:   snap.duration.String(),
	}
}

// Deliveries returns the rows matching q in dataset order
func (s *DatasetService) Deliveries(ctx context.Context, q DeliveryQuery) (DeliveryPage, error) {
	if err := s.validator.Struct(q); err != nil {
		return DeliveryPage{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	}

	snap, err := s.loaded()
	if err != nil {
		return DeliveryPage{}, err
	}

	page := DeliveryPage{
		Limit:      q.Limit,
		Offset:     q.Offset,
		Deliveries: make([]domain.FlatRow, 0, min(q.Limit, snap.dataset.Len())),
	}
	for _, row := range snap.dataset.Rows {
		if !q.matches(row) {
			continue
		}
		if page.Total >= q.Offset && len(page.Deliveries) < q.Limit {
			page.Deliveries = append(page.Deliveries, row)
		}
		page.Total++
	}

	s.logger.DebugContext(ctx, "Deliveries queried",
		slog.Int("total", page.Total),
		slog.Int("returned", len(page.Deliveries)))
	return page, nil
}

func (q DeliveryQuery) matches(row domain.FlatRow) bool {
	if q.MatchID != 0 && row.MatchID != q.MatchID {
		return false
	}
	if q.Innings != 0 && row.Innings != q.Innings {
		return false
	}
	if q.BattingTeam != "" && !strings.EqualFold(row.BattingTeam, q.BattingTeam) {
		return false
	}
	return true
}

// Matches lists the matches of the loaded dataset in dataset order
func (s *DatasetService) Matches(ctx context.Context) ([]MatchInfo, error) {
	snap, err := s.loaded()
	if err != nil {
		return nil, err
	}
	return snap.matches, nil
}

// Match returns one match by id
func (s *DatasetService) Match(ctx context.Context, id int) (MatchInfo, error) {
	snap, err := s.loaded()
	if err != nil {
		return MatchInfo{}, err
	}
	for _, m := range snap.matches {
		if m.MatchID == id {
			return m, nil
		}
	}
	return MatchInfo{}, fmt.Errorf("%w: %d", ErrMatchNotFound, id)
}

// Summary returns the headline statistics of the loaded dataset
func (s *DatasetService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	snap, err := s.loaded()
	if err != nil {
		return domain.DatasetSummary{}, err
	}
	return snap.summary, nil
}

func matchInfos(ds *domain.Dataset) []MatchInfo {
	index := make(map[int]int)
	infos := make([]MatchInfo, 0)
	for _, row := range ds.Rows {
		i, ok := index[row.MatchID]
		if !ok {
			i = len(infos)
			index[row.MatchID] = i
			infos = append(infos, MatchInfo{
				MatchContext: row.MatchContext,
				Date:         row.Date.Format("2006-01-02"),
			})
		}
		infos[i].Deliveries++
	}
	return infos
}

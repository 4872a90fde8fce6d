package state

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/promofinder/internal/catalog"
)

// LoadErrorMessage is the user-facing text recorded when the initial load fails.
const LoadErrorMessage = "Could not load the initial data."

// Default viewer position (Madrid centre).
const (
	DefaultLatitude  = 40.4168
	DefaultLongitude = -3.7038
)

// LoadingStatus is the lifecycle stage of the initial catalog load.
type LoadingStatus string

const (
	StatusIdle      LoadingStatus = "idle"
	StatusLoading   LoadingStatus = "loading"
	StatusSucceeded LoadingStatus = "succeeded"
	StatusFailed    LoadingStatus = "failed"
)

// State is the data available to the presentation layer.
type State struct {
	AllPromotions []catalog.Promotion
	Categories    []catalog.Category
	Stores        []catalog.Store
	Filters       Filters
	LoadingStatus LoadingStatus
	Error         string // empty unless LoadingStatus is StatusFailed

	// SpecialPromotionNotification is nil when no notification is pending.
	SpecialPromotionNotification *catalog.Promotion

	// CatalogVersion increments every time AllPromotions is replaced.
	CatalogVersion uint64
	LoadedAt       time.Time
}

// Store owns the application state. Mutations go through its action methods.
type Store struct {
	mu     sync.RWMutex
	state  State
	source catalog.Source
	logger zerolog.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithViewer sets the initial simulated viewer position.
func WithViewer(lat, lon float64) Option {
	return func(s *Store) {
		s.state.Filters.UserLatitude = lat
		s.state.Filters.UserLongitude = lon
		s.state.Filters.HasUserLocation = true
	}
}

// WithoutViewer starts the store with no viewer position, which disables
// proximity filtering until SetProximityFilter is called.
func WithoutViewer() Option {
	return func(s *Store) {
		s.state.Filters.UserLatitude = 0
		s.state.Filters.UserLongitude = 0
		s.state.Filters.HasUserLocation = false
	}
}

// New creates a Store in its initial state: empty catalog, idle status and
// the viewer at the default position.
func New(source catalog.Source, opts ...Option) *Store {
	s := &Store{
		source: source,
		logger: zerolog.Nop(),
		state: State{
			LoadingStatus: StatusIdle,
			Filters: Filters{
				UserLatitude:    DefaultLatitude,
				UserLongitude:   DefaultLongitude,
				HasUserLocation: true,
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.AllPromotions = catalog.ClonePromotions(s.state.AllPromotions)
	snap.Categories = catalog.CloneCategories(s.state.Categories)
	snap.Stores = catalog.CloneStores(s.state.Stores)
	if s.state.SpecialPromotionNotification != nil {
		n := catalog.ClonePromotions([]catalog.Promotion{*s.state.SpecialPromotionNotification})[0]
		snap.SpecialPromotionNotification = &n
	}
	return snap
}

// FetchInitialData loads promotions, categories and stores concurrently and
// blocks until the cycle ends. A call made while a load is in flight returns
// immediately without touching the source. The catalog is replaced only when
// all three calls succeed; otherwise the status becomes StatusFailed and the
// previous catalog is kept.
func (s *Store) FetchInitialData(ctx context.Context) {
	s.mu.Lock()
	if s.state.LoadingStatus == StatusLoading {
		s.mu.Unlock()
		return
	}
	s.state.LoadingStatus = StatusLoading
	s.state.Error = ""
	s.mu.Unlock()

	var (
		promotions []catalog.Promotion
		categories []catalog.Category
		stores     []catalog.Store
	)
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		promotions, err = s.source.FetchPromotions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.source.FetchCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stores, err = s.source.FetchStores(gctx)
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("failed to fetch initial data")
		s.state.LoadingStatus = StatusFailed
		s.state.Error = LoadErrorMessage
		return
	}

	s.state.AllPromotions = catalog.ClonePromotions(promotions)
	s.state.Categories = catalog.CloneCategories(categories)
	s.state.Stores = catalog.CloneStores(stores)
	s.state.CatalogVersion++
	s.state.LoadedAt = time.Now()
	s.state.LoadingStatus = StatusSucceeded
	s.logger.Info().
		Int("promotions", len(promotions)).
		Int("categories", len(categories)).
		Int("stores", len(stores)).
		Dur("elapsed", time.Since(start)).
		Msg("initial data loaded")
}

// SetCategoryFilter restricts results to one category. An empty id removes
// the constraint.
func (s *Store) SetCategoryFilter(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filters.CategoryID = categoryID
}

// SetStoreFilter restricts results to one store. An empty id removes the
// constraint.
func (s *Store) SetStoreFilter(storeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filters.StoreID = storeID
}

// SetProximityFilter moves the viewer and sets the maximum distance in one
// step. A nil maxDistanceKm removes the distance constraint. Values are
// stored as given; callers sanitise user input.
func (s *Store) SetProximityFilter(userLat, userLon float64, maxDistanceKm *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := &s.state.Filters
	f.UserLatitude = userLat
	f.UserLongitude = userLon
	f.HasUserLocation = true
	if maxDistanceKm == nil {
		f.MaxDistanceKm = 0
		f.HasMaxDistance = false
		return
	}
	f.MaxDistanceKm = *maxDistanceKm
	f.HasMaxDistance = true
}

// ClearFilters removes the category, store and distance constraints. The
// viewer position is left where it currently is.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := &s.state.Filters
	f.CategoryID = ""
	f.StoreID = ""
	f.MaxDistanceKm = 0
	f.HasMaxDistance = false
}

// TriggerSpecialPromotion records p as the pending notification when p is
// special and is not already the pending notification. It reports whether
// the notification changed.
func (s *Store) TriggerSpecialPromotion(p catalog.Promotion) bool {
	if !p.IsSpecial {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur := s.state.SpecialPromotionNotification; cur != nil && cur.ID == p.ID {
		return false
	}
	n := catalog.ClonePromotions([]catalog.Promotion{p})[0]
	s.state.SpecialPromotionNotification = &n
	s.logger.Debug().Str("promotion", p.ID).Msg("special promotion notification")
	return true
}

// ClearSpecialPromotionNotification drops any pending notification.
func (s *Store) ClearSpecialPromotionNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SpecialPromotionNotification = nil
}

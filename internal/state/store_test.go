package state

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/promofinder/internal/catalog"
)

var (
	catElec = catalog.Category{ID: "cat-1", Name: "Electrónica"}
	catModa = catalog.Category{ID: "cat-2", Name: "Moda"}

	storeA = catalog.Store{ID: "store-1", Name: "Tienda A", Latitude: catalog.Float(10), Longitude: catalog.Float(10)}
	storeB = catalog.Store{ID: "store-2", Name: "Tienda B", Latitude: catalog.Float(10.1), Longitude: catalog.Float(10.1)}
	storeC = catalog.Store{ID: "store-3", Name: "Tienda C", Latitude: catalog.Float(20), Longitude: catalog.Float(20)}

	promo1 = catalog.Promotion{ID: "p1", Title: "Promo Elec", Store: storeA, Category: catElec}
	promo2 = catalog.Promotion{ID: "p2", Title: "Promo Moda", Store: storeB, Category: catModa}
	promo3 = catalog.Promotion{ID: "p3", Title: "Promo Elec Especial", Store: storeA, Category: catElec, IsSpecial: true}
	promo4 = catalog.Promotion{ID: "p4", Title: "Promo Lejos", Store: storeC, Category: catElec}
)

func testPromotions() []catalog.Promotion {
	return []catalog.Promotion{promo1, promo2, promo3, promo4}
}

// fakeSource records calls and can block or fail each endpoint.
type fakeSource struct {
	promotions []catalog.Promotion
	categories []catalog.Category
	stores     []catalog.Store

	failPromotions error
	failCategories error
	failStores     error

	release chan struct{} // when non-nil, FetchPromotions waits for it
	entered chan struct{} // closed when FetchPromotions starts

	promotionCalls atomic.Int32
	categoryCalls  atomic.Int32
	storeCalls     atomic.Int32
	enterOnce      sync.Once
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		promotions: testPromotions(),
		categories: []catalog.Category{catElec, catModa},
		stores:     []catalog.Store{storeA, storeB},
	}
}

func (f *fakeSource) FetchPromotions(ctx context.Context) ([]catalog.Promotion, error) {
	f.promotionCalls.Add(1)
	if f.entered != nil {
		f.enterOnce.Do(func() { close(f.entered) })
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failPromotions != nil {
		return nil, f.failPromotions
	}
	return f.promotions, nil
}

func (f *fakeSource) FetchCategories(context.Context) ([]catalog.Category, error) {
	f.categoryCalls.Add(1)
	if f.failCategories != nil {
		return nil, f.failCategories
	}
	return f.categories, nil
}

func (f *fakeSource) FetchStores(context.Context) ([]catalog.Store, error) {
	f.storeCalls.Add(1)
	if f.failStores != nil {
		return nil, f.failStores
	}
	return f.stores, nil
}

func TestStore_InitialState(t *testing.T) {
	s := New(newFakeSource())
	snap := s.Snapshot()

	if len(snap.AllPromotions) != 0 || len(snap.Categories) != 0 || len(snap.Stores) != 0 {
		t.Fatalf("initial catalog not empty: %#v", snap)
	}
	if snap.LoadingStatus != StatusIdle {
		t.Fatalf("LoadingStatus = %q, want idle", snap.LoadingStatus)
	}
	if snap.Error != "" {
		t.Fatalf("Error = %q, want empty", snap.Error)
	}
	if snap.SpecialPromotionNotification != nil {
		t.Fatalf("notification = %#v, want nil", snap.SpecialPromotionNotification)
	}
	f := snap.Filters
	if f.CategoryID != "" || f.StoreID != "" || f.HasMaxDistance {
		t.Fatalf("initial filters constrained: %#v", f)
	}
	if !f.HasUserLocation || f.UserLatitude != DefaultLatitude || f.UserLongitude != DefaultLongitude {
		t.Fatalf("initial viewer = (%v, %v, %v), want default", f.UserLatitude, f.UserLongitude, f.HasUserLocation)
	}
}

func TestStore_WithViewerOptions(t *testing.T) {
	s := New(newFakeSource(), WithViewer(1.5, 2.5))
	if f := s.Snapshot().Filters; f.UserLatitude != 1.5 || f.UserLongitude != 2.5 || !f.HasUserLocation {
		t.Fatalf("viewer = %#v, want (1.5, 2.5)", f)
	}

	s = New(newFakeSource(), WithoutViewer())
	if _, ok := s.Snapshot().Filters.Viewer(); ok {
		t.Fatalf("Viewer ok = true, want false")
	}
}

func TestStore_FetchInitialDataSuccess(t *testing.T) {
	src := newFakeSource()
	s := New(src)

	s.FetchInitialData(context.Background())

	snap := s.Snapshot()
	if src.promotionCalls.Load() != 1 || src.categoryCalls.Load() != 1 || src.storeCalls.Load() != 1 {
		t.Fatalf("calls = %d/%d/%d, want 1/1/1",
			src.promotionCalls.Load(), src.categoryCalls.Load(), src.storeCalls.Load())
	}
	if snap.LoadingStatus != StatusSucceeded {
		t.Fatalf("LoadingStatus = %q, want succeeded", snap.LoadingStatus)
	}
	if snap.Error != "" {
		t.Fatalf("Error = %q, want empty", snap.Error)
	}
	if !reflect.DeepEqual(snap.AllPromotions, src.promotions) {
		t.Fatalf("AllPromotions = %#v, want %#v", snap.AllPromotions, src.promotions)
	}
	if !reflect.DeepEqual(snap.Categories, src.categories) {
		t.Fatalf("Categories = %#v, want %#v", snap.Categories, src.categories)
	}
	if !reflect.DeepEqual(snap.Stores, src.stores) {
		t.Fatalf("Stores = %#v, want %#v", snap.Stores, src.stores)
	}
	if snap.CatalogVersion != 1 {
		t.Fatalf("CatalogVersion = %d, want 1", snap.CatalogVersion)
	}
	if snap.LoadedAt.IsZero() {
		t.Fatalf("LoadedAt not set")
	}
}

func TestStore_FetchInitialDataFailure(t *testing.T) {
	src := newFakeSource()
	src.failPromotions = errors.New("API Error")
	s := New(src)

	s.FetchInitialData(context.Background())

	snap := s.Snapshot()
	if snap.LoadingStatus != StatusFailed {
		t.Fatalf("LoadingStatus = %q, want failed", snap.LoadingStatus)
	}
	if snap.Error != LoadErrorMessage {
		t.Fatalf("Error = %q, want %q", snap.Error, LoadErrorMessage)
	}
	if len(snap.AllPromotions) != 0 {
		t.Fatalf("AllPromotions = %#v, want empty", snap.AllPromotions)
	}
}

func TestStore_OnlyCategoriesFailLeavesCatalogUntouched(t *testing.T) {
	src := newFakeSource()
	src.failCategories = errors.New("categories down")
	s := New(src)

	s.FetchInitialData(context.Background())

	snap := s.Snapshot()
	if snap.LoadingStatus != StatusFailed {
		t.Fatalf("LoadingStatus = %q, want failed", snap.LoadingStatus)
	}
	if len(snap.AllPromotions) != 0 || len(snap.Stores) != 0 || len(snap.Categories) != 0 {
		t.Fatalf("catalog partially applied: %d promotions, %d stores, %d categories",
			len(snap.AllPromotions), len(snap.Stores), len(snap.Categories))
	}
	if snap.CatalogVersion != 0 {
		t.Fatalf("CatalogVersion = %d, want 0", snap.CatalogVersion)
	}
}

func TestStore_FailureKeepsPreviousCatalog(t *testing.T) {
	src := newFakeSource()
	s := New(src)
	s.FetchInitialData(context.Background())

	src.failStores = errors.New("stores down")
	s.FetchInitialData(context.Background())

	snap := s.Snapshot()
	if snap.LoadingStatus != StatusFailed {
		t.Fatalf("LoadingStatus = %q, want failed", snap.LoadingStatus)
	}
	if len(snap.AllPromotions) != 4 || len(snap.Stores) != 2 {
		t.Fatalf("previous catalog lost: %d promotions, %d stores", len(snap.AllPromotions), len(snap.Stores))
	}

	// A later successful load is the retry path and clears the error.
	src.failStores = nil
	s.FetchInitialData(context.Background())
	snap = s.Snapshot()
	if snap.LoadingStatus != StatusSucceeded || snap.Error != "" {
		t.Fatalf("after retry status=%q error=%q, want succeeded and empty", snap.LoadingStatus, snap.Error)
	}
	if snap.CatalogVersion != 2 {
		t.Fatalf("CatalogVersion = %d, want 2", snap.CatalogVersion)
	}
}

func TestStore_FetchWhileLoadingIsNoop(t *testing.T) {
	src := newFakeSource()
	src.release = make(chan struct{})
	src.entered = make(chan struct{})
	s := New(src)

	done := make(chan struct{})
	go func() {
		s.FetchInitialData(context.Background())
		close(done)
	}()

	select {
	case <-src.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("first load never reached the source")
	}
	if got := s.Snapshot().LoadingStatus; got != StatusLoading {
		t.Fatalf("LoadingStatus = %q, want loading", got)
	}

	// Second call must return without blocking or touching the source.
	second := make(chan struct{})
	go func() {
		s.FetchInitialData(context.Background())
		close(second)
	}()
	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatalf("re-entrant FetchInitialData blocked")
	}
	if got := s.Snapshot().LoadingStatus; got != StatusLoading {
		t.Fatalf("LoadingStatus after re-entrant call = %q, want loading", got)
	}

	close(src.release)
	<-done

	if src.promotionCalls.Load() != 1 || src.categoryCalls.Load() != 1 || src.storeCalls.Load() != 1 {
		t.Fatalf("calls = %d/%d/%d, want 1/1/1",
			src.promotionCalls.Load(), src.categoryCalls.Load(), src.storeCalls.Load())
	}
	if got := s.Snapshot().LoadingStatus; got != StatusSucceeded {
		t.Fatalf("LoadingStatus = %q, want succeeded", got)
	}
}

func TestStore_FetchCancelledContextFails(t *testing.T) {
	src := newFakeSource()
	src.release = make(chan struct{})
	s := New(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.FetchInitialData(ctx)

	if got := s.Snapshot().LoadingStatus; got != StatusFailed {
		t.Fatalf("LoadingStatus = %q, want failed", got)
	}
}

func TestStore_SetCategoryAndStoreFilter(t *testing.T) {
	s := New(newFakeSource())

	s.SetCategoryFilter("cat-1")
	if got := s.Snapshot().Filters.CategoryID; got != "cat-1" {
		t.Fatalf("CategoryID = %q, want cat-1", got)
	}
	s.SetCategoryFilter("")
	if got := s.Snapshot().Filters.CategoryID; got != "" {
		t.Fatalf("CategoryID = %q, want empty (no constraint)", got)
	}

	s.SetStoreFilter("store-1")
	if got := s.Snapshot().Filters.StoreID; got != "store-1" {
		t.Fatalf("StoreID = %q, want store-1", got)
	}
	s.SetStoreFilter("")
	if s.Snapshot().Filters.Active() {
		t.Fatalf("filters still active after clearing both axes")
	}
}

func TestStore_SetProximityFilter(t *testing.T) {
	s := New(newFakeSource())
	dist := 10.0

	s.SetProximityFilter(50, -1, &dist)
	f := s.Snapshot().Filters
	if f.UserLatitude != 50 || f.UserLongitude != -1 {
		t.Fatalf("viewer = (%v, %v), want (50, -1)", f.UserLatitude, f.UserLongitude)
	}
	if limit, ok := f.MaxDistance(); !ok || limit != 10 {
		t.Fatalf("MaxDistance = %v, %v; want 10, true", limit, ok)
	}

	s.SetProximityFilter(50, -1, nil)
	f = s.Snapshot().Filters
	if _, ok := f.MaxDistance(); ok {
		t.Fatalf("MaxDistance still set after nil")
	}
	if f.UserLatitude != 50 || f.UserLongitude != -1 {
		t.Fatalf("viewer = (%v, %v), want (50, -1)", f.UserLatitude, f.UserLongitude)
	}
}

func TestStore_SetProximityFilterStoresInvalidValuesVerbatim(t *testing.T) {
	s := New(newFakeSource())
	neg := -5.0
	s.SetProximityFilter(200, -400, &neg)

	f := s.Snapshot().Filters
	if f.UserLatitude != 200 || f.UserLongitude != -400 || f.MaxDistanceKm != -5 {
		t.Fatalf("filters = %#v, want values stored verbatim", f)
	}
}

func TestStore_ClearFiltersKeepsViewer(t *testing.T) {
	s := New(newFakeSource())
	dist := 20.0

	s.SetCategoryFilter("cat-1")
	s.SetStoreFilter("store-1")
	s.SetProximityFilter(41.5, -3, &dist)
	s.ClearFilters()

	f := s.Snapshot().Filters
	if f.CategoryID != "" || f.StoreID != "" || f.HasMaxDistance || f.MaxDistanceKm != 0 {
		t.Fatalf("criteria not cleared: %#v", f)
	}
	if f.UserLatitude != 41.5 || f.UserLongitude != -3 || !f.HasUserLocation {
		t.Fatalf("viewer = (%v, %v), want current (41.5, -3) not the default", f.UserLatitude, f.UserLongitude)
	}
}

func TestStore_TriggerSpecialPromotion(t *testing.T) {
	s := New(newFakeSource())

	if !s.TriggerSpecialPromotion(promo3) {
		t.Fatalf("TriggerSpecialPromotion(special) = false, want true")
	}
	got := s.Snapshot().SpecialPromotionNotification
	if got == nil || !reflect.DeepEqual(*got, promo3) {
		t.Fatalf("notification = %#v, want %#v", got, promo3)
	}

	// Same id again is ignored.
	again := promo3
	again.Title = "renamed"
	if s.TriggerSpecialPromotion(again) {
		t.Fatalf("TriggerSpecialPromotion(same id) = true, want false")
	}
	if got := s.Snapshot().SpecialPromotionNotification; got.Title != promo3.Title {
		t.Fatalf("notification replaced by duplicate: %q", got.Title)
	}

	// Non-special promotions are rejected silently.
	if s.TriggerSpecialPromotion(promo1) {
		t.Fatalf("TriggerSpecialPromotion(non-special) = true, want false")
	}
	if got := s.Snapshot().SpecialPromotionNotification; got.ID != promo3.ID {
		t.Fatalf("notification = %q, want %q", got.ID, promo3.ID)
	}

	// A different special promotion replaces the pending one.
	other := catalog.Promotion{ID: "p9", IsSpecial: true}
	if !s.TriggerSpecialPromotion(other) {
		t.Fatalf("TriggerSpecialPromotion(other special) = false, want true")
	}
	if got := s.Snapshot().SpecialPromotionNotification; got.ID != "p9" {
		t.Fatalf("notification = %q, want p9", got.ID)
	}
}

func TestStore_ClearSpecialPromotionNotification(t *testing.T) {
	s := New(newFakeSource())
	s.TriggerSpecialPromotion(promo3)
	s.ClearSpecialPromotionNotification()

	if got := s.Snapshot().SpecialPromotionNotification; got != nil {
		t.Fatalf("notification = %#v, want nil", got)
	}

	// Once cleared, the same promotion can notify again.
	if !s.TriggerSpecialPromotion(promo3) {
		t.Fatalf("TriggerSpecialPromotion after clear = false, want true")
	}
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	s := New(newFakeSource())
	s.FetchInitialData(context.Background())
	s.TriggerSpecialPromotion(promo3)

	snap := s.Snapshot()
	snap.AllPromotions[0].ID = "mutated"
	*snap.Stores[0].Latitude = -1
	snap.SpecialPromotionNotification.Title = "mutated"

	again := s.Snapshot()
	if again.AllPromotions[0].ID != "p1" {
		t.Fatalf("Snapshot shares promotions: %q", again.AllPromotions[0].ID)
	}
	if *again.Stores[0].Latitude != 10 {
		t.Fatalf("Snapshot shares stores: %v", *again.Stores[0].Latitude)
	}
	if again.SpecialPromotionNotification.Title != promo3.Title {
		t.Fatalf("Snapshot shares notification: %q", again.SpecialPromotionNotification.Title)
	}
}

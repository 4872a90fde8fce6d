// Package state holds the catalog browser's application state and the
// derived view the UI renders.
//
// # Overview
//
// A single Store is created by the composition root and handed to the UI by
// reference. It contains the loaded catalog (promotions, categories, stores),
// the active filters, the load status and the pending special-promotion
// notification. All writes go through the Store's action methods; readers
// take a Snapshot.
//
//	UI (bubbletea):                  Store:
//	┌──────────────────┐            ┌──────────────────────────┐
//	│ Init → load cmd  │───────────→│ FetchInitialData()       │
//	│                  │            │   ├─ FetchPromotions ─┐  │
//	│                  │            │   ├─ FetchCategories ─┼─ errgroup
//	│                  │            │   └─ FetchStores ─────┘  │
//	│ key handlers     │───────────→│ Set*Filter / Clear*      │
//	│ tick / render    │←───────────│ Snapshot()               │
//	│ FilteredView     │            │                          │
//	└──────────────────┘            └──────────────────────────┘
//
// # Load Lifecycle
//
// LoadingStatus moves through idle, loading, succeeded and failed:
//
//	idle|succeeded|failed --FetchInitialData--> loading
//	loading --all three calls succeed--> succeeded
//	loading --any call fails-----------> failed
//
// FetchInitialData called while loading is a no-op; the status check and the
// transition to loading happen under the same lock, so concurrent callers
// cannot start a second load. On failure the previous catalog is kept,
// Error is set to LoadErrorMessage and the cause is only logged. There is no
// automatic retry: calling FetchInitialData again is the retry.
//
// # Filters
//
// Filters has three criteria (category, store, maximum distance) and the
// simulated viewer position. ClearFilters resets the criteria only; the
// viewer stays wherever SetProximityFilter last put it. The Store does not
// validate numbers: a negative or NaN distance is stored as given.
//
// # Derived View
//
// SelectFilteredPromotions is a pure function of the catalog and the filters.
// FilteredView caches its result keyed on State.CatalogVersion and the
// Filters value, which is what the UI calls on every render.
//
// # Notifications
//
// TriggerSpecialPromotion accepts only promotions flagged IsSpecial and
// ignores a promotion that is already the pending notification. The Store
// owns no timers; the UI decides when a special promotion "arrives" and when
// the toast goes away.
//
// # Concurrency
//
// Store uses a sync.RWMutex. Snapshot copies slices and the notification, so
// callers can hold snapshots across renders without racing the loader.
package state

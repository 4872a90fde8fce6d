// Package catalog defines the promotion catalog model and its data source.
//
// # Model
//
// A Promotion embeds exactly one Store and one Category by value, so no join
// step is needed after a fetch. Stores carry optional coordinates; a store
// without both latitude and longitude opts out of proximity filtering.
// ValidUntil is informational: an expired promotion is still a catalog entry.
//
// # Source
//
// Source is the fetch contract used by the state layer. It has three
// independent calls with no parameters. Any call may fail, and callers treat
// a single failure as a failure of the whole load.
//
// MockSource implements Source over an embedded TOML document (fixture.toml).
// It sleeps to simulate latency, honours context cancellation, and can be
// told to fail selected endpoints:
//
//	src, err := catalog.NewMockSource(
//		catalog.WithLatency(200*time.Millisecond),
//		catalog.WithFailures(catalog.EndpointCategories),
//	)
//
// Every call returns fresh copies, so callers may keep or mutate results.
package catalog

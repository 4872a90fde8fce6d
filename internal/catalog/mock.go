package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLatency is the simulated round trip for FetchPromotions. Category
// and store calls take half of it.
const DefaultLatency = 500 * time.Millisecond

// ErrSimulatedFailure is returned by endpoints a MockSource was told to fail.
var ErrSimulatedFailure = errors.New("simulated source failure")

// Ensure MockSource implements Source at compile time.
var _ Source = (*MockSource)(nil)

// MockSource serves a fixed catalog from memory with artificial latency.
type MockSource struct {
	fixture Fixture
	latency time.Duration
	fail    map[Endpoint]bool
	now     func() time.Time
	logger  zerolog.Logger
}

// MockOption customises a MockSource.
type MockOption func(*MockSource)

// WithLatency sets the promotions latency. Zero disables the delay.
func WithLatency(d time.Duration) MockOption {
	return func(m *MockSource) {
		if d >= 0 {
			m.latency = d
		}
	}
}

// WithFailures makes the named endpoints return ErrSimulatedFailure.
func WithFailures(endpoints ...Endpoint) MockOption {
	return func(m *MockSource) {
		for _, ep := range endpoints {
			m.fail[ep] = true
		}
	}
}

// WithClock overrides the clock used to anchor relative expiries.
func WithClock(now func() time.Time) MockOption {
	return func(m *MockSource) {
		if now != nil {
			m.now = now
		}
	}
}

// WithFixture replaces the embedded demo catalog.
func WithFixture(fx Fixture) MockOption {
	return func(m *MockSource) {
		m.fixture = fx
	}
}

// WithLogger sets the logger used for simulated call tracing.
func WithLogger(logger zerolog.Logger) MockOption {
	return func(m *MockSource) {
		m.logger = logger
	}
}

// NewMockSource builds a MockSource over the embedded demo catalog.
func NewMockSource(opts ...MockOption) (*MockSource, error) {
	fx, err := ParseFixture(defaultFixture)
	if err != nil {
		return nil, err
	}
	m := &MockSource{
		fixture: fx,
		latency: DefaultLatency,
		fail:    make(map[Endpoint]bool),
		now:     time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// FetchPromotions returns the resolved promotion list.
func (m *MockSource) FetchPromotions(ctx context.Context) ([]Promotion, error) {
	if err := m.call(ctx, EndpointPromotions, m.latency); err != nil {
		return nil, err
	}
	return m.fixture.Resolve(m.now()), nil
}

// FetchCategories returns the category reference list.
func (m *MockSource) FetchCategories(ctx context.Context) ([]Category, error) {
	if err := m.call(ctx, EndpointCategories, m.latency/2); err != nil {
		return nil, err
	}
	return CloneCategories(m.fixture.Categories), nil
}

// FetchStores returns the store reference list.
func (m *MockSource) FetchStores(ctx context.Context) ([]Store, error) {
	if err := m.call(ctx, EndpointStores, m.latency/2); err != nil {
		return nil, err
	}
	return CloneStores(m.fixture.Stores), nil
}

func (m *MockSource) call(ctx context.Context, ep Endpoint, delay time.Duration) error {
	m.logger.Debug().Str("endpoint", string(ep)).Dur("latency", delay).Msg("simulated fetch")

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return fmt.Errorf("fetch %s: %w", ep, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return fmt.Errorf("fetch %s: %w", ep, err)
	}

	if m.fail[ep] {
		return fmt.Errorf("fetch %s: %w", ep, ErrSimulatedFailure)
	}
	return nil
}

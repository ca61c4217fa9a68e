package settings

import (
	"context"
	"sync"

	"github.com/nerrad567/battery-monitor-core/internal/monitor"
)

// DefaultThreshold is the battery percentage used when no settings row
// has been written yet.
const DefaultThreshold = monitor.DefaultThreshold

// Store provides cached access to persisted settings and notifies a
// callback when they change. The monitor's evaluation loop registers
// itself as that callback so settings updates take effect immediately.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Store struct {
	repo Repository

	mu     sync.RWMutex
	cached *Settings

	onChange   func()
	callbackMu sync.RWMutex
}

// NewStore creates a settings store backed by the given repository.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Load primes the cache from the repository. Call once at startup.
func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cached = loaded
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the current settings, reading from the
// repository if the cache has not been primed.
func (s *Store) Get(ctx context.Context) (*Settings, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()

	if cached != nil {
		return cached.Clone(), nil
	}

	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached.Clone(), nil
}

// SetThreshold validates and persists a new low-battery threshold.
func (s *Store) SetThreshold(ctx context.Context, threshold int) error {
	if threshold < 0 || threshold > 100 {
		return ErrInvalidThreshold
	}

	if err := s.repo.SetThreshold(ctx, threshold); err != nil {
		return err
	}

	return s.reload(ctx)
}

// AddExclusion excludes a device from aggregation. The device ID is not
// validated against the registry: exclusions may outlive the device.
func (s *Store) AddExclusion(ctx context.Context, deviceID string) error {
	if err := s.repo.AddExclusion(ctx, deviceID); err != nil {
		return err
	}
	return s.reload(ctx)
}

// RemoveExclusion returns a device to aggregation.
func (s *Store) RemoveExclusion(ctx context.Context, deviceID string) error {
	if err := s.repo.RemoveExclusion(ctx, deviceID); err != nil {
		return err
	}
	return s.reload(ctx)
}

// SetOnChange registers a callback invoked after every successful
// settings mutation.
func (s *Store) SetOnChange(callback func()) {
	s.callbackMu.Lock()
	s.onChange = callback
	s.callbackMu.Unlock()
}

// MonitorConfig satisfies monitor.ConfigProvider.
func (s *Store) MonitorConfig(ctx context.Context) (monitor.Config, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return monitor.Config{}, err
	}
	return monitor.Config{
		Threshold:         current.Threshold,
		ExcludedDeviceIDs: current.ExcludedDeviceIDs,
	}, nil
}

// reload refreshes the cache after a mutation and fires the change callback.
func (s *Store) reload(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	s.callbackMu.RLock()
	callback := s.onChange
	s.callbackMu.RUnlock()
	if callback != nil {
		callback()
	}
	return nil
}

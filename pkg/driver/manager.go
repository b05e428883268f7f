package driver

import (
	"sync"
)

// FilterFn is being used to decide if a driver should be included in the
// query result.
type FilterFn func(Driver) bool

// FilterNot returns a filter function to negate provided filter.
func FilterNot(filter FilterFn) FilterFn {
	return func(d Driver) bool {
		return !filter(d)
	}
}

// FilterAnd returns a filter function to take logical conjunction of provided filters.
func FilterAnd(filters ...FilterFn) FilterFn {
	return func(d Driver) bool {
		for _, f := range filters {
			if !f(d) {
				return false
			}
		}
		return true
	}
}

// FilterID returns a filter function to query a driver by its ID.
func FilterID(id string) FilterFn {
	return func(d Driver) bool {
		return d.ID() == id
	}
}

// FilterLabel returns a filter function to query drivers by label.
func FilterLabel(label string) FilterFn {
	return func(d Driver) bool {
		return d.Info().Label == label
	}
}

// FilterDeviceType returns a filter function to query drivers by device type.
func FilterDeviceType(t DeviceType) FilterFn {
	return func(d Driver) bool {
		return d.Info().DeviceType == t
	}
}

// Manager keeps track of registered drivers in registration order.
type Manager struct {
	mu      sync.RWMutex
	drivers []Driver
}

var manager = NewManager()

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// GetManager gets manager singleton instance.
func GetManager() *Manager {
	return manager
}

// Register wraps a with a fresh ID and stores it. The ID is returned.
func (m *Manager) Register(a Adapter, info Info) string {
	d := wrapAdapter(a, info)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers = append(m.drivers, d)
	return d.ID()
}

// Unregister removes the driver with the given ID. It does not close it.
func (m *Manager) Unregister(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, d := range m.drivers {
		if d.ID() == id {
			m.drivers = append(m.drivers[:i], m.drivers[i+1:]...)
			return true
		}
	}
	return false
}

// Query queries by using f to filter drivers, and simply return the filtered results.
func (m *Manager) Query(f FilterFn) []Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]Driver, 0)
	for _, d := range m.drivers {
		if f(d) {
			results = append(results, d)
		}
	}

	return results
}

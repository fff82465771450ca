package visa

import (
	"context"
	"sort"
	"time"
)

// ManagerConfig configures resource enumeration.
type ManagerConfig struct {
	// Resources are statically configured resource names, returned
	// verbatim by ListResources.
	Resources []string

	// DisableDiscovery turns off LXI mDNS browsing; only static
	// resources are returned.
	DisableDiscovery bool

	// BrowseTimeout bounds a single mDNS browse. Default: 2 seconds.
	BrowseTimeout time.Duration

	// Interface restricts mDNS browsing to a named network interface.
	// Empty string means all interfaces.
	Interface string
}

// Manager is a ResourceManager combining statically configured resources
// with LXI instruments discovered over mDNS.
type Manager struct {
	config ManagerConfig
}

// NewManager creates a resource manager.
func NewManager(config ManagerConfig) *Manager {
	return &Manager{config: config}
}

// ListResources returns static resources followed by discovered ones,
// deduplicated, with the discovered portion sorted for stable output.
// Discovery failure is not fatal: static resources are still returned.
func (m *Manager) ListResources(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool, len(m.config.Resources))
	out := make([]string, 0, len(m.config.Resources))
	for _, name := range m.config.Resources {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	if m.config.DisableDiscovery {
		return out, nil
	}

	discovered, err := m.browseLXI(ctx)
	if err != nil {
		return out, nil
	}
	sort.Strings(discovered)
	for _, name := range discovered {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}

// Open opens a socket session to the named resource.
func (m *Manager) Open(ctx context.Context, name string, timeout time.Duration) (Session, error) {
	return DialSocket(ctx, name, timeout)
}

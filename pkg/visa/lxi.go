package visa

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// LXI service types advertised by networked instruments.
const (
	// ServiceTypeSCPIRaw is the service type for raw SCPI socket instruments.
	ServiceTypeSCPIRaw = "_scpi-raw._tcp"

	// ServiceTypeVXI11 is the service type for VXI-11 instruments.
	ServiceTypeVXI11 = "_vxi-11._tcp"

	// ServiceTypeHiSLIP is the service type for HiSLIP instruments.
	ServiceTypeHiSLIP = "_hislip._tcp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// DefaultBrowseTimeout bounds an mDNS browse when none is configured.
const DefaultBrowseTimeout = 2 * time.Second

// lxiServiceTypes lists the service types browsed during discovery.
// Only _scpi-raw maps onto a socket session we can actually open, but
// the others are still reported so the operator can see every
// instrument on the network.
var lxiServiceTypes = []string{
	ServiceTypeSCPIRaw,
	ServiceTypeVXI11,
	ServiceTypeHiSLIP,
}

// browseLXI browses all LXI service types and returns the resource names
// of discovered instruments. Entries are aggregated by instance name so
// an instrument answering on several interfaces or service types appears
// once. Browsing is best-effort: the result may be empty.
func (m *Manager) browseLXI(ctx context.Context) ([]string, error) {
	timeout := m.config.BrowseTimeout
	if timeout <= 0 {
		timeout = DefaultBrowseTimeout
	}
	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := m.browserOptions()

	var (
		mu    sync.Mutex
		found = make(map[string]string) // instance name -> resource name
		wg    sync.WaitGroup
	)

	for _, service := range lxiServiceTypes {
		entries := make(chan *zeroconf.ServiceEntry)
		removed := make(chan *zeroconf.ServiceEntry)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case entry, ok := <-entries:
					if !ok {
						return
					}
					name := entryToResource(entry)
					if name == "" {
						continue
					}
					mu.Lock()
					if _, exists := found[entry.Instance]; !exists {
						found[entry.Instance] = name
					}
					mu.Unlock()
				case <-removed:
				case <-browseCtx.Done():
					return
				}
			}
		}()

		// Browse blocks until the context expires.
		wg.Add(1)
		go func(service string) {
			defer wg.Done()
			_ = zeroconf.Browse(browseCtx, service, Domain, entries, removed, opts...)
		}(service)
	}

	wg.Wait()

	out := make([]string, 0, len(found))
	for _, name := range found {
		out = append(out, name)
	}
	return out, nil
}

// browserOptions returns zeroconf client options based on config.
func (m *Manager) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if m.config.Interface != "" {
		iface, err := net.InterfaceByName(m.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToResource converts an mDNS service entry to a VISA resource name.
// Returns "" when the entry carries no usable address.
func entryToResource(entry *zeroconf.ServiceEntry) string {
	var host string
	switch {
	case len(entry.AddrIPv4) > 0:
		host = entry.AddrIPv4[0].String()
	case len(entry.AddrIPv6) > 0:
		host = entry.AddrIPv6[0].String()
	default:
		return ""
	}
	port := entry.Port
	if port <= 0 {
		port = DefaultPort
	}
	return Resource{Host: host, Port: port}.String()
}

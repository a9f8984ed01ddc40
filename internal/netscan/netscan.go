package netscan

import (
	"context"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/rs/zerolog/log"

	"github.com/dallonby/RotaryDial/internal/mode"
)

const (
	// Remote thermal services advertise plain HTTP over mDNS.
	serviceType   = "_http._tcp"
	serviceDomain = "local."
)

// Scanner browses the local network for candidate remote thermal
// services. Results stream on a channel so the control loop can drain
// them without blocking; the browse itself runs on its own goroutine
// bounded by the configured timeout.
type Scanner struct {
	timeout time.Duration

	cancel  context.CancelFunc
	results chan mode.Host
}

func NewScanner(timeout time.Duration) *Scanner {
	return &Scanner{timeout: timeout}
}

// Start begins a new browse, cancelling any previous one. Discovered
// hosts arrive on Results until the timeout elapses or Stop is called.
func (s *Scanner) Start() {
	s.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	s.cancel = cancel
	s.results = make(chan mode.Host, 16)

	entries := make(chan *zeroconf.ServiceEntry)
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create mDNS resolver")
		s.Stop()
		return
	}

	go forward(ctx, entries, s.results)

	if err := resolver.Browse(ctx, serviceType, serviceDomain, entries); err != nil {
		log.Warn().Err(err).Msg("Failed to browse for mDNS services")
		s.Stop()
		return
	}

	log.Info().Dur("timeout", s.timeout).Msg("Network scan started")
}

// forward copies parsed entries onto the result channel until the
// entries channel closes or the browse context ends. zeroconf does not
// close entries when Browse returns an error, so cancellation must be
// observed on every receive, not only on sends.
func forward(ctx context.Context, entries <-chan *zeroconf.ServiceEntry, results chan<- mode.Host) {
	defer close(results)
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			host, ok := parseServiceEntry(entry)
			if !ok {
				continue
			}
			select {
			case results <- host:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Results returns the current browse's result channel, or nil when no
// scan is running. A nil channel blocks forever in select, which is
// exactly the idle behavior the loop wants.
func (s *Scanner) Results() <-chan mode.Host {
	return s.results
}

// Stop cancels an in-flight browse.
func (s *Scanner) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.results = nil
}

func parseServiceEntry(entry *zeroconf.ServiceEntry) (mode.Host, bool) {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return mode.Host{}, false
	}

	name := strings.TrimSuffix(entry.HostName, ".")
	if name == "" {
		name = entry.Instance
	}

	return mode.Host{
		Name: name,
		Addr: entry.AddrIPv4[0].String(),
	}, true
}

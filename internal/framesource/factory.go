package framesource

import (
	"fmt"
	"os"
	"time"
)

// Options selects which transport backs the frame source.
type Options struct {
	// UDPAddr is the listen address for detector datagrams, e.g. ":9999".
	UDPAddr string
	// FixturesPath replays a recorded NDJSON file instead of listening.
	FixturesPath string
	// ReplayInterval is the per-line delay when replaying fixtures.
	ReplayInterval time.Duration
	// Disabled runs with no frame stream at all.
	Disabled bool
}

// New builds the Source described by opts. Fixtures take precedence over the
// UDP listener so -fixtures works in dev without freeing the port first.
func New(opts Options) (Source, error) {
	if opts.Disabled {
		return NewDisabledSource(), nil
	}

	if opts.FixturesPath != "" {
		data, err := os.ReadFile(opts.FixturesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixtures file: %w", err)
		}
		interval := opts.ReplayInterval
		if interval <= 0 {
			interval = 50 * time.Millisecond
		}
		return NewMockSource(data, interval), nil
	}

	if opts.UDPAddr == "" {
		return nil, fmt.Errorf("no frame source configured: need a UDP address, a fixtures file, or disabled mode")
	}
	return NewUDPSource(opts.UDPAddr)
}

package framesource

import (
	"bufio"
	"bytes"
	"io"
	"time"
)

// MockPort implements Porter over a pipe fed by a fixture replayer.
type MockPort struct {
	io.Reader
	io.Closer
}

// NewMockSource creates a mux backed by fixture data replayed line by line at
// the given interval, looping forever. It stands in for the pose detector in
// dev mode.
func NewMockSource(fixtures []byte, interval time.Duration) *Mux[*MockPort] {
	r, w := io.Pipe()

	go func() {
		defer w.Close()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		scan := bufio.NewScanner(bytes.NewReader(fixtures))
		scan.Buffer(make([]byte, 64*1024), 256*1024)
		for range ticker.C {
			if !scan.Scan() {
				// loop the fixture file
				scan = bufio.NewScanner(bytes.NewReader(fixtures))
				scan.Buffer(make([]byte, 64*1024), 256*1024)
				if !scan.Scan() {
					return
				}
			}
			if _, err := w.Write(append(scan.Bytes(), '\n')); err != nil {
				return
			}
		}
	}()

	return NewMux(&MockPort{Reader: r, Closer: r})
}

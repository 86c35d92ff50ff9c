package framesource

import (
	"fmt"
	"net"
)

// UDPPort adapts a UDP socket to the Porter interface. Each datagram holds
// one or more NDJSON lines; a missing trailing newline is supplied so the
// scanner still splits cleanly at datagram boundaries.
type UDPPort struct {
	conn *net.UDPConn
	buf  []byte
	rest []byte
}

func (u *UDPPort) Read(p []byte) (int, error) {
	if len(u.rest) == 0 {
		n, _, err := u.conn.ReadFromUDP(u.buf)
		if err != nil {
			return 0, err
		}
		u.rest = u.buf[:n]
		if n > 0 && u.rest[n-1] != '\n' {
			u.rest = append(u.rest[:n:n], '\n')
		}
	}
	n := copy(p, u.rest)
	u.rest = u.rest[n:]
	return n, nil
}

func (u *UDPPort) Close() error {
	return u.conn.Close()
}

// NewUDPSource listens on addr for NDJSON frame datagrams from the pose
// detector and returns a mux over them.
func NewUDPSource(addr string) (*Mux[*UDPPort], error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve UDP address %q: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %q: %w", addr, err)
	}
	return NewMux(&UDPPort{conn: conn, buf: make([]byte, 64*1024)}), nil
}

// Package portreserve hands out loopback TCP ports that another process can
// bind immediately afterwards.
//
// Reserve lets the kernel pick a free port, then completes a full
// connect/accept handshake on it before closing everything. The accepted
// side is closed first, which parks the port in TIME_WAIT: the kernel will
// not hand it out again for an ephemeral bind, while a listener that sets
// SO_REUSEADDR (as chromedriver does) can still bind it.
package portreserve

import (
	"context"
	"fmt"
	"net"
)

// Host is the interface every reservation binds to.
const Host = "127.0.0.1"

// Reserve returns a loopback TCP port that is free at return time.
// No socket is left open.
func Reserve() (int, error) {
	lc := net.ListenConfig{Control: reuseAddrControl}
	l, err := lc.Listen(context.Background(), "tcp4", net.JoinHostPort(Host, "0"))
	if err != nil {
		return 0, fmt.Errorf("portreserve: listen: %w", err)
	}
	defer l.Close()

	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("portreserve: unexpected listener address %T", l.Addr())
	}

	client, err := net.DialTCP("tcp4", nil, addr)
	if err != nil {
		return 0, fmt.Errorf("portreserve: connect: %w", err)
	}
	defer client.Close()

	accepted, err := l.Accept()
	if err != nil {
		return 0, fmt.Errorf("portreserve: accept: %w", err)
	}
	// accepted side first, so TIME_WAIT lands on the reserved port
	_ = accepted.Close()

	return addr.Port, nil
}

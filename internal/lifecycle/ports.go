package lifecycle

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// probeHost maps wildcard bind addresses to loopback for client-side
// connection probes.
func probeHost(host string) string {
	switch host {
	case "0.0.0.0", "::", "":
		return "127.0.0.1"
	}
	return host
}

// portBusy reports whether something already listens on host:port.
// The probe is advisory: another process can still grab the port between
// this check and the spawn, which the design accepts as inherent to OS
// port allocation.
func portBusy(host string, port int) bool {
	addr := net.JoinHostPort(probeHost(host), strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
	if err == nil {
		_ = conn.Close()
		return true
	}
	return false
}

// chooseFreePort finds an available TCP port by asking the kernel for :0.
func chooseFreePort(host string) (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(probeHost(host), "0"))
	if err != nil {
		return 0, err
	}
	defer l.Close()
	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("unexpected listener addr: %s", l.Addr())
	}
	return addr.Port, nil
}

// Package tunnel forwards a local TCP port to an inference server running
// on a remote GPU host, over SSH. The lifecycle core stays agnostic: it
// only ever sees the resulting localhost endpoint.
package tunnel

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

const defaultSSHPort = 22

// Config describes one local-port -> remote-port forward.
type Config struct {
	// User and RemoteHost identify the SSH target.
	User       string
	RemoteHost string
	// SSHPort defaults to 22.
	SSHPort int
	// KeyPath is the private key file used for authentication.
	KeyPath string
	// LocalPort is the loopback port to listen on.
	LocalPort int
	// RemotePort is the server port on the remote host.
	RemotePort int
}

func (c Config) validate() error {
	if c.User == "" {
		return errors.New("tunnel: user is required")
	}
	if c.RemoteHost == "" {
		return errors.New("tunnel: remote host is required")
	}
	if c.KeyPath == "" {
		return errors.New("tunnel: key path is required")
	}
	if c.LocalPort < 1 || c.LocalPort > 65535 {
		return fmt.Errorf("tunnel: local port must be in 1-65535, got %d", c.LocalPort)
	}
	if c.RemotePort < 1 || c.RemotePort > 65535 {
		return fmt.Errorf("tunnel: remote port must be in 1-65535, got %d", c.RemotePort)
	}
	return nil
}

// sshAddr is the dial target for the SSH connection itself.
func (c Config) sshAddr() string {
	port := c.SSHPort
	if port == 0 {
		port = defaultSSHPort
	}
	return net.JoinHostPort(c.RemoteHost, strconv.Itoa(port))
}

// localAddr is the loopback address the tunnel listens on.
func (c Config) localAddr() string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(c.LocalPort))
}

// remoteAddr is the forward target as seen from the remote host.
func (c Config) remoteAddr() string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(c.RemotePort))
}

// Tunnel is an open SSH port-forward. Close releases the listener and the
// SSH connection; in-flight forwards are allowed to drain.
type Tunnel struct {
	cfg    Config
	client *ssh.Client
	ln     net.Listener
	log    zerolog.Logger

	wg     sync.WaitGroup
	closed chan struct{}
}

// Open dials the SSH host, binds the local port, and starts forwarding
// accepted connections to the remote server port.
func Open(cfg Config, logger zerolog.Logger) (*Tunnel, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	key, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("tunnel: read key %s: %w", cfg.KeyPath, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("tunnel: parse key %s: %w", cfg.KeyPath, err)
	}

	client, err := ssh.Dial("tcp", cfg.sshAddr(), &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("tunnel: ssh dial %s: %w", cfg.sshAddr(), err)
	}

	ln, err := net.Listen("tcp", cfg.localAddr())
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tunnel: listen %s: %w", cfg.localAddr(), err)
	}

	t := &Tunnel{cfg: cfg, client: client, ln: ln, log: logger, closed: make(chan struct{})}
	t.wg.Add(1)
	go t.acceptLoop()
	logger.Info().
		Str("local", cfg.localAddr()).
		Str("remote", cfg.RemoteHost+":"+strconv.Itoa(cfg.RemotePort)).
		Msg("tunnel open")
	return t, nil
}

// Addr returns the local address clients should connect to.
func (t *Tunnel) Addr() string { return t.ln.Addr().String() }

// Close tears the tunnel down.
func (t *Tunnel) Close() error {
	close(t.closed)
	err := t.ln.Close()
	_ = t.client.Close()
	t.wg.Wait()
	return err
}

func (t *Tunnel) acceptLoop() {
	defer t.wg.Done()
	for {
		conn, err := t.ln.Accept()
		if err != nil {
			select {
			case <-t.closed:
				return
			default:
			}
			t.log.Warn().Err(err).Msg("tunnel accept failed")
			return
		}
		t.wg.Add(1)
		go t.forward(conn)
	}
}

// forward proxies one accepted connection through the SSH channel.
func (t *Tunnel) forward(local net.Conn) {
	defer t.wg.Done()
	defer local.Close()
	remote, err := t.client.Dial("tcp", t.cfg.remoteAddr())
	if err != nil {
		t.log.Warn().Err(err).Str("remote", t.cfg.remoteAddr()).Msg("tunnel forward dial failed")
		return
	}
	defer remote.Close()

	done := make(chan struct{}, 2)
	go func() {
		_, _ = io.Copy(remote, local)
		done <- struct{}{}
	}()
	go func() {
		_, _ = io.Copy(local, remote)
		done <- struct{}{}
	}()
	<-done
}

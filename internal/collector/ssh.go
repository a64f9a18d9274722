package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

)

// SSHOptions controls SSH timeouts
type SSHOptions struct {
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
}

// DefaultSSHOptions returns the timeouts used when none are configured
func DefaultSSHOptions() SSHOptions {
	return SSHOptions{
		ConnectTimeout: 10 * time.Second,
		CommandTimeout: 30 * time.Second,
	}
}

// SSHDialer opens SSHSessions
type SSHDialer struct {
	opts   SSHOptions
	logger zerolog.Logger
}

// NewSSHDialer creates a dialer for live devices
func NewSSHDialer(opts SSHOptions, logger zerolog.Logger) *SSHDialer {
	defaults := DefaultSSHOptions()
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaults.ConnectTimeout
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = defaults.CommandTimeout
	}
	return &SSHDialer{opts: opts, logger: logger}
}

// Dial connects to the target
func (d *SSHDialer) Dial(ctx context.Context, target Target) (Session, error) {
	return NewSSHSession(ctx, target, d.opts, d.logger)
}

// SSHSession is a Session over one SSH client connection. Each command runs
// in its own exec channel. No PTY is requested, so the device does not page
// output and no "terminal length 0" is needed.
type SSHSession struct {
	client  *ssh.Client
	timeout time.Duration
	mu      sync.Mutex
}

// NewSSHSession connects to a device
func NewSSHSession(ctx context.Context, target Target, opts SSHOptions, logger zerolog.Logger) (*SSHSession, error) {
	config, err := buildSSHConfig(target.Credentials, opts.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to build SSH config: %w", err)
	}

	addr := target.Address()
	dialer := &net.Dialer{
		Timeout: opts.ConnectTimeout,
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection: %w", err)
	}

	logger.Debug().Str("device", target.DeviceID()).Str("addr", addr).Msg("SSH connected")
	return &SSHSession{
		client:  ssh.NewClient(sshConn, chans, reqs),
		timeout: opts.CommandTimeout,
	}, nil
}

// Run executes a command and returns its combined output
func (s *SSHSession) Run(ctx context.Context, deviceID, command string) (string, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return "", errors.New("session closed")
	}

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	type result struct {
		output []byte
		err    error
	}
	done := make(chan result, 1)

	go func() {
		output, err := session.CombinedOutput(command)
		done <- result{output, err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			// A non-zero exit status still carries the device's output
			var exitErr *ssh.ExitError
			if errors.As(r.err, &exitErr) && len(r.output) > 0 {
				return string(r.output), nil
			}
			return "", fmt.Errorf("command failed: %w", r.err)
		}
		return string(r.output), nil
	case <-timer.C:
		session.Signal(ssh.SIGKILL)
		return "", fmt.Errorf("command timeout after %s", s.timeout)
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return "", ctx.Err()
	}
}

// Close tears down the SSH connection
func (s *SSHSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// buildSSHConfig creates an SSH client config from explicit credentials.
// Key auth is preferred when a key is available.
func buildSSHConfig(creds Credentials, timeout time.Duration) (*ssh.ClientConfig, error) {
	if creds.Username == "" {
		return nil, errors.New("username is required")
	}

	var auth []ssh.AuthMethod

	key := creds.PrivateKey
	if len(key) == 0 && creds.PrivateKeyPath != "" {
		data, err := os.ReadFile(creds.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		key = data
	}

	if len(key) > 0 {
		signer, err := parseSigner(key, creds.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}

	if creds.Password != "" {
		auth = append(auth,
			ssh.Password(creds.Password),
			// Many switches only offer keyboard-interactive
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = creds.Password
				}
				return answers, nil
			}),
		)
	}

	if len(auth) == 0 {
		return nil, errors.New("password or private key is required")
	}

	return &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}, nil
}

func parseSigner(key []byte, passphrase string) (ssh.Signer, error) {
	if passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
	}
	return ssh.ParsePrivateKey(key)
}

package collector

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// Session runs commands against a single device
type Session interface {
	Run(ctx context.Context, deviceID, command string) (string, error)
	Close() error
}

// Dialer opens a session to a target
type Dialer interface {
	Dial(ctx context.Context, target Target) (Session, error)
}

// DialerFunc adapts a function to the Dialer interface
type DialerFunc func(ctx context.Context, target Target) (Session, error)

// Dial calls f(ctx, target)
func (f DialerFunc) Dial(ctx context.Context, target Target) (Session, error) {
	return f(ctx, target)
}

// Credentials is the login material for one device
type Credentials struct {
	Username       string
	Password       string
	PrivateKey     []byte // takes precedence over PrivateKeyPath
	PrivateKeyPath string
	Passphrase     string
}

// Target is a device to collect from
type Target struct {
	// ID is the device identity used in the graph; defaults to Host
	ID          string
	Label       string
	Host        string
	Port        int
	Credentials Credentials
}

// DeviceID returns the identity the target's record will carry
func (t Target) DeviceID() string {
	if t.ID != "" {
		return t.ID
	}
	return t.Host
}

// Address returns host:port, defaulting to the SSH port
func (t Target) Address() string {
	port := t.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(t.Host, strconv.Itoa(port))
}

func (t Target) String() string {
	return fmt.Sprintf("%s (%s)", t.DeviceID(), t.Address())
}

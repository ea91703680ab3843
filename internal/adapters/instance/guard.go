// Package instance keeps a second desk pet from running against the same
// data directory.
package instance

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"runtime"
	"syscall"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("desk pet is already running")

// Guard holds the single-instance lock as a bound localhost port.
type Guard struct {
	listener net.Listener
	address  string
}

// Acquire binds the port derived from key. Use the data directory as the
// key so separate homes do not block each other.
func Acquire(key string) (*Guard, error) {
	address := fmt.Sprintf("127.0.0.1:%d", PortFor(key))
	listener, err := listen("tcp", address)
	if err != nil {
		return nil, lockError(address, err)
	}
	return &Guard{listener: listener, address: address}, nil
}

var listen = net.Listen

// wsaeaddrinuse is the Windows errno for a port that is already bound.
const wsaeaddrinuse = syscall.Errno(10048)

// lockError reports a bound port as ErrAlreadyRunning. Any other listen
// failure is returned as it is.
func lockError(address string, err error) error {
	var errno syscall.Errno
	inUse := errors.Is(err, syscall.EADDRINUSE) ||
		(runtime.GOOS == "windows" && errors.As(err, &errno) && errno == wsaeaddrinuse)
	if inUse {
		return fmt.Errorf("%w (%s): %v", ErrAlreadyRunning, address, err)
	}
	return fmt.Errorf("failed to acquire instance lock on %s: %w", address, err)
}

// Release frees the lock.
func (g *Guard) Release() error {
	if g == nil || g.listener == nil {
		return nil
	}
	err := g.listener.Close()
	g.listener = nil
	return err
}

// Address returns the bound address.
func (g *Guard) Address() string {
	if g == nil {
		return ""
	}
	return g.address
}

// PortFor maps key onto a port in [20000, 39999].
func PortFor(key string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte("deskpet:" + key))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}

// Briefly acquires the lock for key, runs fn, and releases it. It fails
// with ErrAlreadyRunning while a pet holds the lock.
func Briefly(key string, fn func() error) error {
	guard, err := Acquire(key)
	if err != nil {
		return err
	}
	defer func() { _ = guard.Release() }()
	return fn()
}

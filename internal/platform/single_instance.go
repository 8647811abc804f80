package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const activateCommand = "show"

// InstanceGuard holds the single-instance lock. While held it accepts
// activation requests from later launches.
type InstanceGuard struct {
	listener net.Listener
	address  string

	once sync.Once
	done chan struct{}
}

// AcquireSingleInstance binds a localhost port derived from appName.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	return acquireAt(instanceAddress(appName))
}

func acquireAt(address string) (*InstanceGuard, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{
		listener: listener,
		address:  listener.Addr().String(),
		done:     make(chan struct{}),
	}, nil
}

// Serve calls onActivate for each activation request until Release.
func (guard *InstanceGuard) Serve(onActivate func()) {
	go func() {
		for {
			conn, err := guard.listener.Accept()
			if err != nil {
				select {
				case <-guard.done:
					return
				default:
				}
				var netErr net.Error
				if errors.As(err, &netErr) && netErr.Timeout() {
					continue
				}
				return
			}
			go guard.handle(conn, onActivate)
		}
	}()
}

func (guard *InstanceGuard) handle(conn net.Conn, onActivate func()) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}
	if strings.TrimSpace(line) == activateCommand && onActivate != nil {
		onActivate()
	}
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	var err error
	guard.once.Do(func() {
		close(guard.done)
		err = guard.listener.Close()
	})
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

// ActivateRunning asks the instance holding the lock to show its window.
func ActivateRunning(appName string) error {
	return activateAt(instanceAddress(appName))
}

func activateAt(address string) error {
	conn, err := net.DialTimeout("tcp", address, time.Second)
	if err != nil {
		return fmt.Errorf("activate running instance: %w", err)
	}
	defer conn.Close()
	if _, err := fmt.Fprintln(conn, activateCommand); err != nil {
		return fmt.Errorf("activate running instance: %w", err)
	}
	return nil
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}

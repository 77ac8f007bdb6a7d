package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// Command is a request forwarded by a second launch to the running instance.
type Command string

const (
	// CommandShowInspector opens the inspector of the running instance.
	CommandShowInspector Command = "inspector"
	// CommandToggleRunning starts or stops the running toggler.
	CommandToggleRunning Command = "toggle"
)

const (
	minLockPort = 20000
	maxLockPort = 39999

	commandTimeout = 2 * time.Second
	replyOK        = "ok"
	replyUnknown   = "unknown"
)

func (command Command) known() bool {
	return command == CommandShowInspector || command == CommandToggleRunning
}

// InstanceGuard holds the single-instance lock. The locked port doubles as
// the channel on which later launches hand their request to this instance,
// so two desktop instances never fight over the same settings.
type InstanceGuard struct {
	mu       sync.Mutex
	listener net.Listener
}

// AcquireSingleInstance binds the loopback port derived from appName. The
// port stays bound until Release.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := LockAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is bound: %v", ErrAlreadyRunning, address, err)
	}
	return &InstanceGuard{listener: listener}, nil
}

// Serve accepts forwarded commands and hands each known one to handle, one
// at a time. It returns nil once the guard is released.
func (guard *InstanceGuard) Serve(handle func(Command)) error {
	guard.mu.Lock()
	listener := guard.listener
	guard.mu.Unlock()
	if listener == nil {
		return nil
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept command: %w", err)
		}
		command, err := readCommand(conn)
		if err != nil {
			log.Printf("[Instance] dropped request: %v", err)
			continue
		}
		log.Printf("[Instance] forwarded command: %s", command)
		handle(command)
	}
}

func readCommand(conn net.Conn) (Command, error) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(commandTimeout))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read command: %w", err)
	}
	command := Command(strings.TrimSpace(line))
	if !command.known() {
		_, _ = fmt.Fprintln(conn, replyUnknown)
		return "", fmt.Errorf("unknown command %q", command)
	}
	if _, err := fmt.Fprintln(conn, replyOK); err != nil {
		return "", fmt.Errorf("reply: %w", err)
	}
	return command, nil
}

// Forward sends command to the instance holding the lock for appName and
// waits for it to acknowledge.
func Forward(ctx context.Context, appName string, command Command) error {
	if !command.known() {
		return fmt.Errorf("unknown command %q", command)
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", LockAddress(appName))
	if err != nil {
		return fmt.Errorf("reach running instance: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := fmt.Fprintln(conn, string(command)); err != nil {
		return fmt.Errorf("send %s: %w", command, err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("await %s: %w", command, err)
	}
	if reply = strings.TrimSpace(reply); reply != replyOK {
		return fmt.Errorf("running instance refused %s: %s", command, reply)
	}
	return nil
}

// Release frees the lock and ends Serve.
func (guard *InstanceGuard) Release() error {
	if guard == nil {
		return nil
	}
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.listener = nil
	return err
}

// LockAddress returns the loopback address used as the lock for appName.
func LockAddress(appName string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	span := uint32(maxLockPort - minLockPort + 1)
	return fmt.Sprintf("127.0.0.1:%d", minLockPort+int(hash.Sum32()%span))
}

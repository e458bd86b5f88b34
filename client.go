package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/blue0513/git-complete/logger"
)

// daemonStartTimeout bounds how long a freshly spawned daemon may take to
// accept its first connection.
const daemonStartTimeout = 5 * time.Second

// Client bridges a Neovim jobstart channel to the daemon: it spawns the
// daemon when none is running, then relays its own stdin/stdout to the
// unix socket so the editor sees one long-lived RPC channel.
type Client struct {
	socketPath string
}

func NewClient() *Client {
	return &Client{socketPath: getSocketPath()}
}

// Connect relays stdio to the daemon socket until either side closes.
func (c *Client) Connect() error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("dial daemon socket: %w", err)
	}
	defer conn.Close()

	// Closing the socket on stdin EOF unblocks the read side below.
	go func() {
		io.Copy(conn, os.Stdin)
		conn.Close()
	}()

	io.Copy(os.Stdout, conn)
	return nil
}

// EnsureDaemonRunning spawns the daemon unless the pid file points at a
// live process.
func (c *Client) EnsureDaemonRunning() error {
	if running, pid := isDaemonRunning(); running {
		logger.Debug("reusing daemon with PID %d", pid)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	// The daemon inherits no stdio; everything it reports goes to its
	// log file.
	proc, err := os.StartProcess(exe, []string{exe, "--daemon"}, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{nil, nil, nil},
	})
	if err != nil {
		return fmt.Errorf("spawn daemon: %w", err)
	}
	logger.Debug("spawned daemon with PID %d", proc.Pid)

	deadline := time.Now().Add(daemonStartTimeout)
	for time.Now().Before(deadline) {
		if running, _ := isDaemonRunning(); running {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon not up after %v", daemonStartTimeout)
}

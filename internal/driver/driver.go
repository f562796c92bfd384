// Package driver launches the browser automation driver (chromedriver) as a
// child process listening on a given loopback port.
//
// The child is never stopped from here. It lives until the parent exits or
// something external kills it.
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
)

// DefaultPath is the driver executable name looked up in PATH.
const DefaultPath = "chromedriver"

// ErrEmptyPath is returned by Spawn when no executable path is configured.
var ErrEmptyPath = errors.New("driver executable path is empty")

// Config holds the configuration for spawning the driver.
type Config struct {
	// Path is the driver executable. Bare names are resolved through PATH.
	Path string

	// ExtraArgs are appended after the --port argument.
	ExtraArgs []string

	// Stdout and Stderr receive the driver's output.
	// If nil, the parent's stdout and stderr are used.
	Stdout io.Writer
	Stderr io.Writer
}

// Process is a running driver child process.
type Process struct {
	cmd  *exec.Cmd
	port int
}

// Spawn starts cfg.Path with a --port=<port> argument and returns once the
// process has been started. It does not wait for the port to accept
// connections.
func Spawn(cfg Config, port int) (*Process, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}

	args := append([]string{"--port=" + strconv.Itoa(port)}, cfg.ExtraArgs...)
	cmd := exec.Command(cfg.Path, args...)
	cmd.Stdin = nil
	cmd.Stdout = cfg.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = cfg.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start driver %s: %w", cfg.Path, err)
	}

	return &Process{cmd: cmd, port: port}, nil
}

// Pid returns the driver's process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Port returns the port the driver was told to listen on.
func (p *Process) Port() int {
	return p.port
}

// Wait blocks until the driver exits.
func (p *Process) Wait() error {
	return p.cmd.Wait()
}

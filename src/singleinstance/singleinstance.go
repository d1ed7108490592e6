// Package singleinstance owns the resident's loopback control endpoint. Binding
// the port doubles as the single-instance lock; the CLI subcommands talk to a
// running resident through the same endpoint.
package singleinstance

import (
	"context"
	"errors"
)

// Command is a client request line.
type Command string

const (
	CommandPing    Command = "PING"
	CommandTrigger Command = "TRIGGER"
	CommandAnswer  Command = "ANSWER"
)

// ErrAlreadyRunning means another resident answered on the control port.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Server owns the TCP endpoint and hands control requests to the caller.
type Server interface {
	// Start binds 127.0.0.1:port and begins accepting clients.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted request, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn is one client connection carrying a TRIGGER or ANSWER request.
type Conn interface {
	Command() Command
	// RespondOK acknowledges a TRIGGER.
	RespondOK() error
	// RespondSuccess answers an ANSWER request with text.
	RespondSuccess(text string) error
	// RespondError sends a human-readable failure.
	RespondError(msg string) error
	Close() error
}

// Client talks to a running resident.
type Client interface {
	// Ping reports whether a resident answers on the port.
	Ping(ctx context.Context) bool
	// Trigger asks the resident to start a run.
	Trigger(ctx context.Context) error
	// Answer fetches the resident's latest answer.
	Answer(ctx context.Context) (string, error)
}

// NewServer returns TCP implementation.
func NewServer(port int) Server { return newTcpServer(port) }

// NewClient returns TCP implementation.
func NewClient(port int) Client { return newTcpClient(port) }

package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	residentHost    = "127.0.0.1"
	pingRequest     = "PING\n"
	pongResponse    = "PONG\n"
	okResponse      = "OK\n"
	successResponse = "SUCCESS\n"
	errorResponse   = "ERROR\n"
)

// tcpServer implements Server over TCP loopback.
type tcpServer struct {
	port     int
	lis      net.Listener
	incoming chan *tcpConn
	closeMu  sync.Once
}

func newTcpServer(port int) Server {
	return &tcpServer{port: port, incoming: make(chan *tcpConn, 8)}
}

// Start binds the configured port. If a resident already answers there the
// error is ErrAlreadyRunning.
func (s *tcpServer) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}
	addr := addrFor(s.port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		if ping(addr, defaultDialTimeout) {
			return fmt.Errorf("%w (port %d)", ErrAlreadyRunning, s.port)
		}
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return err
	}
	s.lis = lis
	s.port = lis.Addr().(*net.TCPAddr).Port
	log.Printf("singleinstance: listening on %s", lis.Addr())
	go s.acceptLoop(ctx)
	return nil
}

// Port returns the bound port (0 if not started).
func (s *tcpServer) Port() int {
	if s.lis == nil {
		return 0
	}
	return s.port
}

func (s *tcpServer) acceptLoop(ctx context.Context) {
	for {
		c, err := s.lis.Accept()
		if err != nil {
			return
		}
		s.serve(ctx, c)
	}
}

func (s *tcpServer) serve(ctx context.Context, c net.Conn) {
	remote := c.RemoteAddr().String()
	_ = c.SetDeadline(time.Now().Add(3 * time.Second))
	br := bufio.NewReader(c)
	bw := bufio.NewWriter(c)
	line, err := br.ReadString('\n')
	if err != nil {
		_ = c.Close()
		return
	}

	cmd := Command(strings.ToUpper(strings.TrimSpace(line)))
	switch cmd {
	case CommandPing:
		log.Printf("singleinstance: PING from %s -> PONG", remote)
		_, _ = bw.WriteString(pongResponse)
		_ = bw.Flush()
		_ = c.Close()
		return
	case CommandTrigger, CommandAnswer:
	default:
		log.Printf("singleinstance: unknown command %q from %s", cmd, remote)
		_, _ = bw.WriteString(errorResponse + "unknown command")
		_ = bw.Flush()
		_ = c.Close()
		return
	}

	_ = c.SetDeadline(time.Time{})
	log.Printf("singleinstance: %s from %s", cmd, remote)
	select {
	case s.incoming <- &tcpConn{c: c, cmd: cmd, w: bw}:
	case <-ctx.Done():
		_ = c.Close()
	}
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case tc := <-s.incoming:
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	var err error
	s.closeMu.Do(func() {
		if s.lis != nil {
			err = s.lis.Close()
		}
	})
	return err
}

type tcpConn struct {
	c   net.Conn
	cmd Command
	w   *bufio.Writer
}

func (tc *tcpConn) Command() Command { return tc.cmd }

func (tc *tcpConn) RespondOK() error {
	if _, err := tc.w.WriteString(okResponse); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondSuccess(text string) error {
	if _, err := tc.w.WriteString(successResponse + text); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondError(msg string) error {
	if _, err := tc.w.WriteString(errorResponse + msg); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) Close() error { return tc.c.Close() }

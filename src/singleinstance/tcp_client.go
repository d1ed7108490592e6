package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// ErrNoResident means nothing answered on the control port.
var ErrNoResident = errors.New("no running instance found")

type tcpClient struct {
	port int
}

func newTcpClient(port int) Client { return &tcpClient{port: port} }

func (c *tcpClient) Ping(ctx context.Context) bool {
	return DetectResident(ctx, c.port)
}

func (c *tcpClient) Trigger(ctx context.Context) error {
	status, _, err := c.roundTrip(ctx, CommandTrigger)
	if err != nil {
		return err
	}
	if status != okResponse {
		return fmt.Errorf("unexpected reply %q", status)
	}
	return nil
}

func (c *tcpClient) Answer(ctx context.Context) (string, error) {
	status, body, err := c.roundTrip(ctx, CommandAnswer)
	if err != nil {
		return "", err
	}
	if status != successResponse {
		return "", fmt.Errorf("unexpected reply %q", status)
	}
	return body, nil
}

// roundTrip sends one command and returns the status line and body. An ERROR
// reply is returned as an error carrying the resident's message.
func (c *tcpClient) roundTrip(ctx context.Context, cmd Command) (string, string, error) {
	timeout := timeoutFrom(ctx, 2*time.Second)
	addr := addrFor(c.port)
	if !ping(addr, timeout) {
		return "", "", ErrNoResident
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return "", "", err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(string(cmd) + "\n"); err != nil {
		return "", "", err
	}
	if err := w.Flush(); err != nil {
		return "", "", err
	}

	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	body, _ := io.ReadAll(br)
	if status == errorResponse {
		return "", "", errors.New(string(body))
	}
	return status, string(body), nil
}

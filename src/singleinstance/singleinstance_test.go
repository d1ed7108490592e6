package singleinstance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, ctx context.Context) Server {
	t.Helper()
	srv := NewServer(0)
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback TCP unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	require.NotZero(t, srv.Port())
	return srv
}

// serveOne answers the next request with respond.
func serveOne(t *testing.T, ctx context.Context, srv Server, want Command, respond func(Conn) error) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := srv.Next(ctx)
		if err != nil {
			t.Errorf("next: %v", err)
			return
		}
		defer conn.Close()
		assert.Equal(t, want, conn.Command())
		assert.NoError(t, respond(conn))
	}()
	return done
}

func TestPing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := startServer(t, ctx)

	assert.True(t, NewClient(srv.Port()).Ping(ctx))
	assert.True(t, DetectResident(ctx, srv.Port()))
}

func TestTriggerRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := startServer(t, ctx)

	done := serveOne(t, ctx, srv, CommandTrigger, Conn.RespondOK)
	require.NoError(t, NewClient(srv.Port()).Trigger(ctx))
	<-done
}

func TestAnswerRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := startServer(t, ctx)

	body := "class A {\n}\n"
	done := serveOne(t, ctx, srv, CommandAnswer, func(c Conn) error { return c.RespondSuccess(body) })
	got, err := NewClient(srv.Port()).Answer(ctx)
	require.NoError(t, err)
	assert.Equal(t, body, got)
	<-done
}

func TestAnswerError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := startServer(t, ctx)

	done := serveOne(t, ctx, srv, CommandAnswer, func(c Conn) error { return c.RespondError("no answer yet") })
	_, err := NewClient(srv.Port()).Answer(ctx)
	assert.EqualError(t, err, "no answer yet")
	<-done
}

func TestSecondServerDetectsResident(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := startServer(t, ctx)

	second := NewServer(srv.Port())
	err := second.Start(ctx)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestClientWithoutResident(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	srv := startServer(t, ctx)
	port := srv.Port()
	require.NoError(t, srv.Close())

	c := NewClient(port)
	assert.False(t, c.Ping(ctx))
	assert.ErrorIs(t, c.Trigger(ctx), ErrNoResident)
}

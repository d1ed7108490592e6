package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolUnlimitedRunsConcurrently(t *testing.T) {
	p := New(0)
	release := make(chan struct{})
	var running atomic.Int32

	for i := 0; i < 3; i++ {
		ok := p.Submit(context.Background(), func(context.Context) {
			running.Add(1)
			<-release
		})
		assert.True(t, ok)
	}

	assert.Eventually(t, func() bool { return running.Load() == 3 }, time.Second, 5*time.Millisecond)
	close(release)
	p.Close()
}

func TestPoolSubmitDropWhenBusy(t *testing.T) {
	p := New(1)
	release := make(chan struct{})
	started := make(chan struct{})

	ok := p.Submit(context.Background(), func(context.Context) {
		close(started)
		<-release
	})
	assert.True(t, ok, "first submit should succeed")
	<-started

	assert.False(t, p.Submit(context.Background(), func(context.Context) {}), "second submit should drop at limit")

	close(release)
	p.Close()
}

func TestPoolSlotFreedAfterJob(t *testing.T) {
	p := New(1)
	defer p.Close()
	done := make(chan struct{})
	assert.True(t, p.Submit(context.Background(), func(context.Context) { close(done) }))
	<-done

	assert.Eventually(t, func() bool {
		return p.Submit(context.Background(), func(context.Context) {})
	}, time.Second, 5*time.Millisecond)
}

func TestPoolRecoversPanic(t *testing.T) {
	p := New(0)
	assert.True(t, p.Submit(context.Background(), func(context.Context) { panic("boom") }))
	p.Close()
}

func TestPoolClosedRejects(t *testing.T) {
	p := New(0)
	p.Close()
	assert.False(t, p.Submit(context.Background(), func(context.Context) {}))
}

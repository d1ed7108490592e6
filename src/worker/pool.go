package worker

import (
	"context"
	"log"
	"sync"
)

// Job is one unit of background work. It runs on its own goroutine.
type Job func(ctx context.Context)

// Pool starts a goroutine per submitted job. With a limit, submits beyond the
// number of in-flight jobs are dropped rather than queued.
type Pool struct {
	slots chan struct{}
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a pool. limit<=0 means no cap on concurrent jobs.
func New(limit int) *Pool {
	p := &Pool{}
	if limit > 0 {
		p.slots = make(chan struct{}, limit)
	}
	return p
}

// Submit starts job unless the pool is closed or at its limit. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, job Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}

	if p.slots != nil {
		select {
		case p.slots <- struct{}{}:
		default:
			return false
		}
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if p.slots != nil {
			defer func() { <-p.slots }()
		}
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Worker: job panicked: %v", r)
			}
		}()
		job(ctx)
	}()
	return true
}

// Close stops accepting jobs and waits for in-flight ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}

// Package eventloop is the single-goroutine coordinator. It alone reads and
// writes the shared answer and status; the hotkey listener, pipeline workers
// and control endpoint only post events to it.
package eventloop

import (
	"context"
	"errors"
	"log"
	"time"

	"screen-answer-llm/src/clipboard"
	"screen-answer-llm/src/hotkey"
	"screen-answer-llm/src/session"
	"screen-answer-llm/src/singleinstance"
	"screen-answer-llm/src/state"
	"screen-answer-llm/src/worker"
)

// ErrBusy is returned when the in-flight limit rejects a run.
var ErrBusy = errors.New("busy, please retry")

// Overlay is the answer window as the loop sees it.
type Overlay interface {
	Show(text string)
	SetText(text string)
	Hide()
	Exists() bool
}

// Options wires the loop's collaborators. Capture, Query and Overlay are required.
type Options struct {
	Capture   session.CaptureFunc
	Query     session.QueryFunc
	Overlay   Overlay
	Clipboard clipboard.Writer
	// Server is the control endpoint; nil disables it.
	Server singleinstance.Server
	// MaxInFlight caps concurrent runs; 0 means unlimited.
	MaxInFlight   int
	Deadline      time.Duration
	DebugImageDir string
	// OnStatus observes every status change, on the loop goroutine.
	OnStatus func(state.Status)
}

// Loop is the coordinator. Create with New and start with Run.
type Loop struct {
	opts    Options
	state   *state.State
	pool    *worker.Pool
	actions chan hotkey.Action
	updates chan update
	done    chan struct{}
}

// update is posted by a run: a phase change, or the final result.
type update struct {
	runID string
	phase state.Phase
	final bool
	text  string
	err   error
}

func New(opts Options) *Loop {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.System{}
	}
	return &Loop{
		opts:    opts,
		state:   state.New(),
		pool:    worker.New(opts.MaxInFlight),
		actions: make(chan hotkey.Action, 16),
		updates: make(chan update, 64),
		done:    make(chan struct{}),
	}
}

// HandleAction posts a hotkey action to the loop. It is safe to call from any
// goroutine and blocks only while the loop is busy handling earlier events.
func (l *Loop) HandleAction(a hotkey.Action) {
	select {
	case l.actions <- a:
	case <-l.done:
	}
}

// Trigger starts a run as if the trigger key had been pressed.
func (l *Loop) Trigger() { l.HandleAction(hotkey.ActionTrigger) }

// Run processes events until ctx is cancelled. In-flight runs are waited for
// before it returns.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()
	defer close(l.done)

	var reqCh chan singleinstance.Conn
	if l.opts.Server != nil {
		reqCh = make(chan singleinstance.Conn, 4)
		go func() {
			for {
				conn, err := l.opts.Server.Next(ctx)
				if err != nil {
					return
				}
				select {
				case reqCh <- conn:
				case <-ctx.Done():
					_ = conn.Close()
					return
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a := <-l.actions:
			l.handleAction(ctx, a)
		case u := <-l.updates:
			l.handleUpdate(u)
		case conn := <-reqCh:
			l.handleConn(ctx, conn)
		}
	}
}

func (l *Loop) handleAction(ctx context.Context, a hotkey.Action) {
	switch a {
	case hotkey.ActionTrigger:
		if err := l.startRun(ctx); err != nil {
			log.Printf("Trigger ignored: %v", err)
		}
	case hotkey.ActionRevealPress:
		l.reveal()
	case hotkey.ActionRevealRelease:
		l.opts.Overlay.Hide()
	case hotkey.ActionStop:
		log.Printf("Hotkey listener stopped; resident keeps running")
	}
}

func (l *Loop) reveal() {
	if !l.state.HasAnswer() {
		log.Printf("Reveal: no answer yet")
		return
	}
	text := l.state.Answer()
	l.copyToClipboard(text)
	l.opts.Overlay.Show(text)
}

// startRun launches one pipeline run on a worker goroutine. Overlapping runs
// are allowed; the last one to finish owns the answer.
func (l *Loop) startRun(ctx context.Context) error {
	runID := session.NewRunID()
	job := func(jobCtx context.Context) {
		res, err := session.Execute(jobCtx, session.Options{
			RunID:         runID,
			Capture:       l.opts.Capture,
			Query:         l.opts.Query,
			Deadline:      l.opts.Deadline,
			DebugImageDir: l.opts.DebugImageDir,
			Report: func(p state.Phase) {
				l.post(update{runID: runID, phase: p})
			},
		})
		if err != nil {
			log.Printf("Run %s failed after %s: %v", runID, res.Duration.Round(time.Millisecond), err)
		} else {
			log.Printf("Run %s finished in %s", runID, res.Duration.Round(time.Millisecond))
		}
		l.post(update{runID: runID, final: true, text: res.Text, err: err})
	}

	if !l.pool.Submit(ctx, job) {
		return ErrBusy
	}
	log.Printf("Run %s started", runID)
	return nil
}

// post hands an update to the loop, giving up once the loop has exited.
func (l *Loop) post(u update) {
	select {
	case l.updates <- u:
	case <-l.done:
	}
}

func (l *Loop) handleUpdate(u update) {
	if !u.final {
		l.setStatus(state.NewStatus(u.phase, ""))
		return
	}

	if u.err != nil {
		l.state.SetError(u.err)
		l.notifyStatus()
		return
	}

	l.state.SetAnswer(u.text)
	l.copyToClipboard(u.text)
	if l.opts.Overlay.Exists() {
		l.opts.Overlay.SetText(u.text)
	}
	l.setStatus(state.NewStatus(state.PhaseReady, ""))
}

func (l *Loop) handleConn(ctx context.Context, conn singleinstance.Conn) {
	defer conn.Close()
	var err error
	switch conn.Command() {
	case singleinstance.CommandTrigger:
		if runErr := l.startRun(ctx); runErr != nil {
			err = conn.RespondError(runErr.Error())
		} else {
			err = conn.RespondOK()
		}
	case singleinstance.CommandAnswer:
		if l.state.HasAnswer() {
			err = conn.RespondSuccess(l.state.Answer())
		} else {
			err = conn.RespondError("no answer yet")
		}
	default:
		err = conn.RespondError("unsupported command")
	}
	if err != nil {
		log.Printf("Control reply failed: %v", err)
	}
}

func (l *Loop) copyToClipboard(text string) {
	if err := l.opts.Clipboard.Write(text); err != nil {
		log.Printf("Clipboard error: %v", err)
	}
}

func (l *Loop) setStatus(st state.Status) {
	l.state.SetStatus(st)
	l.notifyStatus()
}

func (l *Loop) notifyStatus() {
	st := l.state.Status()
	log.Printf("Status: %s", st.Text)
	if l.opts.OnStatus != nil {
		l.opts.OnStatus(st)
	}
}

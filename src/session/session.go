package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"screen-answer-llm/src/answer"
	"screen-answer-llm/src/state"
)

var (
	ErrCaptureRequired = errors.New("capture is required")
	ErrQueryRequired   = errors.New("query is required")
)

type CaptureFunc func() ([]byte, error)

type QueryFunc func(ctx context.Context, prompt string, png []byte) (string, error)

// ReportFunc receives phase transitions. It is called from the goroutine
// running Execute and must not touch UI state directly.
type ReportFunc func(phase state.Phase)

type Options struct {
	RunID   string
	Capture CaptureFunc
	Query   QueryFunc
	// Prompt defaults to answer.Prompt.
	Prompt string
	// Deadline bounds the whole run; zero means no deadline.
	Deadline time.Duration
	Report   ReportFunc
	// DebugImageDir, when set, receives a copy of every captured screenshot.
	DebugImageDir string
}

type Result struct {
	RunID    string
	Text     string
	Duration time.Duration
}

// NewRunID returns an identifier for correlating one run's log lines.
func NewRunID() string {
	return uuid.NewString()
}

// Execute captures the screen, queries the model and normalizes the reply.
// Panics from collaborators are returned as errors.
func Execute(ctx context.Context, opts Options) (res Result, err error) {
	start := time.Now()
	res.RunID = opts.RunID
	if res.RunID == "" {
		res.RunID = NewRunID()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during run: %v", r)
		}
		res.Duration = time.Since(start)
	}()

	if opts.Capture == nil {
		return res, ErrCaptureRequired
	}
	if opts.Query == nil {
		return res, ErrQueryRequired
	}

	prompt := opts.Prompt
	if prompt == "" {
		prompt = answer.Prompt
	}
	report := opts.Report
	if report == nil {
		report = func(state.Phase) {}
	}

	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	report(state.PhaseCapturing)
	png, err := opts.Capture()
	if err != nil {
		return res, err
	}
	log.Printf("Run %s: captured screen (%d bytes)", res.RunID, len(png))

	if opts.DebugImageDir != "" {
		saveDebugImage(opts.DebugImageDir, res.RunID, png)
	}

	report(state.PhaseAnalyzing)
	reply, err := opts.Query(ctx, prompt, png)
	if err != nil {
		return res, err
	}

	res.Text = answer.Normalize(reply)
	return res, nil
}

func saveDebugImage(dir, runID string, png []byte) {
	name := filepath.Join(dir, fmt.Sprintf("debug_capture_%s.png", runID))
	if err := os.WriteFile(name, png, 0o600); err != nil {
		log.Printf("Warning: Could not save debug image: %v", err)
		return
	}
	log.Printf("Run %s: saved captured screen to %s", runID, name)
}

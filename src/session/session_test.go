package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-answer-llm/src/answer"
	"screen-answer-llm/src/state"
)

var fakePNG = []byte("png-bytes")

func captureOK() ([]byte, error) { return fakePNG, nil }

func TestExecuteSuccess(t *testing.T) {
	var phases []state.Phase
	var gotPrompt string
	var gotImage []byte

	res, err := Execute(context.Background(), Options{
		RunID:   "run-1",
		Capture: captureOK,
		Query: func(ctx context.Context, prompt string, png []byte) (string, error) {
			gotPrompt = prompt
			gotImage = png
			return "  Answer: C \n", nil
		},
		Report: func(p state.Phase) { phases = append(phases, p) },
	})
	require.NoError(t, err)

	assert.Equal(t, "C", res.Text)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, answer.Prompt, gotPrompt)
	assert.Equal(t, fakePNG, gotImage)
	assert.Equal(t, []state.Phase{state.PhaseCapturing, state.PhaseAnalyzing}, phases)
}

func TestExecuteKeepsCodeAnswer(t *testing.T) {
	code := "class Solution {\n    public int add(int a, int b) {\n        return a + b;\n    }\n}\n// padding to reach a long body........................"
	res, err := Execute(context.Background(), Options{
		Capture: captureOK,
		Query: func(context.Context, string, []byte) (string, error) {
			return "\n" + code + "\n", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, code, res.Text)
	assert.NotEmpty(t, res.RunID)
}

func TestExecuteCaptureFailure(t *testing.T) {
	queried := false
	_, err := Execute(context.Background(), Options{
		Capture: func() ([]byte, error) { return nil, errors.New("no display") },
		Query: func(context.Context, string, []byte) (string, error) {
			queried = true
			return "", nil
		},
	})
	assert.EqualError(t, err, "no display")
	assert.False(t, queried)
}

func TestExecuteQueryFailure(t *testing.T) {
	_, err := Execute(context.Background(), Options{
		Capture: captureOK,
		Query: func(context.Context, string, []byte) (string, error) {
			return "", errors.New("quota exceeded")
		},
	})
	assert.EqualError(t, err, "quota exceeded")
}

func TestExecuteRecoversPanic(t *testing.T) {
	res, err := Execute(context.Background(), Options{
		Capture: func() ([]byte, error) { panic("driver exploded") },
		Query: func(context.Context, string, []byte) (string, error) {
			return "A", nil
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "driver exploded")
	assert.NotEmpty(t, res.RunID)
}

func TestExecuteDeadline(t *testing.T) {
	_, err := Execute(context.Background(), Options{
		Capture:  captureOK,
		Deadline: 20 * time.Millisecond,
		Query: func(ctx context.Context, _ string, _ []byte) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecuteRequiresCollaborators(t *testing.T) {
	_, err := Execute(context.Background(), Options{Query: func(context.Context, string, []byte) (string, error) { return "", nil }})
	assert.ErrorIs(t, err, ErrCaptureRequired)
	assert.EqualError(t, err, "capture is required")

	_, err = Execute(context.Background(), Options{Capture: captureOK})
	assert.ErrorIs(t, err, ErrQueryRequired)
	assert.EqualError(t, err, "query is required")
}

func TestExecuteSavesDebugImage(t *testing.T) {
	dir := t.TempDir()
	_, err := Execute(context.Background(), Options{
		RunID:         "dbg",
		Capture:       captureOK,
		DebugImageDir: dir,
		Query: func(context.Context, string, []byte) (string, error) {
			return "A", nil
		},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "debug_capture_dbg.png"))
	require.NoError(t, err)
	assert.Equal(t, fakePNG, data)
}

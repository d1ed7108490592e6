package hotkey

import (
	"context"
	"sync"
	"testing"
	"time"

	gohook "github.com/robotn/gohook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyNameToRawcodes(t *testing.T) {
	tests := []struct {
		goos     string
		keyName  string
		expected []uint16
	}{
		{"windows", ",", []uint16{188}},
		{"windows", ".", []uint16{190}},
		{"windows", "esc", []uint16{27}},
		{"windows", "q", []uint16{81}},
		{"windows", "9", []uint16{57}},
		{"windows", "f1", []uint16{112}},
		{"windows", "f24", []uint16{135}},
		{"windows", "space", []uint16{32}},
		{"linux", ",", []uint16{44}},
		{"linux", ".", []uint16{46}},
		{"linux", "esc", []uint16{0xff1b}},
		{"linux", "q", []uint16{'q', 'Q'}},
		{"linux", "f1", []uint16{0xffbe}},
		{"darwin", ",", []uint16{43}},
		{"darwin", ".", []uint16{47}},
		{"darwin", "esc", []uint16{53}},
		{"windows", "unknown", nil},
		{"linux", "f25", nil},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.keyName, func(t *testing.T) {
			assert.Equal(t, tt.expected, keyNameToRawcodes(tt.goos, tt.keyName))
		})
	}
}

func TestParseKeyAliases(t *testing.T) {
	tests := map[string]string{
		"comma":  ",",
		" , ":    ",",
		"Period": ".",
		"ESCAPE": "esc",
		"Return": "enter",
		" ":      "space",
	}
	for in, want := range tests {
		k, err := ParseKey("windows", in)
		require.NoError(t, err, in)
		assert.Equal(t, want, k.Name, in)
	}

	_, err := ParseKey("windows", "")
	assert.Error(t, err)
	_, err = ParseKey("windows", "hyper")
	assert.Error(t, err)
}

func TestNewBindingsRejectsDuplicates(t *testing.T) {
	_, err := newBindings("windows", ",", "comma", "esc")
	assert.Error(t, err)

	b, err := newBindings("windows", ",", ".", "esc")
	require.NoError(t, err)
	assert.Equal(t, ',', b.Trigger.Char)
	assert.Equal(t, '.', b.Reveal.Char)
}

func windowsBindings(t *testing.T) Bindings {
	t.Helper()
	b, err := newBindings("windows", ",", ".", "esc")
	require.NoError(t, err)
	return b
}

func TestMatcherEdgeTriggered(t *testing.T) {
	m := NewMatcher(windowsBindings(t))

	// A physical press arrives as pressed then typed; auto-repeat repeats both.
	assert.Equal(t, ActionTrigger, m.Match(gohook.Event{Kind: gohook.KeyHold, Rawcode: 188}))
	assert.Equal(t, ActionNone, m.Match(gohook.Event{Kind: gohook.KeyDown, Rawcode: 188, Keychar: ','}))
	assert.Equal(t, ActionNone, m.Match(gohook.Event{Kind: gohook.KeyHold, Rawcode: 188}))
	assert.Equal(t, ActionNone, m.Match(gohook.Event{Kind: gohook.KeyUp, Rawcode: 188}))

	assert.Equal(t, ActionTrigger, m.Match(gohook.Event{Kind: gohook.KeyHold, Rawcode: 188}))
}

func TestMatcherReveal(t *testing.T) {
	m := NewMatcher(windowsBindings(t))

	assert.Equal(t, ActionRevealPress, m.Match(gohook.Event{Kind: gohook.KeyHold, Rawcode: 190}))
	assert.Equal(t, ActionNone, m.Match(gohook.Event{Kind: gohook.KeyHold, Rawcode: 190}))
	assert.Equal(t, ActionRevealRelease, m.Match(gohook.Event{Kind: gohook.KeyUp, Rawcode: 190}))
	// release without a matching press
	assert.Equal(t, ActionNone, m.Match(gohook.Event{Kind: gohook.KeyUp, Rawcode: 190}))
}

func TestMatcherCharFallback(t *testing.T) {
	m := NewMatcher(windowsBindings(t))

	// A typed event with an unknown rawcode still triggers, but is not held.
	assert.Equal(t, ActionTrigger, m.Match(gohook.Event{Kind: gohook.KeyDown, Rawcode: 999, Keychar: ','}))
	assert.Equal(t, ActionTrigger, m.Match(gohook.Event{Kind: gohook.KeyDown, Rawcode: 999, Keychar: ','}))
}

func TestMatcherIgnoresOtherKeys(t *testing.T) {
	m := NewMatcher(windowsBindings(t))
	assert.Equal(t, ActionNone, m.Match(gohook.Event{Kind: gohook.KeyHold, Rawcode: 65}))
	assert.Equal(t, ActionNone, m.Match(gohook.Event{Kind: gohook.MouseDown, Rawcode: 188}))
	assert.Equal(t, ActionStop, m.Match(gohook.Event{Kind: gohook.KeyHold, Rawcode: 27}))
}

func newFakeListener(b Bindings) (*Listener, chan gohook.Event, *int) {
	events := make(chan gohook.Event, 16)
	ends := 0
	l := NewListener(b)
	l.start = func() chan gohook.Event { return events }
	l.end = func() {
		ends++
		close(events)
	}
	return l, events, &ends
}

func TestListenerDeliversActionsAndStops(t *testing.T) {
	l, events, ends := newFakeListener(windowsBindings(t))

	var mu sync.Mutex
	var got []Action
	l.Listen(context.Background(), func(a Action) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, a)
	})

	events <- gohook.Event{Kind: gohook.KeyHold, Rawcode: 188}
	events <- gohook.Event{Kind: gohook.KeyUp, Rawcode: 188}
	events <- gohook.Event{Kind: gohook.KeyHold, Rawcode: 190}
	events <- gohook.Event{Kind: gohook.KeyUp, Rawcode: 190}
	events <- gohook.Event{Kind: gohook.KeyHold, Rawcode: 27}

	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Action{ActionTrigger, ActionRevealPress, ActionRevealRelease, ActionStop}, got)
	assert.Equal(t, 1, *ends)
}

func TestListenerStopsOnContextCancel(t *testing.T) {
	l, _, _ := newFakeListener(windowsBindings(t))

	ctx, cancel := context.WithCancel(context.Background())
	l.Listen(ctx, nil)
	cancel()

	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}
}

func TestListenerRecoversHandlerPanic(t *testing.T) {
	l, events, _ := newFakeListener(windowsBindings(t))

	calls := make(chan Action, 4)
	l.Listen(context.Background(), func(a Action) {
		calls <- a
		if a == ActionTrigger {
			panic("handler bug")
		}
	})

	events <- gohook.Event{Kind: gohook.KeyHold, Rawcode: 188}
	events <- gohook.Event{Kind: gohook.KeyHold, Rawcode: 27}

	<-l.Done()
	assert.Equal(t, ActionTrigger, <-calls)
	assert.Equal(t, ActionStop, <-calls)
}

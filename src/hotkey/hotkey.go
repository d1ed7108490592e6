package hotkey

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Action is what a key event means to the application.
type Action int

const (
	ActionNone Action = iota
	ActionTrigger
	ActionRevealPress
	ActionRevealRelease
	ActionStop
)

func (a Action) String() string {
	switch a {
	case ActionTrigger:
		return "trigger"
	case ActionRevealPress:
		return "reveal-press"
	case ActionRevealRelease:
		return "reveal-release"
	case ActionStop:
		return "stop"
	default:
		return "none"
	}
}

// Bindings holds the three global keys.
type Bindings struct {
	Trigger Key
	Reveal  Key
	Stop    Key
}

// NewBindings parses key names for the current platform.
func NewBindings(trigger, reveal, stop string) (Bindings, error) {
	return newBindings(runtime.GOOS, trigger, reveal, stop)
}

func newBindings(goos, trigger, reveal, stop string) (Bindings, error) {
	var b Bindings
	var err error
	if b.Trigger, err = ParseKey(goos, trigger); err != nil {
		return Bindings{}, fmt.Errorf("trigger key: %w", err)
	}
	if b.Reveal, err = ParseKey(goos, reveal); err != nil {
		return Bindings{}, fmt.Errorf("reveal key: %w", err)
	}
	if b.Stop, err = ParseKey(goos, stop); err != nil {
		return Bindings{}, fmt.Errorf("stop key: %w", err)
	}
	if b.Trigger.Name == b.Reveal.Name || b.Trigger.Name == b.Stop.Name || b.Reveal.Name == b.Stop.Name {
		return Bindings{}, fmt.Errorf("keys must be distinct: trigger=%q reveal=%q stop=%q",
			b.Trigger.Name, b.Reveal.Name, b.Stop.Name)
	}
	return b, nil
}

// Matcher turns raw gohook events into actions. A key held down produces one
// press action; auto-repeat is ignored until the key is released.
// Matcher is not safe for concurrent use.
type Matcher struct {
	bindings Bindings
	held     map[string]bool
}

func NewMatcher(b Bindings) *Matcher {
	return &Matcher{bindings: b, held: make(map[string]bool)}
}

func (m *Matcher) Match(ev gohook.Event) Action {
	switch ev.Kind {
	case gohook.KeyHold, gohook.KeyDown:
		return m.press(ev)
	case gohook.KeyUp:
		return m.release(ev)
	}
	return ActionNone
}

func (m *Matcher) press(ev gohook.Event) Action {
	keys := []struct {
		key    Key
		action Action
	}{
		{m.bindings.Stop, ActionStop},
		{m.bindings.Trigger, ActionTrigger},
		{m.bindings.Reveal, ActionRevealPress},
	}
	for _, k := range keys {
		byRawcode := k.key.matchesRawcode(ev.Rawcode)
		byChar := k.key.Char != 0 && ev.Keychar == k.key.Char
		if !byRawcode && !byChar {
			continue
		}
		if m.held[k.key.Name] {
			return ActionNone
		}
		// Only a rawcode match can be paired with its release event.
		if byRawcode {
			m.held[k.key.Name] = true
		}
		return k.action
	}
	return ActionNone
}

func (m *Matcher) release(ev gohook.Event) Action {
	for _, k := range []Key{m.bindings.Trigger, m.bindings.Reveal, m.bindings.Stop} {
		if !k.matchesRawcode(ev.Rawcode) {
			continue
		}
		wasHeld := m.held[k.Name]
		delete(m.held, k.Name)
		if wasHeld && k.Name == m.bindings.Reveal.Name {
			return ActionRevealRelease
		}
		return ActionNone
	}
	return ActionNone
}

// Handler receives matched actions on the listener goroutine.
type Handler func(Action)

// Listener runs the global keyboard hook.
type Listener struct {
	bindings Bindings
	start    func() chan gohook.Event
	end      func()
	endOnce  sync.Once
	done     chan struct{}
}

func NewListener(b Bindings) *Listener {
	return &Listener{
		bindings: b,
		start:    gohook.Start,
		end:      gohook.End,
		done:     make(chan struct{}),
	}
}

// Done is closed once the listener goroutine has exited.
func (l *Listener) Done() <-chan struct{} { return l.done }

// Listen starts the hook goroutine. It stops on the stop key, on ctx
// cancellation or when the hook channel closes. The stop action is delivered
// to handler before the hook is torn down.
func (l *Listener) Listen(ctx context.Context, handler Handler) {
	log.Printf("Hotkey listener configured: trigger=%q reveal=%q stop=%q",
		l.bindings.Trigger.Name, l.bindings.Reveal.Name, l.bindings.Stop.Name)

	go func() {
		defer close(l.done)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()

		evChan := l.start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}

		stopped := make(chan struct{})
		defer close(stopped)
		go func() {
			select {
			case <-ctx.Done():
				l.stop()
			case <-stopped:
			}
		}()

		matcher := NewMatcher(l.bindings)
		for ev := range evChan {
			action := matcher.Match(ev)
			if action == ActionNone {
				continue
			}
			log.Printf("Hotkey %s (rawcode=%d)", action, ev.Rawcode)
			dispatch(handler, action)
			if action == ActionStop {
				l.stop()
				return
			}
		}
		log.Printf("Hotkey event channel closed")
	}()
}

func (l *Listener) stop() {
	l.endOnce.Do(l.end)
}

func dispatch(handler Handler, action Action) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hotkey handler (%s): %v", action, r)
		}
	}()
	if handler != nil {
		handler(action)
	}
}

package answer

import "unicode/utf8"

// ShortMaxLen is the longest answer, in characters, rendered as a single
// multiple-choice letter. The rule is length-only: short errors render the same way.
const ShortMaxLen = 5

const (
	screenMargin = 100
	textPadding  = 10
)

// Kind selects how the overlay presents an answer.
type Kind int

const (
	KindChoice Kind = iota
	KindCode
)

func (k Kind) String() string {
	if k == KindChoice {
		return "choice"
	}
	return "code"
}

// Layout is the overlay geometry and typography for one answer. Padding is
// the inset between the window edge and the text.
type Layout struct {
	Kind      Kind
	Width     int
	Height    int
	FontSize  float32
	Monospace bool
	Centered  bool
	Padding   int
}

// KindOf classifies text by its length in characters.
func KindOf(text string) Kind {
	if utf8.RuneCountInString(text) <= ShortMaxLen {
		return KindChoice
	}
	return KindCode
}

// LayoutFor sizes the overlay for text on a screen of the given size.
// Code answers get up to 800x600, clamped to the screen minus a margin.
func LayoutFor(text string, screenW, screenH int) Layout {
	if KindOf(text) == KindChoice {
		return Layout{
			Kind:     KindChoice,
			Width:    200,
			Height:   100,
			FontSize: 48,
			Centered: true,
			Padding:  textPadding,
		}
	}

	w := min(800, screenW-screenMargin)
	h := min(600, screenH-screenMargin)
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 600
	}
	return Layout{
		Kind:      KindCode,
		Width:     w,
		Height:    h,
		FontSize:  12,
		Monospace: true,
		Padding:   textPadding,
	}
}

// Origin returns the top-left corner that centers a w x h box on the screen.
func Origin(w, h, screenW, screenH int) (x, y int) {
	return (screenW - w) / 2, (screenH - h) / 2
}

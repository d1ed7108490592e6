package overlay

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syncDispatch(f func()) { f() }

func newTestDisplay(t *testing.T) *Display {
	t.Helper()
	a := test.NewTempApp(t)
	a.Settings().SetTheme(NewTheme())
	return New(a, nil,
		WithDispatcher(syncDispatch),
		WithScreenSize(func() (int, int) { return 1920, 1080 }),
	)
}

func TestShowChoiceAnswer(t *testing.T) {
	d := newTestDisplay(t)
	assert.False(t, d.Exists())

	d.Show("C")
	assert.True(t, d.Exists())
	assert.True(t, d.Visible())

	require.NotNil(t, d.label)
	assert.Nil(t, d.code)
	assert.Equal(t, "C", d.label.Text)
	assert.Equal(t, float32(48), d.label.TextSize)
	assert.True(t, d.label.TextStyle.Bold)
	assert.Equal(t, fyne.TextAlignCenter, d.label.Alignment)
	assert.Equal(t, fyne.NewSize(200, 100), d.win.Canvas().Size())
}

func TestShowCodeAnswer(t *testing.T) {
	d := newTestDisplay(t)
	code := "function add(a, b) {\n  return a + b;\n}"

	d.Show(code)

	require.NotNil(t, d.code)
	assert.Nil(t, d.label)
	assert.Equal(t, code, d.code.Text)
	assert.True(t, d.code.TextStyle.Monospace)
	assert.True(t, d.code.TextStyle.Bold)
	assert.Equal(t, fyne.TextWrapWord, d.code.Wrapping)
	assert.Equal(t, fyne.NewSize(800, 600), d.win.Canvas().Size())
}

func TestShowEmptyIsNoop(t *testing.T) {
	d := newTestDisplay(t)
	d.Show("")
	assert.False(t, d.Exists())
	assert.False(t, d.Visible())
}

func TestWindowIsReused(t *testing.T) {
	d := newTestDisplay(t)

	d.Show("A")
	first := d.win
	for i := 0; i < 3; i++ {
		d.Hide()
		assert.False(t, d.Visible())
		assert.True(t, d.Exists())

		d.Show("B")
		assert.Same(t, first, d.win)
		assert.True(t, d.Visible())
	}
	assert.Equal(t, "B", d.label.Text)
}

func TestReuseKeepsSize(t *testing.T) {
	d := newTestDisplay(t)

	d.Show("A")
	d.Hide()
	d.Show(strings.Repeat("x", 120))

	assert.Equal(t, fyne.NewSize(200, 100), d.win.Canvas().Size())
	assert.Equal(t, strings.Repeat("x", 120), d.label.Text)
}

func TestSetTextBeforeShowIsNoop(t *testing.T) {
	d := newTestDisplay(t)
	d.SetText("A")
	assert.False(t, d.Exists())
	assert.Nil(t, d.win)
}

func TestSetTextKeepsVisibility(t *testing.T) {
	d := newTestDisplay(t)
	d.Show(strings.Repeat("y", 40))
	d.Hide()

	d.SetText("updated body")
	assert.False(t, d.Visible())
	assert.Equal(t, "updated body", d.code.Text)
}

func TestHideWithoutWindowIsNoop(t *testing.T) {
	d := newTestDisplay(t)
	called := false
	d.do = func(f func()) { called = true; f() }
	d.Hide()
	assert.False(t, called)
}

func TestThemeColors(t *testing.T) {
	th := NewTheme()
	assert.Equal(t, overlayBackground, th.Color("background", 0))
	assert.Equal(t, overlayForeground, th.Color("foreground", 0))
	assert.Equal(t, float32(12), th.Size("text"))
}

func TestCodeLayoutClampedInWindowUnits(t *testing.T) {
	a := test.NewTempApp(t)
	a.Settings().SetTheme(NewTheme())
	d := New(a, nil,
		WithDispatcher(syncDispatch),
		WithScreenSize(func() (int, int) { return 1200, 900 }),
		WithScale(func() float32 { return 1.5 }),
	)

	d.Show(strings.Repeat("z", 60))

	// 1200x900 pixels at 1.5 is 800x600 units, minus the screen margin
	assert.Equal(t, fyne.NewSize(700, 500), d.win.Canvas().Size())
}

func TestScaleIgnoredWhenInvalid(t *testing.T) {
	d := newTestDisplay(t)
	d.scale = func() float32 { return 0 }
	w, h := d.screenUnits()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}

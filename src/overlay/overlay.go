// Package overlay shows the answer in a small borderless window. The window is
// created on first use and reused for the rest of the process.
package overlay

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"screen-answer-llm/src/answer"
	"screen-answer-llm/src/stealth"
)

const windowTitle = "Answer"

// Dispatcher runs f on the GUI thread.
type Dispatcher func(f func())

// ScreenSizeFunc reports the primary screen size in pixels.
type ScreenSizeFunc func() (width, height int)

// ScaleFunc reports how many screen pixels make up one window unit.
type ScaleFunc func() float32

// Display owns the overlay window. Its methods must all be called from the
// same goroutine; window work is handed to the dispatcher.
type Display struct {
	app    fyne.App
	hooks  stealth.Hooks
	do     Dispatcher
	screen ScreenSizeFunc
	scale  ScaleFunc

	// mirrors of the window state, owned by the calling goroutine
	exists  bool
	visible bool

	// touched only on the GUI thread
	win   fyne.Window
	label *canvas.Text
	code  *widget.Label
}

type Option func(*Display)

// WithDispatcher replaces fyne.Do.
func WithDispatcher(do Dispatcher) Option {
	return func(d *Display) { d.do = do }
}

func WithScreenSize(fn ScreenSizeFunc) Option {
	return func(d *Display) { d.screen = fn }
}

// WithScale converts the pixel screen size into window units. Without it
// one pixel is one unit.
func WithScale(fn ScaleFunc) Option {
	return func(d *Display) { d.scale = fn }
}

func New(app fyne.App, hooks stealth.Hooks, opts ...Option) *Display {
	if hooks == nil {
		hooks = stealth.Noop{}
	}
	d := &Display{
		app:    app,
		hooks:  hooks,
		do:     fyne.Do,
		screen: func() (int, int) { return 1920, 1080 },
		scale:  func() float32 { return 1 },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Exists reports whether the window has been created.
func (d *Display) Exists() bool { return d.exists }

// Visible reports whether the window is currently shown.
func (d *Display) Visible() bool { return d.visible }

// Show displays text. The first call creates the window sized for text; later
// calls reuse it, replacing the text without resizing. Empty text is ignored.
func (d *Display) Show(text string) {
	if text == "" {
		return
	}
	if d.exists {
		d.visible = true
		d.do(func() {
			d.setText(text)
			d.win.Show()
			d.win.RequestFocus()
		})
		return
	}

	d.exists = true
	d.visible = true
	l := d.layout(text)
	d.do(func() {
		d.create(text, l)
		d.win.Show()
		d.win.RequestFocus()
		d.pin()
	})
}

// SetText replaces the text of an existing window without changing its
// visibility. It is a no-op before the first Show.
func (d *Display) SetText(text string) {
	if !d.exists {
		return
	}
	d.do(func() { d.setText(text) })
}

// Hide withdraws the window. The window is kept for reuse.
func (d *Display) Hide() {
	if !d.exists || !d.visible {
		return
	}
	d.visible = false
	d.do(func() { d.win.Hide() })
}

func (d *Display) layout(text string) answer.Layout {
	sw, sh := d.screenUnits()
	l := answer.LayoutFor(text, sw, sh)
	x, y := answer.Origin(l.Width, l.Height, sw, sh)
	log.Printf("Overlay: %s layout %dx%d at (%d,%d)", l.Kind, l.Width, l.Height, x, y)
	return l
}

// screenUnits returns the screen size in the units used by Resize.
func (d *Display) screenUnits() (int, int) {
	sw, sh := d.screen()
	s := d.scale()
	if s <= 0 {
		return sw, sh
	}
	return int(float32(sw) / s), int(float32(sh) / s)
}

func (d *Display) newWindow() fyne.Window {
	if drv, ok := d.app.Driver().(desktop.Driver); ok {
		return drv.CreateSplashWindow()
	}
	return d.app.NewWindow(windowTitle)
}

func (d *Display) create(text string, l answer.Layout) {
	w := d.newWindow()
	w.SetTitle(windowTitle)
	w.SetFixedSize(true)
	w.SetPadded(false)
	w.SetCloseIntercept(w.Hide)

	var body fyne.CanvasObject
	if l.Kind == answer.KindChoice {
		d.label = canvas.NewText(text, overlayForeground)
		d.label.TextSize = l.FontSize
		d.label.TextStyle = fyne.TextStyle{Bold: true}
		d.label.Alignment = fyne.TextAlignCenter
		body = container.NewCenter(d.label)
	} else {
		d.code = widget.NewLabel(text)
		d.code.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
		d.code.Wrapping = fyne.TextWrapWord
		body = container.NewVScroll(d.code)
	}

	pad := float32(l.Padding)
	inset := container.New(layout.NewCustomPaddedLayout(pad, pad, pad, pad), body)
	w.SetContent(container.NewStack(canvas.NewRectangle(overlayBackground), inset))
	w.Resize(fyne.NewSize(float32(l.Width), float32(l.Height)))
	w.CenterOnScreen()
	d.win = w
}

func (d *Display) setText(text string) {
	switch {
	case d.label != nil:
		d.label.Text = text
		d.label.Refresh()
	case d.code != nil:
		d.code.SetText(text)
	}
}

// pin applies the native always-on-top, translucency and tool-window styles.
func (d *Display) pin() {
	nw, ok := d.win.(driver.NativeWindow)
	if !ok {
		return
	}
	nw.RunNative(func(ctx any) {
		if wc, ok := ctx.(driver.WindowsWindowContext); ok {
			d.hooks.PinOverlay(wc.HWND, stealth.OverlayAlpha)
		}
	})
}

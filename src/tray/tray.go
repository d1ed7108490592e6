// Package tray shows the status line in the system tray, when the driver has one.
package tray

import (
	"log"

	"fyne.io/fyne/v2"

	"screen-answer-llm/src/state"
)

const menuTitle = "Screen Answer"

// systemTray is the part of desktop.App the tray needs.
type systemTray interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Tray is the status menu. SetStatus may be called from any goroutine.
type Tray struct {
	do     func(func())
	menu   *fyne.Menu
	status *fyne.MenuItem
}

// Setup installs the tray menu. It returns false when app has no system tray.
func Setup(app fyne.App, onCapture, onQuit func()) (*Tray, bool) {
	desk, ok := app.(systemTray)
	if !ok {
		log.Printf("Tray: driver has no system tray")
		return nil, false
	}
	return setup(desk, fyne.Do, onCapture, onQuit), true
}

func setup(desk systemTray, do func(func()), onCapture, onQuit func()) *Tray {
	t := &Tray{do: do}
	t.status = fyne.NewMenuItem("Idle", nil)
	t.status.Disabled = true

	capture := fyne.NewMenuItem("Capture", onCapture)
	quit := fyne.NewMenuItem("Quit", onQuit)
	quit.IsQuit = true

	t.menu = fyne.NewMenu(menuTitle, t.status, fyne.NewMenuItemSeparator(), capture, quit)
	desk.SetSystemTrayMenu(t.menu)
	desk.SetSystemTrayIcon(Icon)
	return t
}

// SetStatus shows st as the first menu line.
func (t *Tray) SetStatus(st state.Status) {
	if t == nil {
		return
	}
	label := st.Text
	if label == "" {
		label = "Idle"
	}
	t.do(func() {
		t.status.Label = label
		t.menu.Refresh()
	})
}

// StatusLabel returns the current status line.
func (t *Tray) StatusLabel() string { return t.status.Label }

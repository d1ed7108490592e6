package tray

import "fyne.io/fyne/v2"

// iconSVG is a monitor with a question mark.
const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <rect x="1.5" y="2" width="13" height="9" rx="1" fill="none" stroke="#333333" stroke-width="1.2"/>
  <line x1="8" y1="11" x2="8" y2="13.5" stroke="#333333" stroke-width="1.2"/>
  <line x1="5" y1="14" x2="11" y2="14" stroke="#333333" stroke-width="1.2" stroke-linecap="round"/>
  <path d="M6.3 5.2a1.7 1.7 0 1 1 2.4 1.6c-.5.2-.7.5-.7 1v.3" fill="none" stroke="#0078d4" stroke-width="1.1" stroke-linecap="round"/>
  <circle cx="8" cy="9.4" r=".55" fill="#0078d4"/>
</svg>`

// Icon is the tray icon resource.
var Icon = fyne.NewStaticResource("screen-answer.svg", []byte(iconSVG))

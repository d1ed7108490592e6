// Package notification reports fatal startup errors to a user who may never
// see the console.
package notification

import "unicode/utf8"

const maxMessageLen = 500

// ShowBlockingError shows a modal error dialog where the platform has one and
// logs otherwise. It returns once the user dismisses it.
func ShowBlockingError(title, message string) {
	showBlockingError(title, clip(message))
}

func clip(message string) string {
	if utf8.RuneCountInString(message) <= maxMessageLen {
		return message
	}
	return string([]rune(message)[:maxMessageLen]) + "..."
}

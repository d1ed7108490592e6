//go:build !windows

package notification

import "log"

func showBlockingError(title, message string) {
	log.Printf("%s: %s", title, message)
}

package client

import (
	"sync"

	"golang.design/x/clipboard"

	"battlecode-client/pkg/logger"
)

var (
	clipboardOnce sync.Once
	clipboardOK   bool
)

// InitClipboard prepares the system clipboard. Without one, copy and paste
// report an error instead of panicking.
func InitClipboard() bool {
	clipboardOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			logger.Component("clipboard").WithError(err).Warn("clipboard unavailable")
			return
		}
		clipboardOK = true
	})
	return clipboardOK
}

// CopyText places text on the clipboard.
func CopyText(text string) bool {
	if !InitClipboard() {
		return false
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return true
}

// PasteText returns the clipboard text, or "" when there is none.
func PasteText() string {
	if !InitClipboard() {
		return ""
	}
	return string(clipboard.Read(clipboard.FmtText))
}

package editor

import (
	"os"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// ClipboardService is how the engine reads/writes the system clipboard
// (spec §4.8's Copy/Cut/Paste events). A terminal has no synchronous way
// to read back what it just set, so TryGetContentFromClipboard is
// allowed to fail — callers treat that as "nothing to paste" rather than
// a hard error.
type ClipboardService interface {
	TryGetContentFromClipboard() (string, error)
	SetContentInClipboard(content string) error
}

// OSC52Clipboard implements ClipboardService purely through the OSC 52
// terminal escape sequence: it can set the clipboard (most modern
// terminals honor OSC 52 writes) but cannot read it back, since OSC 52
// read support is both rare and a security footgun most terminals
// disable by default.
type OSC52Clipboard struct {
	w          *os.File
	lastWritten string
}

// NewOSC52Clipboard writes sequences to w (typically os.Stdout).
func NewOSC52Clipboard(w *os.File) *OSC52Clipboard {
	return &OSC52Clipboard{w: w}
}

// SetContentInClipboard emits an OSC 52 copy sequence. It also remembers
// the content locally so TryGetContentFromClipboard can serve same-
// process paste-after-copy even though OSC 52 itself is write-only.
func (c *OSC52Clipboard) SetContentInClipboard(content string) error {
	c.lastWritten = content
	_, err := osc52.New(content).WriteTo(c.w)
	return err
}

// TryGetContentFromClipboard returns the last content this process wrote
// via SetContentInClipboard. It cannot see clipboard writes from other
// programs — spec §4.8 treats that as an acceptable degraded mode rather
// than a Non-goal violation, since it still satisfies in-app copy/paste.
func (c *OSC52Clipboard) TryGetContentFromClipboard() (string, error) {
	return c.lastWritten, nil
}

// NullClipboard is a ClipboardService that never has anything to paste
// and silently discards copies — used where no terminal is attached
// (tests, headless rendering).
type NullClipboard struct{}

func (NullClipboard) TryGetContentFromClipboard() (string, error) { return "", nil }
func (NullClipboard) SetContentInClipboard(string) error          { return nil }

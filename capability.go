package forme

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/colorprofile"
	"github.com/muesli/termenv"
	"github.com/xo/terminfo"
)

// detectedCapability holds the process-wide detected terminal color
// capability (spec §5 "global detected color support"). It starts
// uninitialized (-1) and is populated lazily by Detect, or pinned by
// SetCapabilityOverride for tests and for applications that already
// know their target terminal.
var detectedCapability atomic.Int32

const capUninitialized int32 = -1

func init() {
	detectedCapability.Store(capUninitialized)
}

// SetCapabilityOverride pins the global capability, bypassing detection.
// Used by tests that need deterministic narrowing behavior regardless of
// the environment they run in.
func SetCapabilityOverride(cap Capability) {
	detectedCapability.Store(int32(cap))
}

// ClearCapabilityOverride forgets any pinned capability so the next
// CurrentCapability call re-detects.
func ClearCapabilityOverride() {
	detectedCapability.Store(capUninitialized)
}

// CurrentCapability returns the process-wide detected capability,
// detecting against os.Stdout on first use.
func CurrentCapability() Capability {
	if v := detectedCapability.Load(); v != capUninitialized {
		return Capability(v)
	}
	cap := Detect(os.Stdout)
	detectedCapability.Store(int32(cap))
	return cap
}

// Detect inspects w (normally os.Stdout) and the process environment to
// determine the terminal's color capability. colorprofile.Detect is
// authoritative; termenv and terminfo are consulted only to break a tie
// between Ansi256 and Ansi16 when colorprofile can't tell (§E of the
// expanded design: colorprofile never gets overridden into claiming
// TrueColor by the secondary signals).
func Detect(w io.Writer) Capability {
	env := os.Environ()
	profile := colorprofile.Detect(w, env)

	switch profile {
	case colorprofile.TrueColor:
		return CapTrueColor
	case colorprofile.ANSI256:
		return CapAnsi256
	case colorprofile.ANSI:
		return CapAnsi16
	case colorprofile.NoTTY, colorprofile.Ascii:
		return CapNone
	}

	// Ambiguous colorprofile result: fall back to termenv/terminfo signals
	// to choose between the two palette tiers. Never escalate to
	// TrueColor here.
	if termenv.EnvColorProfile() == termenv.TrueColor {
		return CapAnsi256
	}
	if ti, err := terminfo.LoadFromEnv(); err == nil {
		if n, ok := ti.Nums[terminfo.MaxColors]; ok {
			if n >= 256 {
				return CapAnsi256
			}
			return CapAnsi16
		}
	}
	return CapAnsi16
}

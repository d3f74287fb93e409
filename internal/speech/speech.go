// Package speech provides best-effort spoken feedback.
package speech

import (
	"os/exec"
	"strings"
)

// Command speaks phrases by spawning an external text-to-speech
// program with the phrase as its last argument. Failures are ignored;
// the game never depends on speech succeeding.
type Command struct {
	name string
	args []string
}

// NewCommand builds a Command from a shell-less command line such as
// "espeak -v ko" or "say". An empty command line yields nil; callers
// should fall back to Noop.
func NewCommand(cmdline string) *Command {
	parts := strings.Fields(cmdline)
	if len(parts) == 0 {
		return nil
	}
	return &Command{name: parts[0], args: parts[1:]}
}

// Announce implements the session announcer, fire-and-forget.
func (c *Command) Announce(text string) {
	cmd := exec.Command(c.name, append(append([]string(nil), c.args...), text)...)
	if err := cmd.Start(); err != nil {
		// Speech is optional; a missing program is not an error.
		return
	}
	go func() {
		_ = cmd.Wait()
	}()
}

// Noop discards every phrase.
type Noop struct{}

// Announce implements the session announcer.
func (Noop) Announce(string) {}

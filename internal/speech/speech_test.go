package speech

import "testing"

func TestNewCommandSplitsArguments(t *testing.T) {
	c := NewCommand("espeak -v ko")
	if c == nil {
		t.Fatalf("expected command")
	}
	if c.name != "espeak" || len(c.args) != 2 || c.args[0] != "-v" || c.args[1] != "ko" {
		t.Fatalf("unexpected parse: name=%q args=%v", c.name, c.args)
	}
}

func TestNewCommandEmptyIsNil(t *testing.T) {
	if c := NewCommand("   "); c != nil {
		t.Fatalf("expected nil for blank command line, got %+v", c)
	}
}

func TestAnnounceMissingProgramIsSilent(t *testing.T) {
	c := NewCommand("pairo-definitely-missing-tts")
	// Must not panic or report anything.
	c.Announce("안녕하세요")
}

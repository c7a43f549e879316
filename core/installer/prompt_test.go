package installer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseYesNo(t *testing.T) {
	assert.True(t, ParseYesNo("y", false))
	assert.True(t, ParseYesNo("YES", false))
	assert.False(t, ParseYesNo("n", true))
	assert.False(t, ParseYesNo("No", true))
	assert.True(t, ParseYesNo("", true))
	assert.False(t, ParseYesNo("", false))
	assert.True(t, ParseYesNo("maybe", true))
}

func TestParseChoice(t *testing.T) {
	options := []string{"xfce", "gnome", "kde", "none"}

	assert.Equal(t, "xfce", ParseChoice("1", options, "none"))
	assert.Equal(t, "kde", ParseChoice("3", options, "none"))
	assert.Equal(t, "gnome", ParseChoice("GNOME", options, "none"))
	assert.Equal(t, "none", ParseChoice("", options, "none"))
	assert.Equal(t, "none", ParseChoice("9", options, "none"))
	assert.Equal(t, "none", ParseChoice("cde", options, "none"))
}

func TestPrompterAsk(t *testing.T) {
	p := NewPrompter(strings.NewReader("  voidbox  \n\n"))

	assert.Equal(t, "voidbox", p.Ask("Hostname", "void"))
	assert.Equal(t, "void", p.Ask("Hostname", "void"))
	// Exhausted input falls back to the default
	assert.Equal(t, "void", p.Ask("Hostname", "void"))
}

func TestPrompterConfirm(t *testing.T) {
	p := NewPrompter(strings.NewReader("y\nn\n\n"))

	assert.True(t, p.Confirm("Continue", false))
	assert.False(t, p.Confirm("Continue", true))
	assert.True(t, p.Confirm("Continue", true))
}

func TestPrompterChoose(t *testing.T) {
	options := []string{"xfce", "gnome", "kde", "none"}
	p := NewPrompter(strings.NewReader("2\nkde\nbogus\n"))

	assert.Equal(t, "gnome", p.Choose("Desktop", options, "none"))
	assert.Equal(t, "kde", p.Choose("Desktop", options, "none"))
	assert.Equal(t, "none", p.Choose("Desktop", options, "none"))
}

func TestPrompterAskRequired(t *testing.T) {
	p := NewPrompter(strings.NewReader("\n\nanswer\n"))

	assert.Equal(t, "answer", p.AskRequired("Username"))
}

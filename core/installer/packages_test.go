package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDesktopPackages(t *testing.T) {
	xfce := DesktopPackages("xfce")
	assert.Contains(t, xfce, "xfce4")
	assert.Contains(t, xfce, "lightdm")

	gnome := DesktopPackages("gnome")
	assert.Contains(t, gnome, "gnome")
	assert.Contains(t, gnome, "gdm")

	assert.Empty(t, DesktopPackages("none"))
	assert.Empty(t, DesktopPackages("cde"))
}

func TestIsDesktop(t *testing.T) {
	for _, name := range DesktopNames {
		assert.True(t, IsDesktop(name), name)
	}
	assert.False(t, IsDesktop("cde"))
	assert.False(t, IsDesktop(""))
}

func TestDisplayManagerFor(t *testing.T) {
	assert.Equal(t, "lightdm", DisplayManagerFor("xfce"))
	assert.Equal(t, "gdm", DisplayManagerFor("gnome"))
	assert.Equal(t, "sddm", DisplayManagerFor("kde"))
	assert.Equal(t, "", DisplayManagerFor("none"))
}

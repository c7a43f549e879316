package installer

import "strings"

// BasePackages is the minimal package set every installation receives.
var BasePackages = []string{"base-system", "xorg", "NetworkManager", "elogind"}

// AudioPackages is the PipeWire audio stack, installed regardless of the
// desktop choice.
var AudioPackages = []string{"alsa-utils", "pipewire", "wireplumber", "sof-firmware", "alsa-pipewire"}

// DesktopNames lists the selectable desktop environments in menu order.
var DesktopNames = []string{"xfce", "gnome", "kde", "none"}

var desktopPackages = map[string]string{
	"xfce":  "xfce4 xfce4-terminal lightdm lightdm-gtk3-greeter gvfs thunar-volman thunar-archive-plugin xfce4-pulseaudio-plugin network-manager-applet",
	"gnome": "gnome gdm gnome-tweaks gnome-software gvfs network-manager-applet network-manager gnome-shell gnome-terminal",
	"kde":   "kde5 sddm konsole plasma-workspace plasma-desktop kdeplasma-addons kde-cli-tools kde-gtk-config kdeconnect dolphin ark sddm-kcm gvfs network-manager-applet",
	"none":  "",
}

var displayManagers = map[string]string{
	"xfce":  "lightdm",
	"gnome": "gdm",
	"kde":   "sddm",
}

// DesktopPackages returns the package set for a desktop environment; the
// empty slice for "none" or unknown choices.
func DesktopPackages(desktop string) []string {
	pkgs := desktopPackages[desktop]
	if pkgs == "" {
		return []string{}
	}

	return strings.Fields(pkgs)
}

// IsDesktop reports whether name is a valid desktop choice.
func IsDesktop(name string) bool {
	_, ok := desktopPackages[name]
	return ok
}

// DisplayManagerFor returns the runit service of the desktop's display
// manager, or "" when the desktop has none.
func DisplayManagerFor(desktop string) string {
	return displayManagers[desktop]
}

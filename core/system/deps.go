package system

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/Gautam9981/VoidInstall/core/util"
	"github.com/sirupsen/logrus"
)

// requiredCommands maps each command the installer invokes to the Void
// package providing it.
var requiredCommands = map[string]string{
	"lsblk":        "util-linux",
	"mount":        "util-linux",
	"wipefs":       "util-linux",
	"sgdisk":       "gptfdisk",
	"partprobe":    "parted",
	"parted":       "parted",
	"mkfs.ext4":    "e2fsprogs",
	"mkfs.vfat":    "dosfstools",
	"xbps-install": "xbps",
	"lspci":        "pciutils",
	"lsusb":        "usbutils",
	"cryptsetup":   "cryptsetup",
}

// MissingDependencies returns the packages providing commands that are not
// currently in PATH.
func MissingDependencies() []string {
	missing := map[string]bool{}
	for command, pkg := range requiredCommands {
		if _, err := exec.LookPath(command); err != nil {
			logrus.Warnf("missing command: %s (from package: %s)", command, pkg)
			missing[pkg] = true
		}
	}

	pkgs := []string{}
	for pkg := range missing {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	return pkgs
}

// InstallDependencies syncs the host's repositories and installs the given
// packages on the live system.
func InstallDependencies(pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}

	// Sync may fail on stale media, the install itself decides
	_ = util.RunCommand("xbps-install -S")

	err := util.RunCommand(fmt.Sprintf("xbps-install -y %s", strings.Join(pkgs, " ")))
	if err != nil {
		return fmt.Errorf("failed to install dependencies: %s", err)
	}

	return nil
}

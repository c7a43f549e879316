package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Gautam9981/VoidInstall/core/util"
	"github.com/sirupsen/logrus"
)

// MountChrootDirs mounts the virtual filesystems a chroot needs into the
// target root. The efivars bind is best effort, UEFI-only.
func MountChrootDirs(targetRoot string, uefi bool) error {
	binds := []struct {
		cmd, target string
	}{
		{"mount --bind /dev %s", "dev"},
		{"mount --bind /dev/pts %s", "dev/pts"},
		{"mount -t proc proc %s", "proc"},
		{"mount -t sysfs sysfs %s", "sys"},
	}

	for _, bind := range binds {
		target := filepath.Join(targetRoot, bind.target)
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %s", target, err)
		}
		if err := util.RunCommand(fmt.Sprintf(bind.cmd, target)); err != nil {
			return fmt.Errorf("failed to mount %s: %s", target, err)
		}
	}

	if uefi {
		efiTarget := filepath.Join(targetRoot, "sys/firmware/efi")
		err := util.RunCommand(fmt.Sprintf("mount --bind /sys/firmware/efi %s", efiTarget))
		if err != nil {
			logrus.Warnf("could not bind efi firmware interface: %s", err)
		}
	}

	return nil
}

// UnmountChrootDirs undoes MountChrootDirs. Failures are logged and ignored,
// the recursive target unmount during cleanup catches leftovers.
func UnmountChrootDirs(targetRoot string) {
	for _, dir := range []string{"dev", "proc", "sys"} {
		target := filepath.Join(targetRoot, dir)
		if err := util.RunCommand(fmt.Sprintf("umount -R %s", target)); err != nil {
			logrus.Debugf("could not unmount %s: %s", target, err)
		}
	}
}

// CopyResolvConf copies the host's DNS configuration into the target so
// chrooted commands can resolve names.
func CopyResolvConf(targetRoot string) error {
	content, err := os.ReadFile("/etc/resolv.conf")
	if err != nil {
		return fmt.Errorf("failed to read host resolv.conf: %s", err)
	}

	err = os.WriteFile(filepath.Join(targetRoot, "etc/resolv.conf"), content, 0o644)
	if err != nil {
		return fmt.Errorf("failed to copy resolv.conf: %s", err)
	}

	return nil
}

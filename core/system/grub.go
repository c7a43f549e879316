package system

import (
	"fmt"

	"github.com/Gautam9981/VoidInstall/core/util"
	"github.com/sirupsen/logrus"
)

type FirmwareType string

const (
	BIOS FirmwareType = "i386-pc"
	EFI  FirmwareType = "x86_64-efi"
	EFI6 FirmwareType = "arm64-efi"
)

// GrubTarget returns the grub platform target and the packages providing it
// for an architecture and firmware combination. Supported reports whether
// automatic bootloader installation is possible at all: U-Boot boards
// (non-UEFI aarch64, armv7l) need manual setup.
func GrubTarget(arch string, uefi bool) (target FirmwareType, pkgs []string, supported bool) {
	switch arch {
	case ArchX86_64:
		if uefi {
			return EFI, []string{"grub-x86_64-efi", "efibootmgr"}, true
		}
		return BIOS, []string{"grub"}, true
	case ArchAarch64:
		if uefi {
			return EFI6, []string{"grub-arm64-efi", "efibootmgr"}, true
		}
		return "", nil, false
	default:
		return "", nil, false
	}
}

// InstallGrub installs GRUB in the chroot. For UEFI targets, removable mode
// is forced (and a best-effort NVRAM entry added anyway) when removable is
// set; otherwise the standard install is attempted first with removable mode
// as fallback. BIOS targets install straight to the disk's MBR gap.
func InstallGrub(targetRoot, diskPath string, target FirmwareType, removable bool) error {
	if target == BIOS {
		err := util.RunInChroot(targetRoot, fmt.Sprintf("grub-install --target=%s %s", target, diskPath))
		if err != nil {
			return fmt.Errorf("failed to run grub-install: %s", err)
		}
		return nil
	}

	standardCmd := fmt.Sprintf("grub-install --target=%s --efi-directory=/boot/efi --bootloader-id=void --recheck", target)
	removableCmd := fmt.Sprintf("grub-install --target=%s --efi-directory=/boot/efi --removable --recheck", target)

	if removable {
		if err := util.RunInChroot(targetRoot, removableCmd); err != nil {
			return fmt.Errorf("failed to run grub-install: %s", err)
		}
		// Also register a named boot entry where the firmware allows it
		if err := util.RunInChroot(targetRoot, standardCmd); err != nil {
			logrus.Warnf("could not add NVRAM boot entry: %s", err)
		}
		return nil
	}

	if err := util.RunInChroot(targetRoot, standardCmd); err != nil {
		logrus.Warnf("standard GRUB install failed, falling back to removable mode: %s", err)
		if err := util.RunInChroot(targetRoot, removableCmd); err != nil {
			return fmt.Errorf("failed to run grub-install: %s", err)
		}
	}

	return nil
}

// RunGrubMkconfig generates the GRUB configuration in the chroot.
func RunGrubMkconfig(targetRoot, output string) error {
	err := util.RunInChroot(targetRoot, fmt.Sprintf("grub-mkconfig -o %s", output))
	if err != nil {
		return fmt.Errorf("failed to run grub-mkconfig: %s", err)
	}

	return nil
}

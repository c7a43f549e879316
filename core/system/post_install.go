package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gautam9981/VoidInstall/core/util"
)

// SetTimezone points /etc/localtime at the given zoneinfo entry and syncs
// the hardware clock.
func SetTimezone(targetRoot, tz string) error {
	zonePath := filepath.Join(targetRoot, "usr/share/zoneinfo", tz)
	if _, err := os.Stat(zonePath); err != nil {
		return fmt.Errorf("unknown timezone %s", tz)
	}

	err := util.RunInChroot(targetRoot, fmt.Sprintf("ln -sf /usr/share/zoneinfo/%s /etc/localtime", tz))
	if err != nil {
		return fmt.Errorf("failed to set timezone: %s", err)
	}

	err = util.RunInChroot(targetRoot, "hwclock --systohc")
	if err != nil {
		return fmt.Errorf("failed to sync hardware clock: %s", err)
	}

	return nil
}

// SetLocale enables a locale in libc-locales and regenerates them.
func SetLocale(targetRoot, locale string) error {
	localesPath := filepath.Join(targetRoot, "etc/default/libc-locales")
	entry := fmt.Sprintf("%s UTF-8\n", locale)

	err := os.WriteFile(localesPath, []byte(entry), 0o644)
	if err != nil {
		return fmt.Errorf("failed to set locale: %s", err)
	}

	err = Reconfigure(targetRoot, "glibc-locales")
	if err != nil {
		return fmt.Errorf("failed to generate locales: %s", err)
	}

	return nil
}

// ChangeHostname writes /etc/hostname and a matching /etc/hosts.
func ChangeHostname(targetRoot, hostname string) error {
	hostnamePath := filepath.Join(targetRoot, "etc/hostname")
	err := os.WriteFile(hostnamePath, []byte(hostname+"\n"), 0o644)
	if err != nil {
		return fmt.Errorf("failed to change hostname: %s", err)
	}

	hostsContents := `127.0.0.1	localhost
::1		localhost
127.0.1.1	%s.localdomain	%s
`
	hostsPath := filepath.Join(targetRoot, "etc/hosts")
	err = os.WriteFile(hostsPath, []byte(fmt.Sprintf(hostsContents, hostname, hostname)), 0o644)
	if err != nil {
		return fmt.Errorf("failed to change hosts file: %s", err)
	}

	return nil
}

// AddUser creates a user in the target with the given supplementary groups
// and sets its password via chpasswd.
func AddUser(targetRoot, username, password string, groups []string) error {
	useraddCmd := "useradd -m -G %s -s /bin/bash %s"

	err := util.RunInChroot(targetRoot, fmt.Sprintf(useraddCmd, strings.Join(groups, ","), username))
	if err != nil {
		return fmt.Errorf("failed to create user: %s", err)
	}

	// chpasswd reads user:password pairs from stdin, keeping the password
	// out of the command line and the command log
	err = util.RunInChrootStdin(targetRoot, "chpasswd", fmt.Sprintf("%s:%s\n", username, password))
	if err != nil {
		return fmt.Errorf("failed to set password: %s", err)
	}

	return nil
}

// SetRootPassword runs passwd interactively inside the chroot.
func SetRootPassword(targetRoot string) error {
	err := util.RunInChroot(targetRoot, "passwd")
	if err != nil {
		return fmt.Errorf("failed to set root password: %s", err)
	}

	return nil
}

// SetupSudoers writes the wheel group drop-in.
func SetupSudoers(targetRoot string) error {
	dropinDir := filepath.Join(targetRoot, "etc/sudoers.d")
	if err := os.MkdirAll(dropinDir, 0o750); err != nil {
		return fmt.Errorf("failed to create sudoers.d: %s", err)
	}

	content := "%wheel ALL=(ALL:ALL) ALL\n"
	err := os.WriteFile(filepath.Join(dropinDir, "wheel"), []byte(content), 0o440)
	if err != nil {
		return fmt.Errorf("failed to write sudoers drop-in: %s", err)
	}

	return nil
}

// EnableService links a runit service into /var/service in the target.
func EnableService(targetRoot, service string) error {
	err := util.RunInChroot(targetRoot, fmt.Sprintf("ln -sf /etc/sv/%s /var/service/", service))
	if err != nil {
		return fmt.Errorf("failed to enable service %s: %s", service, err)
	}

	return nil
}

package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMountsUnder(t *testing.T) {
	procMounts := `proc /proc proc rw,nosuid,nodev,noexec 0 0
/dev/sda2 /mnt ext4 rw,relatime 0 0
/dev/sda1 /mnt/boot/efi vfat rw,relatime 0 0
devtmpfs /mnt/dev devtmpfs rw,nosuid 0 0
/dev/sdb1 /media/usb ext4 rw,relatime 0 0
sysfs /mnt/sys sysfs rw,nosuid 0 0`

	mounts := MountsUnder(procMounts, "/mnt")

	assert.Equal(t, []string{"/mnt/boot/efi", "/mnt/dev", "/mnt/sys", "/mnt"}, mounts)
}

func TestMountsUnderNoMatches(t *testing.T) {
	procMounts := `proc /proc proc rw 0 0
/dev/sda1 / ext4 rw 0 0`

	assert.Empty(t, MountsUnder(procMounts, "/mnt"))
}

func TestMountsUnderIgnoresPrefixSiblings(t *testing.T) {
	// /mnt2 shares the /mnt prefix but is not under it.
	procMounts := `/dev/sda1 /mnt ext4 rw 0 0
/dev/sdb1 /mnt2 ext4 rw 0 0`

	assert.Equal(t, []string{"/mnt"}, MountsUnder(procMounts, "/mnt"))
}

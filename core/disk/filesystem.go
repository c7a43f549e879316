package disk

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Gautam9981/VoidInstall/core/util"
)

func MakeFs(part *Partition) error {
	var err error
	switch part.Filesystem {
	case FAT16:
		makefsCmd := "mkfs.fat -I -F 16 %s"
		err = util.RunCommand(fmt.Sprintf(makefsCmd, part.Path))
	case FAT32:
		makefsCmd := "mkfs.fat -I -F 32 %s"
		err = util.RunCommand(fmt.Sprintf(makefsCmd, part.Path))
	case EXT2, EXT3, EXT4:
		makefsCmd := "mkfs.%s -F %s"
		err = util.RunCommand(fmt.Sprintf(makefsCmd, part.Filesystem, part.Path))
	case LINUX_SWAP:
		makefsCmd := "mkswap -f %s"
		err = util.RunCommand(fmt.Sprintf(makefsCmd, part.Path))
	default:
		makefsCmd := "mkfs.%s -f %s"
		err = util.RunCommand(fmt.Sprintf(makefsCmd, part.Filesystem, part.Path))
	}

	if err != nil {
		return fmt.Errorf("failed to make %s filesystem for %s: %s", part.Filesystem, part.Path, err)
	}

	return nil
}

func Swapon(device string) error {
	swaponCmd := "swapon %s"

	err := util.RunCommand(fmt.Sprintf(swaponCmd, device))
	if err != nil {
		return fmt.Errorf("failed to enable swap on %s: %s", device, err)
	}

	return nil
}

// SwapPartitions returns the active swap devices living on the given disk.
func SwapPartitions(diskPath string) []string {
	blkidCmd := "blkid -t TYPE=swap -o device %s*"
	output, err := util.OutputCommand(fmt.Sprintf(blkidCmd, diskPath))
	if err != nil {
		return nil
	}

	devices := []string{}
	for _, dev := range strings.Split(output, "\n") {
		if dev != "" {
			devices = append(devices, dev)
		}
	}

	return devices
}

func Swapoff(device string) error {
	swapoffCmd := "swapoff %s"

	err := util.RunCommand(fmt.Sprintf(swapoffCmd, device))
	if err != nil {
		return fmt.Errorf("failed to disable swap on %s: %s", device, err)
	}

	return nil
}

// Mountpoint associates a formatted partition device with its target path
// relative to the installed system's root (e.g. "/", "/boot/efi").
type Mountpoint struct {
	Partition, Target string
}

// SortMountpoints orders mountpoints by path depth, shallowest first.
// Mounting / before /boot before /boot/efi prevents one mountpoint from
// shadowing another.
func SortMountpoints(mountpoints []Mountpoint) []Mountpoint {
	ordered := make([]Mountpoint, len(mountpoints))
	copy(ordered, mountpoints)

	depth := func(target string) int {
		if target == "/" {
			return 0
		}
		return strings.Count(target, "/")
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return depth(ordered[i].Target) < depth(ordered[j].Target)
	})

	return ordered
}

// FstabOptions returns the mount options for a given mountpoint target.
func FstabOptions(target string) string {
	switch target {
	case "/boot/efi":
		return "umask=0077"
	case "/boot":
		return "noatime,errors=remount-ro"
	default:
		return "defaults"
	}
}

// FstabEntry builds a single fstab line's fields.
func FstabEntry(source, target, fstype string) []string {
	passno := "0"
	switch {
	case target == "/":
		passno = "1"
	case fstype != "swap" && target != "/boot/efi":
		passno = "2"
	}

	mountTarget := target
	options := FstabOptions(target)
	if fstype == "swap" {
		mountTarget = "none"
		options = "sw"
		passno = "0"
	}

	return []string{source, mountTarget, fstype, options, "0", passno}
}

func GenFstab(targetRoot string, entries [][]string) error {
	fstabHeader := `# /etc/fstab: static file system information.
#
# Use 'blkid' to print the universally unique identifier for a
# device; this may be used with UUID= as a more robust way to name devices
# that works even if disks are added and removed. See fstab(5).
#
# <file system>  <mount point>  <type>  <options>  <dump>  <pass>`

	file, err := os.Create(fmt.Sprintf("%s/etc/fstab", targetRoot))
	if err != nil {
		return err
	}

	defer file.Close()

	_, err = file.Write(append([]byte(fstabHeader), '\n'))
	if err != nil {
		return err
	}

	for _, entry := range entries {
		fmtEntry := strings.Join(entry, " ")
		_, err = file.Write(append([]byte(fmtEntry), '\n'))
		if err != nil {
			return err
		}
	}

	return nil
}

package disk

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	luks "github.com/Gautam9981/VoidInstall/core/disk/luks"
	"github.com/Gautam9981/VoidInstall/core/util"
	"golang.org/x/sys/unix"
)

const (
	BTRFS      = "btrfs"
	EXT2       = "ext2"
	EXT3       = "ext3"
	EXT4       = "ext4"
	FAT16      = "fat16"
	FAT32      = "fat32"
	LINUX_SWAP = "linux-swap"
	NTFS       = "ntfs"
	XFS        = "xfs"
)

type PartitionFs string

type Partition struct {
	Number     int         `json:"number"`
	Start      string      `json:"start"`
	End        string      `json:"end"`
	Size       string      `json:"size"`
	Type       string      `json:"type"`
	Path       string      `json:"-"`
	Filesystem PartitionFs `json:"filesystem"`
}

func (part *Partition) GetPath() string {
	return part.Path
}

func (part *Partition) Mount(location string) error {
	var mountPath string

	// If it's a LUKS-encrypted partition, open it first
	isLuks, err := luks.IsLuks(part)
	if err != nil {
		return err
	}
	if isLuks {
		partUUID, err := part.GetUUID()
		if err != nil {
			return err
		}
		err = luks.LuksTryOpen(part, fmt.Sprintf("luks-%s", partUUID), "")
		if err != nil {
			return err
		}

		mountPath, err = part.GetLUKSMapperPath()
		if err != nil {
			return err
		}
	} else {
		mountPath = part.Path
	}

	mountpoints, err := part.Mountpoints()
	if err != nil {
		return err
	}
	if slices.Contains(mountpoints, location) {
		return nil
	}

	mountCmd := "mount -m %s %s"
	err = util.RunCommand(fmt.Sprintf(mountCmd, mountPath, location))
	if err != nil {
		return fmt.Errorf("failed to run mount command: %s", err)
	}

	return nil
}

func (part *Partition) Mountpoints() ([]string, error) {
	mountpointsCmd := "lsblk -n -o MOUNTPOINTS %s"
	output, err := util.OutputCommand(fmt.Sprintf(mountpointsCmd, part.Path))
	if err != nil {
		return []string{}, fmt.Errorf("failed to list mountpoints for %s: %s", part.Path, err)
	}

	mounts := []string{}
	for _, mnt := range strings.Split(output, "\n") {
		if mnt != "" {
			mounts = append(mounts, mnt)
		}
	}

	return mounts, nil
}

func (part *Partition) IsMounted() (bool, error) {
	mountpoints, err := part.Mountpoints()
	if err != nil {
		return false, err
	}

	return len(mountpoints) > 0, nil
}

func (part *Partition) UnmountPartition() error {
	isMounted, err := part.IsMounted()
	if err != nil {
		return err
	}
	if !isMounted {
		return nil
	}

	umountCmd := "umount %s"
	err = util.RunCommand(fmt.Sprintf(umountCmd, part.Path))
	if err != nil {
		return fmt.Errorf("failed to run umount command: %s", err)
	}

	return nil
}

// UnmountDirectory unmounts the filesystem mounted at dir, falling back to a
// lazy detach if the regular unmount fails (e.g. target busy).
func UnmountDirectory(dir string) error {
	umountCmd := "umount %s"

	err := util.RunCommand(fmt.Sprintf(umountCmd, dir))
	if err != nil {
		if detachErr := unix.Unmount(dir, unix.MNT_DETACH); detachErr != nil {
			return fmt.Errorf("failed to run umount command: %s", err)
		}
	}

	return nil
}

// UnmountRecursive unmounts dir and everything below it, lazily detaching
// whatever refuses a regular unmount. Errors are intentionally swallowed:
// this runs during cleanup, where some targets may already be gone.
func UnmountRecursive(root string) {
	_ = util.RunCommand(fmt.Sprintf("umount -R %s", root))
	_ = unix.Unmount(root, unix.MNT_DETACH)
}

func (target *Partition) SetPartitionFlag(flag string, state bool) error {
	stateStr := "off"
	if state {
		stateStr = "on"
	}

	disk, part := util.SeparateDiskPart(target.Path)
	setPartCmd := "parted -s %s set %s %s %s"
	err := util.RunCommand(fmt.Sprintf(setPartCmd, disk, part, flag, stateStr))
	if err != nil {
		return fmt.Errorf("failed to set partition flag: %s", err)
	}

	return nil
}

func (target *Partition) FillPath(basePath string) {
	target.Path = util.PartitionPath(basePath, target.Number)
}

func (target *Partition) GetUUID() (string, error) {
	lsblkCmd := "lsblk -d -n -o UUID %s"

	output, err := util.OutputCommand(fmt.Sprintf(lsblkCmd, target.Path))
	if err != nil {
		return "", fmt.Errorf("failed to get partition UUID: %s", err)
	}

	return output, nil
}

func GetUUIDByPath(path string) (string, error) {
	lsblkCmd := "lsblk -d -n -o UUID %s"

	output, err := util.OutputCommand(fmt.Sprintf(lsblkCmd, path))
	if err != nil {
		return "", fmt.Errorf("failed to get partition UUID: %s", err)
	}

	return output, nil
}

func GetFilesystemByPath(path string) (string, error) {
	lsblkCmd := "lsblk -d -n -o FSTYPE %s"

	output, err := util.OutputCommand(fmt.Sprintf(lsblkCmd, path))
	if err != nil {
		return "", fmt.Errorf("failed to get partition FSTYPE: %s", err)
	}

	return output, nil
}

func (part *Partition) GetLUKSMapperPath() (string, error) {
	isLuks, err := luks.IsLuks(part)
	if err != nil {
		return "", err
	}
	if !isLuks {
		return "", fmt.Errorf("cannot get mapper path for %s. Partition is not LUKS-formatted", part.Path)
	}

	partUUID, err := part.GetUUID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/dev/mapper/luks-%s", partUUID), nil
}

var deviceWaitTimeout = 10 * time.Second

// WaitUntilAvailable polls the specified partition until its device node
// appears. This is particularly useful to make sure a recently created or
// modified partition is recognized by the system. Freshly created partitions
// have no filesystem yet, so only the node is waited for.
func (part *Partition) WaitUntilAvailable() error {
	deadline := time.Now().Add(deviceWaitTimeout)
	for {
		if _, err := os.Stat(part.Path); err == nil {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("device %s did not appear", part.Path)
		}

		time.Sleep(50 * time.Millisecond)
	}
}

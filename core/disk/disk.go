package disk

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Gautam9981/VoidInstall/core/util"
)

const (
	MSDOS = "msdos"
	GPT   = "gpt"
)

type DiskLabel string

type Disk struct {
	Path, Size, Model, Transport string
	Label                        DiskLabel
	Partitions                   []Partition
}

// BlockDevice is one entry of `lsblk -J` output, used for disk enumeration.
type BlockDevice struct {
	Name  string `json:"name"`
	Size  string `json:"size"`
	Model string `json:"model"`
	Type  string `json:"type"`
}

type lsblkOutput struct {
	BlockDevices []BlockDevice `json:"blockdevices"`
}

type locateDiskOutput struct {
	Disk struct {
		Path       string      `json:"path"`
		Size       string      `json:"size"`
		Model      string      `json:"model"`
		Transport  string      `json:"transport"`
		Label      string      `json:"label"`
		Partitions []Partition `json:"partitions"`
	} `json:"disk"`
}

// ListDisks enumerates whole disks (no partitions) present on the system.
func ListDisks() ([]BlockDevice, error) {
	listCmd := "lsblk -J -d -o NAME,SIZE,MODEL,TYPE"
	output, err := util.OutputCommand(listCmd)
	if err != nil {
		return nil, fmt.Errorf("failed to list block devices: %s", err)
	}

	devices, err := ParseBlockDevices(output)
	if err != nil {
		return nil, err
	}

	disks := []BlockDevice{}
	for _, dev := range devices {
		if dev.Type == "disk" {
			disks = append(disks, dev)
		}
	}

	return disks, nil
}

// ParseBlockDevices decodes `lsblk -J` output.
func ParseBlockDevices(output string) ([]BlockDevice, error) {
	var decoded lsblkOutput
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse lsblk output: %s", err)
	}

	return decoded.BlockDevices, nil
}

// LocateDisk reads a disk's partition table via parted's JSON output.
func LocateDisk(diskname string) (*Disk, error) {
	findPartitionCmd := "parted -sj %s unit MiB print"
	output, err := util.OutputCommand(fmt.Sprintf(findPartitionCmd, diskname))
	if err != nil && output == "" {
		return nil, fmt.Errorf("failed to locate disk %s: %s", diskname, err)
	}

	var decoded locateDiskOutput
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse partition table for %s: %s", diskname, err)
	}

	device := &Disk{
		Path:      decoded.Disk.Path,
		Size:      decoded.Disk.Size,
		Model:     decoded.Disk.Model,
		Transport: decoded.Disk.Transport,
		Label:     DiskLabel(decoded.Disk.Label),
	}
	if device.Path == "" {
		device.Path = diskname
	}
	device.Partitions = decoded.Disk.Partitions
	for i := range device.Partitions {
		device.Partitions[i].FillPath(device.Path)
	}

	return device, nil
}

// Exists reports whether the given device node is present.
func Exists(diskname string) bool {
	info, err := os.Stat(diskname)
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeDevice != 0
}

// SizeBytes returns a disk's size in bytes as reported by lsblk.
func SizeBytes(diskname string) (int64, error) {
	sizeCmd := "lsblk -b -d -n -o SIZE %s"
	output, err := util.OutputCommand(fmt.Sprintf(sizeCmd, diskname))
	if err != nil {
		return 0, fmt.Errorf("failed to get size of %s: %s", diskname, err)
	}

	var size int64
	if _, err := fmt.Sscanf(strings.TrimSpace(output), "%d", &size); err != nil {
		return 0, fmt.Errorf("failed to parse size of %s: %s", diskname, err)
	}

	return size, nil
}

// Wipe removes all filesystem, RAID and partition table signatures from the
// disk. This operation destroys all data on the device. The in-memory
// partition list is cleared with the on-disk table, so partitions created
// afterwards number from 1 again.
func (disk *Disk) Wipe() error {
	wipeCmd := "wipefs -a %s"

	err := util.RunCommand(fmt.Sprintf(wipeCmd, disk.Path))
	if err != nil {
		return fmt.Errorf("failed to wipe disk %s: %s", disk.Path, err)
	}

	disk.Partitions = nil
	return nil
}

func (disk *Disk) LabelDisk(label DiskLabel) error {
	labelDiskCmd := "parted -s %s mklabel %s"

	err := util.RunCommand(fmt.Sprintf(labelDiskCmd, disk.Path, label))
	if err != nil {
		return fmt.Errorf("failed to label disk: %s", err)
	}

	// A fresh label has no partitions
	disk.Label = label
	disk.Partitions = nil
	return nil
}

// NewPartition creates a partition on the disk spanning [start, end] MiB. An
// end of -1 uses all the remaining space.
func (target *Disk) NewPartition(name string, fsType PartitionFs, start, end int) (*Partition, error) {
	createPartCmd := "parted -s %s unit MiB mkpart%s \"%s\" %s %d %s"

	var partType string
	if target.Label == MSDOS {
		partType = " primary"
	}

	endStr := fmt.Sprintf("%d", end)
	if end == -1 {
		endStr = "100%"
	}

	err := util.RunCommand(fmt.Sprintf(createPartCmd, target.Path, partType, name, fsType, start, endStr))
	if err != nil {
		return nil, fmt.Errorf("failed to create partition: %s", err)
	}

	newPartition := &Partition{
		Number:     len(target.Partitions) + 1,
		Filesystem: fsType,
	}
	newPartition.FillPath(target.Path)
	target.Partitions = append(target.Partitions, *newPartition)

	return &target.Partitions[len(target.Partitions)-1], nil
}

// Reread asks the kernel to re-read the partition table.
func (disk *Disk) Reread() error {
	partprobeCmd := "partprobe %s"

	err := util.RunCommand(fmt.Sprintf(partprobeCmd, disk.Path))
	if err != nil {
		return fmt.Errorf("failed to re-read partition table of %s: %s", disk.Path, err)
	}

	return nil
}

// GetPartition returns partition number num (1-based), or nil.
func (disk *Disk) GetPartition(num int) *Partition {
	for i := range disk.Partitions {
		if disk.Partitions[i].Number == num {
			return &disk.Partitions[i]
		}
	}

	return nil
}

package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Gautam9981/VoidInstall/core/disk"
	"github.com/Gautam9981/VoidInstall/core/util"
)

// Partition roles within an auto-partitioning plan.
const (
	RoleEFI      = "efi"
	RoleBiosBoot = "bios_grub"
	RoleSwap     = "swap"
	RoleRoot     = "root"
)

const (
	efiSizeMiB      = 512
	biosBootSizeMiB = 1
	// Leave the first MiB free for partition alignment
	planStartMiB = 1

	// Smallest disk the auto planner accepts, matching a minimal
	// base-system plus desktop install with headroom.
	MinDiskSizeMiB = 10 * 1024
)

// PartitionSpec describes one partition of an auto-partitioning plan.
// End is in MiB, -1 meaning the rest of the disk.
type PartitionSpec struct {
	Role       string
	Name       string
	Filesystem disk.PartitionFs
	Start, End int
	Flag       string
	Path       string
}

// ParseSizeMiB converts a human size like "4G", "512M" or "2048" (MiB) into
// mebibytes.
func ParseSizeMiB(size string) (int, error) {
	size = strings.TrimSpace(strings.ToUpper(size))
	if size == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := 1
	suffixes := []struct {
		suffix     string
		multiplier int
	}{
		{"GIB", 1024}, {"GB", 1024}, {"G", 1024},
		{"MIB", 1}, {"MB", 1}, {"M", 1},
	}
	for _, s := range suffixes {
		if strings.HasSuffix(size, s.suffix) {
			multiplier = s.multiplier
			size = strings.TrimSuffix(size, s.suffix)
			break
		}
	}

	value, err := strconv.Atoi(strings.TrimSpace(size))
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", size)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}

	return value * multiplier, nil
}

// PlanPartitions computes the auto-partitioning layout for the given
// firmware and swap choice. The returned specs are ordered by partition
// number and carry device paths for diskPath.
func PlanPartitions(diskPath string, uefi, swap bool, swapSizeMiB int, encrypt bool) ([]PartitionSpec, error) {
	if swap && swapSizeMiB <= 0 {
		return nil, fmt.Errorf("invalid swap size %d MiB", swapSizeMiB)
	}

	specs := []PartitionSpec{}
	cursor := planStartMiB

	if uefi {
		specs = append(specs, PartitionSpec{
			Role:       RoleEFI,
			Name:       "EFI",
			Filesystem: disk.FAT32,
			Start:      cursor,
			End:        cursor + efiSizeMiB,
			Flag:       "esp",
		})
		cursor += efiSizeMiB
	} else {
		specs = append(specs, PartitionSpec{
			Role:  RoleBiosBoot,
			Name:  "BIOS",
			Start: cursor,
			End:   cursor + biosBootSizeMiB,
			Flag:  "bios_grub",
		})
		cursor += biosBootSizeMiB
	}

	// With LVM-on-LUKS swap lives inside the volume group instead of
	// being a raw partition, but planning keeps it separate either way so
	// the manual LUKS path stays simple.
	if swap && !encrypt {
		specs = append(specs, PartitionSpec{
			Role:       RoleSwap,
			Name:       "swap",
			Filesystem: disk.LINUX_SWAP,
			Start:      cursor,
			End:        cursor + swapSizeMiB,
		})
		cursor += swapSizeMiB
	}

	rootFs := disk.PartitionFs("")
	if !encrypt {
		rootFs = disk.EXT4
	}
	specs = append(specs, PartitionSpec{
		Role:       RoleRoot,
		Name:       "void",
		Filesystem: rootFs,
		Start:      cursor,
		End:        -1,
	})

	for i := range specs {
		specs[i].Path = util.PartitionPath(diskPath, i+1)
	}

	return specs, nil
}

// RootSpec returns the root partition of a plan.
func RootSpec(specs []PartitionSpec) *PartitionSpec {
	for i := range specs {
		if specs[i].Role == RoleRoot {
			return &specs[i]
		}
	}

	return nil
}

// SwapSpec returns the swap partition of a plan, or nil.
func SwapSpec(specs []PartitionSpec) *PartitionSpec {
	for i := range specs {
		if specs[i].Role == RoleSwap {
			return &specs[i]
		}
	}

	return nil
}

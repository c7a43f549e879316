package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gautam9981/VoidInstall/core/disk"
)

func TestParseSizeMiB(t *testing.T) {
	cases := []struct {
		input    string
		expected int
	}{
		{"4G", 4096},
		{"4GB", 4096},
		{"4GiB", 4096},
		{"512M", 512},
		{"512MiB", 512},
		{"2048", 2048},
		{" 8g ", 8192},
	}

	for _, c := range cases {
		size, err := ParseSizeMiB(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.expected, size, c.input)
	}
}

func TestParseSizeMiBInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "-4G", "0", "4T"} {
		_, err := ParseSizeMiB(input)
		assert.Error(t, err, input)
	}
}

func TestPlanPartitionsUEFI(t *testing.T) {
	specs, err := PlanPartitions("/dev/sda", true, true, 4096, false)
	require.NoError(t, err)
	require.Len(t, specs, 3)

	assert.Equal(t, RoleEFI, specs[0].Role)
	assert.Equal(t, disk.PartitionFs(disk.FAT32), specs[0].Filesystem)
	assert.Equal(t, 1, specs[0].Start)
	assert.Equal(t, 513, specs[0].End)
	assert.Equal(t, "esp", specs[0].Flag)
	assert.Equal(t, "/dev/sda1", specs[0].Path)

	assert.Equal(t, RoleSwap, specs[1].Role)
	assert.Equal(t, 513, specs[1].Start)
	assert.Equal(t, 4609, specs[1].End)
	assert.Equal(t, "/dev/sda2", specs[1].Path)

	assert.Equal(t, RoleRoot, specs[2].Role)
	assert.Equal(t, disk.PartitionFs(disk.EXT4), specs[2].Filesystem)
	assert.Equal(t, 4609, specs[2].Start)
	assert.Equal(t, -1, specs[2].End)
	assert.Equal(t, "/dev/sda3", specs[2].Path)
}

func TestPlanPartitionsBIOS(t *testing.T) {
	specs, err := PlanPartitions("/dev/sda", false, false, 0, false)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, RoleBiosBoot, specs[0].Role)
	assert.Equal(t, "bios_grub", specs[0].Flag)
	assert.Equal(t, 1, specs[0].Start)
	assert.Equal(t, 2, specs[0].End)

	assert.Equal(t, RoleRoot, specs[1].Role)
	assert.Equal(t, 2, specs[1].Start)
	assert.Equal(t, -1, specs[1].End)
}

func TestPlanPartitionsEncrypted(t *testing.T) {
	// Swap moves inside the volume group, so no raw swap partition.
	specs, err := PlanPartitions("/dev/nvme0n1", true, true, 4096, true)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, RoleEFI, specs[0].Role)
	assert.Equal(t, "/dev/nvme0n1p1", specs[0].Path)

	root := RootSpec(specs)
	require.NotNil(t, root)
	assert.Equal(t, disk.PartitionFs(""), root.Filesystem)
	assert.Equal(t, "/dev/nvme0n1p2", root.Path)

	assert.Nil(t, SwapSpec(specs))
}

func TestPlanPartitionsInvalidSwapSize(t *testing.T) {
	_, err := PlanPartitions("/dev/sda", true, true, 0, false)
	assert.Error(t, err)
}

func TestRootAndSwapSpec(t *testing.T) {
	specs, err := PlanPartitions("/dev/vda", false, true, 2048, false)
	require.NoError(t, err)

	root := RootSpec(specs)
	require.NotNil(t, root)
	assert.Equal(t, "void", root.Name)

	swap := SwapSpec(specs)
	require.NotNil(t, swap)
	assert.Equal(t, disk.PartitionFs(disk.LINUX_SWAP), swap.Filesystem)
}

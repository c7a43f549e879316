package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeparateDiskPart(t *testing.T) {
	cases := []struct {
		path, disk, part string
	}{
		{"/dev/sda1", "/dev/sda", "1"},
		{"/dev/sdb12", "/dev/sdb", "12"},
		{"/dev/nvme0n1p3", "/dev/nvme0n1", "3"},
		{"/dev/mmcblk0p2", "/dev/mmcblk0", "2"},
		{"/dev/loop0p1", "/dev/loop0", "1"},
		{"/dev/sda", "/dev/sda", ""},
	}

	for _, c := range cases {
		disk, part := SeparateDiskPart(c.path)
		assert.Equal(t, c.disk, disk, c.path)
		assert.Equal(t, c.part, part, c.path)
	}
}

func TestPartitionPath(t *testing.T) {
	assert.Equal(t, "/dev/sda1", PartitionPath("/dev/sda", 1))
	assert.Equal(t, "/dev/sdb3", PartitionPath("/dev/sdb", 3))
	assert.Equal(t, "/dev/nvme0n1p1", PartitionPath("/dev/nvme0n1", 1))
	assert.Equal(t, "/dev/mmcblk0p2", PartitionPath("/dev/mmcblk0", 2))
	assert.Equal(t, "/dev/loop0p1", PartitionPath("/dev/loop0", 1))
	assert.Equal(t, "", PartitionPath("", 1))
}

func TestOutputCommand(t *testing.T) {
	out, err := OutputCommand("echo hello")
	assert.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRunCommandStdinFeedsInput(t *testing.T) {
	assert.NoError(t, RunCommandStdin("grep -q hello", "hello world\n"))
	assert.Error(t, RunCommandStdin("grep -q hello", "goodbye\n"))
}

func TestRunCommandStdinKeepsQuotesIntact(t *testing.T) {
	// Single quotes in the input must survive, they would terminate the
	// string if spliced into the command line
	assert.NoError(t, RunCommandStdin(`grep -q "it's"`, "it's fine\n"))
}

func TestRunCommandFailureCarriesStderr(t *testing.T) {
	err := RunCommand("echo oops >&2; exit 1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "oops")
}

package luks

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Gautam9981/VoidInstall/core/util"
)

// Partition is the subset of a disk partition LUKS operations need.
type Partition interface {
	GetUUID() (string, error)
	GetPath() string
}

func IsLuks(part Partition) (bool, error) {
	isLuksCmd := "cryptsetup isLuks %s"

	cmd := exec.Command("sh", "-c", fmt.Sprintf(isLuksCmd, part.GetPath()))
	err := cmd.Run()
	if err != nil {
		// cryptsetup returns exit status 1 if the partition isn't LUKS-encrypted
		if exitError, ok := err.(*exec.ExitError); ok {
			if exitError.ExitCode() == 1 {
				return false, nil
			}
			return false, fmt.Errorf("failed to check if %s is LUKS-encrypted: %s", part.GetPath(), string(exitError.Stderr))
		}
		return false, fmt.Errorf("failed to check if %s is LUKS-encrypted: %s", part.GetPath(), err)
	}

	return true, nil
}

// IsPathLuks behaves like IsLuks but takes a raw device path.
func IsPathLuks(path string) (bool, error) {
	return IsLuks(&pathPartition{path})
}

type pathPartition struct {
	path string
}

func (p *pathPartition) GetPath() string { return p.path }

func (p *pathPartition) GetUUID() (string, error) {
	return util.OutputCommand(fmt.Sprintf("lsblk -d -n -o UUID %s", p.path))
}

// LuksOpen opens a LUKS-encrypted partition, mapping the unencrypted
// filesystem to /dev/mapper/<mapping>.
//
// If password is an empty string, cryptsetup will prompt the password when
// executed.
//
// WARNING: This function will return an error if mapping already exists, use
// LuksTryOpen() to open a device while ignoring existing mappings
func LuksOpen(part Partition, mapping, password string) error {
	luksOpenCmd := fmt.Sprintf("cryptsetup open %s %s", part.GetPath(), mapping)

	// The passphrase goes through stdin so it never reaches the shell or
	// the command log
	var err error
	if password != "" {
		err = util.RunCommandStdin(luksOpenCmd, password+"\n")
	} else {
		err = util.RunCommand(luksOpenCmd)
	}
	if err != nil {
		return fmt.Errorf("failed to open LUKS-encrypted partition: %s", err)
	}

	return nil
}

// LuksTryOpen opens a LUKS-encrypted partition, failing silently if mapping
// already exists.
//
// This is useful for when we pass a mapping like "luks-<uuid>", which we are
// certain is unique and the operation failing means that the device is
// already open. The function still returns other errors, however.
func LuksTryOpen(part Partition, mapping, password string) error {
	_, err := os.Stat(fmt.Sprintf("/dev/mapper/%s", mapping))
	if err == nil { // Mapping exists, do nothing
		return nil
	} else if os.IsNotExist(err) {
		return LuksOpen(part, mapping, password)
	} else {
		return fmt.Errorf("failed to try-open LUKS-encrypted partition: %s", err)
	}
}

func LuksClose(mapping string) error {
	luksCloseCmd := "cryptsetup close %s"

	err := util.RunCommand(fmt.Sprintf(luksCloseCmd, mapping))
	if err != nil {
		return fmt.Errorf("failed to close LUKS-encrypted partition: %s", err)
	}

	return nil
}

func LuksFormat(part Partition, password string) error {
	luksFormatCmd := fmt.Sprintf("cryptsetup -q luksFormat %s", part.GetPath())

	err := util.RunCommandStdin(luksFormatCmd, password+"\n")
	if err != nil {
		return fmt.Errorf("failed to create LUKS-encrypted partition: %s", err)
	}

	return nil
}

// MapperPath returns the /dev/mapper path for the given mapping name.
func MapperPath(mapping string) string {
	return fmt.Sprintf("/dev/mapper/%s", mapping)
}

// CrypttabEntry builds a single crypttab line's fields for a LUKS device.
func CrypttabEntry(mapping, uuid string) []string {
	return []string{
		mapping,
		fmt.Sprintf("UUID=%s", uuid),
		"none",
		"luks,discard",
	}
}

func GenCrypttab(targetRoot string, entries [][]string) error {
	file, err := os.Create(fmt.Sprintf("%s/etc/crypttab", targetRoot))
	if err != nil {
		return err
	}

	defer file.Close()

	for _, entry := range entries {
		fmtEntry := strings.Join(entry, " ")
		_, err := file.Write(append([]byte(fmtEntry), '\n'))
		if err != nil {
			return err
		}
	}

	return nil
}

// GetLUKSFilesystemByPath returns the filesystem type of the decrypted
// device backing a LUKS partition.
func GetLUKSFilesystemByPath(path string) (string, error) {
	lsblkCmd := "lsblk -d -n -o FSTYPE %s"

	output, err := util.OutputCommand(fmt.Sprintf(lsblkCmd, path))
	if err != nil {
		return "", fmt.Errorf("failed to get encrypted partition FSTYPE: %s", err)
	}

	return output, nil
}

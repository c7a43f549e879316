package util

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// RunCommand executes a command in a subshell
//
// envVars are environment variables in the form MYVAR=myvalue that will be passed to the command
func RunCommand(command string, envVars ...string) error {
	logrus.Infof("running: %s", command)

	stderr := new(bytes.Buffer)

	cmd := exec.Command("sh", "-c", command)
	cmd.Env = append(os.Environ(), envVars...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err != nil {
		if stderr.Len() > 0 {
			return errors.New(strings.TrimSpace(stderr.String()))
		}
		return err
	}

	return nil
}

// RunCommandStdin executes a command in a subshell, feeding input through
// stdin. The input never appears in the command line, so it is not echoed by
// the command tracing and cannot be mangled by shell quoting. Callers use
// this for passphrases and passwords.
func RunCommandStdin(command, input string) error {
	logrus.Infof("running: %s", command)

	stderr := new(bytes.Buffer)

	cmd := exec.Command("sh", "-c", command)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = os.Stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err != nil {
		if stderr.Len() > 0 {
			return errors.New(strings.TrimSpace(stderr.String()))
		}
		return err
	}

	return nil
}

// RunInteractive executes a command in a subshell with the terminal attached.
// Used for commands that prompt the user themselves (cfdisk, passwd).
func RunInteractive(command string) error {
	logrus.Infof("running interactively: %s", command)

	cmd := exec.Command("sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// OutputCommand executes a command in a subshell and returns its output
func OutputCommand(command string) (string, error) {
	logrus.Debugf("running: %s", command)

	cmd := exec.Command("sh", "-c", command)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return strings.TrimSpace(string(out)), errors.New(strings.TrimSpace(string(exitErr.Stderr)))
		}
		return strings.TrimSpace(string(out)), err
	}

	return strings.TrimSpace(string(out)), err
}

// RunInChroot executes a command in a subshell while chrooted into the specified root
func RunInChroot(root, command string) error {
	logrus.Infof("running in %s: %s", root, command)

	cmd := exec.Command("chroot", root, "sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return errors.New(strings.TrimSpace(string(exitErr.Stderr)))
		}
		return err
	}

	return nil
}

var (
	pSepPartExpr  = regexp.MustCompile("^(/dev/.+[0-9])p([0-9]+)$")
	plainPartExpr = regexp.MustCompile("^(/dev/.+[a-z])([0-9]+)$")
)

// RunInChrootStdin executes a command while chrooted into the specified
// root, feeding input through stdin instead of the command line.
func RunInChrootStdin(root, command, input string) error {
	logrus.Infof("running in %s: %s", root, command)

	cmd := exec.Command("chroot", root, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// SeparateDiskPart receives a path (e.g. /dev/sda1) and separates it into
// the device root and partition number. Disks whose name ends in a digit
// (nvme0n1, mmcblk0, loop0) carry a "p" separator before the partition
// number.
func SeparateDiskPart(path string) (string, string) {
	if m := pSepPartExpr.FindStringSubmatch(path); m != nil {
		return m[1], m[2]
	}
	if m := plainPartExpr.FindStringSubmatch(path); m != nil {
		return m[1], m[2]
	}

	return path, ""
}

// PartitionPath returns the device path for partition number partNum of disk.
// Disks whose name ends in a digit (nvme0n1, mmcblk0, loop0) take a "p"
// separator before the partition number.
func PartitionPath(disk string, partNum int) string {
	if disk == "" {
		return ""
	}
	last := disk[len(disk)-1]
	if last >= '0' && last <= '9' {
		return disk + "p" + strconv.Itoa(partNum)
	}
	return disk + strconv.Itoa(partNum)
}

// Package lvm wraps the lvm2 command-line tools. VoidInstall uses it when
// the user places the root filesystem on a volume group, typically on top of
// an opened LUKS mapping.
package lvm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Gautam9981/VoidInstall/core/util"
)

func run(command string, args ...interface{}) (string, error) {
	return util.OutputCommand(fmt.Sprintf(command, args...))
}

// Pvcreate initializes a partition or mapper device as a physical volume.
func Pvcreate(device string) error {
	_, err := run("pvcreate -y %s", device)
	if err != nil {
		return fmt.Errorf("pvcreate: %s", err)
	}

	return nil
}

// Pvs lists physical volumes, optionally filtered to the given devices.
func Pvs(filter ...string) ([]Pv, error) {
	output, err := run("pvs --noheadings --units m --nosuffix --separator , %s", strings.Join(filter, " "))
	if err != nil {
		return nil, fmt.Errorf("pvs: %s", err)
	}

	return parsePvs(output)
}

func Pvremove(device string) error {
	_, err := run("pvremove -y %s", device)
	if err != nil {
		return fmt.Errorf("pvremove: %s", err)
	}

	return nil
}

// Vgcreate creates a volume group from one or more physical volumes.
func Vgcreate(name string, pvs ...string) error {
	_, err := run("vgcreate -y %s %s", name, strings.Join(pvs, " "))
	if err != nil {
		return fmt.Errorf("vgcreate: %s", err)
	}

	return nil
}

// Vgs lists volume groups, optionally filtered by name.
func Vgs(filter ...string) ([]Vg, error) {
	output, err := run("vgs --noheadings --units m --nosuffix --separator , -o vg_name,pv_count,lv_count,vg_attr,vg_size,vg_free %s", strings.Join(filter, " "))
	if err != nil {
		return nil, fmt.Errorf("vgs: %s", err)
	}

	return parseVgs(output)
}

func Vgremove(name string) error {
	_, err := run("vgremove -y %s", name)
	if err != nil {
		return fmt.Errorf("vgremove: %s", err)
	}

	return nil
}

// Lvcreate creates a logical volume of sizeMiB mebibytes in the given volume
// group. A size of -1 uses all remaining free extents.
func Lvcreate(name, vg string, sizeMiB float64) error {
	var err error
	if sizeMiB < 0 {
		_, err = run("lvcreate -y -l 100%%FREE -n %s %s", name, vg)
	} else {
		_, err = run("lvcreate -y -L %.2fm -n %s %s", sizeMiB, name, vg)
	}
	if err != nil {
		return fmt.Errorf("lvcreate: %s", err)
	}

	return nil
}

// Lvs lists logical volumes, optionally filtered to a volume group.
func Lvs(filter ...string) ([]Lv, error) {
	output, err := run("lvs --noheadings --units m --nosuffix --separator , -o lv_name,vg_name,lv_size %s", strings.Join(filter, " "))
	if err != nil {
		return nil, fmt.Errorf("lvs: %s", err)
	}

	return parseLvs(output)
}

func Lvremove(name string) error {
	_, err := run("lvremove -y %s", name)
	if err != nil {
		return fmt.Errorf("lvremove: %s", err)
	}

	return nil
}

func parseFields(output string) [][]string {
	rows := [][]string{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, ","))
	}

	return rows
}

func parseFloat(field string) (float64, error) {
	val, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("could not convert %s to float", field)
	}

	return val, nil
}

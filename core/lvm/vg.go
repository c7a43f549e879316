package lvm

import (
	"fmt"
	"strconv"
)

type Vg struct {
	Name             string
	PvCount, LvCount int
	Attr             int
	Size, Free       float64
}

// VG attributes
const (
	VG_ATTR_WRITABLE  = 1 << iota
	VG_ATTR_READONLY  = 1 << iota
	VG_ATTR_RESIZABLE = 1 << iota
	VG_ATTR_EXPORTED  = 1 << iota
	VG_ATTR_PARTIAL   = 1 << iota
	VG_ATTR_CLUSTERED = 1 << iota
	VG_ATTR_SHARED    = 1 << iota
)

func parseVgAttrs(attrStr string) (int, error) {
	if len(attrStr) < 6 {
		return -1, fmt.Errorf("invalid vg_attr: %s", attrStr)
	}

	attrVal := 0
	switch attrStr[5] {
	case 'c':
		attrVal += VG_ATTR_CLUSTERED
	case 's':
		attrVal += VG_ATTR_SHARED
	case '-':
	default:
		return -1, fmt.Errorf("invalid vg_attr: %s", attrStr)
	}
	if attrStr[3] != '-' {
		attrVal += VG_ATTR_PARTIAL
	}
	if attrStr[2] != '-' {
		attrVal += VG_ATTR_EXPORTED
	}
	if attrStr[1] != '-' {
		attrVal += VG_ATTR_RESIZABLE
	}
	switch attrStr[0] {
	case 'w':
		attrVal += VG_ATTR_WRITABLE
	case 'r':
		attrVal += VG_ATTR_READONLY
	default:
		return -1, fmt.Errorf("invalid vg_attr: %s", attrStr)
	}

	return attrVal, nil
}

func parseVgs(output string) ([]Vg, error) {
	vgList := []Vg{}
	for _, vals := range parseFields(output) {
		if len(vals) < 6 {
			return nil, fmt.Errorf("vgs: unexpected row: %v", vals)
		}

		pvCount, err := strconv.Atoi(vals[1])
		if err != nil {
			return nil, fmt.Errorf("vgs: could not convert %s to int", vals[1])
		}
		lvCount, err := strconv.Atoi(vals[2])
		if err != nil {
			return nil, fmt.Errorf("vgs: could not convert %s to int", vals[2])
		}
		attrVal, err := parseVgAttrs(vals[3])
		if err != nil {
			return nil, fmt.Errorf("vgs: %s", err)
		}
		size, err := parseFloat(vals[4])
		if err != nil {
			return nil, fmt.Errorf("vgs: %s", err)
		}
		free, err := parseFloat(vals[5])
		if err != nil {
			return nil, fmt.Errorf("vgs: %s", err)
		}

		vgList = append(vgList, Vg{
			Name:    vals[0],
			PvCount: pvCount,
			LvCount: lvCount,
			Attr:    attrVal,
			Size:    size,
			Free:    free,
		})
	}

	return vgList, nil
}

func FindVg(name string) (Vg, error) {
	vgs, err := Vgs(name)
	if err != nil {
		return Vg{}, fmt.Errorf("findVg: %s", err)
	}
	if len(vgs) == 0 {
		return Vg{}, fmt.Errorf("findVg: no VG named %s", name)
	}

	return vgs[0], nil
}

func (v *Vg) IsWritable() bool {
	return v.Attr&VG_ATTR_WRITABLE > 0
}

func (v *Vg) IsExported() bool {
	return v.Attr&VG_ATTR_EXPORTED > 0
}

func (v *Vg) IsPartial() bool {
	return v.Attr&VG_ATTR_PARTIAL > 0
}

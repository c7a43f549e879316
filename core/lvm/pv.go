package lvm

import "fmt"

type Pv struct {
	Path, VgName, PvFmt string
	Attr                int
	Size, Free          float64
}

// PV attributes
const (
	PV_ATTR_MISSING     = 1 << iota
	PV_ATTR_EXPORTED    = 1 << iota
	PV_ATTR_DUPLICATE   = 1 << iota
	PV_ATTR_ALLOCATABLE = 1 << iota
	PV_ATTR_USED        = 1 << iota
)

func parsePvAttrs(attrStr string) (int, error) {
	if len(attrStr) < 3 {
		return -1, fmt.Errorf("invalid pv_attr: %s", attrStr)
	}

	attrVal := 0
	if attrStr[2] != '-' {
		attrVal += PV_ATTR_MISSING
	}
	if attrStr[1] != '-' {
		attrVal += PV_ATTR_EXPORTED
	}
	switch attrStr[0] {
	case 'd':
		attrVal += PV_ATTR_DUPLICATE
	case 'a':
		attrVal += PV_ATTR_ALLOCATABLE
	case 'u':
		attrVal += PV_ATTR_USED
	case '-':
	default:
		return -1, fmt.Errorf("invalid pv_attr: %s", attrStr)
	}

	return attrVal, nil
}

func parsePvs(output string) ([]Pv, error) {
	pvList := []Pv{}
	for _, vals := range parseFields(output) {
		if len(vals) < 6 {
			return nil, fmt.Errorf("pvs: unexpected row: %v", vals)
		}

		attrVal, err := parsePvAttrs(vals[3])
		if err != nil {
			return nil, fmt.Errorf("pvs: %s", err)
		}
		size, err := parseFloat(vals[4])
		if err != nil {
			return nil, fmt.Errorf("pvs: %s", err)
		}
		free, err := parseFloat(vals[5])
		if err != nil {
			return nil, fmt.Errorf("pvs: %s", err)
		}

		pvList = append(pvList, Pv{
			Path:   vals[0],
			VgName: vals[1],
			PvFmt:  vals[2],
			Attr:   attrVal,
			Size:   size,
			Free:   free,
		})
	}

	return pvList, nil
}

func (p *Pv) Remove() error {
	return Pvremove(p.Path)
}

func (p *Pv) IsMissing() bool {
	return p.Attr&PV_ATTR_MISSING > 0
}

func (p *Pv) IsExported() bool {
	return p.Attr&PV_ATTR_EXPORTED > 0
}

func (p *Pv) IsDuplicate() bool {
	return p.Attr&PV_ATTR_DUPLICATE > 0
}

func (p *Pv) IsAllocatable() bool {
	return p.Attr&PV_ATTR_ALLOCATABLE > 0
}

func (p *Pv) IsUsed() bool {
	return p.Attr&PV_ATTR_USED > 0
}

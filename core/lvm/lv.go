package lvm

import "fmt"

type Lv struct {
	Name, VgName string
	Size         float64
}

// DevicePath returns the device node for the logical volume.
func (l *Lv) DevicePath() string {
	return fmt.Sprintf("/dev/%s/%s", l.VgName, l.Name)
}

func parseLvs(output string) ([]Lv, error) {
	lvList := []Lv{}
	for _, vals := range parseFields(output) {
		if len(vals) < 3 {
			return nil, fmt.Errorf("lvs: unexpected row: %v", vals)
		}

		size, err := parseFloat(vals[2])
		if err != nil {
			return nil, fmt.Errorf("lvs: %s", err)
		}

		lvList = append(lvList, Lv{
			Name:   vals[0],
			VgName: vals[1],
			Size:   size,
		})
	}

	return lvList, nil
}

func (l *Lv) Remove() error {
	return Lvremove(fmt.Sprintf("%s/%s", l.VgName, l.Name))
}

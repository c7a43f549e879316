package lvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePvAttrs(t *testing.T) {
	attr, err := parsePvAttrs("a--")
	require.NoError(t, err)
	assert.True(t, (&Pv{Attr: attr}).IsAllocatable())
	assert.False(t, (&Pv{Attr: attr}).IsMissing())

	attr, err = parsePvAttrs("u-m")
	require.NoError(t, err)
	assert.True(t, (&Pv{Attr: attr}).IsUsed())
	assert.True(t, (&Pv{Attr: attr}).IsMissing())

	_, err = parsePvAttrs("z--")
	assert.Error(t, err)
}

func TestParsePvs(t *testing.T) {
	output := "  /dev/sda3,void,lvm2,a--,475000.00,0.00\n  /dev/mapper/luks-root,void,lvm2,u--,51200.00,1024.00\n"

	pvs, err := parsePvs(output)
	require.NoError(t, err)
	require.Len(t, pvs, 2)

	assert.Equal(t, "/dev/sda3", pvs[0].Path)
	assert.Equal(t, "void", pvs[0].VgName)
	assert.Equal(t, "lvm2", pvs[0].PvFmt)
	assert.True(t, pvs[0].IsAllocatable())
	assert.InDelta(t, 475000.0, pvs[0].Size, 0.01)

	assert.True(t, pvs[1].IsUsed())
	assert.InDelta(t, 1024.0, pvs[1].Free, 0.01)
}

func TestParseVgAttrs(t *testing.T) {
	attr, err := parseVgAttrs("wz--n-")
	require.NoError(t, err)
	vg := Vg{Attr: attr}
	assert.True(t, vg.IsWritable())
	assert.False(t, vg.IsExported())
	assert.False(t, vg.IsPartial())

	_, err = parseVgAttrs("x")
	assert.Error(t, err)
}

func TestParseVgs(t *testing.T) {
	output := "  void,1,2,wz--n-,51196.00,0.00\n"

	vgs, err := parseVgs(output)
	require.NoError(t, err)
	require.Len(t, vgs, 1)

	assert.Equal(t, "void", vgs[0].Name)
	assert.Equal(t, 1, vgs[0].PvCount)
	assert.Equal(t, 2, vgs[0].LvCount)
	assert.True(t, vgs[0].IsWritable())
}

func TestParseLvs(t *testing.T) {
	output := "  root,void,47100.00\n  swap,void,4096.00\n"

	lvs, err := parseLvs(output)
	require.NoError(t, err)
	require.Len(t, lvs, 2)

	assert.Equal(t, "/dev/void/root", lvs[0].DevicePath())
	assert.Equal(t, "/dev/void/swap", lvs[1].DevicePath())
	assert.InDelta(t, 4096.0, lvs[1].Size, 0.01)
}

func TestParseFieldsSkipsBlankLines(t *testing.T) {
	rows := parseFields("\n  a,b\n\n  c,d\n")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "b"}, rows[0])
}

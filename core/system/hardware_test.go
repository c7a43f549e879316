package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapArch(t *testing.T) {
	arch, err := MapArch("x86_64")
	require.NoError(t, err)
	assert.Equal(t, ArchX86_64, arch)

	arch, err = MapArch("aarch64")
	require.NoError(t, err)
	assert.Equal(t, ArchAarch64, arch)

	arch, err = MapArch("armv7l")
	require.NoError(t, err)
	assert.Equal(t, ArchArmv7l, arch)

	arch, err = MapArch("armv6l")
	require.NoError(t, err)
	assert.Equal(t, ArchArmv7l, arch)

	_, err = MapArch("riscv64")
	assert.Error(t, err)
}

func TestIsVirtualized(t *testing.T) {
	cpuinfoVM := "flags\t\t: fpu vme de pse tsc msr hypervisor lahf_lm"
	cpuinfoBare := "flags\t\t: fpu vme de pse tsc msr lahf_lm"

	assert.True(t, IsVirtualized(cpuinfoVM, ""))
	assert.False(t, IsVirtualized(cpuinfoBare, ""))

	assert.True(t, IsVirtualized(cpuinfoBare, "QEMU\n"))
	assert.True(t, IsVirtualized(cpuinfoBare, "VMware, Inc.\n"))
	assert.True(t, IsVirtualized(cpuinfoBare, "Microsoft Corporation\n"))
	assert.False(t, IsVirtualized(cpuinfoBare, "Dell Inc.\n"))
}

func TestParseGraphicsAdapters(t *testing.T) {
	lspci := `00:02.0 VGA compatible controller [0300]: Intel Corporation UHD Graphics 620 [8086:5917]
	Subsystem: Dell Device [1028:089e]
01:00.0 3D controller [0302]: NVIDIA Corporation GP108M [GeForce MX150] [10de:1d10]
	Kernel driver in use: nouveau`

	adapters := ParseGraphicsAdapters(lspci)
	assert.ElementsMatch(t, []string{GraphicsNvidia, GraphicsIntel}, adapters)
}

func TestParseGraphicsAdaptersAMD(t *testing.T) {
	lspci := "07:00.0 VGA compatible controller [0300]: Advanced Micro Devices, Inc. [AMD/ATI] Navi 23 [1002:73ff]"

	adapters := ParseGraphicsAdapters(lspci)
	assert.Equal(t, []string{GraphicsAMD}, adapters)
}

func TestParseGraphicsAdaptersIgnoresOtherDevices(t *testing.T) {
	lspci := "00:1f.6 Ethernet controller [0200]: Intel Corporation Ethernet Connection [8086:15d7]"

	adapters := ParseGraphicsAdapters(lspci)
	assert.Empty(t, adapters)
}

func TestGraphicsPackagesDeduplicates(t *testing.T) {
	pkgs := GraphicsPackages([]string{GraphicsAMD, GraphicsIntel})

	// mesa-dri appears in both sets but must be installed once
	count := 0
	for _, pkg := range pkgs {
		if pkg == "mesa-dri" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Contains(t, pkgs, "mesa-vulkan-radeon")
	assert.Contains(t, pkgs, "mesa-vulkan-intel")
}

func TestGraphicsPackagesNvidia(t *testing.T) {
	assert.Equal(t, []string{"nvidia"}, GraphicsPackages([]string{GraphicsNvidia}))
	assert.Empty(t, GraphicsPackages(nil))
}

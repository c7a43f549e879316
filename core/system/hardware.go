package system

import (
	"fmt"
	"os"
	"strings"

	"github.com/Gautam9981/VoidInstall/core/util"
)

// Architectures with official Void Linux repositories that the installer
// knows how to handle.
const (
	ArchX86_64  = "x86_64"
	ArchAarch64 = "aarch64"
	ArchArmv7l  = "armv7l"
)

// MapArch translates a kernel machine string (uname -m) into a Void
// repository architecture.
func MapArch(machine string) (string, error) {
	switch {
	case machine == "x86_64":
		return ArchX86_64, nil
	case machine == "aarch64":
		return ArchAarch64, nil
	case strings.Contains(machine, "arm"):
		return ArchArmv7l, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", machine)
	}
}

// DetectArch returns the Void repository architecture of the running system.
func DetectArch() (string, error) {
	machine, err := util.OutputCommand("uname -m")
	if err != nil {
		return "", fmt.Errorf("failed to detect architecture: %s", err)
	}

	return MapArch(machine)
}

// DetectUEFI reports whether the system booted in UEFI mode.
func DetectUEFI() bool {
	_, err := os.Stat("/sys/firmware/efi")
	return err == nil
}

var dmiVendors = []string{"qemu", "virtualbox", "vmware", "bochs", "hyper-v", "microsoft"}

// IsVirtualized decides from /proc/cpuinfo contents and the DMI system
// vendor string whether we are running inside a virtual machine.
func IsVirtualized(cpuinfo, sysVendor string) bool {
	if strings.Contains(strings.ToLower(cpuinfo), "hypervisor") {
		return true
	}

	vendor := strings.ToLower(sysVendor)
	for _, v := range dmiVendors {
		if strings.Contains(vendor, v) {
			return true
		}
	}

	return false
}

// DetectVM reports whether the installer is running in a virtual machine.
func DetectVM() bool {
	cpuinfo, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		cpuinfo = nil
	}

	sysVendor, err := os.ReadFile("/sys/class/dmi/id/sys_vendor")
	if err != nil {
		sysVendor = nil
	}

	return IsVirtualized(string(cpuinfo), string(sysVendor))
}

// Graphics adapter vendors recognized by the driver selection logic.
const (
	GraphicsNvidia = "nvidia"
	GraphicsAMD    = "amd"
	GraphicsIntel  = "intel"
)

// ParseGraphicsAdapters extracts the display adapter vendors present in
// `lspci -nnk` output.
func ParseGraphicsAdapters(lspciOutput string) []string {
	out := strings.ToLower(lspciOutput)

	relevant := []string{}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "vga") || strings.Contains(line, "3d") || strings.Contains(line, "display") {
			relevant = append(relevant, line)
		}
	}
	joined := strings.Join(relevant, "\n")

	found := []string{}
	if strings.Contains(joined, "nvidia") {
		found = append(found, GraphicsNvidia)
	}
	if strings.Contains(joined, "radeon") || strings.Contains(joined, "advanced micro devices") || strings.Contains(joined, " amd") {
		found = append(found, GraphicsAMD)
	}
	if strings.Contains(joined, "intel") {
		found = append(found, GraphicsIntel)
	}

	return found
}

// DetectGraphicsAdapters probes the PCI bus for display adapters.
func DetectGraphicsAdapters() ([]string, error) {
	output, err := util.OutputCommand("lspci -nnk")
	if err != nil {
		return nil, fmt.Errorf("failed to probe PCI devices: %s", err)
	}

	return ParseGraphicsAdapters(output), nil
}

// GraphicsPackages maps detected adapters to the driver packages to install,
// deduplicated while preserving order.
func GraphicsPackages(adapters []string) []string {
	pkgs := []string{}
	for _, adapter := range adapters {
		switch adapter {
		case GraphicsNvidia:
			pkgs = append(pkgs, "nvidia")
		case GraphicsAMD:
			pkgs = append(pkgs, "mesa-dri", "mesa-vulkan-radeon", "mesa-vaapi", "mesa-vdpau")
		case GraphicsIntel:
			pkgs = append(pkgs, "mesa-dri", "mesa-vulkan-intel", "intel-media-driver")
		}
	}

	seen := map[string]bool{}
	deduped := []string{}
	for _, pkg := range pkgs {
		if !seen[pkg] {
			seen[pkg] = true
			deduped = append(deduped, pkg)
		}
	}

	return deduped
}

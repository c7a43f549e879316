package installer

import (
	"os"
	"sort"
	"strings"

	"github.com/Gautam9981/VoidInstall/core/disk"
	"github.com/Gautam9981/VoidInstall/core/lvm"
	"github.com/sirupsen/logrus"
)

// MountsUnder extracts from /proc/mounts content the mountpoints at or below
// root, deepest paths first so they can be unmounted in order.
func MountsUnder(procMounts, root string) []string {
	mounts := []string{}
	for _, line := range strings.Split(procMounts, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		target := fields[1]
		if target == root || strings.HasPrefix(target, root+"/") {
			mounts = append(mounts, target)
		}
	}

	sort.SliceStable(mounts, func(i, j int) bool {
		return strings.Count(mounts[i], "/") > strings.Count(mounts[j], "/")
	})

	return mounts
}

// tearDownVolumeGroup removes a volume group left behind by a previous
// attempt, so wiping the disk underneath starts from a clean slate. Exported,
// partial or read-only groups are left alone. Best effort, like the rest of
// the cleanup.
func tearDownVolumeGroup(name string) {
	vg, err := lvm.FindVg(name)
	if err != nil {
		return
	}
	if vg.IsExported() || vg.IsPartial() || !vg.IsWritable() {
		logrus.Warnf("volume group %s is exported, partial or read-only, leaving it in place", name)
		return
	}

	logrus.Infof("removing stale volume group %s", name)

	var members []lvm.Pv
	if pvs, err := lvm.Pvs(); err == nil {
		for _, pv := range pvs {
			if pv.VgName == name {
				members = append(members, pv)
			}
		}
	}

	if lvs, err := lvm.Lvs(name); err == nil {
		for i := range lvs {
			if err := lvs[i].Remove(); err != nil {
				logrus.Debugf("could not remove logical volume %s: %s", lvs[i].Name, err)
			}
		}
	}

	if err := lvm.Vgremove(name); err != nil {
		logrus.Debugf("could not remove volume group %s: %s", name, err)
		return
	}

	for i := range members {
		if err := members[i].Remove(); err != nil {
			logrus.Debugf("could not remove physical volume %s: %s", members[i].Path, err)
		}
	}
}

// unmountAll force-unmounts everything below the target root and disables
// swap on the chosen disk, so partitioning starts from a clean slate. All
// steps are best effort: this also runs as cleanup after failures.
func unmountAll(diskPath, targetRoot string) {
	logrus.Infof("unmounting everything under %s", targetRoot)

	procMounts, err := os.ReadFile("/proc/mounts")
	if err == nil {
		for _, target := range MountsUnder(string(procMounts), targetRoot) {
			if err := disk.UnmountDirectory(target); err != nil {
				logrus.Debugf("could not unmount %s: %s", target, err)
			}
		}
	}

	for _, swapDev := range disk.SwapPartitions(diskPath) {
		if err := disk.Swapoff(swapDev); err != nil {
			logrus.Debugf("could not disable swap on %s: %s", swapDev, err)
		}
	}

	disk.UnmountRecursive(targetRoot)
}

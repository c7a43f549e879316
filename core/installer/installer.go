// Package installer drives the interactive installation flow: it asks the
// questions, applies the partition plan and walks the target system through
// package installation, configuration and bootloader setup.
package installer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Gautam9981/VoidInstall/core/disk"
	"github.com/Gautam9981/VoidInstall/core/disk/luks"
	"github.com/Gautam9981/VoidInstall/core/lvm"
	"github.com/Gautam9981/VoidInstall/core/system"
	"github.com/Gautam9981/VoidInstall/core/util"
	"github.com/sirupsen/logrus"
)

// TargetRoot is where the new system is assembled.
const TargetRoot = "/mnt"

const volumeGroup = "void"

// Installer holds the state of one installation run.
type Installer struct {
	Config   Config
	Prompter *Prompter

	// AssumeYes skips the data-loss confirmation when the run is fully
	// preseeded.
	AssumeYes bool

	targetDisk  *disk.Disk
	mountpoints []disk.Mountpoint
	// rootSource and swapSource are the devices carrying the actual
	// filesystems: a partition, a LUKS mapper or a logical volume.
	rootSource string
	swapSource string
	// luksUUID is the UUID of the raw LUKS partition, set when encrypting.
	luksUUID string
}

func New(cfg Config, prompter *Prompter) *Installer {
	return &Installer{Config: cfg, Prompter: prompter}
}

// Run executes the whole installation sequence. Cleanup unmounts run even
// when a stage fails, so a retry starts fresh.
func (inst *Installer) Run() error {
	Header("=== Void Linux Interactive Installer ===")
	Info("Detected architecture: %s", inst.Config.Arch)
	if inst.Config.UEFI {
		Info("Boot firmware: UEFI")
	} else {
		Info("Boot firmware: legacy BIOS")
	}
	if inst.Config.VM {
		Warn("Virtual machine environment detected. Using safer defaults.")
	}

	if err := inst.checkDependencies(); err != nil {
		return err
	}

	if err := inst.selectDisk(); err != nil {
		return err
	}

	defer inst.Cleanup()
	unmountAll(inst.Config.Disk, TargetRoot)

	if err := inst.partitionAndMount(); err != nil {
		return err
	}

	if err := inst.installBase(); err != nil {
		return err
	}

	if err := inst.installDesktopAndAudio(); err != nil {
		return err
	}

	if err := system.MountChrootDirs(TargetRoot, inst.Config.UEFI); err != nil {
		return err
	}

	if err := inst.installGraphics(); err != nil {
		return err
	}

	if err := inst.configureSystem(); err != nil {
		return err
	}

	if err := inst.writeFilesystemTables(); err != nil {
		return err
	}

	if err := inst.installBootloader(); err != nil {
		return err
	}

	Success("Installation is complete!")
	Info("You can now reboot your system. Don't forget to remove the installation media.")

	return nil
}

// Cleanup unmounts the chroot binds and the target tree.
func (inst *Installer) Cleanup() {
	system.UnmountChrootDirs(TargetRoot)
	unmountAll(inst.Config.Disk, TargetRoot)
}

func (inst *Installer) checkDependencies() error {
	Header("Checking dependencies...")

	missing := system.MissingDependencies()
	if len(missing) == 0 {
		Success("All required dependencies are present.")
		return nil
	}

	Warn("Missing dependencies: %s", strings.Join(missing, " "))
	Info("Attempting to install...")
	if err := system.InstallDependencies(missing); err != nil {
		return err
	}
	Success("Successfully installed missing dependencies.")

	return nil
}

func (inst *Installer) selectDisk() error {
	if inst.Config.Disk == "" {
		disks, err := disk.ListDisks()
		if err != nil {
			return err
		}

		Header("Available disks:")
		for _, d := range disks {
			fmt.Printf("  %-12s %-10s %s\n", d.Name, d.Size, d.Model)
		}

		name := inst.Prompter.AskRequired("Enter the disk to install on (e.g., sda, nvme0n1)")
		if !strings.HasPrefix(name, "/dev/") {
			name = "/dev/" + name
		}
		inst.Config.Disk = name
	}

	if !disk.Exists(inst.Config.Disk) {
		return fmt.Errorf("%s is not a block device", inst.Config.Disk)
	}

	if size, err := disk.SizeBytes(inst.Config.Disk); err == nil {
		if size/(1024*1024) < MinDiskSizeMiB {
			return fmt.Errorf("%s is too small for an installation (%d MiB minimum)", inst.Config.Disk, MinDiskSizeMiB)
		}
	}

	return nil
}

func (inst *Installer) partitionAndMount() error {
	cfg := &inst.Config

	if cfg.PartitionMode == "" {
		mode := inst.Prompter.Ask("Choose partitioning mode [a]uto/[m]anual", "a")
		if strings.HasPrefix(strings.ToLower(mode), "m") {
			cfg.PartitionMode = ModeManual
		} else {
			cfg.PartitionMode = ModeAuto
		}
	}

	if cfg.PartitionMode == ModeManual {
		return inst.manualPartition()
	}

	return inst.autoPartition()
}

func (inst *Installer) autoPartition() error {
	cfg := &inst.Config

	Warn("Auto-partitioning %s will erase all data!", cfg.Disk)
	if !inst.AssumeYes {
		if inst.Prompter.Ask("Type 'YES' to confirm", "") != "YES" {
			return fmt.Errorf("aborted by user")
		}
	}

	if !cfg.Swap {
		cfg.Swap = inst.Prompter.Confirm("Create a swap partition?", false)
		if cfg.Swap && cfg.SwapSize == "" {
			cfg.SwapSize = inst.Prompter.Ask("Enter swap size (e.g., 4G)", "4G")
		}
	}

	swapSizeMiB := 0
	if cfg.Swap {
		var err error
		swapSizeMiB, err = ParseSizeMiB(cfg.SwapSize)
		if err != nil {
			return fmt.Errorf("invalid swap size: %s", err)
		}
	}

	if !cfg.Encrypt {
		cfg.Encrypt = inst.Prompter.Confirm("Encrypt the root filesystem with LUKS?", false)
	}
	if cfg.Encrypt {
		if cfg.LuksPassphrase == "" {
			passphrase, err := inst.Prompter.AskPassword("Enter LUKS passphrase")
			if err != nil {
				return err
			}
			cfg.LuksPassphrase = passphrase
		}
		switch {
		case cfg.Swap && !cfg.UseLvm:
			Info("Swap on an encrypted disk is created inside an LVM volume group.")
		case !cfg.UseLvm:
			cfg.UseLvm = inst.Prompter.Confirm("Use LVM on top of the encrypted volume?", false)
		}
	}
	cfg.NormalizeStorage()

	specs, err := PlanPartitions(cfg.Disk, cfg.UEFI, cfg.Swap, swapSizeMiB, cfg.Encrypt)
	if err != nil {
		return err
	}

	tearDownVolumeGroup(volumeGroup)

	target, err := disk.LocateDisk(cfg.Disk)
	if err != nil {
		return err
	}
	inst.targetDisk = target

	if err := target.Wipe(); err != nil {
		return err
	}
	if err := target.LabelDisk(disk.GPT); err != nil {
		return err
	}

	for _, spec := range specs {
		part, err := target.NewPartition(spec.Name, spec.Filesystem, spec.Start, spec.End)
		if err != nil {
			return err
		}
		if spec.Flag != "" {
			if err := part.SetPartitionFlag(spec.Flag, true); err != nil {
				return err
			}
		}
	}

	if err := target.Reread(); err != nil {
		logrus.Warnf("partprobe failed: %s", err)
	}
	for i := range target.Partitions {
		if err := target.Partitions[i].WaitUntilAvailable(); err != nil {
			return err
		}
	}

	if err := inst.makeFilesystems(specs, swapSizeMiB); err != nil {
		return err
	}

	return inst.mountTarget(specs)
}

// makeFilesystems creates the filesystems of an auto-partitioning plan,
// including the LUKS/LVM stack when requested.
func (inst *Installer) makeFilesystems(specs []PartitionSpec, swapSizeMiB int) error {
	cfg := &inst.Config

	rootSpec := RootSpec(specs)
	if rootSpec == nil {
		return fmt.Errorf("partition plan has no root partition")
	}

	for i := range specs {
		spec := &specs[i]
		if spec.Role == RoleRoot || spec.Role == RoleBiosBoot {
			continue
		}
		part := disk.Partition{Number: i + 1, Path: spec.Path, Filesystem: spec.Filesystem}
		if err := disk.MakeFs(&part); err != nil {
			return err
		}
		if spec.Role == RoleSwap {
			inst.swapSource = spec.Path
		}
	}

	rootDevice := rootSpec.Path
	if cfg.Encrypt {
		rootPart := disk.Partition{Number: len(specs), Path: rootSpec.Path}
		if err := luks.LuksFormat(&rootPart, cfg.LuksPassphrase); err != nil {
			return err
		}

		// lsblk takes a moment to report the new UUID
		uuid := ""
		for i := 0; uuid == "" && i < 100; i++ {
			uuid, _ = rootPart.GetUUID()
			if uuid == "" {
				time.Sleep(50 * time.Millisecond)
			}
		}
		if uuid == "" {
			return fmt.Errorf("failed to read LUKS UUID of %s", rootSpec.Path)
		}
		inst.luksUUID = uuid

		mapping := fmt.Sprintf("luks-%s", uuid)
		if err := luks.LuksTryOpen(&rootPart, mapping, cfg.LuksPassphrase); err != nil {
			return err
		}
		rootDevice = luks.MapperPath(mapping)
	}

	if cfg.UseLvm {
		if err := lvm.Pvcreate(rootDevice); err != nil {
			return err
		}
		if err := lvm.Vgcreate(volumeGroup, rootDevice); err != nil {
			return err
		}

		if cfg.Swap && cfg.Encrypt {
			if err := lvm.Lvcreate("swap", volumeGroup, float64(swapSizeMiB)); err != nil {
				return err
			}
			swapLv := lvm.Lv{Name: "swap", VgName: volumeGroup}
			swapPart := disk.Partition{Path: swapLv.DevicePath(), Filesystem: disk.LINUX_SWAP}
			if err := disk.MakeFs(&swapPart); err != nil {
				return err
			}
			inst.swapSource = swapLv.DevicePath()
		}

		if err := lvm.Lvcreate("root", volumeGroup, -1); err != nil {
			return err
		}
		rootLv := lvm.Lv{Name: "root", VgName: volumeGroup}
		rootDevice = rootLv.DevicePath()
	}

	rootPart := disk.Partition{Path: rootDevice, Filesystem: disk.PartitionFs(cfg.RootFs)}
	if err := disk.MakeFs(&rootPart); err != nil {
		return err
	}
	inst.rootSource = rootDevice

	return nil
}

// mountTarget mounts the plan's filesystems under the target root,
// shallowest mountpoint first.
func (inst *Installer) mountTarget(specs []PartitionSpec) error {
	mountpoints := []disk.Mountpoint{{Partition: inst.rootSource, Target: "/"}}
	if efi := specsByRole(specs, RoleEFI); efi != nil {
		mountpoints = append(mountpoints, disk.Mountpoint{Partition: efi.Path, Target: "/boot/efi"})
	}
	inst.mountpoints = SortMountpointsForInstall(mountpoints)

	for _, mnt := range inst.mountpoints {
		location := filepath.Join(TargetRoot, mnt.Target)
		if err := util.RunCommand(fmt.Sprintf("mount -m %s %s", mnt.Partition, location)); err != nil {
			return fmt.Errorf("failed to mount %s at %s: %s", mnt.Partition, location, err)
		}
	}

	if inst.swapSource != "" {
		if err := disk.Swapon(inst.swapSource); err != nil {
			return err
		}
	}

	Success("Auto-partitioning complete.")
	return nil
}

func specsByRole(specs []PartitionSpec, role string) *PartitionSpec {
	for i := range specs {
		if specs[i].Role == role {
			return &specs[i]
		}
	}

	return nil
}

// SortMountpointsForInstall orders mountpoints for mounting, / first.
func SortMountpointsForInstall(mountpoints []disk.Mountpoint) []disk.Mountpoint {
	return disk.SortMountpoints(mountpoints)
}

func (inst *Installer) manualPartition() error {
	cfg := &inst.Config

	Warn("Manual Partitioning Mode")
	Info("You will now be placed in cfdisk. Please create your desired partitions.")
	Info("A typical setup includes: an EFI partition (if UEFI), a root partition, and optionally swap and home.")
	inst.Prompter.Ask("Press Enter to launch cfdisk...", "")

	if err := util.RunInteractive(fmt.Sprintf("cfdisk %s", cfg.Disk)); err != nil {
		return fmt.Errorf("cfdisk failed: %s", err)
	}

	Header("Available partitions on %s:", cfg.Disk)
	_ = util.RunCommand(fmt.Sprintf("lsblk %s", cfg.Disk))

	rootDev := inst.Prompter.AskRequired("Enter device for root (/) (e.g., /dev/sda2)")
	rootFs := inst.Prompter.Ask("Enter filesystem for root", cfg.RootFs)
	cfg.RootFs = rootFs

	rootPart := disk.Partition{Path: rootDev, Filesystem: disk.PartitionFs(rootFs)}
	if err := disk.MakeFs(&rootPart); err != nil {
		return err
	}
	if err := util.RunCommand(fmt.Sprintf("mount -m %s %s", rootDev, TargetRoot)); err != nil {
		return fmt.Errorf("failed to mount root partition: %s", err)
	}
	inst.rootSource = rootDev
	inst.mountpoints = []disk.Mountpoint{{Partition: rootDev, Target: "/"}}

	if cfg.UEFI {
		efiDev := inst.Prompter.AskRequired("Enter device for EFI partition (e.g., /dev/sda1)")
		efiPart := disk.Partition{Path: efiDev, Filesystem: disk.FAT32}
		if err := disk.MakeFs(&efiPart); err != nil {
			return err
		}
		location := filepath.Join(TargetRoot, "boot/efi")
		if err := util.RunCommand(fmt.Sprintf("mount -m %s %s", efiDev, location)); err != nil {
			return fmt.Errorf("failed to mount EFI partition: %s", err)
		}
		inst.mountpoints = append(inst.mountpoints, disk.Mountpoint{Partition: efiDev, Target: "/boot/efi"})
	}

	if inst.Prompter.Confirm("Do you have a separate /boot partition?", false) {
		bootDev := inst.Prompter.AskRequired("Enter device for /boot (e.g., /dev/sda3)")
		bootFs := inst.Prompter.Ask("Enter filesystem for /boot", "ext4")
		bootPart := disk.Partition{Path: bootDev, Filesystem: disk.PartitionFs(bootFs)}
		if err := disk.MakeFs(&bootPart); err != nil {
			return err
		}
		location := filepath.Join(TargetRoot, "boot")
		if err := util.RunCommand(fmt.Sprintf("mount -m %s %s", bootDev, location)); err != nil {
			return fmt.Errorf("failed to mount /boot partition: %s", err)
		}
		inst.mountpoints = append(inst.mountpoints, disk.Mountpoint{Partition: bootDev, Target: "/boot"})
	}

	if inst.Prompter.Confirm("Do you have a swap partition?", false) {
		swapDev := inst.Prompter.AskRequired("Enter device for swap (e.g., /dev/sda4)")
		swapPart := disk.Partition{Path: swapDev, Filesystem: disk.LINUX_SWAP}
		if err := disk.MakeFs(&swapPart); err != nil {
			return err
		}
		if err := disk.Swapon(swapDev); err != nil {
			return err
		}
		inst.swapSource = swapDev
	}

	return nil
}

func (inst *Installer) installBase() error {
	cfg := &inst.Config
	repoURL := system.RepoURL(cfg.Mirror, cfg.Arch)

	Info("Setting up XBPS repositories for %s...", cfg.Arch)
	if err := system.SetupRepositories(TargetRoot, cfg.Mirror, cfg.Arch); err != nil {
		return err
	}

	if err := system.ProbeMirror(repoURL); err != nil {
		Warn("%s", err)
		if !inst.Prompter.Confirm("Continue anyway?", false) {
			return fmt.Errorf("aborted: mirror unreachable")
		}
	}

	Header("Installing base system from %s...", repoURL)
	return system.InstallPackages(TargetRoot, repoURL, BasePackages)
}

func (inst *Installer) installDesktopAndAudio() error {
	cfg := &inst.Config

	if cfg.Desktop == "" {
		Header("Desktop Environment Selection:")
		cfg.Desktop = inst.Prompter.Choose("Select a desktop", DesktopNames, "none")
	}

	repoURL := system.RepoURL(cfg.Mirror, cfg.Arch)
	pkgs := DesktopPackages(cfg.Desktop)
	if len(pkgs) > 0 {
		Info("Installing %s desktop and sound packages...", cfg.Desktop)
	} else {
		Info("Installing sound packages only...")
	}
	pkgs = append(pkgs, AudioPackages...)

	return system.InstallPackages(TargetRoot, repoURL, pkgs)
}

func (inst *Installer) installGraphics() error {
	if inst.Config.VM {
		Warn("Running in a VM - skipping graphics driver installation.")
		return nil
	}

	Header("Detecting graphics hardware...")
	adapters, err := system.DetectGraphicsAdapters()
	if err != nil {
		Warn("Could not probe graphics hardware: %s. Skipping driver installation.", err)
		return nil
	}

	if len(adapters) == 0 {
		Success("No discrete graphics detected or only virtual graphics present.")
		return nil
	}

	Info("Detected graphics adapters: %s", strings.Join(adapters, ", "))
	pkgs := system.GraphicsPackages(adapters)
	if len(pkgs) == 0 {
		return nil
	}

	Info("Installing graphics packages into target: %s", strings.Join(pkgs, " "))
	repoURL := system.RepoURL(inst.Config.Mirror, inst.Config.Arch)
	return system.InstallPackages(TargetRoot, repoURL, pkgs)
}

func (inst *Installer) configureSystem() error {
	cfg := &inst.Config

	Header("Configuring the new system...")
	if err := system.CopyResolvConf(TargetRoot); err != nil {
		return err
	}

	Info("Set the root password:")
	if err := system.SetRootPassword(TargetRoot); err != nil {
		return err
	}

	if cfg.Timezone == "" {
		cfg.Timezone = inst.Prompter.AskRequired("Enter your timezone (e.g., America/New_York)")
	}
	if err := system.SetTimezone(TargetRoot, cfg.Timezone); err != nil {
		return err
	}

	if err := system.SetLocale(TargetRoot, cfg.Locale); err != nil {
		return err
	}

	if cfg.Hostname == "" {
		cfg.Hostname = inst.Prompter.AskRequired("Enter a hostname for this computer")
	}
	if err := system.ChangeHostname(TargetRoot, cfg.Hostname); err != nil {
		return err
	}

	// Runs every package's post-install hooks, which generates the
	// initramfs and finishes kernel setup
	Info("Finalizing package configuration (this may take a moment)...")
	if err := system.ReconfigureAll(TargetRoot); err != nil {
		return err
	}

	Info("Creating a user account...")
	if cfg.Username == "" {
		cfg.Username = inst.Prompter.AskRequired("Enter a username")
	}
	if cfg.Password == "" {
		password, err := inst.Prompter.AskPassword(fmt.Sprintf("Enter password for %s", cfg.Username))
		if err != nil {
			return err
		}
		cfg.Password = password
	}
	if err := system.AddUser(TargetRoot, cfg.Username, cfg.Password, []string{"wheel", "audio", "video"}); err != nil {
		return err
	}

	Info("Setting up sudo and enabling services...")
	if err := system.SetupSudoers(TargetRoot); err != nil {
		return err
	}

	services := []string{"dbus", "NetworkManager"}
	if dm := DisplayManagerFor(cfg.Desktop); dm != "" {
		services = append(services, dm)
	}
	for _, service := range services {
		if err := system.EnableService(TargetRoot, service); err != nil {
			logrus.Warnf("could not enable service %s: %s", service, err)
		}
	}

	return nil
}

// writeFilesystemTables generates /etc/fstab and, when encrypting,
// /etc/crypttab in the target.
func (inst *Installer) writeFilesystemTables() error {
	entries := [][]string{}
	for _, mnt := range inst.mountpoints {
		source := mnt.Partition
		fstype, err := disk.GetFilesystemByPath(mnt.Partition)
		if err != nil {
			return err
		}

		// Mapper and LV devices keep their paths, plain partitions are
		// referenced by UUID
		if !strings.HasPrefix(source, "/dev/mapper/") && !strings.HasPrefix(source, "/dev/"+volumeGroup+"/") {
			uuid, err := disk.GetUUIDByPath(mnt.Partition)
			if err != nil {
				return err
			}
			source = fmt.Sprintf("UUID=%s", uuid)
		}

		entries = append(entries, disk.FstabEntry(source, mnt.Target, fstype))
	}

	if inst.swapSource != "" {
		source := inst.swapSource
		if !strings.HasPrefix(source, "/dev/mapper/") && !strings.HasPrefix(source, "/dev/"+volumeGroup+"/") {
			uuid, err := disk.GetUUIDByPath(inst.swapSource)
			if err != nil {
				return err
			}
			source = fmt.Sprintf("UUID=%s", uuid)
		}
		entries = append(entries, disk.FstabEntry(source, "swap", "swap"))
	}

	if err := disk.GenFstab(TargetRoot, entries); err != nil {
		return fmt.Errorf("failed to generate fstab: %s", err)
	}

	if inst.luksUUID != "" {
		mapping := fmt.Sprintf("luks-%s", inst.luksUUID)
		crypttab := [][]string{luks.CrypttabEntry(mapping, inst.luksUUID)}
		if err := luks.GenCrypttab(TargetRoot, crypttab); err != nil {
			return fmt.Errorf("failed to generate crypttab: %s", err)
		}
	}

	return nil
}

func (inst *Installer) installBootloader() error {
	cfg := &inst.Config

	Header("Installing bootloader for %s...", cfg.Arch)

	target, pkgs, supported := system.GrubTarget(cfg.Arch, cfg.UEFI)
	if !supported {
		Warn("Automatic bootloader installation is not supported for %s without UEFI.", cfg.Arch)
		Warn("U-Boot based devices have board-specific boot requirements.")
		Info("Please consult the Void Linux documentation for your board to set up the bootloader manually.")
		return nil
	}

	if err := system.InstallPackagesInChroot(TargetRoot, pkgs); err != nil {
		return err
	}

	removable := cfg.ForceRemovable || cfg.VM
	if removable && target != system.BIOS {
		Warn("VM detected or removable mode forced. Installing GRUB in removable mode.")
	}
	if err := system.InstallGrub(TargetRoot, cfg.Disk, target, removable); err != nil {
		return err
	}

	Info("Generating GRUB configuration...")
	if err := system.RunGrubMkconfig(TargetRoot, "/boot/grub/grub.cfg"); err != nil {
		return err
	}

	Success("Bootloader installation step complete.")
	return nil
}

// OfferReboot asks to reboot once the installation finished.
func (inst *Installer) OfferReboot() {
	if inst.Prompter.Confirm("Reboot now?", false) {
		if err := util.RunCommand("reboot"); err != nil {
			logrus.Errorf("reboot failed: %s", err)
		}
	}
}

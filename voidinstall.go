package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Gautam9981/VoidInstall/core/installer"
	"github.com/Gautam9981/VoidInstall/core/system"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func main() {
	forceRemovable := flag.Bool("force-removable", false, "Force GRUB to install in removable media mode (for UEFI)")
	answersFile := flag.String("config", "", "Path to a TOML answers file preseeding the prompts")
	logFile := flag.String("log-file", "", "Also write installer logs to this file")
	mirror := flag.String("mirror", "", "Override the Void repository mirror base URL")
	assumeYes := flag.Bool("yes", false, "Skip the data-loss confirmation (requires a preseeded disk)")
	verbose := flag.Bool("verbose", false, "Log every probe command, not just state-changing ones")
	flag.Parse()

	if err := setupLogging(*logFile, *verbose); err != nil {
		logrus.Fatalf("%s", err)
	}

	if os.Geteuid() != 0 {
		logrus.Fatal("this installer must be run as root")
	}

	cfg := installer.DefaultConfig()
	if *answersFile != "" {
		var err error
		cfg, err = installer.LoadAnswers(*answersFile, cfg)
		if err != nil {
			logrus.Fatalf("%s", err)
		}
	}
	if *mirror != "" {
		cfg.Mirror = *mirror
	}
	if *forceRemovable {
		cfg.ForceRemovable = true
	}

	arch, err := system.DetectArch()
	if err != nil {
		logrus.Fatalf("%s", err)
	}
	cfg.Arch = arch
	cfg.UEFI = system.DetectUEFI()
	cfg.VM = system.DetectVM()

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %s", err)
	}

	inst := installer.New(cfg, installer.NewPrompter(os.Stdin))
	inst.AssumeYes = *assumeYes && cfg.Disk != ""

	if err := inst.Run(); err != nil {
		installer.Fail("Installation failed: %s", err)
		logrus.Fatalf("installation failed: %s", err)
	}

	inst.OfferReboot()
}

func setupLogging(logFile string, verbose bool) error {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %s", err)
		}
		logrus.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	logrus.Infof("voidinstall session %s starting", uuid.NewString())
	return nil
}

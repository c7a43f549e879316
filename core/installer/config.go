package installer

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/Gautam9981/VoidInstall/core/system"
)

// Partitioning modes.
const (
	ModeAuto   = "auto"
	ModeManual = "manual"
)

// Config holds every choice the installer needs. The same struct doubles as
// the schema of the optional TOML answers file: fields left empty there are
// asked interactively. Passwords are deliberately prompt-only.
type Config struct {
	Disk          string `toml:"disk"`
	PartitionMode string `toml:"partition_mode"`
	RootFs        string `toml:"root_filesystem"`
	Swap          bool   `toml:"swap"`
	SwapSize      string `toml:"swap_size"`
	Encrypt       bool   `toml:"encrypt"`
	UseLvm        bool   `toml:"lvm"`

	Hostname string `toml:"hostname"`
	Timezone string `toml:"timezone"`
	Locale   string `toml:"locale"`
	Username string `toml:"username"`
	Desktop  string `toml:"desktop"`

	Mirror         string `toml:"mirror"`
	ForceRemovable bool   `toml:"force_removable"`

	// Prompt-only secrets, never read from the answers file.
	Password       string `toml:"-"`
	LuksPassphrase string `toml:"-"`

	// Detected facts, filled in at startup.
	Arch string `toml:"-"`
	UEFI bool   `toml:"-"`
	VM   bool   `toml:"-"`
}

// DefaultConfig returns a Config with the defaults applied before any
// answers file or prompt.
func DefaultConfig() Config {
	return Config{
		PartitionMode: ModeAuto,
		RootFs:        "ext4",
		Locale:        "en_US.UTF-8",
		Desktop:       "none",
		Mirror:        system.DefaultMirror,
	}
}

// LoadAnswers reads a TOML answers file over the given defaults.
func LoadAnswers(path string, cfg Config) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read answers file: %s", err)
	}

	meta, err := toml.Decode(string(content), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse answers file: %s", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown answers file key: %s", undecoded[0].String())
	}

	return cfg, nil
}

// NormalizeStorage applies the storage rules implied by other choices: swap
// on an encrypted disk lives inside the LVM volume group (a raw swap
// partition would sit outside the encryption), so choosing both forces LVM
// on.
func (cfg *Config) NormalizeStorage() {
	if cfg.Encrypt && cfg.Swap {
		cfg.UseLvm = true
	}
}

// Validate checks the parts of a Config that can be wrong regardless of how
// they were provided.
func (cfg *Config) Validate() error {
	if cfg.PartitionMode != ModeAuto && cfg.PartitionMode != ModeManual {
		return fmt.Errorf("invalid partition mode %q", cfg.PartitionMode)
	}
	if cfg.Desktop != "" && !IsDesktop(cfg.Desktop) {
		return fmt.Errorf("unknown desktop environment %q", cfg.Desktop)
	}
	if cfg.Swap && cfg.SwapSize == "" {
		return fmt.Errorf("swap requested but no swap size given")
	}
	if cfg.UseLvm && cfg.PartitionMode != ModeAuto {
		return fmt.Errorf("LVM setup is only supported in auto partitioning mode")
	}

	return nil
}

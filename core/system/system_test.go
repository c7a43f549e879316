package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoURL(t *testing.T) {
	assert.Equal(t, DefaultMirror, RepoURL(DefaultMirror, ArchX86_64))
	assert.Equal(t, DefaultMirror+"/aarch64", RepoURL(DefaultMirror, ArchAarch64))
	assert.Equal(t, DefaultMirror+"/armv7l", RepoURL(DefaultMirror, ArchArmv7l))
}

func TestSetupRepositoriesX86(t *testing.T) {
	root := t.TempDir()

	err := SetupRepositories(root, DefaultMirror, ArchX86_64)
	require.NoError(t, err)

	main, err := os.ReadFile(filepath.Join(root, "etc/xbps.d/00-repository-main.conf"))
	require.NoError(t, err)
	assert.Equal(t, "repository="+DefaultMirror+"\n", string(main))

	nonfree, err := os.ReadFile(filepath.Join(root, "etc/xbps.d/10-repository-nonfree.conf"))
	require.NoError(t, err)
	assert.Equal(t, "repository="+DefaultMirror+"/nonfree\n", string(nonfree))

	multilib, err := os.ReadFile(filepath.Join(root, "etc/xbps.d/20-repository-multilib.conf"))
	require.NoError(t, err)
	assert.Equal(t, "repository="+DefaultMirror+"/multilib\n", string(multilib))
}

func TestSetupRepositoriesAarch64HasNoMultilib(t *testing.T) {
	root := t.TempDir()

	err := SetupRepositories(root, DefaultMirror, ArchAarch64)
	require.NoError(t, err)

	main, err := os.ReadFile(filepath.Join(root, "etc/xbps.d/00-repository-main.conf"))
	require.NoError(t, err)
	assert.Equal(t, "repository="+DefaultMirror+"/aarch64\n", string(main))

	_, err = os.Stat(filepath.Join(root, "etc/xbps.d/20-repository-multilib.conf"))
	assert.True(t, os.IsNotExist(err))
}

func TestChangeHostname(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0o755))

	err := ChangeHostname(root, "voidbox")
	require.NoError(t, err)

	hostname, err := os.ReadFile(filepath.Join(root, "etc/hostname"))
	require.NoError(t, err)
	assert.Equal(t, "voidbox\n", string(hostname))

	hosts, err := os.ReadFile(filepath.Join(root, "etc/hosts"))
	require.NoError(t, err)
	assert.Contains(t, string(hosts), "127.0.1.1\tvoidbox.localdomain\tvoidbox")
	assert.Contains(t, string(hosts), "127.0.0.1\tlocalhost")
}

func TestSetupSudoers(t *testing.T) {
	root := t.TempDir()

	err := SetupSudoers(root)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, "etc/sudoers.d/wheel"))
	require.NoError(t, err)
	assert.Equal(t, "%wheel ALL=(ALL:ALL) ALL\n", string(content))
}

func TestGrubTarget(t *testing.T) {
	target, pkgs, supported := GrubTarget(ArchX86_64, true)
	assert.True(t, supported)
	assert.Equal(t, EFI, target)
	assert.Equal(t, []string{"grub-x86_64-efi", "efibootmgr"}, pkgs)

	target, pkgs, supported = GrubTarget(ArchX86_64, false)
	assert.True(t, supported)
	assert.Equal(t, BIOS, target)
	assert.Equal(t, []string{"grub"}, pkgs)

	target, pkgs, supported = GrubTarget(ArchAarch64, true)
	assert.True(t, supported)
	assert.Equal(t, EFI6, target)
	assert.Equal(t, []string{"grub-arm64-efi", "efibootmgr"}, pkgs)

	_, _, supported = GrubTarget(ArchAarch64, false)
	assert.False(t, supported)

	_, _, supported = GrubTarget(ArchArmv7l, true)
	assert.False(t, supported)
}

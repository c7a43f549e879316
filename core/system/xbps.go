package system

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Gautam9981/VoidInstall/core/util"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// DefaultMirror is the base URL of the official Void package repositories.
const DefaultMirror = "https://repo-default.voidlinux.org/current"

// RepoURL returns the repository URL for an architecture. x86_64 repodata
// lives at the mirror root, other architectures in a subdirectory.
func RepoURL(mirrorBase, arch string) string {
	if arch == ArchX86_64 {
		return mirrorBase
	}

	return fmt.Sprintf("%s/%s", mirrorBase, arch)
}

// SetupRepositories writes the xbps repository configuration into the target
// root: main, nonfree and, on x86_64 only, multilib.
func SetupRepositories(targetRoot, mirrorBase, arch string) error {
	confDir := filepath.Join(targetRoot, "etc/xbps.d")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		return fmt.Errorf("failed to create xbps.d directory: %s", err)
	}

	repoURL := RepoURL(mirrorBase, arch)

	repos := map[string]string{
		"00-repository-main.conf":    repoURL,
		"10-repository-nonfree.conf": repoURL + "/nonfree",
	}
	if arch == ArchX86_64 {
		repos["20-repository-multilib.conf"] = repoURL + "/multilib"
	}

	for name, url := range repos {
		content := fmt.Sprintf("repository=%s\n", url)
		err := os.WriteFile(filepath.Join(confDir, name), []byte(content), 0o644)
		if err != nil {
			return fmt.Errorf("failed to write repository config %s: %s", name, err)
		}
	}

	return nil
}

// ProbeMirror checks that the repository index is reachable, with retries.
func ProbeMirror(repoURL string) error {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = logrus.StandardLogger()

	resp, err := client.Get(repoURL + "/")
	if err != nil {
		return fmt.Errorf("mirror %s is not reachable: %s", repoURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("mirror %s returned status %s", repoURL, resp.Status)
	}

	return nil
}

// InstallPackages installs packages into the target root from the given
// repository.
func InstallPackages(targetRoot, repoURL string, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}

	installCmd := "xbps-install -Sy -R %s -r %s %s"
	err := util.RunCommand(fmt.Sprintf(installCmd, repoURL, targetRoot, strings.Join(pkgs, " ")))
	if err != nil {
		return fmt.Errorf("failed to install packages: %s", err)
	}

	return nil
}

// InstallPackagesInChroot installs packages from inside the chroot, using the
// target's own repository configuration.
func InstallPackagesInChroot(targetRoot string, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}

	err := util.RunInChroot(targetRoot, fmt.Sprintf("xbps-install -Sy %s", strings.Join(pkgs, " ")))
	if err != nil {
		return fmt.Errorf("failed to install packages in chroot: %s", err)
	}

	return nil
}

// ReconfigureAll re-runs the post-install hooks of every package in the
// target. This is what generates the initramfs and finishes kernel setup.
func ReconfigureAll(targetRoot string) error {
	err := util.RunInChroot(targetRoot, "xbps-reconfigure -fa")
	if err != nil {
		return fmt.Errorf("failed to reconfigure packages: %s", err)
	}

	return nil
}

// Reconfigure re-runs the post-install hooks of a single package.
func Reconfigure(targetRoot, pkg string) error {
	err := util.RunInChroot(targetRoot, fmt.Sprintf("xbps-reconfigure -f %s", pkg))
	if err != nil {
		return fmt.Errorf("failed to reconfigure %s: %s", pkg, err)
	}

	return nil
}

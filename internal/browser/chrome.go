// File: internal/browser/chrome.go
package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Injection points for tests.
var (
	osStat   = os.Stat
	lookPath = exec.LookPath
)

// chromeCandidates returns the well-known browser locations for a
// platform, tried in order. On darwin these are absolute bundle paths;
// elsewhere they are command names resolved against PATH.
func chromeCandidates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chrome.app/Contents/MacOS/Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "linux":
		return []string{
			"google-chrome",
			"google-chrome-stable",
			"chromium",
			"chromium-browser",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files\Chromium\Application\chrome.exe`,
		}
	default:
		return nil
	}
}

// findChrome resolves the browser executable from the platform
// well-known locations. It is the fallback when the driver's default
// discovery cannot start a browser.
func findChrome() (string, error) {
	for _, candidate := range chromeCandidates(runtime.GOOS) {
		if runtime.GOOS == "darwin" {
			if _, err := osStat(candidate); err == nil {
				return candidate, nil
			}
			continue
		}
		if path, err := lookPath(candidate); err == nil {
			return path, nil
		}
	}

	// Last resort: a bare "chrome" on PATH.
	if path, err := lookPath("chrome"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("no Chrome or Chromium executable found; install one or set browser.exec_path")
}

// probeVersion runs `<exec> --version` and logs the result. Purely
// diagnostic: a matching driver is chosen by chromedp itself, but the
// version string is the first thing to check when startup fails.
func probeVersion(ctx context.Context, execPath string, logger *zap.Logger) {
	out, err := exec.CommandContext(ctx, execPath, "--version").Output()
	if err != nil {
		logger.Debug("Browser version probe failed", zap.String("exec_path", execPath), zap.Error(err))
		return
	}
	logger.Info("Browser version", zap.String("exec_path", execPath), zap.String("version", strings.TrimSpace(string(out))))
}

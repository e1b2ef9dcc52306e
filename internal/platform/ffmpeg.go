package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Bundled tooling directory, relative to the executable
const (
	BundledToolsDir = "ffmpeg"
)

// FFmpegPath returns the path to the ffmpeg binary. A copy bundled next to
// the executable takes precedence over one found on PATH. The empty string
// means ffmpeg is not available and merging is left to the downloader.
func FFmpegPath() string {
	return toolPath("ffmpeg")
}

func toolPath(name string) string {
	if runtime.GOOS == OSWindows {
		name += ".exe"
	}

	if exe, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(exe), BundledToolsDir, name)
		if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
			return bundled
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return ""
}

package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used below the platform data and config dirs.
const AppName = "pkgtrack"

// dataHome returns the platform data directory:
// $XDG_DATA_HOME or ~/.local/share on Unix, ~/Library/Application Support on macOS,
// %LOCALAPPDATA% on Windows.
func dataHome() (string, error) {
	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			return "", errors.New("LOCALAPPDATA environment variable not set")
		}
		return localAppData, nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return xdg, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// GetDataDir returns the default mirror root, e.g. ~/.local/share/pkgtrack.
func GetDataDir() (string, error) {
	base, err := dataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// GetConfigDir returns the directory holding config.yaml.
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !hasHomePrefix(path) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

func hasHomePrefix(path string) bool {
	return len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}

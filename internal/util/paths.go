package util

import (
	"os"
	"path/filepath"
	"strings"
)

// DataDir is where the database lives: $XDG_DATA_HOME/<app>, falling back to
// ~/.local/share/<app>.
func DataDir(app string) string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(ExpandHome(base), app)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", app)
	}
	return filepath.Join(home, ".local", "share", app)
}

// ReportsDir is the default destination of generated sprint reports.
func ReportsDir(app string) string {
	return filepath.Join(DocumentsDir(), app, "reports")
}

// DocumentsDir resolves the user's documents folder from the environment,
// then ~/.config/user-dirs.dirs, then ~/Documents.
func DocumentsDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DOCUMENTS_DIR")); base != "" {
		return ExpandHome(base)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	data, err := os.ReadFile(filepath.Join(home, ".config", "user-dirs.dirs"))
	if err == nil {
		if dir := userDir(string(data), "XDG_DOCUMENTS_DIR"); dir != "" {
			return ExpandHome(dir)
		}
	}
	return filepath.Join(home, "Documents")
}

// userDir reads KEY="value" from a user-dirs.dirs file. Comments are skipped.
func userDir(data, key string) string {
	prefix := key + "="
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") || !strings.HasPrefix(line, prefix) {
			continue
		}
		return strings.Trim(strings.TrimPrefix(line, prefix), `"`)
	}
	return ""
}

// ExpandHome replaces a leading ~ and any $HOME with the home directory, so
// config values like "~/sprints.db" work.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.Contains(path, "$HOME") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = home + path[1:]
	}
	return strings.ReplaceAll(path, "$HOME", home)
}

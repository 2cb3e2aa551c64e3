package manifest

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scenes/*.yaml scenes/scripts/*.tengo
var ScenesFS embed.FS

// Load returns the bytes of a manifest. name is tried as a plain path
// first, then under manifest/scenes/ on disk, then in the embedded copy, so
// edits can be picked up without a rebuild.
func Load(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	clean := cleanPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile(clean)
}

// LoadScript loads a tengo script by name, with or without the scripts/
// prefix.
func LoadScript(name string) ([]byte, error) {
	clean := cleanPath(name)
	if !strings.HasPrefix(clean, "scenes/scripts/") {
		clean = "scenes/scripts/" + strings.TrimPrefix(clean, "scenes/")
	}
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile(clean)
}

func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "manifest/")
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		return "scenes/scripts/" + after
	}
	if !strings.HasPrefix(s, "scenes/") {
		s = "scenes/" + s
	}
	return s
}

func diskPath(clean string) string {
	return filepath.Join("manifest", filepath.FromSlash(clean))
}

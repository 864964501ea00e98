package upload

import (
	"os"
	"path/filepath"
	"strings"
)

// expandHome resolves a leading ~ and strips the quotes terminals add
// when a file is dropped onto them.
func expandHome(path string) string {
	path = strings.Trim(path, `"'`)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

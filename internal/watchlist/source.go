package watchlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrSourceNotFound = errors.New("cannot find symbols file")

var (
	localPaths = []string{"symbols", "symbols.txt"}
	homePaths  = []string{
		".config/tuimarket/symbols",
		".tuimarket/symbols",
		".tuimarket_symbols",
	}
)

// Locate picks the symbols file. An explicit path must exist; otherwise the
// working directory is searched first, then the home directory.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		if !isFile(explicit) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, explicit)
		}
		return explicit, nil
	}
	for _, p := range Candidates() {
		if isFile(p) {
			return p, nil
		}
	}
	return "", ErrSourceNotFound
}

// Candidates lists the default search order.
func Candidates() []string {
	out := append([]string(nil), localPaths...)
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		for _, p := range homePaths {
			out = append(out, filepath.Join(home, p))
		}
	}
	return out
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

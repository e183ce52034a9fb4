// Package symbols loads the user-supplied symbol table consulted by every
// expression evaluation.
//
// Symbols are plain YAML mappings of name to value. Files are listed in
// the PYPE_SYMBOL_PATHS environment variable (separated by the OS path
// list separator); when unset, a single default file under the user
// config directory is read if present. Later files override earlier ones.
// The table is loaded once at startup and never re-read.
package symbols

import (
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/pype/log"
)

// EnvVar names the environment variable listing symbol file paths.
const EnvVar = "PYPE_SYMBOL_PATHS"

// DefaultFile is the symbol file name searched under the user config
// directory when EnvVar is unset.
const DefaultFile = "symbols.yml"

// ErrLoadSymbols wraps any failure to read or decode a symbol file.
var ErrLoadSymbols = errors.New("failed to load symbol file")

// Load reads every configured symbol file and merges them in order.
// A missing default file is not an error; a missing explicitly-listed
// file is.
func Load(appName string) (map[string]any, error) {
	paths, explicit := configuredPaths(appName)

	merged := map[string]any{}

	for _, path := range paths {
		table, err := LoadFile(path)
		if err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return nil, err
		}

		maps.Copy(merged, table)

		log.Debug("symbols loaded",
			slog.String("path", path),
			slog.Int("count", len(table)),
		)
	}

	return merged, nil
}

// LoadFile reads one YAML symbol file into a name-to-value table.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrLoadSymbols, err)
	}

	table := map[string]any{}

	err = yaml.Unmarshal(data, &table)
	if err != nil {
		return nil, errors.Join(ErrLoadSymbols, err)
	}

	return table, nil
}

// configuredPaths resolves the symbol file list and reports whether it was
// explicitly configured via the environment.
func configuredPaths(appName string) (paths []string, explicit bool) {
	env, ok := os.LookupEnv(EnvVar)
	if ok {
		return filepath.SplitList(env), true
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, false
	}

	return []string{filepath.Join(dir, appName, DefaultFile)}, false
}

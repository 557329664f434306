package i18n

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vitessedocs/vitesse/internal/logfields"
)

// LocalesDir is the project-relative directory holding user locale files.
const LocalesDir = "content/i18n"

// LoadDir reads every JSON file directly inside <srcDir>/content/i18n into a
// table, file stem as the locale code. A missing directory yields an empty
// table. Any other failure (unreadable file, malformed JSON, a value that is
// not a string) is returned unchanged so the underlying diagnostic survives.
func LoadDir(srcDir string) (Table, error) {
	dir := filepath.Join(srcDir, filepath.FromSlash(LocalesDir))

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		slog.Debug("no locale directory, using built-in translations only", logfields.Path(dir))
		return Table{}, nil
	}
	if err != nil {
		return nil, err
	}

	table := Table{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		locale := strings.TrimSuffix(name, ".json")
		if locale == name || locale == "" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		var msgs map[string]string
		if err := json.Unmarshal(data, &msgs); err != nil {
			return nil, err
		}
		if msgs == nil {
			msgs = map[string]string{}
		}
		table[locale] = msgs
		slog.Debug("loaded locale file", logfields.Locale(locale), logfields.Path(filepath.Join(dir, name)))
	}
	return table, nil
}

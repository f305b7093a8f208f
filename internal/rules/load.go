package rules

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"sortd/internal/faults"
)

//go:embed sample_rules.toml
var sampleRules string

// DefaultPath returns the absolute path of the default rules document
// location.
func DefaultPath() (string, error) {
	return expandPath("~/.config/sortd/rules.toml")
}

// Load locates, parses, and validates a rules document. An empty path falls
// back to the default location and then to built-in defaults when nothing is
// there; an explicit path that does not exist is an error. The returned path
// is the resolved document location and exists reports whether a document was
// actually read.
func Load(path string) (*Ruleset, string, bool, error) {
	rs := Default()

	resolvedPath, exists, err := resolveRulesPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, faults.Wrap(faults.ErrIO, "rules", "read document", resolvedPath, err)
		}
		if err := decodeDocument(resolvedPath, data, &rs); err != nil {
			return nil, "", false, err
		}
	}

	rs.normalize()
	if err := rs.Validate(); err != nil {
		return nil, "", false, err
	}

	return &rs, resolvedPath, exists, nil
}

func resolveRulesPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, faults.Wrap(faults.ErrNotFound, "rules", "locate document", fmt.Sprintf("Rules document not found: %s", path), err)
			}
			return "", false, faults.Wrap(faults.ErrIO, "rules", "locate document", path, err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("sortd.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// decodeDocument picks the codec from the file extension. Unrecognized
// extensions try JSON first and fall back to YAML, which also covers JSON
// documents with bare names.
func decodeDocument(path string, data []byte, rs *Ruleset) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, rs); err != nil {
			return parseFault(path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, rs); err != nil {
			return parseFault(path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, rs); err != nil {
			return parseFault(path, err)
		}
	default:
		if jsonErr := json.Unmarshal(data, rs); jsonErr != nil {
			if yamlErr := yaml.Unmarshal(data, rs); yamlErr != nil {
				return parseFault(path, jsonErr)
			}
		}
	}
	return nil
}

func parseFault(path string, err error) error {
	return faults.Wrap(faults.ErrParse, "rules", "parse document", fmt.Sprintf("Malformed rules document: %s", path), err)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules used for rules documents so
// commands treat manifest and database paths the same way.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a commented sample rules document to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create rules directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleRules), 0o644); err != nil {
		return fmt.Errorf("write sample rules: %w", err)
	}
	return nil
}

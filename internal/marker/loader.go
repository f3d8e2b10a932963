package marker

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"chatmark/internal/logging"
)

// ErrNoSource indicates that no marker file could be read at all. This is the
// only startup-fatal registry condition; an empty-but-valid registry is fine.
var ErrNoSource = errors.New("no usable marker source")

// LoadIssue records one skipped entry or pattern during registry loading.
type LoadIssue struct {
	File     string
	MarkerID string
	Err      error
}

func (i LoadIssue) String() string {
	if i.MarkerID != "" {
		return fmt.Sprintf("%s: marker %q: %v", i.File, i.MarkerID, i.Err)
	}
	return fmt.Sprintf("%s: %v", i.File, i.Err)
}

// LoadResult carries the loaded definitions plus every per-entry failure.
type LoadResult struct {
	Definitions []Definition
	Issues      []LoadIssue
}

// markerFile is the on-disk YAML shape. Only id is strictly required per
// entry.
type markerFile struct {
	Markers []markerEntry `yaml:"markers"`
}

type markerEntry struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Severity    string   `yaml:"severity"`
	Description string   `yaml:"description"`
	Patterns    []string `yaml:"patterns"`
	Keywords    []string `yaml:"keywords"`
	Examples    []string `yaml:"examples"`
	Weight      *float64 `yaml:"weight"`
	Tags        []string `yaml:"tags"`
	Active      *bool    `yaml:"active"`
}

// LoadDirs loads every *.yaml/*.yml file under the given directories. Files
// that fail to parse are skipped with an issue; the call fails only when not
// a single file could be read.
func LoadDirs(dirs []string, logger *slog.Logger) (LoadResult, error) {
	log := logging.WithComponent(logger, "registry")
	var result LoadResult
	readable := 0

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Warn("marker directory missing", logging.Args(logging.String("dir", dir))...)
				continue
			}
			result.Issues = append(result.Issues, LoadIssue{File: dir, Err: err})
			continue
		}

		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext == ".yaml" || ext == ".yml" {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(dir, name)
			defs, issues, err := LoadFile(path)
			result.Issues = append(result.Issues, issues...)
			if err != nil {
				result.Issues = append(result.Issues, LoadIssue{File: path, Err: err})
				continue
			}
			readable++
			result.Definitions = append(result.Definitions, defs...)
		}
	}

	if readable == 0 && len(result.Definitions) == 0 && len(dirs) > 0 {
		if len(result.Issues) > 0 {
			return result, fmt.Errorf("%w: %s", ErrNoSource, result.Issues[0])
		}
		// Directories exist(ed) but held no marker files: empty registry.
	}

	result.Definitions, result.Issues = dedupeByID(result.Definitions, result.Issues)

	log.Info("markers loaded",
		logging.Args(
			logging.Int("definitions", len(result.Definitions)),
			logging.Int("skipped", len(result.Issues)),
		)...)
	return result, nil
}

// LoadFile parses one YAML marker file.
func LoadFile(path string) ([]Definition, []LoadIssue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return ParseDefinitions(data, path)
}

// ParseDefinitions decodes marker entries from YAML. Invalid entries are
// skipped with an issue; the error return is reserved for undecodable input.
func ParseDefinitions(data []byte, source string) ([]Definition, []LoadIssue, error) {
	var file markerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", source, err)
	}

	defs := make([]Definition, 0, len(file.Markers))
	var issues []LoadIssue

	for _, entry := range file.Markers {
		def, err := entry.toDefinition()
		if err != nil {
			issues = append(issues, LoadIssue{File: source, MarkerID: entry.ID, Err: err})
			continue
		}
		defs = append(defs, def)
	}
	return defs, issues, nil
}

func (e markerEntry) toDefinition() (Definition, error) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return Definition{}, errors.New("id is required")
	}

	category := CategoryManipulation
	if strings.TrimSpace(e.Category) != "" {
		parsed, err := ParseCategory(e.Category)
		if err != nil {
			return Definition{}, err
		}
		category = parsed
	}

	severity, err := ParseSeverity(e.Severity)
	if err != nil {
		return Definition{}, err
	}

	weight := 1.0
	if e.Weight != nil {
		if *e.Weight < 0 || *e.Weight > 10 {
			return Definition{}, fmt.Errorf("weight %g out of range [0,10]", *e.Weight)
		}
		weight = *e.Weight
	}

	active := true
	if e.Active != nil {
		active = *e.Active
	}

	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = id
	}

	return Definition{
		ID:          id,
		Name:        name,
		Category:    category,
		Severity:    severity,
		Description: strings.TrimSpace(e.Description),
		Patterns:    trimAll(e.Patterns),
		Keywords:    trimAll(e.Keywords),
		Examples:    trimAll(e.Examples),
		Weight:      weight,
		Tags:        trimAll(e.Tags),
		Active:      active,
	}, nil
}

// dedupeByID keeps the first occurrence of each id and reports the rest.
// Copy-pasted marker files are common enough that this runs on every load.
func dedupeByID(defs []Definition, issues []LoadIssue) ([]Definition, []LoadIssue) {
	seen := make(map[string]bool, len(defs))
	out := defs[:0]
	for _, d := range defs {
		if seen[d.ID] {
			issues = append(issues, LoadIssue{MarkerID: d.ID, Err: errors.New("duplicate id, entry dropped")})
			continue
		}
		seen[d.ID] = true
		out = append(out, d)
	}
	return out, issues
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

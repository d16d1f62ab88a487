package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// overrideFile is the YAML shape of a reference-table override file. Every
// section is optional.
type overrideFile struct {
	Reporters []struct {
		ReporterEntry `yaml:",inline"`
		Level         string `yaml:"level"`
	} `yaml:"reporters"`
	Courts []struct {
		CourtEntry `yaml:",inline"`
		Level      string `yaml:"level"`
	} `yaml:"courts"`
	Codes         []CodeEntry         `yaml:"codes"`
	RuleBodies    []RuleBodyEntry     `yaml:"rule_bodies"`
	Journals      []JournalEntry      `yaml:"journals"`
	Constitutions []ConstitutionEntry `yaml:"constitutions"`
}

// ParseOverrides applies the YAML override document to the builder.
func (b *Builder) ParseOverrides(data []byte) error {
	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	for _, r := range file.Reporters {
		entry := r.ReporterEntry
		entry.Level = ParseCourtLevel(r.Level)
		b.AddReporter(entry)
	}
	for _, c := range file.Courts {
		entry := c.CourtEntry
		entry.Level = ParseCourtLevel(c.Level)
		b.AddCourt(entry)
	}
	for _, e := range file.Codes {
		b.AddCode(e)
	}
	for _, e := range file.RuleBodies {
		b.AddRuleBody(e)
	}
	for _, e := range file.Journals {
		b.AddJournal(e)
	}
	for _, e := range file.Constitutions {
		b.AddConstitution(e)
	}
	return nil
}

// LoadFile returns a new table made of the defaults plus the overrides in path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	b := NewBuilder().From(Default())
	if err := b.ParseOverrides(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b.Build()
}

// LoadDirectory returns a new table made of the defaults plus every YAML file
// in dir, applied in lexical file order. A missing directory yields the
// defaults.
func LoadDirectory(dir string) (*Table, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	b := NewBuilder().From(Default())
	var loadErrors []string
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if err := b.ParseOverrides(data); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(loadErrors) > 0 {
		return nil, fmt.Errorf("errors loading reference tables: %s", strings.Join(loadErrors, "; "))
	}

	return b.Build()
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

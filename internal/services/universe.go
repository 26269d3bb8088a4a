package services

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"stockgrowth-api/internal/config"
)

type universeSpec struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	File    string   `yaml:"file"`
}

type universeIndex struct {
	Universes []universeSpec `yaml:"universes"`
}

// UniverseResolver expands named ticker universes from flat symbol files.
// Lookups are case-insensitive and alias-aware; a miss is reported as a
// warning, never an error.
type UniverseResolver struct {
	symbolsDir string
	files      map[string]string // upper-cased name or alias -> symbol file
	logger     *zap.Logger
}

// NewUniverseResolver loads the universe index. A missing or unreadable
// index leaves the resolver empty; resolution then warns per lookup.
func NewUniverseResolver(cfg *config.Config, logger *zap.Logger) *UniverseResolver {
	r := &UniverseResolver{
		symbolsDir: cfg.SymbolsDir,
		files:      make(map[string]string),
		logger:     logger,
	}

	data, err := os.ReadFile(cfg.UniverseFile)
	if err != nil {
		logger.Warn("universe index unavailable",
			zap.String("path", cfg.UniverseFile), zap.Error(err))
		return r
	}

	var idx universeIndex
	if err := yaml.Unmarshal(data, &idx); err != nil {
		logger.Warn("universe index malformed",
			zap.String("path", cfg.UniverseFile), zap.Error(err))
		return r
	}

	for _, u := range idx.Universes {
		if u.Name == "" || u.File == "" {
			continue
		}
		r.files[strings.ToUpper(u.Name)] = u.File
		for _, alias := range u.Aliases {
			if alias != "" {
				r.files[strings.ToUpper(alias)] = u.File
			}
		}
	}
	return r
}

// Resolve returns the ordered, deduplicated symbols for a universe name.
// Unknown names or missing backing files return an empty list plus a
// descriptive warning.
func (r *UniverseResolver) Resolve(name string) ([]string, string) {
	uni := strings.ToUpper(strings.TrimSpace(name))
	if uni == "" {
		uni = "NASDAQ"
		name = uni
	}

	fname, ok := r.files[uni]
	if ok {
		symbols, err := r.readSymbolFile(fname)
		if err != nil {
			r.logger.Warn("symbol file unreadable",
				zap.String("universe", uni), zap.String("file", fname), zap.Error(err))
		}
		if len(symbols) > 0 {
			return symbols, ""
		}
	}
	return nil, fmt.Sprintf("No symbols found for universe '%s'", name)
}

func (r *UniverseResolver) readSymbolFile(fname string) ([]string, error) {
	f, err := os.Open(filepath.Join(r.symbolsDir, fname))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var symbols []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}
	return symbols, scanner.Err()
}

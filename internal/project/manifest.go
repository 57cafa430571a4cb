package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrBadManifest wraps every validation failure of htmlizer.toml.
var ErrBadManifest = errors.New("invalid project manifest")

// Manifest is a loaded htmlizer.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Render RenderConfig `toml:"render"`
	// Components maps a custom tag (`x-card`) or dotted class name
	// (`x.card`) to a template file relative to the project root.
	Components map[string]string `toml:"components"`
}

type RenderConfig struct {
	Data       string `toml:"data"`
	NoConflict bool   `toml:"no_conflict"`
	Jobs       int    `toml:"jobs"`
}

// Component is one template-backed component entry.
type Component struct {
	Class string // dotted class name
	File  string // absolute template path
}

// Load finds htmlizer.toml starting at startDir. ok is false when there is none.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates a manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: %s: unknown key %q", ErrBadManifest, path, undecoded[0].String())
	}
	if meta.IsDefined("render", "jobs") && cfg.Render.Jobs < 0 {
		return Config{}, fmt.Errorf("%w: %s: [render].jobs must not be negative", ErrBadManifest, path)
	}
	if meta.IsDefined("render", "data") && strings.TrimSpace(cfg.Render.Data) == "" {
		return Config{}, fmt.Errorf("%w: %s: [render].data is empty", ErrBadManifest, path)
	}
	for name, file := range cfg.Components {
		if _, err := ClassName(name); err != nil {
			return Config{}, fmt.Errorf("%w: %s: [components]: %w", ErrBadManifest, path, err)
		}
		if strings.TrimSpace(file) == "" {
			return Config{}, fmt.Errorf("%w: %s: [components].%s has no template", ErrBadManifest, path, name)
		}
	}
	return cfg, nil
}

// ClassName turns a custom tag or a dotted name into the dotted class name.
// Names need at least two segments, like custom element names.
func ClassName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	class := strings.ReplaceAll(name, "-", ".")
	parts := strings.Split(class, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("component name %q needs a prefix like x-%s", name, name)
	}
	for _, p := range parts {
		if p == "" {
			return "", fmt.Errorf("component name %q has an empty segment", name)
		}
	}
	return class, nil
}

// DataPath returns the absolute render data path, or "" when unset.
func (m *Manifest) DataPath() string {
	if m == nil || m.Config.Render.Data == "" {
		return ""
	}
	return m.resolve(m.Config.Render.Data)
}

// Jobs returns the configured parallelism, defaulting to GOMAXPROCS.
func (m *Manifest) Jobs() int {
	if m == nil || m.Config.Render.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return m.Config.Render.Jobs
}

// Components lists the template-backed components sorted by class name.
func (m *Manifest) Components() []Component {
	if m == nil {
		return nil
	}
	out := make([]Component, 0, len(m.Config.Components))
	for name, file := range m.Config.Components {
		class, err := ClassName(name)
		if err != nil {
			continue
		}
		out = append(out, Component{Class: class, File: m.resolve(file)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out
}

func (m *Manifest) resolve(rel string) string {
	rel = filepath.FromSlash(strings.TrimSpace(rel))
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, rel)
}

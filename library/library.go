// Package library is an in-memory catalog of named ammunition loads,
// registered directly or read from YAML files.
package library

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/truearc/ballistics/model"
	"github.com/truearc/ballistics/unit"
)

var (
	ErrNotFound  = errors.New("load not found")
	ErrDuplicate = errors.New("load already registered")
)

// Library is a thread-safe load catalog keyed by load name. Loads are
// immutable once registered; Get and List hand out copies.
type Library struct {
	mu    sync.RWMutex
	loads map[string]model.Load
}

// New constructs an empty catalog.
func New() *Library {
	return &Library{loads: make(map[string]model.Load)}
}

// Register adds a load under its name. It returns ErrDuplicate if the
// name is already taken.
func (l *Library) Register(load model.Load) error {
	if load.Name == "" {
		return fmt.Errorf("library: load with empty name")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.loads[load.Name]; exists {
		return fmt.Errorf("load %q: %w", load.Name, ErrDuplicate)
	}
	l.loads[load.Name] = load
	return nil
}

// Get returns the load with the given name, or ErrNotFound.
func (l *Library) Get(name string) (model.Load, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	load, ok := l.loads[name]
	if !ok {
		return model.Load{}, fmt.Errorf("load %q: %w", name, ErrNotFound)
	}
	return load, nil
}

// List returns a snapshot of all loads, sorted by name.
func (l *Library) List() []model.Load {
	l.mu.RLock()
	defer l.mu.RUnlock()

	res := make([]model.Load, 0, len(l.loads))
	for _, load := range l.loads {
		res = append(res, load)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// Len reports how many loads are registered.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.loads)
}

// internal YAML shapes – kept unexported so the file format can evolve
// independently of the model types. Dimensions use the units handloading
// data is published in; the build step converts to SI.
type libraryYAML struct {
	Loads []loadYAML `yaml:"loads"`
}

type loadYAML struct {
	Name              string         `yaml:"name"`
	Projectile        projectileYAML `yaml:"projectile"`
	MuzzleVelocityMPS float64        `yaml:"muzzle_velocity_mps"`
	MuzzleVelocityFPS float64        `yaml:"muzzle_velocity_fps"`
}

type projectileYAML struct {
	Family         string  `yaml:"family"`
	BC             float64 `yaml:"bc"`
	MassGrains     float64 `yaml:"mass_grains"`
	DiameterInches float64 `yaml:"diameter_inches"`
	LengthInches   float64 `yaml:"length_inches"`
}

// Read registers every load in a YAML catalog document. It stops at the
// first malformed or duplicate entry and reports how many loads were
// registered before it.
func (l *Library) Read(r io.Reader) (int, error) {
	var doc libraryYAML
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("library: decode failed: %w", err)
	}

	added := 0
	for i, entry := range doc.Loads {
		load, err := entry.build()
		if err != nil {
			return added, fmt.Errorf("library: load %d: %w", i, err)
		}
		if err := l.Register(load); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// LoadFile reads one YAML catalog file.
func (l *Library) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("library: %w", err)
	}
	defer f.Close()

	n, err := l.Read(f)
	if err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// LoadDir reads every .yaml/.yml file directly under dir, failing fast on
// the first bad file.
func (l *Library) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("library: %w", err)
	}

	total := 0
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
		default:
			continue
		}
		n, err := l.LoadFile(filepath.Join(dir, ent.Name()))
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (y loadYAML) build() (model.Load, error) {
	if y.Name == "" {
		return model.Load{}, fmt.Errorf("empty name")
	}
	family, err := model.ParseDragFamily(y.Projectile.Family)
	if err != nil {
		return model.Load{}, fmt.Errorf("load %q: %w", y.Name, err)
	}
	if !(y.Projectile.BC > 0) {
		return model.Load{}, fmt.Errorf("load %q: bc %v must be positive", y.Name, y.Projectile.BC)
	}
	if !(y.Projectile.MassGrains > 0) {
		return model.Load{}, fmt.Errorf("load %q: mass_grains %v must be positive", y.Name, y.Projectile.MassGrains)
	}
	if y.Projectile.DiameterInches < 0 || y.Projectile.LengthInches < 0 {
		return model.Load{}, fmt.Errorf("load %q: projectile dimensions must not be negative", y.Name)
	}

	var mv float64
	switch {
	case y.MuzzleVelocityMPS > 0 && y.MuzzleVelocityFPS > 0:
		return model.Load{}, fmt.Errorf("load %q: set muzzle_velocity_mps or muzzle_velocity_fps, not both", y.Name)
	case y.MuzzleVelocityMPS > 0:
		mv = y.MuzzleVelocityMPS
	case y.MuzzleVelocityFPS > 0:
		mv = unit.FeetPerSecond(y.MuzzleVelocityFPS).MetresPerSecond()
	default:
		return model.Load{}, fmt.Errorf("load %q: muzzle velocity missing", y.Name)
	}

	return model.Load{
		Name: y.Name,
		Projectile: model.Projectile{
			Family:   family,
			BC:       y.Projectile.BC,
			Mass:     unit.Grains(y.Projectile.MassGrains).Kilograms(),
			Diameter: unit.Inches(y.Projectile.DiameterInches).Metres(),
			Length:   unit.Inches(y.Projectile.LengthInches).Metres(),
		},
		MuzzleVelocity: mv,
	}, nil
}

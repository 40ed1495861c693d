package tileset

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownAtom is returned when a name is not in the registry.
var ErrUnknownAtom = errors.New("unknown atom")

// MaxLayout is the highest autotile layout id.
const MaxLayout = 15

// Registry maps atom names to atoms and sheet ids to image locations. It is
// filled once at load time and read-only afterwards.
type Registry struct {
	atoms  map[string]*Atom
	sheets map[string]string
}

type registryFile struct {
	Sheets map[string]string `yaml:"sheets"`
	Atoms  map[string]*Atom  `yaml:"atoms"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		atoms:  make(map[string]*Atom),
		sheets: make(map[string]string),
	}
}

// LoadRegistry reads a YAML atom registry from path.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := ParseRegistry(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// ParseRegistry decodes a YAML atom registry.
func ParseRegistry(raw []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("atoms: %w", err)
	}
	r := NewRegistry()
	for id, loc := range f.Sheets {
		r.sheets[id] = loc
	}
	for name, a := range f.Atoms {
		if a == nil {
			return nil, fmt.Errorf("atom %q: empty definition", name)
		}
		if a.Name == "" {
			a.Name = name
		}
		if err := Validate(a); err != nil {
			return nil, fmt.Errorf("atom %q: %w", name, err)
		}
		r.atoms[name] = a
	}
	return r, nil
}

// Validate checks the fields the renderer indexes tables with.
func Validate(a *Atom) error {
	if a.AutotileLayout < 0 || a.AutotileLayout > MaxLayout {
		return fmt.Errorf("autotile_layout %d out of range", a.AutotileLayout)
	}
	if a.AnimMode < AnimForward || a.AnimMode > AnimPingPongReverse {
		return fmt.Errorf("anim_mode %d out of range", a.AnimMode)
	}
	if a.AnimFrames < 0 || a.AnimSpeed < 0 {
		return errors.New("negative animation field")
	}
	return nil
}

// Add registers a under its name, replacing any previous atom.
func (r *Registry) Add(a *Atom) {
	r.atoms[a.Name] = a
}

// AddSheet records where the image for sheet id lives.
func (r *Registry) AddSheet(id, location string) {
	r.sheets[id] = location
}

// Lookup returns the atom registered under name.
func (r *Registry) Lookup(name string) (*Atom, error) {
	if a, ok := r.atoms[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAtom, name)
}

// Resolve implements Resolver. Inline atoms are returned as-is; unknown
// names resolve to nil.
func (r *Registry) Resolve(ref Ref) *Atom {
	if ref.Atom != nil {
		return ref.Atom
	}
	if ref.Name == "" {
		return nil
	}
	return r.atoms[ref.Name]
}

// SheetLocation returns the file path or URL registered for a sheet id.
func (r *Registry) SheetLocation(id string) (string, bool) {
	loc, ok := r.sheets[id]
	return loc, ok
}

// Names returns all atom names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.atoms))
	for n := range r.atoms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SheetIDs returns the distinct sheets referenced by registered atoms.
func (r *Registry) SheetIDs() []string {
	seen := make(map[string]struct{})
	for _, a := range r.atoms {
		if a.Pic != nil {
			seen[a.Pic.Sheet] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

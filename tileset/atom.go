package tileset

import (
	"encoding/json"
	"fmt"
	"image"
	"strconv"

	"gopkg.in/yaml.v3"
)

// TileSize is the width and height of one map cell in sheet pixels.
const TileSize = 16

// AnimMode selects how animation frames advance.
type AnimMode int

const (
	AnimForward AnimMode = iota
	AnimBackward
	AnimPingPong
	AnimPingPongReverse
)

// Wall bits used by Atom.Walls.
const (
	WallEast = 1 << iota
	WallSouthEast
	WallSouth
	WallSouthWest
	WallWest
	WallNorthWest
	WallNorth
	WallNorthEast
)

// Pic locates a tile on a sheet, in tile units.
type Pic struct {
	Sheet string
	Col   int
	Row   int
}

// Rect returns the pixel rectangle of the tile at the given tile offset from
// the pic.
func (p Pic) Rect(dx, dy int) image.Rectangle {
	x := (p.Col + dx) * TileSize
	y := (p.Row + dy) * TileSize
	return image.Rect(x, y, x+TileSize, y+TileSize)
}

// Atom describes a turf or object graphic and its behavior.
type Atom struct {
	Name              string   `json:"name" yaml:"name"`
	Pic               *Pic     `json:"pic,omitempty" yaml:"pic"`
	AutotileClass     string   `json:"autotile_class,omitempty" yaml:"autotile_class,omitempty"`
	AutotileClassEdge string   `json:"autotile_class_edge,omitempty" yaml:"autotile_class_edge,omitempty"`
	AutotileLayout    int      `json:"autotile_layout,omitempty" yaml:"autotile_layout,omitempty"`
	AnimFrames        int      `json:"anim_frames,omitempty" yaml:"anim_frames,omitempty"`
	AnimSpeed         int      `json:"anim_speed,omitempty" yaml:"anim_speed,omitempty"`
	AnimOffset        int      `json:"anim_offset,omitempty" yaml:"anim_offset,omitempty"`
	AnimMode          AnimMode `json:"anim_mode,omitempty" yaml:"anim_mode,omitempty"`
	Density           bool     `json:"density,omitempty" yaml:"density,omitempty"`
	Walls             int      `json:"walls,omitempty" yaml:"walls,omitempty"`
	Over              bool     `json:"over,omitempty" yaml:"over,omitempty"`
	Type              string   `json:"type,omitempty" yaml:"type,omitempty"`
}

// Animated reports whether the atom changes over time.
func (a *Atom) Animated() bool {
	return a != nil && a.AnimFrames > 1
}

// Equal reports whether a and o describe the same atom, comparing pics by
// value.
func (a *Atom) Equal(o *Atom) bool {
	if a == nil || o == nil {
		return a == o
	}
	x, y := *a, *o
	if (x.Pic == nil) != (y.Pic == nil) || (x.Pic != nil && *x.Pic != *y.Pic) {
		return false
	}
	x.Pic, y.Pic = nil, nil
	return x == y
}

// Ref points at an atom either inline or by registry name.
type Ref struct {
	Name string
	Atom *Atom
}

// Named returns a reference to a registry atom.
func Named(name string) Ref { return Ref{Name: name} }

// Inline returns a reference carrying its own atom.
func Inline(a *Atom) Ref { return Ref{Atom: a} }

// IsZero reports whether the reference points at nothing.
func (r Ref) IsZero() bool { return r.Atom == nil && r.Name == "" }

// Resolver turns a stored reference into the atom it describes. A nil result
// means "nothing here".
type Resolver interface {
	Resolve(Ref) *Atom
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(Ref) *Atom

func (f ResolverFunc) Resolve(r Ref) *Atom { return f(r) }

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Atom != nil {
		return json.Marshal(r.Atom)
	}
	return json.Marshal(r.Name)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = Ref{Name: name}
		return nil
	}
	var a Atom
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("tile ref: %w", err)
	}
	*r = Ref{Atom: &a}
	return nil
}

func (r *Ref) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*r = Ref{Name: n.Value}
		return nil
	}
	var a Atom
	if err := n.Decode(&a); err != nil {
		return fmt.Errorf("tile ref: %w", err)
	}
	*r = Ref{Atom: &a}
	return nil
}

// Pics are written as [sheet, col, row]; the sheet may be a number or a
// string.
func (p Pic) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Sheet, p.Col, p.Row})
}

func (p *Pic) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("pic: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("pic: want 3 elements, got %d", len(raw))
	}
	var sheet any
	if err := json.Unmarshal(raw[0], &sheet); err != nil {
		return fmt.Errorf("pic sheet: %w", err)
	}
	switch v := sheet.(type) {
	case string:
		p.Sheet = v
	case float64:
		p.Sheet = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Errorf("pic sheet: unexpected %T", sheet)
	}
	if err := json.Unmarshal(raw[1], &p.Col); err != nil {
		return fmt.Errorf("pic column: %w", err)
	}
	if err := json.Unmarshal(raw[2], &p.Row); err != nil {
		return fmt.Errorf("pic row: %w", err)
	}
	return nil
}

func (p *Pic) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 3 {
		return fmt.Errorf("pic: line %d: want [sheet, col, row]", n.Line)
	}
	p.Sheet = n.Content[0].Value
	if err := n.Content[1].Decode(&p.Col); err != nil {
		return fmt.Errorf("pic column: %w", err)
	}
	if err := n.Content[2].Decode(&p.Row); err != nil {
		return fmt.Errorf("pic row: %w", err)
	}
	return nil
}

package townmap

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"tilemaptown/tileset"
)

//go:embed schema.json
var schemaJSON string

var (
	mapSchema     *jsonschema.Schema
	mapSchemaErr  error
	mapSchemaOnce sync.Once
)

func schema() (*jsonschema.Schema, error) {
	mapSchemaOnce.Do(func() {
		mapSchema, mapSchemaErr = jsonschema.CompileString("map.schema.json", schemaJSON)
	})
	return mapSchema, mapSchemaErr
}

type mapFile struct {
	ID        string            `json:"id"`
	Name      string            `json:"name,omitempty"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Default   tileset.Ref       `json:"default"`
	EdgeLinks []*string         `json:"edge_links,omitempty"`
	Wallpaper *Wallpaper        `json:"wallpaper,omitempty"`
	Turf      []json.RawMessage `json:"turf,omitempty"`
	Obj       []json.RawMessage `json:"obj,omitempty"`
}

// LoadFile reads a map from path. Files ending in .zst are zstd compressed.
func LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse validates raw JSON against the map schema and decodes it.
func Parse(raw []byte) (*Map, error) {
	s, err := schema()
	if err != nil {
		return nil, fmt.Errorf("map schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("map json: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("map schema: %w", err)
	}

	var f mapFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("map json: %w", err)
	}
	m := New(f.ID, f.Width, f.Height, f.Default)
	m.Info.Name = f.Name
	m.Info.Wallpaper = f.Wallpaper
	for i, link := range f.EdgeLinks {
		if link != nil {
			m.Info.EdgeLinks[i] = *link
		}
	}
	for _, cell := range f.Turf {
		var x, y int
		var ref tileset.Ref
		if err := decodeCell(cell, &x, &y, &ref); err != nil {
			return nil, fmt.Errorf("turf: %w", err)
		}
		if !m.InBounds(x, y) {
			return nil, fmt.Errorf("turf: cell %d,%d outside %dx%d map", x, y, m.Width, m.Height)
		}
		m.SetTurf(x, y, ref)
	}
	for _, cell := range f.Obj {
		var x, y int
		var refs []tileset.Ref
		if err := decodeCell(cell, &x, &y, &refs); err != nil {
			return nil, fmt.Errorf("obj: %w", err)
		}
		if !m.InBounds(x, y) {
			return nil, fmt.Errorf("obj: cell %d,%d outside %dx%d map", x, y, m.Width, m.Height)
		}
		m.SetObjs(x, y, refs)
	}
	return m, nil
}

func decodeCell(raw json.RawMessage, x, y *int, v any) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("want [x, y, value], got %d elements", len(parts))
	}
	if err := json.Unmarshal(parts[0], x); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[1], y); err != nil {
		return err
	}
	return json.Unmarshal(parts[2], v)
}

// Encode writes m in the file format Parse reads. Only cells that differ from
// the default turf are listed.
func Encode(m *Map) ([]byte, error) {
	f := mapFile{
		ID:        m.ID,
		Name:      m.Info.Name,
		Width:     m.Width,
		Height:    m.Height,
		Default:   m.Info.DefaultTurf,
		Wallpaper: m.Info.Wallpaper,
	}
	for i, link := range m.Info.EdgeLinks {
		if link == "" {
			continue
		}
		if f.EdgeLinks == nil {
			f.EdgeLinks = make([]*string, NumEdges)
		}
		l := link
		f.EdgeLinks[i] = &l
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.IsDefaultTurf(x, y) {
				cell, err := json.Marshal([]any{x, y, m.Turf(x, y)})
				if err != nil {
					return nil, err
				}
				f.Turf = append(f.Turf, cell)
			}
			if objs := m.Objs(x, y); len(objs) > 0 {
				cell, err := json.Marshal([]any{x, y, objs})
				if err != nil {
					return nil, err
				}
				f.Obj = append(f.Obj, cell)
			}
		}
	}
	return json.Marshal(f)
}

// SaveFile writes m to path, zstd compressed when the extension is .zst.
func SaveFile(path string, m *Map) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	if err := os.WriteFile(path+".tmp", data, 0o644); err != nil {
		return err
	}
	return os.Rename(path+".tmp", path)
}

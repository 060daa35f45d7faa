package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bridges/pkg/ds"
	errs "github.com/matzehuels/bridges/pkg/errors"
	"github.com/matzehuels/bridges/pkg/pipeline"
)

// structureTypeArray selects an array; any other type is a linked list
// topology accepted by ds.ParseTopology.
const structureTypeArray = "array"

// structureFile describes a data structure to visualize.
//
// Example (TOML):
//
//	type       = "double"
//	title      = "Queue"
//	assignment = "2.0"
//
//	[[nodes]]
//	value = 1
//	color = "red"
//
//	[[nodes]]
//	value = 2
//
//	[[links]]
//	source    = 0
//	target    = 1
//	thickness = 3
type structureFile struct {
	Type            string     `json:"type" toml:"type"`
	Title           string     `json:"title" toml:"title"`
	MapOverlay      bool       `json:"map_overlay" toml:"map_overlay"`
	CoordSystemType string     `json:"coord_system_type" toml:"coord_system_type"`
	Assignment      string     `json:"assignment" toml:"assignment"`
	Dims            [3]int8    `json:"dims" toml:"dims"`
	Nodes           []nodeSpec `json:"nodes" toml:"nodes"`
	Links           []linkSpec `json:"links" toml:"links"`
}

type nodeSpec struct {
	Value    any         `json:"value" toml:"value"`
	Name     string      `json:"name" toml:"name"`
	Color    any         `json:"color" toml:"color"`
	Size     *float32    `json:"size" toml:"size"`
	Location *[2]float32 `json:"location" toml:"location"`
	Shape    string      `json:"shape" toml:"shape"`
}

type linkSpec struct {
	Source    int     `json:"source" toml:"source"`
	Target    int     `json:"target" toml:"target"`
	Color     any     `json:"color" toml:"color"`
	Thickness *uint32 `json:"thickness" toml:"thickness"`
	Weight    *uint32 `json:"weight" toml:"weight"`
}

// loadStructure reads a structure file. Files ending in .toml are TOML;
// everything else is JSON.
func loadStructure(path string) (*structureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sf structureFile
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &sf); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse %s", path)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sf); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse %s", path)
		}
	}
	return &sf, nil
}

// metadata returns the visualization metadata, defaulting to cartesian
// coordinates.
func (sf *structureFile) metadata() pipeline.Metadata {
	meta := pipeline.Metadata{
		Title:           sf.Title,
		MapOverlay:      sf.MapOverlay,
		CoordSystemType: sf.CoordSystemType,
	}
	if meta.CoordSystemType == "" {
		meta.CoordSystemType = pipeline.CoordCartesian
	}
	return meta
}

// container builds the data structure the file describes.
func (sf *structureFile) container() (pipeline.Container, error) {
	elements := make([]ds.Element[any], len(sf.Nodes))
	for i, n := range sf.Nodes {
		e, err := n.element()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "node %d", i)
		}
		elements[i] = e
	}

	kind := strings.ToLower(strings.TrimSpace(sf.Type))
	if kind == "" || kind == structureTypeArray {
		if len(sf.Links) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidInput, "arrays have no links")
		}
		a := ds.NewArray[any]()
		a.Dims = sf.Dims
		for _, e := range elements {
			a.Append(e)
		}
		return a, nil
	}

	topology, err := ds.ParseTopology(kind)
	if err != nil {
		return nil, err
	}
	l := ds.NewLinkedListFunc(topology, func(a, b any) bool { return reflect.DeepEqual(a, b) })
	for _, e := range elements {
		l.Append(e)
	}
	for i, def := range sf.Links {
		link := l.LinkAt(def.Source, def.Target)
		if link == nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "link %d: no %s edge from node %d to node %d",
				i, topology, def.Source, def.Target)
		}
		if err := def.apply(link); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "link %d", i)
		}
	}
	return l, nil
}

func (n nodeSpec) element() (ds.Element[any], error) {
	var opts []ds.ElementOption
	if n.Name != "" {
		opts = append(opts, ds.WithName(n.Name))
	}
	if n.Color != nil {
		c, err := parseColor(n.Color)
		if err != nil {
			return ds.Element[any]{}, err
		}
		opts = append(opts, ds.WithColor(c))
	}
	if n.Size != nil {
		opts = append(opts, ds.WithSize(*n.Size))
	}
	if n.Location != nil {
		opts = append(opts, ds.WithLocation(n.Location[0], n.Location[1]))
	}
	if n.Shape != "" {
		opts = append(opts, ds.WithShape(n.Shape))
	}
	return ds.NewElement(n.Value, opts...), nil
}

func (s linkSpec) apply(l *ds.Link) error {
	if s.Color != nil {
		c, err := parseColor(s.Color)
		if err != nil {
			return err
		}
		l.Color = c
	}
	if s.Thickness != nil {
		l.Thickness = *s.Thickness
	}
	if s.Weight != nil {
		l.Weight = *s.Weight
	}
	return nil
}

// parseColor accepts a color name or [r, g, b] / [r, g, b, a] with channels
// in 0-255 and alpha in 0-1.
func parseColor(v any) ([4]float32, error) {
	switch c := v.(type) {
	case string:
		if rgba, ok := ds.NamedColor(c); ok {
			return rgba, nil
		}
		return [4]float32{}, fmt.Errorf("unknown color %q", c)
	case []any:
		if len(c) != 3 && len(c) != 4 {
			return [4]float32{}, fmt.Errorf("color needs 3 or 4 components, got %d", len(c))
		}
		out := [4]float32{0, 0, 0, 1}
		for i, part := range c {
			f, err := toFloat(part)
			if err != nil {
				return [4]float32{}, fmt.Errorf("color component %d: %w", i, err)
			}
			if i < 3 && (f < 0 || f > 255) {
				return [4]float32{}, fmt.Errorf("color component %d out of range 0-255", i)
			}
			if i == 3 && (f < 0 || f > 1) {
				return [4]float32{}, fmt.Errorf("alpha out of range 0-1")
			}
			out[i] = float32(f)
		}
		return out, nil
	default:
		return [4]float32{}, fmt.Errorf("unsupported color %v", v)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

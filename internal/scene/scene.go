// Package scene loads declarative widget trees and frame scripts from YAML or
// TOML and drives them through a compose.RenderRoot. It backs the
// composetrace tool and the scripted tests of the passes.
package scene

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/layout"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Scene is a widget tree plus a script of frames to run over it.
type Scene struct {
	Name   string  `yaml:"name" toml:"name"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
	// Focus names the widget focused right after the tree is built.
	Focus  string  `yaml:"focus" toml:"focus"`
	Root   Node    `yaml:"root" toml:"root"`
	Frames []Frame `yaml:"frames" toml:"frames"`
}

// Node describes one widget and its children.
type Node struct {
	Name      string    `yaml:"name" toml:"name"`
	Direction string    `yaml:"direction" toml:"direction"`
	Width     Dimension `yaml:"width" toml:"width"`
	Height    Dimension `yaml:"height" toml:"height"`
	MinWidth  Dimension `yaml:"min_width" toml:"min_width"`
	MinHeight Dimension `yaml:"min_height" toml:"min_height"`
	MaxWidth  Dimension `yaml:"max_width" toml:"max_width"`
	MaxHeight Dimension `yaml:"max_height" toml:"max_height"`
	Justify   string    `yaml:"justify" toml:"justify"`
	Align     string    `yaml:"align" toml:"align"`
	Gap       float64   `yaml:"gap" toml:"gap"`
	Grow      float64   `yaml:"grow" toml:"grow"`
	Shrink    *float64  `yaml:"shrink" toml:"shrink"`
	// Padding and Margin take 1, 2 or 4 values, CSS order.
	Padding   []float64 `yaml:"padding" toml:"padding"`
	Margin    []float64 `yaml:"margin" toml:"margin"`
	Intrinsic []float64 `yaml:"intrinsic" toml:"intrinsic"`
	TextInput bool      `yaml:"text_input" toml:"text_input"`
	Children  []Node    `yaml:"children" toml:"children"`
}

// Frame is one step of a scene script. Its edits are applied between passes
// and then layout and compose run.
type Frame struct {
	// Translate sets widget translations by name. A widget's translation is
	// applied by its parent's Compose, the root's by its own.
	Translate map[string][]float64 `yaml:"translate" toml:"translate"`
	// Compose and Layout name widgets that request those passes.
	Compose []string `yaml:"compose" toml:"compose"`
	Layout  []string `yaml:"layout" toml:"layout"`
	// Focus moves focus; an empty string clears it.
	Focus  *string   `yaml:"focus" toml:"focus"`
	Resize []float64 `yaml:"resize" toml:"resize"`
}

// Dimension is a layout length: "auto", a number of pixels, or a percentage
// such as "50%". YAML accepts bare numbers; TOML needs a string.
type Dimension string

// Value converts d to a layout.Value.
func (d Dimension) Value() (layout.Value, error) {
	s := strings.TrimSpace(string(d))
	switch {
	case s == "" || s == "auto":
		return layout.Auto(), nil
	case strings.HasSuffix(s, "%"):
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return layout.Value{}, errors.Newf("invalid percentage %q", s)
		}
		return layout.Percent(p), nil
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return layout.Value{}, errors.Newf("invalid dimension %q", s)
		}
		return layout.Fixed(n), nil
	}
}

// Format is a scene file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, errors.Newf("unrecognized scene extension %q", filepath.Ext(path))
	}
}

// ParseFormat maps "yaml"/"toml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return 0, errors.Newf("unknown scene format %q", s)
	}
}

// Load reads and validates the scene at path.
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading scene")
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return s, nil
}

// Parse decodes and validates a scene. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(err, "decoding yaml scene")
		}
	case FormatTOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&s); err != nil {
			return nil, errors.Wrap(err, "decoding toml scene")
		}
	default:
		return nil, errors.Newf("unknown scene format %d", format)
	}
	if s.Root.Name == "" {
		s.Root.Name = "root"
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFrame decodes a single YAML frame.
func ParseFrame(data []byte) (Frame, error) {
	var f Frame
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return f, errors.Wrap(err, "decoding frame")
	}
	return f, f.validate()
}

func (s *Scene) validate() error {
	if s.Width < 0 || s.Height < 0 {
		return errors.Newf("scene size %gx%g must not be negative", s.Width, s.Height)
	}
	seen := make(map[string]struct{})
	if err := s.Root.validate(seen); err != nil {
		return err
	}
	if s.Focus != "" {
		if _, ok := seen[s.Focus]; !ok {
			return errors.Newf("focus names unknown widget %q", s.Focus)
		}
	}
	for i := range s.Frames {
		if err := s.Frames[i].validate(); err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
	}
	return nil
}

func (n *Node) validate(seen map[string]struct{}) error {
	if n.Name == "" {
		return errors.New("every node needs a name")
	}
	if _, dup := seen[n.Name]; dup {
		return errors.Newf("duplicate node name %q", n.Name)
	}
	seen[n.Name] = struct{}{}
	if _, err := n.Style(); err != nil {
		return errors.Wrapf(err, "node %q", n.Name)
	}
	if _, err := n.IntrinsicSize(); err != nil {
		return errors.Wrapf(err, "node %q", n.Name)
	}
	for i := range n.Children {
		if err := n.Children[i].validate(seen); err != nil {
			return err
		}
	}
	return nil
}

func (f *Frame) validate() error {
	for name, v := range f.Translate {
		if len(v) != 2 {
			return errors.Newf("translation of %q needs 2 values, got %d", name, len(v))
		}
	}
	if f.Resize != nil && (len(f.Resize) != 2 || f.Resize[0] < 0 || f.Resize[1] < 0) {
		return errors.Newf("resize needs 2 non-negative values, got %v", f.Resize)
	}
	return nil
}

// Style converts the node's layout fields to a layout.Style.
func (n *Node) Style() (layout.Style, error) {
	style := layout.DefaultStyle()

	dims := []struct {
		dst *layout.Value
		src Dimension
	}{
		{&style.Width, n.Width},
		{&style.Height, n.Height},
		{&style.MinWidth, n.MinWidth},
		{&style.MinHeight, n.MinHeight},
		{&style.MaxWidth, n.MaxWidth},
		{&style.MaxHeight, n.MaxHeight},
	}
	for _, d := range dims {
		if d.src == "" {
			continue
		}
		v, err := d.src.Value()
		if err != nil {
			return style, err
		}
		*d.dst = v
	}

	switch n.Direction {
	case "", "row":
		style.Direction = layout.Row
	case "column":
		style.Direction = layout.Column
	default:
		return style, errors.Newf("unknown direction %q", n.Direction)
	}

	var err error
	if style.JustifyContent, err = parseJustify(n.Justify); err != nil {
		return style, err
	}
	if style.AlignItems, err = parseAlign(n.Align); err != nil {
		return style, err
	}
	if style.Padding, err = parseEdges(n.Padding); err != nil {
		return style, errors.Wrap(err, "padding")
	}
	if style.Margin, err = parseEdges(n.Margin); err != nil {
		return style, errors.Wrap(err, "margin")
	}

	style.Gap = n.Gap
	style.FlexGrow = n.Grow
	if n.Shrink != nil {
		style.FlexShrink = *n.Shrink
	}
	return style, nil
}

// IntrinsicSize returns the node's natural content size.
func (n *Node) IntrinsicSize() (geom.Size, error) {
	switch len(n.Intrinsic) {
	case 0:
		return geom.Size{}, nil
	case 2:
		return geom.Sz(n.Intrinsic[0], n.Intrinsic[1]), nil
	default:
		return geom.Size{}, errors.Newf("intrinsic needs 2 values, got %d", len(n.Intrinsic))
	}
}

func parseJustify(s string) (layout.Justify, error) {
	switch s {
	case "", "start":
		return layout.JustifyStart, nil
	case "end":
		return layout.JustifyEnd, nil
	case "center":
		return layout.JustifyCenter, nil
	case "space-between":
		return layout.JustifySpaceBetween, nil
	case "space-around":
		return layout.JustifySpaceAround, nil
	case "space-evenly":
		return layout.JustifySpaceEvenly, nil
	default:
		return 0, errors.Newf("unknown justify %q", s)
	}
}

func parseAlign(s string) (layout.Align, error) {
	switch s {
	case "", "stretch":
		return layout.AlignStretch, nil
	case "start":
		return layout.AlignStart, nil
	case "end":
		return layout.AlignEnd, nil
	case "center":
		return layout.AlignCenter, nil
	default:
		return 0, errors.Newf("unknown align %q", s)
	}
}

func parseEdges(v []float64) (geom.Edges, error) {
	switch len(v) {
	case 0:
		return geom.Edges{}, nil
	case 1:
		return geom.EdgeAll(v[0]), nil
	case 2:
		return geom.EdgeSymmetric(v[0], v[1]), nil
	case 4:
		return geom.Edges{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}, nil
	default:
		return geom.Edges{}, errors.Newf("need 1, 2 or 4 values, got %d", len(v))
	}
}

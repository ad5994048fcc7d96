package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/nodecanvas/pkg/diagram"
	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/spatial"
)

// DefaultPortSize is used for ports that do not set a size.
const DefaultPortSize = 10.0

// Format is a scene file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported scene file extension %q (want .toml or .json)", filepath.Ext(path))
	}
}

// Scene is the on-disk form of a diagram.
type Scene struct {
	Canvas      Canvas       `toml:"canvas" json:"canvas"`
	Nodes       []Node       `toml:"nodes" json:"nodes"`
	Connections []Connection `toml:"connections" json:"connections"`
}

// Canvas holds per-scene index settings. Unset fields use the defaults.
type Canvas struct {
	GridSize    *float64 `toml:"grid_size,omitempty" json:"grid_size,omitempty"`
	SegmentSlop *float64 `toml:"segment_slop,omitempty" json:"segment_slop,omitempty"`
}

// Node is a node entry with its ports.
type Node struct {
	ID     string  `toml:"id" json:"id"`
	Label  string  `toml:"label,omitempty" json:"label,omitempty"`
	X      float64 `toml:"x" json:"x"`
	Y      float64 `toml:"y" json:"y"`
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
	Ports  []Port  `toml:"ports,omitempty" json:"ports,omitempty"`
}

// Port is a port entry. DX and DY locate the port center relative to the
// node's top-left corner.
type Port struct {
	ID   string   `toml:"id" json:"id"`
	DX   float64  `toml:"dx" json:"dx"`
	DY   float64  `toml:"dy" json:"dy"`
	Size *float64 `toml:"size,omitempty" json:"size,omitempty"`
}

// Connection is a connection entry referencing ports by ID.
type Connection struct {
	ID        string       `toml:"id" json:"id"`
	From      string       `toml:"from" json:"from"`
	To        string       `toml:"to" json:"to"`
	Waypoints [][2]float64 `toml:"waypoints,omitempty" json:"waypoints,omitempty"`
}

// GridSize returns the configured grid size, or spatial.DefaultGridSize if
// unset. A configured value that is not a finite positive number is an
// INVALID_CONFIG error.
func (s *Scene) GridSize() (float64, error) {
	if s.Canvas.GridSize == nil {
		return spatial.DefaultGridSize, nil
	}
	if err := errors.ValidateGridSize(*s.Canvas.GridSize); err != nil {
		return 0, err
	}
	return *s.Canvas.GridSize, nil
}

// Decode reads a scene in the given format. Malformed input and unknown
// keys are INVALID_FORMAT errors.
func Decode(r io.Reader, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml scene")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q in scene", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json scene")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported scene format %q", format)
	}
	return &s, nil
}

// Load reads the scene file at path.
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, format)
}

// Encode writes the scene in the given format.
func (s *Scene) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(s); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode toml scene")
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode json scene")
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported scene format %q", format)
	}
	return nil
}

// Save writes the scene to path, picking the format from its extension.
func (s *Scene) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := s.Encode(&buf, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// Build turns the scene into a diagram graph. Entries without an ID get a
// random one. Any rejected entry is an INVALID_INPUT error naming it, and
// no graph is returned.
func (s *Scene) Build() (*diagram.Graph, error) {
	var opts []diagram.Option
	if s.Canvas.SegmentSlop != nil {
		if *s.Canvas.SegmentSlop < 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "segment_slop must be non-negative, got %v", *s.Canvas.SegmentSlop)
		}
		opts = append(opts, diagram.WithSegmentSlop(*s.Canvas.SegmentSlop))
	}
	g := diagram.New(opts...)

	for i, n := range s.Nodes {
		id := orNewID(n.ID)
		node := diagram.Node{ID: id, Label: n.Label, Bounds: geom.RectFromLTWH[geom.World](n.X, n.Y, n.Width, n.Height)}
		if err := g.AddNode(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "nodes[%d] %s", i, id)
		}
		for j, p := range n.Ports {
			pid := orNewID(p.ID)
			size := DefaultPortSize
			if p.Size != nil {
				size = *p.Size
			}
			port := diagram.Port{ID: pid, NodeID: id, Anchor: geom.Off[geom.World](p.DX, p.DY), Size: size}
			if err := g.AddPort(port); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "nodes[%d].ports[%d] %s", i, j, pid)
			}
		}
	}

	for i, c := range s.Connections {
		id := orNewID(c.ID)
		conn := diagram.Connection{ID: id, FromPort: c.From, ToPort: c.To}
		for _, w := range c.Waypoints {
			conn.Waypoints = append(conn.Waypoints, geom.Pt[geom.World](w[0], w[1]))
		}
		if err := g.AddConnection(conn); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "connections[%d] %s", i, id)
		}
	}
	return g, nil
}

// FromGraph captures a graph as a scene with the given canvas settings.
func FromGraph(g *diagram.Graph, canvas Canvas) *Scene {
	s := &Scene{Canvas: canvas}
	for _, n := range g.Nodes() {
		entry := Node{
			ID:     n.ID,
			Label:  n.Label,
			X:      n.Bounds.X,
			Y:      n.Bounds.Y,
			Width:  n.Bounds.Width,
			Height: n.Bounds.Height,
		}
		for _, p := range g.Ports(n.ID) {
			entry.Ports = append(entry.Ports, Port{ID: p.ID, DX: p.Anchor.DX, DY: p.Anchor.DY, Size: &p.Size})
		}
		s.Nodes = append(s.Nodes, entry)
	}
	for _, c := range g.Connections() {
		entry := Connection{ID: c.ID, From: c.FromPort, To: c.ToPort}
		for _, w := range c.Waypoints {
			entry.Waypoints = append(entry.Waypoints, [2]float64{w.X, w.Y})
		}
		s.Connections = append(s.Connections, entry)
	}
	return s
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// String summarizes the scene for log lines.
func (s *Scene) String() string {
	return fmt.Sprintf("scene(%d nodes, %d connections)", len(s.Nodes), len(s.Connections))
}

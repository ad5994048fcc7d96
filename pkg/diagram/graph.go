package diagram

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	nerrors "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/geom"
)

var (
	// ErrInvalidID is returned when an ID is empty, malformed, or contains
	// the segment separator '#'.
	ErrInvalidID = errors.New("invalid element ID")

	// ErrDuplicateID is returned when a node, port or connection ID is
	// already in use. IDs are unique across all element kinds.
	ErrDuplicateID = errors.New("duplicate element ID")

	// ErrUnknownNode is returned when an operation references a node that
	// does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownPort is returned when a connection references a port that
	// does not exist.
	ErrUnknownPort = errors.New("unknown port")

	// ErrInvalidGeometry is returned for non-finite or negative-size bounds
	// and non-finite port anchors or waypoints.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// DefaultSegmentSlop is how far connection segment bounds are inflated on
// each side, in world units, so thin strokes stay easy to hit.
const DefaultSegmentSlop = 4.0

// Node is a draggable diagram box.
type Node struct {
	ID     string
	Label  string
	Bounds geom.WorldRect
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Port is a connection point attached to a node.
type Port struct {
	ID     string
	NodeID string
	Anchor geom.WorldOffset // center, relative to the node's top-left corner
	Size   float64          // side of the square hit area
}

// Connection is a directed link between two ports.
type Connection struct {
	ID        string
	FromPort  string
	ToPort    string
	Waypoints []geom.WorldPosition
}

// Graph is a mutable diagram snapshot.
//
// The zero value is not usable - use New to create a Graph.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	ports     map[string]*Port
	nodePorts map[string][]string // node ID -> port IDs
	conns     map[string]*Connection
	connOrder []string
	outgoing  map[string][]string // node ID -> target node IDs, one per connection
	incoming  map[string][]string // node ID -> source node IDs, one per connection
	slop      float64
}

// Option configures a Graph.
type Option func(*Graph)

// WithSegmentSlop overrides [DefaultSegmentSlop]. Negative values are ignored.
func WithSegmentSlop(s float64) Option {
	return func(g *Graph) {
		if s >= 0 {
			g.slop = s
		}
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:     make(map[string]*Node),
		ports:     make(map[string]*Port),
		nodePorts: make(map[string][]string),
		conns:     make(map[string]*Connection),
		outgoing:  make(map[string][]string),
		incoming:  make(map[string][]string),
		slop:      DefaultSegmentSlop,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) checkNewID(what, id string) error {
	if err := nerrors.ValidateID(what, id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, nerrors.UserMessage(err))
	}
	if strings.Contains(id, "#") {
		return fmt.Errorf("%w: %s id %q cannot contain '#'", ErrInvalidID, what, id)
	}
	_, n := g.nodes[id]
	_, p := g.ports[id]
	_, c := g.conns[id]
	if n || p || c {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	return nil
}

func checkBounds(r geom.WorldRect) error {
	if !r.IsFinite() || r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: bounds %s", ErrInvalidGeometry, r)
	}
	return nil
}

// AddNode adds a node. Returns ErrInvalidID, ErrDuplicateID or
// ErrInvalidGeometry.
func (g *Graph) AddNode(n Node) error {
	if err := g.checkNewID("node", n.ID); err != nil {
		return err
	}
	if err := checkBounds(n.Bounds); err != nil {
		return fmt.Errorf("node %s: %w", n.ID, err)
	}
	g.nodes[n.ID] = &n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	return nil
}

// AddPort attaches a port to an existing node. Size must be non-negative.
func (g *Graph) AddPort(p Port) error {
	if err := g.checkNewID("port", p.ID); err != nil {
		return err
	}
	if _, ok := g.nodes[p.NodeID]; !ok {
		return fmt.Errorf("port %s: %w: %s", p.ID, ErrUnknownNode, p.NodeID)
	}
	if !p.Anchor.IsFinite() || !(p.Size >= 0) || math.IsInf(p.Size, 1) {
		return fmt.Errorf("port %s: %w: anchor %s size %v", p.ID, ErrInvalidGeometry, p.Anchor, p.Size)
	}
	g.ports[p.ID] = &p
	g.nodePorts[p.NodeID] = append(g.nodePorts[p.NodeID], p.ID)
	return nil
}

// AddConnection links two existing ports. Multiple connections between the
// same ports are allowed, as are connections from a node to itself.
func (g *Graph) AddConnection(c Connection) error {
	if err := g.checkNewID("connection", c.ID); err != nil {
		return err
	}
	from, ok := g.ports[c.FromPort]
	if !ok {
		return fmt.Errorf("connection %s: %w: %s", c.ID, ErrUnknownPort, c.FromPort)
	}
	to, ok := g.ports[c.ToPort]
	if !ok {
		return fmt.Errorf("connection %s: %w: %s", c.ID, ErrUnknownPort, c.ToPort)
	}
	for _, w := range c.Waypoints {
		if !w.IsFinite() {
			return fmt.Errorf("connection %s: %w: waypoint %s", c.ID, ErrInvalidGeometry, w)
		}
	}
	c.Waypoints = slices.Clone(c.Waypoints)
	g.conns[c.ID] = &c
	g.connOrder = append(g.connOrder, c.ID)
	g.outgoing[from.NodeID] = append(g.outgoing[from.NodeID], to.NodeID)
	g.incoming[to.NodeID] = append(g.incoming[to.NodeID], from.NodeID)
	return nil
}

// RemoveConnection deletes a connection and returns the IDs of its path
// segments so the caller can drop them from an index. Returns false if
// the connection does not exist.
func (g *Graph) RemoveConnection(id string) ([]string, bool) {
	c, ok := g.conns[id]
	if !ok {
		return nil, false
	}
	segs := g.segmentIDs(c)
	from, to := g.ports[c.FromPort].NodeID, g.ports[c.ToPort].NodeID

	delete(g.conns, id)
	g.connOrder = slices.DeleteFunc(g.connOrder, func(s string) bool { return s == id })
	g.outgoing[from] = removeOne(g.outgoing[from], to)
	g.incoming[to] = removeOne(g.incoming[to], from)
	return segs, true
}

// RemoveNode deletes a node together with its ports and every connection
// attached to them. It returns the IDs of all removed index elements.
func (g *Graph) RemoveNode(id string) ([]string, bool) {
	if _, ok := g.nodes[id]; !ok {
		return nil, false
	}
	removed := []string{id}
	for _, cid := range g.attachedConnections(id) {
		segs, _ := g.RemoveConnection(cid)
		removed = append(removed, segs...)
	}
	for _, pid := range g.nodePorts[id] {
		delete(g.ports, pid)
		removed = append(removed, pid)
	}
	delete(g.nodePorts, id)
	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(s string) bool { return s == id })
	return removed, true
}

// MoveNode translates a node (and with it its ports and the ends of
// attached connections) by delta.
func (g *Graph) MoveNode(id string, delta geom.WorldOffset) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return g.SetNodeBounds(id, n.Bounds.Translate(delta))
}

// ResizeNode sets a node's width and height, keeping its top-left corner.
// Port anchors are not rescaled.
func (g *Graph) ResizeNode(id string, size geom.WorldOffset) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return g.SetNodeBounds(id, geom.RectFromLTWH[geom.World](n.Bounds.X, n.Bounds.Y, size.DX, size.DY))
}

// SetNodeBounds replaces a node's bounds.
func (g *Graph) SetNodeBounds(id string, r geom.WorldRect) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if err := checkBounds(r); err != nil {
		return fmt.Errorf("node %s: %w", id, err)
	}
	n.Bounds = r
	return nil
}

// Node returns a copy of the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Port returns a copy of the port with the given ID.
func (g *Graph) Port(id string) (Port, bool) {
	p, ok := g.ports[id]
	if !ok {
		return Port{}, false
	}
	return *p, true
}

// Connection returns a copy of the connection with the given ID.
func (g *Graph) Connection(id string) (Connection, bool) {
	c, ok := g.conns[id]
	if !ok {
		return Connection{}, false
	}
	out := *c
	out.Waypoints = slices.Clone(c.Waypoints)
	return out, true
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = *g.nodes[id]
	}
	return out
}

// Ports returns copies of the ports of a node in insertion order.
func (g *Graph) Ports(nodeID string) []Port {
	ids := g.nodePorts[nodeID]
	out := make([]Port, len(ids))
	for i, id := range ids {
		out[i] = *g.ports[id]
	}
	return out
}

// Connections returns copies of all connections in insertion order.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, 0, len(g.connOrder))
	for _, id := range g.connOrder {
		c, _ := g.Connection(id)
		out = append(out, c)
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// PortCount returns the number of ports.
func (g *Graph) PortCount() int { return len(g.ports) }

// ConnectionCount returns the number of connections.
func (g *Graph) ConnectionCount() int { return len(g.conns) }

// ConnectionsBetween counts the connections from node "from" to node "to".
// Parallel connections are counted individually.
func (g *Graph) ConnectionsBetween(from, to string) int {
	n := 0
	for _, t := range g.outgoing[from] {
		if t == to {
			n++
		}
	}
	return n
}

// NodeIDs returns node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.nodeOrder) }

// Children returns the target node of every connection leaving id, one
// entry per connection. The slice must not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the source node of every connection entering id, one
// entry per connection. The slice must not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// NodeBounds returns the bounds of a node.
func (g *Graph) NodeBounds(id string) (geom.WorldRect, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return geom.WorldRect{}, false
	}
	return n.Bounds, true
}

// PortCenter returns the world position of a port's center.
func (g *Graph) PortCenter(id string) (geom.WorldPosition, bool) {
	p, ok := g.ports[id]
	if !ok {
		return geom.WorldPosition{}, false
	}
	return g.nodes[p.NodeID].Bounds.TopLeft().Add(p.Anchor), true
}

// Path returns the polyline of a connection: source port center, the
// waypoints, then target port center.
func (g *Graph) Path(id string) ([]geom.WorldPosition, bool) {
	c, ok := g.conns[id]
	if !ok {
		return nil, false
	}
	return g.path(c), true
}

func (g *Graph) path(c *Connection) []geom.WorldPosition {
	from, _ := g.PortCenter(c.FromPort)
	to, _ := g.PortCenter(c.ToPort)
	pts := make([]geom.WorldPosition, 0, len(c.Waypoints)+2)
	pts = append(pts, from)
	pts = append(pts, c.Waypoints...)
	return append(pts, to)
}

// attachedConnections returns the IDs of connections touching any port of
// the node, in insertion order.
func (g *Graph) attachedConnections(nodeID string) []string {
	var out []string
	for _, id := range g.connOrder {
		c := g.conns[id]
		if g.ports[c.FromPort].NodeID == nodeID || g.ports[c.ToPort].NodeID == nodeID {
			out = append(out, id)
		}
	}
	return out
}

func removeOne(s []string, v string) []string {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}

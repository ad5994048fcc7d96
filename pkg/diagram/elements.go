package diagram

import (
	"errors"
	"strconv"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/spatial"
)

// Indexer is the part of a spatial index that Sync needs.
// *spatial.Index satisfies it.
type Indexer interface {
	Update(e spatial.Element) error
	Remove(id string) bool
}

// SegmentID names the n-th straight piece of a connection path.
func SegmentID(connID string, n int) string {
	return connID + "#" + strconv.Itoa(n)
}

// SegmentSlop returns the inflation applied to connection segment bounds.
func (g *Graph) SegmentSlop() float64 { return g.slop }

// Elements returns index elements for every node, port and connection
// segment, in that order.
func (g *Graph) Elements() []spatial.Element {
	out := make([]spatial.Element, 0, len(g.nodes)+len(g.ports)+len(g.conns))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodeElement(id))
		out = append(out, g.portElements(id)...)
	}
	for _, id := range g.connOrder {
		out = append(out, g.segmentElements(g.conns[id])...)
	}
	return out
}

// NodeElements returns everything whose geometry depends on the node: the
// node itself, its ports, and the segments of every attached connection.
// Call it after MoveNode or SetNodeBounds and pass the result to Sync.
func (g *Graph) NodeElements(id string) []spatial.Element {
	if _, ok := g.nodes[id]; !ok {
		return nil
	}
	out := []spatial.Element{g.nodeElement(id)}
	out = append(out, g.portElements(id)...)
	for _, cid := range g.attachedConnections(id) {
		out = append(out, g.segmentElements(g.conns[cid])...)
	}
	return out
}

// ConnectionElements returns the segment elements of one connection.
func (g *Graph) ConnectionElements(id string) []spatial.Element {
	c, ok := g.conns[id]
	if !ok {
		return nil
	}
	return g.segmentElements(c)
}

func (g *Graph) nodeElement(id string) spatial.Element {
	return spatial.Element{ID: id, Kind: spatial.KindNode, Bounds: g.nodes[id].Bounds}
}

func (g *Graph) portElements(nodeID string) []spatial.Element {
	ids := g.nodePorts[nodeID]
	out := make([]spatial.Element, 0, len(ids))
	for _, pid := range ids {
		p := g.ports[pid]
		c, _ := g.PortCenter(pid)
		out = append(out, spatial.Element{
			ID:     pid,
			Kind:   spatial.KindPort,
			Bounds: geom.RectFromCenter(c, p.Size, p.Size),
		})
	}
	return out
}

func (g *Graph) segmentElements(c *Connection) []spatial.Element {
	pts := g.path(c)
	out := make([]spatial.Element, 0, len(pts)-1)
	for i := 0; i+1 < len(pts); i++ {
		out = append(out, spatial.Element{
			ID:     SegmentID(c.ID, i),
			Kind:   spatial.KindConnection,
			Bounds: geom.RectFromPoints(pts[i], pts[i+1]).Inflate(g.slop),
		})
	}
	return out
}

func (g *Graph) segmentIDs(c *Connection) []string {
	n := len(c.Waypoints) + 1
	out := make([]string, n)
	for i := range n {
		out[i] = SegmentID(c.ID, i)
	}
	return out
}

// Sync pushes elements into ix. Every element is attempted; failures are
// joined into the returned error and leave the index entry for that
// element unchanged.
func Sync(ix Indexer, elems []spatial.Element) error {
	var errs []error
	for _, e := range elems {
		if err := ix.Update(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Unsync removes the given element IDs from ix and returns how many were
// present.
func Unsync(ix Indexer, ids []string) int {
	n := 0
	for _, id := range ids {
		if ix.Remove(id) {
			n++
		}
	}
	return n
}

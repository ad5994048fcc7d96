// Package topology provides stateless structural analysis of a diagram's
// node/connection graph: cycle detection, orphan and connected-component
// analysis, source/sink discovery and bounding-rect aggregation.
//
// # Graph Model
//
// Functions accept any [Graph]: a set of node IDs plus directed adjacency.
// Parallel connections between the same pair of nodes collapse into one
// edge for analysis; a connection from a node to itself is a legal edge and
// forms a cycle of length one.
//
// # Live Graphs
//
// Nothing is cached between calls. Every function re-derives its answer
// from the graph it is handed, so adding or removing a single connection
// and calling again reflects exactly that change.
//
// # Determinism
//
// Traversal follows the order of [Graph.NodeIDs] and of each adjacency
// list, so results are stable for a given graph.
//
// # Concurrency
//
// Functions never mutate the graph and may run concurrently with each
// other, but not concurrently with a mutation of the same graph.
package topology

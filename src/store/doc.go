// Package store records the outcome of spanning tree computations.
//
// Every completed run is saved as a Run: the input graph, the tree edges the
// nodes agreed on, the result of the comparison with the sequential Kruskal
// algorithm, and a summary of each node's final state. Runs are numbered from
// 0 in the order they are added.
//
// InmemStore keeps runs in memory. BadgerStore persists them in a Badger
// database so that they can be inspected after the process exits.
package store

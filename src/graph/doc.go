// Package graph defines the value types exchanged by GHS nodes (Weight and
// Edge) and the graph supplier that hands every vertex its incident edges.
//
// Weights are totally ordered: by value first, then by the lower endpoint id,
// then by the higher endpoint id. This makes every edge weight in a graph
// distinct, which the GHS algorithm relies on to resolve minimum outgoing edge
// ties deterministically.
//
// Graphs can be built programmatically with NewGraph or loaded from a text
// file with Load. The file format is:
//
//  <number of vertices>
//  <u> <v> <weight>
//  ...
//
// Vertices are numbered from 1 to n. Empty lines and lines starting with '#'
// are ignored.
package graph

package graph

import "errors"

var (
	// ErrInvalidEdge is returned when an edge is constructed with equal
	// endpoints.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrUnknownNeighbor is returned when a node looks up an edge to a node
	// that is not one of its neighbors.
	ErrUnknownNeighbor = errors.New("unknown neighbor")

	// ErrInvalidGraph is returned when a graph fails validation: duplicate
	// edges, vertices out of range, reserved weights, or no vertices.
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrDisconnected is returned when a graph is not connected.
	ErrDisconnected = errors.New("graph is not connected")
)

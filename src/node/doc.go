// Package node implements the Gallager-Humblet-Spira protocol for computing a
// minimum spanning tree with one autonomous actor per vertex.
//
// Core
//
// The Core holds the protocol state of a vertex: the classification of each
// incident edge (Unknown, InMST, NotInMST), the level and name of its
// fragment, the tree edge towards the fragment core, and the search for the
// minimum outgoing edge. Handle applies one message to that state and may send
// messages to neighbours. Messages that arrive before the node can process
// them are parked in one of three deferral queues (TEST, REPORT, CONNECT) and
// replayed as soon as their precondition holds.
//
// When the two halves of the core find no outgoing edge, the fragment spans
// the whole graph. They enter the Halted state and flood HALT down the tree,
// so that every node learns that the algorithm is over. A halted node refuses
// CONNECT, INITIATE and TEST messages.
//
// Node
//
// The Node wraps a Core in an event loop. It restores the per-edge send order
// of incoming messages, stamps outgoing ones with per-edge clocks, resolves
// neighbours through a peers.Directory, and delivers messages from background
// routines with bounded retries. A protocol fault stops the faulty node only;
// it is logged and available through Err.
package node

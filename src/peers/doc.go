// Package peers maps node identifiers to the addresses where their transports
// can be reached.
//
// A node only ever talks to its neighbours in the graph, and it names them by
// vertex id. Before sending, it resolves the id through a Directory. An id
// without an entry is reported as not found; the caller decides what to do
// about it.
//
// When nodes run as separate processes, the directory is loaded from a
// peers.json file in the data directory:
//
//	[
//	  {"ID": 1, "NetAddr": "127.0.0.1:1337", "Moniker": "node1"},
//	  {"ID": 2, "NetAddr": "127.0.0.1:1338", "Moniker": "node2"}
//	]
package peers

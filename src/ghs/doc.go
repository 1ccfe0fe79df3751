// Package ghs is the bootstrap engine of a distributed minimum spanning tree
// computation.
//
// An engine reads or generates a graph, creates one protocol node per vertex
// and wires the nodes together, either over in-memory transports with
// simulated network delays (Init) or, for a single vertex of a multi-process
// deployment, over TCP with the addresses listed in peers.json (InitNode).
//
// Run wakes the initiators up and waits until every local node has halted.
// The branches of the nodes are then collected, compared with the tree found
// by a sequential Kruskal run, and recorded in the store:
//
//  engine := ghs.NewGHS(conf)
//  if err := engine.Init(); err != nil {
//  	return err
//  }
//  defer engine.Shutdown()
//
//  run, err := engine.Run(ctx)
package ghs

// Package config defines the configuration of a GHS run.
//
// The same Config object drives the in-process simulation (run command) and
// the single vertex deployment over TCP (node command). On top of the options
// it holds, the data directory, defined by Config.DataDir, may contain a few
// additional files:
//
//  ghs.toml // (optional) configuration file read by the CLI (.json and .yaml also work).
//  graph.txt // (optional) graph description, one "u v w" edge per line after the vertex count.
//  peers.json // the address of every vertex, required by the node command.
//  badger_db/ // the run database, when Store is set.
package config

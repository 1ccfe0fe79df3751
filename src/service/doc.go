// Package service implements a HTTP API service to inspect a GHS run.
//
// Endpoints:
//
//  /stats        stats of every node, keyed by node id
//  /stats/{id}   stats of one node
//  /mst          spanning tree of the last finished run
//  /run/{index}  full record of a stored run
package service

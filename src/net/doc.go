// Package net carries protocol messages between nodes.
//
// A Message is stamped by its sender with a clock that counts the messages
// sent on the same edge. The receiving node runs incoming messages through a
// Reorderer, which releases them in send order per edge and lets messages on
// different edges interleave freely.
//
// Two implementations of the Transport interface are provided:
//
// - Inmem: every node lives in the same process. Each message is delayed by an
// injectable Delay (NoDelay, FixedDelay, RandomDelay) to simulate an
// asynchronous network.
//
// - TCP: every node binds a TCP socket. Messages are framed with a version
// byte and encoded with msgpack. Set BindAddr, and optionally AdvertiseAddr
// when BindAddr is not reachable by the other nodes.
package net

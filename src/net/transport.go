package net

import "errors"

var (
	// ErrTransportShutdown is returned when operations on a transport are
	// invoked after it's been terminated.
	ErrTransportShutdown = errors.New("transport shutdown")

	// ErrUnknownTarget is returned when a transport has no route to the
	// target address.
	ErrUnknownTarget = errors.New("unknown target")
)

// Transport provides an interface for network transports
// to allow a node to communicate with its neighbours.
type Transport interface {

	// Starts the transport listening
	Listen()

	// Consumer returns a channel on which incoming messages are delivered.
	Consumer() <-chan *Message

	// LocalAddr is used to return our local address
	LocalAddr() string

	// AdvertiseAddr is used to return our advertise address where other nodes
	// can reach us
	AdvertiseAddr() string

	// Send delivers a message to the transport listening at target. It does
	// not wait for any answer from the remote node.
	Send(target string, msg *Message) error

	// Close permanently closes a transport, stopping
	// any associated goroutines and freeing other resources.
	Close() error
}

package node

import (
	"errors"
	"fmt"
)

// ErrUnresolved is returned when the directory has no address for a neighbour.
var ErrUnresolved = errors.New("neighbour not registered in directory")

// ProtocolErrType classifies the invariant a message or a local operation
// violated.
type ProtocolErrType uint32

const (
	// SelfConnect is a CONNECT whose sender is the receiving node.
	SelfConnect ProtocolErrType = iota
	// InitiateNotInMST is an INITIATE that did not arrive over a tree edge.
	InitiateNotInMST
	// UnexpectedAccept is an ACCEPT that does not answer the current test.
	UnexpectedAccept
	// UnexpectedReject is a REJECT that does not answer the current test.
	UnexpectedReject
	// ReportNotInMST is a REPORT that did not arrive over a tree edge.
	ReportNotInMST
	// UnexpectedReport is a REPORT from a child that owes no report.
	UnexpectedReport
	// IllegalEdgeState is an edge classification that would go back to
	// Unknown or change a final classification.
	IllegalEdgeState
	// NoBestEdge is a root change while no outgoing edge is known.
	NoBestEdge
	// UnknownMessage is a message with an unknown type.
	UnknownMessage
)

// String ...
func (t ProtocolErrType) String() string {
	switch t {
	case SelfConnect:
		return "Self Connect"
	case InitiateNotInMST:
		return "Initiate Not In MST"
	case UnexpectedAccept:
		return "Unexpected Accept"
	case UnexpectedReject:
		return "Unexpected Reject"
	case ReportNotInMST:
		return "Report Not In MST"
	case UnexpectedReport:
		return "Unexpected Report"
	case IllegalEdgeState:
		return "Illegal Edge State"
	case NoBestEdge:
		return "No Best Edge"
	case UnknownMessage:
		return "Unknown Message"
	default:
		return "Unknown"
	}
}

// ProtocolError is a broken protocol invariant. There is no way to recover
// from it locally, so the node that detects it stops.
type ProtocolError struct {
	node    int
	errType ProtocolErrType
	detail  string
}

// NewProtocolError ...
func NewProtocolError(node int, errType ProtocolErrType, detail string) ProtocolError {
	return ProtocolError{
		node:    node,
		errType: errType,
		detail:  detail,
	}
}

// Error ...
func (e ProtocolError) Error() string {
	return fmt.Sprintf("node %d, %s, %s", e.node, e.errType, e.detail)
}

// Type returns the violated invariant.
func (e ProtocolError) Type() ProtocolErrType {
	return e.errType
}

// IsProtocol checks that err is, or wraps, a ProtocolError of type t.
func IsProtocol(err error, t ProtocolErrType) bool {
	var perr ProtocolError
	return errors.As(err, &perr) && perr.errType == t
}

package net

import (
	"fmt"

	"github.com/jensdewaard/dist-alg3/src/graph"
	"github.com/jensdewaard/dist-alg3/src/node/state"
)

// MessageType tags a Message with the protocol operation it carries.
type MessageType uint8

const (
	// Connect asks the receiver to join fragments across the edge.
	Connect MessageType = iota
	// Initiate broadcasts a new fragment identity and starts a search round.
	Initiate
	// Test probes whether the edge leads out of the fragment.
	Test
	// Accept answers a Test from a different fragment.
	Accept
	// Reject answers a Test from the same fragment.
	Reject
	// Report sends the lightest outgoing weight of a subtree to its parent.
	Report
	// ChangeRoot moves the fragment root towards the minimum outgoing edge.
	ChangeRoot
	// Halt announces that the spanning tree is complete.
	Halt
)

// String returns the wire name of a MessageType
func (t MessageType) String() string {
	switch t {
	case Connect:
		return "CONNECT"
	case Initiate:
		return "INITIATE"
	case Test:
		return "TEST"
	case Accept:
		return "ACCEPT"
	case Reject:
		return "REJECT"
	case Report:
		return "REPORT"
	case ChangeRoot:
		return "CHANGEROOT"
	case Halt:
		return "HALT"
	default:
		return fmt.Sprintf("MessageType(%d)", uint8(t))
	}
}

// Message is the envelope exchanged between neighbouring nodes. Clock is the
// per-edge sequence number stamped by the sender. Core holds the fragment name
// for INITIATE and TEST, and the reported weight for REPORT. Level is set on
// CONNECT, INITIATE and TEST, and State only on INITIATE. The other fields
// are zero.
type Message struct {
	Type  MessageType
	Clock uint64
	From  int
	To    int
	Core  graph.Weight
	Level int
	State state.State
}

// String renders the fields that are meaningful for the message type.
func (m *Message) String() string {
	switch m.Type {
	case Connect:
		return fmt.Sprintf("%s(%d->%d #%d, level=%d)", m.Type, m.From, m.To, m.Clock, m.Level)
	case Initiate:
		return fmt.Sprintf("%s(%d->%d #%d, level=%d, core=%s, state=%s)",
			m.Type, m.From, m.To, m.Clock, m.Level, m.Core, m.State)
	case Test:
		return fmt.Sprintf("%s(%d->%d #%d, level=%d, core=%s)", m.Type, m.From, m.To, m.Clock, m.Level, m.Core)
	case Report:
		return fmt.Sprintf("%s(%d->%d #%d, weight=%s)", m.Type, m.From, m.To, m.Clock, m.Core)
	default:
		return fmt.Sprintf("%s(%d->%d #%d)", m.Type, m.From, m.To, m.Clock)
	}
}

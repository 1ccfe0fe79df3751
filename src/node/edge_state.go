package node

// EdgeState is the classification of an incident edge. It starts as Unknown
// and changes at most once, to InMST or NotInMST.
type EdgeState uint8

const (
	// Unknown edges have not been classified yet.
	Unknown EdgeState = iota
	// InMST edges are branches of the spanning tree.
	InMST
	// NotInMST edges join two nodes of the same fragment.
	NotInMST
)

// String ...
func (s EdgeState) String() string {
	switch s {
	case Unknown:
		return "Unknown"
	case InMST:
		return "InMST"
	case NotInMST:
		return "NotInMST"
	default:
		return "Invalid"
	}
}

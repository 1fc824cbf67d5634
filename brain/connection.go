// Package brain implements the stack-machine builder and the synchronous
// four-pass runtime that interprets a compiled gene program.
package brain

// PeerKind tags which wire a Connection field's peer-id is routed through.
// The numbering is arbitrary; it just needs to distinguish the handful of
// pin types a connection can point at.
type PeerKind int

const (
	KindNone PeerKind = iota
	KindGlobalInput
	KindSumsiOut
	KindSumsiIn
	KindWeightCtrl
	KindWeightOut
)

// Connection is the per-weight-unit wiring record: an outgoing pin, an
// incoming (data) pin, and a control pin, each tagged with the kind of peer
// it names. KindNone (the zero value) marks an unconnected pin; for
// sumsi/weight peer ids (which start at 1) a peer id of 0 is equivalent,
// but global-input peer id 0 is a legitimate wire, so the kind tag is
// always the authoritative check, never a bare peer-id==0 comparison.
type Connection struct {
	OutPeerID   int
	OutPeerKind PeerKind // KindSumsiIn or KindWeightCtrl

	InPeerID   int
	InPeerKind PeerKind // KindGlobalInput or KindSumsiOut

	CtrlPeerID   int
	CtrlPeerKind PeerKind // KindWeightOut or KindSumsiOut
}

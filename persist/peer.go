package persist

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/csirmaz/brainevo/gene"
)

// PeerState is the peer-exchange state machine: the signal handler only
// ever stores a state transition; all file I/O and outbound signalling
// happens later, from the main-loop tick.
type PeerState int

const (
	// StateNoop is the resting state: nothing outstanding.
	StateNoop PeerState = iota
	// StateDownload means this process asked its peer for an elite
	// (sent SIGUSR1) and is waiting for the peer's SIGUSR1 ack.
	StateDownload
	// StateDownloadReady means a file is ready to be read on the next
	// tick — either our own download request was ack'd, or the peer
	// pushed its elite to us directly (SIGUSR2).
	StateDownloadReady
	// StateUpload means either this process pushed a file and is
	// awaiting the peer's SIGUSR2 ack, or the peer asked us to upload
	// (SIGUSR1) and we owe it a file write plus an ack signal.
	StateUpload
)

// peerRole disambiguates the two situations StateDownloadReady/StateUpload
// can mean, since the same four public states are shared by both the
// requester and responder sides of the protocol.
type peerRole int

const (
	roleNone peerRole = iota
	roleRequesterDownload
	roleResponderDownload
	roleRequesterUpload
	roleResponderUpload
)

// Peer drives the shared-file, signal-triggered elite-exchange protocol
// against a single named peer process. SIGUSR1 is the "send me your
// elite" request/ack channel, SIGUSR2 is the "I've pushed mine, go read
// it" push/ack channel. A signal that the current state does not expect
// (anything other than the awaited ack while an operation is outstanding)
// is a protocol violation and is fatal.
type Peer struct {
	FilePath string
	PeerPID  int

	state PeerState
	role  peerRole
	sigCh chan os.Signal
}

// NewPeer creates a Peer listening for SIGUSR1/SIGUSR2, targeting
// peerPID for outbound signals. peerPID <= 0 disables peer exchange
// entirely — every method becomes a no-op, so callers don't need to
// branch on whether a peer was configured.
func NewPeer(filePath string, peerPID int) *Peer {
	p := &Peer{
		FilePath: filePath,
		PeerPID:  peerPID,
		sigCh:    make(chan os.Signal, 4),
	}
	if p.Enabled() {
		signal.Notify(p.sigCh, syscall.SIGUSR1, syscall.SIGUSR2)
	}
	return p
}

// Enabled reports whether peer exchange is active for this run.
func (p *Peer) Enabled() bool {
	return p.PeerPID > 0
}

// Close stops listening for peer-exchange signals.
func (p *Peer) Close() {
	if p.Enabled() {
		signal.Stop(p.sigCh)
	}
}

// RequestDownload asks the peer to send its current elite: sends SIGUSR1
// and enters StateDownload to await the peer's ack. Only valid from
// StateNoop.
func (p *Peer) RequestDownload() error {
	if !p.Enabled() {
		return nil
	}
	if p.state != StateNoop {
		return fmt.Errorf("persist: cannot request download, peer exchange already in state %d", p.state)
	}
	if err := syscall.Kill(p.PeerPID, syscall.SIGUSR1); err != nil {
		return fmt.Errorf("persist: signalling peer %d: %w", p.PeerPID, err)
	}
	p.state = StateDownload
	p.role = roleRequesterDownload
	return nil
}

// RequestUpload pushes g to the peer immediately, then sends SIGUSR2 and
// enters StateUpload to await the peer's ack. Only valid from StateNoop.
func (p *Peer) RequestUpload(g *gene.Genome) error {
	if !p.Enabled() {
		return nil
	}
	if p.state != StateNoop {
		return fmt.Errorf("persist: cannot request upload, peer exchange already in state %d", p.state)
	}
	if err := p.writeFile(g); err != nil {
		return err
	}
	if err := syscall.Kill(p.PeerPID, syscall.SIGUSR2); err != nil {
		return fmt.Errorf("persist: signalling peer %d: %w", p.PeerPID, err)
	}
	p.state = StateUpload
	p.role = roleRequesterUpload
	return nil
}

// PollSignals drains pending signals without blocking, applying state
// transitions. Call this once per main-loop tick, before Tick.
func (p *Peer) PollSignals() error {
	if !p.Enabled() {
		return nil
	}
	for {
		select {
		case sig := <-p.sigCh:
			if err := p.handleSignal(sig); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (p *Peer) handleSignal(sig os.Signal) error {
	switch p.state {
	case StateNoop:
		switch sig {
		case syscall.SIGUSR1:
			// The peer wants our elite: we owe it a file write plus a
			// SIGUSR1 ack, performed at the next tick.
			p.state = StateUpload
			p.role = roleResponderUpload
		case syscall.SIGUSR2:
			// The peer already pushed its elite: the file is ready to
			// read at the next tick, after which we owe a SIGUSR2 ack.
			p.state = StateDownloadReady
			p.role = roleResponderDownload
		default:
			return fmt.Errorf("persist: unexpected signal %v in state NOOP", sig)
		}

	case StateDownload:
		if sig != syscall.SIGUSR1 {
			return fmt.Errorf("persist: signal %v arrived while awaiting download ack, protocol violation", sig)
		}
		p.state = StateDownloadReady
		// role stays roleRequesterDownload

	case StateUpload:
		if p.role != roleRequesterUpload || sig != syscall.SIGUSR2 {
			return fmt.Errorf("persist: signal %v arrived while peer exchange was in state %d, protocol violation", sig, p.state)
		}
		p.state = StateNoop
		p.role = roleNone

	default:
		return fmt.Errorf("persist: signal %v arrived while peer exchange was in state %d, protocol violation", sig, p.state)
	}
	return nil
}

// Tick performs the file I/O and any outbound ack signal that the
// current state calls for. uploadGenome supplies this pool's current
// elite for a responder-upload tick. It returns a non-nil genome exactly
// once, the tick a download (requested or pushed) completes, for the
// caller to splice into its pool.
func (p *Peer) Tick(uploadGenome func() *gene.Genome) (*gene.Genome, error) {
	if !p.Enabled() {
		return nil, nil
	}

	switch {
	case p.state == StateUpload && p.role == roleResponderUpload:
		if err := p.writeFile(uploadGenome()); err != nil {
			return nil, err
		}
		if err := syscall.Kill(p.PeerPID, syscall.SIGUSR1); err != nil {
			return nil, fmt.Errorf("persist: acking peer %d: %w", p.PeerPID, err)
		}
		p.state = StateNoop
		p.role = roleNone
		return nil, nil

	case p.state == StateDownloadReady && p.role == roleRequesterDownload:
		g, err := p.readFile()
		if err != nil {
			return nil, err
		}
		p.state = StateNoop
		p.role = roleNone
		return g, nil

	case p.state == StateDownloadReady && p.role == roleResponderDownload:
		g, err := p.readFile()
		if err != nil {
			return nil, err
		}
		if err := syscall.Kill(p.PeerPID, syscall.SIGUSR2); err != nil {
			return nil, fmt.Errorf("persist: acking peer %d: %w", p.PeerPID, err)
		}
		p.state = StateNoop
		p.role = roleNone
		return g, nil

	default:
		return nil, nil
	}
}

func (p *Peer) writeFile(g *gene.Genome) error {
	f, err := os.Create(p.FilePath)
	if err != nil {
		return fmt.Errorf("persist: peer exchange: creating %s: %w", p.FilePath, err)
	}
	defer f.Close()
	if err := gene.WriteGenome(f, g); err != nil {
		return fmt.Errorf("persist: peer exchange: writing %s: %w", p.FilePath, err)
	}
	return nil
}

func (p *Peer) readFile() (*gene.Genome, error) {
	f, err := os.Open(p.FilePath)
	if err != nil {
		return nil, fmt.Errorf("persist: peer exchange: opening %s: %w", p.FilePath, err)
	}
	defer f.Close()
	g, err := gene.ReadGenome(f)
	if err != nil {
		return nil, fmt.Errorf("persist: peer exchange: reading %s: %w", p.FilePath, err)
	}
	return g, nil
}

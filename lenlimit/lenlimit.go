// Package lenlimit implements the length-limit negotiation protocol that
// cooperatively adjusts the plain frame codec's maximum payload length
// between peers.
package lenlimit

import (
	"encoding/binary"
	"sync"

	"github.com/my4ng/hermit/frame"
)

// Range is an acceptable subrange of [frame.MinLenLimit, frame.MaxLenLimit]
// a responder is willing to adopt.
type Range struct {
	Min, Max int
}

// FullRange accepts any value in the protocol's global bounds.
func FullRange() Range {
	return Range{Min: frame.MinLenLimit, Max: frame.MaxLenLimit}
}

// Contains reports whether n falls within r.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// DecideFunc is the responder policy hook: given a peer's requested new
// limit (already known to be in-range and non-conflicting), it decides
// whether to accept. This is the mechanism/policy split the original
// Rust source (client/len_limit.rs) keeps separate: the protocol rules in
// the table below are mechanism, DecideFunc is policy.
type DecideFunc func(requested int) bool

// AlwaysAccept is a DecideFunc that accepts every in-range, non-conflicting
// request.
func AlwaysAccept(int) bool { return true }

// Negotiator drives the length-limit protocol for one peer, mutating a
// frame.Codec's current limit once a request is accepted. It implements the
// decision table:
//
//	new_limit not in [MIN, MAX]         -> local error, never sent
//	responder has its own outstanding request -> reply false
//	new_limit outside responder's acceptable range -> reply false
//	otherwise                            -> reply per DecideFunc
type Negotiator struct {
	codec *frame.Codec

	mu         sync.Mutex
	acceptable Range
	requested  *int
}

// New creates a Negotiator bound to codec, initially accepting the full
// protocol range.
func New(codec *frame.Codec) *Negotiator {
	return &Negotiator{codec: codec, acceptable: FullRange()}
}

// SetAcceptableRange restricts the range of peer-requested limits this side
// will agree to as a responder.
func (n *Negotiator) SetAcceptableRange(r Range) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.acceptable = r
}

// Requested reports the outstanding locally-initiated request, if any.
func (n *Negotiator) Requested() (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.requested == nil {
		return 0, false
	}
	return *n.requested, true
}

// Request validates newLimit and, if valid and no request is already
// outstanding, returns the AdjustLenLimitRequest frame to send and records
// the outstanding request. It does not touch the codec's current limit;
// that happens in HandleResponse once the peer replies.
func (n *Negotiator) Request(newLimit int) (frame.Frame, error) {
	if newLimit < frame.MinLenLimit || newLimit > frame.MaxLenLimit {
		return frame.Frame{}, &Error{Kind: KindInvalidLimit, Value: newLimit}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.requested != nil {
		return frame.Frame{}, &Error{Kind: KindOngoingRequest, Value: newLimit}
	}
	v := newLimit
	n.requested = &v
	return frame.New(frame.AdjustLenLimitRequest, encodeRequest(newLimit)), nil
}

// HandleResponse consumes the peer's AdjustLenLimitResponse. If accepted is
// true, the codec's current limit is updated to the previously-requested
// value immediately: the requester applies it upon receiving the accepting
// response.
func (n *Negotiator) HandleResponse(accepted bool) error {
	n.mu.Lock()
	if n.requested == nil {
		n.mu.Unlock()
		return &Error{Kind: KindNoOngoingRequest}
	}
	newLimit := *n.requested
	n.requested = nil
	n.mu.Unlock()

	if accepted {
		n.codec.SetCurrentLimit(newLimit)
	}
	return nil
}

// Decide evaluates an inbound AdjustLenLimitRequest against the decision
// table and returns whether it is accepted and the AdjustLenLimitResponse
// frame to send. It does not mutate the codec's current limit: the caller
// must send the response frame first and only then call Commit, so that no
// frame larger than the previously-agreed limit is ever in flight when the
// change takes effect.
func (n *Negotiator) Decide(requestedLimit int, decide DecideFunc) (accepted bool, resp frame.Frame) {
	n.mu.Lock()
	ongoing := n.requested != nil
	inRange := n.acceptable.Contains(requestedLimit)
	n.mu.Unlock()

	accepted = !ongoing && inRange && decide(requestedLimit)
	return accepted, frame.New(frame.AdjustLenLimitResponse, encodeResponse(accepted))
}

// Commit applies newLimit to the codec if accepted. Call this only after
// the corresponding response frame has been sent (and, ideally, flushed).
func (n *Negotiator) Commit(newLimit int, accepted bool) {
	if accepted {
		n.codec.SetCurrentLimit(newLimit)
	}
}

func encodeRequest(newLimit int) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(newLimit))
	return buf
}

// DecodeRequest parses an AdjustLenLimitRequest payload.
func DecodeRequest(payload []byte) (int, error) {
	if len(payload) != 2 {
		return 0, &Error{Kind: KindInvalidLimit, Value: len(payload)}
	}
	return int(binary.BigEndian.Uint16(payload)), nil
}

func encodeResponse(accepted bool) []byte {
	if accepted {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeResponse parses an AdjustLenLimitResponse payload.
func DecodeResponse(payload []byte) (bool, error) {
	if len(payload) != 1 {
		return false, &Error{Kind: KindInvalidLimit, Value: len(payload)}
	}
	return payload[0] != 0, nil
}

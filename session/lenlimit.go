package session

import (
	"github.com/my4ng/hermit/frame"
	"github.com/my4ng/hermit/lenlimit"
)

// RequestLenLimit sends an AdjustLenLimitRequest for newLimit. Legal in
// Insecure and Secure; either side may initiate.
func (s *Session) RequestLenLimit(newLimit int) error {
	if err := s.requireState("RequestLenLimit", StateInsecure, StateSecure); err != nil {
		return err
	}
	f, err := s.neg.Request(newLimit)
	if err != nil {
		return err
	}
	if err := s.codec.Send(f); err != nil {
		return s.closeFatal(err)
	}
	if err := s.codec.Flush(); err != nil {
		return s.closeFatal(err)
	}
	s.log.Debug().Int("new_limit", newLimit).Msg("sent AdjustLenLimitRequest")
	return nil
}

// RecvLenLimitRequest receives the peer's next AdjustLenLimitRequest,
// evaluates it against decide (the responder policy hook), sends the
// response, and — on acceptance — applies the new limit immediately after
// the response is flushed, so that no frame larger than the previous limit
// is ever in flight when the change takes effect.
func (s *Session) RecvLenLimitRequest(decide lenlimit.DecideFunc) (accepted bool, err error) {
	if err := s.requireState("RecvLenLimitRequest", StateInsecure, StateSecure); err != nil {
		return false, err
	}

	f, err := s.codec.Recv()
	if err != nil {
		if fe, ok := err.(*frame.Error); ok && fe.Fatal() {
			return false, s.closeFatal(err)
		}
		return false, err
	}
	if f.Type != frame.AdjustLenLimitRequest {
		return false, illegalState("RecvLenLimitRequest", s.State())
	}
	requested, err := lenlimit.DecodeRequest(f.Payload)
	if err != nil {
		return false, err
	}

	accepted, resp := s.neg.Decide(requested, decide)
	if err := s.codec.Send(resp); err != nil {
		return false, s.closeFatal(err)
	}
	if err := s.codec.Flush(); err != nil {
		return false, s.closeFatal(err)
	}
	s.neg.Commit(requested, accepted)
	s.log.Debug().Int("requested", requested).Bool("accepted", accepted).Msg("handled AdjustLenLimitRequest")
	return accepted, nil
}

// RecvLenLimitResponse receives the peer's next AdjustLenLimitResponse for
// an outstanding locally-initiated request and, on acceptance, adopts the
// new limit.
func (s *Session) RecvLenLimitResponse() (accepted bool, err error) {
	if err := s.requireState("RecvLenLimitResponse", StateInsecure, StateSecure); err != nil {
		return false, err
	}

	f, err := s.codec.Recv()
	if err != nil {
		if fe, ok := err.(*frame.Error); ok && fe.Fatal() {
			return false, s.closeFatal(err)
		}
		return false, err
	}
	if f.Type != frame.AdjustLenLimitResponse {
		return false, illegalState("RecvLenLimitResponse", s.State())
	}
	accepted, err = lenlimit.DecodeResponse(f.Payload)
	if err != nil {
		return false, err
	}
	if err := s.neg.HandleResponse(accepted); err != nil {
		return false, err
	}
	return accepted, nil
}

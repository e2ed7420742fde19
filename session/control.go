package session

import "github.com/my4ng/hermit/frame"

// SendDowngrade sends a Downgrade frame and transitions Secure -> Insecure,
// destroying the session's secure-stream secrets first: a downgrade or
// disconnect must drop key material before acknowledging the state change
// to callers. Either side may call this unilaterally.
func (s *Session) SendDowngrade() error {
	if err := s.requireState("SendDowngrade", StateSecure); err != nil {
		return err
	}
	s.destroySecrets()
	if err := s.codec.Send(frame.New(frame.Downgrade, nil)); err != nil {
		return s.closeFatal(err)
	}
	if err := s.codec.Flush(); err != nil {
		return s.closeFatal(err)
	}
	s.setState(StateInsecure)
	s.log.Info().Msg("sent Downgrade")
	return nil
}

// RecvDowngrade receives a Downgrade frame and transitions Secure ->
// Insecure, destroying SessionSecrets.
func (s *Session) RecvDowngrade() error {
	if err := s.requireState("RecvDowngrade", StateSecure); err != nil {
		return err
	}
	f, err := s.codec.Recv()
	if err != nil {
		if fe, ok := err.(*frame.Error); ok && fe.Fatal() {
			return s.closeFatal(err)
		}
		return err
	}
	if f.Type != frame.Downgrade {
		return illegalState("RecvDowngrade", s.State())
	}
	s.destroySecrets()
	s.setState(StateInsecure)
	s.log.Info().Msg("received Downgrade")
	return nil
}

// Disconnect performs a graceful, locally-initiated shutdown: flush any
// pending frames, send Disconnect, and transition to Closed. Legal from
// Insecure or Secure.
func (s *Session) Disconnect() error {
	if err := s.requireState("Disconnect", StateInsecure, StateSecure); err != nil {
		return err
	}
	if err := s.codec.Flush(); err != nil {
		return s.closeFatal(err)
	}
	if err := s.codec.Send(frame.New(frame.Disconnect, nil)); err != nil {
		return s.closeFatal(err)
	}
	if err := s.codec.Flush(); err != nil {
		return s.closeFatal(err)
	}
	s.destroySecrets()
	s.abortHandshake()
	s.setState(StateClosed)
	s.log.Info().Msg("disconnected (local)")
	return s.ch.Close()
}

// RecvDisconnect handles a remote-initiated Disconnect: immediate teardown,
// no flush of pending outbound frames (they are discarded — no plaintext
// crosses a session state boundary). Legal from Insecure or Secure.
func (s *Session) RecvDisconnect() error {
	if err := s.requireState("RecvDisconnect", StateInsecure, StateSecure); err != nil {
		return err
	}
	f, err := s.codec.Recv()
	if err != nil {
		if fe, ok := err.(*frame.Error); ok && fe.Fatal() {
			return s.closeFatal(err)
		}
		return err
	}
	if f.Type != frame.Disconnect {
		return illegalState("RecvDisconnect", s.State())
	}
	s.destroySecrets()
	s.setState(StateClosed)
	s.log.Info().Msg("disconnected (remote)")
	return s.ch.Close()
}

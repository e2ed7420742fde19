package session

import (
	"github.com/my4ng/hermit/frame"
	"github.com/my4ng/hermit/handshake"
	"github.com/my4ng/hermit/secure"
)

// SendClientHello begins a handshake: Insecure -> Handshaking. Client
// role only.
func (s *Session) SendClientHello() error {
	if err := s.requireRole("SendClientHello", RoleClient); err != nil {
		return err
	}
	if err := s.requireState("SendClientHello", StateInsecure); err != nil {
		return err
	}

	cs, hello, err := handshake.NewClientSide(s.serverSigKey)
	if err != nil {
		return err
	}
	f := frame.New(frame.ClientHello, hello.Encode())
	if err := s.codec.Send(f); err != nil {
		cs.Abort()
		return s.closeFatal(err)
	}
	if err := s.codec.Flush(); err != nil {
		cs.Abort()
		return s.closeFatal(err)
	}

	s.mu.Lock()
	s.clientSide = cs
	s.mu.Unlock()
	s.setState(StateHandshaking)
	s.log.Debug().Msg("sent ClientHello")
	return nil
}

// RecvClientHello receives and parses the peer's ClientHello: Insecure ->
// Handshaking on the server side.
func (s *Session) RecvClientHello() error {
	if err := s.requireRole("RecvClientHello", RoleServer); err != nil {
		return err
	}
	if err := s.requireState("RecvClientHello", StateInsecure); err != nil {
		return err
	}

	f, err := s.codec.Recv()
	if err != nil {
		if fe, ok := err.(*frame.Error); ok && fe.Fatal() {
			return s.closeFatal(err)
		}
		return err
	}
	if f.Type != frame.ClientHello {
		return illegalState("RecvClientHello", s.State())
	}
	ch, err := handshake.DecodeClientHello(f.Payload)
	if err != nil {
		return err
	}

	ss, err := handshake.NewServerSide(s.signKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.serverSide = ss
	s.pendingClientHello = &ch
	s.mu.Unlock()
	s.setState(StateHandshaking)
	s.log.Debug().Msg("received ClientHello")
	return nil
}

// SendServerHello completes the server's half of the handshake: derives
// SessionSecrets and sends the signed ServerHello, transitioning
// Handshaking -> Secure. Server role only; must follow a successful
// RecvClientHello.
func (s *Session) SendServerHello() error {
	if err := s.requireRole("SendServerHello", RoleServer); err != nil {
		return err
	}
	if err := s.requireState("SendServerHello", StateHandshaking); err != nil {
		return err
	}

	s.mu.Lock()
	ss := s.serverSide
	ch := s.pendingClientHello
	s.mu.Unlock()
	if ss == nil || ch == nil {
		return illegalState("SendServerHello", s.State())
	}

	sh, secrets, err := ss.Complete(*ch)
	if err != nil {
		// Crypto failure during handshake drops back to Insecure, not Closed.
		s.clearHandshakeState()
		s.setState(StateInsecure)
		return err
	}

	f := frame.New(frame.ServerHello, sh.Encode())
	if err := s.codec.Send(f); err != nil {
		return s.closeFatal(err)
	}
	if err := s.codec.Flush(); err != nil {
		return s.closeFatal(err)
	}

	if err := s.activateSecure(secrets); err != nil {
		return s.closeFatal(err)
	}
	s.clearHandshakeState()
	s.setState(StateSecure)
	s.log.Info().Msg("handshake complete (server)")
	return nil
}

// RecvServerHello receives and validates the server's ServerHello,
// transitioning Handshaking -> Secure on success or Handshaking -> Insecure
// on a signature failure. Client role only.
func (s *Session) RecvServerHello() error {
	if err := s.requireRole("RecvServerHello", RoleClient); err != nil {
		return err
	}
	if err := s.requireState("RecvServerHello", StateHandshaking); err != nil {
		return err
	}

	f, err := s.codec.Recv()
	if err != nil {
		if fe, ok := err.(*frame.Error); ok && fe.Fatal() {
			return s.closeFatal(err)
		}
		return err
	}
	if f.Type != frame.ServerHello {
		return illegalState("RecvServerHello", s.State())
	}
	sh, err := handshake.DecodeServerHello(f.Payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	cs := s.clientSide
	s.mu.Unlock()
	if cs == nil {
		return illegalState("RecvServerHello", s.State())
	}

	secrets, err := cs.Complete(sh)
	if err != nil {
		s.clearHandshakeState()
		s.setState(StateInsecure)
		s.log.Warn().Err(err).Msg("handshake signature verification failed")
		return err
	}

	if err := s.activateSecure(secrets); err != nil {
		return s.closeFatal(err)
	}
	s.clearHandshakeState()
	s.setState(StateSecure)
	s.log.Info().Msg("handshake complete (client)")
	return nil
}

func (s *Session) activateSecure(secrets *secure.Secrets) error {
	rec, err := secure.NewRecord(secrets)
	if err != nil {
		secrets.Destroy()
		return err
	}
	s.mu.Lock()
	s.secrets = secrets
	s.record = rec
	s.stream = secure.NewStream(s.codec, rec)
	s.mu.Unlock()
	return nil
}

func (s *Session) clearHandshakeState() {
	s.mu.Lock()
	s.clientSide = nil
	s.serverSide = nil
	s.pendingClientHello = nil
	s.mu.Unlock()
}

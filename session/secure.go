package session

import "github.com/my4ng/hermit/wireobj"

// SendSecure encodes v with the application object codec and writes it
// through the AEAD-sealed secure stream. Legal only in Secure.
func (s *Session) SendSecure(v any) error {
	if err := s.requireState("SendSecure", StateSecure); err != nil {
		return err
	}
	s.mu.Lock()
	stream := s.stream
	obj := s.obj
	if obj == nil {
		obj = wireobj.New()
		s.obj = obj
	}
	s.mu.Unlock()

	if err := obj.Send(stream, v); err != nil {
		return err
	}
	return nil
}

// RecvSecure decodes the next application object from the secure stream
// into v. An AEAD authentication failure or an unexpected frame type is
// fatal and closes the session. Legal only in Secure.
func (s *Session) RecvSecure(v any) error {
	if err := s.requireState("RecvSecure", StateSecure); err != nil {
		return err
	}
	s.mu.Lock()
	stream := s.stream
	obj := s.obj
	if obj == nil {
		obj = wireobj.New()
		s.obj = obj
	}
	s.mu.Unlock()

	if err := obj.Recv(stream, v); err != nil {
		if se, ok := err.(interface{ Fatal() bool }); ok && se.Fatal() {
			return s.closeFatal(err)
		}
		return err
	}
	return nil
}

// Package session implements the typestate-shaped controller that gates
// which Hermit operations are legal at any moment, owning the base
// channel, the plain frame codec, the length-limit negotiator, and the
// state-specific handshake/secure resources.
package session

import (
	"crypto/ed25519"
	"sync"

	"github.com/my4ng/hermit/channel"
	"github.com/my4ng/hermit/frame"
	"github.com/my4ng/hermit/handshake"
	"github.com/my4ng/hermit/lenlimit"
	"github.com/my4ng/hermit/secure"
	"github.com/my4ng/hermit/wireobj"
	"github.com/rs/zerolog"
)

// Config configures a Session at construction time. The zero value is
// usable: an unset Logger disables logging and an unset LimitMultiplier
// falls back to frame.DefaultLimitMultiplier.
type Config struct {
	// AcceptableLenLimitRange restricts which peer-requested frame length
	// limits this side will agree to as a responder. The zero value means
	// lenlimit.FullRange().
	AcceptableLenLimitRange lenlimit.Range
	// LimitMultiplier overrides frame.DefaultLimitMultiplier for the
	// outbound queue back-pressure ceiling.
	LimitMultiplier int
	// Logger receives structured session-lifecycle events (state
	// transitions, handshake outcome, fatal errors). It never receives key
	// material or plaintext. The zero value is a no-op logger.
	Logger zerolog.Logger
}

// Session is one side (client or server) of a Hermit connection. It owns
// exactly one base channel, one plain frame codec, one length-limit
// negotiator, and the resources belonging to its current State.
type Session struct {
	role Role
	cfg  Config
	log  zerolog.Logger

	ch    channel.Channel
	codec *frame.Codec
	neg   *lenlimit.Negotiator

	mu    sync.Mutex
	state State

	// Handshaking-state resources, set while state == StateHandshaking:
	// clientSide on the client, serverSide and pendingClientHello on the
	// server.
	clientSide         *handshake.ClientSide
	serverSide         *handshake.ServerSide
	pendingClientHello *handshake.ClientHello

	// Role-scoped handshake identity.
	serverSigKey ed25519.PublicKey  // client: the server's known public key
	signKey      ed25519.PrivateKey // server: this server's own signing key

	// Secure-state resources.
	secrets *secure.Secrets
	record  *secure.Record
	stream  *secure.Stream
	obj     *wireobj.Codec
}

func newSession(role Role, ch channel.Channel, cfg Config) *Session {
	mult := cfg.LimitMultiplier
	if mult == 0 {
		mult = frame.DefaultLimitMultiplier
	}
	codec := frame.NewCodec(ch, frame.WithLimitMultiplier(mult))
	neg := lenlimit.New(codec)
	if cfg.AcceptableLenLimitRange != (lenlimit.Range{}) {
		neg.SetAcceptableRange(cfg.AcceptableLenLimitRange)
	}
	return &Session{
		role:  role,
		cfg:   cfg,
		log:   cfg.Logger,
		ch:    ch,
		codec: codec,
		neg:   neg,
		state: StateInsecure, // "connect" (NoConnection -> Insecure) folded into construction
	}
}

// NewClient creates a client-side Session already connected over ch,
// expecting the server to authenticate with serverSigKey (known
// out-of-band).
func NewClient(ch channel.Channel, serverSigKey ed25519.PublicKey, cfg Config) *Session {
	s := newSession(RoleClient, ch, cfg)
	s.serverSigKey = serverSigKey
	return s
}

// NewServer creates a server-side Session already connected over ch,
// authenticating with signKey.
func NewServer(ch channel.Channel, signKey ed25519.PrivateKey, cfg Config) *Session {
	s := newSession(RoleServer, ch, cfg)
	s.signKey = signKey
	return s
}

// State returns the session's current typestate tag.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Role returns whether this Session is the client or server side.
func (s *Session) Role() Role { return s.role }

// SetAcceptableLenLimitRange restricts the range of peer-requested frame
// length limits this side will agree to as a responder.
func (s *Session) SetAcceptableLenLimitRange(r lenlimit.Range) {
	s.neg.SetAcceptableRange(r)
}

// CurrentLenLimit returns the frame codec's current negotiated payload
// length limit.
func (s *Session) CurrentLenLimit() int { return s.codec.CurrentLimit() }

// requireState checks the current state against want and returns an
// IllegalStateError naming op if it does not match. This centralizes the
// "operation invoked in the wrong state" check in one small helper every
// guarded method calls.
func (s *Session) requireState(op string, want ...State) error {
	s.mu.Lock()
	got := s.state
	s.mu.Unlock()
	for _, w := range want {
		if got == w {
			return nil
		}
	}
	return illegalState(op, got, want...)
}

func (s *Session) requireRole(op string, want Role) error {
	if s.role != want {
		return wrongRole(op, s.role, want)
	}
	return nil
}

func (s *Session) setState(new State) {
	s.mu.Lock()
	s.state = new
	s.mu.Unlock()
}

// closeFatal transitions to Closed, destroying any live secrets, and closes
// the base channel. Used for transport-fatal errors and AEAD open failures.
func (s *Session) closeFatal(cause error) error {
	s.destroySecrets()
	s.abortHandshake()
	s.setState(StateClosed)
	s.log.Error().Err(cause).Msg("session closed fatally")
	s.ch.Close()
	return cause
}

func (s *Session) destroySecrets() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secrets != nil {
		s.secrets.Destroy()
		s.secrets = nil
		s.record = nil
		s.stream = nil
	}
}

func (s *Session) abortHandshake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clientSide != nil {
		s.clientSide.Abort()
		s.clientSide = nil
	}
	if s.serverSide != nil {
		s.serverSide.Abort()
		s.serverSide = nil
	}
	s.pendingClientHello = nil
}

package session

// State is the session's typestate tag. Rather than a family of distinct
// carrier types parameterized on the operation vocabulary, this is a
// single tagged-variant state: Session owns the union of all
// state-specific resources (the handshake context, the secure-stream
// secrets) and gates access to them by checking the tag before every
// operation.
type State int

const (
	// StateNoConnection: no base channel attached yet.
	StateNoConnection State = iota
	// StateInsecure: channel attached, no cryptographic protection.
	StateInsecure
	// StateHandshaking: a ClientHello/ServerHello exchange is in flight;
	// the session owns a handshake.Context (client or server side) and the
	// expected/owned signing key.
	StateHandshaking
	// StateSecure: the handshake completed; the session owns SessionSecrets
	// and application Send/RecvSecure are legal.
	StateSecure
	// StateClosed: terminal. No further operations are legal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNoConnection:
		return "NoConnection"
	case StateInsecure:
		return "Insecure"
	case StateHandshaking:
		return "Handshaking"
	case StateSecure:
		return "Secure"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Role identifies which side of the protocol a Session plays. A handful of
// operations (SendClientHello/RecvClientHello, SendServerHello/
// RecvServerHello) are asymmetric and only legal for one Role.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

func (r Role) String() string {
	if r == RoleServer {
		return "server"
	}
	return "client"
}

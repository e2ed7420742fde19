// Command hermit-server is a demonstration Hermit server: it accepts TCP
// connections, completes the secure handshake, and serves the
// SendResource/ReceiveResource demo envelopes defined in
// internal/resource. It is a CLI harness for the pieces a production
// deployment owns itself (base transport, application payload semantics,
// persistent storage, process supervision), built with
// github.com/spf13/cobra and github.com/rs/zerolog for structured logging.
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/my4ng/hermit/channel"
	"github.com/my4ng/hermit/internal/resource"
	"github.com/my4ng/hermit/lenlimit"
	"github.com/my4ng/hermit/session"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

var (
	flagAddr string
	logger   = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
)

var rootCmd = &cobra.Command{
	Use:   "hermit-server",
	Short: "Demo Hermit server: accepts connections and serves resource blobs over a secure session",
	RunE:  runServer,
}

func init() {
	rootCmd.Flags().StringVar(&flagAddr, "addr", ":4433", "TCP listen address")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal().Err(err).Msg("hermit-server exited with error")
	}
}

// store is a trivial in-memory stand-in for a persistent resource store.
type store struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newStore() *store { return &store{data: make(map[string][]byte)} }

func (s *store) put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = data
}

func (s *store) get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[name]
	return d, ok
}

func runServer(cmd *cobra.Command, args []string) error {
	priv := ed25519.NewKeyFromSeed(frand.Bytes(ed25519.SeedSize))
	pub := priv.Public().(ed25519.PublicKey)
	logger.Info().Str("server_pub", base64.StdEncoding.EncodeToString(pub)).
		Msg("generated ephemeral server identity; pass this to hermit-client --server-pub")

	ln, err := net.Listen("tcp", flagAddr)
	if err != nil {
		return err
	}
	defer ln.Close()
	logger.Info().Str("addr", ln.Addr().String()).Msg("listening")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info().Msg("shutting down")
		cancel()
		ln.Close()
	}()

	st := newStore()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go handleConn(ctx, conn, priv, st)
	}
}

func handleConn(ctx context.Context, conn net.Conn, priv ed25519.PrivateKey, st *store) {
	connLog := logger.With().Str("remote", conn.RemoteAddr().String()).Logger()
	sess := session.NewServer(channel.FromConn(conn), priv, session.Config{
		AcceptableLenLimitRange: lenlimit.FullRange(),
		Logger:                  connLog,
	})

	if err := sess.RecvClientHello(); err != nil {
		connLog.Warn().Err(err).Msg("handshake failed at ClientHello")
		return
	}
	if err := sess.SendServerHello(); err != nil {
		connLog.Warn().Err(err).Msg("handshake failed at ServerHello")
		return
	}
	connLog.Info().Msg("session secure")

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveOneExchange(gCtx, sess, st, connLog)
	})
	if err := g.Wait(); err != nil {
		connLog.Info().Err(err).Msg("connection closed")
	}
}

// serveOneExchange serves the fixed demo sequence a hermit-client performs
// on each connection: one SendResourceRequest/Response followed by one
// ReceiveResourceRequest/Response, then the peer's Disconnect. The wire
// protocol does not need to distinguish request kinds by a discriminant
// tag because the sequence is fixed by this demo harness, not by the
// secure session layer underneath it.
func serveOneExchange(ctx context.Context, sess *session.Session, st *store, log zerolog.Logger) error {
	var sendReq resource.SendResourceRequest
	if err := sess.RecvSecure(&sendReq); err != nil {
		return err
	}
	st.put(sendReq.Name, sendReq.Data)
	log.Info().Str("name", sendReq.Name).Int("bytes", len(sendReq.Data)).Msg("stored resource")
	if err := sess.SendSecure(&resource.SendResourceResponse{OK: true, Message: "stored"}); err != nil {
		return err
	}

	var recvReq resource.ReceiveResourceRequest
	if err := sess.RecvSecure(&recvReq); err != nil {
		return err
	}
	data, found := st.get(recvReq.Name)
	log.Info().Str("name", recvReq.Name).Bool("found", found).Msg("served resource")
	if err := sess.SendSecure(&resource.ReceiveResourceResponse{Found: found, Data: data}); err != nil {
		return err
	}

	return sess.RecvDisconnect()
}

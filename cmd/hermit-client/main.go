// Command hermit-client is a demonstration Hermit client: it dials a
// hermit-server, completes the secure handshake, stores one resource blob
// and immediately reads it back, exercising the full protocol stack
// (handshake, AEAD record layer, application codec binding) end to end.
package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"net"

	"github.com/my4ng/hermit/channel"
	"github.com/my4ng/hermit/internal/resource"
	"github.com/my4ng/hermit/session"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagAddr      string
	flagServerPub string
	flagName      string
	flagData      string
	logger        = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
)

var rootCmd = &cobra.Command{
	Use:   "hermit-client",
	Short: "Demo Hermit client: stores and retrieves one resource blob over a secure session",
	RunE:  runClient,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagAddr, "addr", "127.0.0.1:4433", "hermit-server address to dial")
	flags.StringVar(&flagServerPub, "server-pub", "", "base64 Ed25519 public key printed by hermit-server (required)")
	flags.StringVar(&flagName, "name", "greeting", "resource name to store and fetch")
	flags.StringVar(&flagData, "data", "hello from hermit", "resource payload to store")
	rootCmd.MarkFlagRequired("server-pub")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal().Err(err).Msg("hermit-client exited with error")
	}
}

func runClient(cmd *cobra.Command, args []string) error {
	pubBytes, err := base64.StdEncoding.DecodeString(flagServerPub)
	if err != nil {
		return fmt.Errorf("decode --server-pub: %w", err)
	}
	if len(pubBytes) != ed25519.PublicKeySize {
		return fmt.Errorf("--server-pub: want %d bytes, got %d", ed25519.PublicKeySize, len(pubBytes))
	}
	serverPub := ed25519.PublicKey(pubBytes)

	conn, err := net.Dial("tcp", flagAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	sess := session.NewClient(channel.FromConn(conn), serverPub, session.Config{Logger: logger})

	if err := sess.SendClientHello(); err != nil {
		return fmt.Errorf("send ClientHello: %w", err)
	}
	if err := sess.RecvServerHello(); err != nil {
		return fmt.Errorf("recv ServerHello: %w", err)
	}
	logger.Info().Msg("session secure")

	sendReq := resource.SendResourceRequest{Name: flagName, Data: []byte(flagData)}
	if err := sess.SendSecure(&sendReq); err != nil {
		return fmt.Errorf("send SendResourceRequest: %w", err)
	}
	var sendResp resource.SendResourceResponse
	if err := sess.RecvSecure(&sendResp); err != nil {
		return fmt.Errorf("recv SendResourceResponse: %w", err)
	}
	logger.Info().Bool("ok", sendResp.OK).Str("message", sendResp.Message).Msg("store response")

	recvReq := resource.ReceiveResourceRequest{Name: flagName}
	if err := sess.SendSecure(&recvReq); err != nil {
		return fmt.Errorf("send ReceiveResourceRequest: %w", err)
	}
	var recvResp resource.ReceiveResourceResponse
	if err := sess.RecvSecure(&recvResp); err != nil {
		return fmt.Errorf("recv ReceiveResourceResponse: %w", err)
	}
	logger.Info().Bool("found", recvResp.Found).Str("data", string(recvResp.Data)).Msg("fetch response")

	return sess.Disconnect()
}

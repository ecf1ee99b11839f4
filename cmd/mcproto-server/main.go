// Command mcproto-server runs a minimal Minecraft Java Edition server that
// speaks the protocol far enough to answer server-list pings and accept
// logins, then drops connected players into an empty Play loop.
package main

import (
	"fmt"
	"net"
	"os"
	"sync/atomic"

	"github.com/mcproto/core/mcconfig"
	"github.com/mcproto/core/mcconn"
	"github.com/mcproto/core/mclog"
	"github.com/mcproto/core/session"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "mcproto-server",
		Usage: "serve the Minecraft Java Edition protocol (1.20.1 / 763)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Value: mcconfig.New().ListenAddr,
				Usage: "address to listen on",
			},
			&cli.IntFlag{
				Name:  "compression-threshold",
				Value: mcconfig.DefaultCompressionThreshold,
				Usage: "packet size at which to compress; negative disables compression entirely",
			},
			&cli.IntFlag{
				Name:  "protocol-version",
				Value: int(mcconfig.DefaultProtocolVersion),
				Usage: "protocol version to require of connecting clients",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable verbose connection logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "mcproto-server:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := mcconfig.New(
		mcconfig.WithListenAddr(c.String("listen")),
		mcconfig.WithCompressionThreshold(c.Int("compression-threshold")),
		mcconfig.WithProtocolVersion(int32(c.Int("protocol-version"))),
		mcconfig.WithDebug(c.Bool("debug")),
	)

	log, err := mclog.NewProduction(cfg.Debug)
	if err != nil {
		return fmt.Errorf("mcproto-server: build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("mcproto-server: listen on %s: %w", cfg.ListenAddr, err)
	}
	defer func() { _ = listener.Close() }()

	log.Info("listening", zap.String("addr", cfg.ListenAddr), zap.Int32("protocol", cfg.ProtocolVersion))

	var connected atomic.Int64
	for {
		netConn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("mcproto-server: accept: %w", err)
		}
		go serveConn(netConn, cfg, log, &connected)
	}
}

func serveConn(netConn net.Conn, cfg mcconfig.Config, log *mclog.Logger, connected *atomic.Int64) {
	defer func() { _ = netConn.Close() }()

	conn := mcconn.New(netConn, log)
	srv := session.NewServerSession(conn, cfg, log)

	err := srv.Run(func(event session.PlayEvent) error {
		log.Debugf("play packet", zap.Int32("id", event.Packet.ID()))
		return nil
	})
	if err != nil {
		log.Debugf("session ended", zap.Stringer("remote", netConn.RemoteAddr()), zap.Error(err))
		return
	}

	connected.Add(1)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/nstehr/vimy/swarm-core/agent"
	"github.com/nstehr/vimy/swarm-core/ipc"
	"github.com/nstehr/vimy/swarm-core/macro"
	"github.com/nstehr/vimy/swarm-core/params"
)

const banner = `
███████╗██╗    ██╗ █████╗ ██████╗ ███╗   ███╗
██╔════╝██║    ██║██╔══██╗██╔══██╗████╗ ████║
███████╗██║ █╗ ██║███████║██████╔╝██╔████╔██║
╚════██║██║███╗██║██╔══██║██╔══██╗██║╚██╔╝██║
███████║╚███╔███╔╝██║  ██║██║  ██║██║ ╚═╝ ██║
╚══════╝ ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝

Zerg Decision Core`

func main() {
	// A .env file next to the binary may set SWARM_* defaults.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cmd := &cli.Command{
		Name:  "swarm",
		Usage: "real-time decision sidecar for a Zerg bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "socket",
				Value:   "/tmp/swarm.sock",
				Usage:   "unix domain socket the game host connects to",
				Sources: cli.EnvVars("SWARM_SOCKET"),
			},
			&cli.StringFlag{
				Name:    "ws",
				Usage:   "also serve the protocol over websocket at this address, e.g. :8090",
				Sources: cli.EnvVars("SWARM_WS"),
			},
			&cli.StringFlag{
				Name:    "params",
				Usage:   "YAML parameter file applied over the defaults",
				Sources: cli.EnvVars("SWARM_PARAMS"),
			},
			&cli.StringFlag{
				Name:    "build-order",
				Usage:   "opening to play (" + strings.Join(macro.BuildOrderNames(), ", ") + ")",
				Sources: cli.EnvVars("SWARM_BUILD_ORDER"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("SWARM_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "write the JSON schema of the wire protocol",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Usage:    "path to write the schema to",
						Required: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return ipc.WriteSchema(cmd.String("out"))
				},
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("swarm exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	p := params.Default()
	if path := cmd.String("params"); path != "" {
		var err error
		if p, err = params.Load(path); err != nil {
			return err
		}
		slog.Info("parameters loaded", "path", path)
	}
	buildOrder := cmd.String("build-order")
	if buildOrder != "" {
		if _, err := macro.NewPrelude(buildOrder); err != nil {
			return err
		}
	}

	socketPath := cmd.String("socket")
	slog.Info("starting swarm", "socket", socketPath, "build_order", buildOrder)

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", socketPath, err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	slog.Info("listening on domain socket", "path", socketPath)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(conn, p, buildOrder)
		}
	}()

	if addr := cmd.String("ws"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", ipc.WebSocketHandler(func(conn io.ReadWriteCloser) {
			handleConn(conn, p, buildOrder)
		}))
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			slog.Info("listening for websocket sessions", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("websocket server failed", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

func handleConn(conn io.ReadWriteCloser, p params.Parameters, buildOrder string) {
	c := ipc.NewConnection(conn, nil)
	a := agent.New(c, p, buildOrder)
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeObservation, a.HandleObservation)
	c.ReadLoop()
}

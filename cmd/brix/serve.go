package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/brix-arcade/internal/config"
	"github.com/vovakirdan/brix-arcade/internal/core"
	"github.com/vovakirdan/brix-arcade/internal/games/brix"
	"github.com/vovakirdan/brix-arcade/internal/metrics"
	"github.com/vovakirdan/brix-arcade/internal/multiplayer"
	"github.com/vovakirdan/brix-arcade/internal/platform/tui"
	"github.com/vovakirdan/brix-arcade/internal/registry"
	"github.com/vovakirdan/brix-arcade/internal/storage"
)

var (
	serveCfg    config.ServerConfig
	serveEnvErr error
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start SSH server for remote play",
	Long: `Start an SSH server that lets users play over SSH, solo or against
each other with a six-letter join code.

Users can connect with:
  ssh -p 23234 localhost

Every flag can also be set through the environment:
  BRIX_SSH_ADDR, BRIX_HOST_KEY, BRIX_DB, BRIX_METRICS_ADDR,
  BRIX_IDLE_TIMEOUT, BRIX_LOBBY_TTL, BRIX_TICK_RATE, BRIX_LOG_LEVEL

Examples:
  brix serve
  brix serve --ssh :2222
  brix serve --metrics :9100 --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCfg, serveEnvErr = config.LoadServer()

	f := serveCmd.Flags()
	f.StringVar(&serveCfg.SSHAddr, "ssh", serveCfg.SSHAddr, "SSH server address (host:port)")
	f.StringVar(&serveCfg.HostKey, "host-key", serveCfg.HostKey, "Path to SSH host key (auto-generated if not specified)")
	f.StringVar(&serveCfg.MetricsAddr, "metrics", serveCfg.MetricsAddr, "Prometheus metrics address (disabled if empty)")
	f.DurationVar(&serveCfg.IdleTimeout, "idle-timeout", serveCfg.IdleTimeout, "Close idle connections after this long")
	f.DurationVar(&serveCfg.LobbyTTL, "lobby-ttl", serveCfg.LobbyTTL, "Drop unjoined lobbies after this long")
	f.IntVar(&serveCfg.TickRate, "tick-rate", serveCfg.TickRate, "Simulation rate of online matches")
	f.StringVar(&serveCfg.LogLevel, "log-level", serveCfg.LogLevel, "Log level: debug, info, warn, error")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveEnvErr != nil {
		return fmt.Errorf("reading environment: %w", serveEnvErr)
	}
	if serveCfg.TickRate <= 0 {
		return fmt.Errorf("--tick-rate must be positive")
	}
	// --db is global; the environment only wins over its default
	if cmd.Flags().Changed("db") || os.Getenv("BRIX_DB") == "" {
		serveCfg.DBPath = flagDBPath
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "brix",
	})
	level, err := log.ParseLevel(serveCfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	logger.SetLevel(level)

	store, err := storage.Open(serveCfg.DBPath)
	if err != nil {
		logger.Warn("scores disabled", "db", serveCfg.DBPath, "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	sessions := multiplayer.NewSessionRegistry()
	ccfg := multiplayer.DefaultCoordinatorConfig()
	ccfg.LobbyTimeout = serveCfg.LobbyTTL
	ccfg.TickRate = serveCfg.TickRate

	factory := func(gameID string, cfg core.RuntimeConfig) (multiplayer.OnlineGame, error) {
		g, err := registry.CreateOnline(gameID, cfg)
		if err != nil {
			return nil, err
		}
		if v, ok := g.(*brix.VersusGame); ok {
			v.Observe(m.SinkFactory(gameID))
		}
		return g, nil
	}

	coordinator := multiplayer.NewCoordinator(ccfg, factory, sessions)
	if store != nil {
		coordinator.SetResultSaver(store)
	}
	coordinator.SetObserver(m)
	coordinator.SetLogger(logger.WithPrefix("coordinator"))
	coordinator.Start()
	defer coordinator.Stop()

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = serveCfg.SSHAddr
	sshCfg.HostKeyPath = serveCfg.HostKey
	sshCfg.IdleTimeout = serveCfg.IdleTimeout
	sshCfg.TickRate = flagFPS
	sshCfg.Store = store
	sshCfg.Coordinator = coordinator
	sshCfg.Sessions = sessions
	sshCfg.Logger = logger
	sshCfg.OnGameStart = func(g registry.Game) {
		if bg, ok := g.(*brix.Game); ok {
			bg.Observe(m.Sink(g.ID()))
		}
	}

	server, err := tui.NewSSHServer(sshCfg)
	if err != nil {
		return fmt.Errorf("creating SSH server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})

	if serveCfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		httpServer := &http.Server{
			Addr:              serveCfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("serving metrics", "address", serveCfg.MetricsAddr)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	fmt.Printf("Brix SSH server listening on %s\n", serveCfg.SSHAddr)
	fmt.Printf("Connect with: ssh -p %s localhost\n", portOf(serveCfg.SSHAddr))
	fmt.Println("Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}

package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	webview "github.com/webview/webview_go"
	"go.uber.org/zap"

	"github.com/kartoza/ratio-calculator/internal/config"
	"github.com/kartoza/ratio-calculator/internal/logging"
	"github.com/kartoza/ratio-calculator/internal/server"
)

var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool

	// Serve flags
	port        int
	headless    bool
	showVersion bool

	// appConfig is resolved once per invocation, before any command runs
	appConfig config.Config
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ratio",
	Short: "Geometric Ratio Calculator",
	Long: `Computes the common ratio r of a geometric sequence from its first term a1,
its n-th term an and the position n, using an = a1 * r^(n-1).

Run without a subcommand to start the web form (in a desktop window, or
headless with --headless).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		appConfig = cfg
		logger, err = logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run in headless mode (no GUI window)")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version and exit")

	rootCmd.AddCommand(solveCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and lets explicitly set flags win.
// --version and "config init" never read the file, so a broken config can
// still be replaced.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if showVersion || cmd == configInitCmd {
		cfg := config.Default()
		cfg.Version = version
		return cfg, nil
	}

	path, err := resolveConfigPath()
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = headless
	}
	cfg.Version = version
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Fprintf(cmd.OutOrStdout(), "Geometric Ratio Calculator v%s\n", version)
		return nil
	}

	cfg := appConfig

	// Find an available port (try up to 10 ports starting from the requested one)
	availablePort, err := findAvailablePort(cfg.Port, 10)
	if err != nil {
		return fmt.Errorf("failed to find available port: %w", err)
	}
	if availablePort != cfg.Port {
		logger.Info("Port in use, using another", zap.Int("requested", cfg.Port), zap.Int("port", availablePort))
	}
	cfg.Port = availablePort

	logger.Info("Geometric Ratio Calculator starting",
		zap.String("version", version),
		zap.Int("port", cfg.Port),
		zap.Bool("headless", cfg.Headless))

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	addr := net.JoinHostPort("localhost", strconv.Itoa(cfg.Port))
	serverURL := "http://" + addr
	if err := waitForServer(addr, 10*time.Second); err != nil {
		logger.Warn("Server may not be ready", zap.String("url", serverURL), zap.Error(err))
	}

	if cfg.Headless {
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case sig := <-stop:
			logger.Info("Received signal, shutting down", zap.Stringer("signal", sig))
			return srv.Stop()
		}
	}

	// GUI mode: open embedded WebView window
	logger.Info("Opening application window")
	w := webview.New(verbose)

	w.SetTitle(cfg.Window.Title)
	w.SetSize(cfg.Window.Width, cfg.Window.Height, webview.HintNone)
	w.Navigate(serverURL)

	// When a signal arrives or the server dies, close the window. done is
	// closed once Run returns; the window must not be touched after that.
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("Server error", zap.Error(err))
			}
		case sig := <-stop:
			logger.Info("Received signal, shutting down", zap.Stringer("signal", sig))
		case <-done:
			return
		}
		w.Dispatch(w.Terminate)
	}()

	// Run blocks until the window is closed
	w.Run()
	close(done)
	wg.Wait()

	logger.Info("Window closed, shutting down server")
	err = srv.Stop()
	w.Destroy()
	return err
}

// waitForServer dials addr until it accepts a connection or timeout passes
func waitForServer(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			return conn.Close()
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%s not accepting connections after %s: %w", addr, timeout, err)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// findAvailablePort returns the first port in [start, start+attempts) that
// can be bound on all interfaces.
func findAvailablePort(start, attempts int) (int, error) {
	for p := start; p < start+attempts; p++ {
		ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(p)))
		if err != nil {
			zap.L().Debug("Port unavailable", zap.Int("port", p), zap.Error(err))
			continue
		}
		if err := ln.Close(); err != nil {
			return 0, fmt.Errorf("failed to release port %d: %w", p, err)
		}
		return p, nil
	}
	return 0, fmt.Errorf("ports %d-%d are all in use", start, start+attempts-1)
}

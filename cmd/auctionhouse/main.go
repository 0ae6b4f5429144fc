package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auctionsystem/auctionhouse/internal/api"
	"github.com/auctionsystem/auctionhouse/internal/auction"
	"github.com/auctionsystem/auctionhouse/internal/db"
	"github.com/auctionsystem/auctionhouse/internal/payment"
	"github.com/auctionsystem/auctionhouse/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// envOr returns the environment variable's value, or the fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	fs := flag.NewFlagSet("auctionhouse", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", "auctionhouse.sqlite3", "")
	fs.StringVar(&dbPath, "d", "auctionhouse.sqlite3", "")

	var addr string
	fs.StringVar(&addr, "addr", ":8080", "")
	fs.StringVar(&addr, "a", ":8080", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	var sweepInterval time.Duration
	fs.DurationVar(&sweepInterval, "sweep-interval", auction.DefaultSweepInterval, "")

	var payuBase, payuClientID, payuClientSecret, payuPosID, continueURL, notifyURL string
	fs.StringVar(&payuBase, "payu-url", envOr("PAYU_URL", "https://secure.snd.payu.com"), "")
	fs.StringVar(&payuClientID, "payu-client-id", os.Getenv("PAYU_CLIENT_ID"), "")
	fs.StringVar(&payuClientSecret, "payu-client-secret", os.Getenv("PAYU_CLIENT_SECRET"), "")
	fs.StringVar(&payuPosID, "payu-pos-id", os.Getenv("PAYU_POS_ID"), "")
	fs.StringVar(&continueURL, "continue-url", os.Getenv("PAYMENT_CONTINUE_URL"), "")
	fs.StringVar(&notifyURL, "notify-url", os.Getenv("PAYMENT_NOTIFY_URL"), "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: auctionhouse [flags]

Flags:
  -d, -db <path>            SQLite database path (default: auctionhouse.sqlite3)
  -a, -addr <host:port>     listen address (default: :8080)
  -l, -log <path>           log file path (default: no file, stdout/stderr only)
  -sweep-interval <dur>     how often expired auctions are closed (default: 1m)
  -payu-url <url>           payment gateway base URL (env PAYU_URL)
  -payu-client-id <id>      payment gateway OAuth client id (env PAYU_CLIENT_ID)
  -payu-client-secret <s>   payment gateway OAuth client secret (env PAYU_CLIENT_SECRET)
  -payu-pos-id <id>         merchant point-of-sale id (env PAYU_POS_ID)
  -continue-url <url>       where buyers land after paying (env PAYMENT_CONTINUE_URL)
  -notify-url <url>         public webhook URL for notifications (env PAYMENT_NOTIFY_URL)
  -h, -help                 show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", dbPath)

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(context.Background(), database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	engine := auction.NewEngine(database)

	gateway := payment.NewClient(payment.ClientConfig{
		BaseURL:       payuBase,
		ClientID:      payuClientID,
		ClientSecret:  payuClientSecret,
		MerchantPosID: payuPosID,
		ContinueURL:   continueURL,
		NotifyURL:     notifyURL,
	})
	payments := payment.NewService(database, gateway)

	handler := api.LoggingMiddleware(api.NewRouter(database, jwtSecret, engine, payments))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// The sweeper closes expired auctions for as long as the server runs.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	sweeper := auction.NewSweeper(engine, sweepInterval)
	go sweeper.Run(sweepCtx)

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		stopSweeper()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr, "sweep_interval", sweepInterval)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

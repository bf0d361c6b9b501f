package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"nichelens-be/internal/config"
	"nichelens-be/internal/pkg/logger"
	"nichelens-be/pkg/gateway"
	"nichelens-be/pkg/history"
	"nichelens-be/pkg/identity"
	"nichelens-be/pkg/kv"
	"nichelens-be/pkg/render"
	"nichelens-be/pkg/workbench"

	"github.com/spf13/cobra"
)

const logModule = "CLI"

var (
	// Global flags
	backendURL string
	homeDir    string
	tokenFlag  string
	sandbox    bool
	noColor    bool
	timeout    time.Duration
)

// app is everything a command needs. It is built once per invocation.
type app struct {
	cfg      *config.ClientConfig
	store    *kv.SQLite
	log      *logger.ZapLogger
	sessions *identity.Provider
	gateway  *gateway.HTTPGateway
	bench    *workbench.Workbench
	out      *render.Renderer
}

var current *app

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nichelens",
	Short: "NicheLens - growth assistant for creators on X",
	Long: `NicheLens maps your niche, plans content, rewrites drafts, audits your
profile and crafts replies. Analysis runs on the NicheLens backend; results are
archived on this device or, once signed in, in your synced archive.

Run without arguments to read the manual.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		current.out.Guide()
		return nil
	},
}

func init() {
	cfg := config.LoadClient()

	// Finalizers run after failed commands too.
	cobra.OnFinalize(func() {
		if current != nil {
			current.Close()
			current = nil
		}
	})

	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", cfg.BackendURL, "NicheLens backend base URL")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", cfg.Home, "directory for the local archive, session and logs")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", cfg.Token, "bearer token issued by the backend sign-in")
	rootCmd.PersistentFlags().BoolVar(&sandbox, "sandbox", cfg.Sandbox, "use the on-device sandbox identity instead of backend sign-in")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", cfg.NoColor, "disable colored output")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "maximum time to wait for the backend")
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg := &config.ClientConfig{
		BackendURL: backendURL,
		Home:       homeDir,
		Token:      tokenFlag,
		Sandbox:    sandbox,
		NoColor:    noColor,
	}

	store, err := kv.Open(filepath.Join(cfg.Home, "nichelens.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open local archive: %w", err)
	}
	log := logger.NewIsolatedLogger(filepath.Join(cfg.Home, "logs", "client.log"))

	sessions := identity.NewProvider(store, cfg.BackendURL, !cfg.Sandbox)
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	if _, err := sessions.Resolve(ctx); err != nil {
		log.Warn(logModule, "Failed to resolve cached session", map[string]interface{}{"error": err.Error()})
	}
	if cfg.Token != "" && cfg.Token != sessions.Current().Token && !cfg.Sandbox {
		if _, err := sessions.CompleteSignIn(ctx, cfg.Token); err != nil {
			log.Warn(logModule, "Token from flags was rejected", map[string]interface{}{"error": err.Error()})
		}
	}

	gw := gateway.NewHTTPGateway(cfg.BackendURL)
	gw.Token = func() string { return sessions.Current().Token }
	resolver := history.NewResolver(history.NewLocalStore(store), cfg.BackendURL)

	return &app{
		cfg:      cfg,
		store:    store,
		log:      log,
		sessions: sessions,
		gateway:  gw,
		bench:    workbench.New(gw, sessions, resolver, log),
		out:      render.New(cmd.OutOrStdout(), cfg.NoColor),
	}, nil
}

func (a *app) Close() {
	_ = a.log.Sync()
	_ = a.store.Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			if current != nil {
				current.log.Error(logModule, "Unexpected failure", map[string]interface{}{"panic": fmt.Sprint(r)})
				current.Close()
			}
			fmt.Fprintln(os.Stderr, "Something went wrong and the command was stopped. Nothing partial was saved; run it again or check `nichelens logs`.")
			os.Exit(2)
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

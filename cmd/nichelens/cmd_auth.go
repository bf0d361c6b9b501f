package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

var (
	loginProvider string
	listenAddr    string
	loginWait     time.Duration
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to sync your archive",
	Long: `Signs in through the backend's OAuth flow. Open the printed URL; the
backend redirects back to a listener on this machine with your token.

Pass --token to finish sign-in with a token you already have. With --sandbox
(or when no backend identity is available) a local sandbox identity is used
and history stays on this device.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the cached session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current.out.Session(current.sessions.Current())
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginProvider, "provider", "x", "identity provider")
	loginCmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:8765", "address of the local callback listener (must match the backend CLIENT_URL)")
	loginCmd.Flags().DurationVar(&loginWait, "wait", 5*time.Minute, "how long to wait for the browser sign-in")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sessions := current.sessions

	if s := sessions.Current(); s.IsAuthenticated && (tokenFlag == "" || s.Token == tokenFlag) {
		current.out.Session(s)
		return nil
	}

	loginURL, err := sessions.SignIn(ctx, loginProvider)
	if err != nil {
		return err
	}
	if loginURL == "" {
		current.log.Info(logModule, "Sandbox session started", nil)
		current.out.Session(sessions.Current())
		return nil
	}

	token := tokenFlag
	if token == "" {
		waitCtx, cancel := context.WithTimeout(ctx, loginWait)
		defer cancel()
		token, err = awaitCallback(waitCtx, listenAddr, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to sign in:\n  %s\n", loginURL)
		})
		if err != nil {
			return err
		}
	}

	s, err := sessions.CompleteSignIn(ctx, token)
	if err != nil {
		current.log.Error(logModule, "Sign-in failed", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("sign-in failed: %w", err)
	}
	current.log.Info(logModule, "Signed in", map[string]interface{}{"user_id": s.OwnerID})
	current.out.Session(s)
	return nil
}

type callbackResult struct {
	token string
	err   string
}

// awaitCallback serves /callback on addr until the backend redirect arrives.
// ready runs once the listener accepts connections.
func awaitCallback(ctx context.Context, addr string, ready func()) (string, error) {
	results := make(chan callbackResult, 1)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/callback", func(c *fiber.Ctx) error {
		r := callbackResult{token: c.Query("token"), err: c.Query("error")}
		if r.token == "" && r.err == "" {
			r.err = "no token in callback"
		}
		select {
		case results <- r:
		default:
		}
		if r.token == "" {
			return c.Status(fiber.StatusBadRequest).SendString("Sign-in failed: " + r.err)
		}
		return c.SendString("Signed in to NicheLens. You can close this tab.")
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()

	ready()

	select {
	case r := <-results:
		if r.token == "" {
			return "", errors.New(r.err)
		}
		return r.token, nil
	case <-ctx.Done():
		return "", fmt.Errorf("gave up waiting for sign-in: %w", ctx.Err())
	}
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := current.sessions.SignOut(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "signed out, history is kept on this device")
	return nil
}

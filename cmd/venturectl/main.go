package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "venturesim/internal/cli"
	"venturesim/internal/config"
	"venturesim/internal/game"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "venturectl",
		Short:        "VentureSim CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignupCmd(&apiBase),
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newSessionsCmd(&apiBase),
		newNewCmd(&apiBase),
		newPlayCmd(&apiBase),
		newShowCmd(&apiBase),
		newDeleteCmd(&apiBase),
		newAchievementsCmd(&apiBase),
		newProfileCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newSignupCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create a VentureSim account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}
			username, err := promptOptional("Username (optional)")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Signup(ctx, email, password, username)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken: session.AccessToken,
				Email:       session.User.Email,
				UserID:      session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Signup complete. Session saved.")
			return nil
		},
	}
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login to VentureSim",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken: session.AccessToken,
				Email:       session.User.Email,
				UserID:      session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Login successful.")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear local session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newSessionsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List your playthroughs",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Sessions(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			renderSessions(out)
			return nil
		},
	}
}

func newNewCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "new [company_name]",
		Short: "Start a new playthrough",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			name := ""
			if len(args) > 0 {
				name = strings.TrimSpace(args[0])
			} else {
				name, err = promptRequired("Company name")
				if err != nil {
					return err
				}
			}
			cash, err := promptMoney("Starting cash", game.DefaultStartingCash)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			view, err := client.CreateSession(ctx, sess.AccessToken, name, cash)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Session #%d started: %s with %s in the bank.",
				view.ID, view.CompanyName, formatMoney(view.Ledger.Cash)))
			return nil
		},
	}
}

func newPlayCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play [session_id]",
		Short: "Play a session turn by turn",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			sessionID, err := int64FromArgOrPrompt(args, 0, "Session ID")
			if err != nil {
				return err
			}
			client := newClient(apiBase)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			view, err := client.Session(ctx, sess.AccessToken, sessionID)
			cancel()
			if err != nil {
				return err
			}
			renderLedger(view.CompanyName, view.Ledger)
			if view.Terminal.Terminal() {
				renderTerminal(view.Terminal)
				return nil
			}

			for {
				choice, err := promptChoice("Decision", []string{"marketing", "hire", "wait", "quit"}, "wait")
				if err != nil {
					return err
				}
				if choice == "quit" {
					printInfo("Come back soon.")
					return nil
				}
				label := decisionLabel(choice)

				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				out, err := client.Decide(ctx, sess.AccessToken, sessionID, label)
				cancel()
				if err != nil {
					printError(err.Error())
					continue
				}

				renderLedger(view.CompanyName, out.Ledger)
				for _, a := range out.NewAchievements {
					printSuccess(fmt.Sprintf("Achievement unlocked: %s (+%d pts)", a.Title, a.Points))
				}
				if out.Terminal.Terminal() {
					renderTerminal(out.Terminal)
					return nil
				}
			}
		},
	}
}

func newShowCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [session_id]",
		Short: "Show one session with its decision and unlock history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			sessionID, err := int64FromArgOrPrompt(args, 0, "Session ID")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)

			view, err := client.Session(ctx, sess.AccessToken, sessionID)
			if err != nil {
				return err
			}
			decisions, err := client.DecisionHistory(ctx, sess.AccessToken, sessionID)
			if err != nil {
				return err
			}
			unlocks, err := client.UnlockHistory(ctx, sess.AccessToken, sessionID)
			if err != nil {
				return err
			}

			renderLedger(view.CompanyName, view.Ledger)
			if view.Terminal.Terminal() {
				renderTerminal(view.Terminal)
			}
			renderDecisions(decisions)
			renderUnlocks(unlocks)
			return nil
		},
	}
}

func newDeleteCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [session_id]",
		Short: "Delete a playthrough and its history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			sessionID, err := int64FromArgOrPrompt(args, 0, "Session ID")
			if err != nil {
				return err
			}
			confirm, err := promptChoice(fmt.Sprintf("Delete session #%d", sessionID), []string{"yes", "no"}, "no")
			if err != nil {
				return err
			}
			if confirm != "yes" {
				printInfo("Aborted.")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			if err := client.DeleteSession(ctx, sess.AccessToken, sessionID); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Session #%d deleted.", sessionID))
			return nil
		},
	}
}

func newAchievementsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List the achievement catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Catalog(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			renderCatalog(out)
			return nil
		},
	}
}

func newProfileCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your play summary across all sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Profile(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			renderProfile(sess.Email, out)
			return nil
		},
	}
}

func decisionLabel(choice string) string {
	switch choice {
	case "marketing":
		return game.LabelAggressiveMarketing
	case "hire":
		return game.LabelHireSeniorEngineer
	default:
		return game.LabelDoNothing
	}
}

func int64FromArgOrPrompt(args []string, idx int, label string) (int64, error) {
	if len(args) > idx {
		v, err := strconv.ParseInt(strings.TrimSpace(args[idx]), 10, 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid %s", strings.ToLower(label))
		}
		return v, nil
	}
	return promptInt64(label, 1)
}

func promptMoney(label string, fallback decimal.Decimal) (decimal.Decimal, error) {
	for {
		text, err := promptOptional(fmt.Sprintf("%s [%s]", label, formatMoney(fallback)))
		if err != nil {
			return decimal.Zero, err
		}
		if text == "" {
			return fallback, nil
		}
		v, err := decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
		if err != nil {
			printWarn("Enter a valid amount.")
			continue
		}
		if v.LessThan(game.MinStartingCash) {
			printWarn(fmt.Sprintf("Amount must be at least %s.", game.MinStartingCash.StringFixed(2)))
			continue
		}
		return v, nil
	}
}

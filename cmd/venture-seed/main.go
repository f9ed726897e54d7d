package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"venturesim/internal/auth"
	"venturesim/internal/db"
	"venturesim/internal/game"
)

// venture-seed provisions a demo account with a few playthroughs in various
// states, so a fresh database has something to look at.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	svc := game.NewService(pool, logger)
	if err := svc.SeedAchievements(ctx); err != nil {
		logger.Error("seed achievements failed", "err", err)
		os.Exit(1)
	}

	email := strings.TrimSpace(os.Getenv("VENTURE_SEED_EMAIL"))
	if email == "" {
		email = "demo@venturesim.dev"
	}
	password := strings.TrimSpace(os.Getenv("VENTURE_SEED_PASSWORD"))
	if password == "" {
		password = "demo-password"
	}

	account, err := ensureAccount(ctx, svc, email, password)
	if err != nil {
		logger.Error("demo account failed", "err", err)
		os.Exit(1)
	}
	logger.Info("demo account ready", "email", account.Email, "user_id", account.UserID)

	scenarios := []struct {
		company   string
		decisions []string
	}{
		{"Fresh Start Labs", nil},
		{"Growth Machine", []string{
			game.LabelAggressiveMarketing,
			game.LabelAggressiveMarketing,
			game.LabelHireSeniorEngineer,
			game.LabelDoNothing,
			game.LabelHireSeniorEngineer,
		}},
		{"Persistent Ventures", []string{
			game.LabelDoNothing,
			game.LabelDoNothing,
			game.LabelDoNothing,
			game.LabelDoNothing,
			game.LabelDoNothing,
		}},
	}

	for _, sc := range scenarios {
		view, err := svc.CreateSession(ctx, account.UserID, sc.company, game.DefaultStartingCash)
		if err != nil {
			logger.Error("create session failed", "company", sc.company, "err", err)
			os.Exit(1)
		}
		for _, label := range sc.decisions {
			result, err := svc.ApplyDecision(ctx, account.UserID, view.ID, label)
			if err != nil {
				logger.Error("apply decision failed", "company", sc.company, "decision", label, "err", err)
				os.Exit(1)
			}
			if result.Terminal.Terminal() {
				break
			}
		}
		logger.Info("session seeded", "company", sc.company, "id", view.ID, "turns", len(sc.decisions))
	}

	unlocked, err := svc.EvaluateAchievements(ctx, account.UserID, nil)
	if err != nil {
		logger.Error("evaluate achievements failed", "err", err)
		os.Exit(1)
	}
	logger.Info("seed complete", "new_achievements", len(unlocked))
}

func ensureAccount(ctx context.Context, svc *game.Service, email, password string) (game.Account, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return game.Account{}, err
	}
	account, err := svc.CreateAccount(ctx, email, "", hash)
	if errors.Is(err, game.ErrEmailTaken) {
		return svc.AccountByEmail(ctx, email)
	}
	return account, err
}

package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Service struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewService(db *pgxpool.Pool, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, log: logger}
}

// CreateAccount registers a new player. The email is the login key; a
// duplicate registration fails with ErrEmailTaken.
func (s *Service) CreateAccount(ctx context.Context, email, username, passwordHash string) (Account, error) {
	var out Account
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return out, fmt.Errorf("a valid email is required")
	}
	if strings.TrimSpace(username) == "" {
		username = usernameFromEmail(email)
	}
	username = sanitizeUsername(username)

	out = Account{
		UserID:       uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO users.accounts (user_id, email, username, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, out.UserID, out.Email, out.Username, out.PasswordHash).Scan(&out.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Account{}, ErrEmailTaken
		}
		return Account{}, err
	}
	return out, nil
}

func (s *Service) AccountByEmail(ctx context.Context, email string) (Account, error) {
	var out Account
	err := s.db.QueryRow(ctx, `
		SELECT user_id, email, username, password_hash, created_at
		FROM users.accounts
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(
		&out.UserID, &out.Email, &out.Username, &out.PasswordHash, &out.CreatedAt)
	if err == pgx.ErrNoRows {
		return out, ErrAccountNotFound
	}
	return out, err
}

// CreateSession starts a new playthrough: one session row plus its 1:1
// ledger, turn 1, one founder on the payroll.
func (s *Service) CreateSession(ctx context.Context, userID, companyName string, startingCash decimal.Decimal) (SessionView, error) {
	var out SessionView
	companyName = strings.TrimSpace(companyName)
	if err := validateCompanyName(companyName); err != nil {
		return out, err
	}
	if startingCash.IsZero() {
		startingCash = DefaultStartingCash
	}
	if startingCash.LessThan(MinStartingCash) {
		return out, fmt.Errorf("starting cash must be at least %s", MinStartingCash.StringFixed(2))
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return out, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO game.sessions (user_id, company_name)
		VALUES ($1, $2)
		RETURNING id, started_at
	`, userID, companyName).Scan(&out.ID, &out.StartedAt)
	if err != nil {
		return out, err
	}

	led := Ledger{
		Cash:           startingCash,
		MonthlyRevenue: decimal.Zero,
		Valuation:      decimal.Zero,
		Headcount:      1,
		CurrentTurn:    1,
		Active:         true,
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO game.ledgers (session_id, cash, monthly_revenue, valuation, headcount, current_turn, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, out.ID, led.Cash, led.MonthlyRevenue, led.Valuation, led.Headcount, led.CurrentTurn, led.Active)
	if err != nil {
		return out, err
	}
	if err := tx.Commit(ctx); err != nil {
		return out, err
	}

	out.CompanyName = companyName
	out.Ledger = ledgerView(led)
	return out, nil
}

// Session loads one playthrough. A ledger left in a terminal numeric state
// while still flagged active is flipped before it is returned, so stale
// sessions report terminal on load even when no decision was just applied.
func (s *Service) Session(ctx context.Context, userID string, sessionID int64) (SessionView, error) {
	view, led, err := s.sessionSnapshot(ctx, userID, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if _, stale := staleTerminal(led); stale {
		if err := s.reconcileTerminal(ctx, sessionID); err != nil {
			return SessionView{}, err
		}
		view, _, err = s.sessionSnapshot(ctx, userID, sessionID)
		if err != nil {
			return SessionView{}, err
		}
	}
	return view, nil
}

func (s *Service) sessionSnapshot(ctx context.Context, userID string, sessionID int64) (SessionView, Ledger, error) {
	var (
		view    SessionView
		led     Ledger
		ownerID string
	)
	err := s.db.QueryRow(ctx, `
		SELECT s.user_id, s.company_name, s.started_at, s.finished_at,
		       l.cash, l.monthly_revenue, l.valuation, l.headcount, l.current_turn, l.active
		FROM game.sessions s
		JOIN game.ledgers l ON l.session_id = s.id
		WHERE s.id = $1
	`, sessionID).Scan(&ownerID, &view.CompanyName, &view.StartedAt, &view.FinishedAt,
		&led.Cash, &led.MonthlyRevenue, &led.Valuation, &led.Headcount, &led.CurrentTurn, &led.Active)
	if err == pgx.ErrNoRows {
		return view, led, ErrSessionNotFound
	}
	if err != nil {
		return view, led, err
	}
	if ownerID != userID {
		return SessionView{}, Ledger{}, ErrUnauthorized
	}
	view.ID = sessionID
	view.Ledger = ledgerView(led)
	if !led.Active {
		view.Terminal = terminalStateOf(led)
	}
	return view, led, nil
}

// reconcileTerminal re-runs terminal detection under the row lock. It is
// idempotent; concurrent callers converge on the same inactive state.
func (s *Service) reconcileTerminal(ctx context.Context, sessionID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	led, _, err := ledgerForUpdateTx(ctx, tx, sessionID)
	if err != nil {
		return err
	}
	if _, stale := staleTerminal(led); !stale {
		return nil
	}
	if _, err := tx.Exec(ctx, `
		UPDATE game.ledgers
		SET active = false, updated_at = now()
		WHERE session_id = $1
	`, sessionID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE game.sessions
		SET finished_at = now()
		WHERE id = $1 AND finished_at IS NULL
	`, sessionID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) Sessions(ctx context.Context, userID string) ([]SessionView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.company_name, s.started_at, s.finished_at,
		       l.cash, l.monthly_revenue, l.valuation, l.headcount, l.current_turn, l.active
		FROM game.sessions s
		JOIN game.ledgers l ON l.session_id = s.id
		WHERE s.user_id = $1
		ORDER BY s.started_at DESC, s.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SessionView, 0)
	for rows.Next() {
		var (
			view SessionView
			led  Ledger
		)
		if err := rows.Scan(&view.ID, &view.CompanyName, &view.StartedAt, &view.FinishedAt,
			&led.Cash, &led.MonthlyRevenue, &led.Valuation, &led.Headcount, &led.CurrentTurn, &led.Active); err != nil {
			return nil, err
		}
		view.Ledger = ledgerView(led)
		if !led.Active {
			view.Terminal = terminalStateOf(led)
		}
		out = append(out, view)
	}
	return out, rows.Err()
}

// DeleteSession removes a playthrough; decisions and unlocks go with it via
// cascade.
func (s *Service) DeleteSession(ctx context.Context, userID string, sessionID int64) error {
	cmd, err := s.db.Exec(ctx, `
		DELETE FROM game.sessions
		WHERE id = $1 AND user_id = $2
	`, sessionID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ApplyDecision resolves one decision against a session's ledger. The whole
// turn runs in a serializable transaction with the ledger row locked, so at
// most one decision commits per logical turn; the loser of a persistent
// conflict gets ErrTxConflict and should retry with fresh state.
func (s *Service) ApplyDecision(ctx context.Context, userID string, sessionID int64, label string) (TurnResult, error) {
	var out TurnResult
	d := ParseDecision(label)

	const maxAttempts = 8
	retryDelay := 75 * time.Millisecond
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return out, err
		}
		err = func() error {
			defer tx.Rollback(ctx)

			led, ownerID, err := ledgerForUpdateTx(ctx, tx, sessionID)
			if err != nil {
				return err
			}
			if ownerID != userID {
				return ErrUnauthorized
			}

			// A ledger left numerically terminal but still flagged active is
			// reconciled here, under the same lock, instead of advanced.
			if _, stale := staleTerminal(led); stale {
				if _, err := tx.Exec(ctx, `
					UPDATE game.ledgers
					SET active = false, updated_at = now()
					WHERE session_id = $1
				`, sessionID); err != nil {
					return err
				}
				if _, err := tx.Exec(ctx, `
					UPDATE game.sessions
					SET finished_at = now()
					WHERE id = $1 AND finished_at IS NULL
				`, sessionID); err != nil {
					return err
				}
				if err := tx.Commit(ctx); err != nil {
					return err
				}
				return ErrSessionTerminated
			}

			next, err := advanceTurn(led, d)
			if err != nil {
				return err
			}
			next, ts := evaluateTerminal(next)

			if _, err := tx.Exec(ctx, `
				UPDATE game.ledgers
				SET cash = $1, monthly_revenue = $2, valuation = $3,
				    headcount = $4, current_turn = $5, active = $6, updated_at = now()
				WHERE session_id = $7
			`, next.Cash, next.MonthlyRevenue, next.Valuation,
				next.Headcount, next.CurrentTurn, next.Active, sessionID); err != nil {
				return err
			}

			var decidedAt time.Time
			if err := tx.QueryRow(ctx, `
				INSERT INTO game.decisions (session_id, label, turn)
				VALUES ($1, $2, $3)
				RETURNING decided_at
			`, sessionID, d.Label, next.CurrentTurn).Scan(&decidedAt); err != nil {
				return err
			}

			if ts.Terminal() {
				if _, err := tx.Exec(ctx, `
					UPDATE game.sessions
					SET finished_at = now()
					WHERE id = $1 AND finished_at IS NULL
				`, sessionID); err != nil {
					return err
				}
			}

			out = TurnResult{
				Ledger:   ledgerView(next),
				Terminal: ts,
				Decision: DecisionView{Label: d.Label, Turn: next.CurrentTurn, DecidedAt: decidedAt},
			}
			return tx.Commit(ctx)
		}()
		if err == nil {
			return out, nil
		}
		if !isSerializationError(err) {
			return out, err
		}
		if attempt == maxAttempts-1 {
			return out, ErrTxConflict
		}
		if err := sleepWithContext(ctx, retryDelay); err != nil {
			return out, err
		}
		if retryDelay < 1200*time.Millisecond {
			retryDelay *= 2
		}
	}

	return out, ErrTxConflict
}

// DecisionHistory returns a session's decisions in chronological order. The
// sort key is the turn number, not insertion order.
func (s *Service) DecisionHistory(ctx context.Context, userID string, sessionID int64) ([]DecisionView, error) {
	if err := s.checkSessionOwner(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `
		SELECT label, turn, decided_at
		FROM game.decisions
		WHERE session_id = $1
		ORDER BY turn ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DecisionView, 0)
	for rows.Next() {
		var d DecisionView
		if err := rows.Scan(&d.Label, &d.Turn, &d.DecidedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SeedAchievements inserts the full catalog, skipping titles that already
// exist. It is safe to call any number of times, including concurrently;
// the unique title constraint absorbs the race.
func (s *Service) SeedAchievements(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, def := range CatalogDefinitions() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO game.achievements (title, description, kind, threshold, points, active)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (title) DO NOTHING
		`, def.Title, def.Description, string(def.Kind), def.Threshold, def.Points, def.Active); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

type achievementRow struct {
	id int64
	AchievementDefinition
}

func (s *Service) activeDefinitions(ctx context.Context) ([]achievementRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, description, kind, threshold, points, active
		FROM game.achievements
		WHERE active
		ORDER BY kind, threshold ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]achievementRow, 0)
	for rows.Next() {
		var (
			r    achievementRow
			kind string
		)
		if err := rows.Scan(&r.id, &r.Title, &r.Description, &kind, &r.Threshold, &r.Points, &r.Active); err != nil {
			return nil, err
		}
		r.Kind = AchievementKind(kind)
		out = append(out, r)
	}
	return out, rows.Err()
}

// EvaluateAchievements checks the catalog against one session, or against
// all of the user's sessions when sessionID is nil, and unlocks whatever is
// newly earned. Every cash threshold at or below the current balance
// unlocks, not just the highest one crossed. The returned slice contains
// exactly the unlocks this call inserted; a redundant call returns an empty
// slice.
func (s *Service) EvaluateAchievements(ctx context.Context, userID string, sessionID *int64) ([]AchievementView, error) {
	if err := s.SeedAchievements(ctx); err != nil {
		return nil, err
	}
	defs, err := s.activeDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	type progress struct {
		id   int64
		cash decimal.Decimal
		turn int32
	}
	var targets []progress
	if sessionID != nil {
		if err := s.checkSessionOwner(ctx, userID, *sessionID); err != nil {
			return nil, err
		}
		var p progress
		p.id = *sessionID
		if err := s.db.QueryRow(ctx, `
			SELECT cash, current_turn
			FROM game.ledgers
			WHERE session_id = $1
		`, *sessionID).Scan(&p.cash, &p.turn); err != nil {
			if err == pgx.ErrNoRows {
				return nil, ErrSessionNotFound
			}
			return nil, err
		}
		targets = append(targets, p)
	} else {
		rows, err := s.db.Query(ctx, `
			SELECT l.session_id, l.cash, l.current_turn
			FROM game.ledgers l
			JOIN game.sessions s ON s.id = l.session_id
			WHERE s.user_id = $1
			ORDER BY l.session_id
		`, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var p progress
			if err := rows.Scan(&p.id, &p.cash, &p.turn); err != nil {
				return nil, err
			}
			targets = append(targets, p)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	newly := make([]AchievementView, 0)
	for _, target := range targets {
		for _, def := range defs {
			if !eligible(def.AchievementDefinition, target.cash, target.turn) {
				continue
			}
			cmd, err := s.db.Exec(ctx, `
				INSERT INTO game.achievement_unlocks (session_id, achievement_id, turn)
				VALUES ($1, $2, $3)
				ON CONFLICT (session_id, achievement_id) DO NOTHING
			`, target.id, def.id, target.turn)
			if err != nil {
				return nil, err
			}
			// Only rows this call actually inserted count as new.
			if cmd.RowsAffected() == 1 {
				newly = append(newly, AchievementView{
					Title:       def.Title,
					Description: def.Description,
					Kind:        def.Kind,
					Threshold:   def.Threshold,
					Points:      def.Points,
				})
			}
		}
	}
	return newly, nil
}

// UnlockHistory lists a session's unlocks, most recent first.
func (s *Service) UnlockHistory(ctx context.Context, userID string, sessionID int64) ([]UnlockView, error) {
	if err := s.checkSessionOwner(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `
		SELECT a.title, a.points, u.turn, u.unlocked_at
		FROM game.achievement_unlocks u
		JOIN game.achievements a ON a.id = u.achievement_id
		WHERE u.session_id = $1
		ORDER BY u.unlocked_at DESC, u.id DESC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UnlockView, 0)
	for rows.Next() {
		var u UnlockView
		if err := rows.Scan(&u.Title, &u.Points, &u.Turn, &u.UnlockedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Catalog lists the active achievement definitions.
func (s *Service) Catalog(ctx context.Context) ([]AchievementView, error) {
	defs, err := s.activeDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AchievementView, 0, len(defs))
	for _, def := range defs {
		out = append(out, AchievementView{
			Title:       def.Title,
			Description: def.Description,
			Kind:        def.Kind,
			Threshold:   def.Threshold,
			Points:      def.Points,
		})
	}
	return out, nil
}

// Profile aggregates one user's play across all sessions.
func (s *Service) Profile(ctx context.Context, userID string) (ProfileSummary, error) {
	var out ProfileSummary
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE l.active),
		       COUNT(*) FILTER (WHERE NOT l.active),
		       COALESCE(MAX(l.cash), 0),
		       COALESCE(MAX(l.valuation), 0),
		       COALESCE(MAX(l.current_turn), 0)
		FROM game.sessions s
		JOIN game.ledgers l ON l.session_id = s.id
		WHERE s.user_id = $1
	`, userID).Scan(&out.TotalSessions, &out.ActiveSessions, &out.FinishedSessions,
		&out.BestCash, &out.BestValuation, &out.BestTurn)
	if err != nil {
		return out, err
	}
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(a.points), 0)
		FROM game.achievement_unlocks u
		JOIN game.achievements a ON a.id = u.achievement_id
		JOIN game.sessions s ON s.id = u.session_id
		WHERE s.user_id = $1
	`, userID).Scan(&out.TotalUnlocks, &out.TotalPoints)
	return out, err
}

func (s *Service) checkSessionOwner(ctx context.Context, userID string, sessionID int64) error {
	var ownerID string
	err := s.db.QueryRow(ctx, `
		SELECT user_id FROM game.sessions WHERE id = $1
	`, sessionID).Scan(&ownerID)
	if err == pgx.ErrNoRows {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrUnauthorized
	}
	return nil
}

func ledgerForUpdateTx(ctx context.Context, tx pgx.Tx, sessionID int64) (Ledger, string, error) {
	var (
		led     Ledger
		ownerID string
	)
	err := tx.QueryRow(ctx, `
		SELECT s.user_id, l.cash, l.monthly_revenue, l.valuation, l.headcount, l.current_turn, l.active
		FROM game.ledgers l
		JOIN game.sessions s ON s.id = l.session_id
		WHERE l.session_id = $1
		FOR UPDATE OF l
	`, sessionID).Scan(&ownerID, &led.Cash, &led.MonthlyRevenue, &led.Valuation,
		&led.Headcount, &led.CurrentTurn, &led.Active)
	if err == pgx.ErrNoRows {
		return led, "", ErrSessionNotFound
	}
	return led, ownerID, err
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func usernameFromEmail(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	parts := strings.Split(email, "@")
	if len(parts) == 0 || parts[0] == "" {
		return "founder"
	}
	return sanitizeUsername(parts[0])
}

func sanitizeUsername(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "founder"
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	res := strings.Trim(string(out), "_")
	if len(res) < 3 {
		res = "founder_" + res
	}
	if len(res) > 24 {
		res = res[:24]
	}
	return res
}

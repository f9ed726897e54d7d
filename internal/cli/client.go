package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"venturesim/internal/auth"
	"venturesim/internal/game"

	"github.com/shopspring/decimal"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// DecisionOutcome is the decision endpoint's response: the ledger after the
// turn, terminal flags, the logged decision, and whatever unlocked because
// of it.
type DecisionOutcome struct {
	Ledger          game.LedgerView        `json:"ledger"`
	Terminal        game.TerminalState     `json:"terminal"`
	Decision        game.DecisionView      `json:"decision"`
	NewAchievements []game.AchievementView `json:"new_achievements"`
}

type sessionsPayload struct {
	Sessions []game.SessionView `json:"sessions"`
}

type decisionsPayload struct {
	Decisions []game.DecisionView `json:"decisions"`
}

type unlocksPayload struct {
	Achievements []game.UnlockView `json:"achievements"`
}

type catalogPayload struct {
	Achievements []game.AchievementView `json:"achievements"`
}

func (c *Client) Signup(ctx context.Context, email, password, username string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": password,
		"username": username,
	}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) CreateSession(ctx context.Context, accessToken, companyName string, startingCash decimal.Decimal) (game.SessionView, error) {
	var out game.SessionView
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sessions", accessToken, map[string]any{
		"company_name":  companyName,
		"starting_cash": startingCash,
	}, &out)
	return out, err
}

func (c *Client) Sessions(ctx context.Context, accessToken string) ([]game.SessionView, error) {
	var out sessionsPayload
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/sessions", accessToken, nil, &out)
	return out.Sessions, err
}

func (c *Client) Session(ctx context.Context, accessToken string, sessionID int64) (game.SessionView, error) {
	var out game.SessionView
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/sessions/%d", sessionID), accessToken, nil, &out)
	return out, err
}

func (c *Client) DeleteSession(ctx context.Context, accessToken string, sessionID int64) error {
	return c.jsonRequest(ctx, http.MethodDelete, fmt.Sprintf("/v1/sessions/%d", sessionID), accessToken, nil, nil)
}

func (c *Client) Decide(ctx context.Context, accessToken string, sessionID int64, decision string) (DecisionOutcome, error) {
	var out DecisionOutcome
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/sessions/%d/decisions", sessionID), accessToken, map[string]any{
		"decision": decision,
	}, &out)
	return out, err
}

func (c *Client) DecisionHistory(ctx context.Context, accessToken string, sessionID int64) ([]game.DecisionView, error) {
	var out decisionsPayload
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/sessions/%d/decisions", sessionID), accessToken, nil, &out)
	return out.Decisions, err
}

func (c *Client) UnlockHistory(ctx context.Context, accessToken string, sessionID int64) ([]game.UnlockView, error) {
	var out unlocksPayload
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/sessions/%d/achievements", sessionID), accessToken, nil, &out)
	return out.Achievements, err
}

func (c *Client) Catalog(ctx context.Context, accessToken string) ([]game.AchievementView, error) {
	var out catalogPayload
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/achievements", accessToken, nil, &out)
	return out.Achievements, err
}

func (c *Client) Profile(ctx context.Context, accessToken string) (game.ProfileSummary, error) {
	var out game.ProfileSummary
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/profile", accessToken, nil, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, accessToken string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if msg := apiErrorMessage(raw); msg != "" {
			return fmt.Errorf("api status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiErrorMessage(raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

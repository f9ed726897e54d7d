package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"venturesim/internal/game"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptOptional(label string) (string, error) {
	fmt.Printf("%s: ", label)
	text, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// promptPassword reads without echo when stdin is a terminal, and falls back
// to a plain read when it is not (pipes, CI).
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptRequired(label)
	}
	for {
		fmt.Printf("%s: ", label)
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(string(raw))
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptInt64(label string, min int64) (int64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderLedger(company string, led game.LedgerView) {
	accent.Printf("\n== %s (TURN %d) ==\n", strings.ToUpper(company), led.CurrentTurn)
	fmt.Printf("Cash:            %s\n", formatMoney(led.Cash))
	fmt.Printf("Monthly Revenue: %s\n", formatMoney(led.MonthlyRevenue))
	fmt.Printf("Valuation:       %s\n", formatMoney(led.Valuation))
	fmt.Printf("Headcount:       %d\n", led.Headcount)
	fmt.Println()
}

func renderTerminal(ts game.TerminalState) {
	msg := terminalMessage(ts)
	if msg == "" {
		return
	}
	if ts.GameOver {
		danger.Println(msg)
		return
	}
	success.Println(msg)
}

func terminalMessage(ts game.TerminalState) string {
	switch {
	case ts.GameOver:
		return "GAME OVER: the company ran out of cash."
	case ts.Victory:
		return "VICTORY: the company reached its target valuation!"
	default:
		return ""
	}
}

func renderSessions(sessions []game.SessionView) {
	accent.Println("\n== SESSIONS ==")
	if len(sessions) == 0 {
		printInfo("No sessions yet. Start one with `venturectl new`.")
		return
	}
	fmt.Printf("%-6s %-24s %6s %16s %16s %-10s\n", "ID", "COMPANY", "TURN", "CASH", "VALUATION", "STATUS")
	for _, s := range sessions {
		fmt.Printf("%-6d %-24s %6d %16s %16s %-10s\n",
			s.ID,
			truncate(s.CompanyName, 24),
			s.Ledger.CurrentTurn,
			formatMoney(s.Ledger.Cash),
			formatMoney(s.Ledger.Valuation),
			sessionStatus(s),
		)
	}
	fmt.Println()
}

func sessionStatus(s game.SessionView) string {
	switch {
	case s.Terminal.Victory:
		return "victory"
	case s.Terminal.GameOver:
		return "game over"
	default:
		return "active"
	}
}

func renderDecisions(decisions []game.DecisionView) {
	accent.Println("Decisions")
	if len(decisions) == 0 {
		printInfo("No decisions taken yet.")
		return
	}
	fmt.Printf("%-6s %-24s %-16s\n", "TURN", "DECISION", "WHEN")
	for _, d := range decisions {
		fmt.Printf("%-6d %-24s %-16s\n",
			d.Turn,
			truncate(d.Label, 24),
			d.DecidedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	fmt.Println()
}

func renderUnlocks(unlocks []game.UnlockView) {
	accent.Println("Achievements")
	if len(unlocks) == 0 {
		printInfo("Nothing unlocked yet.")
		return
	}
	fmt.Printf("%-32s %7s %6s %-16s\n", "TITLE", "POINTS", "TURN", "WHEN")
	for _, u := range unlocks {
		fmt.Printf("%-32s %7d %6d %-16s\n",
			truncate(u.Title, 32),
			u.Points,
			u.Turn,
			u.UnlockedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	fmt.Println()
}

func renderCatalog(defs []game.AchievementView) {
	accent.Println("\n== ACHIEVEMENT CATALOG ==")
	if len(defs) == 0 {
		printInfo("Catalog is empty.")
		return
	}
	fmt.Printf("%-32s %-15s %16s %7s\n", "TITLE", "KIND", "THRESHOLD", "POINTS")
	for _, a := range defs {
		fmt.Printf("%-32s %-15s %16s %7d\n",
			truncate(a.Title, 32),
			string(a.Kind),
			formatMoney(a.Threshold),
			a.Points,
		)
	}
	fmt.Println()
}

func renderProfile(email string, p game.ProfileSummary) {
	accent.Printf("\n== PROFILE (%s) ==\n", email)
	fmt.Printf("Sessions:        %d (%d active, %d finished)\n", p.TotalSessions, p.ActiveSessions, p.FinishedSessions)
	fmt.Printf("Achievements:    %d unlocks, %d points\n", p.TotalUnlocks, p.TotalPoints)
	fmt.Printf("Best Cash:       %s\n", formatMoney(p.BestCash))
	fmt.Printf("Best Valuation:  %s\n", formatMoney(p.BestValuation))
	fmt.Printf("Longest Run:     turn %d\n", p.BestTurn)
	fmt.Println()
}

func formatMoney(v decimal.Decimal) string {
	text := v.StringFixed(2)
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign = "-"
		text = text[1:]
	}
	whole, frac, _ := strings.Cut(text, ".")
	return sign + "$" + comma(whole) + "." + frac
}

func comma(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/hanmaum/pairo/internal/model"
)

const sparkChars = " .:-=+*#%@"

const terminalWidthBackup = 80

// LevelSummary aggregates logged rounds for one difficulty level.
type LevelSummary struct {
	Level      model.Level
	Rounds     int
	Wins       int
	AvgSeconds float64
	AvgMoves   float64
}

// WinRate returns the fraction of rounds won.
func (s LevelSummary) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// Summarize groups rounds by level in level-table order. Levels with no
// rounds are omitted. Averages cover successful rounds only, since
// timed-out rounds carry no figures.
func Summarize(rounds []model.RoundResult, levels []model.Level) []LevelSummary {
	byLevel := map[string]*LevelSummary{}
	secondsSum := map[string]int{}
	movesSum := map[string]int{}
	for _, level := range levels {
		byLevel[level.ID] = &LevelSummary{Level: level}
	}
	for _, res := range rounds {
		summary, ok := byLevel[res.LevelID]
		if !ok {
			continue
		}
		summary.Rounds++
		if res.Success {
			summary.Wins++
			if res.Seconds != nil {
				secondsSum[res.LevelID] += *res.Seconds
			}
			if res.Moves != nil {
				movesSum[res.LevelID] += *res.Moves
			}
		}
	}
	out := make([]LevelSummary, 0, len(levels))
	for _, level := range levels {
		summary := byLevel[level.ID]
		if summary.Rounds == 0 {
			continue
		}
		if summary.Wins > 0 {
			summary.AvgSeconds = float64(secondsSum[level.ID]) / float64(summary.Wins)
			summary.AvgMoves = float64(movesSum[level.ID]) / float64(summary.Wins)
		}
		out = append(out, *summary)
	}
	return out
}

// OutcomeStrip renders the most recent outcomes as filled/empty dots,
// oldest first, capped at max.
func OutcomeStrip(rounds []model.RoundResult, max int) string {
	if max > 0 && len(rounds) > max {
		rounds = rounds[len(rounds)-max:]
	}
	var b strings.Builder
	for _, res := range rounds {
		if res.Success {
			b.WriteRune('●')
		} else {
			b.WriteRune('○')
		}
	}
	return b.String()
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TerminalWidth returns the stdout width or a fallback when stdout is
// not a terminal.
func TerminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderReport prints the per-level summary table, the recent outcome
// strip, and a clear-time sparkline, sized to width columns.
func RenderReport(w io.Writer, rounds []model.RoundResult, levels []model.Level, width int) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds recorded yet.")
		return err
	}
	if width <= 0 {
		width = terminalWidthBackup
	}

	headers := []string{"Level", "Rounds", "Wins", "Win %", "Avg Sec", "Target Sec", "Avg Moves", "Target Moves"}
	var tableRows [][]string
	for _, summary := range Summarize(rounds, levels) {
		avgSeconds := "-"
		avgMoves := "-"
		if summary.Wins > 0 {
			avgSeconds = fmt.Sprintf("%.1f", summary.AvgSeconds)
			avgMoves = fmt.Sprintf("%.1f", summary.AvgMoves)
		}
		tableRows = append(tableRows, []string{
			summary.Level.ID,
			fmt.Sprintf("%d", summary.Rounds),
			fmt.Sprintf("%d", summary.Wins),
			fmt.Sprintf("%.0f%%", summary.WinRate()*100),
			avgSeconds,
			fmt.Sprintf("%d", summary.Level.TargetSeconds),
			avgMoves,
			fmt.Sprintf("%d", summary.Level.TargetMoves),
		})
	}
	for _, line := range renderTable(headers, tableRows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	stripMax := width - len("Recent: ")
	if stripMax < 1 {
		stripMax = 1
	}
	if _, err := fmt.Fprintf(w, "Recent: %s\n", OutcomeStrip(rounds, stripMax)); err != nil {
		return err
	}

	var clearTimes []float64
	for _, res := range rounds {
		if res.Success && res.Seconds != nil {
			clearTimes = append(clearTimes, float64(*res.Seconds))
		}
	}
	if len(clearTimes) >= 2 {
		sparkMax := width - len("Clear times: ")
		if sparkMax > 0 && len(clearTimes) > sparkMax {
			clearTimes = clearTimes[len(clearTimes)-sparkMax:]
		}
		if _, err := fmt.Fprintf(w, "Clear times: %s\n", Sparkline(clearTimes)); err != nil {
			return err
		}
	}
	return nil
}

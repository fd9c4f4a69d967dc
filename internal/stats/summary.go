package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/mathdrill/internal/adaptive"
	"github.com/verte-zerg/mathdrill/internal/model"
)

// HistoryLimit is how many adaptation events the session summary lists.
const HistoryLimit = 10

// RuleWidth is the width of the banner rules around console output.
const RuleWidth = 70

// RenderSessionSummary prints the end-of-session report.
func RenderSessionSummary(w io.Writer, summary model.SessionSummary, history []adaptive.DecisionRecord) error {
	rule := strings.Repeat("=", RuleWidth)
	lines := []string{
		"",
		rule,
		"SESSION SUMMARY",
		rule,
		"",
		fmt.Sprintf("Student: %s", summary.UserName),
		fmt.Sprintf("Total Puzzles: %d", summary.TotalPuzzles),
		fmt.Sprintf("Correct Answers: %d/%d", summary.TotalCorrect, summary.TotalPuzzles),
		fmt.Sprintf("Overall Accuracy: %.1f%%", summary.OverallAccuracy),
		fmt.Sprintf("Average Time Per Puzzle: %s", formatSeconds(summary.AverageTime)),
		fmt.Sprintf("Session Duration: %.1fs", summary.Duration.Seconds()),
	}
	if len(summary.RecentTrend) > 0 {
		lines = append(lines, fmt.Sprintf("Recent Trend: %s", Trend(summary.RecentTrend)))
	}

	lines = append(lines, "", "Performance by Difficulty:")
	if len(summary.ByDifficulty) == 0 {
		lines = append(lines, "  No attempts recorded.")
	} else {
		rows := make([][]string, 0, len(summary.ByDifficulty))
		for _, ds := range summary.ByDifficulty {
			rows = append(rows, []string{
				ds.Difficulty.String(),
				fmt.Sprintf("%.1f%%", ds.Accuracy),
				fmt.Sprintf("%d", ds.Attempts),
				formatSeconds(ds.AvgTime),
			})
		}
		for _, line := range formatTable([]string{"Level", "Accuracy", "Attempts", "Avg Time"}, rows, map[int]bool{1: true, 2: true, 3: true}) {
			lines = append(lines, "  "+line)
		}
	}

	lines = append(lines, "", "Adaptation History:")
	lines = append(lines, historyLines(history, HistoryLimit)...)

	lines = append(lines,
		"",
		"Recommendation:",
		"  "+Recommendation(summary.OverallAccuracy),
		"",
		rule,
		"",
	)
	return writeLines(w, lines)
}

func historyLines(history []adaptive.DecisionRecord, limit int) []string {
	if len(history) == 0 {
		return []string{"  No adaptation decisions yet."}
	}
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	lines := make([]string, 0, len(history))
	for i, rec := range history {
		lines = append(lines, fmt.Sprintf("  %d. Attempt %d: %s → %s (Accuracy: %.1f%%, Avg Time: %.2fs)",
			i+1, rec.Attempt, rec.From, rec.To, rec.Accuracy, rec.AvgTime))
	}
	return lines
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/store"
)

const (
	minSparkWidth   = 10
	recentSessionsN = 10
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Levels   []model.DifficultyAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	levels, err := st.ListDifficultyAggregates(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions: sessions,
		Levels:   levels,
	}, nil
}

// RenderReport prints the stored-session overview. width bounds the
// accuracy sparkline; 0 means no limit.
func RenderReport(w io.Writer, report Report, curveWindow, width int) error {
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}

	var lines []string
	lines = append(lines, summaryLines(report.Sessions)...)
	lines = append(lines, "", "Per-Difficulty")
	lines = append(lines, levelLines(report.Levels)...)
	lines = append(lines, "", fmt.Sprintf("Accuracy Curve (moving average %d)", max(curveWindow, 1)))
	lines = append(lines, curveLines(report.Sessions, curveWindow, width)...)
	lines = append(lines, "", "Recent Sessions")
	lines = append(lines, recentLines(report.Sessions)...)
	lines = append(lines, "")
	return writeLines(w, lines)
}

func summaryLines(sessions []model.SessionAggregate) []string {
	var totalAcc, bestAcc float64
	var puzzles, correct int
	var durationMs int64
	for _, s := range sessions {
		acc := Percent(s.Correct, s.Puzzles)
		totalAcc += acc
		bestAcc = max(bestAcc, acc)
		puzzles += s.Puzzles
		correct += s.Correct
		durationMs += s.DurationMs
	}
	count := float64(len(sessions))
	avgTime := 0.0
	if puzzles > 0 {
		avgTime = float64(durationMs) / 1000 / float64(puzzles)
	}
	return []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Puzzles: %d (%d correct)", puzzles, correct),
		fmt.Sprintf("Avg Accuracy: %.1f%%", totalAcc/count),
		fmt.Sprintf("Best Accuracy: %.1f%%", bestAcc),
		fmt.Sprintf("Avg Time Per Puzzle: %.2fs", avgTime),
	}
}

func levelLines(levels []model.DifficultyAggregate) []string {
	if len(levels) == 0 {
		return []string{"No attempts stored."}
	}
	rows := make([][]string, 0, len(levels))
	for _, l := range levels {
		avg := 0.0
		if l.Attempts > 0 {
			avg = float64(l.TimeSumMs) / 1000 / float64(l.Attempts)
		}
		rows = append(rows, []string{
			l.Difficulty.String(),
			fmt.Sprintf("%d", l.Attempts),
			fmt.Sprintf("%.1f%%", Percent(l.Correct, l.Attempts)),
			fmt.Sprintf("%.2fs", avg),
		})
	}
	return formatTable([]string{"Level", "Attempts", "Accuracy", "Avg Time"}, rows, map[int]bool{1: true, 2: true, 3: true})
}

func curveLines(sessions []model.SessionAggregate, window, width int) []string {
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		accs[i] = Percent(s.Correct, s.Puzzles)
	}
	accs = MovingAverage(accs, window)
	if width > 0 {
		width = max(width, minSparkWidth)
		if len(accs) > width {
			accs = accs[len(accs)-width:]
		}
	}
	lo, hi := minMax(accs)
	return []string{
		Sparkline(accs),
		fmt.Sprintf("min %.1f%%  max %.1f%%", lo, hi),
	}
}

func recentLines(sessions []model.SessionAggregate) []string {
	if len(sessions) > recentSessionsN {
		sessions = sessions[len(sessions)-recentSessionsN:]
	}
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.UserName,
			fmt.Sprintf("%s → %s", s.StartDifficulty, s.EndDifficulty),
			fmt.Sprintf("%d/%d", s.Correct, s.Puzzles),
			fmt.Sprintf("%.1f%%", Percent(s.Correct, s.Puzzles)),
		})
	}
	return formatTable([]string{"Ended", "Student", "Difficulty", "Correct", "Accuracy"}, rows, map[int]bool{3: true, 4: true})
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

// Package console runs a practice session over plain line-oriented I/O.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/puzzle"
	"github.com/verte-zerg/mathdrill/internal/session"
	"github.com/verte-zerg/mathdrill/internal/stats"
)

// ErrInputClosed is returned when input ends before the session starts.
var ErrInputClosed = errors.New("input closed before the session started")

// Console reads answers line by line and prints feedback.
type Console struct {
	lines <-chan string
	out   io.Writer
}

// New wraps in and out. Lines are read on a separate goroutine so that a
// cancelled context can end the session while a read is blocked.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{lines: readLines(in), out: out}
}

// Run performs setup prompts, plays the session and prints the summary.
// It returns the session so the caller can persist it; the session is nil
// only when setup could not complete.
func (c *Console) Run(ctx context.Context, opts session.Options) (*session.Session, error) {
	cfg := opts.Config
	c.println("")
	c.println(strings.Repeat("=", stats.RuleWidth))
	c.println("MATH DRILL - Adaptive Arithmetic Practice")
	c.println(strings.Repeat("=", stats.RuleWidth))
	c.println("")

	if opts.AskName {
		c.print("Welcome! What's your name? ")
		name, ok := c.readLine(ctx)
		if !ok {
			return nil, ErrInputClosed
		}
		cfg.Name = name
	}
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = session.DefaultName
	}
	c.printf("\nHi %s! Let's practice some math!\n\n", strings.TrimSpace(cfg.Name))

	if opts.AskDifficulty {
		d, ok := c.chooseDifficulty(ctx)
		if !ok {
			return nil, ErrInputClosed
		}
		cfg.Difficulty = d
	}
	c.printf("\nGreat! Starting with %s level.\n\n", cfg.Difficulty)

	sess, err := opts.Start(cfg)
	if err != nil {
		return nil, err
	}

	c.println("Adaptation Strategy: RULE-BASED")
	c.println("")
	c.println(strings.Repeat("-", stats.RuleWidth))

	if !c.play(ctx, sess) {
		c.println("\n\nSession interrupted by user.")
	}
	if err := stats.RenderSessionSummary(c.out, sess.Summary(), sess.History()); err != nil {
		return sess, fmt.Errorf("failed to write summary: %w", err)
	}
	return sess, nil
}

func (c *Console) chooseDifficulty(ctx context.Context) (model.Difficulty, bool) {
	c.println("Choose your starting difficulty:")
	for i, d := range model.Difficulties {
		c.printf("%d. %-7s(%s)\n", i+1, titleCase(d.String()), puzzle.RulesFor(d).Describe())
	}
	for {
		c.print("\nEnter (1/2/3): ")
		choice, ok := c.readLine(ctx)
		if !ok {
			return model.Easy, false
		}
		choice = strings.TrimSpace(choice)
		if len(choice) == 1 {
			if d, err := model.ParseDifficulty(choice); err == nil {
				return d, true
			}
		}
		c.println("Invalid choice. Please enter 1, 2, or 3.")
	}
}

// play returns false when the session ended before all puzzles were answered.
func (c *Console) play(ctx context.Context, sess *session.Session) bool {
	for !sess.Done() {
		p, err := sess.NextPuzzle()
		if err != nil {
			return sess.Done()
		}
		c.printf("\n[Question %d/%d] (%s)\n", sess.Asked(), sess.Total(), p.Difficulty)
		c.printf("Problem: %s\n", p)

		for {
			c.print("Your answer: ")
			line, ok := c.readLine(ctx)
			if !ok {
				return false
			}
			outcome, err := sess.Submit(line)
			if err != nil {
				c.printf("%s.\n", capitalize(err.Error()))
				continue
			}
			c.report(outcome, sess.Config().Window)
			break
		}
	}
	return true
}

func (c *Console) report(o session.Outcome, window int) {
	if o.Correct {
		c.println(" Correct!")
	} else {
		c.printf(" Wrong! Correct answer: %d\n", o.Puzzle.Answer)
	}
	if o.Changed() {
		c.printf(" Difficulty adjusted: %s → %s\n", o.From, o.To)
	} else {
		c.printf(" Keeping %s level\n", o.To)
	}
	c.printf(" Time: %.2fs | Accuracy (last %d): %.1f%%\n", o.Elapsed.Seconds(), window, o.RecentAccuracy)
	c.println(strings.Repeat("-", stats.RuleWidth))
}

func (c *Console) readLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-c.lines:
		return line, ok
	}
}

func readLines(in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			ch <- strings.TrimRight(scanner.Text(), "\r")
		}
	}()
	return ch
}

func (c *Console) print(s string) {
	c.printf("%s", s)
}

func (c *Console) println(s string) {
	c.printf("%s\n", s)
}

func (c *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		// Best-effort console output.
		_ = err
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

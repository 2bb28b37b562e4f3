// Package terminal drives a workflow session from a line based console:
// buttons are numbered and the user answers with a number or a command.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/manno/inflow/internal/render"
	"github.com/manno/inflow/internal/workflow"
)

// Commands understood besides button numbers.
const (
	CmdStart      = "/start"
	CmdRestart    = "/restart"
	CmdSelections = "/selections"
	CmdQuit       = "/quit"
)

type styles struct {
	title   lipgloss.Style
	notice  lipgloss.Style
	number  lipgloss.Style
	summary lipgloss.Style
	errText lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DD3FC")),
		notice:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FBBF24")),
		number:  r.NewStyle().Faint(true),
		summary: r.NewStyle().Foreground(lipgloss.Color("#A3E635")),
		errText: r.NewStyle().Foreground(lipgloss.Color("#F87171")),
	}
}

// Console runs one session against stdin/stdout like streams.
type Console struct {
	manager *workflow.Manager
	session string
	in      *bufio.Reader
	out     io.Writer
	logger  *slog.Logger
	styles  styles
	buttons []render.Button
}

// New creates a console for the given session id.
func New(manager *workflow.Manager, session string, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	return &Console{
		manager: manager,
		session: session,
		in:      bufio.NewReader(in),
		out:     out,
		logger:  logger,
		styles:  newStyles(lipgloss.NewRenderer(out)),
	}
}

// Run starts the session and reads input until /quit, end of input or ctx
// is done.
func (c *Console) Run(ctx context.Context) error {
	c.logger.Info("starting console session", "session", c.session)

	fmt.Fprintln(c.out, c.styles.title.Render("=== Workflow ==="))
	fmt.Fprintf(c.out, "Enter a button number, or %s, %s, %s and %s.\n\n", CmdStart, CmdSelections, CmdRestart, CmdQuit)

	if err := c.start(ctx); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read input: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		input := strings.TrimSpace(line)
		if input != "" {
			quit, err := c.handle(ctx, input)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}

		if eof {
			fmt.Fprintln(c.out)
			return nil
		}
	}
}

func (c *Console) handle(ctx context.Context, input string) (bool, error) {
	switch strings.ToLower(input) {
	case CmdQuit:
		fmt.Fprintln(c.out, "Bye.")
		return true, nil
	case CmdStart, CmdRestart:
		return false, c.start(ctx)
	case CmdSelections:
		entries, err := c.manager.Selections(ctx, c.session)
		if err != nil {
			return false, c.fail(err)
		}
		fmt.Fprintln(c.out, c.styles.summary.Render(workflow.Summary(entries)))
		return false, nil
	}

	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(c.buttons) {
		fmt.Fprintln(c.out, c.styles.errText.Render("Please enter a button number or a command."))
		return false, nil
	}

	screen, err := c.manager.Handle(ctx, c.session, c.buttons[n-1].Data)
	if err != nil {
		if errors.Is(err, workflow.ErrSessionNotFound) {
			return false, c.fail(err)
		}
		c.logger.Debug("action rejected", "session", c.session, "error", err)
		if screen.Notice == "" {
			fmt.Fprintln(c.out, c.styles.errText.Render(err.Error()))
		}
	}
	c.show(screen)
	return false, nil
}

func (c *Console) start(ctx context.Context) error {
	screen, err := c.manager.Start(ctx, c.session)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	c.show(screen)
	return nil
}

// fail reports a lost session and keeps the loop alive.
func (c *Console) fail(err error) error {
	if errors.Is(err, workflow.ErrSessionNotFound) {
		c.buttons = nil
		fmt.Fprintf(c.out, "%s\n", c.styles.errText.Render("Your workflow state was lost. Please start again with "+CmdStart+"."))
		return nil
	}
	return err
}

func (c *Console) show(screen render.Screen) {
	c.buttons = c.buttons[:0]

	if screen.Finished {
		fmt.Fprintln(c.out, c.styles.title.Render(screen.Text))
		fmt.Fprintln(c.out, c.styles.summary.Render(workflow.Summary(screen.Summary)))
		fmt.Fprintf(c.out, "Type %s to begin again or %s to leave.\n", CmdStart, CmdQuit)
		return
	}

	if screen.Notice != "" {
		fmt.Fprintln(c.out, c.styles.notice.Render(screen.Notice))
	} else {
		fmt.Fprintln(c.out, c.styles.title.Render(screen.Text))
	}

	for _, row := range screen.Rows {
		cells := make([]string, 0, len(row))
		for _, b := range row {
			c.buttons = append(c.buttons, b)
			cells = append(cells, c.styles.number.Render(fmt.Sprintf("[%d]", len(c.buttons)))+" "+b.Label)
		}
		fmt.Fprintln(c.out, "  "+strings.Join(cells, "   "))
	}
}

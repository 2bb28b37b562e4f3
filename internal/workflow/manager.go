package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/manno/inflow/internal/navigator"
	"github.com/manno/inflow/internal/render"
	"github.com/manno/inflow/internal/selection"
)

// IncompleteNotice replaces the step text when done is pressed before every
// radio group has a choice.
const IncompleteNotice = "⚠️ Please make all required selections before proceeding."

// Manager is what transports talk to: it owns the sessions and turns
// callback data into screens.
type Manager struct {
	engine   *navigator.Engine
	planner  *render.Planner
	repo     *Repository
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRecorder sets where action and session counters go.
func WithRecorder(r Recorder) ManagerOption {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

// WithRepository shares a session repository.
func WithRepository(repo *Repository) ManagerOption {
	return func(m *Manager) {
		m.repo = repo
	}
}

// NewManager creates a new workflow manager
func NewManager(engine *navigator.Engine, planner *render.Planner, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		engine:   engine,
		planner:  planner,
		repo:     NewRepository(),
		logger:   logger,
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sessions returns the repository backing the manager.
func (m *Manager) Sessions() *Repository {
	return m.repo
}

// Start creates the session, or resets an existing one, and returns the
// first screen.
func (m *Manager) Start(ctx context.Context, id string) (render.Screen, error) {
	if err := ctx.Err(); err != nil {
		return render.Screen{}, err
	}

	var screen render.Screen
	err := m.repo.Do(id, true, func(s *Session) error {
		s.State.Reset()
		s.UpdatedAt = m.now()
		screen = m.render(s)
		return nil
	})
	if err != nil {
		return render.Screen{}, err
	}

	m.recorder.SessionStarted()
	m.logger.Info("started workflow session",
		"session", id,
		"workflow", m.engine.Definition().Name(),
		"steps", m.engine.Definition().Len())
	return screen, nil
}

// StartNew starts a session under a fresh random id.
func (m *Manager) StartNew(ctx context.Context) (string, render.Screen, error) {
	id := NewID()
	screen, err := m.Start(ctx, id)
	if err != nil {
		return "", render.Screen{}, err
	}
	return id, screen, nil
}

// Handle applies the callback data to the session. A rejected action
// returns the unchanged current screen together with the error.
func (m *Manager) Handle(ctx context.Context, id, data string) (render.Screen, error) {
	if err := ctx.Err(); err != nil {
		return render.Screen{}, err
	}

	var screen render.Screen
	err := m.repo.Do(id, false, func(s *Session) error {
		kind := "unknown"
		var (
			out navigator.Outcome
			err error
		)
		if m.engine.Finished(&s.State) {
			// only a restart leaves the summary
			err = navigator.ErrFinished
		} else {
			var action navigator.Action
			action, err = navigator.DecodeCallback(data)
			if err == nil {
				kind = action.Kind.String()
				out, err = m.engine.Apply(&s.State, action)
			}
		}

		if err != nil {
			m.recorder.Action(kind, outcomeOf(err))
			m.logger.Warn("rejected action",
				"session", s.ID,
				"data", data,
				"step", s.State.Index,
				"error", err)
			screen = m.render(s)
			if errors.Is(err, navigator.ErrIncompleteStep) {
				screen.Notice = IncompleteNotice
			}
			return err
		}

		s.UpdatedAt = m.now()
		m.recorder.Action(kind, OutcomeAccepted)
		m.logger.Debug("applied action",
			"session", s.ID,
			"action", kind,
			"from", out.From,
			"to", out.To)
		if out.Finished {
			m.recorder.SessionFinished()
			m.logger.Info("workflow completed",
				"session", s.ID,
				"selections", s.State.Selections.Len())
		}
		screen = m.render(s)
		return nil
	})
	return screen, err
}

// Screen re-renders the session's current screen.
func (m *Manager) Screen(ctx context.Context, id string) (render.Screen, error) {
	if err := ctx.Err(); err != nil {
		return render.Screen{}, err
	}

	var screen render.Screen
	err := m.repo.Do(id, false, func(s *Session) error {
		screen = m.render(s)
		return nil
	})
	return screen, err
}

// Selections returns what the session picked so far, in recording order.
func (m *Manager) Selections(ctx context.Context, id string) ([]selection.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []selection.Entry
	err := m.repo.Do(id, false, func(s *Session) error {
		entries = s.State.Selections.Snapshot()
		return nil
	})
	return entries, err
}

// Reset forgets the session.
func (m *Manager) Reset(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidSessionID
	}
	if !m.repo.Delete(id) {
		return ErrSessionNotFound
	}
	m.logger.Info("reset workflow session", "session", id)
	return nil
}

func (m *Manager) render(s *Session) render.Screen {
	m.engine.Prepare(&s.State)
	return m.planner.ForState(m.engine, &s.State)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, navigator.ErrStalePress):
		return OutcomeStale
	case errors.Is(err, navigator.ErrInvalidState):
		return OutcomeInvalidState
	case errors.Is(err, navigator.ErrValidation):
		return OutcomeValidation
	default:
		return "error"
	}
}

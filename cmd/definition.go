package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/manno/inflow/internal/flow"
	"github.com/manno/inflow/internal/metrics"
	"github.com/manno/inflow/internal/navigator"
	"github.com/manno/inflow/internal/render"
	"github.com/manno/inflow/internal/workflow"
	"github.com/spf13/viper"
)

// loadDefinition reads the configured workflow file and logs its warnings.
func loadDefinition(logger *slog.Logger) (*flow.Definition, error) {
	path := viper.GetString("definition")
	if path == "" {
		return nil, errors.New("no workflow definition given, use --definition or INFLOW_DEFINITION")
	}

	def, err := flow.LoadFile(path)
	if err != nil {
		logger.Error("failed to load workflow definition", "file", path, "error", err)
		return nil, fmt.Errorf("failed to load workflow definition: %w", err)
	}

	for _, w := range def.Warnings() {
		logger.Warn("workflow definition warning", "file", path, "warning", w)
	}
	logger.Info("loaded workflow definition",
		"file", path,
		"workflow", def.Name(),
		"steps", def.Len())
	return def, nil
}

// newManager wires engine, planner and metrics for def.
func newManager(def *flow.Definition, logger *slog.Logger) *workflow.Manager {
	engine := navigator.New(def, logger,
		navigator.WithPreselectRadios(viper.GetBool("navigator.preselect-radios")))
	planner := render.NewPlanner(render.Labels{
		Done:         viper.GetString("render.done-label"),
		Back:         viper.GetString("render.back-label"),
		SummaryTitle: viper.GetString("render.summary-title"),
	})
	return workflow.NewManager(engine, planner, logger, workflow.WithRecorder(metrics.Recorder{}))
}

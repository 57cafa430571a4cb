package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"htmlizer/internal/driver"
	"htmlizer/internal/pipeline"
	"htmlizer/internal/ui"
)

type runOutcome struct {
	results []*driver.FileResult
	err     error
}

// runWithUI runs fn while a progress screen follows its events.
// fn must send its events to the given sink.
func runWithUI(ctx context.Context, title string, files []string,
	fn func(context.Context, pipeline.ProgressSink) ([]*driver.FileResult, error)) ([]*driver.FileResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		res, err := fn(ctx, pipeline.ChannelSink{Ch: events})
		outcomeCh <- runOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

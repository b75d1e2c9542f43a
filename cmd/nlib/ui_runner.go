package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"nlib/internal/bridge"
	"nlib/internal/driver"
	"nlib/internal/ui"
)

type loadOutcome struct {
	result *driver.LoadResult
	err    error
}

// runLoadWithUI runs driver.Load in the background and renders its
// progress until the load returns.
func runLoadWithUI(ctx context.Context, title string, c *bridge.Context, files []string, opts driver.LoadOptions) (*driver.LoadResult, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan loadOutcome, 1)

	go func() {
		o := opts
		o.Observer = func(ev driver.ProgressEvent) { events <- ev }
		res, err := driver.Load(ctx, c, files, o)
		outcomeCh <- loadOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

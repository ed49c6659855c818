package domain

import "errors"

var (
	// ErrRenderTimeout is returned by the browser fetcher when the page
	// loaded but the expected marker never appeared within the render budget.
	ErrRenderTimeout = errors.New("render wait timed out")

	// ErrCycleInProgress is returned by RunCycle when a trigger fires while
	// a previous cycle is still running.
	ErrCycleInProgress = errors.New("collection cycle already in progress")
)

package service

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"
)

// Stage names reported in StageError.
const (
	StageUpload = "upload"
	StageSubmit = "submit"
	StagePoll   = "poll"
	StageExport = "export"
)

// StageError is a stage-aware failure. The cause stays reachable through
// errors.Is / errors.As.
type StageError struct {
	Stage string
	Err   error
}

// Error formats pipeline failures for logs and UI.
func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap exposes the stage's own error.
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Stage is one step of a sequential pipeline.
type Stage[In, Out any] struct {
	Name string
	Run  func(ctx context.Context, in In) (Out, error)
}

// Execute runs the stage and tags its failure with the stage name. Errors
// already tagged by an inner stage pass through unchanged.
func (s Stage[In, Out]) Execute(ctx context.Context, in In) (Out, error) {
	var zero Out
	if err := ctx.Err(); err != nil {
		return zero, &StageError{Stage: s.Name, Err: err}
	}

	out, err := s.Run(ctx, in)
	if err == nil {
		return out, nil
	}

	var tagged *StageError
	if errors.As(err, &tagged) {
		return zero, err
	}
	log.Errorw("stage failed", "stage", s.Name, "error", err)
	return zero, &StageError{Stage: s.Name, Err: err}
}

// Chain runs first, then second on its output.
func Chain[A, B, C any](first Stage[A, B], second Stage[B, C]) Stage[A, C] {
	return Stage[A, C]{
		Name: first.Name + "+" + second.Name,
		Run: func(ctx context.Context, in A) (C, error) {
			mid, err := first.Execute(ctx, in)
			if err != nil {
				var zero C
				return zero, err
			}
			return second.Execute(ctx, mid)
		},
	}
}

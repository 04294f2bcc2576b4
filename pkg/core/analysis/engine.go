package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"merger_analysis/pkg/core/assessment"
	"merger_analysis/pkg/core/concentration"
	"merger_analysis/pkg/core/deposits"
	"merger_analysis/pkg/core/geo"
)

// Engine orchestrates one merger screen end to end: geography resolution
// (or auto-generation from the subject bank's footprint), then per-county
// concentration scoring. It is a pure function of its collaborators and is
// safe for concurrent requests.
type Engine struct {
	resolver   *geo.Resolver
	generator  *assessment.Generator
	calculator *concentration.Calculator
}

// NewEngine wires the engine over the two read-only collaborators.
func NewEngine(xwalk geo.GeoCrosswalk, store deposits.DepositStore, opts concentration.Options) *Engine {
	return &Engine{
		resolver:   geo.NewResolver(xwalk),
		generator:  assessment.NewGenerator(xwalk, store),
		calculator: concentration.NewCalculator(store, opts),
	}
}

// ScreenWithSpec resolves a raw assessment-area spec and scores the
// resulting counties. Resolution warnings ride along on the screen; they
// never fail the request.
func (e *Engine) ScreenWithSpec(ctx context.Context, rawSpec []byte, subjectID, targetID string, year int) (*MergerScreen, error) {
	counties, warnings, err := e.resolver.Resolve(ctx, rawSpec)
	if err != nil {
		return nil, fmt.Errorf("resolving assessment areas: %w", err)
	}
	return e.screen(ctx, counties, warnings, subjectID, targetID, year)
}

// ScreenAuto derives the assessment area from the subject bank's deposit
// footprint instead of a caller-supplied spec.
func (e *Engine) ScreenAuto(ctx context.Context, subjectID, targetID string, year int, minNationalShare float64) (*MergerScreen, error) {
	counties, err := e.generator.Generate(ctx, subjectID, year, minNationalShare)
	if err != nil {
		return nil, fmt.Errorf("generating assessment area for %s: %w", subjectID, err)
	}
	return e.screen(ctx, counties, nil, subjectID, targetID, year)
}

func (e *Engine) screen(ctx context.Context, counties []geo.County, warnings []string, subjectID, targetID string, year int) (*MergerScreen, error) {
	results, err := e.calculator.Compute(ctx, counties, subjectID, targetID, year)
	if err != nil {
		return nil, fmt.Errorf("computing concentration: %w", err)
	}
	return &MergerScreen{
		RequestID:     uuid.New().String(),
		SubjectBankID: subjectID,
		TargetBankID:  targetID,
		Year:          year,
		GeneratedAt:   time.Now().UTC(),
		Counties:      counties,
		Warnings:      warnings,
		Results:       results,
	}, nil
}

package contracts

import (
	"errors"
	"fmt"
)

// Sentinel errors for the screening pipeline. Calculation errors
// (insufficient data, undefined metrics) are captured per company and
// per metric and converted into failing filter results; they never abort
// a screening run. Infrastructure errors from the fetch or cache
// collaborators propagate unchanged and mark the whole company as failed.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrUndefinedMetric  = errors.New("undefined metric")
	ErrInfrastructure   = errors.New("infrastructure failure")
)

// InsufficientDataError reports fewer periods than a calculation requires.
type InsufficientDataError struct {
	Op   string // calculation that failed, e.g. "ttm", "roic history"
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d periods, got %d", e.Op, e.Need, e.Got)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// NewInsufficientData creates an InsufficientDataError
func NewInsufficientData(op string, need, got int) error {
	return &InsufficientDataError{Op: op, Need: need, Got: got}
}

// UndefinedMetricError reports a mathematically undefined ratio, such as
// a zero or negative denominator.
type UndefinedMetricError struct {
	Metric string
	Reason string
}

func (e *UndefinedMetricError) Error() string {
	return fmt.Sprintf("%s undefined: %s", e.Metric, e.Reason)
}

func (e *UndefinedMetricError) Is(target error) bool {
	return target == ErrUndefinedMetric
}

// NewUndefinedMetric creates an UndefinedMetricError
func NewUndefinedMetric(metric, reason string) error {
	return &UndefinedMetricError{Metric: metric, Reason: reason}
}

// InfrastructureError wraps a collaborator failure without masking it.
type InfrastructureError struct {
	Source string // collaborator that failed, e.g. "yahoo", "cache"
	Err    error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func (e *InfrastructureError) Is(target error) bool {
	return target == ErrInfrastructure
}

// NewInfrastructure wraps err as an InfrastructureError
func NewInfrastructure(source string, err error) error {
	return &InfrastructureError{Source: source, Err: err}
}

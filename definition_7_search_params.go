package scheduler

import (
	"fmt"
	"io"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/charmbracelet/log"
)

type SearchMode string

const (
	SearchModeFull SearchMode = "full"
	SearchModeBeam SearchMode = "beam"
)

const (
	DefaultMaxIterations = 40000
	DefaultBeamWidth     = 3
	DefaultWorkers       = 1
	DefaultProgressEvery = 10000

	_ContextCheckEvery = 1024
)

func ParseSearchMode(mode string) (SearchMode, error) {
	switch SearchMode(mode) {
	case SearchModeFull, SearchModeBeam:
		return SearchMode(mode),
			nil
	}

	return "",
		goerrors.ErrInvalidInput{
			Caller:     "ParseSearchMode",
			InputName:  "mode",
			InputValue: mode,
			Issue: fmt.Errorf(
				"expected %q or %q",

				SearchModeFull,
				SearchModeBeam,
			),
		}
}

type ParamsSearch struct {
	Logger *log.Logger

	Mode SearchMode

	MaxIterations int
	BeamWidth     int // used only in beam mode
	Workers       int // beam lookahead parallelism
	ProgressEvery int // debug log period in iterations
}

// withDefaults returns a copy with zero values replaced by defaults.
func (params ParamsSearch) withDefaults() ParamsSearch {
	if len(params.Mode) == 0 {
		params.Mode = SearchModeFull
	}

	if params.MaxIterations == 0 {
		params.MaxIterations = DefaultMaxIterations
	}

	if params.BeamWidth == 0 {
		params.BeamWidth = DefaultBeamWidth
	}

	if params.Workers == 0 {
		params.Workers = DefaultWorkers
	}

	if params.ProgressEvery == 0 {
		params.ProgressEvery = DefaultProgressEvery
	}

	if params.Logger == nil {
		params.Logger = log.New(io.Discard)
	}

	return params
}

func (params *ParamsSearch) IsValid() error {
	if len(params.Mode) > 0 {
		if _, errMode := ParseSearchMode(string(params.Mode)); errMode != nil {
			return goerrors.ErrValidation{
				Caller: "IsValid - ParamsSearch",
				Issue:  errMode,
			}
		}
	}

	counts := []struct {
		name  string
		value int
	}{
		{"MaxIterations", params.MaxIterations},
		{"BeamWidth", params.BeamWidth},
		{"Workers", params.Workers},
		{"ProgressEvery", params.ProgressEvery},
	}

	for _, count := range counts {
		if count.value < 0 {
			return goerrors.ErrValidation{
				Caller: "IsValid - ParamsSearch",
				Issue: goerrors.ErrNegativeInput{
					InputName: count.name,
				},
			}
		}
	}

	return nil
}

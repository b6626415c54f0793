package bnb

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// fileOptions is the YAML shape of Options. Absent keys keep their defaults.
type fileOptions struct {
	Strategy       string `yaml:"strategy"`
	Branching      string `yaml:"branching"`
	Workers        *int   `yaml:"workers"`
	TimeLimit      string `yaml:"time_limit"`
	NodeLimit      *int   `yaml:"node_limit"`
	MaxCutRounds   *int   `yaml:"max_cut_rounds"`
	DisablePruning bool   `yaml:"disable_pruning"`
}

// LoadOptions reads Options from YAML on top of DefaultOptions:
//
//	strategy: depth-first      # or best-bound
//	branching: first-fractional
//	workers: 4
//	time_limit: 30s            # time.ParseDuration syntax
//	node_limit: 100000
//	max_cut_rounds: 20
//	disable_pruning: false
//
// Unknown keys are rejected. An empty document yields the defaults.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	var fo fileOptions
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fo); err != nil {
		if errors.Is(err, io.EOF) {
			return opts, nil
		}

		return opts, fmt.Errorf("%w: %v", ErrBadOptions, err)
	}

	var err error
	if fo.Strategy != "" {
		if opts.Strategy, err = ParseNodeSelection(fo.Strategy); err != nil {
			return opts, err
		}
	}
	if fo.Branching != "" {
		if opts.Branching, err = ParseBranchRule(fo.Branching); err != nil {
			return opts, err
		}
	}
	if fo.Workers != nil {
		opts.Workers = *fo.Workers
	}
	if fo.TimeLimit != "" {
		var d time.Duration
		if d, err = time.ParseDuration(fo.TimeLimit); err != nil {
			return opts, fmt.Errorf("%w: time_limit: %v", ErrBadOptions, err)
		}
		opts.TimeLimit = d
	}
	if fo.NodeLimit != nil {
		opts.NodeLimit = *fo.NodeLimit
	}
	if fo.MaxCutRounds != nil {
		opts.MaxCutRounds = *fo.MaxCutRounds
	}
	opts.DisablePruning = fo.DisablePruning

	return opts, opts.Validate()
}

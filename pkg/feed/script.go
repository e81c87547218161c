package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Step is one scripted observation held for a while.
type Step struct {
	UserID int           `yaml:"user_id"`
	Name   string        `yaml:"name"`
	Desk   int           `yaml:"desk"`
	Height int           `yaml:"height"`
	Hold   time.Duration `yaml:"hold"`
}

// Script is a recorded sequence of desk sessions.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Errors
var (
	ErrEmptyScript = errors.New("script has no steps")
	ErrInvalidStep = errors.New("invalid script step")
)

// Observation returns the step as a publisher observation.
func (s Step) Observation() Observation {
	return Observation{UserID: s.UserID, Name: s.Name, Desk: s.Desk, Height: s.Height}
}

// LoadScript decodes a YAML script:
//
//	steps:
//	  - {user_id: 7, name: Alice, desk: 3, height: 115, hold: 2s}
//	  - {user_id: 0, hold: 1s}
func LoadScript(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	script := &Script{}
	if err := yaml.Unmarshal(data, script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	for i, s := range script.Steps {
		switch {
		case s.Hold < 0:
			return nil, fmt.Errorf("%w: step %d has negative hold", ErrInvalidStep, i)
		case s.Height < 0 || s.Desk < 0:
			return nil, fmt.Errorf("%w: step %d has negative desk or height", ErrInvalidStep, i)
		}
	}
	return script, nil
}

// Play publishes every step in order and waits out each hold with sleep.
// It stops early with ctx.Err() once ctx is done.
func Play(ctx context.Context, script *Script, pub *Publisher, sleep func(time.Duration)) error {
	if sleep == nil {
		sleep = time.Sleep
	}
	for i, s := range script.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := pub.Publish(s.Observation()); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if s.Hold > 0 {
			sleep(s.Hold)
		}
	}
	return nil
}

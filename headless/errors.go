// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrNoContext groups the platform failures that leave the caller without
// a graphics context: every error below except ErrGraphicsInit matches it
// with errors.Is.
var ErrNoContext = errors.New("no graphics context")

var (
	ErrNoDevices         = fmt.Errorf("%w: no devices available", ErrNoContext)
	ErrDisplayCreation   = fmt.Errorf("%w: display creation failed", ErrNoContext)
	ErrNoConfigs         = fmt.Errorf("%w: no configs available", ErrNoContext)
	ErrContextCreation   = fmt.Errorf("%w: context creation failed", ErrNoContext)
	ErrContextActivation = fmt.Errorf("%w: context activation failed", ErrNoContext)
)

// ErrGraphicsInit reports that the graphics context could not be built
// from an active render context.
var ErrGraphicsInit = errors.New("graphics context initialization failed")

// Error is returned by New. Stage is the last stage the acquisition
// completed before failing.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return "headless: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Stage is a step of the acquisition sequence.
type Stage uint8

const (
	StageUnstarted Stage = iota
	StageDeviceSelected
	StageDisplayOpen
	StageConfigSelected
	StageContextCreated
	StageContextCurrent
	StageReady
)

func (s Stage) String() string {
	switch s {
	case StageUnstarted:
		return "Unstarted"
	case StageDeviceSelected:
		return "DeviceSelected"
	case StageDisplayOpen:
		return "DisplayOpen"
	case StageConfigSelected:
		return "ConfigSelected"
	case StageContextCreated:
		return "ContextCreated"
	case StageContextCurrent:
		return "ContextCurrent"
	case StageReady:
		return "Ready"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

func wrap(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

var (
	errNoPlatform    = errors.New("no platform backend for " + runtime.GOOS)
	errNoInitializer = errors.New("no initializer")
	errNoFunctions   = errors.New("initializer returned no function table")
)

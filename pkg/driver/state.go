package driver

import (
	"errors"
	"fmt"
)

// ErrInvalidState is wrapped by every error returned for an illegal
// transition.
var ErrInvalidState = errors.New("invalid state")

// State represents driver's state
type State string

const (
	// StateClosed means that the driver has not been opened. In this state,
	// all information related to the hardware are still unknown. For example,
	// the supported video modes and features are still unknown.
	StateClosed State = "closed"
	// StateConfigured means that the driver is opened and the hardware may be
	// queried and configured, but it is not transmitting.
	StateConfigured State = "configured"
	// StateStreaming means that the driver has been sending data. The caller
	// who started the driver may start reading frames from the hardware.
	StateStreaming State = "streaming"
)

// Update updates current state, s, to next. If f fails to execute,
// s will stay unchanged. Otherwise, s will be updated to next
func (s *State) Update(next State, f func() error) error {
	type checkFunc func() error
	m := map[State]checkFunc{
		StateConfigured: s.toConfigured,
		StateClosed:     s.toClosed,
		StateStreaming:  s.toStreaming,
	}

	check, ok := m[next]
	if !ok {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidState, next)
	}

	err := check()
	if err != nil {
		return err
	}

	err = f()
	if err == nil {
		*s = next
	}
	return err
}

func (s *State) toConfigured() error {
	if *s == StateConfigured {
		return fmt.Errorf("%w: driver is already opened", ErrInvalidState)
	}
	return nil
}

func (s *State) toClosed() error {
	return nil
}

func (s *State) toStreaming() error {
	if *s == StateClosed {
		return fmt.Errorf("%w: driver is closed", ErrInvalidState)
	}

	if *s == StateStreaming {
		return fmt.Errorf("%w: driver is already streaming", ErrInvalidState)
	}

	return nil
}

package driver

import (
	"errors"
	"testing"
)

var noop = func() error { return nil }

func TestUpdate1(t *testing.T) {
	s := StateClosed
	s.Update(StateConfigured, noop)

	if s != StateConfigured {
		t.Fatalf("expected %s, got %s", StateConfigured, s)
	}

	s.Update(StateClosed, noop)

	if s != StateClosed {
		t.Fatalf("expected %s, got %s", StateClosed, s)
	}

	s.Update(StateConfigured, noop)

	if s != StateConfigured {
		t.Fatalf("expected %s, got %s", StateConfigured, s)
	}
}

func TestUpdateStreaming(t *testing.T) {
	s := StateClosed
	if err := s.Update(StateStreaming, noop); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state when streaming a closed driver, got %v", err)
	}

	s = StateConfigured
	if err := s.Update(StateStreaming, noop); err != nil {
		t.Fatalf("expected to start streaming, got %v", err)
	}

	if err := s.Update(StateStreaming, noop); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state when streaming twice, got %v", err)
	}

	if err := s.Update(StateConfigured, noop); err != nil {
		t.Fatalf("expected to stop streaming, got %v", err)
	}

	if s != StateConfigured {
		t.Fatalf("expected %s, got %s", StateConfigured, s)
	}
}

func TestUpdateFailure(t *testing.T) {
	broken := errors.New("broken")
	s := StateClosed

	if err := s.Update(StateConfigured, func() error { return broken }); err != broken {
		t.Fatalf("expected %v, got %v", broken, err)
	}

	if s != StateClosed {
		t.Fatalf("expected the state to stay %s, got %s", StateClosed, s)
	}

	if err := s.Update(StateConfigured, noop); err != nil {
		t.Fatal(err)
	}

	if err := s.Update(StateConfigured, noop); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state when opening twice, got %v", err)
	}
}

package dc1394

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	err := newError(KindOutOfRange, "set feature value", "brightness value %d outside [%d, %d]", 300, 0, 255)

	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.False(t, errors.Is(err, ErrState))
	assert.Equal(t, "dc1394: set feature value: out of range: brightness value 300 outside [0, 255]", err.Error())

	wrapped := fmt.Errorf("configure: %w", err)
	assert.True(t, errors.Is(wrapped, ErrOutOfRange))
	assert.Equal(t, KindOutOfRange, KindOf(wrapped))

	// Only sentinels match by kind.
	other := newError(KindOutOfRange, "set feature value", "x")
	assert.False(t, errors.Is(err, other))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(nil))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, KindTimeout, KindOf(ErrTimeout))
}

func TestWrapDriver(t *testing.T) {
	e := wrapDriver("start", fmt.Errorf("allocating: %w", CodeNoBandwidth))
	assert.Equal(t, KindDriver, e.Kind)
	assert.Equal(t, CodeNoBandwidth, e.Code)
	assert.True(t, errors.Is(e, ErrDriver))
	assert.True(t, errors.Is(e, CodeNoBandwidth))

	e = wrapDriver("start", errors.New("cable pulled"))
	assert.Equal(t, CodeFailure, e.Code)
	assert.Equal(t, "dc1394: start: driver error: cable pulled", e.Error())
}

func TestCodeError(t *testing.T) {
	assert.Equal(t, "not enough ISO bandwidth", CodeNoBandwidth.Error())
	assert.Equal(t, "unknown error code -99", Code(-99).Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unsupported feature mode", KindUnsupportedFeatureMode.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

package dc1394

import (
	"math"
)

// capability returns the cached capability of f, or the zero value for an
// unknown feature. The camera must be open.
func (c *Camera) capability(op string, f Feature) (FeatureCapability, error) {
	if err := c.requireOpen(op); err != nil {
		return FeatureCapability{}, err
	}
	return c.sess.caps[f], nil
}

// present guards every feature getter and setter. Setters additionally need
// the camera to be configured and not streaming. No driver call is made
// for an absent feature.
func (c *Camera) present(op string, f Feature, mutate bool) (FeatureCapability, error) {
	check := c.requireOpen
	if mutate {
		check = c.requireConfigured
	}
	if err := check(op); err != nil {
		return FeatureCapability{}, err
	}

	cp := c.sess.caps[f]
	if !cp.Present {
		return cp, newError(KindFeatureNotPresent, op, "%s is not present", f)
	}
	return cp, nil
}

// absolute guards the physical unit path: the feature must support it and
// absolute control must be switched on.
func (c *Camera) absolute(op string, f Feature, mutate bool) (FeatureCapability, error) {
	cp, err := c.present(op, f, mutate)
	if err != nil {
		return cp, err
	}
	if !cp.Absolute {
		return cp, newError(KindUnsupportedOperation, op, "%s has no absolute control", f)
	}
	on, err := c.sess.handle.FeatureAbsoluteControl(f)
	if err != nil {
		return cp, c.driverError(op, err)
	}
	if !on {
		return cp, newError(KindUnsupportedOperation, op, "absolute control of %s is off", f)
	}
	return cp, nil
}

// IsFeaturePresent reports whether the camera implements f.
func (c *Camera) IsFeaturePresent(f Feature) (bool, error) {
	cp, err := c.capability("is feature present", f)
	return cp.Present, err
}

// IsFeatureReadable reports whether the value of f can be read back.
func (c *Camera) IsFeatureReadable(f Feature) (bool, error) {
	cp, err := c.capability("is feature readable", f)
	return cp.Present && cp.Readable, err
}

// IsFeatureSwitchable reports whether f can be turned on and off.
func (c *Camera) IsFeatureSwitchable(f Feature) (bool, error) {
	cp, err := c.capability("is feature switchable", f)
	return cp.Present && cp.Switchable, err
}

// HasFeatureAbsoluteControl reports whether f can be set in physical units.
func (c *Camera) HasFeatureAbsoluteControl(f Feature) (bool, error) {
	cp, err := c.capability("has feature absolute control", f)
	return cp.Present && cp.Absolute, err
}

// FeatureAbsoluteControl reports whether absolute control is switched on.
func (c *Camera) FeatureAbsoluteControl(f Feature) (bool, error) {
	const op = "get feature absolute control"
	cp, err := c.present(op, f, false)
	if err != nil {
		return false, err
	}
	if !cp.Absolute {
		return false, nil
	}
	on, err := c.sess.handle.FeatureAbsoluteControl(f)
	if err != nil {
		return false, c.driverError(op, err)
	}
	return on, nil
}

func (c *Camera) SetFeatureAbsoluteControl(f Feature, on bool) error {
	const op = "set feature absolute control"
	cp, err := c.present(op, f, true)
	if err != nil {
		return err
	}
	if !cp.Absolute {
		return newError(KindUnsupportedOperation, op, "%s has no absolute control", f)
	}
	if err := c.sess.handle.SetFeatureAbsoluteControl(f, on); err != nil {
		return c.driverError(op, err)
	}
	return nil
}

func (c *Camera) IsFeatureEnabled(f Feature) (bool, error) {
	const op = "is feature enabled"
	if _, err := c.present(op, f, false); err != nil {
		return false, err
	}
	on, err := c.sess.handle.FeatureEnabled(f)
	if err != nil {
		return false, c.driverError(op, err)
	}
	return on, nil
}

func (c *Camera) SetFeatureEnabled(f Feature, on bool) error {
	const op = "set feature enabled"
	cp, err := c.present(op, f, true)
	if err != nil {
		return err
	}
	if !cp.Switchable {
		return newError(KindUnsupportedOperation, op, "%s cannot be switched", f)
	}
	if err := c.sess.handle.SetFeatureEnabled(f, on); err != nil {
		return c.driverError(op, err)
	}
	return nil
}

// FeatureModes reports which control modes f supports.
func (c *Camera) FeatureModes(f Feature) (FeatureModes, error) {
	const op = "get feature modes"
	if _, err := c.present(op, f, false); err != nil {
		return FeatureModes{}, err
	}
	modes, err := c.sess.handle.FeatureModes(f)
	if err != nil {
		return FeatureModes{}, c.driverError(op, err)
	}
	return modes, nil
}

func (c *Camera) FeatureMode(f Feature) (FeatureMode, error) {
	const op = "get feature mode"
	if _, err := c.present(op, f, false); err != nil {
		return 0, err
	}
	m, err := c.sess.handle.FeatureMode(f)
	if err != nil {
		return 0, c.driverError(op, err)
	}
	return m, nil
}

// SetFeatureMode switches f to mode m, which must be one the camera reports
// for f.
func (c *Camera) SetFeatureMode(f Feature, m FeatureMode) error {
	const op = "set feature mode"
	if _, err := c.present(op, f, true); err != nil {
		return err
	}
	modes, err := c.sess.handle.FeatureModes(f)
	if err != nil {
		return c.driverError(op, err)
	}
	if !modes.Has(m) {
		return newError(KindUnsupportedFeatureMode, op, "%s does not support %s mode", f, m)
	}
	if err := c.sess.handle.SetFeatureMode(f, m); err != nil {
		return c.driverError(op, err)
	}
	return nil
}

// FeatureBoundaries returns the integer range of f. The range may depend on
// the video mode and feature mode and is queried on every call.
func (c *Camera) FeatureBoundaries(f Feature) (min, max uint32, err error) {
	const op = "get feature boundaries"
	if _, err := c.present(op, f, false); err != nil {
		return 0, 0, err
	}
	return c.boundaries(op, f)
}

func (c *Camera) boundaries(op string, f Feature) (min, max uint32, err error) {
	min, max, err = c.sess.handle.FeatureBoundaries(f)
	if err != nil {
		return 0, 0, c.driverError(op, err)
	}
	if min > max {
		return 0, 0, c.driverError(op, CodeInvalidArgumentValue)
	}
	return min, max, nil
}

// FeatureBoundariesAbsolute returns the range of f in physical units. It
// requires absolute control to be on.
func (c *Camera) FeatureBoundariesAbsolute(f Feature) (min, max float32, err error) {
	const op = "get feature absolute boundaries"
	if _, err := c.absolute(op, f, false); err != nil {
		return 0, 0, err
	}
	return c.boundariesAbsolute(op, f)
}

func (c *Camera) boundariesAbsolute(op string, f Feature) (min, max float32, err error) {
	min, max, err = c.sess.handle.FeatureBoundariesAbsolute(f)
	if err != nil {
		return 0, 0, c.driverError(op, err)
	}
	if min > max {
		return 0, 0, c.driverError(op, CodeInvalidArgumentValue)
	}
	return min, max, nil
}

func (c *Camera) FeatureValue(f Feature) (uint32, error) {
	const op = "get feature value"
	cp, err := c.present(op, f, false)
	if err != nil {
		return 0, err
	}
	if !cp.Readable {
		return 0, newError(KindUnsupportedOperation, op, "%s is not readable", f)
	}
	v, err := c.sess.handle.FeatureValue(f)
	if err != nil {
		return 0, c.driverError(op, err)
	}
	return v, nil
}

// SetFeatureValue sets f to v. Values outside the current boundaries are
// rejected, never clamped.
func (c *Camera) SetFeatureValue(f Feature, v uint32) error {
	const op = "set feature value"
	if _, err := c.present(op, f, true); err != nil {
		return err
	}
	min, max, err := c.boundaries(op, f)
	if err != nil {
		return err
	}
	if v < min || v > max {
		return newError(KindOutOfRange, op, "%s value %d outside [%d, %d]", f, v, min, max)
	}
	if err := c.sess.handle.SetFeatureValue(f, v); err != nil {
		return c.driverError(op, err)
	}
	return nil
}

func (c *Camera) FeatureValueAbsolute(f Feature) (float32, error) {
	const op = "get feature absolute value"
	cp, err := c.absolute(op, f, false)
	if err != nil {
		return 0, err
	}
	if !cp.Readable {
		return 0, newError(KindUnsupportedOperation, op, "%s is not readable", f)
	}
	v, err := c.sess.handle.FeatureValueAbsolute(f)
	if err != nil {
		return 0, c.driverError(op, err)
	}
	return v, nil
}

// SetFeatureValueAbsolute sets f to v in physical units. Absolute control
// must be on, and v inside the absolute boundaries.
func (c *Camera) SetFeatureValueAbsolute(f Feature, v float32) error {
	const op = "set feature absolute value"
	if _, err := c.absolute(op, f, true); err != nil {
		return err
	}
	min, max, err := c.boundariesAbsolute(op, f)
	if err != nil {
		return err
	}
	if math.IsNaN(float64(v)) || v < min || v > max {
		return newError(KindOutOfRange, op, "%s value %g outside [%g, %g]", f, v, min, max)
	}
	if err := c.sess.handle.SetFeatureValueAbsolute(f, v); err != nil {
		return c.driverError(op, err)
	}
	return nil
}

package dc1394

import (
	"fmt"

	"github.com/rlhal/firewire/pkg/driver"
	"github.com/rlhal/firewire/pkg/frame"
)

// SupportedVideoModes asks the camera which modes it implements.
func (c *Camera) SupportedVideoModes() ([]VideoMode, error) {
	const op = "get video modes"
	if err := c.requireOpen(op); err != nil {
		return nil, err
	}
	modes, err := c.sess.handle.VideoModes()
	if err != nil {
		return nil, c.driverError(op, err)
	}
	return modes, nil
}

func (c *Camera) checkSupported(op string, m VideoMode) error {
	modes, err := c.SupportedVideoModes()
	if err != nil {
		return err
	}
	for _, s := range modes {
		if s == m {
			return nil
		}
	}
	return newError(KindUnsupportedMode, op, "camera does not support video mode %s", m)
}

// SetVideoMode selects a video mode. Fixed modes take effect immediately.
// A Format7 mode is only selected; SetFormat7 has to complete the
// negotiation before Start.
func (c *Camera) SetVideoMode(m VideoMode) error {
	const op = "set video mode"
	if err := c.requireConfigured(op); err != nil {
		return err
	}
	if !m.Valid() || m == VideoModeEXIF {
		return newError(KindUnsupportedMode, op, "video mode %s cannot be selected", m)
	}
	if err := c.checkSupported(op, m); err != nil {
		return err
	}
	if err := c.sess.handle.SetVideoMode(m); err != nil {
		return c.driverError(op, err)
	}

	if m.IsFormat7() {
		c.sess.format = format{mode: m, set: true, pending: true}
		logger.Debugf("%s: selected %s, region pending", c.identity, m)
		return nil
	}

	width, height, coding, _ := m.Geometry()
	c.sess.format = format{
		mode:   m,
		coding: coding,
		width:  width,
		height: height,
		set:    true,
	}
	logger.Debugf("%s: selected %s", c.identity, m)
	return nil
}

// VideoMode returns the selected mode. ok is false until one is selected.
func (c *Camera) VideoMode() (m VideoMode, ok bool) {
	if c.sess == nil || !c.sess.format.set {
		return 0, false
	}
	return c.sess.format.mode, true
}

// Format7MaximumImageSize returns the largest region a Format7 mode allows.
func (c *Camera) Format7MaximumImageSize(m VideoMode) (width, height int, err error) {
	const op = "get format7 maximum image size"
	if err := c.requireOpen(op); err != nil {
		return 0, 0, err
	}
	if !m.IsFormat7() {
		return 0, 0, newError(KindUnsupportedMode, op, "%s is not a format7 mode", m)
	}
	width, height, err = c.sess.handle.Format7MaximumImageSize(m)
	if err != nil {
		return 0, 0, c.driverError(op, err)
	}
	return width, height, nil
}

// Format7ColorCodings returns the codings a Format7 mode accepts.
func (c *Camera) Format7ColorCodings(m VideoMode) ([]frame.ColorCoding, error) {
	const op = "get format7 color codings"
	if err := c.requireOpen(op); err != nil {
		return nil, err
	}
	if !m.IsFormat7() {
		return nil, newError(KindUnsupportedMode, op, "%s is not a format7 mode", m)
	}
	codings, err := c.sess.handle.Format7ColorCodings(m)
	if err != nil {
		return nil, c.driverError(op, err)
	}
	return codings, nil
}

// SetFormat7 selects a Format7 mode with a coding and a region of interest.
// The region must fit the maximum image size and respect the unit steps
// the camera reports for the mode.
func (c *Camera) SetFormat7(m VideoMode, coding frame.ColorCoding, left, top, width, height int) error {
	const op = "set format7"
	if err := c.requireConfigured(op); err != nil {
		return err
	}
	if !m.IsFormat7() {
		return newError(KindUnsupportedMode, op, "%s is not a format7 mode", m)
	}
	if err := c.checkSupported(op, m); err != nil {
		return err
	}

	codings, err := c.Format7ColorCodings(m)
	if err != nil {
		return err
	}
	if !containsCoding(codings, coding) {
		return newError(KindUnsupportedMode, op, "%s does not support color coding %s", m, coding)
	}

	if left < 0 || top < 0 || width <= 0 || height <= 0 {
		return newError(KindInvalidRegion, op, "region %dx%d+%d+%d is empty or negative", width, height, left, top)
	}

	maxWidth, maxHeight, err := c.Format7MaximumImageSize(m)
	if err != nil {
		return err
	}
	if left+width > maxWidth || top+height > maxHeight {
		return newError(KindInvalidRegion, op, "region %dx%d+%d+%d exceeds %dx%d", width, height, left, top, maxWidth, maxHeight)
	}

	units, err := c.sess.handle.Format7Units(m)
	if err != nil {
		return c.driverError(op, err)
	}
	if err := checkUnits(units, left, top, width, height); err != nil {
		return &Error{Kind: KindInvalidRegion, Op: op, Err: err}
	}

	h := c.sess.handle
	if err := h.SetVideoMode(m); err != nil {
		return c.driverError(op, err)
	}
	// The device is in m from here on, with its region undecided until
	// SetFormat7ROI succeeds.
	c.sess.format = format{mode: m, set: true, pending: true}
	if err := h.SetFormat7ROI(m, coding, left, top, width, height); err != nil {
		return c.driverError(op, err)
	}

	c.sess.format = format{
		mode:   m,
		coding: coding,
		left:   left,
		top:    top,
		width:  width,
		height: height,
		set:    true,
	}
	logger.Debugf("%s: %s %s region %dx%d+%d+%d", c.identity, m, coding, width, height, left, top)
	return nil
}

// Format7 returns the negotiated Format7 settings. ok is false unless a
// Format7 region is in effect.
func (c *Camera) Format7() (m VideoMode, coding frame.ColorCoding, left, top, width, height int, ok bool) {
	if c.sess == nil {
		return
	}
	f := c.sess.format
	if !f.set || f.pending || !f.mode.IsFormat7() {
		return
	}
	return f.mode, f.coding, f.left, f.top, f.width, f.height, true
}

func containsCoding(codings []frame.ColorCoding, c frame.ColorCoding) bool {
	for _, s := range codings {
		if s == c {
			return true
		}
	}
	return false
}

type unitError struct {
	what       string
	value      int
	multipleOf int
}

func (e *unitError) Error() string {
	return fmt.Sprintf("%s %d is not a multiple of %d", e.what, e.value, e.multipleOf)
}

func checkUnits(u Format7Units, left, top, width, height int) error {
	checks := []unitError{
		{"width", width, u.Width},
		{"height", height, u.Height},
		{"left", left, u.Left},
		{"top", top, u.Top},
	}
	for i := range checks {
		ch := &checks[i]
		if ch.multipleOf > 1 && ch.value%ch.multipleOf != 0 {
			return ch
		}
	}
	return nil
}

// Framerate returns the framerate used for fixed modes and UpdateRate.
func (c *Camera) Framerate() Framerate {
	return c.framerate
}

// SetFramerate records the framerate applied by Start. While a fixed mode is
// selected it must be one the camera supports for that mode.
func (c *Camera) SetFramerate(f Framerate) error {
	const op = "set framerate"
	if !f.Valid() {
		return newError(KindUnsupportedMode, op, "invalid framerate %d", int(f))
	}
	if c.state == driver.StateStreaming {
		return newError(KindUnsupportedOperation, op, "cannot change framerate while streaming")
	}

	if c.sess != nil && c.sess.format.set && c.sess.format.mode.IsFixed() {
		m := c.sess.format.mode
		rates, err := c.sess.handle.Framerates(m)
		if err != nil {
			return c.driverError(op, err)
		}
		supported := false
		for _, r := range rates {
			if r == f {
				supported = true
				break
			}
		}
		if !supported {
			return newError(KindUnsupportedMode, op, "%s does not support %s fps", m, f)
		}
	}

	c.framerate = f
	return nil
}

// Width returns the negotiated frame width, 0 before negotiation.
func (c *Camera) Width() int {
	if c.sess == nil {
		return 0
	}
	return c.sess.format.width
}

// Height returns the negotiated frame height, 0 before negotiation.
func (c *Camera) Height() int {
	if c.sess == nil {
		return 0
	}
	return c.sess.format.height
}

// ColorCoding returns the negotiated coding, empty before negotiation.
func (c *Camera) ColorCoding() frame.ColorCoding {
	if c.sess == nil {
		return ""
	}
	return c.sess.format.coding
}

func (c *Camera) BitsPerPixel() uint {
	return c.ColorCoding().BitsPerPixel()
}

// ColorCodingDepth returns the bits of a single colour sample.
func (c *Camera) ColorCodingDepth() uint {
	return c.ColorCoding().Depth()
}

// Size returns the bytes of one frame in the negotiated format.
func (c *Camera) Size() int {
	return frame.Size(c.ColorCoding(), c.Width(), c.Height())
}

package dc1394

import (
	"errors"
	"fmt"
	"time"

	"github.com/rlhal/firewire/pkg/driver"
)

// Start allocates the driver's frame ring and starts ISO transmission. A
// video mode has to be negotiated, and a Format7 mode needs its region.
func (c *Camera) Start() error {
	const op = "start"
	err := c.state.Update(driver.StateStreaming, c.start)
	if errors.Is(err, driver.ErrInvalidState) {
		return &Error{Kind: KindState, Op: op, Err: err}
	}
	return err
}

func (c *Camera) start() error {
	const op = "start"
	f := c.sess.format
	switch {
	case !f.set:
		return newError(KindState, op, "no video mode selected")
	case f.pending:
		return newError(KindState, op, "format7 region of %s not set", f.mode)
	}

	h := c.sess.handle
	if c.sess.staleRing {
		if err := h.StopTransmission(); err != nil && !errors.Is(err, CodeCaptureIsNotSet) {
			return c.driverError(op, err)
		}
		c.sess.staleRing = false
	}
	if f.mode.IsFixed() {
		if err := h.SetFramerate(c.framerate); err != nil {
			return c.driverError(op, err)
		}
	}

	size := c.Size()
	if len(c.sess.image) != size {
		c.sess.image = make([]byte, size)
	}

	if err := h.StartTransmission(c.buffers); err != nil {
		return c.driverError(op, err)
	}

	c.observer.StreamStarted()
	logger.Infof("%s: streaming %s %dx%d at %s fps, %d buffers", c.identity, f.mode, f.width, f.height, c.framerate, c.buffers)
	return nil
}

// Stop halts transmission and releases the ring. Stopping a camera that is
// not streaming does nothing. The camera is back in the configured state
// even if the driver reports an error. In that case the driver may keep
// its ring and refuse format changes until the next Start, which stops
// transmission again before allocating, or Close.
func (c *Camera) Stop() error {
	const op = "stop"
	if c.state != driver.StateStreaming {
		return nil
	}

	err := c.sess.handle.StopTransmission()
	c.state = driver.StateConfigured
	c.observer.StreamStopped()
	if err != nil {
		c.sess.staleRing = true
		return c.driverError(op, err)
	}
	logger.Infof("%s: stopped streaming", c.identity)
	return nil
}

// Step waits for the next frame and copies it into the camera's own
// buffer. The frame is read back with Image, which is overwritten by the
// next Step. Use Grab to capture into a caller supplied buffer.
func (c *Camera) Step() error {
	const op = "step"
	if err := c.requireStreaming(op); err != nil {
		return err
	}
	return c.fetch(op, c.sess.image)
}

// Image returns the frame copied by the last Step. The slice is reused by
// the next Step and released by Close.
func (c *Camera) Image() []byte {
	if c.sess == nil {
		return nil
	}
	return c.sess.image
}

// Grab waits for the next frame and copies Size bytes into dst.
func (c *Camera) Grab(dst []byte) error {
	const op = "grab"
	if err := c.requireStreaming(op); err != nil {
		return err
	}
	size := c.Size()
	if len(dst) < size {
		return newError(KindOutOfRange, op, "buffer of %d bytes, frame needs %d", len(dst), size)
	}
	return c.fetch(op, dst[:size])
}

// UpdateRate is the nominal interval between frames at the configured
// framerate.
func (c *Camera) UpdateRate() time.Duration {
	fps := c.framerate.FPS()
	if fps == 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (c *Camera) requireStreaming(op string) error {
	switch c.state {
	case driver.StateClosed:
		return newError(KindState, op, "camera is not open")
	case driver.StateConfigured:
		return newError(KindState, op, "camera is not streaming")
	}
	return nil
}

// fetch dequeues one frame, copies it into dst and hands the buffer back to
// the ring. A frame whose length differs from dst is a driver failure. The driver's frame is not referenced after fetch returns.
func (c *Camera) fetch(op string, dst []byte) error {
	h := c.sess.handle

	fr, err := h.Dequeue(c.timeout)
	switch {
	case errors.Is(err, ErrNoFrame):
		c.observer.FrameTimeout()
		return &Error{Kind: KindTimeout, Op: op, Err: err}
	case errors.Is(err, ErrStreamStopped):
		return &Error{Kind: KindState, Op: op, Err: err}
	case err != nil:
		return c.driverError(op, err)
	}

	if len(fr.Image) != len(dst) {
		n := len(fr.Image)
		if err := h.Enqueue(fr); err != nil {
			return c.driverError(op, err)
		}
		return c.driverError(op, fmt.Errorf("frame of %d bytes, expected %d: %w", n, len(dst), CodeFailure))
	}

	n := copy(dst, fr.Image)
	if err := h.Enqueue(fr); err != nil {
		return c.driverError(op, err)
	}

	c.observer.FrameCaptured(n)
	return nil
}

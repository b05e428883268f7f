package dc1394test

import (
	"fmt"
	"time"

	"github.com/rlhal/firewire/pkg/dc1394"
	"github.com/rlhal/firewire/pkg/frame"
)

// handle is an open simulated camera. Every method takes the bus lock, so
// a handle may be used from several goroutines.
type handle struct {
	bus    *Bus
	cam    *camera
	closed bool
}

var _ dc1394.Handle = (*handle)(nil)

// begin locks the bus and books op. The caller must unlock b.mu when err
// is nil; on error the lock is already released.
func (h *handle) begin(op string) error {
	h.bus.mu.Lock()
	if err := h.bus.call(op); err != nil {
		h.bus.mu.Unlock()
		return err
	}
	if h.closed {
		h.bus.mu.Unlock()
		return dc1394.CodeCameraNotInitialized
	}
	return nil
}

func (h *handle) end() {
	h.bus.mu.Unlock()
}

func (h *handle) Close() error {
	h.bus.mu.Lock()
	defer h.bus.mu.Unlock()
	if h.closed {
		return nil
	}
	// The handle is released even if the close call itself fails.
	err := h.bus.call("Close")
	h.cam.stopStream()
	h.cam.open = false
	h.closed = true
	h.bus.handles--
	return err
}

func (h *handle) Reset() error {
	if err := h.begin("Reset"); err != nil {
		return err
	}
	defer h.end()
	h.cam.stopStream()
	h.cam.powerOn()
	return nil
}

func (h *handle) SetIsoSpeed(s dc1394.IsoSpeed) error {
	if err := h.begin("SetIsoSpeed"); err != nil {
		return err
	}
	defer h.end()
	if !s.Valid() {
		return dc1394.CodeInvalidISOSpeed
	}
	if s.Requires1394B() && h.cam.operationMode != dc1394.OperationMode1394B {
		return fmt.Errorf("speed %s in legacy mode: %w", s, dc1394.CodeInvalidISOSpeed)
	}
	if h.cam.stream != nil {
		return dc1394.CodeCaptureIsRunning
	}
	h.cam.speed = s
	return nil
}

func (h *handle) SetOperationMode(m dc1394.OperationMode) error {
	if err := h.begin("SetOperationMode"); err != nil {
		return err
	}
	defer h.end()
	if !m.Valid() {
		return dc1394.CodeInvalidOperationMode
	}
	if h.cam.stream != nil {
		return dc1394.CodeCaptureIsRunning
	}
	h.cam.operationMode = m
	return nil
}

// feature returns the register of a present feature. b.mu must be held.
func (h *handle) feature(f dc1394.Feature) (Feature, error) {
	ft, ok := h.cam.features[f]
	if !ok || !ft.Capability.Present {
		return Feature{}, dc1394.CodeInvalidFeature
	}
	return ft, nil
}

func (h *handle) FeatureCapability(f dc1394.Feature) (dc1394.FeatureCapability, error) {
	if err := h.begin("FeatureCapability"); err != nil {
		return dc1394.FeatureCapability{}, err
	}
	defer h.end()
	if !f.Valid() {
		return dc1394.FeatureCapability{}, dc1394.CodeInvalidFeature
	}
	return h.cam.features[f].Capability, nil
}

func (h *handle) FeatureModes(f dc1394.Feature) (dc1394.FeatureModes, error) {
	if err := h.begin("FeatureModes"); err != nil {
		return dc1394.FeatureModes{}, err
	}
	defer h.end()
	ft, err := h.feature(f)
	return ft.Modes, err
}

func (h *handle) FeatureMode(f dc1394.Feature) (dc1394.FeatureMode, error) {
	if err := h.begin("FeatureMode"); err != nil {
		return 0, err
	}
	defer h.end()
	ft, err := h.feature(f)
	return ft.Mode, err
}

func (h *handle) SetFeatureMode(f dc1394.Feature, m dc1394.FeatureMode) error {
	if err := h.begin("SetFeatureMode"); err != nil {
		return err
	}
	defer h.end()
	ft, err := h.feature(f)
	if err != nil {
		return err
	}
	if !ft.Modes.Has(m) {
		return dc1394.CodeInvalidFeatureMode
	}
	ft.Mode = m
	h.cam.features[f] = ft
	return nil
}

func (h *handle) FeatureEnabled(f dc1394.Feature) (bool, error) {
	if err := h.begin("FeatureEnabled"); err != nil {
		return false, err
	}
	defer h.end()
	ft, err := h.feature(f)
	return ft.Enabled, err
}

func (h *handle) SetFeatureEnabled(f dc1394.Feature, on bool) error {
	if err := h.begin("SetFeatureEnabled"); err != nil {
		return err
	}
	defer h.end()
	ft, err := h.feature(f)
	if err != nil {
		return err
	}
	if !ft.Capability.Switchable {
		return dc1394.CodeFunctionNotSupported
	}
	ft.Enabled = on
	h.cam.features[f] = ft
	return nil
}

func (h *handle) FeatureAbsoluteControl(f dc1394.Feature) (bool, error) {
	if err := h.begin("FeatureAbsoluteControl"); err != nil {
		return false, err
	}
	defer h.end()
	ft, err := h.feature(f)
	return ft.AbsoluteControl, err
}

func (h *handle) SetFeatureAbsoluteControl(f dc1394.Feature, on bool) error {
	if err := h.begin("SetFeatureAbsoluteControl"); err != nil {
		return err
	}
	defer h.end()
	ft, err := h.feature(f)
	if err != nil {
		return err
	}
	if !ft.Capability.Absolute {
		return dc1394.CodeFunctionNotSupported
	}
	ft.AbsoluteControl = on
	h.cam.features[f] = ft
	return nil
}

func (h *handle) FeatureBoundaries(f dc1394.Feature) (min, max uint32, err error) {
	if err := h.begin("FeatureBoundaries"); err != nil {
		return 0, 0, err
	}
	defer h.end()
	ft, err := h.feature(f)
	return ft.Min, ft.Max, err
}

func (h *handle) FeatureBoundariesAbsolute(f dc1394.Feature) (min, max float32, err error) {
	if err := h.begin("FeatureBoundariesAbsolute"); err != nil {
		return 0, 0, err
	}
	defer h.end()
	ft, err := h.feature(f)
	if err != nil {
		return 0, 0, err
	}
	if !ft.Capability.Absolute {
		return 0, 0, dc1394.CodeFunctionNotSupported
	}
	return ft.AbsoluteMin, ft.AbsoluteMax, nil
}

func (h *handle) FeatureValue(f dc1394.Feature) (uint32, error) {
	if err := h.begin("FeatureValue"); err != nil {
		return 0, err
	}
	defer h.end()
	ft, err := h.feature(f)
	return ft.Value, err
}

func (h *handle) SetFeatureValue(f dc1394.Feature, v uint32) error {
	if err := h.begin("SetFeatureValue"); err != nil {
		return err
	}
	defer h.end()
	ft, err := h.feature(f)
	if err != nil {
		return err
	}
	if v < ft.Min || v > ft.Max {
		return dc1394.CodeReqValueOutsideRange
	}
	ft.Value = v
	h.cam.features[f] = ft
	return nil
}

func (h *handle) FeatureValueAbsolute(f dc1394.Feature) (float32, error) {
	if err := h.begin("FeatureValueAbsolute"); err != nil {
		return 0, err
	}
	defer h.end()
	ft, err := h.feature(f)
	if err != nil {
		return 0, err
	}
	if !ft.Capability.Absolute {
		return 0, dc1394.CodeFunctionNotSupported
	}
	return ft.AbsoluteValue, nil
}

func (h *handle) SetFeatureValueAbsolute(f dc1394.Feature, v float32) error {
	if err := h.begin("SetFeatureValueAbsolute"); err != nil {
		return err
	}
	defer h.end()
	ft, err := h.feature(f)
	if err != nil {
		return err
	}
	if !ft.Capability.Absolute {
		return dc1394.CodeFunctionNotSupported
	}
	if v < ft.AbsoluteMin || v > ft.AbsoluteMax {
		return dc1394.CodeReqValueOutsideRange
	}
	ft.AbsoluteValue = v
	h.cam.features[f] = ft
	return nil
}

// supports reports whether the camera lists m. b.mu must be held.
func (h *handle) supports(m dc1394.VideoMode) bool {
	for _, s := range h.cam.config.VideoModes {
		if s == m {
			return true
		}
	}
	return false
}

func (h *handle) VideoModes() ([]dc1394.VideoMode, error) {
	if err := h.begin("VideoModes"); err != nil {
		return nil, err
	}
	defer h.end()
	return append([]dc1394.VideoMode(nil), h.cam.config.VideoModes...), nil
}

func (h *handle) SetVideoMode(m dc1394.VideoMode) error {
	if err := h.begin("SetVideoMode"); err != nil {
		return err
	}
	defer h.end()
	if !h.supports(m) {
		return dc1394.CodeInvalidVideoMode
	}
	if h.cam.stream != nil {
		return dc1394.CodeCaptureIsRunning
	}

	c := h.cam
	c.mode = m
	c.modeSet = true
	c.left, c.top = 0, 0
	if width, height, coding, ok := m.Geometry(); ok {
		c.width, c.height, c.coding = width, height, coding
		return nil
	}
	// A Format7 mode comes up with its last region, the full sensor at
	// power-on.
	f7 := c.config.Format7[m]
	c.width, c.height = f7.MaxWidth, f7.MaxHeight
	c.coding = ""
	if len(f7.ColorCodings) > 0 {
		c.coding = f7.ColorCodings[0]
	}
	return nil
}

func (h *handle) Framerates(m dc1394.VideoMode) ([]dc1394.Framerate, error) {
	if err := h.begin("Framerates"); err != nil {
		return nil, err
	}
	defer h.end()
	if !h.supports(m) || !m.IsFixed() {
		return nil, dc1394.CodeInvalidVideoMode
	}
	return append([]dc1394.Framerate(nil), h.cam.config.Framerates...), nil
}

func (h *handle) SetFramerate(f dc1394.Framerate) error {
	if err := h.begin("SetFramerate"); err != nil {
		return err
	}
	defer h.end()
	if h.cam.stream != nil {
		return dc1394.CodeCaptureIsRunning
	}
	for _, r := range h.cam.config.Framerates {
		if r == f {
			h.cam.framerate = f
			return nil
		}
	}
	return dc1394.CodeInvalidFramerate
}

// format7 returns the description of a supported Format7 mode. b.mu must be
// held.
func (h *handle) format7(m dc1394.VideoMode) (Format7, error) {
	f7, ok := h.cam.config.Format7[m]
	if !ok || !h.supports(m) {
		return Format7{}, dc1394.CodeInvalidVideoMode
	}
	return f7, nil
}

func (h *handle) Format7MaximumImageSize(m dc1394.VideoMode) (width, height int, err error) {
	if err := h.begin("Format7MaximumImageSize"); err != nil {
		return 0, 0, err
	}
	defer h.end()
	f7, err := h.format7(m)
	return f7.MaxWidth, f7.MaxHeight, err
}

func (h *handle) Format7Units(m dc1394.VideoMode) (dc1394.Format7Units, error) {
	if err := h.begin("Format7Units"); err != nil {
		return dc1394.Format7Units{}, err
	}
	defer h.end()
	f7, err := h.format7(m)
	return f7.Units, err
}

func (h *handle) Format7ColorCodings(m dc1394.VideoMode) ([]frame.ColorCoding, error) {
	if err := h.begin("Format7ColorCodings"); err != nil {
		return nil, err
	}
	defer h.end()
	f7, err := h.format7(m)
	if err != nil {
		return nil, err
	}
	return append([]frame.ColorCoding(nil), f7.ColorCodings...), nil
}

func (h *handle) SetFormat7ROI(m dc1394.VideoMode, coding frame.ColorCoding, left, top, width, height int) error {
	if err := h.begin("SetFormat7ROI"); err != nil {
		return err
	}
	defer h.end()
	f7, err := h.format7(m)
	if err != nil {
		return err
	}
	if h.cam.stream != nil {
		return dc1394.CodeCaptureIsRunning
	}
	if h.cam.mode != m || !h.cam.modeSet {
		return fmt.Errorf("%s is not the current mode: %w", m, dc1394.CodeInvalidVideoMode)
	}

	supported := false
	for _, c := range f7.ColorCodings {
		supported = supported || c == coding
	}
	if !supported {
		return dc1394.CodeInvalidColorCoding
	}
	if left < 0 || top < 0 || width <= 0 || height <= 0 ||
		left+width > f7.MaxWidth || top+height > f7.MaxHeight {
		return dc1394.CodeFormat7ErrorFlag1
	}
	if !aligned(width, f7.Units.Width) || !aligned(height, f7.Units.Height) ||
		!aligned(left, f7.Units.Left) || !aligned(top, f7.Units.Top) {
		return dc1394.CodeFormat7ErrorFlag2
	}

	c := h.cam
	c.coding = coding
	c.left, c.top, c.width, c.height = left, top, width, height
	return nil
}

func aligned(v, unit int) bool {
	return unit <= 1 || v%unit == 0
}

func (h *handle) StartTransmission(buffers int) error {
	if err := h.begin("StartTransmission"); err != nil {
		return err
	}
	defer h.end()
	c := h.cam
	if c.stream != nil {
		return dc1394.CodeCaptureIsRunning
	}
	if buffers <= 0 {
		return dc1394.CodeInvalidArgumentValue
	}
	size := c.frameSize()
	if size == 0 {
		return dc1394.CodeCaptureIsNotSet
	}

	s := &stream{
		ring:     make([][]byte, buffers),
		free:     make([]uint32, 0, buffers),
		inFlight: make(map[uint32]bool, buffers),
		stop:     make(chan struct{}),
	}
	for i := range s.ring {
		s.ring[i] = make([]byte, size)
		s.free = append(s.free, uint32(i))
	}
	c.stream = s
	c.seq = 0
	return nil
}

func (h *handle) StopTransmission() error {
	if err := h.begin("StopTransmission"); err != nil {
		return err
	}
	defer h.end()
	if h.cam.stream == nil {
		return dc1394.CodeCaptureIsNotSet
	}
	h.cam.stopStream()
	return nil
}

// stopStream releases the ring and wakes a blocked Dequeue. b.mu must be
// held.
func (c *camera) stopStream() {
	if c.stream == nil {
		return
	}
	close(c.stream.stop)
	c.stream = nil
}

// Dequeue hands out the oldest free buffer, filled with the next frame of
// the test pattern. While the bus is starved it waits for the timeout.
func (h *handle) Dequeue(timeout time.Duration) (*dc1394.Frame, error) {
	b := h.bus
	if err := h.begin("Dequeue"); err != nil {
		return nil, err
	}
	s := h.cam.stream
	if s == nil {
		h.end()
		return nil, dc1394.CodeCaptureIsNotSet
	}

	if b.starved {
		h.end()
		select {
		case b.waiting <- struct{}{}:
		default:
		}
		select {
		case <-s.stop:
			return nil, dc1394.ErrStreamStopped
		case <-time.After(timeout):
			return nil, dc1394.ErrNoFrame
		}
	}
	defer h.end()

	if len(s.free) == 0 {
		return nil, dc1394.ErrNoFrame
	}
	id := s.free[0]
	s.free = s.free[1:]
	s.inFlight[id] = true

	buf := s.ring[id]
	fill(buf, h.cam.seq)
	h.cam.seq++
	switch {
	case b.shortFrame:
		buf = buf[:len(buf)-1]
	case b.longFrame:
		buf = append(buf[:len(buf):len(buf)], 0)
	}
	return &dc1394.Frame{
		Image:     buf,
		ID:        id,
		Timestamp: time.Now(),
	}, nil
}

func (h *handle) Enqueue(f *dc1394.Frame) error {
	if err := h.begin("Enqueue"); err != nil {
		return err
	}
	defer h.end()
	s := h.cam.stream
	if s == nil {
		// The ring is gone; the buffer went with it.
		return nil
	}
	if f == nil || !s.inFlight[f.ID] {
		return dc1394.CodeInvalidArgumentValue
	}
	delete(s.inFlight, f.ID)
	s.free = append(s.free, f.ID)
	return nil
}

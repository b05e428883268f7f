package dc1394

import (
	"errors"
	"fmt"
	"time"

	"github.com/rlhal/firewire/internal/logging"
	"github.com/rlhal/firewire/pkg/driver"
	"github.com/rlhal/firewire/pkg/frame"
)

const (
	// DefaultBuffers is the size of the driver side frame ring.
	DefaultBuffers = 4
	// DefaultDequeueTimeout bounds how long Step and Grab wait for a frame.
	DefaultDequeueTimeout = 5 * time.Second
)

var logger = logging.NewLogger("firewire/dc1394")

// Camera is an IIDC camera. It implements driver.Camera and
// driver.CyclicDevice.
type Camera struct {
	bus      Bus
	identity Identity

	speed         IsoSpeed
	operationMode OperationMode
	framerate     Framerate

	buffers  int
	timeout  time.Duration
	observer Observer

	state driver.State
	// sess is nil while closed
	sess *session
}

var _ driver.CameraAdapter = (*Camera)(nil)

// session is everything that lives between Open and Close.
type session struct {
	handle Handle
	caps   map[Feature]FeatureCapability
	format format
	// image receives the frames copied by Step
	image []byte
	// staleRing is set when StopTransmission failed and the driver may
	// still hold the ring
	staleRing bool
}

// format is the result of the last successful negotiation.
type format struct {
	mode   VideoMode
	coding frame.ColorCoding
	left   int
	top    int
	width  int
	height int
	// set is true once a mode is selected
	set bool
	// pending is true for a Format7 mode whose region is not negotiated yet
	pending bool
}

// Option configures a Camera.
type Option func(*Camera)

// WithPort sets the bus port. The default is 0.
func WithPort(port uint) Option {
	return func(c *Camera) { c.identity.Port = port }
}

// WithNode sets the node on the port. The default is 0.
func WithNode(node uint) Option {
	return func(c *Camera) { c.identity.Node = node }
}

// WithBuffers sets the number of frames in the driver's ring.
func WithBuffers(n int) Option {
	return func(c *Camera) {
		if n > 0 {
			c.buffers = n
		}
	}
}

// WithDequeueTimeout bounds how long Step and Grab block.
func WithDequeueTimeout(d time.Duration) Option {
	return func(c *Camera) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithObserver reports capture activity to o.
func WithObserver(o Observer) Option {
	return func(c *Camera) {
		if o != nil {
			c.observer = o
		}
	}
}

// New creates a closed camera on bus.
func New(bus Bus, opts ...Option) *Camera {
	c := &Camera{
		bus:           bus,
		speed:         IsoSpeed400,
		operationMode: OperationModeLegacy,
		framerate:     Framerate30,
		buffers:       DefaultBuffers,
		timeout:       DefaultDequeueTimeout,
		observer:      nopObserver{},
		state:         driver.StateClosed,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Status returns the lifecycle state.
func (c *Camera) Status() driver.State {
	return c.state
}

// IsOpen reports whether a driver handle is held.
func (c *Camera) IsOpen() bool {
	return c.state != driver.StateClosed
}

// Identity returns the address of the camera.
func (c *Camera) Identity() Identity {
	return c.identity
}

func (c *Camera) Port() uint {
	return c.identity.Port
}

// SetPort changes the bus port. The identity is fixed while open.
func (c *Camera) SetPort(port uint) error {
	if c.IsOpen() {
		return newError(KindUnsupportedOperation, "set port", "identity of an open camera cannot change")
	}
	c.identity.Port = port
	return nil
}

func (c *Camera) Node() uint {
	return c.identity.Node
}

// SetNode changes the node. The identity is fixed while open.
func (c *Camera) SetNode(node uint) error {
	if c.IsOpen() {
		return newError(KindUnsupportedOperation, "set node", "identity of an open camera cannot change")
	}
	c.identity.Node = node
	return nil
}

func (c *Camera) Speed() IsoSpeed {
	return c.speed
}

// SetSpeed records the ISO speed, and applies it right away while
// configured. Speeds above 400 need OperationMode1394B.
func (c *Camera) SetSpeed(s IsoSpeed) error {
	const op = "set speed"
	if !s.Valid() {
		return newError(KindUnsupportedOperation, op, "invalid iso speed %d", int(s))
	}
	if s.Requires1394B() && c.operationMode != OperationMode1394B {
		return newError(KindUnsupportedOperation, op, "speed %s requires 1394b operation mode", s)
	}
	switch c.state {
	case driver.StateStreaming:
		return newError(KindUnsupportedOperation, op, "cannot change speed while streaming")
	case driver.StateConfigured:
		if err := c.sess.handle.SetIsoSpeed(s); err != nil {
			return c.driverError(op, err)
		}
	}
	c.speed = s
	return nil
}

func (c *Camera) OperationMode() OperationMode {
	return c.operationMode
}

// SetOperationMode records the operation mode, and applies it right away
// while configured. Falling back to legacy mode while the speed is above
// 400 is rejected.
func (c *Camera) SetOperationMode(m OperationMode) error {
	const op = "set operation mode"
	if !m.Valid() {
		return newError(KindUnsupportedOperation, op, "invalid operation mode %d", int(m))
	}
	if m == OperationModeLegacy && c.speed.Requires1394B() {
		return newError(KindUnsupportedOperation, op, "speed %s requires 1394b operation mode", c.speed)
	}
	switch c.state {
	case driver.StateStreaming:
		return newError(KindUnsupportedOperation, op, "cannot change operation mode while streaming")
	case driver.StateConfigured:
		if err := c.sess.handle.SetOperationMode(m); err != nil {
			return c.driverError(op, err)
		}
	}
	c.operationMode = m
	return nil
}

// NumCameras returns how many cameras are visible on the configured port
// right now.
func (c *Camera) NumCameras() (int, error) {
	ids, err := c.bus.Enumerate(c.identity.Port)
	if err != nil {
		return 0, c.driverError("enumerate", err)
	}
	return len(ids), nil
}

// Open acquires a handle for the camera at the configured identity and
// applies the recorded bus parameters and loads the feature capabilities.
func (c *Camera) Open() error {
	const op = "open"
	if c.IsOpen() {
		return newError(KindState, op, "camera is already open")
	}

	return c.state.Update(driver.StateConfigured, c.open)
}

func (c *Camera) open() error {
	const op = "open"

	ids, err := c.bus.Enumerate(c.identity.Port)
	if err != nil {
		return c.driverError(op, err)
	}

	found := false
	for _, id := range ids {
		if id == c.identity {
			found = true
			break
		}
	}
	if !found {
		return newError(KindDeviceUnavailable, op, "no camera at %s (%d visible on port %d)", c.identity, len(ids), c.identity.Port)
	}

	h, err := c.bus.Open(c.identity)
	if err != nil {
		return c.driverError(op, err)
	}

	sess := &session{handle: h}
	if err := c.setup(sess); err != nil {
		if closeErr := h.Close(); closeErr != nil {
			logger.Warnf("failed to release %s after open error: %v", c.identity, closeErr)
		}
		return err
	}

	c.sess = sess
	logger.Infof("opened camera %s (speed %s, %s mode)", c.identity, c.speed, c.operationMode)
	return nil
}

// setup pushes bus parameters and reads all feature capabilities.
func (c *Camera) setup(sess *session) error {
	const op = "open"

	// The operation mode has to be in place before a 1394b speed is set
	if err := sess.handle.SetOperationMode(c.operationMode); err != nil {
		return c.driverError(op, err)
	}
	if err := sess.handle.SetIsoSpeed(c.speed); err != nil {
		return c.driverError(op, err)
	}
	return c.loadCapabilities(sess)
}

func (c *Camera) loadCapabilities(sess *session) error {
	caps := make(map[Feature]FeatureCapability, len(featureNames))
	for _, f := range Features() {
		cp, err := sess.handle.FeatureCapability(f)
		if err != nil {
			return c.driverError(fmt.Sprintf("query %s capability", f), err)
		}
		caps[f] = cp
	}
	sess.caps = caps
	return nil
}

// Close stops streaming if needed and releases the handle. Closing a closed
// camera does nothing. The camera ends up closed even when the driver
// reports an error, which is then returned.
func (c *Camera) Close() error {
	const op = "close"
	if !c.IsOpen() {
		return nil
	}

	var errs []error
	if c.state == driver.StateStreaming {
		if err := c.sess.handle.StopTransmission(); err != nil {
			errs = append(errs, c.driverError(op, err))
		}
		c.observer.StreamStopped()
	}
	if err := c.sess.handle.Close(); err != nil {
		errs = append(errs, c.driverError(op, err))
	}

	c.sess = nil
	c.state = driver.StateClosed
	logger.Infof("closed camera %s", c.identity)
	return errors.Join(errs...)
}

// Reset resets the camera. Streaming stops, and the negotiated format and
// cached capabilities are dropped and read again.
func (c *Camera) Reset() error {
	const op = "reset"
	if err := c.requireOpen(op); err != nil {
		return err
	}

	if err := c.Stop(); err != nil {
		return err
	}

	if err := c.sess.handle.Reset(); err != nil {
		return c.driverError(op, err)
	}

	c.sess.format = format{}
	c.sess.image = nil
	c.sess.caps = nil
	if err := c.loadCapabilities(c.sess); err != nil {
		return err
	}

	logger.Infof("reset camera %s", c.identity)
	return nil
}

func (c *Camera) requireOpen(op string) error {
	if !c.IsOpen() {
		return newError(KindState, op, "camera is not open")
	}
	return nil
}

// requireConfigured guards negotiation, which is illegal while streaming.
func (c *Camera) requireConfigured(op string) error {
	switch c.state {
	case driver.StateClosed:
		return newError(KindState, op, "camera is not open")
	case driver.StateStreaming:
		return newError(KindState, op, "camera is streaming")
	}
	return nil
}

func (c *Camera) driverError(op string, err error) error {
	e := wrapDriver(op, err)
	logger.Errorf("%s %s: %v", c.identity, op, err)
	c.observer.DriverError(op)
	return e
}

// Discover registers a Camera for every device visible on port with m, and
// returns their IDs. A nil m means driver.GetManager(). opts apply to every
// camera, after the identity.
func Discover(bus Bus, port uint, m *driver.Manager, opts ...Option) ([]string, error) {
	if m == nil {
		m = driver.GetManager()
	}
	ids, err := bus.Enumerate(port)
	if err != nil {
		return nil, wrapDriver("enumerate", err)
	}

	registered := make([]string, 0, len(ids))
	for _, id := range ids {
		o := append([]Option{WithPort(id.Port), WithNode(id.Node)}, opts...)
		registered = append(registered, m.Register(New(bus, o...), driver.Info{
			Label:      "dc1394:" + id.String(),
			DeviceType: driver.TypeCamera,
		}))
	}
	return registered, nil
}

package dc1394

import (
	"errors"
	"fmt"
	"time"

	"github.com/rlhal/firewire/pkg/frame"
)

var (
	// ErrNoFrame is returned by Handle.Dequeue when no frame became ready
	// within the timeout.
	ErrNoFrame = errors.New("no frame ready")
	// ErrStreamStopped is returned by Handle.Dequeue when transmission was
	// stopped while waiting.
	ErrStreamStopped = errors.New("stream stopped")
)

// Identity addresses a camera on the bus.
type Identity struct {
	Port uint
	Node uint
}

func (id Identity) String() string {
	return fmt.Sprintf("port%d:node%d", id.Port, id.Node)
}

// Bus is the low level IEEE-1394 driver. It owns port scanning, ISO
// channel and bandwidth allocation, bus reset handling and the DMA ring.
type Bus interface {
	// Enumerate lists the cameras currently visible on port.
	Enumerate(port uint) ([]Identity, error)
	Open(id Identity) (Handle, error)
}

// FeatureCapability is what the camera reports about a feature.
type FeatureCapability struct {
	Present    bool
	Readable   bool
	Switchable bool
	// Absolute means the feature can be controlled in physical units.
	Absolute bool
}

// FeatureModes lists the control modes a feature supports.
type FeatureModes struct {
	Manual      bool
	Auto        bool
	OnePushAuto bool
}

// Has reports whether m is among the supported modes.
func (fm FeatureModes) Has(m FeatureMode) bool {
	switch m {
	case FeatureModeManual:
		return fm.Manual
	case FeatureModeAuto:
		return fm.Auto
	case FeatureModeOnePushAuto:
		return fm.OnePushAuto
	}
	return false
}

// Format7Units are the alignment constraints of a Format7 mode. A zero
// unit means no constraint.
type Format7Units struct {
	// Width and Height are the step of the region size.
	Width, Height int
	// Left and Top are the step of the region offset.
	Left, Top int
}

// Frame is a buffer of the driver's DMA ring. It belongs to the driver and
// is only valid between Dequeue and Enqueue.
type Frame struct {
	Image []byte
	// ID is the position of the buffer in the ring.
	ID        uint32
	Timestamp time.Time
	// Behind counts the frames that were ready after this one.
	Behind uint32
}

// Handle is an open camera. Values cross this interface as this package's
// enumerations; translating them to the driver's own numbering is up to
// the implementation.
type Handle interface {
	Close() error
	Reset() error

	SetIsoSpeed(s IsoSpeed) error
	SetOperationMode(m OperationMode) error

	FeatureCapability(f Feature) (FeatureCapability, error)
	FeatureModes(f Feature) (FeatureModes, error)
	FeatureMode(f Feature) (FeatureMode, error)
	SetFeatureMode(f Feature, m FeatureMode) error
	FeatureEnabled(f Feature) (bool, error)
	SetFeatureEnabled(f Feature, on bool) error
	FeatureAbsoluteControl(f Feature) (bool, error)
	SetFeatureAbsoluteControl(f Feature, on bool) error
	FeatureBoundaries(f Feature) (min, max uint32, err error)
	FeatureBoundariesAbsolute(f Feature) (min, max float32, err error)
	FeatureValue(f Feature) (uint32, error)
	SetFeatureValue(f Feature, v uint32) error
	FeatureValueAbsolute(f Feature) (float32, error)
	SetFeatureValueAbsolute(f Feature, v float32) error

	VideoModes() ([]VideoMode, error)
	SetVideoMode(m VideoMode) error
	Framerates(m VideoMode) ([]Framerate, error)
	SetFramerate(f Framerate) error
	Format7MaximumImageSize(m VideoMode) (width, height int, err error)
	Format7Units(m VideoMode) (Format7Units, error)
	Format7ColorCodings(m VideoMode) ([]frame.ColorCoding, error)
	SetFormat7ROI(m VideoMode, c frame.ColorCoding, left, top, width, height int) error

	// StartTransmission allocates a ring of buffers frames and starts ISO
	// transmission.
	StartTransmission(buffers int) error
	// StopTransmission stops ISO transmission and releases the ring. It
	// wakes a concurrent Dequeue with ErrStreamStopped.
	StopTransmission() error
	Dequeue(timeout time.Duration) (*Frame, error)
	Enqueue(f *Frame) error
}

// Observer is told about capture activity. Implementations must be cheap;
// they run on the capture path.
type Observer interface {
	StreamStarted()
	StreamStopped()
	FrameCaptured(bytes int)
	FrameTimeout()
	DriverError(op string)
}

type nopObserver struct{}

func (nopObserver) StreamStarted()     {}
func (nopObserver) StreamStopped()     {}
func (nopObserver) FrameCaptured(int)  {}
func (nopObserver) FrameTimeout()      {}
func (nopObserver) DriverError(string) {}

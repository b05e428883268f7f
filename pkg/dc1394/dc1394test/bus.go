package dc1394test

import (
	"fmt"
	"sync"

	"github.com/rlhal/firewire/pkg/dc1394"
	"github.com/rlhal/firewire/pkg/frame"
)

// Bus is a simulated IEEE-1394 bus. It records every driver call, can
// inject a failure into the next call of a named operation and keeps
// account of open handles and transmissions, so tests can prove nothing
// leaks.
type Bus struct {
	mu      sync.Mutex
	cameras []*camera
	faults  map[string]error
	calls   map[string]int
	handles int

	starved    bool
	shortFrame bool
	longFrame  bool
	waiting    chan struct{}
}

var _ dc1394.Bus = (*Bus)(nil)

// New creates a bus with the given cameras attached.
func New(cams ...Camera) *Bus {
	b := &Bus{
		faults:  make(map[string]error),
		calls:   make(map[string]int),
		waiting: make(chan struct{}, 1),
	}
	for _, c := range cams {
		b.cameras = append(b.cameras, newCamera(c))
	}
	return b
}

// Fail makes the next call of op return err. op is the method name, e.g.
// "SetVideoMode" or "Dequeue".
func (b *Bus) Fail(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults[op] = err
}

// Calls returns how often op was called.
func (b *Bus) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// TotalCalls returns the number of driver calls of any kind.
func (b *Bus) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// OpenHandles returns the number of handles not closed yet.
func (b *Bus) OpenHandles() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handles
}

// Streaming reports whether any camera transmits.
func (b *Bus) Streaming() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.cameras {
		if c.stream != nil {
			return true
		}
	}
	return false
}

// Starve stops frame delivery. Dequeue then blocks until its timeout or
// until transmission stops.
func (b *Bus) Starve(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.starved = on
}

// ShortFrames makes Dequeue deliver frames one byte short.
func (b *Bus) ShortFrames(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shortFrame = on
}

// LongFrames makes Dequeue deliver frames one byte longer than the
// negotiated format.
func (b *Bus) LongFrames(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.longFrame = on
}

// Waiting receives a value whenever a starved Dequeue starts blocking.
func (b *Bus) Waiting() <-chan struct{} {
	return b.waiting
}

// Unplug removes a camera from the bus. Open handles stay usable.
func (b *Bus) Unplug(id dc1394.Identity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.cameras {
		if c.config.Identity == id {
			c.unplugged = true
		}
	}
}

// State is a snapshot of a simulated camera's registers.
type State struct {
	Open          bool
	VideoMode     dc1394.VideoMode
	Framerate     dc1394.Framerate
	ColorCoding   frame.ColorCoding
	Left, Top     int
	Width, Height int
	Speed         dc1394.IsoSpeed
	OperationMode dc1394.OperationMode
	Streaming     bool
	Buffers       int
	InFlight      int
	Features      map[dc1394.Feature]Feature
}

// State returns a snapshot of the camera at id.
func (b *Bus) State(id dc1394.Identity) (State, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.find(id)
	if c == nil {
		return State{}, false
	}

	s := State{
		Open:          c.open,
		VideoMode:     c.mode,
		Framerate:     c.framerate,
		ColorCoding:   c.coding,
		Left:          c.left,
		Top:           c.top,
		Width:         c.width,
		Height:        c.height,
		Speed:         c.speed,
		OperationMode: c.operationMode,
		Features:      make(map[dc1394.Feature]Feature, len(c.features)),
	}
	for f, v := range c.features {
		s.Features[f] = v
	}
	if c.stream != nil {
		s.Streaming = true
		s.Buffers = len(c.stream.ring)
		s.InFlight = len(c.stream.inFlight)
	}
	return s, true
}

// call books a driver call and returns the injected fault, if any. b.mu
// must be held.
func (b *Bus) call(op string) error {
	b.calls[op]++
	if err, ok := b.faults[op]; ok {
		delete(b.faults, op)
		return err
	}
	return nil
}

func (b *Bus) find(id dc1394.Identity) *camera {
	for _, c := range b.cameras {
		if c.config.Identity == id {
			return c
		}
	}
	return nil
}

func (b *Bus) Enumerate(port uint) ([]dc1394.Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call("Enumerate"); err != nil {
		return nil, err
	}

	ids := make([]dc1394.Identity, 0, len(b.cameras))
	for _, c := range b.cameras {
		if c.config.Identity.Port == port && !c.unplugged {
			ids = append(ids, c.config.Identity)
		}
	}
	return ids, nil
}

func (b *Bus) Open(id dc1394.Identity) (dc1394.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.call("Open"); err != nil {
		return nil, err
	}

	c := b.find(id)
	if c == nil || c.unplugged {
		return nil, dc1394.CodeNotACamera
	}
	if c.open {
		return nil, fmt.Errorf("camera %s is busy: %w", id, dc1394.CodeFailure)
	}
	c.open = true
	b.handles++
	return &handle{bus: b, cam: c}, nil
}

// camera is the mutable register state of a simulated camera.
type camera struct {
	config    Camera
	open      bool
	unplugged bool

	speed         dc1394.IsoSpeed
	operationMode dc1394.OperationMode
	mode          dc1394.VideoMode
	modeSet       bool
	framerate     dc1394.Framerate
	coding        frame.ColorCoding
	left, top     int
	width, height int
	features      map[dc1394.Feature]Feature

	stream *stream
	seq    uint32
}

type stream struct {
	ring     [][]byte
	free     []uint32
	inFlight map[uint32]bool
	stop     chan struct{}
}

func newCamera(cfg Camera) *camera {
	c := &camera{config: cfg}
	c.powerOn()
	return c
}

// powerOn restores the power-on register values.
func (c *camera) powerOn() {
	c.speed = dc1394.IsoSpeed400
	c.operationMode = dc1394.OperationModeLegacy
	c.mode = 0
	c.modeSet = false
	c.framerate = dc1394.Framerate15
	c.coding = ""
	c.left, c.top, c.width, c.height = 0, 0, 0, 0
	c.features = make(map[dc1394.Feature]Feature, len(c.config.Features))
	for f, v := range c.config.Features {
		c.features[f] = v
	}
}

// frameSize is the size of a frame in the current mode, 0 if undefined.
func (c *camera) frameSize() int {
	if !c.modeSet {
		return 0
	}
	return frame.Size(c.coding, c.width, c.height)
}

// PatternByte is the byte at offset of the frame with sequence number seq.
func PatternByte(seq uint32, offset int) byte {
	return byte(int(seq) + offset)
}

// Frame sequence numbers start at 0 with every StartTransmission.
func fill(buf []byte, seq uint32) {
	for i := range buf {
		buf[i] = PatternByte(seq, i)
	}
}

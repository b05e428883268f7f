package driver

import "time"

type OpenCloser interface {
	Open() error
	Close() error
}

type Infoer interface {
	Info() Info
}

type Info struct {
	Label      string
	DeviceType DeviceType
}

// Camera is a device delivering frames of a fixed geometry. Geometry getters
// report the last negotiated format and never query the hardware.
type Camera interface {
	Width() int
	Height() int
	BitsPerPixel() uint
	// Size is the number of bytes Grab writes into its destination.
	Size() int
	// Grab fetches the next frame and copies it into dst.
	Grab(dst []byte) error
}

// CyclicDevice is a device driven once per acquisition cycle by its caller.
type CyclicDevice interface {
	Start() error
	Step() error
	Stop() error
	// UpdateRate is the nominal time between two cycles. It is advisory;
	// the device does not enforce it.
	UpdateRate() time.Duration
}

type Statuser interface {
	Status() State
}

type Adapter interface {
	OpenCloser
	Statuser
}

type CameraAdapter interface {
	Adapter
	Camera
	CyclicDevice
}

type Driver interface {
	Adapter
	Infoer
	ID() string
}

type CameraDriver interface {
	Driver
	Camera
	CyclicDevice
}

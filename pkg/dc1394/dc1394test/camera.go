// Package dc1394test provides a simulated IIDC bus for tests and demos.
package dc1394test

import (
	"github.com/rlhal/firewire/pkg/dc1394"
	"github.com/rlhal/firewire/pkg/frame"
)

// Feature describes a simulated feature and its power-on values.
type Feature struct {
	Capability      dc1394.FeatureCapability
	Modes           dc1394.FeatureModes
	Mode            dc1394.FeatureMode
	Enabled         bool
	AbsoluteControl bool

	Min, Max, Value uint32

	AbsoluteMin, AbsoluteMax, AbsoluteValue float32
}

// Format7 describes a simulated Format7 mode.
type Format7 struct {
	MaxWidth, MaxHeight int
	Units               dc1394.Format7Units
	ColorCodings        []frame.ColorCoding
}

// Camera describes a simulated camera.
type Camera struct {
	Identity   dc1394.Identity
	VideoModes []dc1394.VideoMode
	// Framerates apply to every fixed mode of the camera.
	Framerates []dc1394.Framerate
	Features   map[dc1394.Feature]Feature
	Format7    map[dc1394.VideoMode]Format7
}

var (
	readable   = dc1394.FeatureCapability{Present: true, Readable: true}
	switchable = dc1394.FeatureCapability{Present: true, Readable: true, Switchable: true}
	absolute   = dc1394.FeatureCapability{Present: true, Readable: true, Absolute: true}
	manual     = dc1394.FeatureModes{Manual: true}
	manualAuto = dc1394.FeatureModes{Manual: true, Auto: true}
)

// NewCamera returns a typical monochrome industrial camera.
func NewCamera(id dc1394.Identity) Camera {
	return Camera{
		Identity: id,
		VideoModes: []dc1394.VideoMode{
			dc1394.VideoMode640x480YUV422,
			dc1394.VideoMode640x480RGB8,
			dc1394.VideoMode640x480Mono8,
			dc1394.VideoMode1024x768Mono8,
			dc1394.VideoModeFormat7_0,
			dc1394.VideoModeFormat7_1,
		},
		Framerates: []dc1394.Framerate{
			dc1394.Framerate7_5,
			dc1394.Framerate15,
			dc1394.Framerate30,
		},
		Features: map[dc1394.Feature]Feature{
			dc1394.FeatureBrightness: {
				Capability: readable,
				Modes:      manual,
				Enabled:    true,
				Max:        255,
				Value:      128,
			},
			// No auto exposure, only one-push
			dc1394.FeatureExposure: {
				Capability: switchable,
				Modes:      dc1394.FeatureModes{Manual: true, OnePushAuto: true},
				Enabled:    true,
				Min:        1,
				Max:        1023,
				Value:      512,
			},
			dc1394.FeatureWhiteBalance: {
				Capability: switchable,
				Modes:      dc1394.FeatureModes{Manual: true, Auto: true, OnePushAuto: true},
				Mode:       dc1394.FeatureModeAuto,
				Enabled:    true,
				Max:        1023,
				Value:      512,
			},
			dc1394.FeatureGamma: {
				Capability: switchable,
				Modes:      manual,
				Max:        1,
				Value:      1,
			},
			dc1394.FeatureShutter: {
				Capability:    absolute,
				Modes:         manualAuto,
				Enabled:       true,
				Min:           1,
				Max:           4095,
				Value:         400,
				AbsoluteMin:   0.00001,
				AbsoluteMax:   0.5,
				AbsoluteValue: 0.01,
			},
			dc1394.FeatureGain: {
				Capability:  absolute,
				Modes:       manualAuto,
				Enabled:     true,
				Max:         680,
				AbsoluteMax: 24,
			},
			// Trigger registers are write only on this model
			dc1394.FeatureTrigger: {
				Capability: dc1394.FeatureCapability{Present: true, Switchable: true},
				Modes:      manual,
				Max:        3,
			},
		},
		Format7: map[dc1394.VideoMode]Format7{
			dc1394.VideoModeFormat7_0: {
				MaxWidth:  1280,
				MaxHeight: 960,
				Units:     dc1394.Format7Units{Width: 8, Height: 2, Left: 4, Top: 2},
				ColorCodings: []frame.ColorCoding{
					frame.ColorCodingMono8,
					frame.ColorCodingMono16,
					frame.ColorCodingRaw8,
				},
			},
			dc1394.VideoModeFormat7_1: {
				MaxWidth:  640,
				MaxHeight: 480,
				Units:     dc1394.Format7Units{Width: 4, Height: 2, Left: 2, Top: 2},
				ColorCodings: []frame.ColorCoding{
					frame.ColorCodingMono8,
					frame.ColorCodingYUV422,
				},
			},
		},
	}
}

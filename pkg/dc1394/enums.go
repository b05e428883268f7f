package dc1394

import (
	"fmt"
	"strings"
)

// Feature is an imaging feature of an IIDC camera.
type Feature int

const (
	FeatureBrightness Feature = iota
	FeatureExposure
	FeatureSharpness
	FeatureWhiteBalance
	FeatureHue
	FeatureSaturation
	FeatureGamma
	FeatureShutter
	FeatureGain
	FeatureIris
	FeatureFocus
	FeatureTemperature
	FeatureTrigger
	FeatureTriggerDelay
	FeatureWhiteShading
	FeatureFrameRate
	FeatureZoom
	FeaturePan
	FeatureTilt
	FeatureOpticalFilter
	FeatureCaptureSize
	FeatureCaptureQuality
)

var featureNames = []string{
	"brightness",
	"exposure",
	"sharpness",
	"white_balance",
	"hue",
	"saturation",
	"gamma",
	"shutter",
	"gain",
	"iris",
	"focus",
	"temperature",
	"trigger",
	"trigger_delay",
	"white_shading",
	"frame_rate",
	"zoom",
	"pan",
	"tilt",
	"optical_filter",
	"capture_size",
	"capture_quality",
}

// FeatureMode is the control mode of a feature.
type FeatureMode int

const (
	FeatureModeManual FeatureMode = iota
	FeatureModeAuto
	FeatureModeOnePushAuto
)

var featureModeNames = []string{"manual", "auto", "one_push_auto"}

// Framerate is one of the fixed IIDC frame rates.
type Framerate int

const (
	Framerate1_875 Framerate = iota
	Framerate3_75
	Framerate7_5
	Framerate15
	Framerate30
	Framerate60
	Framerate120
	Framerate240
)

var framerateNames = []string{"1.875", "3.75", "7.5", "15", "30", "60", "120", "240"}

var framesPerSecond = []float64{1.875, 3.75, 7.5, 15, 30, 60, 120, 240}

// IsoSpeed is the isochronous transmission speed.
type IsoSpeed int

const (
	IsoSpeed100 IsoSpeed = iota
	IsoSpeed200
	IsoSpeed400
	IsoSpeed800
	IsoSpeed1600
	IsoSpeed3200
)

var isoSpeedNames = []string{"100", "200", "400", "800", "1600", "3200"}

// OperationMode selects between legacy IEEE-1394a and 1394b signalling.
type OperationMode int

const (
	OperationModeLegacy OperationMode = iota
	OperationMode1394B
)

var operationModeNames = []string{"legacy", "1394b"}

// First value of every enumeration in the libdc1394 numbering. Bindings use
// Native to translate; nothing in this package depends on these values.
const (
	nativeFeatureMin       = 416
	nativeFeatureModeMin   = 736
	nativeFramerateMin     = 32
	nativeIsoSpeedMin      = 0
	nativeOperationModeMin = 480
	nativeVideoModeMin     = 64
	nativeColorCodingMin   = 352
)

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func parseEnum[T ~int](kind string, names []string, s string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

func (f Feature) String() string { return enumName(featureNames, int(f)) }
func (f Feature) Valid() bool    { return f >= 0 && int(f) < len(featureNames) }
func (f Feature) Native() uint32 { return nativeFeatureMin + uint32(f) }

// Features returns all features in register order.
func Features() []Feature {
	out := make([]Feature, len(featureNames))
	for i := range out {
		out[i] = Feature(i)
	}
	return out
}

func ParseFeature(s string) (Feature, error) {
	return parseEnum[Feature]("feature", featureNames, s)
}

func (m FeatureMode) String() string { return enumName(featureModeNames, int(m)) }
func (m FeatureMode) Valid() bool    { return m >= 0 && int(m) < len(featureModeNames) }
func (m FeatureMode) Native() uint32 { return nativeFeatureModeMin + uint32(m) }

func ParseFeatureMode(s string) (FeatureMode, error) {
	return parseEnum[FeatureMode]("feature mode", featureModeNames, s)
}

func (f Framerate) String() string { return enumName(framerateNames, int(f)) }
func (f Framerate) Valid() bool    { return f >= 0 && int(f) < len(framerateNames) }
func (f Framerate) Native() uint32 { return nativeFramerateMin + uint32(f) }

// FPS returns the nominal frames per second, 0 for invalid values.
func (f Framerate) FPS() float64 {
	if !f.Valid() {
		return 0
	}
	return framesPerSecond[f]
}

func ParseFramerate(s string) (Framerate, error) {
	return parseEnum[Framerate]("framerate", framerateNames, s)
}

func (s IsoSpeed) String() string { return enumName(isoSpeedNames, int(s)) }
func (s IsoSpeed) Valid() bool    { return s >= 0 && int(s) < len(isoSpeedNames) }
func (s IsoSpeed) Native() uint32 { return nativeIsoSpeedMin + uint32(s) }

// Requires1394B reports whether the speed is only reachable in 1394b mode.
func (s IsoSpeed) Requires1394B() bool { return s > IsoSpeed400 }

func ParseIsoSpeed(s string) (IsoSpeed, error) {
	return parseEnum[IsoSpeed]("iso speed", isoSpeedNames, s)
}

func (m OperationMode) String() string { return enumName(operationModeNames, int(m)) }
func (m OperationMode) Valid() bool    { return m >= 0 && int(m) < len(operationModeNames) }
func (m OperationMode) Native() uint32 { return nativeOperationModeMin + uint32(m) }

func ParseOperationMode(s string) (OperationMode, error) {
	return parseEnum[OperationMode]("operation mode", operationModeNames, s)
}

package dc1394

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindDriver is a failure reported by the bus driver. Code holds its
	// error code.
	KindDriver Kind = iota + 1
	// KindDeviceUnavailable means no camera matched the identity on Open.
	KindDeviceUnavailable
	KindFeatureNotPresent
	KindUnsupportedFeatureMode
	KindUnsupportedMode
	KindInvalidRegion
	KindOutOfRange
	// KindUnsupportedOperation is returned when the device lacks the
	// capability an operation needs.
	KindUnsupportedOperation
	// KindState is returned for operations invoked in the wrong lifecycle
	// state.
	KindState
	// KindTimeout is returned when no frame arrived within the dequeue
	// timeout.
	KindTimeout
)

var kindNames = map[Kind]string{
	KindDriver:                 "driver error",
	KindDeviceUnavailable:      "device unavailable",
	KindFeatureNotPresent:      "feature not present",
	KindUnsupportedFeatureMode: "unsupported feature mode",
	KindUnsupportedMode:        "unsupported video mode",
	KindInvalidRegion:          "invalid region",
	KindOutOfRange:             "out of range",
	KindUnsupportedOperation:   "unsupported operation",
	KindState:                  "invalid state",
	KindTimeout:                "timeout",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every Camera operation that fails.
type Error struct {
	Kind Kind
	// Op names the failed operation, e.g. "set feature value".
	Op string
	// Code is the driver error code. It is CodeSuccess unless Kind is
	// KindDriver.
	Code Code
	Err  error
}

func (e *Error) Error() string {
	msg := "dc1394"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind, so errors.Is(err, ErrOutOfRange)
// holds for every out of range error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrDriver                 = &Error{Kind: KindDriver}
	ErrDeviceUnavailable      = &Error{Kind: KindDeviceUnavailable}
	ErrFeatureNotPresent      = &Error{Kind: KindFeatureNotPresent}
	ErrUnsupportedFeatureMode = &Error{Kind: KindUnsupportedFeatureMode}
	ErrUnsupportedMode        = &Error{Kind: KindUnsupportedMode}
	ErrInvalidRegion          = &Error{Kind: KindInvalidRegion}
	ErrOutOfRange             = &Error{Kind: KindOutOfRange}
	ErrUnsupportedOperation   = &Error{Kind: KindUnsupportedOperation}
	ErrState                  = &Error{Kind: KindState}
	ErrTimeout                = &Error{Kind: KindTimeout}
)

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// wrapDriver turns a bus driver failure into a KindDriver error. Errors
// that do not carry a Code are reported as CodeFailure.
func wrapDriver(op string, err error) *Error {
	var code Code
	if !errors.As(err, &code) {
		code = CodeFailure
	}
	return &Error{Kind: KindDriver, Op: op, Code: code, Err: err}
}

// Code is an error code of the bus driver, numbered like dc1394error_t.
// A Code is an error itself, so drivers can return it directly.
type Code int32

const (
	CodeSuccess                Code = 0
	CodeFailure                Code = -1
	CodeNotACamera             Code = -2
	CodeFunctionNotSupported   Code = -3
	CodeCameraNotInitialized   Code = -4
	CodeMemoryAllocation       Code = -5
	CodeTaggedRegisterNotFound Code = -6
	CodeNoISOChannel           Code = -7
	CodeNoBandwidth            Code = -8
	CodeIOCTLFailure           Code = -9
	CodeCaptureIsNotSet        Code = -10
	CodeCaptureIsRunning       Code = -11
	CodeRAW1394Failure         Code = -12
	CodeFormat7ErrorFlag1      Code = -13
	CodeFormat7ErrorFlag2      Code = -14
	CodeInvalidArgumentValue   Code = -15
	CodeReqValueOutsideRange   Code = -16
	CodeInvalidFeature         Code = -17
	CodeInvalidVideoFormat     Code = -18
	CodeInvalidVideoMode       Code = -19
	CodeInvalidFramerate       Code = -20
	CodeInvalidTriggerMode     Code = -21
	CodeInvalidTriggerSource   Code = -22
	CodeInvalidISOSpeed        Code = -23
	CodeInvalidIIDCVersion     Code = -24
	CodeInvalidColorCoding     Code = -25
	CodeInvalidColorFilter     Code = -26
	CodeInvalidCapturePolicy   Code = -27
	CodeInvalidErrorCode       Code = -28
	CodeInvalidBayerMethod     Code = -29
	CodeInvalidVideo1394Device Code = -30
	CodeInvalidOperationMode   Code = -31
	CodeInvalidTriggerPolarity Code = -32
	CodeInvalidFeatureMode     Code = -33
)

var codeMessages = map[Code]string{
	CodeSuccess:                "success",
	CodeFailure:                "generic failure",
	CodeNotACamera:             "not a camera",
	CodeFunctionNotSupported:   "function not supported",
	CodeCameraNotInitialized:   "camera not initialized",
	CodeMemoryAllocation:       "memory allocation failure",
	CodeTaggedRegisterNotFound: "tagged register not found",
	CodeNoISOChannel:           "no ISO channel available",
	CodeNoBandwidth:            "not enough ISO bandwidth",
	CodeIOCTLFailure:           "ioctl failure",
	CodeCaptureIsNotSet:        "capture is not set",
	CodeCaptureIsRunning:       "capture is running",
	CodeRAW1394Failure:         "raw1394 failure",
	CodeFormat7ErrorFlag1:      "format7 error flag 1 set",
	CodeFormat7ErrorFlag2:      "format7 error flag 2 set",
	CodeInvalidArgumentValue:   "invalid argument value",
	CodeReqValueOutsideRange:   "requested value outside range",
	CodeInvalidFeature:         "invalid feature",
	CodeInvalidVideoFormat:     "invalid video format",
	CodeInvalidVideoMode:       "invalid video mode",
	CodeInvalidFramerate:       "invalid framerate",
	CodeInvalidTriggerMode:     "invalid trigger mode",
	CodeInvalidTriggerSource:   "invalid trigger source",
	CodeInvalidISOSpeed:        "invalid ISO speed",
	CodeInvalidIIDCVersion:     "invalid IIDC version",
	CodeInvalidColorCoding:     "invalid color coding",
	CodeInvalidColorFilter:     "invalid color filter",
	CodeInvalidCapturePolicy:   "invalid capture policy",
	CodeInvalidErrorCode:       "invalid error code",
	CodeInvalidBayerMethod:     "invalid Bayer method",
	CodeInvalidVideo1394Device: "invalid video1394 device",
	CodeInvalidOperationMode:   "invalid operation mode",
	CodeInvalidTriggerPolarity: "invalid trigger polarity",
	CodeInvalidFeatureMode:     "invalid feature mode",
}

func (c Code) Error() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error code %d", int32(c))
}

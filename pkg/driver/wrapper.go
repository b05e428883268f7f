package driver

import (
	"github.com/google/uuid"
)

func wrapAdapter(a Adapter, info Info) Driver {
	id := uuid.NewString()

	if c, ok := a.(CameraAdapter); ok {
		return &cameraAdapterWrapper{
			CameraAdapter: c,
			id:            id,
			info:          info,
		}
	}

	return &adapterWrapper{
		Adapter: a,
		id:      id,
		info:    info,
	}
}

type adapterWrapper struct {
	Adapter
	id   string
	info Info
}

func (w *adapterWrapper) ID() string {
	return w.id
}

func (w *adapterWrapper) Info() Info {
	return w.info
}

// The adapter owns its state machine; the wrapper only adds identity.
type cameraAdapterWrapper struct {
	CameraAdapter
	id   string
	info Info
}

func (w *cameraAdapterWrapper) ID() string {
	return w.id
}

func (w *cameraAdapterWrapper) Info() Info {
	return w.info
}

func (w *adapterWrapper) adapter() Adapter       { return w.Adapter }
func (w *cameraAdapterWrapper) adapter() Adapter { return w.CameraAdapter }

// Unwrap returns the adapter d was registered with, or nil if d was not
// created by a Manager.
func Unwrap(d Driver) Adapter {
	if w, ok := d.(interface{ adapter() Adapter }); ok {
		return w.adapter()
	}
	return nil
}

package host

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/reglet-dev/scriptbridge/domain/entities"
	"github.com/reglet-dev/scriptbridge/domain/errors"
)

// handle is the host's reference to one engine object. It is live until the
// host releases it or ownership crosses into the engine.
type handle struct {
	rt       *Runtime
	obj      *goja.Object
	id       uint64
	kind     entities.Kind
	released bool
}

// Release gives up the host's reference. Releasing twice is a MisuseError.
func (h *handle) Release() error {
	if h.released {
		return &errors.MisuseError{Op: "release", Subject: h.String(), Err: errors.ErrHandleReleased}
	}
	h.rt.handles.untrack(h)
	h.released = true
	return nil
}

// IsReleased reports whether the handle was released or crossed into the engine.
func (h *handle) IsReleased() bool {
	return h.released
}

// Runtime returns the runtime that owns the handle.
func (h *handle) Runtime() *Runtime {
	return h.rt
}

func (h *handle) String() string {
	return fmt.Sprintf("%s#%d", h.kind, h.id)
}

// use guards every accessor against released handles and runtimes.
func (h *handle) use(op string) error {
	if h.released {
		return &errors.MisuseError{Op: op, Subject: h.String(), Err: errors.ErrHandleReleased}
	}
	return h.rt.checkAlive(op)
}

// handleTable is the per-runtime arena of live handles.
type handleTable struct {
	live map[uint64]*handle
	next uint64
}

func newHandleTable() *handleTable {
	return &handleTable{live: make(map[uint64]*handle)}
}

func (t *handleTable) track(h *handle) {
	t.next++
	h.id = t.next
	t.live[h.id] = h
}

func (t *handleTable) untrack(h *handle) {
	delete(t.live, h.id)
}

func (t *handleTable) len() int {
	return len(t.live)
}

func (t *handleTable) counts() (objects, arrays int) {
	for _, h := range t.live {
		if h.kind == entities.KindArray {
			arrays++
		} else {
			objects++
		}
	}
	return objects, arrays
}

func (rt *Runtime) wrapObject(obj *goja.Object) *Object {
	o := &Object{handle: handle{rt: rt, obj: obj, kind: entities.KindObject}}
	rt.handles.track(&o.handle)
	return o
}

func (rt *Runtime) wrapArray(obj *goja.Object) *Array {
	a := &Array{handle: handle{rt: rt, obj: obj, kind: entities.KindArray}}
	rt.handles.track(&a.handle)
	return a
}

// cross transfers ownership of h into the engine and returns the engine
// object. Only live handles of this runtime may cross.
func (rt *Runtime) cross(h *handle, op string) (*goja.Object, error) {
	if h.rt != rt {
		return nil, &errors.CrossRuntimeError{Op: op, HandleRuntime: h.rt.id, TargetRuntime: rt.id}
	}
	if h.released {
		return nil, &errors.CrossRuntimeError{Op: op, Released: true}
	}
	rt.handles.untrack(h)
	h.released = true
	return h.obj, nil
}

// borrow returns the engine object behind h without transferring ownership.
func (rt *Runtime) borrow(h *handle, op string) (*goja.Object, error) {
	if h.rt != rt {
		return nil, &errors.CrossRuntimeError{Op: op, HandleRuntime: h.rt.id, TargetRuntime: rt.id}
	}
	if err := h.use(op); err != nil {
		return nil, err
	}
	return h.obj, nil
}

func (rt *Runtime) releaseScoped(scoped []*handle) {
	for _, h := range scoped {
		if !h.released {
			rt.handles.untrack(h)
			h.released = true
		}
	}
}

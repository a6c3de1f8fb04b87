package host

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
)

// runtimeRegistry tracks every runtime that has been created and not yet
// released, across the whole process.
type runtimeRegistry struct {
	live   map[string]*Runtime
	mu     sync.Mutex
	active atomic.Int32
}

var runtimes = &runtimeRegistry{live: make(map[string]*Runtime)}

func (r *runtimeRegistry) add(rt *Runtime) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[rt.id] = rt
	r.active.Add(1)
}

func (r *runtimeRegistry) remove(rt *Runtime) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[rt.id]; !ok {
		return
	}
	delete(r.live, rt.id)
	r.active.Add(-1)
}

func (r *runtimeRegistry) snapshot() []*Runtime {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Runtime, 0, len(r.live))
	for _, rt := range r.live {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// ActiveRuntimeCount returns the number of runtimes created and not yet
// released in this process.
func ActiveRuntimeCount() int32 {
	return runtimes.active.Load()
}

// LiveRuntimes returns the ids of all active runtimes, sorted.
func LiveRuntimes() []string {
	live := runtimes.snapshot()
	ids := make([]string, len(live))
	for i, rt := range live {
		ids[i] = rt.id
	}
	return ids
}

// ReleaseAll releases every active runtime. Runtimes that refuse to release
// stay active and their errors are combined into the result.
func ReleaseAll() error {
	var err error
	for _, rt := range runtimes.snapshot() {
		err = multierr.Append(err, rt.Release())
	}
	return err
}

// Package host embeds a goja JavaScript runtime and exposes Go callables to
// scripts running inside it.
//
// A Runtime owns one engine instance, the bindings registered on it and every
// Object and Array handle it has created. Scripts call bound names like any
// other function; arguments are coerced into the Go parameter types declared
// at registration, results are converted back, and Go failures are thrown into
// the script as catchable exceptions.
//
// Handles are explicitly owned. The host releases the handles it receives
// unless ownership crosses back to the engine, which happens when a callable
// returns the handle. A Runtime refuses to release while handles are live.
//
// Usage:
//
//	rt, err := host.New(host.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer rt.Release()
//
//	if _, err := rt.Register(calc, "Add", "add", entities.KindInt32, entities.KindInt32); err != nil {
//	    return err
//	}
//	sum, err := rt.ExecuteIntScript("add(8, 7)")
//
// A Runtime is not safe for concurrent use. Callables may re-enter the
// Runtime that invoked them.
package host

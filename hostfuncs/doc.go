// Package hostfuncs holds the engine-independent half of the callback bridge:
// reflection-based resolution of host methods into immutable bindings, the
// per-scope binding table, and the middleware chain that dispatches a call and
// turns host failures into outcomes.
//
// Nothing in this package imports the script engine. Engine handle types are
// supplied through HandleTypes so signatures can name them.
package hostfuncs

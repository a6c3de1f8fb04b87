package config

import "strings"

// Values is a raw configuration tree as produced by a ConfigParser.
type Values map[string]any

// Set assigns value at a dotted path such as "log.level", creating
// intermediate maps as needed.
func (v Values) Set(path string, value any) {
	keys := strings.Split(path, ".")
	node := map[string]any(v)
	for _, k := range keys[:len(keys)-1] {
		child, ok := node[k].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[k] = child
		}
		node = child
	}
	node[keys[len(keys)-1]] = value
}

// Get returns the value at a dotted path.
func (v Values) Get(path string) (any, bool) {
	var cur any = map[string]any(v)
	for _, k := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString returns the string at path, if present.
func (v Values) GetString(path string) (string, bool) {
	x, ok := v.Get(path)
	if !ok {
		return "", false
	}
	s, ok := x.(string)
	return s, ok
}

// GetBool returns the bool at path, if present.
func (v Values) GetBool(path string) (bool, bool) {
	x, ok := v.Get(path)
	if !ok {
		return false, false
	}
	b, ok := x.(bool)
	return b, ok
}

// Merge copies src into v. Nested maps are merged key by key; other values
// in src replace those in v.
func (v Values) Merge(src Values) {
	mergeMaps(v, src)
}

func mergeMaps(dst, src map[string]any) {
	for k, sv := range src {
		if sm, ok := sv.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				mergeMaps(dm, sm)
				continue
			}
		}
		dst[k] = sv
	}
}

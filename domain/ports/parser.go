package ports

// ConfigParser parses raw configuration bytes into a generic key/value tree.
type ConfigParser interface {
	// Parse unmarshals bytes into nested maps keyed by configuration key.
	Parse(data []byte) (map[string]any, error)
}

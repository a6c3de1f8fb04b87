// Package ports defines the interfaces the application layer depends on and
// infrastructure adapters implement.
package ports

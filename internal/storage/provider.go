// Package storage defines the durable key-value medium case data lives on.
package storage

// Provider is the interface for the persistence medium. A key maps to one
// opaque document; absence is reported through os.ErrNotExist so callers can
// distinguish "never written" from a read failure.
type Provider interface {
	// Read returns the document stored under key.
	Read(key string) ([]byte, error)
	// Write durably replaces the document under key.
	Write(key string, data []byte) error
}

// Package session is the durable client-side record: auth token, user
// profile, recent searches. It is the only shared mutable state in the
// client; the API wrapper reads it per request and only the auth flows
// write it.
package session

// Storage keys. One file (or in-memory map) holds every entry.
const (
	KeyToken        = "token"
	KeyUser         = "user"
	KeyLastSearches = "last_flight_searches"
)

// Store is a small durable key-value abstraction so services and tests can
// swap the file-backed implementation for an in-memory one.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(keys ...string) error
}

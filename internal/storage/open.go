package storage

import "fmt"

// Open constructs the KeyValue backend named by the configuration.
func Open(backend, dbPath string) (KeyValue, error) {
	switch backend {
	case "", "sqlite":
		return NewSQLiteStore(dbPath)
	case "bolt":
		return NewBoltStore(dbPath)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

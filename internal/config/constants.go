package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the key-value database
	DefaultDatabasePath = "./mangalog.db"
)

// Storage backend names accepted by DATABASE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

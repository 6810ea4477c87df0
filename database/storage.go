package database

// Storage is the persistence handle injected into the router and handlers.
// It is constructed once at process start and closed on shutdown.
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error
	GetDB() interface{}
}

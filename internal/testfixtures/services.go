package testfixtures

import (
	"io"
	"log/slog"
	"time"

	"github.com/example/event-directory/internal/directory"
	"github.com/example/event-directory/internal/directory/memory"
	"github.com/example/event-directory/internal/tokenvault"
)

// ServiceFactory assists tests with constructing directory services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Tokens      *IDGenerator
	Vault       tokenvault.Vault
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Tokens:      NewIDGenerator("token"),
		Vault:       tokenvault.NewMemoryVault(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	if factory.Tokens == nil {
		factory.Tokens = NewIDGenerator("token")
	}
	if factory.Vault == nil {
		factory.Vault = tokenvault.NewMemoryVault()
	}
	return factory
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithVault overrides the session token vault used by the factory.
func WithVault(vault tokenvault.Vault) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Vault = vault
	}
}

// MemoryBackend builds a seeded in-memory backend wired to the factory's
// clock and generators.
func (factory *ServiceFactory) MemoryBackend() *memory.Backend {
	return memory.New(memory.Options{
		Now:          factory.Clock.NowFunc(),
		NewID:        factory.IDGenerator.NextFunc(),
		NewToken:     factory.Tokens.NextFunc(),
		AttendanceID: memory.CompositeAttendanceID,
	})
}

// Service builds a directory service over a fresh seeded memory backend.
func (factory *ServiceFactory) Service() *directory.Service {
	return directory.NewService(factory.MemoryBackend(), factory.Vault, factory.Logger, factory.Clock.NowFunc())
}

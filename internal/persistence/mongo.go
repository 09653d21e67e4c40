package persistence

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/spec-kit/support-panel/internal/config"
)

// Mongo owns the document-store client. The client is established lazily on
// first use and cached for reuse; Reset drops it so the next call
// reconnects instead of failing permanently.
type Mongo struct {
	cfg    config.MongoConfig
	logger *zap.Logger

	mu     sync.Mutex
	client *mongo.Client
}

// NewMongo builds a handle without performing any I/O. URI and database
// name were already validated by config.Load.
func NewMongo(cfg config.MongoConfig, logger *zap.Logger) *Mongo {
	return &Mongo{cfg: cfg, logger: logger}
}

// Database returns the configured logical database, connecting on first
// use. Safe for concurrent callers.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := m.connectedClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(m.cfg.Database), nil
}

// Collection returns a handle to a named collection in the configured
// database.
func (m *Mongo) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := m.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (m *Mongo) connectedClient(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return m.client, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(m.cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	m.logger.Info("connected to mongodb", zap.String("database", m.cfg.Database))
	m.client = client
	return client, nil
}

// Reset discards the cached client after a detected connection failure.
// The next operation re-establishes the connection.
func (m *Mongo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return
	}
	_ = m.client.Disconnect(context.Background())
	m.client = nil
	m.logger.Warn("mongodb client reset; will reconnect on next use")
}

// Ping verifies store connectivity, connecting if needed.
func (m *Mongo) Ping(ctx context.Context) error {
	client, err := m.connectedClient(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close releases the cached client.
func (m *Mongo) Close(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return
	}
	_ = m.client.Disconnect(ctx)
	m.client = nil
}

// Recoverable reports whether an operation error indicates a broken or
// timed-out connection, in which case the cached client should be reset.
func Recoverable(err error) bool {
	if err == nil {
		return false
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

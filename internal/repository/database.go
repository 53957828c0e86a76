package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"screener/config"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Open connects to the configured driver and returns its repositories.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.Postgres)
	default:
		return OpenMongo(ctx, cfg.Mongo)
	}
}

// OpenMongo connects, pings and builds MongoDB repositories
func OpenMongo(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	return &Store{
		Screeners: NewScreenerRepo(db),
		Reference: NewReferenceRepo(db),
		Responses: NewResponseRepo(db),
		Close:     client.Disconnect,
	}, nil
}

// OpenPostgres opens a lib/pq pool, pings it and builds Postgres repositories
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig) (*Store, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return NewPostgresStore(db), nil
}

// NewPostgresStore builds Postgres repositories over an open pool
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Screeners: NewPostgresScreenerRepo(db),
		Reference: NewPostgresReferenceRepo(db),
		Responses: NewPostgresResponseRepo(db),
		Close: func(context.Context) error {
			return db.Close()
		},
	}
}

package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neo4jcfg "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/config"
	"futebol-mcp/internal/logging"
	"futebol-mcp/internal/retry"
)

// Runner executes a traversal template and returns its rows. The dispatcher
// depends on this interface so tests can substitute a fake backend.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]interface{}) ([]Row, error)
}

// SessionManager owns the pooled driver connection to the graph backend.
// The graph is read-only from this side; every session is opened in read
// access mode. Transient connectivity faults are retried with exponential
// backoff; queries the backend rejects surface immediately as QueryFailed.
type SessionManager struct {
	driver   neo4j.DriverWithContext
	database string
	retrier  *retry.Retrier
	timeout  time.Duration
	logger   *logging.Logger
}

// NewSessionManager connects to the configured Neo4j endpoint. The driver
// pools connections internally; PoolSize bounds it.
func NewSessionManager(cfg *config.Neo4jConfig, logger *logging.Logger) (*SessionManager, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.User, cfg.Password, ""),
		func(c *neo4jcfg.Config) {
			c.MaxConnectionPoolSize = cfg.PoolSize
			c.ConnectionAcquisitionTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		},
	)
	if err != nil {
		return nil, apperr.NewBackendUnavailable(1, err)
	}

	return &SessionManager{
		driver:   driver,
		database: cfg.Database,
		retrier: retry.New(&retry.Config{
			MaxAttempts:     cfg.RetryAttempts,
			InitialDelay:    100 * time.Millisecond,
			MaxDelay:        5 * time.Second,
			Multiplier:      2.0,
			RandomizeFactor: 0.1,
			RetryIf:         neo4j.IsConnectivityError,
		}),
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  logger.WithComponent("graph"),
	}, nil
}

// Run executes the query in a read session and materializes all rows.
func (sm *SessionManager) Run(ctx context.Context, query string, params map[string]interface{}) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, sm.timeout)
	defer cancel()

	var rows []Row
	err := sm.retrier.Do(ctx, func(ctx context.Context) error {
		collected, err := sm.runOnce(ctx, query, params)
		if err != nil {
			return err
		}
		rows = collected
		return nil
	})
	if err != nil {
		return nil, sm.classify(ctx, err)
	}
	return rows, nil
}

func (sm *SessionManager) runOnce(ctx context.Context, query string, params map[string]interface{}) ([]Row, error) {
	session := sm.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: sm.database,
	})
	defer func() {
		if err := session.Close(ctx); err != nil {
			sm.logger.Warn("session close failed", "error", err.Error())
		}
	}()

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for result.Next(ctx) {
		rows = append(rows, Row(result.Record().AsMap()))
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// classify maps a terminal driver error onto the taxonomy. Connectivity
// faults already consumed the retry budget by the time they reach here.
func (sm *SessionManager) classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperr.NewBackendUnavailable(sm.retrier.Attempts(), ctxErr)
	}
	if neo4j.IsConnectivityError(err) {
		sm.logger.Error("graph backend unreachable", "attempts", sm.retrier.Attempts(), "error", err.Error())
		return apperr.NewBackendUnavailable(sm.retrier.Attempts(), err)
	}
	sm.logger.Error("query rejected by backend", "error", err.Error())
	return apperr.NewQueryFailed(err)
}

// Health verifies backend connectivity.
func (sm *SessionManager) Health(ctx context.Context) error {
	if err := sm.driver.VerifyConnectivity(ctx); err != nil {
		return apperr.NewBackendUnavailable(1, err)
	}
	return nil
}

// Close releases the driver's connection pool.
func (sm *SessionManager) Close(ctx context.Context) error {
	return sm.driver.Close(ctx)
}

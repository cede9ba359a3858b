package authorize

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	psqlwatcher "github.com/IguteChung/casbin-psql-watcher"
	casbin "github.com/casbin/casbin/v2"
	entadapter "github.com/casbin/ent-adapter"
)

// policyLoadHealthy tracks the health state of Casbin policy loading.
// When policy reload fails, this is set to false to trigger health check failures.
var policyLoadHealthy atomic.Bool

func init() {
	policyLoadHealthy.Store(true)
}

// IsPolicyHealthy returns true if the Casbin policy is in a healthy state.
// Returns false if the last policy reload attempt failed.
func IsPolicyHealthy() bool {
	return policyLoadHealthy.Load()
}

// CleanupFunc is a function that cleans up resources.
type CleanupFunc func(ctx context.Context)

// NewEnforcer builds a DistributedEnforcer backed by the ent adapter on dsn.
// With watch set, a PostgreSQL LISTEN/NOTIFY watcher reloads the policy
// whenever another instance changes it.
func NewEnforcer(modelPath, dsn string, watch bool) (*casbin.DistributedEnforcer, CleanupFunc, error) {
	a, err := entadapter.NewAdapter("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("casbin adapter: %w", err)
	}

	e, err := casbin.NewDistributedEnforcer(modelPath, a)
	if err != nil {
		return nil, nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	e.EnableAutoSave(true)
	e.EnableEnforce(true)

	if !watch {
		return e, func(context.Context) {}, nil
	}

	w, err := psqlwatcher.NewWatcherWithConnString(context.Background(), dsn, psqlwatcher.Option{
		Channel: "casbin_policy_update",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("casbin watcher: %w", err)
	}
	if err := w.SetUpdateCallback(func(msg string) { reloadPolicy(e, msg) }); err != nil {
		w.Close()
		return nil, nil, err
	}
	if err := e.SetWatcher(w); err != nil {
		w.Close()
		return nil, nil, err
	}

	cleanup := func(context.Context) {
		slog.Info("closing casbin policy watcher")
		w.Close()
	}
	return e, cleanup, nil
}

func reloadPolicy(e *casbin.DistributedEnforcer, msg string) {
	slog.Debug("casbin policy update received", "message", msg)
	if err := e.LoadPolicy(); err != nil {
		slog.Error("failed to reload policy after watcher notification", "error", err)
		policyLoadHealthy.Store(false)
		return
	}
	policyLoadHealthy.Store(true)
}

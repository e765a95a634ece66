package command

import (
	"context"
	"fmt"

	"github.com/karstlab/cavemap/internal/manager"
	"github.com/karstlab/cavemap/internal/util"
)

type (
	entityManagerKey  struct{}
	commandContextKey struct{}
)

// WithEntityManager returns a new context with the entity manager instance
func WithEntityManager(ctx context.Context, mgr *manager.Manager) context.Context {
	return context.WithValue(ctx, entityManagerKey{}, mgr)
}

// GetEntityManager retrieves the entity manager instance from the context
func GetEntityManager(ctx context.Context) *manager.Manager {
	if mgr, ok := ctx.Value(entityManagerKey{}).(*manager.Manager); ok {
		return mgr
	}
	return nil
}

// WithCommandContext returns a new context with the command context instance
func WithCommandContext(ctx context.Context, cmdCtx *util.CommandContext) context.Context {
	return context.WithValue(ctx, commandContextKey{}, cmdCtx)
}

// GetCommandContext retrieves the command context instance from the context
func GetCommandContext(ctx context.Context) *util.CommandContext {
	if cmdCtx, ok := ctx.Value(commandContextKey{}).(*util.CommandContext); ok {
		return cmdCtx
	}
	return nil
}

// RequireCommandContext retrieves the command context and errors if not found
func RequireCommandContext(ctx context.Context) (*util.CommandContext, error) {
	cmdCtx := GetCommandContext(ctx)
	if cmdCtx == nil {
		return nil, fmt.Errorf("command context not initialized")
	}
	return cmdCtx, nil
}

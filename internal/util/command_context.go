// Package util provides the unified command context for cavemap commands.
package util

import (
	"fmt"

	"github.com/karstlab/cavemap/internal/config"
	"github.com/karstlab/cavemap/internal/manager"
	"github.com/karstlab/cavemap/internal/notify"
	"github.com/karstlab/cavemap/internal/state"
)

// CommandContext bundles everything a command needs: configuration, the
// unified entity manager and the notifier. It is built once per invocation
// and threaded through cobra's command context, never stored globally.
type CommandContext struct {
	Config   *config.Config
	Manager  *manager.Manager
	Notifier *notify.Notifier
}

// NewCommandContext creates a command context over an initialized manager.
func NewCommandContext(cfg *config.Config, mgr *manager.Manager) *CommandContext {
	return &CommandContext{
		Config:   cfg,
		Manager:  mgr,
		Notifier: notify.NewNotifier(),
	}
}

// ResolveProjectScope returns the project scope from an explicit flag value
// or the configured default.
func (ctx *CommandContext) ResolveProjectScope(flagValue string) (state.Scope, error) {
	id := flagValue
	if id == "" {
		id = ctx.Config.DefaultProject
	}
	if id == "" {
		return state.Scope{}, fmt.Errorf("no project given; pass --project or set CAVEMAP_PROJECT")
	}
	return state.Scope{Kind: state.ScopeProject, ID: id}, nil
}

// ResolveNetworkScope returns the network scope from an explicit flag value
// or the configured default.
func (ctx *CommandContext) ResolveNetworkScope(flagValue string) (state.Scope, error) {
	id := flagValue
	if id == "" {
		id = ctx.Config.DefaultNetwork
	}
	if id == "" {
		return state.Scope{}, fmt.Errorf("no network given; pass --network or set CAVEMAP_NETWORK")
	}
	return state.Scope{Kind: state.ScopeNetwork, ID: id}, nil
}

// ReportError pushes an error toast and returns the error unchanged, so
// commands can both notify and propagate.
func (ctx *CommandContext) ReportError(err error) error {
	if err != nil {
		ctx.Notifier.PushError(err)
	}
	return err
}

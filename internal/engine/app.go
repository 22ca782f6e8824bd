package engine

import (
	"github.com/colonyops/taskwright/internal/core/config"
	"github.com/colonyops/taskwright/internal/core/eventbus"
	"github.com/colonyops/taskwright/internal/core/task"
)

// App aggregates the engine services for command handlers.
type App struct {
	Store     task.Store
	Manager   *Manager
	Scheduler *Scheduler
	Bus       *eventbus.EventBus
	Config    *config.Config
}

// NewApp creates the service aggregate.
func NewApp(store task.Store, manager *Manager, scheduler *Scheduler, bus *eventbus.EventBus, cfg *config.Config) *App {
	return &App{
		Store:     store,
		Manager:   manager,
		Scheduler: scheduler,
		Bus:       bus,
		Config:    cfg,
	}
}

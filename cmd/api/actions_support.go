package main

import (
	"context"
	"log"

	"github.com/yourusername/gotgas/internal/actions"
	"github.com/yourusername/gotgas/internal/config"
)

// setupActions はアクションの記録方式を決めます。
// ACTION_QUEUE_ENABLED のときは asynq ワーカーを起動します。
func setupActions(cfg *config.Config, store *actions.Store, logger *log.Logger) (actions.Recorder, func(context.Context) error, error) {
	if !cfg.ActionQueueEnabled {
		recorder, err := actions.NewSyncRecorder(store, logger)
		if err != nil {
			return nil, nil, err
		}
		return recorder, func(context.Context) error { return nil }, nil
	}

	manager, err := actions.NewManager(cfg, store, logger)
	if err != nil {
		return nil, nil, err
	}
	manager.StartWorkers()
	return manager, manager.Shutdown, nil
}

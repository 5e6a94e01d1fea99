package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/yourusername/gotgas/internal/config"
)

const (
	taskTypeRecord = "action:record"
	queueName      = "actions"
)

// Manager はアクションの記録を asynq キュー経由で行います。
type Manager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
	store  *Store
	logger *log.Logger
}

// NewManager は Manager を初期化します。
func NewManager(cfg *config.Config, store *Store, logger *log.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if logger == nil {
		logger = log.Default()
	}
	opt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := asynq.NewClient(opt)
	server := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				queueName: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	manager := &Manager{
		client: client,
		server: server,
		mux:    mux,
		store:  store,
		logger: logger,
	}
	mux.HandleFunc(taskTypeRecord, manager.handleRecordTask)
	return manager, nil
}

// StartWorkers は Asynq サーバーをバックグラウンドで起動します。
func (m *Manager) StartWorkers() {
	go func() {
		if err := m.server.Run(m.mux); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			m.logger.Printf("asynq server stopped with error: %v", err)
		}
	}()
}

// Shutdown はサーバーとクライアントを閉じます。
func (m *Manager) Shutdown(ctx context.Context) error {
	m.server.Shutdown()
	return m.client.Close()
}

// Record はイベントをキューに投入します。
func (m *Manager) Record(ctx context.Context, event *Event) error {
	body, err := encodeEvent(event)
	if err != nil {
		return err
	}

	task := asynq.NewTask(taskTypeRecord, body, asynq.Queue(queueName))
	if _, err := m.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue action: %w", err)
	}
	return nil
}

func (m *Manager) handleRecordTask(ctx context.Context, task *asynq.Task) error {
	var event Event
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		// 壊れたペイロードは再試行しても直らない
		return fmt.Errorf("decode action payload: %v: %w", err, asynq.SkipRetry)
	}
	if event.Username == "" {
		return fmt.Errorf("missing username in payload: %w", asynq.SkipRetry)
	}

	logAction(m.logger, &event)
	return m.store.Append(ctx, &event)
}

func encodeEvent(event *Event) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("event is nil")
	}
	if event.Username == "" {
		return nil, fmt.Errorf("event.Username is required")
	}
	return json.Marshal(event)
}

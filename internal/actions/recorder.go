package actions

import (
	"context"
	"errors"
	"log"
)

// Recorder は保護されたアクションの副作用（ログと履歴）を担います。
type Recorder interface {
	Record(ctx context.Context, event *Event) error
}

// History はユーザーのアクション履歴を返します。
type History interface {
	Recent(ctx context.Context, username string, limit int) ([]Event, error)
}

// SyncRecorder はリクエスト内でログ出力と履歴保存を行います。
type SyncRecorder struct {
	store  *Store
	logger *log.Logger
}

// NewSyncRecorder は SyncRecorder を作成します。
func NewSyncRecorder(store *Store, logger *log.Logger) (*SyncRecorder, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SyncRecorder{store: store, logger: logger}, nil
}

func (r *SyncRecorder) Record(ctx context.Context, event *Event) error {
	if _, err := encodeEvent(event); err != nil {
		return err
	}
	logAction(r.logger, event)
	return r.store.Append(ctx, event)
}

func logAction(logger *log.Logger, event *Event) {
	if event.Action == ActionButton {
		logger.Printf("Button clicked by %s!", event.Username)
		return
	}
	logger.Printf("action %s by %s", event.Action, event.Username)
}

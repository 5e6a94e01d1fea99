// Package actions は保護されたアクションの実行ログを扱います。
package actions

import (
	"time"

	"github.com/google/uuid"
)

// ActionButton はボタン操作のアクション名です。
const ActionButton = "button_click"

// Event はログイン済みユーザーが実行したアクション1件です。
type Event struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent は現在時刻で Event を作成します。
func NewEvent(username, action string) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Username:   username,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}

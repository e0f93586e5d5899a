package model

import "time"

// ProgressEvent is a timestamped, ordered notification of incremental
// progress for one work item. Events form an append-only per-item sequence;
// Seq is assigned by the broadcaster and strictly increases within an item.
type ProgressEvent struct {
	WorkItemID string    `json:"work_item_id" db:"work_item_id"`
	Seq        int64     `json:"seq"          db:"seq"`
	Message    string    `json:"message"      db:"message"`
	Progress   *int      `json:"progress,omitempty" db:"progress"`
	CreatedAt  time.Time `json:"created_at"   db:"created_at"`
}

// Package crawl contains the crawl job orchestration engine: per-key job
// state tracking, the incremental fetch-window calculator, the symbol
// fan-out runner, and the five crawl job kinds.
package crawl

import "time"

// Status is the lifecycle state of one tracked unit of work.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// KeyNewsAll is the sentinel job key for the news batch job, which has no
// per-symbol granularity.
const KeyNewsAll = "NEWS_ALL"

// profileKeySuffix keeps profile job keys disjoint from the bare-symbol
// keys used by the quote, recommendation and historical jobs.
const profileKeySuffix = "_PROFILE"

// ProfileKey returns the job key tracking the profile crawl for a symbol.
func ProfileKey(symbol string) string { return symbol + profileKeySuffix }

// State is one persisted record per job key. An absent record is an
// implicit PENDING state.
type State struct {
	Key         string    `json:"jobKey"`
	Status      Status    `json:"status"`
	LastSuccess time.Time `json:"lastSuccessfulTimestamp,omitzero"`
	ErrorLog    string    `json:"errorLog,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

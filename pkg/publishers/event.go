package publishers

import (
	"time"

	"github.com/Adda-Baaj/storefront-apitest/internal/suite"
)

// Event is the report published for one collection after a run.
type Event struct {
	RunID      string             `json:"run_id"`
	Collection string             `json:"collection"`
	BaseURL    string             `json:"base_url"`
	Total      int                `json:"total"`
	Passed     int                `json:"passed"`
	Failed     int                `json:"failed"`
	Results    []suite.CaseResult `json:"results"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
}

// NewEvent summarizes the case results of one collection.
func NewEvent(runID, collection, baseURL string, results []suite.CaseResult, startedAt time.Time) Event {
	evt := Event{
		RunID:      runID,
		Collection: collection,
		BaseURL:    baseURL,
		Total:      len(results),
		Results:    results,
		StartedAt:  startedAt.UTC(),
		FinishedAt: time.Now().UTC(),
	}
	for _, r := range results {
		if r.Passed {
			evt.Passed++
		} else {
			evt.Failed++
		}
	}
	return evt
}

// Status is "passed" when no case failed.
func (e Event) Status() string {
	if e.Failed > 0 {
		return "failed"
	}
	return "passed"
}

// attributes are attached to queue and topic messages for filtering.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"run_id":     e.RunID,
		"collection": e.Collection,
		"status":     e.Status(),
	}
}

package server

import (
	"net/http"

	"github.com/stockapp/crawlservice/internal/crawl"
	"github.com/stockapp/crawlservice/internal/scheduler"
)

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(tracker *crawl.Tracker, sched *scheduler.Scheduler, jobs []scheduler.Job) http.Handler {
	return newMux(tracker, sched, jobs)
}

func newMux(tracker *crawl.Tracker, sched *scheduler.Scheduler, jobs []scheduler.Job) http.Handler {
	byName := make(map[string]scheduler.Job, len(jobs))
	for _, j := range jobs {
		byName[j.Name()] = j
	}

	h := &handler{
		tracker: tracker,
		sched:   sched,
		jobs:    byName,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /api/v1/crawl/jobs", h.listStates)
	mux.HandleFunc("GET /api/v1/crawl/jobs/{key}", h.getState)
	mux.HandleFunc("POST /api/v1/crawl/run/{job}", h.runJob)

	// Apply middleware stack: recovery -> requestID -> logging
	var handler http.Handler = mux
	handler = logging(handler)
	handler = requestID(handler)
	handler = recovery(handler)

	return handler
}

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stockapp/crawlservice/internal/apperror"
	"github.com/stockapp/crawlservice/internal/crawl"
	"github.com/stockapp/crawlservice/internal/scheduler"
)

type handler struct {
	tracker *crawl.Tracker
	sched   *scheduler.Scheduler
	jobs    map[string]scheduler.Job
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.tracker.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list crawl states")
		return
	}
	if states == nil {
		states = []crawl.State{}
	}
	writeJSON(w, http.StatusOK, states)
}

func (h *handler) getState(w http.ResponseWriter, r *http.Request) {
	key := strings.ToUpper(r.PathValue("key"))

	state, err := h.tracker.Get(r.Context(), key)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			writeError(w, appErr.HTTPStatus(), appErr.Message())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load crawl state")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// runJob fires one run of a named job outside its schedule. The run is
// fire-and-forget; the response only acknowledges the trigger.
func (h *handler) runJob(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("job")

	job, ok := h.jobs[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown job: "+name)
		return
	}

	h.sched.RunNow(job)
	writeJSON(w, http.StatusAccepted, map[string]string{"job": job.Name(), "triggered": "true"})
}

package handlers

import (
	"net/http"
	"time"
)

func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.dashboard.Overview(r.Context())
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: report})
}

// DailyHistoryHandler serves the opening/closing balance walk for a date
// range, defaulting to the trailing 30 days.
func (h *Handler) DailyHistoryHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var start, end time.Time
	var err error
	if v := q.Get("start_date"); v != "" {
		start, err = time.ParseInLocation("2006-01-02", v, h.shop.Location)
		if err != nil {
			h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid start_date"})
			return
		}
	}
	if v := q.Get("end_date"); v != "" {
		end, err = time.ParseInLocation("2006-01-02", v, h.shop.Location)
		if err != nil {
			h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid end_date"})
			return
		}
	}

	history, err := h.dashboard.History(r.Context(), start, end)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: history})
}

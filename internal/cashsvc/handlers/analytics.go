package handlers

import (
	"net/http"
)

func (h *Handler) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := h.analytics.Report(r.Context())
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: page})
}

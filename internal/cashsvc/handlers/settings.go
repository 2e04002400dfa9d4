package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

func (h *Handler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: settings})
}

func (h *Handler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PrintBWCost    decimal.Decimal `json:"print_bw_cost"`
		PrintColorCost decimal.Decimal `json:"print_color_cost"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}

	updated, err := h.settings.Update(r.Context(), in.PrintBWCost, in.PrintColorCost)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "Settings updated successfully!",
		Code:    http.StatusOK,
		Data:    updated,
	})
}

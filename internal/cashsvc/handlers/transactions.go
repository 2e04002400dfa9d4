package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/service"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/store"
)

func (h *Handler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var in service.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}

	created, err := h.transactions.Create(r.Context(), in, Actor(r))
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "Transaction recorded successfully!",
		Code:    http.StatusCreated,
		Data:    created,
	})
}

func (h *Handler) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid transaction id"})
		return
	}

	t, err := h.transactions.GetByID(r.Context(), id)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: t})
}

func (h *Handler) UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid transaction id"})
		return
	}

	var in service.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}

	updated, err := h.transactions.Update(r.Context(), id, in)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "Transaction updated successfully!",
		Code:    http.StatusOK,
		Data:    updated,
	})
}

// ListTransactionsHandler filters by type, payment mode, a date window and
// note/staff search, newest first.
func (h *Handler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := store.TransactionFilter{
		TType:       q.Get("type"),
		PaymentMode: q.Get("payment"),
		Search:      q.Get("search"),
	}

	if v := q.Get("start_date"); v != "" {
		from, err := h.parseDay(v)
		if err != nil {
			h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid start_date"})
			return
		}
		f.From = &from
	}
	if v := q.Get("end_date"); v != "" {
		to, err := h.parseDay(v)
		if err != nil {
			h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid end_date"})
			return
		}
		// inclusive end date
		to = to.AddDate(0, 0, 1)
		f.To = &to
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid limit"})
			return
		}
		f.Limit = limit
	}

	txs, err := h.transactions.List(r.Context(), f)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: txs})
}

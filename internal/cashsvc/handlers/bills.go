package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"

	"github.com/madina-shop/cashbook-services/internal/cashsvc/ledger"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/models"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/store"
)

type billInput struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
	DueDate      string          `json:"due_date"`
	Note         string          `json:"note"`
	PayNow       bool            `json:"pay_now"`
}

func (in *billInput) toBill(actor string) (*models.Bill, error) {
	due, err := time.Parse("2006-01-02", in.DueDate)
	if err != nil {
		return nil, &ledger.ValidationError{Field: "due_date", Message: "Due date must be YYYY-MM-DD."}
	}
	return &models.Bill{
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		Amount:       in.Amount,
		Fee:          in.Fee,
		DueDate:      due,
		Note:         in.Note,
		CreatedBy:    actor,
	}, nil
}

func (h *Handler) CreateBillHandler(w http.ResponseWriter, r *http.Request) {
	var in billInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}

	bill, err := in.toBill(Actor(r))
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	if in.PayNow {
		paid, txn, err := h.bills.CreateAndPay(r.Context(), bill, Actor(r))
		if err != nil {
			h.ErrorResponse(w, err)
			return
		}
		h.CreateResponse(w, Response{
			Message: "Bill created and marked as paid!",
			Code:    http.StatusCreated,
			Data:    map[string]interface{}{"bill": paid, "transaction": txn},
		})
		return
	}

	created, err := h.bills.Create(r.Context(), bill)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "Bill created successfully!",
		Code:    http.StatusCreated,
		Data:    created,
	})
}

func (h *Handler) GetBillHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid bill id"})
		return
	}

	bill, err := h.bills.GetByID(r.Context(), id)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}
	bill.DisplayStatus = bill.StatusOn(h.shopToday())

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: bill})
}

func (h *Handler) UpdateBillHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid bill id"})
		return
	}

	var in billInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}

	bill, err := in.toBill(Actor(r))
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}
	bill.ID = id

	updated, err := h.bills.Update(r.Context(), bill)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "Bill updated successfully!",
		Code:    http.StatusOK,
		Data:    updated,
	})
}

// PayBillHandler settles one bill. Paying an already-paid bill is a no-op
// reported as a warning, not a failure.
func (h *Handler) PayBillHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid bill id"})
		return
	}

	txn, err := h.bills.MarkPaid(r.Context(), id, Actor(r))
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyPaid) {
			h.CreateResponse(w, Response{
				Message: "This bill is already marked as paid.",
				Code:    http.StatusOK,
			})
			return
		}
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "Bill marked as paid!",
		Code:    http.StatusOK,
		Data:    txn,
	})
}

func (h *Handler) BulkPayBillsHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		BillIDs []int64 `json:"bill_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}
	if len(in.BillIDs) == 0 {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "No bills selected."})
		return
	}

	count, err := h.bills.BulkMarkPaid(r.Context(), in.BillIDs, Actor(r))
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: strconv.Itoa(count) + " bill(s) marked as paid successfully!",
		Code:    http.StatusOK,
		Data:    map[string]int{"paid": count},
	})
}

// billListFilter translates list query params. OVERDUE is derived, never
// stored, so filtering on it becomes a pending-past-due condition.
func (h *Handler) billListFilter(q url.Values, today time.Time) (store.BillFilter, error) {
	f := store.BillFilter{
		CustomerID: q.Get("customer_id"),
		Search:     q.Get("search"),
	}
	if status := q.Get("status"); status == models.BillOverdue {
		f.OverdueOn = &today
	} else {
		f.Status = status
	}
	if v := q.Get("start_date"); v != "" {
		from, err := h.parseDay(v)
		if err != nil {
			return store.BillFilter{}, &ledger.ValidationError{Field: "start_date", Message: "invalid start_date"}
		}
		f.DueFrom = &from
	}
	if v := q.Get("end_date"); v != "" {
		to, err := h.parseDay(v)
		if err != nil {
			return store.BillFilter{}, &ledger.ValidationError{Field: "end_date", Message: "invalid end_date"}
		}
		f.DueTo = &to
	}
	return f, nil
}

// ListBillsHandler returns filtered bills with book-wide status counts and
// the pending load grouped by upcoming due date.
func (h *Handler) ListBillsHandler(w http.ResponseWriter, r *http.Request) {
	today := h.shopToday()

	f, err := h.billListFilter(r.URL.Query(), today)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	bills, err := h.bills.List(r.Context(), f)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}
	models.StampDisplayStatus(bills, today)

	counts, err := h.bills.CountByStatus(r.Context(), today)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	byDueDate, err := h.bills.PendingByDueDate(r.Context(), 10)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Code: http.StatusOK,
		Data: map[string]interface{}{
			"bills":         bills,
			"counts":        counts,
			"bills_by_date": byDueDate,
		},
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/jackc/pgx/v5"

	config "github.com/madina-shop/cashbook-services/configs"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/ledger"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/service"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	shop      config.Shop

	transactions *service.TransactionService
	bills        *service.BillService
	dashboard    *service.DashboardService
	analytics    *service.AnalyticsService
	settings     *service.SettingsService
}

func NewHandler(
	shop config.Shop,
	transactions *service.TransactionService,
	bills *service.BillService,
	dashboard *service.DashboardService,
	analytics *service.AnalyticsService,
	settings *service.SettingsService,
) *Handler {
	return &Handler{
		shop:         shop,
		transactions: transactions,
		bills:        bills,
		dashboard:    dashboard,
		analytics:    analytics,
		settings:     settings,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (rs *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	json.NewEncoder(w).Encode(rsp)
}

// ErrorResponse maps domain errors onto the envelope. Validation failures
// come back 400 keyed by field, missing rows 404, anything else is a
// failure of the whole unit and nothing was committed.
func (h *Handler) ErrorResponse(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.CreateResponse(w, Response{
			Message: vErr.Field,
			Code:    http.StatusBadRequest,
			Error:   vErr.Message,
		})
	case errors.Is(err, ledger.ErrBillNotFound), errors.Is(err, pgx.ErrNoRows):
		h.CreateResponse(w, Response{
			Code:  http.StatusNotFound,
			Error: err.Error(),
		})
	default:
		h.CreateResponse(w, Response{
			Code:  http.StatusInternalServerError,
			Error: err.Error(),
		})
	}
}

// parseDay reads a YYYY-MM-DD query value as midnight in the shop's
// timezone, so date windows line up with the local civil day.
func (h *Handler) parseDay(v string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", v, h.shop.Location)
}

// shopToday is the current shop-local civil date at midnight.
func (h *Handler) shopToday() time.Time {
	now := time.Now().In(h.shop.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.shop.Location)
}

// Actor pulls the staff name out of the verified JWT claims.
func Actor(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "staff"
	}
	if name, ok := claims["staff"].(string); ok && name != "" {
		return name
	}
	return "staff"
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "cash service is running at port " + os.Getenv("CASH_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	json.NewEncoder(w).Encode(rsp)
}

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"custodian.io/internal/application/usecase"
	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/logger"
	"custodian.io/internal/infrastructure/token"
	"custodian.io/internal/infrastructure/validator"
)

const maxBodyBytes = 1 << 20

// UseCases groups the application use cases served over HTTP
type UseCases struct {
	Deposit    *usecase.DepositUseCase
	Withdraw   *usecase.WithdrawUseCase
	Approve    *usecase.ApproveUseCase
	Administer *usecase.AdministerUseCase
	GetBalance *usecase.GetBalanceUseCase
	GetStatus  *usecase.GetStatusUseCase
	ListEvents *usecase.ListEventsUseCase
}

// Handler holds HTTP handlers and their dependencies
type Handler struct {
	useCases      UseCases
	authenticator port.RequestAuthenticator
	metrics       http.Handler
	logger        logger.Logger
}

// NewHandler creates a new HTTP handler. metrics may be nil.
func NewHandler(
	useCases UseCases,
	authenticator port.RequestAuthenticator,
	metrics http.Handler,
	logger logger.Logger,
) *Handler {
	return &Handler{
		useCases:      useCases,
		authenticator: authenticator,
		metrics:       metrics,
		logger:        logger,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, validator.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, token.ErrUnknownToken):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrNotAdministrator):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrPaused), errors.Is(err, entity.ErrNotPaused):
		return http.StatusConflict
	case errors.Is(err, entity.ErrAssetNotWhitelisted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrTransferFailed):
		return http.StatusPaymentRequired
	case errors.Is(err, entity.ErrZeroAddress),
		errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrBalanceOverflow),
		errors.Is(err, entity.ErrInvalidAddress),
		errors.Is(err, entity.ErrInvalidAmountFormat),
		errors.Is(err, entity.ErrMissingCaller),
		errors.Is(err, entity.ErrMissingAsset),
		errors.Is(err, entity.ErrMissingAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	requestLogger := loggerFrom(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		requestLogger.LogError(r.Context(), msg, err)
		writeJSON(w, status, errorBody{Error: msg})
		return
	}
	requestLogger.LogWarning(r.Context(), msg, "error", err.Error(), "status", status)
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// signedHandler receives the authenticated caller and the raw body
type signedHandler func(w http.ResponseWriter, r *http.Request, caller entity.Address, body []byte)

// signed reads the body and authenticates the request before calling next
func (h *Handler) signed(next signedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			h.fail(w, r, "Failed to read request body", err)
			return
		}

		caller, err := h.authenticator.Authenticate(r.Context(), r, body)
		if err != nil {
			h.fail(w, r, "Request authentication failed", err)
			return
		}

		next(w, r, caller, body)
	}
}

func decode(body []byte, v any) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errInvalidJSON
	}
	return nil
}

var errInvalidJSON = errors.New("invalid JSON body")

func (h *Handler) badJSON(w http.ResponseWriter, r *http.Request) {
	loggerFrom(r.Context(), h.logger).LogWarning(r.Context(), "Invalid JSON body")
	writeJSON(w, http.StatusBadRequest, errorBody{Error: errInvalidJSON.Error()})
}

// HandleDeposit handles POST /v1/deposits
func (h *Handler) HandleDeposit(w http.ResponseWriter, r *http.Request, caller entity.Address, body []byte) {
	var req entity.TransferRequest
	if err := decode(body, &req); err != nil {
		h.badJSON(w, r)
		return
	}
	req.Caller = caller.Hex()

	if err := h.useCases.Deposit.Execute(r.Context(), req); err != nil {
		h.fail(w, r, "Failed to deposit", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	loggerFrom(r.Context(), h.logger).LogInfo(r.Context(), "Deposit accepted",
		"caller", caller.Hex(),
		"asset", req.Asset,
		"amount", req.Amount)
}

// HandleWithdraw handles POST /v1/withdrawals
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request, caller entity.Address, body []byte) {
	var req entity.TransferRequest
	if err := decode(body, &req); err != nil {
		h.badJSON(w, r)
		return
	}
	req.Caller = caller.Hex()

	resp, err := h.useCases.Withdraw.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to withdraw", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
	loggerFrom(r.Context(), h.logger).LogInfo(r.Context(), "Withdrawal settled",
		"caller", caller.Hex(),
		"asset", req.Asset,
		"requested", resp.Requested,
		"settled", resp.Settled)
}

// HandleApprove handles PUT /v1/tokens/{asset}/allowance
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request, caller entity.Address, body []byte) {
	var req entity.AllowanceRequest
	if err := decode(body, &req); err != nil {
		h.badJSON(w, r)
		return
	}
	req.Caller = caller.Hex()
	req.Asset = mux.Vars(r)["asset"]

	resp, err := h.useCases.Approve.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to approve custody", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
	loggerFrom(r.Context(), h.logger).LogInfo(r.Context(), "Custody allowance set",
		"caller", caller.Hex(),
		"asset", resp.Asset,
		"amount", resp.Amount)
}

// HandleWhitelistAdd handles PUT /v1/whitelist/{asset}
func (h *Handler) HandleWhitelistAdd(w http.ResponseWriter, r *http.Request, caller entity.Address, _ []byte) {
	if err := h.useCases.Administer.WhitelistAsset(r.Context(), caller, mux.Vars(r)["asset"]); err != nil {
		h.fail(w, r, "Failed to whitelist asset", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleWhitelistRemove handles DELETE /v1/whitelist/{asset}
func (h *Handler) HandleWhitelistRemove(w http.ResponseWriter, r *http.Request, caller entity.Address, _ []byte) {
	if err := h.useCases.Administer.RemoveAsset(r.Context(), caller, mux.Vars(r)["asset"]); err != nil {
		h.fail(w, r, "Failed to remove asset from whitelist", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandlePause handles POST /v1/pause
func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request, caller entity.Address, _ []byte) {
	if err := h.useCases.Administer.Pause(r.Context(), caller); err != nil {
		h.fail(w, r, "Failed to pause", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": true})
}

// HandleUnpause handles POST /v1/unpause
func (h *Handler) HandleUnpause(w http.ResponseWriter, r *http.Request, caller entity.Address, _ []byte) {
	if err := h.useCases.Administer.Unpause(r.Context(), caller); err != nil {
		h.fail(w, r, "Failed to unpause", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": false})
}

// HandleTransferOwnership handles POST /v1/ownership
func (h *Handler) HandleTransferOwnership(w http.ResponseWriter, r *http.Request, caller entity.Address, body []byte) {
	var req entity.OwnershipRequest
	if err := decode(body, &req); err != nil {
		h.badJSON(w, r)
		return
	}
	if err := h.useCases.Administer.TransferOwnership(r.Context(), caller, req); err != nil {
		h.fail(w, r, "Failed to transfer ownership", err)
		return
	}
	newOwner, _ := entity.ParseAddress(req.NewOwner)
	writeJSON(w, http.StatusOK, map[string]string{"owner": newOwner.Hex()})
}

// HandleRenounceOwnership handles DELETE /v1/ownership
func (h *Handler) HandleRenounceOwnership(w http.ResponseWriter, r *http.Request, caller entity.Address, _ []byte) {
	if err := h.useCases.Administer.RenounceOwnership(r.Context(), caller); err != nil {
		h.fail(w, r, "Failed to renounce ownership", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"owner": entity.ZeroAddress.Hex()})
}

// HandleBalance handles GET /v1/balances/{asset}/{account}
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	balance, err := h.useCases.GetBalance.Execute(r.Context(), vars["asset"], vars["account"])
	if err != nil {
		h.fail(w, r, "Failed to get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// HandleWhitelisted handles GET /v1/whitelist/{asset}
func (h *Handler) HandleWhitelisted(w http.ResponseWriter, r *http.Request) {
	asset := mux.Vars(r)["asset"]
	ok, err := h.useCases.GetBalance.IsWhitelisted(r.Context(), asset)
	if err != nil {
		h.fail(w, r, "Failed to check whitelist", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"asset": asset, "whitelisted": ok})
}

// HandleStatus handles GET /v1/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.useCases.GetStatus.Execute(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to get status", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HandleEvents handles GET /v1/events?limit=n
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid limit"})
			return
		}
		limit = n
	}

	events, err := h.useCases.ListEvents.Execute(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "Failed to list events", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// SetupRoutes sets up all HTTP routes
func (h *Handler) SetupRoutes(rps float64, burst int) *mux.Router {
	router := mux.NewRouter()

	// Apply middleware chain
	router.Use(
		RequestIDMiddleware(h.logger),
		LoggingMiddleware(h.logger),
		RateLimitMiddleware(rps, burst),
	)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/deposits", h.signed(h.HandleDeposit)).Methods(http.MethodPost)
	v1.HandleFunc("/withdrawals", h.signed(h.HandleWithdraw)).Methods(http.MethodPost)
	v1.HandleFunc("/tokens/{asset}/allowance", h.signed(h.HandleApprove)).Methods(http.MethodPut)
	v1.HandleFunc("/whitelist/{asset}", h.signed(h.HandleWhitelistAdd)).Methods(http.MethodPut)
	v1.HandleFunc("/whitelist/{asset}", h.signed(h.HandleWhitelistRemove)).Methods(http.MethodDelete)
	v1.HandleFunc("/whitelist/{asset}", h.HandleWhitelisted).Methods(http.MethodGet)
	v1.HandleFunc("/pause", h.signed(h.HandlePause)).Methods(http.MethodPost)
	v1.HandleFunc("/unpause", h.signed(h.HandleUnpause)).Methods(http.MethodPost)
	v1.HandleFunc("/ownership", h.signed(h.HandleTransferOwnership)).Methods(http.MethodPost)
	v1.HandleFunc("/ownership", h.signed(h.HandleRenounceOwnership)).Methods(http.MethodDelete)
	v1.HandleFunc("/balances/{asset}/{account}", h.HandleBalance).Methods(http.MethodGet)
	v1.HandleFunc("/status", h.HandleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/events", h.HandleEvents).Methods(http.MethodGet)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if h.metrics != nil {
		router.Handle("/metrics", h.metrics).Methods(http.MethodGet)
	}

	return router
}

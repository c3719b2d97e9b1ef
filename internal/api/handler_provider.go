package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/ledger"
)

// WalletService is the part of the wallet service the handlers need.
type WalletService interface {
	RegisterPlayer(ctx context.Context, firstName, lastName, email, login, password string) (*ledger.Player, error)
	AuthorizePlayer(ctx context.Context, login, password string) (*ledger.Player, error)
	Balance(ctx context.Context, login string) (string, decimal.Decimal, error)
	History(ctx context.Context, login string) ([]ledger.Transaction, error)
	Deposit(ctx context.Context, login, txID string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, login, txID string, amount decimal.Decimal) error
}

// HandlerProvider wraps the wallet service and exposes HTTP handlers.
type HandlerProvider struct {
	svc    WalletService
	tokens *Tokens
}

// NewHandler returns a new handler provider.
func NewHandler(svc WalletService, tokens *Tokens) *HandlerProvider {
	return &HandlerProvider{svc: svc, tokens: tokens}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes a JSON body into dst with a size cap and unknown
// fields disallowed. It writes the error response itself.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return err
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")
		return err
	}

	return nil
}

// parseAmount accepts a positive decimal string with up to 2
// fractional digits. Sign and range rules beyond syntax stay with the
// ledger.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("amount required")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("invalid amount")
	}

	if d.Exponent() < -2 {
		return decimal.Zero, errors.New("amount supports up to 2 decimals")
	}

	return d, nil
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Login     string `json:"login"`
	Password  string `json:"password"`
}

func (req *registerRequest) validate() error {
	for _, f := range []struct{ name, value string }{
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"email", req.Email},
		{"login", req.Login},
		{"password", req.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			return errors.New(f.name + " required")
		}
	}

	return nil
}

type authRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type moneyRequest struct {
	Amount        string `json:"amount"`
	TransactionID string `json:"transactionId"`
}

type txResponse struct {
	ID            string `json:"id"`
	AccountNumber string `json:"accountNumber"`
	Time          string `json:"time"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
}

// --- Handlers ---

// RegisterPlayerHandler handles POST /registration.
func (h *HandlerProvider) RegisterPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		return
	}

	err = req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	player, err := h.svc.RegisterPlayer(r.Context(), req.FirstName, req.LastName, req.Email, req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrPlayerExists):
			writeError(w, http.StatusConflict, "player already exists")
		case errors.Is(err, ledger.ErrLoginTaken):
			writeError(w, http.StatusConflict, "login is not unique")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}

		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"playerId":      player.ID,
		"accountNumber": player.Account.Number,
	})
}

// AuthorizePlayerHandler handles POST /authentication.
func (h *HandlerProvider) AuthorizePlayerHandler(w http.ResponseWriter, r *http.Request) {
	var req authRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		return
	}

	player, err := h.svc.AuthorizePlayer(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownLogin) || errors.Is(err, ledger.ErrWrongPassword) {
			writeError(w, http.StatusUnauthorized, "incorrect login or password")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := h.tokens.Issue(player, req.Login)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetBalanceHandler handles GET /players/balance.
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	number, balance, err := h.svc.Balance(r.Context(), authedLogin(r))
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownLogin) {
			writeError(w, http.StatusUnauthorized, "unknown player")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"accountNumber": number,
		"balance":       balance.StringFixed(2),
	})
}

// GetHistoryHandler handles GET /players/transactions.
func (h *HandlerProvider) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.History(r.Context(), authedLogin(r))
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownLogin) {
			writeError(w, http.StatusUnauthorized, "unknown player")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]txResponse, 0, len(history))
	for _, tx := range history {
		out = append(out, txResponse{
			ID:            tx.ID,
			AccountNumber: tx.AccountNumber,
			Time:          tx.Time.Format(time.RFC3339Nano),
			Type:          string(tx.Type),
			Amount:        tx.Amount.StringFixed(2),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// DepositHandler handles POST /players/depositing.
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	h.applyMoney(w, r, h.svc.Deposit)
}

// WithdrawHandler handles POST /players/withdrawal.
func (h *HandlerProvider) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	h.applyMoney(w, r, h.svc.Withdraw)
}

func (h *HandlerProvider) applyMoney(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, login, txID string, amount decimal.Decimal) error,
) {
	var req moneyRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The transaction id is the caller's idempotency key; generate one
	// for clients that do not send their own.
	txID := strings.TrimSpace(req.TransactionID)
	if txID == "" {
		txID = uuid.NewString()
	}

	err = op(r.Context(), authedLogin(r), txID, amount)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrDuplicateTransaction):
			writeError(w, http.StatusConflict, "duplicate transaction id")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			writeError(w, http.StatusConflict, "insufficient funds")
		case errors.Is(err, ledger.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "amount must be positive")
		case errors.Is(err, ledger.ErrUnknownLogin):
			writeError(w, http.StatusUnauthorized, "unknown player")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "transactionId": txID})
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the router with all API endpoints registered.
func NewRouter(svc WalletService, tokens *Tokens) http.Handler {
	h := NewHandler(svc, tokens)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/registration", h.RegisterPlayerHandler)
	r.Post("/authentication", h.AuthorizePlayerHandler)

	// Player routes resolve the acting player from the access token.
	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAuth)

		r.Get("/players/balance", h.GetBalanceHandler)
		r.Get("/players/transactions", h.GetHistoryHandler)
		r.Post("/players/depositing", h.DepositHandler)
		r.Post("/players/withdrawal", h.WithdrawHandler)
	})

	return r
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fastprodman/walletsvc/internal/repos/operations"
	"github.com/fastprodman/walletsvc/internal/services/wallet"
)

// noopOps discards audit rows; handler tests assert HTTP behavior only.
type noopOps struct{}

func (noopOps) Insert(context.Context, operations.Operation) error { return nil }
func (noopOps) List(context.Context) ([]operations.Operation, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := wallet.New(noopOps{})
	tokens := NewTokens("test-secret", time.Hour)

	srv := httptest.NewServer(NewRouter(svc, tokens))
	t.Cleanup(srv.Close)

	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)

	return resp.StatusCode, out
}

func registerBody(login string) map[string]string {
	return map[string]string{
		"firstName": "Ivan",
		"lastName":  "Petrov",
		"email":     login + "@example.com",
		"login":     login,
		"password":  "secret",
	}
}

func authToken(t *testing.T, srv *httptest.Server, login string) string {
	t.Helper()

	code, body := doJSON(t, http.MethodPost, srv.URL+"/authentication", "", map[string]string{
		"login":    login,
		"password": "secret",
	})
	if code != http.StatusOK {
		t.Fatalf("authentication: want 200, got %d (%v)", code, body)
	}

	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("no token in authentication response")
	}

	return token
}

func TestRegistration(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	code, body := doJSON(t, http.MethodPost, srv.URL+"/registration", "", registerBody("ivan"))
	if code != http.StatusCreated {
		t.Fatalf("registration: want 201, got %d (%v)", code, body)
	}
	if acc, _ := body["accountNumber"].(string); len(acc) != 9 {
		t.Fatalf("accountNumber: want 9 digits, got %q", body["accountNumber"])
	}

	// Same identity again
	dup := registerBody("ivan2")
	dup["email"] = "ivan@example.com"
	code, _ = doJSON(t, http.MethodPost, srv.URL+"/registration", "", dup)
	if code != http.StatusConflict {
		t.Fatalf("duplicate player: want 409, got %d", code)
	}

	// Same login, different person
	taken := registerBody("ivan")
	taken["firstName"] = "Petr"
	taken["email"] = "petr@example.com"
	code, _ = doJSON(t, http.MethodPost, srv.URL+"/registration", "", taken)
	if code != http.StatusConflict {
		t.Fatalf("taken login: want 409, got %d", code)
	}

	// Missing field
	missing := registerBody("maria")
	missing["email"] = ""
	code, _ = doJSON(t, http.MethodPost, srv.URL+"/registration", "", missing)
	if code != http.StatusBadRequest {
		t.Fatalf("missing field: want 400, got %d", code)
	}
}

func TestAuthentication(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	code, _ := doJSON(t, http.MethodPost, srv.URL+"/registration", "", registerBody("ivan"))
	if code != http.StatusCreated {
		t.Fatalf("registration: want 201, got %d", code)
	}

	tests := []struct {
		name     string
		login    string
		password string
		want     int
	}{
		{name: "ok", login: "ivan", password: "secret", want: http.StatusOK},
		{name: "wrong_password", login: "ivan", password: "nope", want: http.StatusUnauthorized},
		{name: "unknown_login", login: "ghost", password: "secret", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doJSON(t, http.MethodPost, srv.URL+"/authentication", "", map[string]string{
				"login":    tt.login,
				"password": tt.password,
			})
			if code != tt.want {
				t.Fatalf("want %d, got %d (%v)", tt.want, code, body)
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/players/balance"},
		{http.MethodGet, "/players/transactions"},
		{http.MethodPost, "/players/depositing"},
		{http.MethodPost, "/players/withdrawal"},
	}

	for _, p := range paths {
		code, _ := doJSON(t, p.method, srv.URL+p.path, "", nil)
		if code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: want 401, got %d", p.method, p.path, code)
		}

		code, _ = doJSON(t, p.method, srv.URL+p.path, "not-a-jwt", nil)
		if code != http.StatusUnauthorized {
			t.Fatalf("%s %s with garbage token: want 401, got %d", p.method, p.path, code)
		}
	}
}

func TestDepositWithdrawFlow(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	code, _ := doJSON(t, http.MethodPost, srv.URL+"/registration", "", registerBody("ivan"))
	if code != http.StatusCreated {
		t.Fatalf("registration: want 201, got %d", code)
	}
	token := authToken(t, srv, "ivan")

	getBalance := func() string {
		code, body := doJSON(t, http.MethodGet, srv.URL+"/players/balance", token, nil)
		if code != http.StatusOK {
			t.Fatalf("balance: want 200, got %d (%v)", code, body)
		}
		s, _ := body["balance"].(string)
		return s
	}

	if got := getBalance(); got != "0.00" {
		t.Fatalf("initial balance: want 0.00, got %s", got)
	}

	deposit := func(amount, txID string) (int, map[string]any) {
		return doJSON(t, http.MethodPost, srv.URL+"/players/depositing", token, map[string]string{
			"amount":        amount,
			"transactionId": txID,
		})
	}
	withdraw := func(amount, txID string) (int, map[string]any) {
		return doJSON(t, http.MethodPost, srv.URL+"/players/withdrawal", token, map[string]string{
			"amount":        amount,
			"transactionId": txID,
		})
	}

	code, body := deposit("200", "t1")
	if code != http.StatusOK {
		t.Fatalf("deposit t1: want 200, got %d (%v)", code, body)
	}
	if got := getBalance(); got != "200.00" {
		t.Fatalf("after deposit: want 200.00, got %s", got)
	}

	code, _ = deposit("500", "t1")
	if code != http.StatusConflict {
		t.Fatalf("duplicate t1: want 409, got %d", code)
	}
	if got := getBalance(); got != "200.00" {
		t.Fatalf("after duplicate: want 200.00, got %s", got)
	}

	code, _ = withdraw("250", "t2")
	if code != http.StatusConflict {
		t.Fatalf("overdraw: want 409, got %d", code)
	}

	code, _ = withdraw("100", "t2")
	if code != http.StatusOK {
		t.Fatalf("withdraw t2: want 200, got %d", code)
	}
	if got := getBalance(); got != "100.00" {
		t.Fatalf("after withdraw: want 100.00, got %s", got)
	}

	// History reflects both applied operations in order.
	code, _ = doJSON(t, http.MethodGet, srv.URL+"/players/transactions", token, nil)
	if code != http.StatusOK {
		t.Fatalf("transactions: want 200, got %d", code)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/players/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("transactions request: %v", err)
	}
	defer resp.Body.Close()

	var history []map[string]any
	err = json.NewDecoder(resp.Body).Decode(&history)
	if err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history len: want 2, got %d", len(history))
	}
	if history[0]["type"] != "CREDIT" || history[0]["amount"] != "200.00" {
		t.Fatalf("history[0]: %v", history[0])
	}
	if history[1]["type"] != "DEBIT" || history[1]["amount"] != "100.00" {
		t.Fatalf("history[1]: %v", history[1])
	}
}

func TestMoneyRequestValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	code, _ := doJSON(t, http.MethodPost, srv.URL+"/registration", "", registerBody("ivan"))
	if code != http.StatusCreated {
		t.Fatalf("registration: want 201, got %d", code)
	}
	token := authToken(t, srv, "ivan")

	tests := []struct {
		name   string
		amount string
		want   int
	}{
		{name: "empty_amount", amount: "", want: http.StatusBadRequest},
		{name: "not_a_number", amount: "abc", want: http.StatusBadRequest},
		{name: "too_many_decimals", amount: "1.234", want: http.StatusBadRequest},
		{name: "zero", amount: "0", want: http.StatusBadRequest},
		{name: "negative", amount: "-5", want: http.StatusBadRequest},
		{name: "ok", amount: "5.25", want: http.StatusOK},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doJSON(t, http.MethodPost, srv.URL+"/players/depositing", token, map[string]string{
				"amount":        tt.amount,
				"transactionId": fmt.Sprintf("amt-%d", i),
			})
			if code != tt.want {
				t.Fatalf("want %d, got %d (%v)", tt.want, code, body)
			}
		})
	}
}

func TestGeneratedTransactionID(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	code, _ := doJSON(t, http.MethodPost, srv.URL+"/registration", "", registerBody("ivan"))
	if code != http.StatusCreated {
		t.Fatalf("registration: want 201, got %d", code)
	}
	token := authToken(t, srv, "ivan")

	// Two deposits without ids must both apply under distinct ids.
	for i := range 2 {
		code, body := doJSON(t, http.MethodPost, srv.URL+"/players/depositing", token, map[string]string{
			"amount": "1.00",
		})
		if code != http.StatusOK {
			t.Fatalf("deposit %d: want 200, got %d (%v)", i, code, body)
		}
		if id, _ := body["transactionId"].(string); id == "" {
			t.Fatalf("deposit %d: no generated transactionId", i)
		}
	}

	code, body := doJSON(t, http.MethodGet, srv.URL+"/players/balance", token, nil)
	if code != http.StatusOK {
		t.Fatalf("balance: want 200, got %d", code)
	}
	if body["balance"] != "2.00" {
		t.Fatalf("balance: want 2.00, got %v", body["balance"])
	}
}

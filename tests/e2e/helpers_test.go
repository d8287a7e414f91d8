//go:build e2e

package e2e_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/minicrm/backend/internal/adapter/pdf"
	"github.com/minicrm/backend/internal/adapter/postgres"
	clientrepo "github.com/minicrm/backend/internal/adapter/postgres/client"
	managerrepo "github.com/minicrm/backend/internal/adapter/postgres/manager"
	orgrepo "github.com/minicrm/backend/internal/adapter/postgres/organization"
	refrepo "github.com/minicrm/backend/internal/adapter/postgres/refdata"
	requestrepo "github.com/minicrm/backend/internal/adapter/postgres/request"
	seqrepo "github.com/minicrm/backend/internal/adapter/postgres/sequence"
	"github.com/minicrm/backend/internal/adapter/postgres/testhelper"
	"github.com/minicrm/backend/internal/adapter/telegram"
	authpkg "github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/config"
	"github.com/minicrm/backend/internal/service/clientreg"
	"github.com/minicrm/backend/internal/service/managerauth"
	orgsvc "github.com/minicrm/backend/internal/service/organization"
	refsvc "github.com/minicrm/backend/internal/service/refdata"
	requestsvc "github.com/minicrm/backend/internal/service/request"
	"github.com/minicrm/backend/internal/transport/middleware"
	"github.com/minicrm/backend/internal/transport/rest"
)

const (
	testBotToken      = "123456:TEST-BOT-TOKEN"
	testWebhookSecret = "webhook-secret"
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "bootstrap-pass-1"
)

// telegramIDSeq hands out unique Telegram IDs across the suite; tests share
// one database.
var telegramIDSeq atomic.Int64

func init() {
	telegramIDSeq.Store(time.Now().UnixNano())
}

func nextTelegramID() int64 {
	return telegramIDSeq.Add(1)
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper). The outbound Telegram bot is
// disabled by an empty token; the inbound surfaces are fully wired.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	clients := clientrepo.NewRepository(pool)
	managers := managerrepo.NewRepository(pool)
	requests := requestrepo.NewRepository(pool)
	refs := refrepo.NewRepository(pool)
	orgs := orgrepo.NewRepository(pool)
	sequences := seqrepo.NewRepository(pool)

	authCfg := config.AuthConfig{
		JWTSecret:  "test-secret-at-least-32-chars-long!!",
		JWTIssuer:  "test-issuer",
		SessionTTL: 15 * time.Minute,
		BcryptCost: 4, // fast hashing for tests
	}
	tgCfg := config.TelegramConfig{
		BotToken:       testBotToken,
		WebhookSecret:  testWebhookSecret,
		WebAppURL:      "https://example.com/webapp",
		InitDataTTL:    time.Hour,
		ConsentVersion: "v1",
		APIBaseURL:     "http://127.0.0.1:1", // unreachable; bot sends are best-effort
	}

	jwtMgr := authpkg.NewJWTManager(authCfg.JWTSecret, authCfg.JWTIssuer, authCfg.SessionTTL)
	verifier := authpkg.NewInitDataVerifier(tgCfg.BotToken, tgCfg.InitDataTTL)

	bot := telegram.NewBot(config.TelegramConfig{APIBaseURL: tgCfg.APIBaseURL}, logger) // empty token: disabled
	notifier := telegram.NewNotifier(bot, logger)

	managerAuthSvc := managerauth.NewService(logger, managers, txm, jwtMgr, authCfg)
	clientRegSvc := clientreg.NewService(logger, clients, tgCfg.ConsentVersion)
	requestSvc := requestsvc.NewService(logger, requests, refs, sequences, txm, notifier)
	refdataSvc := refsvc.NewService(logger, refs)
	organizationSvc := orgsvc.NewService(logger, orgs, clients)

	handlers := rest.Handlers{
		Health:        rest.NewHealthHandler(pool, "test-version"),
		Auth:          rest.NewAuthHandler(managerAuthSvc, logger),
		Requests:      rest.NewRequestHandler(requestSvc, organizationSvc, pdf.NewInvoiceBuilder(), logger),
		Refdata:       rest.NewRefdataHandler(refdataSvc, logger),
		Clients:       rest.NewClientHandler(clientRegSvc, logger),
		Organizations: rest.NewOrganizationHandler(organizationSvc, logger),
		WebApp:        rest.NewWebAppHandler(clientRegSvc, requestSvc, logger),
		Webhook:       rest.NewWebhookHandler(clientRegSvc, tgCfg, logger),
	}

	router := rest.NewRouter(handlers, rest.RouterDeps{
		ManagerAuth: middleware.ManagerAuth(managerAuthSvc),
		ClientAuth:  middleware.ClientAuth(verifier, clientRegSvc),
	})

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
	)(router)

	srv := httptest.NewServer(handler)
	t.Cleanup(func() { srv.Close() })

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
	}
}

// doJSON sends a request with optional JSON body and decodes the JSON
// response. headers may be nil.
func (ts *testServer) doJSON(t *testing.T, method, path string, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err, "create request")
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err, "do request")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "read response body")

	var result map[string]any
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &result), "decode response: %s", raw)
	}
	return resp.StatusCode, result
}

// doJSONList is doJSON for endpoints returning a JSON array.
func (ts *testServer) doJSONList(t *testing.T, method, path string, headers map[string]string) (int, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, nil)
	require.NoError(t, err, "create request")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err, "do request")
	defer resp.Body.Close()

	var result []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result), "decode response")
	return resp.StatusCode, result
}

// signInitData builds valid, signed web-app init data for the test bot.
func signInitData(t *testing.T, telegramID int64, username string) string {
	t.Helper()

	user := map[string]any{"id": telegramID}
	if username != "" {
		user["username"] = username
	}
	userJSON, err := json.Marshal(user)
	require.NoError(t, err, "marshal init data user")

	values := url.Values{}
	values.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	values.Set("query_id", "AAE-test")
	values.Set("user", string(userJSON))

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(testBotToken))
	mac := hmac.New(sha256.New, secretMac.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))

	return values.Encode()
}

func initDataHeaders(initData string) map[string]string {
	return map[string]string{"X-Telegram-Init-Data": initData}
}

func bearerHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// adminToken bootstraps the admin account on first use and logs in on
// subsequent calls. Tests share one database, so bootstrap only succeeds
// once per test binary.
func adminToken(t *testing.T, ts *testServer) string {
	t.Helper()

	creds := map[string]string{"email": testAdminEmail, "password": testAdminPassword}
	status, resp := ts.doJSON(t, http.MethodPost, "/api/admin/auth/bootstrap", creds, nil)
	if status == http.StatusCreated {
		token, _ := resp["token"].(string)
		require.NotEmpty(t, token, "bootstrap token")
		return token
	}
	require.Equal(t, http.StatusConflict, status, "bootstrap response: %v", resp)

	status, resp = ts.doJSON(t, http.MethodPost, "/api/admin/auth/login", creds, nil)
	require.Equal(t, http.StatusOK, status, "login response: %v", resp)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token, "login token")
	return token
}

// seedReferences creates an active direction and a slot bound to it.
func seedReferences(t *testing.T, ts *testServer, token string) (directionID, slotID string) {
	t.Helper()

	status, dir := ts.doJSON(t, http.MethodPost, "/api/admin/directions",
		map[string]string{"name": fmt.Sprintf("Направление %d", nextTelegramID())},
		bearerHeaders(token))
	require.Equal(t, http.StatusCreated, status, "create direction: %v", dir)
	directionID, _ = dir["id"].(string)

	status, slot := ts.doJSON(t, http.MethodPost, "/api/admin/delivery-slots",
		map[string]any{"directionId": directionID, "date": time.Now().AddDate(0, 0, 7).Format("2006-01-02")},
		bearerHeaders(token))
	require.Equal(t, http.StatusCreated, status, "create slot: %v", slot)
	slotID, _ = slot["id"].(string)

	return directionID, slotID
}

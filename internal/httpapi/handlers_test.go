package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restoledger/backend/internal/domain"
	"restoledger/backend/internal/service"
	"restoledger/backend/internal/store/memory"
)

// newTestAPI builds a full API over the seeded in-memory store so handler
// tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, service.Config{})
	auth := NewAuthManager(context.Background(), "test-secret-key", time.Hour, repo)

	return New(svc, auth, "*")
}

// do sends one request through the handler. Empty token or csrf leaves the
// header unset.
func do(t *testing.T, api *API, method, path, token, csrf string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if csrf != "" {
		req.Header.Set("X-CSRF-Token", csrf)
	}
	res := httptest.NewRecorder()
	api.Handler().ServeHTTP(res, req)
	return res
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)

	res := do(t, api, http.MethodGet, "/healthz", "", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var body map[string]any
	decodeBody(t, res, &body)
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)

	res := do(t, api, http.MethodPost, "/api/v1/auth/login", "", "", domain.LoginRequest{Username: "manager", Password: "nope"})
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestOutletsRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	res := do(t, api, http.MethodGet, "/api/v1/outlets", "", "", nil)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestListOutletsReportsSelection(t *testing.T) {
	api := newTestAPI(t)
	token := login(t, api, "staff", "staff123")

	res := do(t, api, http.MethodGet, "/api/v1/outlets", token, "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var body struct {
		Outlets  []domain.Outlet `json:"outlets"`
		Selected string          `json:"selected_outlet_id"`
	}
	decodeBody(t, res, &body)
	if len(body.Outlets) != 2 || body.Selected != "outlet-pusat" {
		t.Fatalf("unexpected outlets payload %+v", body)
	}

	csrf := fetchCSRFToken(t, api)
	res = do(t, api, http.MethodPut, "/api/v1/outlets/selected", token, csrf, domain.OutletSelectRequest{OutletID: "outlet-kemang"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected select to succeed, got %d: %s", res.Code, res.Body.String())
	}
	res = do(t, api, http.MethodPut, "/api/v1/outlets/selected", token, csrf, domain.OutletSelectRequest{OutletID: "outlet-ghost"})
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown outlet, got %d", res.Code)
	}
}

func TestDeleteIngredientInRecipeReturnsGuardConflict(t *testing.T) {
	api := newTestAPI(t)
	token := login(t, api, "manager", "manager123")
	csrf := fetchCSRFToken(t, api)

	res := do(t, api, http.MethodDelete, "/api/v1/ingredients/ing-outlet-pusat-beras", token, csrf, nil)
	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", res.Code, res.Body.String())
	}
	var result domain.GuardResult
	decodeBody(t, res, &result)
	if result.Success || !strings.Contains(result.Message, "Nasi Goreng Spesial") {
		t.Fatalf("unexpected guard result %+v", result)
	}
}

func TestStaffCannotDeleteIngredient(t *testing.T) {
	api := newTestAPI(t)
	token := login(t, api, "staff", "staff123")
	csrf := fetchCSRFToken(t, api)

	res := do(t, api, http.MethodDelete, "/api/v1/ingredients/ing-outlet-pusat-beras", token, csrf, nil)
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
}

func TestStaffRouteIsManagerOnly(t *testing.T) {
	api := newTestAPI(t)
	token := login(t, api, "staff", "staff123")

	res := do(t, api, http.MethodGet, "/api/v1/users/staff", token, "", nil)
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
}

func TestRecordSaleUpdatesDashboard(t *testing.T) {
	api := newTestAPI(t)
	token := login(t, api, "staff", "staff123")

	res := do(t, api, http.MethodGet, "/api/v1/views/dashboard?outlet_id=outlet-pusat", token, "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", res.Code)
	}
	var before domain.Dashboard
	decodeBody(t, res, &before)

	csrf := fetchCSRFToken(t, api)
	sale := domain.SaleRecordRequest{OutletID: "outlet-pusat", MenuItemID: "menu-es-teh", QuantitySold: 5}
	res = do(t, api, http.MethodPost, "/api/v1/sales", token, csrf, sale)
	if res.Code != http.StatusCreated {
		t.Fatalf("record sale: expected 201, got %d: %s", res.Code, res.Body.String())
	}

	res = do(t, api, http.MethodGet, "/api/v1/views/dashboard?outlet_id=outlet-pusat", token, "", nil)
	var after domain.Dashboard
	decodeBody(t, res, &after)
	diff := after.Stats.TotalRevenue.Sub(before.Stats.TotalRevenue)
	if diff.IntPart() != 40000 {
		t.Fatalf("expected revenue to grow by 40000, got %s", diff)
	}
}

func TestRecordSaleUnknownMenuItemIsNotFound(t *testing.T) {
	api := newTestAPI(t)
	token := login(t, api, "staff", "staff123")
	csrf := fetchCSRFToken(t, api)

	sale := domain.SaleRecordRequest{OutletID: "outlet-pusat", MenuItemID: "menu-ghost", QuantitySold: 1}
	res := do(t, api, http.MethodPost, "/api/v1/sales", token, csrf, sale)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	api := newTestAPI(t)
	token := login(t, api, "staff", "staff123")

	res := do(t, api, http.MethodGet, "/api/v1/notifications?outlet_id=outlet-pusat", token, "", nil)
	var before struct {
		Notifications []domain.Notification `json:"notifications"`
		Unread        int                   `json:"unread"`
	}
	decodeBody(t, res, &before)
	if before.Unread == 0 {
		t.Fatalf("expected seeded notifications, got none")
	}

	csrf := fetchCSRFToken(t, api)
	target := before.Notifications[0].ID
	res = do(t, api, http.MethodPost, "/api/v1/notifications/"+target+"/read", token, csrf, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("mark read: expected 200, got %d", res.Code)
	}

	res = do(t, api, http.MethodGet, "/api/v1/notifications?outlet_id=outlet-pusat", token, "", nil)
	var after struct {
		Unread int `json:"unread"`
	}
	decodeBody(t, res, &after)
	if after.Unread != before.Unread-1 {
		t.Fatalf("expected unread %d, got %d", before.Unread-1, after.Unread)
	}

	res = do(t, api, http.MethodPost, "/api/v1/notifications/read-all?outlet_id=outlet-pusat", token, csrf, nil)
	var marked struct {
		Marked int `json:"marked"`
	}
	decodeBody(t, res, &marked)
	if marked.Marked != after.Unread {
		t.Fatalf("expected read-all to mark %d, got %d", after.Unread, marked.Marked)
	}
}

func TestCampaignLaunchFlow(t *testing.T) {
	api := newTestAPI(t)
	staff := login(t, api, "staff", "staff123")
	manager := login(t, api, "manager", "manager123")
	csrf := fetchCSRFToken(t, api)

	res := do(t, api, http.MethodPost, "/api/v1/campaigns/suggest", staff, csrf, domain.CampaignSuggestRequest{OutletID: "outlet-pusat"})
	if res.Code != http.StatusOK {
		t.Fatalf("suggest: expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var suggested struct {
		Suggestion domain.CampaignSuggestion `json:"suggestion"`
	}
	decodeBody(t, res, &suggested)

	launch := domain.CampaignLaunchRequest{CampaignSuggestion: suggested.Suggestion}
	res = do(t, api, http.MethodPut, "/api/v1/campaigns/active", staff, csrf, launch)
	if res.Code != http.StatusForbidden {
		t.Fatalf("staff launch: expected 403, got %d", res.Code)
	}
	res = do(t, api, http.MethodPut, "/api/v1/campaigns/active", manager, csrf, launch)
	if res.Code != http.StatusCreated {
		t.Fatalf("manager launch: expected 201, got %d: %s", res.Code, res.Body.String())
	}

	res = do(t, api, http.MethodGet, "/api/v1/campaigns/performance?outlet_id=outlet-pusat", staff, "", nil)
	var perf struct {
		Performance *domain.CampaignPerformance `json:"performance"`
	}
	decodeBody(t, res, &perf)
	if perf.Performance == nil {
		t.Fatalf("expected performance for the active campaign")
	}

	res = do(t, api, http.MethodDelete, "/api/v1/campaigns/active", manager, csrf, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("end campaign: expected 200, got %d", res.Code)
	}
}

func login(t *testing.T, api *API, username, password string) string {
	t.Helper()

	res := do(t, api, http.MethodPost, "/api/v1/auth/login", "", "", domain.LoginRequest{Username: username, Password: password})
	if res.Code != http.StatusOK {
		t.Fatalf("%s login failed, status %d", username, res.Code)
	}

	var payload domain.LoginResponse
	decodeBody(t, res, &payload)
	if strings.TrimSpace(payload.AccessToken) == "" {
		t.Fatalf("expected access token in login response")
	}
	return payload.AccessToken
}

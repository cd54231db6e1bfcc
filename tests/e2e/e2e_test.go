//go:build integration

package e2e

// End-to-end tests for the goods-receipt reconciliation engine using real
// Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - perfect-match receipt submission → verified, no cases
//   - shortage receipt → case spawned → vendor request lifecycle → fulfillment
//     closes the case
//   - credit note draft → issue → accept → settle → settlement completed
//     closes the case
//   - duplicate grn_number rejected with 409
//   - role enforcement on the credit-note surface

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/config"
	"github.com/codigix/passion-clothing-sub009/internal/infra"
	"github.com/codigix/passion-clothing-sub009/internal/middleware"
	"github.com/codigix/passion-clothing-sub009/internal/model"
	"github.com/codigix/passion-clothing-sub009/internal/router"
	"github.com/codigix/passion-clothing-sub009/internal/worker"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func mintToken(t *testing.T, secret, role string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:     uuid.NewString(),
		Name:       "E2E " + role,
		Department: role,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server        *httptest.Server
	db            *gorm.DB
	storeToken    string
	purchaseToken string
	financeToken  string
	engine        *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("grn_test"),
		tcPostgres.WithUsername("grn"),
		tcPostgres.WithPassword("grn"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                8000,
		Env:                 "test",
		JWTSecret:           "test-secret-key",
		DatabaseURL:         pgURL,
		RedisURL:            rdURL,
		NotifySidecarURL:    "http://localhost:9999", // unused, jobs stay queued
		WorkerPoolSize:      1,
		DocumentStoragePath: t.TempDir(),
		CompanyName:         "Passion Clothing",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:        srv,
		db:            db,
		storeToken:    mintToken(t, cfg.JWTSecret, "store"),
		purchaseToken: mintToken(t, cfg.JWTSecret, "purchase"),
		financeToken:  mintToken(t, cfg.JWTSecret, "finance"),
		engine:        r,
	}
}

// seedPurchaseOrder inserts a vendor, inventory items and a PO with one line
// per (material, ordered, price) triple, returning the PO with lines loaded.
func seedPurchaseOrder(t *testing.T, db *gorm.DB, lines ...[3]string) *model.PurchaseOrder {
	t.Helper()

	vendor := &model.Vendor{Name: "Shree Fabrics", Email: "orders@shreefabrics.test", Active: true}
	require.NoError(t, db.Create(vendor).Error)

	po := &model.PurchaseOrder{
		PONumber: "PO-E2E-" + uuid.NewString()[:8],
		VendorID: vendor.ID,
		Status:   "approved",
	}
	require.NoError(t, db.Create(po).Error)

	for _, l := range lines {
		item := &model.InventoryItem{MaterialName: l[0], Unit: "m"}
		require.NoError(t, db.Create(item).Error)
		require.NoError(t, db.Create(&model.PurchaseOrderLine{
			PurchaseOrderID: po.ID,
			MaterialName:    l[0],
			Unit:            "m",
			OrderedQty:      decimal.RequireFromString(l[1]),
			UnitPrice:       decimal.RequireFromString(l[2]),
			InventoryItemID: item.ID,
		}).Error)
	}
	require.NoError(t, db.Preload("Lines").First(po, "id = ?", po.ID).Error)
	return po
}

type receiptResult struct {
	Receipt struct {
		ID                 string `json:"id"`
		GRNNumber          string `json:"grn_number"`
		VerificationStatus string `json:"verification_status"`
	} `json:"receipt"`
	Summary string `json:"summary"`
	Cases   []struct {
		ID            string `json:"id"`
		ComplaintType string `json:"complaint_type"`
		Status        string `json:"status"`
	} `json:"cases"`
}

func submitReceipt(t *testing.T, env *testEnv, po *model.PurchaseOrder, items []map[string]any) receiptResult {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/goods-receipts",
		jsonBody(t, map[string]any{
			"purchase_order_id": po.ID.String(),
			"received_date":     time.Now().Format("2006-01-02"),
			"items_received":    items,
		}), env.storeToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out receiptResult
	decodeJSON(t, resp, &out)
	return out
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_PerfectMatchReceipt(t *testing.T) {
	env := setupTestEnv(t)
	po := seedPurchaseOrder(t, env.db, [3]string{"Cotton Poplin", "100", "2.50"})

	out := submitReceipt(t, env, po, []map[string]any{{
		"purchase_order_line_id": po.Lines[0].ID.String(),
		"invoiced_qty":           "100",
		"received_qty":           "100",
	}})

	assert.Equal(t, "verified", out.Receipt.VerificationStatus)
	assert.Empty(t, out.Cases)

	// Inventory landed.
	var item model.InventoryItem
	require.NoError(t, env.db.First(&item, "id = ?", po.Lines[0].InventoryItemID).Error)
	assert.True(t, item.QuantityOnHand.Equal(decimal.RequireFromString("100")))

	listResp := do(t, env.server, "GET", "/v1/goods-receipts?status=verified", nil, env.purchaseToken)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
}

func TestE2E_ShortageToVendorRequestFulfillment(t *testing.T) {
	env := setupTestEnv(t)
	po := seedPurchaseOrder(t, env.db, [3]string{"Denim 12oz", "50", "5.00"})

	out := submitReceipt(t, env, po, []map[string]any{{
		"purchase_order_line_id": po.Lines[0].ID.String(),
		"invoiced_qty":           "50",
		"received_qty":           "40",
	}})
	require.Equal(t, "discrepancy", out.Receipt.VerificationStatus)
	require.Len(t, out.Cases, 1)
	require.Equal(t, "shortage", out.Cases[0].ComplaintType)

	// Open a vendor request against the case.
	vrResp := do(t, env.server, "POST", "/v1/vendor-requests",
		jsonBody(t, map[string]any{"complaint_id": out.Cases[0].ID}), env.purchaseToken)
	require.Equal(t, http.StatusCreated, vrResp.StatusCode)
	var vr struct {
		ID            string `json:"id"`
		RequestNumber string `json:"request_number"`
		Status        string `json:"status"`
	}
	decodeJSON(t, vrResp, &vr)
	assert.Equal(t, "pending", vr.Status)

	for _, step := range []string{"send", "acknowledge", "in-transit"} {
		stepResp := do(t, env.server, "PATCH", "/v1/vendor-requests/"+vr.ID+"/"+step, jsonBody(t, map[string]any{}), env.purchaseToken)
		require.Equal(t, http.StatusNoContent, stepResp.StatusCode, step)
	}

	// Replacement delivery for the missing 10 units.
	fulfillment := submitReceipt(t, env, po, []map[string]any{{
		"purchase_order_line_id": po.Lines[0].ID.String(),
		"invoiced_qty":           "10",
		"received_qty":           "10",
	}})

	fulfillResp := do(t, env.server, "PATCH", "/v1/vendor-requests/"+vr.ID+"/fulfill",
		jsonBody(t, map[string]any{"fulfillment_grn_id": fulfillment.Receipt.ID}), env.purchaseToken)
	require.Equal(t, http.StatusNoContent, fulfillResp.StatusCode)

	// The covering fulfillment resolved the case.
	caseResp := do(t, env.server, "GET", "/v1/discrepancy-cases/"+out.Cases[0].ID, nil, env.purchaseToken)
	require.Equal(t, http.StatusOK, caseResp.StatusCode)
	var c struct {
		Status     string  `json:"status"`
		ResolvedAt *string `json:"resolved_at"`
	}
	decodeJSON(t, caseResp, &c)
	assert.Equal(t, "approved", c.Status)
	assert.NotNil(t, c.ResolvedAt)

	// Audit trail exists for the request.
	auditResp := do(t, env.server, "GET", "/v1/audit-trail?entity_type=vendor_request&entity_id="+vr.ID, nil, env.purchaseToken)
	require.Equal(t, http.StatusOK, auditResp.StatusCode)
	var trail struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, auditResp, &trail)
	assert.GreaterOrEqual(t, trail.Total, int64(4)) // created + three transitions + fulfillment
}

func TestE2E_CreditNoteSettlementClosesCase(t *testing.T) {
	env := setupTestEnv(t)
	po := seedPurchaseOrder(t, env.db, [3]string{"Silk Lining", "20", "8.00"})

	out := submitReceipt(t, env, po, []map[string]any{{
		"purchase_order_line_id": po.Lines[0].ID.String(),
		"invoiced_qty":           "20",
		"received_qty":           "15",
	}})
	require.Len(t, out.Cases, 1)

	cnResp := do(t, env.server, "POST", "/v1/credit-notes",
		jsonBody(t, map[string]any{
			"complaint_id":      out.Cases[0].ID,
			"credit_note_type":  "partial_credit",
			"settlement_method": "cash_credit",
			"tax_percentage":    "5",
			"items": []map[string]any{{
				"material_name": "Silk Lining",
				"quantity":      "5",
				"unit_price":    "8.00",
			}},
		}), env.financeToken)
	require.Equal(t, http.StatusCreated, cnResp.StatusCode)
	var cn struct {
		ID                string          `json:"id"`
		Status            string          `json:"status"`
		TotalCreditAmount decimal.Decimal `json:"total_credit_amount"`
	}
	decodeJSON(t, cnResp, &cn)
	assert.Equal(t, "draft", cn.Status)
	// 5 × 8.00 = 40.00 + 5% tax = 42.00
	assert.True(t, cn.TotalCreditAmount.Equal(decimal.RequireFromString("42")))

	for _, step := range []string{"issue", "accept", "settle"} {
		stepResp := do(t, env.server, "PATCH", "/v1/credit-notes/"+cn.ID+"/"+step, jsonBody(t, map[string]any{}), env.financeToken)
		require.Equal(t, http.StatusNoContent, stepResp.StatusCode, step)
	}

	for _, status := range []string{"in_progress", "completed"} {
		settleResp := do(t, env.server, "PATCH", "/v1/credit-notes/"+cn.ID+"/settlement",
			jsonBody(t, map[string]any{"settlement_status": status}), env.financeToken)
		require.Equal(t, http.StatusNoContent, settleResp.StatusCode, status)
	}

	caseResp := do(t, env.server, "GET", "/v1/discrepancy-cases/"+out.Cases[0].ID, nil, env.financeToken)
	require.Equal(t, http.StatusOK, caseResp.StatusCode)
	var c struct {
		Status string `json:"status"`
	}
	decodeJSON(t, caseResp, &c)
	assert.Equal(t, "approved", c.Status)
}

func TestE2E_DuplicateGRNNumberConflict(t *testing.T) {
	env := setupTestEnv(t)
	po := seedPurchaseOrder(t, env.db, [3]string{"Rib Knit", "60", "3.00"})

	body := func() *bytes.Buffer {
		return jsonBody(t, map[string]any{
			"purchase_order_id": po.ID.String(),
			"grn_number":        "GRN-E2E-000001",
			"received_date":     time.Now().Format("2006-01-02"),
			"items_received": []map[string]any{{
				"purchase_order_line_id": po.Lines[0].ID.String(),
				"invoiced_qty":           "60",
				"received_qty":           "60",
			}},
		})
	}

	first := do(t, env.server, "POST", "/v1/goods-receipts", body(), env.storeToken)
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second := do(t, env.server, "POST", "/v1/goods-receipts", body(), env.storeToken)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
}

func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)

	// Store staff cannot touch the financial surface.
	resp := do(t, env.server, "POST", "/v1/credit-notes", jsonBody(t, map[string]any{}), env.storeToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// No token at all.
	resp = do(t, env.server, "GET", "/v1/goods-receipts", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Health is public.
	resp = do(t, env.server, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

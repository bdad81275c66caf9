package implementations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyzyva/square-client/internal/shared/logutil"
	"github.com/zyzyva/square-client/internal/squareclient/squareapi"
)

func newTestSquare(t *testing.T, handler http.Handler) (*square, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := &square{
		APIRoot:     server.URL,
		accessToken: "test-token",
		log:         logutil.NewStderrLog("test"),
	}
	return s, server
}

func TestGetSubscription(t *testing.T) {
	s, _ := newTestSquare(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/subscriptions/sq-sub-1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"subscription":{
			"id":"sq-sub-1","status":"ACTIVE",
			"start_date":"2026-01-02","charged_through_date":"2026-02-02"}}`))
	}))

	sub, err := s.GetSubscription(context.Background(), "sq-sub-1")
	require.NoError(t, err)
	assert.Equal(t, "sq-sub-1", sub.ID)
	assert.Equal(t, "ACTIVE", sub.Status)
	assert.Equal(t, "2026-01-02", sub.StartDate)
	assert.Equal(t, "2026-02-02", sub.ChargedThroughDate)
}

func TestGetSubscriptionNotFound(t *testing.T) {
	s, _ := newTestSquare(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"category":"INVALID_REQUEST_ERROR","code":"NOT_FOUND","detail":"no such subscription"}]}`))
	}))

	_, err := s.GetSubscription(context.Background(), "sq-sub-missing")
	require.Error(t, err)
	assert.Equal(t, squareapi.ErrSubscriptionNotFound, errors.Cause(err))
}

func TestRefundPayment(t *testing.T) {
	var gotBody map[string]interface{}
	s, _ := newTestSquare(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/refunds", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"refund":{"id":"ref-1","status":"PENDING"}}`))
	}))

	refund, err := s.RefundPayment(context.Background(), squareapi.RefundPayload{
		PaymentID:      "pay-1",
		AmountCents:    428,
		Currency:       "USD",
		Reason:         "plan downgrade",
		IdempotencyKey: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ref-1", refund.ID)
	assert.Equal(t, "PENDING", refund.Status)

	assert.Equal(t, "pay-1", gotBody["payment_id"])
	assert.Equal(t, "key-1", gotBody["idempotency_key"])
	money := gotBody["amount_money"].(map[string]interface{})
	assert.Equal(t, float64(428), money["amount"])
	assert.Equal(t, "USD", money["currency"])
}

func TestCreateBasePlanAndVariation(t *testing.T) {
	s, _ := newTestSquare(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/catalog/object", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		object := body["object"].(map[string]interface{})

		id := "PLAN_1"
		if object["type"] == "SUBSCRIPTION_PLAN_VARIATION" {
			id = "VAR_1"
			data := object["subscription_plan_variation_data"].(map[string]interface{})
			assert.Equal(t, "PLAN_1", data["subscription_plan_id"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"catalog_object": map[string]interface{}{"id": id},
		})
	}))

	planID, err := s.CreateBasePlan(context.Background(), squareapi.BasePlanPayload{Name: "Premium"})
	require.NoError(t, err)
	assert.Equal(t, "PLAN_1", planID)

	varID, err := s.CreatePlanVariation(context.Background(), squareapi.PlanVariationPayload{
		BasePlanID:  planID,
		Name:        "Monthly",
		AmountCents: 999,
		Currency:    "USD",
		Cadence:     "MONTHLY",
	})
	require.NoError(t, err)
	assert.Equal(t, "VAR_1", varID)
}

package implementations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/zyzyva/square-client/internal/shared/config"
	"github.com/zyzyva/square-client/internal/shared/logutil"
	"github.com/zyzyva/square-client/internal/squareclient/squareapi"
)

const SquareProviderName = "square"

const (
	productionAPIRoot = "https://connect.squareup.com"
	sandboxAPIRoot    = "https://connect.squareupsandbox.com"
)

type square struct {
	APIRoot     string
	accessToken string
	client      http.Client
	log         logutil.Log
}

func NewSquare(log logutil.Log, cfg config.Config) squareapi.Client {
	apiRoot := sandboxAPIRoot
	if config.GetAppEnv(cfg) == config.AppEnvProduction {
		apiRoot = productionAPIRoot
	}

	return &square{
		APIRoot:     apiRoot,
		accessToken: cfg.GetString("SQUARE_ACCESS_TOKEN"),
		client:      http.Client{},
		log:         log,
	}
}

func (s *square) Name() string {
	return SquareProviderName
}

func (s *square) SetBaseURL(u string) error {
	_, err := url.Parse(u)
	if err != nil {
		return errors.Wrap(err, "failed to parse url")
	}

	s.APIRoot = u
	return nil
}

type squareError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

func (s *square) do(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to encode request body for %s", path)
		}
		bodyReader = bytes.NewReader(encoded)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.APIRoot+path, bodyReader)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create request for %s", path)
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req.WithContext(ctx))
	if err != nil {
		return 0, errors.Wrapf(err, "failed to execute request for %s", path)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, errors.Wrapf(err, "failed to decode response for %s", path)
	}

	return resp.StatusCode, nil
}

func firstError(squareErrors []squareError, path string) error {
	if len(squareErrors) == 0 {
		return nil
	}

	e := squareErrors[0]
	err := fmt.Errorf("%s/%s: %s", e.Category, e.Code, e.Detail)
	return errors.Wrapf(err, "request to %s failed", path)
}

func (s *square) GetSubscription(ctx context.Context, subID string) (*squareapi.Subscription, error) {
	path := fmt.Sprintf("/v2/subscriptions/%s", subID)

	var temp struct {
		Subscription struct {
			ID                 string `json:"id"`
			Status             string `json:"status"`
			StartDate          string `json:"start_date"`
			CanceledDate       string `json:"canceled_date"`
			ChargedThroughDate string `json:"charged_through_date"`
		} `json:"subscription"`
		Errors []squareError `json:"errors,omitempty"`
	}
	code, err := s.do(ctx, "GET", path, nil, &temp)
	if err != nil {
		return nil, err
	}

	if code == http.StatusNotFound {
		return nil, squareapi.ErrSubscriptionNotFound
	}
	if err := firstError(temp.Errors, path); err != nil {
		return nil, err
	}

	return &squareapi.Subscription{
		ID:                 temp.Subscription.ID,
		Status:             temp.Subscription.Status,
		StartDate:          temp.Subscription.StartDate,
		CanceledDate:       temp.Subscription.CanceledDate,
		ChargedThroughDate: temp.Subscription.ChargedThroughDate,
	}, nil
}

func (s *square) RefundPayment(ctx context.Context, payload squareapi.RefundPayload) (*squareapi.Refund, error) {
	const path = "/v2/refunds"

	idempotencyKey := payload.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewV4().String()
	}

	body := map[string]interface{}{
		"idempotency_key": idempotencyKey,
		"payment_id":      payload.PaymentID,
		"reason":          payload.Reason,
		"amount_money": map[string]interface{}{
			"amount":   payload.AmountCents,
			"currency": payload.Currency,
		},
	}

	var temp struct {
		Refund struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"refund"`
		Errors []squareError `json:"errors,omitempty"`
	}
	if _, err := s.do(ctx, "POST", path, body, &temp); err != nil {
		return nil, err
	}
	if err := firstError(temp.Errors, path); err != nil {
		return nil, err
	}

	return &squareapi.Refund{ID: temp.Refund.ID, Status: temp.Refund.Status}, nil
}

func (s *square) upsertCatalogObject(ctx context.Context, object map[string]interface{}) (string, error) {
	const path = "/v2/catalog/object"

	body := map[string]interface{}{
		"idempotency_key": uuid.NewV4().String(),
		"object":          object,
	}

	var temp struct {
		CatalogObject struct {
			ID string `json:"id"`
		} `json:"catalog_object"`
		Errors []squareError `json:"errors,omitempty"`
	}
	if _, err := s.do(ctx, "POST", path, body, &temp); err != nil {
		return "", err
	}
	if err := firstError(temp.Errors, path); err != nil {
		return "", err
	}

	return temp.CatalogObject.ID, nil
}

func (s *square) CreateBasePlan(ctx context.Context, payload squareapi.BasePlanPayload) (string, error) {
	return s.upsertCatalogObject(ctx, map[string]interface{}{
		"type": "SUBSCRIPTION_PLAN",
		"id":   "#plan",
		"subscription_plan_data": map[string]interface{}{
			"name": payload.Name,
		},
	})
}

func (s *square) CreatePlanVariation(ctx context.Context, payload squareapi.PlanVariationPayload) (string, error) {
	return s.upsertCatalogObject(ctx, map[string]interface{}{
		"type": "SUBSCRIPTION_PLAN_VARIATION",
		"id":   "#variation",
		"subscription_plan_variation_data": map[string]interface{}{
			"name":                 payload.Name,
			"subscription_plan_id": payload.BasePlanID,
			"phases": []map[string]interface{}{
				{
					"cadence": payload.Cadence,
					"pricing": map[string]interface{}{
						"type": "STATIC",
						"price_money": map[string]interface{}{
							"amount":   payload.AmountCents,
							"currency": payload.Currency,
						},
					},
				},
			},
		},
	})
}

package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zyzyva/square-client/internal/shared/config"
	"github.com/zyzyva/square-client/internal/shared/logutil"
	"github.com/zyzyva/square-client/pkg/billing/models"
)

const maxBodySize = 256 * 1024

type SubscriptionSyncer interface {
	SyncFromRemote(ctx context.Context, sub *models.Subscription) (*models.Subscription, error)
}

type SubscriptionFinder interface {
	BySquareID(squareSubID string) (*models.Subscription, error)
}

// Handler receives Square webhook notifications and triggers a sync of the
// affected local subscription record.
type Handler struct {
	log    logutil.Log
	cfg    config.Config
	syncer SubscriptionSyncer
	subs   SubscriptionFinder
}

func NewHandler(log logutil.Log, cfg config.Config, syncer SubscriptionSyncer, subs SubscriptionFinder) *Handler {
	return &Handler{
		log:    log,
		cfg:    cfg,
		syncer: syncer,
		subs:   subs,
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/v1/webhooks/square", h.handleEvent).Methods(http.MethodPost)
}

// checkSignature verifies Square's HMAC-SHA256 webhook signature: base64 of
// HMAC(signature key, notification URL + raw body).
func (h *Handler) checkSignature(r *http.Request, body []byte) bool {
	key := h.cfg.GetString("SQUARE_WEBHOOK_SIGNATURE_KEY")
	if key == "" {
		h.log.Errorf("No webhook signature key in config, rejecting event")
		return false
	}

	notificationURL := h.cfg.GetString("SQUARE_WEBHOOK_NOTIFICATION_URL")
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(notificationURL))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	got := r.Header.Get("X-Square-Hmacsha256-Signature")
	return hmac.Equal([]byte(expected), []byte(got))
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if !h.checkSignature(r, body) {
		h.log.Warnf("Invalid webhook signature from %s", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				Subscription struct {
					ID string `json:"id"`
				} `json:"subscription"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "malformed event", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "subscription.created", "subscription.updated":
	default:
		// Not a subscription event, nothing for us to reconcile.
		w.WriteHeader(http.StatusOK)
		return
	}

	subID := event.Data.Object.Subscription.ID
	sub, err := h.subs.BySquareID(subID)
	if err != nil {
		h.log.Errorf("Failed to look up subscription for webhook %s: %s", subID, err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	if sub == nil {
		// Unknown id isn't transient; 200 so Square doesn't keep retrying.
		h.log.Infof("No local subscription for square id %s, ignoring event", subID)
		w.WriteHeader(http.StatusOK)
		return
	}

	if _, err := h.syncer.SyncFromRemote(r.Context(), sub); err != nil {
		h.log.Errorf("Failed to sync subscription %d from webhook: %s", sub.ID, err)
		http.Error(w, "sync failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fitFlowAPI/internal/user"
	"fitFlowAPI/services"

	log "github.com/sirupsen/logrus"
)

const webhookTolerance = 5 * time.Minute

var errBadSignature = errors.New("invalid webhook signature")

type WebhookHandler struct {
	userService *services.UserService
	secret      string
	now         func() time.Time
}

// NewWebhookHandler verifies Clerk (svix) signatures with secret. An empty
// secret skips verification, which is only meant for local development.
func NewWebhookHandler(userService *services.UserService, secret string) *WebhookHandler {
	return &WebhookHandler{
		userService: userService,
		secret:      secret,
		now:         time.Now,
	}
}

func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Errorf("Webhook: error reading body: %v", err)
		http.Error(w, "Error reading body", http.StatusBadRequest)
		return
	}

	if err := h.verifySignature(r.Header, body); err != nil {
		log.Warnf("Webhook: %v", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event clerkWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Errorf("Webhook: error parsing event: %v", err)
		http.Error(w, "Error parsing webhook", http.StatusBadRequest)
		return
	}

	log.Infof("Webhook: received %s", event.Type)

	switch event.Type {
	case "user.created":
		err = h.handleUserCreated(ctx, event.Data)
	case "user.updated":
		err = h.handleUserUpdated(ctx, event.Data)
	default:
		log.Debugf("Webhook: unhandled event type %s", event.Type)
	}
	if err != nil {
		log.Errorf("Webhook: error handling %s: %v", event.Type, err)
		http.Error(w, "Error processing webhook", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *WebhookHandler) handleUserCreated(ctx context.Context, data json.RawMessage) error {
	var userData clerkUserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return fmt.Errorf("failed to unmarshal user data: %w", err)
	}
	if userData.ID == "" {
		return errors.New("user.created without id")
	}
	return h.userService.CreateUser(ctx, userData.ID, userData.createRequest())
}

func (h *WebhookHandler) handleUserUpdated(ctx context.Context, data json.RawMessage) error {
	var userData clerkUserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return fmt.Errorf("failed to unmarshal user data: %w", err)
	}

	req := userData.createRequest()
	if _, err := h.userService.UpdateProfile(ctx, userData.ID, user.UpdateProfileRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
	}); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return h.userService.UpdateEmailVerification(ctx, userData.ID, req.EmailVerified)
}

// verifySignature checks the svix headers: v1 signatures are base64
// HMAC-SHA256 of "id.timestamp.body" keyed with the decoded whsec_ secret.
func (h *WebhookHandler) verifySignature(header http.Header, body []byte) error {
	if h.secret == "" {
		log.Warn("Webhook: CLERK_WEBHOOK_SECRET not set, skipping signature verification")
		return nil
	}

	svixID := header.Get("svix-id")
	svixTimestamp := header.Get("svix-timestamp")
	svixSignature := header.Get("svix-signature")
	if svixID == "" || svixTimestamp == "" || svixSignature == "" {
		return fmt.Errorf("%w: missing headers", errBadSignature)
	}

	ts, err := strconv.ParseInt(svixTimestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", errBadSignature)
	}
	if skew := h.now().Sub(time.Unix(ts, 0)); math.Abs(float64(skew)) > float64(webhookTolerance) {
		return fmt.Errorf("%w: timestamp outside tolerance", errBadSignature)
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(h.secret, "whsec_"))
	if err != nil {
		return fmt.Errorf("decode webhook secret: %w", err)
	}
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", svixID, svixTimestamp)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, sig := range strings.Fields(svixSignature) {
		version, value, ok := strings.Cut(sig, ",")
		if ok && version == "v1" && hmac.Equal([]byte(value), []byte(expected)) {
			return nil
		}
	}
	return errBadSignature
}

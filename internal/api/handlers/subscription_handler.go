package handlers

import (
	"net/http"

	middleware "github.com/notpasha/astro/internal/api/middlewares"
	"github.com/notpasha/astro/internal/models"
	"github.com/notpasha/astro/internal/services"
	"github.com/notpasha/astro/internal/subscription"
)

type SubscriptionHandler struct {
	users *services.UserService
}

func NewSubscriptionHandler(users *services.UserService) *SubscriptionHandler {
	return &SubscriptionHandler{users: users}
}

type subscribeRequest struct {
	Tier          models.SubscriptionTier `json:"tier"`
	PaymentMethod string                  `json:"payment_method"`
	Duration      int                     `json:"duration"`
}

// Plans lists the subscription catalog. Public: it reads no user state.
func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, subscription.Plans())
}

// Subscribe applies a tier purchase to the authenticated, verified user.
// Payment processing is mocked; a real integration would settle before the
// tier change is applied.
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req subscribeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Tier.Valid() {
		writeDetail(w, http.StatusBadRequest, "Unknown subscription tier")
		return
	}
	if req.Tier == models.TierFree {
		writeJSON(w, http.StatusOK, map[string]string{"message": "You are already on the free plan"})
		return
	}
	if req.Duration < 1 {
		req.Duration = 1
	}

	if _, err := h.users.ApplySubscription(r.Context(), user.ID, req.Tier, req.Duration); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":        "Successfully subscribed to " + string(req.Tier) + " plan",
		"payment_method": req.PaymentMethod,
	})
}

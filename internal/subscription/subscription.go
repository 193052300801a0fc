// Package subscription holds the tier/expiry state machine and the plan
// catalog. Tiers are ordered for display only; a user may move to any tier
// directly.
package subscription

import (
	"time"

	"github.com/notpasha/astro/internal/models"
)

// DaysPerMonth is the billing month used for expiry accounting.
const DaysPerMonth = 30

// Plan describes a purchasable subscription level.
type Plan struct {
	Tier           models.SubscriptionTier `json:"tier"`
	Name           string                  `json:"name"`
	Price          float64                 `json:"price"`
	DurationMonths int                     `json:"duration"`
	Features       []string                `json:"features"`
}

var plans = []Plan{
	{
		Tier:           models.TierFree,
		Name:           "Free Plan",
		Price:          0.0,
		DurationMonths: 0,
		Features: []string{
			"10 chats per month",
			"Basic astrological insights",
			"Text-based readings",
		},
	},
	{
		Tier:           models.TierBasic,
		Name:           "Basic Plan",
		Price:          9.99,
		DurationMonths: 1,
		Features: []string{
			"Unlimited chats",
			"Detailed astrological insights",
			"Save and export readings",
			"Email support",
		},
	},
	{
		Tier:           models.TierPremium,
		Name:           "Premium Plan",
		Price:          19.99,
		DurationMonths: 1,
		Features: []string{
			"All Basic Plan features",
			"Advanced astrological charts",
			"Personalized monthly forecasts",
			"Birth chart analysis",
			"Priority support",
		},
	},
	{
		Tier:           models.TierProfessional,
		Name:           "Professional Plan",
		Price:          49.99,
		DurationMonths: 1,
		Features: []string{
			"All Premium Plan features",
			"Comprehensive compatibility reports",
			"Career and finance forecasts",
			"Personalized life path guidance",
			"24/7 priority support",
		},
	},
}

// Plans returns the catalog, cheapest first.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// NextExpiry computes the expiry after purchasing months of a paid tier.
// A still-future expiry is extended from its current value (stacking), so a
// renewal before expiry is never wasted; otherwise the clock starts at now.
func NextExpiry(current *time.Time, months int, now time.Time) time.Time {
	days := DaysPerMonth * months
	if current != nil && current.After(now) {
		return current.AddDate(0, 0, days)
	}
	return now.AddDate(0, 0, days)
}

// CanCreateChat reports whether a user on the given tier with existing chats
// may create another. Paid tiers are uncapped. The caller must evaluate this
// inside the same transaction as the chat insert.
func CanCreateChat(tier models.SubscriptionTier, existing, freeChatLimit int) bool {
	if tier != models.TierFree {
		return true
	}
	return existing < freeChatLimit
}

package availability

import (
	"fmt"
	"strings"
)

// Channel is a single streaming service or storefront.
type Channel struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IconRef string `json:"icon,omitempty"`
}

// Tier is an access mode for watching an item.
type Tier string

const (
	TierSubscription Tier = "subscription"
	TierRental       Tier = "rental"
	TierPurchase     Tier = "purchase"
)

// AllTiers lists the tiers in display order.
var AllTiers = []Tier{TierSubscription, TierRental, TierPurchase}

// ParseTier accepts both the canonical names and TMDB's flatrate/rent/buy.
func ParseTier(value string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "subscription", "flatrate", "stream":
		return TierSubscription, nil
	case "rental", "rent":
		return TierRental, nil
	case "purchase", "buy":
		return TierPurchase, nil
	default:
		return "", fmt.Errorf("%w: unknown tier %q", ErrInvalidCriterion, value)
	}
}

func (t Tier) valid() bool {
	return t == TierSubscription || t == TierRental || t == TierPurchase
}

// TierSet records, per tier, the channels an item is available on. Order
// within a tier is the source ranking; the first entry is the best single
// choice for display.
type TierSet struct {
	Subscription []Channel `json:"subscription"`
	Rental       []Channel `json:"rental"`
	Purchase     []Channel `json:"purchase"`
}

// Channels returns the list for tier, or nil for an unknown tier.
func (ts TierSet) Channels(tier Tier) []Channel {
	switch tier {
	case TierSubscription:
		return ts.Subscription
	case TierRental:
		return ts.Rental
	case TierPurchase:
		return ts.Purchase
	default:
		return nil
	}
}

// Best returns the top-ranked channel for tier.
func (ts TierSet) Best(tier Tier) (Channel, bool) {
	channels := ts.Channels(tier)
	if len(channels) == 0 {
		return Channel{}, false
	}
	return channels[0], true
}

// Has reports whether channelID appears in any of tiers. With no tiers every
// tier is searched.
func (ts TierSet) Has(channelID int64, tiers ...Tier) bool {
	if len(tiers) == 0 {
		tiers = AllTiers
	}
	for _, tier := range tiers {
		for _, ch := range ts.Channels(tier) {
			if ch.ID == channelID {
				return true
			}
		}
	}
	return false
}

// Empty reports whether no tier lists any channel.
func (ts TierSet) Empty() bool {
	return len(ts.Subscription) == 0 && len(ts.Rental) == 0 && len(ts.Purchase) == 0
}

// Clone returns a deep copy so cached values cannot be mutated through a
// caller's slice.
func (ts TierSet) Clone() TierSet {
	return TierSet{
		Subscription: cloneChannels(ts.Subscription),
		Rental:       cloneChannels(ts.Rental),
		Purchase:     cloneChannels(ts.Purchase),
	}
}

func cloneChannels(in []Channel) []Channel {
	if in == nil {
		return nil
	}
	out := make([]Channel, len(in))
	copy(out, in)
	return out
}

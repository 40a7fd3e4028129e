package availability

import (
	"fmt"
	"strconv"
	"strings"
)

// CriterionKind tags the Criterion variant.
type CriterionKind int

const (
	// CriterionNone passes every item through untouched.
	CriterionNone CriterionKind = iota
	// CriterionChannel keeps items offered on a specific channel.
	CriterionChannel
)

// Criterion selects which items a filter keeps. The zero value is None.
type Criterion struct {
	Kind      CriterionKind
	ChannelID int64
	// Tiers narrows a channel criterion. Empty means every tier, OR'd.
	Tiers []Tier
}

// None returns the passthrough criterion.
func None() Criterion { return Criterion{Kind: CriterionNone} }

// AnyChannel matches items offered on channelID under any tier.
func AnyChannel(channelID int64) Criterion {
	return Criterion{Kind: CriterionChannel, ChannelID: channelID}
}

// ChannelInTiers matches items offered on channelID under one of tiers.
func ChannelInTiers(channelID int64, tiers ...Tier) Criterion {
	c := AnyChannel(channelID)
	if len(tiers) > 0 {
		c.Tiers = append([]Tier(nil), tiers...)
	}
	return c
}

// IsNone reports whether c is the passthrough criterion.
func (c Criterion) IsNone() bool { return c.Kind == CriterionNone }

// Validate fails fast on malformed criteria.
func (c Criterion) Validate() error {
	switch c.Kind {
	case CriterionNone:
		return nil
	case CriterionChannel:
		if c.ChannelID <= 0 {
			return fmt.Errorf("%w: channel id must be positive, got %d", ErrInvalidCriterion, c.ChannelID)
		}
		for _, tier := range c.Tiers {
			if !tier.valid() {
				return fmt.Errorf("%w: unknown tier %q", ErrInvalidCriterion, string(tier))
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown variant %d", ErrInvalidCriterion, int(c.Kind))
	}
}

func (c Criterion) String() string {
	switch c.Kind {
	case CriterionNone:
		return "none"
	case CriterionChannel:
		var b strings.Builder
		b.WriteString("channel:")
		b.WriteString(strconv.FormatInt(c.ChannelID, 10))
		if len(c.Tiers) > 0 {
			names := make([]string, len(c.Tiers))
			for i, tier := range c.Tiers {
				names[i] = string(tier)
			}
			b.WriteString("[")
			b.WriteString(strings.Join(names, ","))
			b.WriteString("]")
		}
		return b.String()
	default:
		return "invalid"
	}
}

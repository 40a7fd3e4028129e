package availability

// Matches decides whether an item with tierSet passes c. It performs no I/O
// and applies no ranking. Callers must validate c first; an invalid
// criterion never matches.
func Matches(tierSet TierSet, c Criterion) bool {
	switch c.Kind {
	case CriterionNone:
		return true
	case CriterionChannel:
		if c.ChannelID <= 0 {
			return false
		}
		return tierSet.Has(c.ChannelID, c.Tiers...)
	default:
		return false
	}
}

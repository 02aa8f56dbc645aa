package game

// RatingTier orders reaction speed from fastest to slowest.
type RatingTier int

const (
	RatingAmazing RatingTier = iota
	RatingVeryGood
	RatingAverage
	RatingBelowAverage
)

// Tier boundaries in milliseconds. Strict less-than: a reaction of exactly
// 200ms is VeryGood, not Amazing.
const (
	amazingBelowMs  = 200
	veryGoodBelowMs = 250
	averageBelowMs  = 350
)

func (r RatingTier) String() string {
	switch r {
	case RatingAmazing:
		return "Amazing"
	case RatingVeryGood:
		return "Very Good"
	case RatingAverage:
		return "Average"
	case RatingBelowAverage:
		return "Below Average"
	default:
		return "Unknown"
	}
}

// Classify maps a reaction time in whole milliseconds to its rating tier.
func Classify(reactionMs int) RatingTier {
	switch {
	case reactionMs < amazingBelowMs:
		return RatingAmazing
	case reactionMs < veryGoodBelowMs:
		return RatingVeryGood
	case reactionMs < averageBelowMs:
		return RatingAverage
	default:
		return RatingBelowAverage
	}
}

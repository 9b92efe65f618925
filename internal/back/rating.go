package back

import "math"

// Parameters of the modified Elo system. Ratings are stored on an internal
// 100-1000 scale and shown to users as 1.0-10.0.
const (
	kFactorStandard    = 32.0
	kFactorProvisional = 64.0

	// provisionalLimit is the number of matches below which a player is
	// still calibrating and moves at the provisional K-factor.
	provisionalLimit = 5

	// RatingFloor is the lowest rating a player can ever fall to.
	RatingFloor = 100.0

	// RatingScale converts between display ratings and stored ratings.
	RatingScale = 100.0
)

// expectedScore returns the win probability of a team rated a against a team
// rated b on the classic Elo logistic curve.
// expectedScore(a, b) + expectedScore(b, a) is always 1.
func expectedScore(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (b-a)/400.0))
}

// kFactor returns the per-player learning rate. It depends on the player's
// own experience, not the team's, so a newcomer paired with a veteran still
// calibrates quickly while the veteran barely moves.
func kFactor(matchesPlayed int) float64 {
	if matchesPlayed < provisionalLimit {
		return kFactorProvisional
	}

	return kFactorStandard
}

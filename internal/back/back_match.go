package back

import (
	"bandeja/internal/util"
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidScore    = util.ErrPublic("total points cannot be zero")
	ErrDuplicatePlayer = util.ErrPublic("a match requires four distinct players")
	ErrPlayerNotFound  = util.ErrPublic("unknown player")
)

// MatchOutcome is what a successful ProcessMatch call hands back to the
// caller, the recorded match ID, the four updated players in submission
// order, and the reference team deltas as stored on the Match row (see the
// Match doc for why those are a reference and not a per-player guarantee).
type MatchOutcome struct {
	MatchID util.UUIDAsBlob
	Players [4]Player

	RatingChangeTeam1 float64
	RatingChangeTeam2 float64
}

// ProcessMatch records a 2v2 match result and moves the four ratings.
//
//  1. Read the four players in one consistent snapshot.
//  2. Average each pair's ratings into a team rating.
//  3. Expected outcome for team 1 on the Elo curve, team 2 is its
//     complement.
//  4. Actual outcome is the score share, a margin-of-victory signal rather
//     than a binary win/loss.
//  5. Per-player delta scaled by that player's own K-factor, clamped to
//     RatingFloor, and MatchesPlayed incremented.
//  6. Persist the four players and the Match row in a single transaction.
//
// Any validation or storage error aborts before the commit and leaves the
// league untouched.
func (b *Back) ProcessMatch(
	p1, p2, p3, p4 util.UUIDAsBlob,
	scoreTeam1, scoreTeam2 int,
) (MatchOutcome, error) {
	ids := [4]util.UUIDAsBlob{p1, p2, p3, p4}

	if scoreTeam1 < 0 || scoreTeam2 < 0 || scoreTeam1+scoreTeam2 <= 0 {
		return MatchOutcome{}, ErrInvalidScore
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[i] == ids[j] {
				return MatchOutcome{}, ErrDuplicatePlayer
			}
		}
	}

	var out MatchOutcome
	if err := b.transaction(func(tx *sqlx.Tx) error {
		players, err := getMatchPlayers(tx, ids)
		if err != nil {
			return err
		}

		teamRating1 := (players[0].Rating + players[1].Rating) / 2.0
		teamRating2 := (players[2].Rating + players[3].Rating) / 2.0

		expectedTeam1 := expectedScore(teamRating1, teamRating2)
		actualTeam1 := float64(scoreTeam1) / float64(scoreTeam1+scoreTeam2)

		// Team 2 values are always derived as complements so the two teams'
		// raw surprisals negate each other exactly.
		referenceRating := players[0].Rating
		for i := range players {
			actual, expected := actualTeam1, expectedTeam1
			if i >= 2 {
				actual, expected = 1.0-actualTeam1, 1.0-expectedTeam1
			}

			delta := kFactor(players[i].MatchesPlayed) * (actual - expected)
			players[i].Rating = math.Max(RatingFloor, players[i].Rating+delta)
			players[i].MatchesPlayed++

			if err := players[i].update(tx); err != nil {
				return fmt.Errorf("unable to update player %s: %w", players[i].ID, err)
			}
		}

		match := NewMatch(ids, scoreTeam1, scoreTeam2, players[0].Rating-referenceRating)
		if err := match.insert(tx); err != nil {
			return fmt.Errorf("unable to insert match: %w", err)
		}

		out = MatchOutcome{
			MatchID:           match.ID,
			Players:           players,
			RatingChangeTeam1: match.RatingChangeTeam1,
			RatingChangeTeam2: match.RatingChangeTeam2,
		}

		return nil
	}); err != nil {
		return MatchOutcome{}, err
	}

	return out, nil
}

// getMatchPlayers reads the four participants inside the current
// transaction. Rows are fetched in ascending ID order so concurrent matches
// sharing players always acquire their locks in the same order, the returned
// array is in submission order.
func getMatchPlayers(tx *sqlx.Tx, ids [4]util.UUIDAsBlob) ([4]Player, error) {
	ordered := append([]util.UUIDAsBlob(nil), ids[:]...)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := [16]byte(ordered[i]), [16]byte(ordered[j])
		return bytes.Compare(a[:], b[:]) < 0
	})

	byID := make(map[util.UUIDAsBlob]Player, len(ordered))
	for _, id := range ordered {
		player, err := getPlayerByID(tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return [4]Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
			}

			return [4]Player{}, err
		}

		byID[id] = player
	}

	var ret [4]Player
	for i, id := range ids {
		ret[i] = byID[id]
	}

	return ret, nil
}

package back

// This file contains functions specific to the web frontend.
// Please do not call them outside of the webserver.

import (
	"bandeja/internal/util"

	"github.com/jmoiron/sqlx"
)

type LeaderboardEntry struct {
	Rank          int `db:"-"`
	PlayerName    string
	DisplayRating float64 `db:"-"`
	MatchesPlayed int

	Rating float64 `json:"-"`
}

// GetLeaderboard returns every player sorted by rating, best first, with
// ranks assigned in order and ratings converted back to the display scale.
func (b *Back) GetLeaderboard() (out []LeaderboardEntry, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) error {
		return tx.Select(&out, `
            SELECT
                Player.Name AS PlayerName,
                Player.Rating AS Rating,
                Player.MatchesPlayed AS MatchesPlayed
            FROM Player
            ORDER BY Player.Rating DESC, Player.Name ASC`,
		)
	}); err != nil {
		return nil, err
	}

	for k := range out {
		out[k].Rank = k + 1
		out[k].DisplayRating = out[k].Rating / RatingScale
	}

	return out, nil
}

type MatchHistoryEntry struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp

	P1Name string
	P2Name string
	P3Name string
	P4Name string

	ScoreTeam1 int
	ScoreTeam2 int

	DisplayRatingChangeTeam1 float64 `db:"-"`

	RatingChangeTeam1 float64 `json:"-"`
}

// GetMatchHistory returns the match log in reverse chronological order with
// player names resolved and the recorded team 1 delta converted to the
// display scale.
func (b *Back) GetMatchHistory() (out []MatchHistoryEntry, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) error {
		return tx.Select(&out, `
            SELECT
                Match.ID AS ID,
                Match.CreatedAt AS CreatedAt,
                p1.Name AS P1Name,
                p2.Name AS P2Name,
                p3.Name AS P3Name,
                p4.Name AS P4Name,
                Match.ScoreTeam1 AS ScoreTeam1,
                Match.ScoreTeam2 AS ScoreTeam2,
                Match.RatingChangeTeam1 AS RatingChangeTeam1
            FROM Match
            INNER JOIN Player p1 ON(Match.P1ID = p1.ID)
            INNER JOIN Player p2 ON(Match.P2ID = p2.ID)
            INNER JOIN Player p3 ON(Match.P3ID = p3.ID)
            INNER JOIN Player p4 ON(Match.P4ID = p4.ID)
            ORDER BY Match.CreatedAt DESC`,
		)
	}); err != nil {
		return nil, err
	}

	for k := range out {
		out[k].DisplayRatingChangeTeam1 = out[k].RatingChangeTeam1 / RatingScale
	}

	return out, nil
}

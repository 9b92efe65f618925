package back

import (
	"bandeja/internal/util"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// A Match is the recorded result of one 2v2 game: team 1 is players 1 and 2,
// team 2 is players 3 and 4. Matches are an append-only audit log, they are
// never updated nor deleted once inserted.
//
// RatingChangeTeam1 stores the clamped delta applied to the first team 1
// player as a reference value for the whole team (and its negation for team
// 2). Individual deltas can differ from it when K-factors differ or the
// floor kicks in, this is a known imprecision of the historical record, not
// of the ratings themselves.
type Match struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp

	P1ID util.UUIDAsBlob
	P2ID util.UUIDAsBlob
	P3ID util.UUIDAsBlob
	P4ID util.UUIDAsBlob

	ScoreTeam1 int
	ScoreTeam2 int

	RatingChangeTeam1 float64
	RatingChangeTeam2 float64
}

func NewMatch(ids [4]util.UUIDAsBlob, scoreTeam1, scoreTeam2 int, ratingChangeTeam1 float64) Match {
	return Match{
		ID:        util.NewUUIDAsBlob(),
		CreatedAt: util.TimeAsTimestamp(time.Now()),

		P1ID: ids[0],
		P2ID: ids[1],
		P3ID: ids[2],
		P4ID: ids[3],

		ScoreTeam1: scoreTeam1,
		ScoreTeam2: scoreTeam2,

		RatingChangeTeam1: ratingChangeTeam1,
		RatingChangeTeam2: -ratingChangeTeam1,
	}
}

func (m *Match) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Match").SetMap(squirrel.Eq{
		"ID":        m.ID,
		"CreatedAt": m.CreatedAt,

		"P1ID": m.P1ID,
		"P2ID": m.P2ID,
		"P3ID": m.P3ID,
		"P4ID": m.P4ID,

		"ScoreTeam1": m.ScoreTeam1,
		"ScoreTeam2": m.ScoreTeam2,

		"RatingChangeTeam1": m.RatingChangeTeam1,
		"RatingChangeTeam2": m.RatingChangeTeam2,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getMatchCount(tx *sqlx.Tx) (int, error) {
	var ret int
	if err := tx.Get(&ret, `SELECT COUNT(*) FROM Match`); err != nil {
		return 0, err
	}

	return ret, nil
}

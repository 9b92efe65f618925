package back

import (
	"bandeja/internal/util"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var ErrNameTaken = util.ErrPublic("this player name is taken already")

// A Player is a league member with a rating that moves after every match
// they take part in.
type Player struct {
	ID            util.UUIDAsBlob
	CreatedAt     util.TimeAsTimestamp
	Name          string
	Rating        float64
	MatchesPlayed int
}

// NewPlayer creates a player from a self-assessed display rating
// (1.0 = beginner, 10.0 = pro).
// The stored rating is intentionally not clamped to RatingFloor, the floor
// only applies when a match moves a rating down.
func NewPlayer(name string, displayRating float64) Player {
	return Player{
		ID:        util.NewUUIDAsBlob(),
		CreatedAt: util.TimeAsTimestamp(time.Now()),
		Name:      name,
		Rating:    displayRating * RatingScale,
	}
}

// DisplayRating converts the stored rating back to the 1.0-10.0 user scale.
func (p *Player) DisplayRating() float64 {
	return p.Rating / RatingScale
}

func (p *Player) IsProvisional() bool {
	return p.MatchesPlayed < provisionalLimit
}

func (p *Player) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Player").SetMap(squirrel.Eq{
		"ID":            p.ID,
		"CreatedAt":     p.CreatedAt,
		"Name":          p.Name,
		"Rating":        p.Rating,
		"MatchesPlayed": p.MatchesPlayed,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// update persists the mutable part of a Player, a rating and its experience
// counter. Name changes are not a thing.
func (p *Player) update(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Player").SetMap(squirrel.Eq{
		"Rating":        p.Rating,
		"MatchesPlayed": p.MatchesPlayed,
	}).Where("Player.ID = ?", p.ID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getPlayerByID(tx *sqlx.Tx, id util.UUIDAsBlob) (Player, error) {
	var ret Player
	query := `SELECT * FROM Player WHERE Player.ID = ? LIMIT 1`
	if err := tx.Get(&ret, query, id); err != nil {
		return Player{}, err
	}

	return ret, nil
}

func getPlayerByName(tx *sqlx.Tx, name string) (Player, error) {
	var ret Player
	query := `SELECT * FROM Player WHERE Player.Name = ? LIMIT 1`
	if err := tx.Get(&ret, query, name); err != nil {
		return Player{}, err
	}

	return ret, nil
}

// RegisterPlayer creates a new player with a self-assessed level on the
// 1.0-10.0 display scale.
func (b *Back) RegisterPlayer(name string, displayRating float64) (player Player, _ error) {
	if name == "" {
		return Player{}, util.ErrPublic("please give the player a name")
	}

	if displayRating < 1.0 || displayRating > 10.0 {
		return Player{}, util.ErrPublic(fmt.Sprintf(
			"a self-assessed level must be between 1.0 and 10.0, got %.1f",
			displayRating,
		))
	}

	if err := b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getPlayerByName(tx, name); err == nil {
			return ErrNameTaken
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		player = NewPlayer(name, displayRating)
		return player.insert(tx)
	}); err != nil {
		return Player{}, err
	}

	return player, nil
}

// GetPlayers returns every registered player ordered by name, for pickers.
func (b *Back) GetPlayers() (ret []Player, _ error) {
	return ret, b.transaction(func(tx *sqlx.Tx) error {
		return tx.Select(&ret, `SELECT * FROM Player ORDER BY Player.Name ASC`)
	})
}

package back // nolint:testpackage

import (
	"errors"
	"io/ioutil"
	"math"
	"os"
	"testing"

	"bandeja/internal/util"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

func TestProcessMatchBlowout(t *testing.T) {
	back := createTestBack(t)
	ids := registerTestPlayers(t, back, [4]float64{5.0, 5.0, 5.0, 5.0})

	outcome, err := back.ProcessMatch(ids[0], ids[1], ids[2], ids[3], 10, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Equal teams, maximum margin, everyone provisional: ±64 × (1.0 - 0.5).
	if math.Abs(outcome.RatingChangeTeam1-32.0) > ratingEpsilon {
		t.Errorf("expected a +32 reference delta for team 1, got %f", outcome.RatingChangeTeam1)
	}
	if math.Abs(outcome.RatingChangeTeam2+32.0) > ratingEpsilon {
		t.Errorf("expected a -32 reference delta for team 2, got %f", outcome.RatingChangeTeam2)
	}

	for i, expected := range []float64{532, 532, 468, 468} {
		player := getTestPlayer(t, back, ids[i])
		if math.Abs(player.Rating-expected) > ratingEpsilon {
			t.Errorf("player #%d: expected rating %.0f, got %f", i, expected, player.Rating)
		}
		if player.MatchesPlayed != 1 {
			t.Errorf("player #%d: expected 1 match played, got %d", i, player.MatchesPlayed)
		}
	}

	history, err := back.GetMatchHistory()
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 match in history, got %d", len(history))
	}
	if history[0].ScoreTeam1 != 10 || history[0].ScoreTeam2 != 0 {
		t.Errorf("unexpected recorded score: %d-%d", history[0].ScoreTeam1, history[0].ScoreTeam2)
	}
	if math.Abs(history[0].RatingChangeTeam1-32.0) > ratingEpsilon {
		t.Errorf("expected a recorded +32 delta, got %f", history[0].RatingChangeTeam1)
	}
	if math.Abs(history[0].DisplayRatingChangeTeam1-0.32) > ratingEpsilon {
		t.Errorf("expected a +0.32 display-scale delta, got %f", history[0].DisplayRatingChangeTeam1)
	}
}

func TestProcessMatchNarrowWin(t *testing.T) {
	back := createTestBack(t)
	ids := registerTestPlayers(t, back, [4]float64{5.0, 5.0, 5.0, 5.0})

	// 6-4 on equal teams: actual 0.6, expected 0.5, provisional K.
	outcome, err := back.ProcessMatch(ids[0], ids[1], ids[2], ids[3], 6, 4)
	if err != nil {
		t.Fatal(err)
	}

	expected := 64.0 * (0.6 - 0.5)
	if math.Abs(outcome.RatingChangeTeam1-expected) > ratingEpsilon {
		t.Errorf("expected a +%.1f delta for a narrow win, got %f", expected, outcome.RatingChangeTeam1)
	}
}

func TestProcessMatchZeroScoreMutatesNothing(t *testing.T) {
	back := createTestBack(t)
	ids := registerTestPlayers(t, back, [4]float64{5.0, 6.0, 7.0, 8.0})
	before := snapshotTestPlayers(t, back, ids)

	_, err := back.ProcessMatch(ids[0], ids[1], ids[2], ids[3], 0, 0)
	if !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}

	assertTestPlayersUnchanged(t, back, ids, before)
	assertTestMatchCount(t, back, 0)
}

func TestProcessMatchNegativeScore(t *testing.T) {
	back := createTestBack(t)
	ids := registerTestPlayers(t, back, [4]float64{5.0, 5.0, 5.0, 5.0})

	if _, err := back.ProcessMatch(ids[0], ids[1], ids[2], ids[3], -1, 3); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}

	assertTestMatchCount(t, back, 0)
}

func TestProcessMatchDuplicatePlayer(t *testing.T) {
	back := createTestBack(t)
	ids := registerTestPlayers(t, back, [4]float64{5.0, 5.0, 5.0, 5.0})
	before := snapshotTestPlayers(t, back, ids)

	_, err := back.ProcessMatch(ids[0], ids[1], ids[0], ids[3], 10, 5)
	if !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
	}

	assertTestPlayersUnchanged(t, back, ids, before)
	assertTestMatchCount(t, back, 0)
}

func TestProcessMatchUnknownPlayer(t *testing.T) {
	back := createTestBack(t)
	ids := registerTestPlayers(t, back, [4]float64{5.0, 5.0, 5.0, 5.0})
	before := snapshotTestPlayers(t, back, ids)

	_, err := back.ProcessMatch(ids[0], ids[1], ids[2], util.NewUUIDAsBlob(), 10, 5)
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}

	assertTestPlayersUnchanged(t, back, ids, before)
	assertTestMatchCount(t, back, 0)
}

func TestProcessMatchFloorClamp(t *testing.T) {
	back := createTestBack(t)

	// Both teams average 550, the floored player would land at 68 without
	// the clamp (100 + 64 × (0.0 - 0.5)).
	ids := registerTestPlayers(t, back, [4]float64{1.0, 10.0, 5.5, 5.5})

	if _, err := back.ProcessMatch(ids[0], ids[1], ids[2], ids[3], 0, 10); err != nil {
		t.Fatal(err)
	}

	floored := getTestPlayer(t, back, ids[0])
	if math.Abs(floored.Rating-RatingFloor) > ratingEpsilon {
		t.Errorf("expected the rating to stop at the floor, got %f", floored.Rating)
	}

	partner := getTestPlayer(t, back, ids[1])
	if math.Abs(partner.Rating-968.0) > ratingEpsilon {
		t.Errorf("expected the partner at 968, got %f", partner.Rating)
	}
}

func TestProcessMatchPerPlayerKFactor(t *testing.T) {
	back := createTestBack(t)
	ids := registerTestPlayers(t, back, [4]float64{5.0, 5.0, 5.0, 5.0})

	// Promote the second team 1 player out of provisional status.
	if err := back.transaction(func(tx *sqlx.Tx) error {
		veteran, err := getPlayerByID(tx, ids[1])
		if err != nil {
			return err
		}

		veteran.MatchesPlayed = provisionalLimit
		return veteran.update(tx)
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := back.ProcessMatch(ids[0], ids[1], ids[2], ids[3], 10, 0); err != nil {
		t.Fatal(err)
	}

	provisional := getTestPlayer(t, back, ids[0])
	veteran := getTestPlayer(t, back, ids[1])

	provisionalDelta := provisional.Rating - 500.0
	veteranDelta := veteran.Rating - 500.0

	if math.Abs(provisionalDelta-32.0) > ratingEpsilon {
		t.Errorf("expected a +32 provisional delta, got %f", provisionalDelta)
	}
	if math.Abs(veteranDelta-16.0) > ratingEpsilon {
		t.Errorf("expected a +16 veteran delta, got %f", veteranDelta)
	}
	if math.Abs(provisionalDelta-2*veteranDelta) > ratingEpsilon {
		t.Error("expected the provisional player to move exactly twice as much")
	}
	if veteran.MatchesPlayed != provisionalLimit+1 {
		t.Errorf("expected %d matches played, got %d", provisionalLimit+1, veteran.MatchesPlayed)
	}
}

func createTestBack(t *testing.T) *Back {
	t.Helper()

	f, err := ioutil.TempFile("", "*.db")
	if err != nil {
		t.Fatal(err)
	}
	path := f.Name()
	f.Close()
	t.Cleanup(func() {
		os.Remove(path)
	})

	migrator, err := migrate.New(
		"file://../../resources/migrations",
		"sqlite3://"+path,
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatal(err)
	}
	migrator.Close()

	back, err := New("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}

	return back
}

func registerTestPlayers(t *testing.T, b *Back, displayRatings [4]float64) [4]util.UUIDAsBlob {
	t.Helper()

	names := [4]string{"Ale", "Bea", "Carlos", "Delfi"}

	var ids [4]util.UUIDAsBlob
	for i := range names {
		player, err := b.RegisterPlayer(names[i], displayRatings[i])
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = player.ID
	}

	return ids
}

func getTestPlayer(t *testing.T, b *Back, id util.UUIDAsBlob) Player {
	t.Helper()

	var player Player
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		player, err = getPlayerByID(tx, id)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	return player
}

func snapshotTestPlayers(t *testing.T, b *Back, ids [4]util.UUIDAsBlob) [4]Player {
	t.Helper()

	var ret [4]Player
	for i, id := range ids {
		ret[i] = getTestPlayer(t, b, id)
	}

	return ret
}

func assertTestPlayersUnchanged(t *testing.T, b *Back, ids [4]util.UUIDAsBlob, before [4]Player) {
	t.Helper()

	for i, id := range ids {
		after := getTestPlayer(t, b, id)
		if after.Rating != before[i].Rating {
			t.Errorf("player #%d: rating changed from %f to %f", i, before[i].Rating, after.Rating)
		}
		if after.MatchesPlayed != before[i].MatchesPlayed {
			t.Errorf("player #%d: matches played changed from %d to %d",
				i, before[i].MatchesPlayed, after.MatchesPlayed)
		}
	}
}

func assertTestMatchCount(t *testing.T, b *Back, expected int) {
	t.Helper()

	var count int
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		count, err = getMatchCount(tx)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	if count != expected {
		t.Errorf("expected %d recorded matches, got %d", expected, count)
	}
}

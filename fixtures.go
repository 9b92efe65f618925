package main

import (
	"bandeja/internal/back"
	"bandeja/internal/config"
	"log"
)

func loadFixtures() error {
	conf, err := config.NewFromUserConfigDir()
	if err != nil {
		return err
	}

	b, err := back.New("sqlite3", conf.SQLiteDSN)
	if err != nil {
		return err
	}

	players := []struct {
		name   string
		rating float64
	}{
		{"Ale Galán", 9.5},
		{"Juan Lebrón", 9.5},
		{"Bea González", 9.0},
		{"Delfi Brea", 9.0},
		{"Paco", 3.0},
		{"Lola", 3.0},
	}

	for _, v := range players {
		player, err := b.RegisterPlayer(v.name, v.rating)
		if err != nil {
			return err
		}

		log.Printf("info: registered %s at %.1f", player.Name, player.DisplayRating())
	}

	return nil
}

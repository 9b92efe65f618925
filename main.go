package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
)

// Version holds the build-time version string.
var Version = "unknown" // nolint:gochecknoglobals

func main() {
	if err := godotenv.Load(); err != nil {
		log.Print("debug: no .env file found")
	}

	flag.Parse()

	switch flag.Arg(0) {
	case "version":
		fmt.Fprintf(os.Stdout, "Bandeja %s\n", Version)
	case "migrate":
		if err := migrateDatabase(); err != nil {
			log.Fatalf("error: unable to migrate database: %s", err)
		}
	case "serve":
		if err := serve(); err != nil {
			log.Fatalf("error: %s", err)
		}
	case "dev:fixtures":
		if err := loadFixtures(); err != nil {
			log.Fatalf("error: unable to load fixtures: %s", err)
		}
	case "help":
		fmt.Fprint(os.Stdout, help())
	default:
		fmt.Fprint(os.Stderr, help())
		os.Exit(1)
	}
}

func help() string {
	return fmt.Sprintf(`
Bandeja keeps track of a 2v2 padel Americano league: player ratings,
recorded matches, and the leaderboard that goes with them.

Usage: %[1]s COMMAND [ARGS…]

COMMANDS
    dev:fixtures create default data for quick testing during development
    help         display this help
    migrate      create or upgrade the database schema
    serve        start the HTTP API server
    version      display the current version
`,
		os.Args[0],
	)
}

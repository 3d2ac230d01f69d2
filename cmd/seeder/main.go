package main

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/catalog"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/database"
)

// Simplified config loading for the script
func loadConfig() (dbName, primaryURL, authToken, csvPath string) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName = os.Getenv("DB_NAME")
	primaryURL = os.Getenv("TURSO_PRIMARY_URL")
	authToken = os.Getenv("TURSO_AUTH_TOKEN")
	if dbName == "" && primaryURL == "" {
		log.Fatal("Either DB_NAME or TURSO_PRIMARY_URL must be set")
	}

	csvPath = os.Getenv("SAMPLE_DATA_CSV")
	if csvPath == "" {
		csvPath = "sample_data.csv"
	}
	return dbName, primaryURL, authToken, csvPath
}

func main() {
	log.Info("Starting database seeder...")
	dbName, primaryURL, authToken, csvPath := loadConfig()

	db, teardown, err := database.InitDB(dbName, primaryURL, authToken, "./migrations")
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	file, err := os.Open(csvPath)
	if err != nil {
		log.Fatalf("Failed to open sample data file %s: %s", csvPath, err)
	}
	defer file.Close()

	store := catalog.New(db)
	startTime := time.Now()
	inserted, skipped := seed(store, csv.NewReader(file))

	log.Info("Seeding complete",
		"inserted", inserted,
		"skipped", skipped,
		"duration", time.Since(startTime),
	)
}

// seed reads player rows and creates each one. Rows whose name already
// exists are skipped, so reseeding the same file is a no-op.
func seed(store catalog.Store, r *csv.Reader) (inserted, skipped int) {
	// Header row: Name, University, Category, Total Runs, Balls Faced,
	// Innings Played, Wickets, Overs Bowled, Runs Conceded.
	if _, err := r.Read(); err != nil {
		log.Fatalf("Failed to read CSV header: %s", err)
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to read CSV row: %s", err)
		}
		if len(record) < 9 {
			log.Warn("Skipping short CSV row", "fields", len(record))
			skipped++
			continue
		}

		p := &catalog.Player{
			Name:          record[0],
			University:    record[1],
			Category:      record[2],
			TotalRuns:     parseCounter(record[0], "total runs", record[3]),
			BallsFaced:    parseCounter(record[0], "balls faced", record[4]),
			InningsPlayed: parseCounter(record[0], "innings played", record[5]),
			Wickets:       parseCounter(record[0], "wickets", record[6]),
			OversBowled:   parseCounter(record[0], "overs bowled", record[7]),
			RunsConceded:  parseCounter(record[0], "runs conceded", record[8]),
		}

		if err := store.CreatePlayer(p); err != nil {
			if errors.Is(err, catalog.ErrDuplicateName) {
				log.Debug("Player already seeded", "name", p.Name)
				skipped++
				continue
			}
			log.Fatalf("Failed to insert player %s: %s", p.Name, err)
		}
		inserted++
	}
	return inserted, skipped
}

func parseCounter(name, field, raw string) int64 {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("Invalid %s for player %s: %q", field, name, raw)
	}
	return v
}

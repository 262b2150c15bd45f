package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/padel-connect/internal/config"
	"github.com/mauv0809/padel-connect/internal/database"
	"github.com/mauv0809/padel-connect/internal/player"
)

var (
	firstParts = []string{"Smash", "Volley", "Bandeja", "Vibora", "Chiquita", "Lob", "Globo", "Rulo"}
	lastParts  = []string{"King", "Queen", "Ace", "Wall", "Net", "Bolt", "Fox", "Hawk"}
	cities     = []string{"Copenhagen", "Aarhus", "Odense", "Aalborg", player.DefaultLocation}
	skills     = []player.SkillLevel{player.SkillBeginner, player.SkillIntermediate, player.SkillAdvanced, player.SkillProfessional}
)

func main() {
	count := flag.Int("players", 50, "Number of demo players to insert")
	onlineShare := flag.Float64("online", 0.4, "Share of demo players marked online")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	cfg := config.Load()

	log.Info("Starting database seeder...", "players", *count)
	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := player.New(db)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	startTime := time.Now()

	inserted := 0
	for i := 0; i < *count; i++ {
		p := demoPlayer(rng, i, *onlineShare)
		if err := store.Create(ctx, p); err != nil {
			log.Warn("Skipping demo player", "nickname", *p.Nickname, "error", err)
			continue
		}
		inserted++
	}

	log.Info("Seeding complete", "inserted", inserted, "duration", time.Since(startTime))
}

func demoPlayer(rng *rand.Rand, i int, onlineShare float64) *player.Player {
	nickname := fmt.Sprintf("%s%s%d", firstParts[rng.Intn(len(firstParts))], lastParts[rng.Intn(len(lastParts))], i)
	name := "Seeder Player " + fmt.Sprint(i+1)
	return &player.Player{
		ID:         uuid.NewString(),
		UserID:     "seed-" + uuid.NewString(),
		Nickname:   &nickname,
		Name:       &name,
		SkillLevel: skills[rng.Intn(len(skills))],
		Location:   cities[rng.Intn(len(cities))],
		IsOnline:   rng.Float64() < onlineShare,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

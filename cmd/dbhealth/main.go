package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/common"
	repo "github.com/joseph-ayodele/translation-backend/internal/repository"
)

func main() {
	migrate := flag.Bool("migrate", false, "create the job ledger schema")
	limit := flag.Int("n", 10, "recent jobs to list")
	flag.Parse()

	cfg := common.LoadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repo.Open(ctx, cfg.Database, nil)
	if err != nil {
		log.Fatalf("opening DB: %v", err)
	}
	defer db.Close(nil)

	if err := db.HealthCheck(ctx, time.Second); err != nil {
		log.Fatalf("DB health: FAIL (%v)", err)
	}
	log.Printf("DB health: OK (%s)", cfg.Database.Driver)

	if *migrate {
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Println("schema: OK")
	}

	jobs, err := repo.NewTranslationJobRepository(db, nil).ListRecent(ctx, *limit)
	if err != nil {
		log.Fatalf("listing jobs: %v", err)
	}
	log.Printf("recent jobs: %d", len(jobs))
	for _, j := range jobs {
		log.Printf("- [%s] %s %s->%s %s lines=%d", j.ID, j.Kind, j.SrcLang, j.TgtLang, j.Status, j.LineCount)
	}
}

package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/castingagency/internal/config"
	"github.com/dropDatabas3/castingagency/internal/store/pg"
	migrations "github.com/dropDatabas3/castingagency/migrations/postgres"
)

// Uso: migrate [-config path] [-dir path] up|down [steps]
func main() {
	var (
		configPath = flag.String("config", "configs/config.yaml", "Path to YAML config")
		dir        = flag.String("dir", "", "Migrations directory (*_up.sql / *_down.sql); vacío = embebidas")
	)
	flag.Parse()
	_ = godotenv.Load()

	// Positional args: [action] [steps]
	action := "up"
	steps := 0
	args := flag.Args()
	if len(args) >= 1 && args[0] != "" {
		action = strings.ToLower(args[0])
	}
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
			steps = n
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if cfg.Storage.Driver != "postgres" {
		log.Fatalf("storage.driver=%s: migrations only apply to postgres", cfg.Storage.Driver)
	}

	var fsys fs.FS = migrations.FS
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}
	m := pg.NewMigrator(fsys, ".")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	var ran []int
	switch action {
	case "up":
		ran, err = m.Up(ctx, pool, steps)
	case "down":
		// down sin steps revierte sólo la última
		if steps == 0 {
			steps = 1
		}
		ran, err = m.Down(ctx, pool, steps)
	default:
		log.Fatalf("unknown action %q (use up|down)", action)
	}
	if err != nil {
		log.Fatalf("%s: %v", action, err)
	}
	if len(ran) == 0 {
		log.Println("Nothing to do.")
		return
	}
	log.Printf("%s: applied %v", action, ran)
}

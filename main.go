package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/korjavin/asthmabot/api"
	"github.com/korjavin/asthmabot/bot"
	"github.com/korjavin/asthmabot/config"
	"github.com/korjavin/asthmabot/database"
	"github.com/korjavin/asthmabot/gauge"
	"github.com/korjavin/asthmabot/instruments"
	"github.com/korjavin/asthmabot/report"
)

func main() {
	// Configure logging
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting AsthmaBot...")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Refuse to serve a malformed questionnaire
	if err := instruments.Validate(); err != nil {
		log.Fatalf("Invalid instrument definitions: %v", err)
	}

	fonts, err := gauge.LoadFonts(cfg.FontPath)
	if err != nil {
		log.Fatalf("Failed to load gauge font: %v", err)
	}
	for _, inst := range instruments.All() {
		for _, l := range report.UncoveredLocales(inst, fonts) {
			log.Printf("Warning: gauge font has no glyphs for %s/%s labels, PNG gauges will show blank boxes; set GAUGE_FONT to a TTF with Arabic coverage", inst.ID, l)
		}
	}

	cache, err := database.Open(cfg.CacheDriver, cfg.DBPath, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to open gauge cache: %v", err)
	}
	defer cache.Close()
	log.Printf("Gauge cache: %s", cfg.CacheDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	if cfg.HTTPAddr != "" {
		srv := api.New(cfg, fonts)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(ctx); err != nil {
				log.Printf("HTTP server failed: %v", err)
				stop()
			}
		}()
	}

	if cfg.BotToken != "" {
		b, err := bot.New(cfg, cache, fonts)
		if err != nil {
			log.Fatalf("Failed to initialize bot: %v", err)
		}
		log.Println("Bot initialized successfully")
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Start(ctx)
		}()
	}

	wg.Wait()
	log.Println("Shut down")
}

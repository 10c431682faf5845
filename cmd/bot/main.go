package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calbot/internal/adapters/discord"
	"calbot/internal/application"
	"calbot/internal/config"
	"calbot/internal/infrastructure/i18n"
	"calbot/internal/infrastructure/ics"
	"calbot/internal/infrastructure/metadata"
	"calbot/internal/infrastructure/storage"
	"calbot/pkg/obs"
	"calbot/pkg/tz"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := obs.Init(ctx, obs.Config{
		ServiceName:    "calbot",
		ServiceVersion: version,
		UseStdout:      cfg.OTelStdout,
	})
	if err != nil {
		log.Printf("⚠️ Initialisation du tracing: %v", err)
	}

	eventStorage, closeStorage, err := storage.Open(ctx, storage.Options{
		Backend:     cfg.StorageBackend,
		FilePath:    cfg.EventsFile,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatalf("❌ Erreur lors de l'initialisation du stockage: %v", err)
	}

	// Timezone was validated by config.Load.
	loc, _ := tz.Load(cfg.Timezone)

	store := application.NewEventStore(eventStorage)
	importer := application.NewImportService(ics.NewFetcher(cfg.ImportHorizonDays), store)
	translator := i18n.NewTranslator(cfg.Locale)

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	scheduler := application.NewScheduler(
		cfg.Broadcast.Entity(),
		store,
		discord.NewChannelSender(session),
		metadata.NewFileStore(cfg.Broadcast.MetadataFile),
		translator,
		application.WithLocale(translator.DefaultLocale()),
		application.WithLocation(loc),
	)

	handler := discord.NewHandler(store, importer, scheduler, translator, translator.DefaultLocale(), loc)
	bot := discord.NewBot(session, handler, cfg.GuildID)

	if err := scheduler.Start(ctx); err != nil {
		log.Printf("❌ Démarrage de la diffusion des rappels: %v", err)
	}
	runErr := bot.Start(ctx)

	scheduler.Stop()
	closeStorage()
	if shutdownTracing != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("⚠️ Arrêt du tracing: %v", err)
		}
		cancel()
	}

	if runErr != nil {
		log.Printf("❌ Erreur lors du démarrage du bot: %v", runErr)
		os.Exit(1)
	}
	log.Println("👋 Bot arrêté.")
}

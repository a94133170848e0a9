package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	httpadapter "portfolio-gateway/internal/adapter/http"
	repo "portfolio-gateway/internal/adapter/repository"
	"portfolio-gateway/internal/config"
	"portfolio-gateway/internal/infrastructure/migration"
	"portfolio-gateway/internal/model"
	"portfolio-gateway/internal/tenant"
	"portfolio-gateway/internal/token"
	"portfolio-gateway/internal/usecase"
	"portfolio-gateway/pkg/api"
	infra "portfolio-gateway/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
)

func main() {
	ctx := context.Background()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Durable token slot: postgres when configured, file otherwise.
	var slot usecase.TokenSlot = infra.NewFileSlot(cfg.SessionSlotPath)
	if cfg.SessionDBURL != "" {
		pool, err := infra.NewSessionPool(ctx, cfg.SessionDBURL)
		if err != nil {
			slog.Warn("session DB not available, using file slot", "error", err)
		} else {
			if err := migration.RunMigrations(ctx, pool); err != nil {
				log.Fatalf("migrations failed: %v", err)
			}
			slot = repo.NewSessionSlotRepo(pool)
		}
	}

	sessions := usecase.NewSessionStore(slot, token.Decode)
	sessions.Initialize(ctx)

	client := api.NewClient(cfg.ResolveAPIBase(), sessions.Token)
	site := usecase.NewPublicSite(client, infra.NewChromedpExporter(), cfg.TemplatesDir)
	schemaPath := filepath.Join(cfg.TemplatesDir, "profile.schema.json")
	validate := func(p map[string]interface{}) error {
		return model.ValidateProfile(schemaPath, p)
	}

	app := fiber.New()
	app.Use(httpadapter.TenantHost(tenant.NewResolver(cfg.ApexDomains, cfg.DevHost)))

	h := httpadapter.NewHandler(sessions, client, site, validate, cfg.EditorLicenseKey)
	h.SetupRoutes(app)

	slog.Info("gateway listening", "port", cfg.Port, "api", client.BaseURL, "apexes", cfg.ApexDomains)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

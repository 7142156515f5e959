package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restoledger/backend/internal/cache"
	"restoledger/backend/internal/config"
	"restoledger/backend/internal/domain"
	"restoledger/backend/internal/httpapi"
	"restoledger/backend/internal/service"
	"restoledger/backend/internal/store"
	"restoledger/backend/internal/store/memory"
	pgstore "restoledger/backend/internal/store/postgres"
	"restoledger/backend/internal/suggest"
)

func main() {
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("postgres schema: %v", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Println("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Println("repository: in-memory")
	}

	if err := ensureManager(ctx, repo, cfg.SeedManagerPassword); err != nil {
		log.Fatalf("bootstrap manager: %v", err)
	}

	views := cache.ViewCache(cache.NoopViewCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisViewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop cache", err)
		} else {
			views = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("cache: redis")
		}
	} else {
		log.Println("cache: noop")
	}

	svc := service.New(repo, service.Config{
		Views:     views,
		ViewTTL:   time.Duration(cfg.ViewCacheTTLSeconds) * time.Second,
		Suggester: buildSuggester(cfg),
		ViewOptions: domain.ViewOptions{
			WindowDays: cfg.DefaultWindowDays,
			PeriodDays: cfg.DefaultPeriodDays,
		},
	})
	if err := svc.Reload(ctx); err != nil {
		log.Fatalf("initial snapshot load: %v", err)
	}

	auth := httpapi.NewAuthManager(ctx, cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("restoledger backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if cfg.SeedManagerPassword != "" && len(cfg.SeedManagerPassword) < 8 {
		return fmt.Errorf("SEED_MANAGER_PASSWORD must be at least 8 characters")
	}
	return nil
}

// buildSuggester puts Gemini in front of the static pairing when an API key
// is configured.
func buildSuggester(cfg config.Config) suggest.Suggester {
	if cfg.GeminiAPIKey == "" {
		log.Println("suggester: static")
		return suggest.Static{}
	}
	log.Println("suggester: gemini with static fallback")
	return suggest.Chain{suggest.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel), suggest.Static{}}
}

// ensureManager creates a "manager" account on a store that has none. The
// password is stored plain; the auth manager upgrades it to bcrypt on load.
func ensureManager(ctx context.Context, users httpapi.UserStore, password string) error {
	existing, err := users.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, user := range existing {
		if user.Role == domain.RoleManager {
			return nil
		}
	}
	if password == "" {
		log.Println("[bootstrap] WARN: no manager account and SEED_MANAGER_PASSWORD is unset")
		return nil
	}
	log.Println("[bootstrap] creating manager account")
	return users.CreateUser(ctx, domain.UserAccount{
		Username:  "manager",
		Password:  password,
		Role:      domain.RoleManager,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
}

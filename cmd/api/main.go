package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cardlink/internal/core/auth"
	"cardlink/internal/core/cache"
	"cardlink/internal/core/config"
	"cardlink/internal/core/database"
	"cardlink/internal/core/logger"
	"cardlink/internal/core/server"
	"cardlink/internal/domain"
	"cardlink/internal/repo"
	"cardlink/internal/service"
	"cardlink/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.Card{},
			&domain.UserAccount{},
			&domain.CardStat{},
			&domain.CardView{},
			&domain.Settings{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	var rdb *cache.Cache
	if cfg.Redis.Addr != "" {
		rdb = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	cards := repo.NewCardRepo(db)
	users := repo.NewUserRepo(db)
	stats := repo.NewStatRepo(db)
	views := repo.NewViewRepo(db)
	settingsBase := repo.NewSettingsRepo(db, domain.Settings{
		FreeCardLimit: cfg.Quota.FreeCardLimit,
		ProCardLimit:  cfg.Quota.ProCardLimit,
	})
	if cfg.DB.AutoMigrate {
		seedSettings(settingsBase, log)
	}
	settings := repo.NewCachedSettingsRepo(settingsBase, rdb)

	slugs := service.NewSlugAllocator(cards)
	quota := service.NewQuotaGuard(cards, users, settings)
	cardSvc := service.NewCardService(cards, users, stats, views, slugs, quota, log)
	accountSvc := service.NewAccountService(users, settings, log)

	deps := router.Deps{
		Log:      log,
		JWT:      jwter,
		Cards:    cardSvc,
		Accounts: accountSvc,
		Quota:    quota,
		Slugs:    slugs,
		Users:    users,
		CardRepo: cards,
		Stats:    stats,
		Views:    views,
	}

	r := router.NewAPIEngine(deps)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	log.Info("api starting", zap.String("addr", addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

// seedSettings makes the plan limits durable so the store, not the binary,
// is the source of truth from then on. Non-fatal: quota checks fall back
// to config defaults when the row is missing.
func seedSettings(settings domain.SettingsRepository, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := settings.Get(ctx)
	if err != nil {
		log.Warn("settings read failed", zap.Error(err))
		return
	}
	if err := settings.Save(ctx, s); err != nil {
		log.Warn("settings seed failed", zap.Error(err))
	}
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

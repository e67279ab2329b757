package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plantstore/internal/config"
	"plantstore/internal/handler"
	"plantstore/internal/infra/db"
	"plantstore/internal/infra/mail"
	"plantstore/internal/infra/ratelimit"
	infraRepo "plantstore/internal/infra/repository"
	"plantstore/internal/infra/storage"
	"plantstore/internal/infra/token"
	"plantstore/internal/middleware"
	"plantstore/internal/server"
	"plantstore/internal/usecase"
	auth "plantstore/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelDebug
	if cfg.GoEnv == "production" {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	//Redis（レート制限）
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, rate limiting disabled until it comes back", "error", err)
	}

	//画像ストレージ
	images, err := storage.NewImageStore(cfg)
	if err != nil {
		return err
	}
	if err := images.EnsureBucket(ctx); err != nil {
		return err
	}

	//Repository（GORM実装）
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	plantRepo := infraRepo.NewPlantGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.JWTExpire)

	//Usecase
	authUC := auth.NewAuthUsecase(auth.Deps{
		Users:    userRepo,
		Hasher:   auth.NewBcryptPasswordHasher(10),
		Verifier: auth.NewBcryptPasswordVerifier(),
		Issuer:   issuer,
		Mailer:   mail.NewMailer(cfg),
		Secrets:  auth.RandomSecrets{},
		Clock:    auth.SystemClock{},
		FEURL:    cfg.FEURL,
		Log:      log,
	})
	plantUC := usecase.NewPlantUsecase(plantRepo, txm, images, log)
	cartUC := usecase.NewCartUsecase(cartRepo, plantRepo)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, plantRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo, plantRepo)
	auditUC := usecase.NewAuditUsecase(auditRepo)

	//Handler
	limiter := middleware.RateLimit(ratelimit.NewRedisLimiter(rdb), "auth", 20, 15*time.Minute, log)
	cookie := handler.CookieConfig{Secure: cfg.CookieSecure, TTL: cfg.CookieTTL()}

	e := server.New(server.Options{
		FEURL: cfg.FEURL,
		Gate:  handler.Gate{Parser: issuer, Users: userRepo},
		Log:   log,
		Health: func(ctx context.Context) error {
			return sqlDB.PingContext(ctx)
		},
	},
		handler.NewAuthHandler(authUC, cookie, limiter),
		handler.NewPlantHandler(plantUC),
		handler.NewCartHandler(cartUC),
		handler.NewOrderHandler(orderUC),
		handler.NewAdminOrderHandler(adminOrderUC),
		handler.NewAuditHandler(auditUC),
	)

	return server.Run(ctx, e, ":"+cfg.Port, log)
}

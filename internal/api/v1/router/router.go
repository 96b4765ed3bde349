package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"garagelog/internal/api/v1/handler"
	"garagelog/internal/config"
	"garagelog/internal/middleware"
	"garagelog/internal/repository"
	"garagelog/internal/service"
	"garagelog/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the connection pool, storage client, repositories, services and
// handlers into the v1 HTTP handler.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open connection pool: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info().Msg("Database connection successful")

	s3Config, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("load S3 config: %w", err)
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})
	store := storage.NewS3Store(s3Client, cfg.S3Bucket, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepo(pool)
	vehicleRepo := repository.NewVehicleRepo(pool, logger)
	maintenanceRepo := repository.NewMaintenanceRepo(pool, logger)
	imageRepo := repository.NewImageRepo(pool)
	couponRepo := repository.NewCouponRepo(pool)

	userSvc := service.NewUserService(userRepo, logger)
	quotaSvc := service.NewQuotaService(vehicleRepo, maintenanceRepo, logger)
	vehicleSvc := service.NewVehicleService(vehicleRepo, quotaSvc, store, logger)
	maintenanceSvc := service.NewMaintenanceService(maintenanceRepo, vehicleRepo, quotaSvc, store, logger)
	imageSvc := service.NewImageService(imageRepo, maintenanceRepo, quotaSvc, store, logger)
	couponSvc := service.NewCouponService(couponRepo, logger)

	userHandler := handler.NewUserHandler(userSvc, quotaSvc, validate, logger)
	vehicleHandler := handler.NewVehicleHandler(vehicleSvc, maintenanceSvc, validate, logger)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceSvc, imageSvc, validate, logger)
	imageHandler := handler.NewImageHandler(imageSvc, logger)
	couponHandler := handler.NewCouponHandler(couponSvc, validate, logger)

	authMw := middleware.AuthMiddleware(cfg.JWTSecret, logger)
	userMw := middleware.RequireUser(userSvc)

	apiV1Mux := http.NewServeMux()
	userHandler.RegisterRoutes(apiV1Mux, authMw, userMw)
	vehicleHandler.RegisterRoutes(apiV1Mux, authMw, userMw)
	maintenanceHandler.RegisterRoutes(apiV1Mux, authMw, userMw)
	imageHandler.RegisterRoutes(apiV1Mux, authMw, userMw)
	couponHandler.RegisterRoutes(apiV1Mux, authMw, userMw)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/v1"+r.URL.Path, http.StatusMovedPermanently)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux)), pool, nil
}

// removeDisableGzip is a workaround for S3 signature errors with some
// S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}

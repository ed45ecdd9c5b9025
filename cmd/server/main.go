package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supscore/internal/cache"
	"supscore/internal/config"
	"supscore/internal/repository"
	"supscore/internal/scoring"
	"supscore/internal/service"
	"supscore/internal/transport/rest"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	assessmentRepo := repository.NewAssessmentRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	resultRepo := repository.NewResultRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	rankingCache := cache.NewRankingCache(rdb)

	// Initialize services
	calc := scoring.NewCalculator(nil)
	authSvc := service.NewAuthService()
	contentSvc := service.NewContentService(assessmentRepo, templateRepo)
	sessionSvc := service.NewSessionService(sessionRepo, assessmentRepo, resultRepo, sessionCache, rankingCache, calc)
	scoringSvc := service.NewScoringService(calc, resultRepo, rankingCache)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		ContentService: contentSvc,
		SessionService: sessionSvc,
		ScoringService: scoringSvc,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/assessments")
		log.Println("  POST/GET /v1/templates")
		log.Println("  POST /v1/sessions")
		log.Println("  POST /v1/sessions/{id}/responses")
		log.Println("  POST /v1/sessions/{id}/complete")
		log.Println("  POST /v1/score")
		log.Println("  GET  /v1/rankings/{assessmentId}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/resumematch/resumematch/handlers"
	"github.com/resumematch/resumematch/internal/config"
	"github.com/resumematch/resumematch/internal/database"
	"github.com/resumematch/resumematch/internal/document/handler"
	"github.com/resumematch/resumematch/internal/document/repository"
	"github.com/resumematch/resumematch/internal/document/service"
	"github.com/resumematch/resumematch/internal/llm"
	"github.com/resumematch/resumematch/internal/llm/gemini"
	"github.com/resumematch/resumematch/internal/llm/openai"
	"github.com/resumematch/resumematch/internal/matchcache"
	"github.com/resumematch/resumematch/internal/storage"
	"github.com/resumematch/resumematch/pkg/logger"
	"github.com/resumematch/resumematch/pkg/metrics"
	"github.com/resumematch/resumematch/pkg/middleware"
)

var startTime = time.Now()

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	defer logger.Sync()
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v embeddings=%s",
		cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.MinIO.Enabled(), cfg.Embedding.Provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := wire(ctx, cfg)
	if err != nil {
		logger.Fatalf("startup: %v", err)
	}
	defer cleanup()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(cfg, deps, promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting matching service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
}

// runtimeDeps are the constructed collaborators shared by the routes.
type runtimeDeps struct {
	svc   service.Service
	redis *redis.Client
}

// wire constructs every collaborator once. The returned cleanup releases
// them in reverse order.
func wire(ctx context.Context, cfg *config.Config) (*runtimeDeps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return nil, cleanup, err
	}
	gen := gemini.NewGenerator(client, cfg.Gemini.Model)

	var emb llm.Embedder
	switch cfg.Embedding.Provider {
	case "openai":
		emb, err = openai.New(openai.Config{
			BaseURL:    cfg.Embedding.OpenAIBaseURL,
			APIKey:     cfg.Embedding.OpenAIAPIKey,
			Model:      cfg.Embedding.OpenAIModel,
			MaxRetries: 2,
		})
		if err != nil {
			return nil, cleanup, err
		}
	default:
		emb = gemini.NewEmbedder(client, cfg.Gemini.EmbeddingModel)
	}

	d := service.Deps{Generator: gen, Embedder: emb}

	if cfg.MongoDB.URI != "" {
		mc, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { _ = mc.Disconnect(context.Background()) })
		db := mc.Database(cfg.MongoDB.Database)
		resumes := repository.NewMongoRepo(db.Collection(cfg.MongoDB.ResumeCollection))
		jobs := repository.NewMongoRepo(db.Collection(cfg.MongoDB.JobCollection))
		for _, r := range []*repository.MongoRepo{resumes, jobs} {
			if err := r.EnsureIndexes(ctx); err != nil {
				logger.Warnf("ensure indexes: %v", err)
			}
		}
		d.Resumes, d.Jobs = resumes, jobs
		logger.Infof("using MongoDB database %s", cfg.MongoDB.Database)
	} else {
		logger.Warnf("MONGODB_URI not set; records are kept in memory only")
		d.Resumes, d.Jobs = repository.NewMemoryRepo(), repository.NewMemoryRepo()
	}

	rt := &runtimeDeps{}
	if addr := cfg.Redis.Addr(); addr != "" {
		rc := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v; match cache disabled", addr, err)
			_ = rc.Close()
		} else {
			closers = append(closers, func() { _ = rc.Close() })
			rt.redis = rc
			d.Cache = matchcache.New(rc, "match:", cfg.Redis.MatchCacheTTL)
			logger.Infof("connected to Redis %s", addr)
		}
	}

	if cfg.MinIO.Enabled() {
		objects, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			return nil, cleanup, err
		}
		d.Objects = objects
		logger.Infof("archiving uploads to bucket %s", cfg.MinIO.Bucket)
	}

	svc, err := service.New(d)
	if err != nil {
		return nil, cleanup, err
	}
	rt.svc = svc
	return rt, cleanup, nil
}

func newRouter(cfg *config.Config, deps *runtimeDeps, metricsHandler http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && deps.redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(deps.redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// ready only when the document store (and Redis, when the limiter needs it) answers
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		ready := true
		checks := readiness(ctx, cfg, deps)
		for _, ok := range checks {
			ready = ready && ok
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": checks, "uptime": time.Since(startTime).String()})
	})

	r.GET("/metrics", gin.WrapH(metricsHandler))
	handlers.RegisterSwagger(r)
	handler.RegisterDocumentRoutes(r, deps.svc, cfg.Server.MaxUploadBytes)
	return r
}

func readiness(ctx context.Context, cfg *config.Config, d *runtimeDeps) map[string]bool {
	out := map[string]bool{"storage": d.svc.Ready(ctx) == nil}
	if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
		out["redis"] = d.redis != nil && d.redis.Ping(ctx).Err() == nil
	}
	return out
}

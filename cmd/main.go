// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"org-directory/internal/api"
	"org-directory/internal/cache"
	"org-directory/internal/config"
	"org-directory/internal/logger"
	"org-directory/internal/metrics"
	"org-directory/internal/middleware"
	"org-directory/internal/migrate"
	"org-directory/internal/seed"
	"org-directory/internal/store"
	"org-directory/internal/utils"
	"org-directory/internal/version"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok", "commit", version.Commit)

	cfg, err := config.Load()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	dsn, err := cfg.DSN()
	if err != nil {
		l.Error("config_dsn_error", "err", err)
		os.Exit(1)
	}
	l.Debug("config_api_base", "base", cfg.APIBase)
	if cfg.Driver == store.SQLite && !cfg.TestDB && cfg.DBURL == "" {
		_ = os.MkdirAll(filepath.Dir(cfg.DBFile), 0o755)
	}

	st, err := store.Open(cfg.Driver, dsn)
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer st.Close()
	st.SetPool(cfg.PG.MaxOpen, cfg.PG.MaxIdle)
	l.Info("db_open_ok", "driver", string(cfg.Driver))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.Ping(ctx); err != nil {
		cancel()
		l.Error("db_ping_error", "err", err)
		os.Exit(1)
	}
	l.Info("db_ping_ok")
	if cfg.AutoMigrate {
		if err := migrate.EnsureSchema(ctx, st); err != nil {
			cancel()
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
	}
	// 背景：本地运行时可从 YAML 初始化数据；目标库已有数据时导入失败，仅记录不退出
	if cfg.SeedFile != "" {
		if _, err := seed.LoadFile(ctx, st, cfg.SeedFile); err != nil {
			l.Error("seed_error", "file", cfg.SeedFile, "err", err)
		} else {
			l.Info("seed_ok", "file", cfg.SeedFile)
		}
	}
	cancel()

	rc := utils.OpenRedis(cfg.Redis)
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		defer rc.Close()
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	}
	var redisLayer cache.Cache
	if rc != nil {
		redisLayer = cache.NewRedis(rc, cfg.CacheTTL)
	}
	qc := cache.NewChain(cache.NewLRU(cfg.CacheLRUSize, cfg.CacheTTL), redisLayer)
	l.Debug("cache_stack", "layers", qc.Len(), "ttl_s", int(cfg.CacheTTL.Seconds()))

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(st, qc)
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.RateLimit(handler, cfg.RateLimitEnabled, cfg.RateLimitQPS)
	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.TLS.Enable {
		if err := utils.EnsureSelfSignedCert(cfg.TLS.CertPath, cfg.TLS.KeyPath, "org-directory.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLS.CertPath)
		if err := s.ListenAndServeTLS(cfg.TLS.CertPath, cfg.TLS.KeyPath); err != nil && err != http.ErrServerClosed {
			l.Error("server_error", "err", err)
		}
		return
	}
	l.Info("listening", "addr", cfg.Addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		l.Error("server_error", "err", err)
	}
}

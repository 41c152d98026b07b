// 包 config：从环境变量读取服务配置（.env 由入口通过 godotenv 预先加载）
// 约束：数值解析失败时回退默认值并记录告警；仅数据库驱动非法时返回错误。
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"org-directory/internal/logger"
	"org-directory/internal/store"
)

const (
	DefaultDBFile  = "data/directory.db"
	DefaultAddr    = ":8080"
	DefaultAPIBase = "/api"
	DefaultQPS     = 200
)

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
}

type Redis struct {
	Enabled bool
	Host    string
	Port    string
	Pass    string
	DB      int
}

// Addr：host:port
func (r Redis) Addr() string { return r.Host + ":" + r.Port }

type TLS struct {
	Enable   bool
	CertPath string
	KeyPath  string
}

type Config struct {
	Driver store.Dialect
	DBFile string
	TestDB bool
	DBURL  string
	PG     Postgres
	Redis  Redis

	CacheTTL     time.Duration
	CacheLRUSize int

	Addr             string
	APIBase          string
	RateLimitEnabled bool
	RateLimitQPS     int
	TLS              TLS

	AutoMigrate bool
	SeedFile    string
}

// Load：读取全部配置项
func Load() (Config, error) {
	d, err := store.ParseDialect(os.Getenv("DB_DRIVER"))
	if err != nil {
		return Config{}, err
	}
	c := Config{
		Driver: d,
		DBFile: envStr("DB_FILE", DefaultDBFile),
		TestDB: envBool("DB_TEST", false),
		DBURL:  strings.TrimSpace(os.Getenv("DB_URL")),
		PG: Postgres{
			Host:     os.Getenv("PG_HOST"),
			Port:     os.Getenv("PG_PORT"),
			User:     os.Getenv("PG_USER"),
			Password: os.Getenv("PG_PASSWORD"),
			DB:       os.Getenv("PG_DB"),
			SSLMode:  envStr("PG_SSLMODE", "disable"),
			MaxOpen:  envInt("PG_MAX_OPEN_CONNS", 50),
			MaxIdle:  envInt("PG_MAX_IDLE_CONNS", 25),
		},
		Redis: Redis{
			Enabled: envBool("REDIS_ENABLED", false),
			Host:    envStr("REDIS_HOST", "127.0.0.1"),
			Port:    envStr("REDIS_PORT", "6379"),
			Pass:    os.Getenv("REDIS_PASS"),
			DB:      envInt("REDIS_DB", 0),
		},
		CacheTTL:         time.Duration(envInt("CACHE_TTL_S", 60)) * time.Second,
		CacheLRUSize:     envInt("CACHE_LRU_SIZE", 4096),
		Addr:             envStr("ADDR", DefaultAddr),
		APIBase:          strings.TrimSuffix(envStr("API_BASE", DefaultAPIBase), "/"),
		RateLimitEnabled: envBool("RATE_LIMIT_ENABLED", false),
		RateLimitQPS:     envInt("RATE_LIMIT_QPS", DefaultQPS),
		TLS: TLS{
			Enable:   envBool("TLS_ENABLE", false),
			CertPath: envStr("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
			KeyPath:  envStr("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
		},
		AutoMigrate: envBool("AUTO_MIGRATE", true),
		SeedFile:    os.Getenv("SEED_FILE"),
	}
	if c.RateLimitQPS <= 0 {
		c.RateLimitQPS = DefaultQPS
	}
	return c, nil
}

// DSN：按驱动生成连接串
// 约束：DB_URL 非空时原样使用；SQLite 测试模式为内存库；Postgres 不支持测试模式，
// 且 PG_HOST/PG_USER/PG_DB/PG_PORT 缺失时一次性报告全部缺失项。
func (c Config) DSN() (string, error) {
	if c.DBURL != "" {
		return c.DBURL, nil
	}
	switch c.Driver {
	case store.SQLite:
		if c.TestDB {
			return ":memory:", nil
		}
		return filepath.ToSlash(c.DBFile), nil
	case store.Postgres:
		if c.TestDB {
			return "", fmt.Errorf("%s does not support test (in-memory) mode", c.Driver)
		}
		var missing []string
		for _, kv := range [][2]string{{"PG_HOST", c.PG.Host}, {"PG_USER", c.PG.User}, {"PG_DB", c.PG.DB}, {"PG_PORT", c.PG.Port}} {
			if strings.TrimSpace(kv[1]) == "" {
				missing = append(missing, kv[0])
			}
		}
		if len(missing) > 0 {
			return "", fmt.Errorf("postgres config is missing required var(s): %s", strings.Join(missing, ", "))
		}
		u := url.URL{
			Scheme:   "postgres",
			Host:     c.PG.Host + ":" + c.PG.Port,
			Path:     "/" + c.PG.DB,
			RawQuery: "sslmode=" + url.QueryEscape(c.PG.SSLMode),
		}
		if c.PG.Password != "" {
			u.User = url.UserPassword(c.PG.User, c.PG.Password)
		} else {
			u.User = url.User(c.PG.User)
		}
		return u.String(), nil
	}
	return "", fmt.Errorf("unsupported DB_DRIVER: %q", string(c.Driver))
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.L().Warn("config_parse_error", "key", key, "value", v)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.L().Warn("config_parse_error", "key", key, "value", v)
		return def
	}
	return b
}

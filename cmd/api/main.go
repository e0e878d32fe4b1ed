package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PabloPavan/sellerdesk/docs"
	"github.com/PabloPavan/sellerdesk/internal"
	"github.com/PabloPavan/sellerdesk/internal/accounts"
	"github.com/PabloPavan/sellerdesk/internal/analytics"
	"github.com/PabloPavan/sellerdesk/internal/auth"
	"github.com/PabloPavan/sellerdesk/internal/db"
	"github.com/PabloPavan/sellerdesk/internal/httpapi"
	"github.com/PabloPavan/sellerdesk/internal/kv"
	"github.com/PabloPavan/sellerdesk/internal/payments"
	"github.com/PabloPavan/sellerdesk/internal/pings"
	"github.com/PabloPavan/sellerdesk/internal/ratelimit"
	"github.com/PabloPavan/sellerdesk/internal/routes"
	"github.com/PabloPavan/sellerdesk/internal/session"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
	"github.com/PabloPavan/sellerdesk/migrations"
)

const serviceName = "sellerdesk-api"

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	port := internal.Env("APP_PORT", "8080")
	databaseURL := internal.MustEnv("DATABASE_URL")
	redisURL := internal.MustEnv("REDIS_URL")

	ctx := context.Background()

	shutdown := telemetry.InitTracer(serviceName)
	defer shutdown(context.Background())
	shutdownMetrics := telemetry.InitMetrics(serviceName)
	defer shutdownMetrics(context.Background())
	shutdownLogger := telemetry.InitLogger(serviceName)
	defer shutdownLogger(context.Background())
	db.InitTelemetry(serviceName)

	d, err := db.NewWithOptions(ctx, databaseURL, db.PoolOptions{
		MaxConns:        int32(parseIntEnv("DB_MAX_CONNS", 10)),
		ApplicationName: serviceName,
	})
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer d.Close()

	if parseBoolEnv("DB_MIGRATE", true) {
		applied, err := d.Migrate(ctx, migrations.FS)
		if err != nil {
			log.Fatalf("db migrate error: %v", err)
		}
		for _, v := range applied {
			log.Printf("applied migration %s", v)
		}
	}

	redisOpt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("redis url error: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	dbBase := db.NewBase(d.Pool, parseDurationEnv("DB_QUERY_TIMEOUT", 3*time.Second))
	accRepo := accounts.NewRepository(dbBase)
	analyticsRepo := analytics.NewRepository(dbBase)

	sessionPrefix := internal.Env("SESSION_REDIS_PREFIX", session.DefaultRedisPrefix)
	sessionManager := &session.Manager{
		Store:         session.NewRedisStore(redisClient, sessionPrefix),
		TTL:           parseDurationEnv("SESSION_TTL", 7*24*time.Hour),
		MaxAge:        parseDurationEnv("SESSION_MAX_AGE", 30*24*time.Hour),
		RefreshBefore: parseDurationEnv("SESSION_REFRESH_BEFORE", 24*time.Hour),
		IDBytes:       32,
	}

	cookie := session.CookieConfig{
		Name:     internal.Env("SESSION_COOKIE_NAME", session.DefaultCookieName),
		Path:     internal.Env("SESSION_COOKIE_PATH", "/"),
		Domain:   internal.Env("SESSION_COOKIE_DOMAIN", ""),
		Secure:   parseBoolEnv("SESSION_COOKIE_SECURE", true),
		SameSite: parseSameSiteEnv("SESSION_COOKIE_SAMESITE", http.SameSiteLaxMode),
	}

	loginLimiter := &ratelimit.Limiter{
		Client: redisClient,
		Prefix: internal.Env("RATE_LIMIT_REDIS_PREFIX", ratelimit.DefaultPrefix),
		Limit:  parseIntEnv("LOGIN_RATE_LIMIT", 5),
		Window: parseDurationEnv("LOGIN_RATE_WINDOW", time.Minute),
	}

	authSvc := &auth.Service{
		Accounts:     accRepo,
		Sessions:     sessionManager,
		LoginLimiter: loginLimiter,
		Mailer:       auth.LogMailer{},
		Challenges:   kv.NewRedis[auth.Challenge](redisClient, "sellerdesk:two_factor:"),
		ResetTokens:  kv.NewRedis[auth.ResetToken](redisClient, "sellerdesk:password_reset:"),
		TwoFactorTTL: parseDurationEnv("TWO_FACTOR_TTL", auth.DefaultTwoFactorTTL),
		ResetTTL:     parseDurationEnv("PASSWORD_RESET_TTL", auth.DefaultResetTTL),
		Routes:       routes.Default,
	}

	analyticsSvc := &analytics.Service{
		Store:    analyticsRepo,
		Cache:    analytics.NewRedisCache(redisClient, "sellerdesk:cache:analytics:"),
		CacheTTL: parseDurationEnv("ANALYTICS_CACHE_TTL", 2*time.Minute),
		Products: analyticsRepo,
	}

	accountsSvc := &accounts.Service{Store: accRepo}
	if target := internal.Env("CUSTOM_DOMAIN_CNAME_TARGET", ""); target != "" {
		accountsSvc.Verifier = accounts.CNAMEVerifier{Target: target}
	}

	telemetry.InitAppMetrics(serviceName, d.Pool, redisClient, sessionPrefix)

	docs.SwaggerInfo.Host = internal.Env("SWAGGER_HOST", "")

	app := &httpapi.App{
		ServiceName: serviceName,
		Routes:      routes.Default,
		Cookie:      cookie,
		Swagger:     parseBoolEnv("SWAGGER_ENABLED", true),
		Health:      &httpapi.HealthHandler{DB: d.Pool, Cache: redisPinger{client: redisClient}},
		Auth:        &httpapi.AuthHandler{Auth: authSvc, Cookie: cookie, Routes: routes.Default},
		Settings:    &httpapi.SettingsHandler{Analytics: analyticsSvc, Advanced: accountsSvc},
		Payments:    &httpapi.PaymentsHandler{Payments: &payments.Service{Store: accRepo}},
		Pings: &httpapi.PingsHandler{Pings: &pings.Service{
			Timeout: parseDurationEnv("TEST_PING_TIMEOUT", pings.DefaultTimeout),
		}},
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func parseDurationEnv(key string, def time.Duration) time.Duration {
	val := strings.TrimSpace(internal.Env(key, ""))
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Printf("invalid %s: %q, using default", key, val)
		return def
	}
	return d
}

func parseIntEnv(key string, def int) int {
	val := strings.TrimSpace(internal.Env(key, ""))
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("invalid %s: %q, using default", key, val)
		return def
	}
	return n
}

func parseBoolEnv(key string, def bool) bool {
	val := strings.TrimSpace(internal.Env(key, ""))
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("invalid %s: %q, using default", key, val)
		return def
	}
	return b
}

func parseSameSiteEnv(key string, def http.SameSite) http.SameSite {
	val := strings.ToLower(strings.TrimSpace(internal.Env(key, "")))
	switch val {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	case "":
		return def
	default:
		log.Printf("invalid %s: %q, using default", key, val)
		return def
	}
}

package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/MinhBui2k4/CDTT/internal/activity"
	"github.com/MinhBui2k4/CDTT/internal/address"
	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/auth"
	"github.com/MinhBui2k4/CDTT/internal/brand"
	"github.com/MinhBui2k4/CDTT/internal/category"
	"github.com/MinhBui2k4/CDTT/internal/config"
	"github.com/MinhBui2k4/CDTT/internal/contact"
	"github.com/MinhBui2k4/CDTT/internal/dashboard"
	"github.com/MinhBui2k4/CDTT/internal/hero"
	"github.com/MinhBui2k4/CDTT/internal/logging"
	"github.com/MinhBui2k4/CDTT/internal/metrics"
	"github.com/MinhBui2k4/CDTT/internal/news"
	"github.com/MinhBui2k4/CDTT/internal/order"
	"github.com/MinhBui2k4/CDTT/internal/payment"
	"github.com/MinhBui2k4/CDTT/internal/product"
	"github.com/MinhBui2k4/CDTT/internal/role"
	"github.com/MinhBui2k4/CDTT/internal/session"
	"github.com/MinhBui2k4/CDTT/internal/user"
	"github.com/MinhBui2k4/CDTT/internal/web"
)

// activityCapacity bounds the in-memory activity log used without a database.
const activityCapacity = 500

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.UsesDevSecret() {
		log.Warn("SESSION_SECRET is not set; using the development secret")
	}

	repo, closeRepo := activityRepository(cfg, log)
	defer closeRepo()
	activityService := activity.NewService(repo, log)

	sessions := session.NewManager(cfg.SessionSecret, cfg.CookieSecure,
		session.WithLogger(log),
		session.WithExpiredHook(metrics.SessionExpired),
	)
	client := api.NewClient(cfg.BackendURL, cfg.BackendTimeout,
		api.WithLogger(log),
		api.WithObserver(metrics.ObserveBackendCall),
	)

	app := fiber.New(fiber.Config{
		Views:                 web.Engine(),
		ErrorHandler:          web.ErrorHandler(sessions, log),
		DisableStartupMessage: true,
		BodyLimit:             16 << 20,
	})
	app.Use(recover.New())
	app.Use(logging.Middleware(log))
	app.Use(metrics.Middleware())

	app.Use("/static", web.Static())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(auth.HomePath)
	})

	authHandler := auth.NewHandler(auth.NewService(client), sessions, auth.NewLimiter(auth.LoginRefill, auth.LoginBurst), log)
	authHandler.RegisterPublicRoutes(app)

	categories := category.NewService(client)
	brands := brand.NewService(client)
	products := product.NewService(client)
	orders := order.NewService(client)
	contacts := contact.NewService(client)
	newsService := news.NewService(client)
	heroes := hero.NewService(client)
	users := user.NewService(client)
	addresses := address.NewService(client)

	admin := app.Group("/admin", sessions.RequireToken(), sessions.RequireAdmin())
	for _, h := range []interface{ RegisterProtectedRoutes(fiber.Router) }{
		dashboard.NewHandler(dashboard.Services{
			Products:   products,
			Orders:     orders,
			Contacts:   contacts,
			Users:      users,
			Categories: categories,
			Brands:     brands,
			News:       newsService,
			Hero:       heroes,
			Activity:   activityService,
		}),
		product.NewHandler(products, categories, brands, activityService),
		category.NewHandler(categories, activityService),
		brand.NewHandler(brands, activityService),
		order.NewHandler(orders, addresses, users, products, activityService),
		contact.NewHandler(contacts, activityService),
		news.NewHandler(newsService, activityService),
		hero.NewHandler(heroes, activityService),
		user.NewHandler(users, addresses, activityService),
		role.NewHandler(role.NewService(client), activityService),
		payment.NewHandler(payment.NewService(client), activityService),
		activity.NewHandler(activityService),
	} {
		h.RegisterProtectedRoutes(admin)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{"addr": cfg.Addr, "backend": cfg.BackendURL}).Info("admin dashboard listening")
	if err := app.Listen(cfg.Addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// activityRepository stores the activity log in Postgres when DATABASE_URL is
// set, and in memory otherwise.
func activityRepository(cfg config.Config, log logrus.FieldLogger) (activity.Repository, func()) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL is not set; keeping the activity log in memory")
		return activity.NewInMemoryRepository(activityCapacity), func() {}
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.WithError(err).Fatal("reach database")
	}

	repo := activity.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.WithError(err).Fatal("prepare activity schema")
	}
	return repo, func() { _ = db.Close() }
}

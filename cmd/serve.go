package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/devopstales/netbox-registrator/core/archive"
	"github.com/devopstales/netbox-registrator/core/config"
	"github.com/devopstales/netbox-registrator/core/journal"
	"github.com/devopstales/netbox-registrator/core/loader"
	"github.com/devopstales/netbox-registrator/core/logger"
	"github.com/devopstales/netbox-registrator/core/middleware/auth"
	"github.com/devopstales/netbox-registrator/core/middleware/rayid"
	"github.com/devopstales/netbox-registrator/feature/report"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run history over HTTP",
	Long:  `Starts the report HTTP server over the run journal and snapshot archive.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Open the Journal (Optional)
		// Without it the report feature disables itself.
		var j *journal.Journal
		if db, err := journal.Connect(cfg.Journal); err != nil {
			logg.Warn("Journal database connection failed", zap.Error(err))
		} else if j, err = journal.New(db); err != nil {
			logg.Warn("Journal migration failed", zap.Error(err))
			j = nil
		}

		// 4. Open the Snapshot Archive (Optional)
		var arc *archive.Archive
		if cfg.Archive.Enabled {
			client, err := archive.NewClient(cfg.Archive)
			if err != nil {
				logg.Warn("Archive client creation failed", zap.Error(err))
			} else {
				arc = archive.New(client, cfg.Archive, logg)
			}
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(report.NewFeature(j, arc, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Health Check (Public)
		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafepos/internal/config"
	"cafepos/internal/database"
	"cafepos/internal/live"
	"cafepos/internal/models"
	"cafepos/internal/reporting"
	"cafepos/internal/router"
	"cafepos/internal/services"
	"cafepos/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	app := &cli.App{
		Name:  "cafepos",
		Usage: "Café point-of-sale backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db-driver", Usage: "sqlite or postgres"},
			&cli.StringFlag{Name: "db-dsn", Usage: "data source name of the store"},
			&cli.StringFlag{Name: "log-level", Usage: "zerolog level"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "apply migrations and start the HTTP API",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Usage: "HTTP listen port"},
				},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrate,
			},
			{
				Name:  "report",
				Usage: "compute a revenue report and export it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "range", Value: reporting.RangeDaily, Usage: "daily or monthly"},
					&cli.TimestampFlag{Name: "from", Layout: time.RFC3339, Usage: "start of an explicit range"},
					&cli.TimestampFlag{Name: "to", Layout: time.RFC3339, Usage: "end of an explicit range"},
					&cli.StringFlag{Name: "format", Value: reporting.FormatCSV, Usage: "csv or xlsx"},
					&cli.StringFlag{Name: "out", Usage: "output file, stdout when empty"},
				},
				Action: report,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment, applies the global flag overrides and
// initializes the logger on logOut.
func loadConfig(c *cli.Context, logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.IsSet("db-driver") {
		cfg.DBDriver = c.String("db-driver")
	}
	if c.IsSet("db-dsn") {
		cfg.DBDSN = c.String("db-dsn")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("port") {
		cfg.HTTPPort = c.Int("port")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := utils.InitLoggerTo(logOut, cfg.LogLevel, cfg.LogPretty); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(c *cli.Context) error {
	cfg, err := loadConfig(c, os.Stdout)
	if err != nil {
		return err
	}
	db, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	return db.Close()
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	router.Setup(engine, services.NewCafeService(db, live.NewHub()), cfg)

	g, gctx := errgroup.WithContext(ctx)
	server := newHTTPServer(gctx, cfg.Addr(), engine)
	g.Go(func() error {
		utils.LogInfo("Server starting", map[string]interface{}{"addr": server.Addr, "db_driver": cfg.DBDriver})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.LogInfo("Shutting down server", map[string]interface{}{"timeout": cfg.ShutdownTimeout.String()})
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newHTTPServer derives every request context from ctx, so open event streams
// end as soon as ctx is cancelled and Shutdown does not wait on them.
func newHTTPServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

// report logs to stderr so that stdout carries only the export.
func report(c *cli.Context) error {
	cfg, err := loadConfig(c, os.Stderr)
	if err != nil {
		return err
	}

	var from, to time.Time
	if c.IsSet("from") || c.IsSet("to") {
		if c.Timestamp("from") == nil || c.Timestamp("to") == nil {
			return errors.New("--from and --to must be given together")
		}
		from, to = *c.Timestamp("from"), *c.Timestamp("to")
	} else if from, to, err = reporting.NamedRange(c.String("range"), time.Now()); err != nil {
		return err
	}

	db, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := services.NewCafeService(db, live.NewHub()).ComputeReport(c.Context, from, to)
	if err != nil {
		return err
	}

	if err := writeReport(c.String("out"), c.String("format"), *summary); err != nil {
		return err
	}
	utils.LogInfo("Report exported", map[string]interface{}{
		"from": from.Format(time.RFC3339), "to": to.Format(time.RFC3339), "format": c.String("format"),
	})
	return nil
}

// writeReport writes the export to path, or to stdout when path is empty.
func writeReport(path, format string, summary models.ReportSummary) error {
	if path == "" {
		return reporting.Write(os.Stdout, format, summary)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := reporting.Write(f, format, summary); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

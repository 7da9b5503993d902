package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texforge/resumed/internal/api"
	"github.com/texforge/resumed/internal/history"
	"github.com/texforge/resumed/internal/infrastructure/config"
	"github.com/texforge/resumed/internal/infrastructure/database"
	"github.com/texforge/resumed/internal/infrastructure/influxdb"
	"github.com/texforge/resumed/internal/infrastructure/logging"
	"github.com/texforge/resumed/internal/infrastructure/mqtt"
	"github.com/texforge/resumed/internal/infrastructure/objectstore"
	"github.com/texforge/resumed/internal/latex"
	"github.com/texforge/resumed/internal/process"
	"github.com/texforge/resumed/internal/render"
	"github.com/texforge/resumed/internal/resume"
	"github.com/texforge/resumed/internal/source"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.loadConfigAndLogger()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, log)
		},
	}
}

// runServe starts every configured component and blocks until ctx is done.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - cfg: Loaded configuration
//   - log: Configured logger
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func runServe(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	log.Info("starting resumed",
		"version", version,
		"commit", commit,
		"build_date", date,
		"instance_id", cfg.Service.InstanceID,
	)

	compiler := newCompiler(cfg, log)
	if path, err := latex.CheckToolchain(cfg.Render.Binary); err != nil {
		// History and health stay available; renders will return 503.
		log.Warn("LaTeX toolchain not found", "error", err)
	} else {
		log.Info("LaTeX toolchain found", "path", path)
	}

	checks := map[string]api.HealthChecker{"latex": compiler}
	renderOpts := render.Options{
		Compiler:    compiler,
		Layout:      resume.Options{DefaultName: cfg.Render.DefaultName},
		Concurrency: cfg.Render.Concurrency,
		Timeout:     cfg.RenderTimeout(),
		Logger:      log.With("component", "render"),
	}

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	historyRepo := history.NewSQLiteRepository(db.DB)
	renderOpts.Recorder = historyRepo
	checks["database"] = db

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		renderOpts.Publisher = mqtt.NewEventPublisher(mqttClient)
		checks["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(ctx, cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		renderOpts.Metrics = influxClient
		checks["influxdb"] = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	// Connect to the object store (optional)
	if cfg.ObjectStore.Enabled {
		store, storeErr := objectstore.Connect(ctx, cfg.ObjectStore)
		if storeErr != nil {
			return fmt.Errorf("connecting to object store: %w", storeErr)
		}
		log.Info("object store connected",
			"endpoint", cfg.ObjectStore.Endpoint,
			"bucket", store.Bucket(),
		)
		renderOpts.Archive = store
		checks["object_store"] = store
	} else {
		log.Info("object store disabled")
	}

	renderer := render.New(renderOpts)

	var fetcher api.Fetcher
	if cfg.Source.URL != "" {
		fetcher = source.New(cfg.Source.URL, cfg.SourceTimeout())
	}

	server, err := api.New(api.Deps{
		Config:       cfg.API,
		Security:     cfg.Security,
		WriteTimeout: cfg.GetWriteTimeout(),
		Logger:       log.With("component", "api"),
		Renderer:     renderer,
		Fetcher:      fetcher,
		History:      historyRepo,
		DB:           db,
		MQTT:         mqttClient,
		Checks:       checks,
		Version:      version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal",
		"address", cfg.Addr(),
		"concurrency", renderer.Concurrency(),
		"render_timeout", cfg.RenderTimeout(),
	)

	<-ctx.Done()

	// Deferred Close() calls run in reverse order:
	// API server, InfluxDB, MQTT, database.
	log.Info("shutdown signal received, cleaning up")
	return nil
}

// newCompiler builds the latexmk compiler from render settings.
// The render service owns the timeout, so the compiler has none of its own.
func newCompiler(cfg *config.Config, log *logging.Logger) *latex.Compiler {
	runner := process.NewRunner()
	runner.SetLogger(log.With("component", "latexmk"))
	return &latex.Compiler{
		Binary:      cfg.Render.Binary,
		Args:        cfg.Render.Args,
		Runner:      runner,
		WorkRoot:    cfg.Render.WorkRoot,
		KeepWorkDir: cfg.Render.KeepWorkDir,
	}
}

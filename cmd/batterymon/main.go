// Battery Monitor Core - battery telemetry aggregation service
//
// This is the main entry point for the Battery Monitor Core application.
// It watches every battery-powered device known to Home Assistant,
// aggregates the readings into a single OK/Problem summary, and exposes
// the result over MQTT and a local REST API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/nerrad567/battery-monitor-core/migrations"

	"github.com/nerrad567/battery-monitor-core/internal/api"
	"github.com/nerrad567/battery-monitor-core/internal/bridges/hass"
	"github.com/nerrad567/battery-monitor-core/internal/infrastructure/config"
	"github.com/nerrad567/battery-monitor-core/internal/infrastructure/database"
	"github.com/nerrad567/battery-monitor-core/internal/infrastructure/logging"
	"github.com/nerrad567/battery-monitor-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/battery-monitor-core/internal/monitor"
	"github.com/nerrad567/battery-monitor-core/internal/settings"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Battery Monitor Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

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
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise settings store
	store := settings.NewStore(settings.NewSQLiteRepository(db.DB))
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if err := seedSettings(ctx, store, cfg); err != nil {
		return fmt.Errorf("seeding settings: %w", err)
	}
	current, err := store.Get(ctx)
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	log.Info("settings loaded",
		"threshold", current.Threshold,
		"exclusions", len(current.ExcludedDeviceIDs),
	)

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

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled, snapshot available via API only")
	}

	var publisher monitor.Publisher
	if mqttClient != nil {
		publisher = monitor.NewMQTTPublisher(mqttClient)
	}

	// The bridge and monitor reference each other: the bridge's cache
	// updates trigger re-evaluation, and the monitor reads the bridge's
	// caches. mon is assigned before hassClient.Run starts, so the
	// callback never observes a nil monitor.
	var mon *monitor.Monitor
	trigger := debounced(cfg.GetDebounce(), func() {
		mon.Trigger()
	})

	hassClient, err := hass.New(hass.Options{
		URL:                   cfg.HomeAssistant.URL,
		Token:                 cfg.HomeAssistant.Token,
		HandshakeTimeout:      cfg.GetHandshakeTimeout(),
		RequestTimeout:        cfg.GetRequestTimeout(),
		ReconnectInitialDelay: time.Duration(cfg.HomeAssistant.Reconnect.InitialDelay) * time.Second,
		ReconnectMaxDelay:     time.Duration(cfg.HomeAssistant.Reconnect.MaxDelay) * time.Second,
		ReconnectMaxAttempts:  cfg.HomeAssistant.Reconnect.MaxAttempts,
		Logger:                log,
		OnUpdate:              trigger,
	})
	if err != nil {
		return fmt.Errorf("creating Home Assistant client: %w", err)
	}

	mon = monitor.New(hassClient, store, publisher, log)

	// Settings changes take effect on the next evaluation
	store.SetOnChange(mon.Trigger)

	// Remote refresh requests arrive over MQTT
	if mqttClient != nil {
		topic := mqtt.Topics{}.Refresh()
		err := mqttClient.Subscribe(topic, byte(cfg.MQTT.QoS), func(_ string, _ []byte) error {
			log.Debug("refresh requested via MQTT")
			mon.Trigger()
			return nil
		})
		if err != nil {
			return fmt.Errorf("subscribing to refresh topic: %w", err)
		}
		log.Info("subscribed to refresh requests", "topic", topic)
	}

	// Run the bridge and the evaluation loop
	hassErr := make(chan error, 1)
	go func() {
		hassErr <- hassClient.Run(ctx)
	}()
	go mon.Run(ctx)

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Monitor:  mon,
		Settings: store,
		MQTT:     mqttClient,
		Upstream: hassClient,
		DB:       db,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify infrastructure connections are healthy
	if err := healthCheck(ctx, db, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal or a fatal bridge error. Transient
	// connection drops are retried inside the bridge; Run only returns
	// on cancellation, rejected credentials, or exhausted attempts.
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, cleaning up")
	case err := <-hassErr:
		if ctx.Err() == nil {
			return fmt.Errorf("home assistant connection failed: %w", err)
		}
	}

	log.Info("Battery Monitor Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses BATTERYMON_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("BATTERYMON_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// seedSettings applies the configured default threshold on first start.
// Once an operator has saved settings, the database wins.
func seedSettings(ctx context.Context, store *settings.Store, cfg *config.Config) error {
	current, err := store.Get(ctx)
	if err != nil {
		return err
	}
	if !current.UpdatedAt.IsZero() {
		return nil
	}
	if cfg.Monitor.DefaultThreshold == current.Threshold {
		return nil
	}
	return store.SetThreshold(ctx, cfg.Monitor.DefaultThreshold)
}

// debounced wraps fn so that bursts of calls within the window collapse
// into a single trailing invocation. A zero window disables debouncing.
func debounced(window time.Duration, fn func()) func() {
	if window <= 0 {
		return fn
	}

	var mu sync.Mutex
	var timer *time.Timer

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer == nil {
			timer = time.AfterFunc(window, fn)
			return
		}
		timer.Reset(window)
	}
}

// healthCheck verifies infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	// Home Assistant connectivity is not part of startup health: the
	// bridge reconnects on its own and the monitor degrades while it
	// is away.

	return nil
}

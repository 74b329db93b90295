package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"retrobell/audio"
	"retrobell/input"
	"retrobell/internal"
	"retrobell/observability"
	"retrobell/repositories"
	"retrobell/repositories/storage"
	"retrobell/runtime"
	"retrobell/runtime/workers"
	"retrobell/signaling"
	"retrobell/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and centralizes error reporting, so
// every defer (database close, socket close) executes before the process
// exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Call history (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	callLog := repositories.NewCallLogRepository(db, log, config.LimitCalls)

	// 3. Peer link & signaling
	link, err := transport.NewUDPTransport(log, config.ListenPort, config.MulticastGroup)
	if err != nil {
		return fmt.Errorf("peer link failed: %w", err)
	}
	defer func() { _ = link.Close() }()

	directory := signaling.NewDirectory(config.DirectoryCapacity)
	monitoring := observability.NewMonitoringManager()
	service := signaling.NewService(log, config.PhoneNumber, link, directory, monitoring, config.EventBufferSize)

	// 4. Handset lines. Real GPIO would implement input.Line directly;
	// on a host the console harness drives SimLines instead.
	hook := input.NewSimLine(false)
	pulse := input.NewSimLine(true)
	active := input.NewSimLine(true)

	// 5. The phone itself
	phone := runtime.NewPhone(log, runtime.Options{
		Number:            config.PhoneNumber,
		Hook:              hook,
		RotaryPulse:       pulse,
		RotaryActive:      active,
		Tones:             audio.NewLogPlayer(log),
		Signaling:         service,
		Directory:         directory,
		HookDebounce:      config.HookDebounce,
		PulseDebounce:     config.PulseDebounce,
		DialSafetyTimeout: config.DialSafetyTimeout,
		DialTimeout:       config.DialTimeout,
		AnswerTimeout:     config.AnswerTimeout,
		PollInterval:      config.PollInterval,
		MaxDigits:         config.MaxDigits,
	})
	phone.RegisterSinks(
		runtime.NewLogSink(log),
		storage.NewCallLogSink(callLog, log),
	)

	// 6. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		phone,
		workers.NewDiscoveryWorker(log, service, config.DiscoveryInterval),
		workers.NewHealthWorker(log, monitoring, directory, config.HealthInterval),
	)
	if config.ConsoleInput {
		sup.Add(NewConsoleWorker(log, hook, pulse, active))
	}

	// 7. Optional web inspector over the call history
	if config.DebugPort > 0 {
		internal.StartDebugServer(db, config.DebugPort, func() map[string]any {
			stats := monitoring.Snapshot(directory.Count())
			return map[string]any{
				"Number":         config.PhoneNumber,
				"PeersKnown":     stats.PeersKnown,
				"FramesSent":     stats.FramesSent,
				"FramesReceived": stats.FramesReceived,
				"DecodeErrors":   stats.DecodeErrors,
			}
		})
		log.Info("Inspector started", "url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))
	}

	// 8. Run until a signal arrives
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("RetroBell starting", "number", config.PhoneNumber, "group", config.MulticastGroup)
	sup.Run(ctx)
	log.Info("Program stopped cleanly")

	return nil
}

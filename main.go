package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/itsmardochee/SmartFit-Coach/internal/api"
	"github.com/itsmardochee/SmartFit-Coach/internal/config"
	"github.com/itsmardochee/SmartFit-Coach/internal/db"
	"github.com/itsmardochee/SmartFit-Coach/internal/framesource"
	"github.com/itsmardochee/SmartFit-Coach/internal/pose"
	"github.com/itsmardochee/SmartFit-Coach/internal/report"
	"github.com/itsmardochee/SmartFit-Coach/internal/reps"
	"github.com/itsmardochee/SmartFit-Coach/internal/session"
	"github.com/itsmardochee/SmartFit-Coach/internal/timeutil"
	"github.com/itsmardochee/SmartFit-Coach/internal/units"
	"github.com/itsmardochee/SmartFit-Coach/internal/version"
)

var (
	//go:embed static/*
	staticFiles embed.FS

	devMode       = flag.Bool("dev", false, "Run in dev mode")
	listen        = flag.String("listen", ":8080", "Listen address")
	dbPath        = flag.String("db", "workouts.db", "Path to sqlite database")
	configPath    = flag.String("config", "", "Path to tuning config JSON (optional)")
	udpListen     = flag.String("udp-listen", ":9999", "UDP listen address for detector frames")
	fixturesPath  = flag.String("fixtures", "", "Replay NDJSON frames from file instead of listening")
	unitsFlag     = flag.String("units", "deg", "Angle units for API responses (deg or rad)")
	disableSource = flag.Bool("disable-source", false, "Run without a frame source")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

// handleFrame parses one NDJSON line and feeds it to the session manager.
// Parse failures and out-of-order frames are logged and dropped; a bad frame
// must never take down the pump.
func handleFrame(sessions *session.Manager, payload string) {
	frame, err := pose.ParseFrame([]byte(payload))
	if err != nil {
		log.Printf("dropping malformed frame: %v", err)
		return
	}

	if _, _, err := sessions.ProcessFrame(frame); err != nil {
		if errors.Is(err, reps.ErrFrameOutOfOrder) {
			log.Printf("dropping frame: %v", err)
			return
		}
		log.Printf("error processing frame: %v", err)
	}
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("smartfit-coach %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	// 'migrate' subcommand runs and exits before the server starts.
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		db.RunMigrateCommand(args[1:], *dbPath)
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	if !units.IsValid(*unitsFlag) {
		log.Fatalf("Invalid units %q, valid values are: %s", *unitsFlag, units.GetValidUnitsString())
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	source, err := framesource.New(framesource.Options{
		UDPAddr:      *udpListen,
		FixturesPath: *fixturesPath,
		Disabled:     *disableSource,
	})
	if err != nil {
		log.Fatalf("failed to create frame source: %v", err)
	}
	defer source.Close()

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	sessions := session.NewManager(cfg, database, timeutil.RealClock{})

	// Create a wait group for the HTTP server, source monitor, and frame
	// handler routines
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the frame source
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := source.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor frame source: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	// subscribe to the frame lines and pass them to the session manager
	wg.Add(1)
	go func() {
		defer wg.Done()
		id, c := source.Subscribe()
		defer source.Unsubscribe(id)
		for {
			select {
			case payload, ok := <-c:
				if !ok {
					log.Printf("frame channel closed")
					return
				}
				handleFrame(sessions, payload)
			case <-ctx.Done():
				log.Printf("frame routine terminated")
				return
			}
		}
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// mount the admin debugging routes (accessible only in dev mode or over Tailscale)
		database.AttachAdminRoutes(mux)
		source.AttachAdminRoutes(mux)
		report.AttachDebugRoutes(mux, database)

		// mount the API handlers
		apiMux := api.NewServer(sessions, database, *unitsFlag).ServeMux()
		mux.Handle("/api/", http.StripPrefix("/api", apiMux))

		// read static files from the embedded filesystem in production or from
		// the local ./static in dev for easier iteration without restarting the
		// server
		var staticHandler http.Handler
		if *devMode {
			staticHandler = http.FileServer(http.Dir("./static"))
		} else {
			staticHandler = http.FileServer(http.FS(staticFiles))
		}
		mux.Handle("/", staticHandler)

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	// Wait for all goroutines to finish
	wg.Wait()

	// persist any session still running at shutdown
	if sessions.Active() {
		if _, err := sessions.Stop(); err != nil {
			log.Printf("failed to save session on shutdown: %v", err)
		}
	}

	log.Printf("Graceful shutdown complete")
}

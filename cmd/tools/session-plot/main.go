// Command session-plot renders a stored session's per-rep depth to a PNG for
// offline review.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/itsmardochee/SmartFit-Coach/internal/config"
	"github.com/itsmardochee/SmartFit-Coach/internal/db"
	"github.com/itsmardochee/SmartFit-Coach/internal/report"
)

var (
	dbPath     = flag.String("db", "workouts.db", "Path to sqlite database")
	sessionID  = flag.String("session", "", "Session id to plot (default: most recent)")
	configPath = flag.String("config", "", "Path to tuning config JSON (optional)")
	output     = flag.String("o", "session.png", "Output PNG path")
)

func main() {
	flag.Parse()

	database, err := db.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	id := *sessionID
	if id == "" {
		sessions, err := database.Sessions(1)
		if err != nil {
			log.Fatalf("failed to list sessions: %v", err)
		}
		if len(sessions) == 0 {
			log.Fatal("no sessions in database")
		}
		id = sessions[0].SessionID
	}

	session, err := database.Session(id)
	if err != nil {
		log.Fatalf("failed to load session %s: %v", id, err)
	}
	reps, err := database.SessionReps(id)
	if err != nil {
		log.Fatalf("failed to load reps: %v", err)
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	var depth float64
	switch session.Exercise {
	case "pushup", "push-up":
		depth = cfg.GetPushupDepthThreshold()
	default:
		depth = cfg.GetSquatDepthThreshold()
	}

	if err := report.SaveSessionPlot(session, reps, depth, *output); err != nil {
		log.Fatalf("failed to render plot: %v", err)
	}

	stats := report.Compute(session, reps)
	fmt.Printf("session %s: %d reps, %d valid (%.0f%%), %.1f reps/min\n",
		session.SessionID, stats.RepCount, stats.ValidRepCount,
		stats.SuccessRate*100, stats.RepsPerMinute)
	fmt.Printf("wrote %s\n", *output)
}

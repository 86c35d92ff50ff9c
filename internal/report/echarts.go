package report

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/itsmardochee/SmartFit-Coach/internal/db"
)

// AttachDebugRoutes mounts the debugging chart endpoints. These render
// server-side HTML so a session can be eyeballed without the UI.
func AttachDebugRoutes(mux *http.ServeMux, database *db.DB) {
	mux.HandleFunc("/debug/charts/session", func(w http.ResponseWriter, r *http.Request) {
		handleSessionChart(w, r, database)
	})
}

// handleSessionChart renders a per-rep depth chart (HTML) for one session
// using go-echarts. Query params:
//   - id (required): session id
func handleSessionChart(w http.ResponseWriter, r *http.Request, database *db.DB) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing 'id' parameter", http.StatusBadRequest)
		return
	}

	session, err := database.Session(id)
	if err != nil {
		if db.IsNotFound(err) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to load session: %v", err), http.StatusInternalServerError)
		return
	}

	reps, err := database.SessionReps(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load reps: %v", err), http.StatusInternalServerError)
		return
	}
	if len(reps) == 0 {
		http.Error(w, "session has no reps", http.StatusNotFound)
		return
	}

	xAxis := make([]string, 0, len(reps))
	angles := make([]opts.LineData, 0, len(reps))
	durations := make([]opts.BarData, 0, len(reps))
	for _, rep := range reps {
		xAxis = append(xAxis, fmt.Sprintf("%d", rep.Sequence))
		angles = append(angles, opts.LineData{Value: rep.MinAngle})
		durations = append(durations, opts.BarData{Value: rep.Duration})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Session Depth", Theme: "dark", Width: "900px", Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s session %s", session.Exercise, session.SessionID),
			Subtitle: fmt.Sprintf("reps=%d valid=%d", session.RepCount, session.ValidRepCount),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "min angle (deg)"}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("min angle", angles)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "dark", Width: "900px", Height: "300px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Rep durations (ms)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xAxis)
	bar.AddSeries("duration", durations)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}
	if err := bar.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

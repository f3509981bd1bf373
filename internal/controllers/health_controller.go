package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"jumptimer/internal/services"
	"jumptimer/internal/speedrun"
)

type HealthController struct {
	driver    *speedrun.Driver
	templates services.TemplateServiceInterface
	records   services.RecordServiceInterface
	puzzles   services.PuzzleServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Session       string  `json:"session"`
	Templates     int     `json:"templates"`
	Records       int     `json:"records"`
	Puzzles       int     `json:"puzzles"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var state speedrun.State
	hc.driver.Do(func(m *speedrun.Machine) {
		state = m.State()
	})

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Session:       state.String(),
		Templates:     len(hc.templates.ListAll()),
		Records:       len(hc.records.ListAll()),
		Puzzles:       len(hc.puzzles.ListAll()),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(driver *speedrun.Driver, templates services.TemplateServiceInterface, records services.RecordServiceInterface, puzzles services.PuzzleServiceInterface) *HealthController {
	return &HealthController{
		driver:    driver,
		templates: templates,
		records:   records,
		puzzles:   puzzles,
		startTime: time.Now(),
	}
}

package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stcgauge/internal/stc3100"
)

type GaugeClient interface {
	ReadAll() (stc3100.Reading, error)
}

type BatteryResponse struct {
	Charge      float64 `json:"sensor.battery_charge_mah"`
	Level       float64 `json:"sensor.battery_level"`
	Voltage     float64 `json:"sensor.battery_voltage"`
	Current     float64 `json:"sensor.battery_current_ma"`
	Temperature float64 `json:"sensor.battery_temperature"`
	State       string  `json:"sensor.battery_state"`
	IsCharging  bool    `json:"sensor.is_charging"`
}

type Server struct {
	gauge GaugeClient
}

func Run(port int, gauge GaugeClient, reg prometheus.Gatherer) error {
	s := &Server{gauge: gauge}

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(reg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("Listening on %s", addr)
	return srv.ListenAndServe()
}

// Handler returns the routes; /metrics is mounted only when reg is non-nil.
func (s *Server) Handler(reg prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.rootHandler)
	if reg != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	if s.gauge == nil {
		http.Error(w, "no gauge configured", http.StatusServiceUnavailable)
		return
	}

	reading, err := s.gauge.ReadAll()
	if err != nil {
		log.Printf("Error reading STC3100: %v", err)
		http.Error(w, "failed to read gauge", http.StatusBadGateway)
		return
	}

	resp := BatteryResponse{
		Charge:      reading.ChargeMilliampHours,
		Level:       reading.ChargePercent,
		Voltage:     reading.Voltage,
		Current:     reading.Current,
		Temperature: reading.Temperature,
		State:       batteryState(reading.Current),
	}
	resp.IsCharging = resp.State == "Charging"

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Current flows into the battery when positive.
func batteryState(currentMA float64) string {
	switch {
	case currentMA > 0:
		return "Charging"
	case currentMA < 0:
		return "Discharging"
	default:
		return "Idle"
	}
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"stcgauge/internal/stc3100"
)

type MockGauge struct {
	Reading stc3100.Reading
	Err     error
}

func (m *MockGauge) ReadAll() (stc3100.Reading, error) {
	return m.Reading, m.Err
}

func TestRootHandler(t *testing.T) {
	tests := []struct {
		name           string
		gauge          *MockGauge
		expectedState  string
		expectedVol    float64
		expectedLevel  float64
		expectedCharge bool
	}{
		{
			name: "Charging",
			gauge: &MockGauge{Reading: stc3100.Reading{
				ChargeMilliampHours: 80,
				ChargePercent:       55,
				Voltage:             3.9,
				Current:             420,
				Temperature:         26,
			}},
			expectedState:  "Charging",
			expectedVol:    3.9,
			expectedLevel:  55,
			expectedCharge: true,
		},
		{
			name: "Discharging",
			gauge: &MockGauge{Reading: stc3100.Reading{
				ChargePercent: 40,
				Voltage:       3.7,
				Current:       -150,
			}},
			expectedState:  "Discharging",
			expectedVol:    3.7,
			expectedLevel:  40,
			expectedCharge: false,
		},
		{
			name: "Idle",
			gauge: &MockGauge{Reading: stc3100.Reading{
				ChargePercent: 100,
				Voltage:       4.2,
			}},
			expectedState:  "Idle",
			expectedVol:    4.2,
			expectedLevel:  100,
			expectedCharge: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Server{gauge: tt.gauge}

			req := httptest.NewRequest("GET", "/", nil)
			w := httptest.NewRecorder()

			s.rootHandler(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusOK {
				t.Errorf("Expected status 200, got %d", resp.StatusCode)
			}

			var br BatteryResponse
			if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if br.State != tt.expectedState {
				t.Errorf("Expected State %s, got %s", tt.expectedState, br.State)
			}
			if br.Level != tt.expectedLevel {
				t.Errorf("Expected Level %f, got %f", tt.expectedLevel, br.Level)
			}
			if br.Voltage != tt.expectedVol {
				t.Errorf("Expected Voltage %f, got %f", tt.expectedVol, br.Voltage)
			}
			if br.IsCharging != tt.expectedCharge {
				t.Errorf("Expected IsCharging %v, got %v", tt.expectedCharge, br.IsCharging)
			}
			if br.Current != tt.gauge.Reading.Current {
				t.Errorf("Expected Current %f, got %f", tt.gauge.Reading.Current, br.Current)
			}
		})
	}
}

func TestRootHandler_GaugeError(t *testing.T) {
	s := &Server{gauge: &MockGauge{Err: errors.New("i2c nack")}}

	w := httptest.NewRecorder()
	s.rootHandler(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
}

func TestRootHandler_NoGauge(t *testing.T) {
	s := &Server{}

	w := httptest.NewRecorder()
	s.rootHandler(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestHandler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "stc3100_test_gauge", Help: "test"})
	g.Set(1)
	reg.MustRegister(g)

	s := &Server{gauge: &MockGauge{}}
	srv := httptest.NewServer(s.Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "stc3100_test_gauge 1") {
		t.Errorf("metrics output missing test gauge:\n%s", body)
	}
}

package ambiclimate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func sensorServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/devices":
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"room_name": "Bedroom", "location_name": "Home", "device_id": "abc"},
				},
			})
		case "/device/sensor/temperature":
			json.NewEncoder(w).Encode(map[string]any{"value": 21.5})
		case "/device/sensor/humidity":
			json.NewEncoder(w).Encode(map[string]any{"value": 40.0})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
}

func TestMetricsCollector(t *testing.T) {
	server := sensorServer(t)
	defer server.Close()

	client, _ := NewClient("token", WithBaseURL(server.URL))
	collector := NewMetricsCollector(client)

	expected := `
		# HELP ambiclimate_scrape_success Last scrape success (1=ok, 0=error)
		# TYPE ambiclimate_scrape_success gauge
		ambiclimate_scrape_success 1
		# HELP ambiclimate_sensor_humidity_percent Latest sensor humidity per device
		# TYPE ambiclimate_sensor_humidity_percent gauge
		ambiclimate_sensor_humidity_percent{location="Home",room="Bedroom"} 40
		# HELP ambiclimate_sensor_temperature_celsius Latest sensor temperature per device
		# TYPE ambiclimate_sensor_temperature_celsius gauge
		ambiclimate_sensor_temperature_celsius{location="Home",room="Bedroom"} 21.5
	`

	if err := testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"ambiclimate_scrape_success",
		"ambiclimate_sensor_humidity_percent",
		"ambiclimate_sensor_temperature_celsius",
	); err != nil {
		t.Fatal(err)
	}
}

func TestMetricsCollector_DiscoversLazily(t *testing.T) {
	server := sensorServer(t)
	defer server.Close()

	client, _ := NewClient("token", WithBaseURL(server.URL))
	if got := len(client.Devices()); got != 0 {
		t.Fatalf("got %d devices before scrape, want 0", got)
	}

	collector := NewMetricsCollector(client)
	if got := testutil.CollectAndCount(collector); got == 0 {
		t.Fatal("collector produced no metrics")
	}

	if got := len(client.Devices()); got != 1 {
		t.Errorf("got %d devices after scrape, want 1", got)
	}
}

func TestMetricsCollector_ScrapeFailure(t *testing.T) {
	client, _ := NewClient("token", WithHTTPClient(&http.Client{Transport: &errorTransport{}}))
	collector := NewMetricsCollector(client)

	expected := `
		# HELP ambiclimate_scrape_success Last scrape success (1=ok, 0=error)
		# TYPE ambiclimate_scrape_success gauge
		ambiclimate_scrape_success 0
	`

	if err := testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"ambiclimate_scrape_success",
	); err != nil {
		t.Fatal(err)
	}
}

package ambiclimate

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// defaultScrapeTimeout bounds one Collect pass across all devices.
const defaultScrapeTimeout = 10 * time.Second

// MetricsCollector is a prometheus.Collector exposing per-device sensor
// readings. Each Collect pass reads the sensors of every discovered device;
// discovery runs lazily when the client's device cache is empty.
type MetricsCollector struct {
	client        *Client
	scrapeTimeout time.Duration

	temperature *prometheus.GaugeVec
	humidity    *prometheus.GaugeVec
	lastSuccess prometheus.Gauge
	success     prometheus.Gauge
}

// NewMetricsCollector creates a collector reading sensors through client.
func NewMetricsCollector(client *Client) *MetricsCollector {
	labels := []string{"room", "location"}
	return &MetricsCollector{
		client:        client,
		scrapeTimeout: defaultScrapeTimeout,
		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ambiclimate_sensor_temperature_celsius",
			Help: "Latest sensor temperature per device",
		}, labels),
		humidity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ambiclimate_sensor_humidity_percent",
			Help: "Latest sensor humidity per device",
		}, labels),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ambiclimate_last_success_timestamp_seconds",
			Help: "Last fully successful scrape timestamp (epoch seconds)",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ambiclimate_scrape_success",
			Help: "Last scrape success (1=ok, 0=error)",
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	c.temperature.Describe(ch)
	c.humidity.Describe(ch)
	c.lastSuccess.Describe(ch)
	c.success.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.scrapeTimeout)
	defer cancel()

	devices := c.client.Devices()
	if len(devices) == 0 {
		if !c.client.FindDevices(ctx) {
			c.success.Set(0)
			c.collectAll(ch)
			return
		}
		devices = c.client.Devices()
	}

	c.temperature.Reset()
	c.humidity.Reset()

	ok := true
	for _, device := range devices {
		labels := prometheus.Labels{
			"room":     device.RoomName,
			"location": device.LocationName,
		}
		if temp, found := device.GetSensorTemperature(ctx); found {
			c.temperature.With(labels).Set(temp)
		} else {
			ok = false
		}
		if humidity, found := device.GetSensorHumidity(ctx); found {
			c.humidity.With(labels).Set(humidity)
		} else {
			ok = false
		}
	}

	if ok {
		c.success.Set(1)
		c.lastSuccess.Set(float64(time.Now().Unix()))
	} else {
		c.success.Set(0)
	}

	c.collectAll(ch)
}

func (c *MetricsCollector) collectAll(ch chan<- prometheus.Metric) {
	c.temperature.Collect(ch)
	c.humidity.Collect(ch)
	c.lastSuccess.Collect(ch)
	c.success.Collect(ch)
}

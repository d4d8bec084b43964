package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/climatehub/ambiclimate-go"
)

var (
	logger *zap.Logger
	sugar  *zap.SugaredLogger
)

func initLogger() {
	logger, _ = zap.NewProduction()
	sugar = logger.Sugar()
}

func initConfig() {
	viper.SetDefault("api.timeout", 10)
	viper.SetDefault("api.retries", 3)
	viper.SetDefault("metrics.port", 9265)

	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("ambi")
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		sugar.Infof("no config file found, using defaults and environment: %v", err)
	}
}

func main() {
	initLogger()
	defer logger.Sync()
	initConfig()

	token := viper.GetString("api.token")
	if token == "" {
		sugar.Fatal("api.token (or AMBI_API_TOKEN) must be set")
	}

	clientLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	client, err := ambiclimate.NewClient(token,
		ambiclimate.WithTimeout(time.Duration(viper.GetInt("api.timeout"))*time.Second),
		ambiclimate.WithRetries(viper.GetInt("api.retries")),
		ambiclimate.WithLogger(clientLogger),
	)
	if err != nil {
		sugar.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if client.FindDevices(ctx) {
		for _, device := range client.Devices() {
			sugar.Infof("found device %s in %s/%s", device.DeviceID, device.LocationName, device.RoomName)
		}
	} else {
		sugar.Warn("no devices discovered, will retry on scrape")
	}
	cancel()

	sugar.Info("registering metrics")
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewBuildInfoCollector())
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(ambiclimate.NewMetricsCollector(client))

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	addr := ":" + viper.GetString("metrics.port")
	sugar.Infof("metrics served at %v/metrics", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		sugar.Fatal(err)
	}
}

package main

import (
	"context"
	"flag"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/calmh/baropi/baro"
	"github.com/calmh/baropi/bmp280"
	"github.com/calmh/baropi/config"
	"github.com/calmh/baropi/i2c"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfgFile := flag.String("config", "baropi.yaml", "Configuration file")
	device := flag.String("device", "", "I2C device (overrides config)")
	promaddr := flag.String("prometheus", "", "Prometheus exporter address (overrides config)")
	window := flag.Duration("window", time.Minute, "Averaging window")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalln("load config:", err)
	}
	if *device != "" {
		cfg.Bus.Device = *device
	}
	if *promaddr != "" {
		cfg.Prometheus.Listen = *promaddr
	}

	bus, closeBus, err := i2c.Open(cfg.Bus.Backend, cfg.Bus.Device)
	if err != nil {
		log.Fatalln("open bus:", err)
	}
	defer closeBus()

	opts, err := cfg.Opts()
	if err != nil {
		log.Fatalln("sensor options:", err)
	}
	dev, err := bmp280.New(bus, opts)
	if err != nil {
		log.Fatalln("init BMP280:", err)
	}

	sampler := baro.NewSampler(dev, cfg.Sample.Interval)
	avg := NewWindow(*window, cfg.Sample.Interval)
	sampler.OnReading(avg.Add)

	go func() {
		if err := sampler.Serve(context.Background()); err != nil {
			log.Fatalln("bmp280:", err)
		}
	}()

	servePrometheus(cfg.Prometheus.Listen, sampler, avg)
}

func servePrometheus(addr string, sampler *baro.Sampler, avg *Window) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "pressure_pascals",
	}, func() float64 {
		r, ok := latest(sampler)
		if !ok {
			return math.NaN()
		}
		return float64(r.Pressure)
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "temperature_celsius",
	}, func() float64 {
		r, ok := latest(sampler)
		if !ok {
			return math.NaN()
		}
		return round(r.Celsius(), 2)
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "pressure_avg_pascals",
	}, func() float64 {
		return round(avg.MeanPressure(), 1)
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "pressure_spread_pascals",
	}, func() float64 {
		return avg.Spread()
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "reading_age_seconds",
	}, func() float64 {
		r, ok := latest(sampler)
		if !ok {
			return math.NaN()
		}
		return time.Since(r.Time).Seconds()
	})

	promauto.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "cycles_total",
	}, func() float64 {
		cycles, _ := sampler.Stats()
		return float64(cycles)
	})

	promauto.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "cycle_errors_total",
	}, func() float64 {
		_, failures := sampler.Stats()
		return float64(failures)
	})

	http.Handle("/metrics", promhttp.Handler())
	log.Println("serving metrics on", addr)
	log.Fatalln(http.ListenAndServe(addr, nil))
}

// latest returns the last good reading; ok is false until there is one.
func latest(sampler interface{ Latest() (baro.Reading, error) }) (baro.Reading, bool) {
	r, _ := sampler.Latest()
	return r, !r.Time.IsZero()
}

func round(x float64, prec int) float64 {
	pow := math.Pow10(prec)
	return math.Round(x*pow) / pow
}

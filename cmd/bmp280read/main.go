package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/calmh/baropi/baro"
	"github.com/calmh/baropi/bmp280"
	"github.com/calmh/baropi/config"
	"github.com/calmh/baropi/i2c"
	"github.com/calmh/baropi/mqttpub"
)

func main() {
	cfgFile := flag.String("config", "baropi.yaml", "Configuration file")
	device := flag.String("device", "", "I2C device (overrides config)")
	interval := flag.Duration("interval", 0, "Interval between measurements (overrides config)")
	buffer := flag.Bool("buffer", false, "Use output buffering")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalln("load config:", err)
	}
	if *device != "" {
		cfg.Bus.Device = *device
	}
	if *interval > 0 {
		cfg.Sample.Interval = *interval
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
	log.Printf("%v, conversion latency %v", dev, dev.PressureLatency())

	sampler := baro.NewSampler(dev, cfg.Sample.Interval)

	out := io.Writer(os.Stdout)
	if *buffer {
		bw := bufio.NewWriter(out)
		defer bw.Flush()
		out = bw
	}
	enc := json.NewEncoder(out)
	decimals := cfg.Sample.Decimals
	sampler.OnReading(func(r baro.Reading) {
		enc.Encode(map[string]interface{}{
			"when":                 r.Time,
			"bmp280_pressure_hpa":  round(r.PressureHPa(), decimals),
			"bmp280_temperature_c": round(r.Celsius(), decimals),
			"bmp280_pressure_pa":   r.Pressure,
			"bmp280_temp_centi_c":  r.Temperature,
		})
	})

	if cfg.MQTT.Broker != "" {
		pub, err := mqttpub.Connect(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic, cfg.MQTT.QoS)
		if err != nil {
			log.Fatalln("mqtt:", err)
		}
		defer pub.Close()
		sampler.OnReading(func(r baro.Reading) {
			if err := pub.Publish(r); err != nil {
				log.Println("mqtt:", err)
			}
		})
		log.Println("publishing to", cfg.MQTT.Broker, cfg.MQTT.Topic)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := sampler.Serve(ctx); err != nil && ctx.Err() == nil {
		log.Println("bmp280:", err)
	}
}

// round returns the half away from zero rounded value of x with prec precision.
//
// Special cases are:
// 	Round(±0) = +0
// 	Round(±Inf) = ±Inf
// 	Round(NaN) = NaN
func round(x float64, prec int) float64 {
	if x == 0 {
		// Make sure zero is returned
		// without the negative bit set.
		return 0
	}
	// Fast path for positive precision on integers.
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	intermed := x * pow
	if math.IsInf(intermed, 0) {
		return x
	}
	if x < 0 {
		x = math.Ceil(intermed - 0.5)
	} else {
		x = math.Floor(intermed + 0.5)
	}

	if x == 0 {
		return 0
	}

	return x / pow
}

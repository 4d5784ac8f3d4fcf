package main

import (
	"flag"
	"log"

	"FinSight/internal/di"
	"FinSight/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("finsight: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}
	log.Printf("starting env=%s clickhouse=%s:%d brokers=%v",
		cfg.Environment, cfg.ClickHouse.Host, cfg.ClickHouse.Port, cfg.Kafka.Brokers)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return err
	}

	// Blocks until SIGINT/SIGTERM.
	return app.Run()
}

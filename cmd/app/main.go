package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"CapLens/internal/di"
	"CapLens/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config")
	check := flag.Bool("check", false, "validate config and catalog, then exit")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *check {
		cat, err := di.ProvideCatalog(cfg)
		if err != nil {
			log.Fatalf("catalog: %v", err)
		}
		fmt.Printf("ok: catalog %s, %d companies, %d event buckets\n",
			cat.Version(), len(cat.Companies()), len(cat.Buckets()))
		return
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("initialize: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Printf("run: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"log"
	"net/http"

	"github.com/terraforge-gg/terraforge/internal/config"
	"github.com/terraforge-gg/terraforge/internal/web"
)

func main() {
	cfg, err := config.LoadWeb()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	server, err := web.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	log.Printf("Frontend listening on port :%s...", cfg.HostPort)
	if err := http.ListenAndServe("0.0.0.0:"+cfg.HostPort, server.Routes()); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

package main

import (
	"log"
	"net/http"
	"os"

	"photo-gallery-app/internal/config"
	"photo-gallery-app/internal/gallery"
	"photo-gallery-app/internal/server"
	"photo-gallery-app/internal/storage"
	ws "photo-gallery-app/internal/websocket"
)

func main() {
	cfg, err := config.Load("config/app.yaml")
	if err != nil {
		log.Printf("Failed to load config: %v, using defaults", err)
		cfg = config.Default()
	}

	db, err := storage.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.Bootstrap(cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	manager, err := gallery.NewManager(cfg.UploadDir, cfg.ThumbnailDir)
	if err != nil {
		log.Fatalf("Failed to initialize gallery: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	srv := server.New(db, manager, hub, cfg.SessionSecret)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Photo Gallery starting on http://localhost:%s", port)
	log.Fatal(http.ListenAndServe(":"+port, srv.Router()))
}

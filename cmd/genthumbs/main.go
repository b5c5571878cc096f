// Command genthumbs backfills missing thumbnails for images already in the
// upload directory.
package main

import (
	"log"

	"photo-gallery-app/internal/config"
	"photo-gallery-app/internal/gallery"
)

func main() {
	cfg, err := config.Load("config/app.yaml")
	if err != nil {
		log.Printf("Failed to load config: %v, using defaults", err)
		cfg = config.Default()
	}

	manager, err := gallery.NewManager(cfg.UploadDir, cfg.ThumbnailDir)
	if err != nil {
		log.Fatalf("Failed to initialize gallery: %v", err)
	}

	images, err := manager.ListAssets()
	if err != nil {
		log.Fatalf("Failed to list images: %v", err)
	}

	generated := 0
	for _, name := range images {
		if manager.HasThumbnail(name) {
			continue
		}
		if err := manager.GenerateThumbnail(name); err != nil {
			log.Printf("Error generating thumbnail for %s: %v", name, err)
			continue
		}
		log.Printf("Generated thumbnail for %s", name)
		generated++
	}
	log.Printf("Done: %d thumbnails generated for %d images", generated, len(images))
}

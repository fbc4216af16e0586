package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/course"
	"github.com/playmatatu/minigolf/internal/database"
	"github.com/playmatatu/minigolf/internal/tracks"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	dir := flag.String("dir", cfg.TrackDir, "directory holding *.track files")
	dryRun := flag.Bool("dry-run", false, "parse files without storing them")
	flag.Parse()

	files, err := findTrackFiles(*dir)
	if err != nil {
		log.Fatalf("Failed to list %s: %v", *dir, err)
	}
	if len(files) == 0 {
		log.Printf("[TRACKS] No .track files in %s", *dir)
		return
	}

	var repo *tracks.Repository
	if !*dryRun {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		repo = tracks.NewRepository(db)
	}

	ctx := context.Background()
	var imported, skipped, failed int
	for _, path := range files {
		raw, track, err := loadTrackFile(path, cfg.MaxTrackBytes)
		if err != nil {
			log.Printf("[TRACKS] %s: %v", path, err)
			failed++
			continue
		}
		if repo == nil {
			log.Printf("[TRACKS] %s: ok (%q by %s)", path, track.Name, track.Author)
			imported++
			continue
		}

		id, err := repo.InsertTrack(ctx, track, raw)
		switch {
		case errors.Is(err, tracks.ErrDuplicate):
			log.Printf("[TRACKS] %s: already imported", path)
			skipped++
		case err != nil:
			log.Printf("[TRACKS] %s: store failed: %v", path, err)
			failed++
		default:
			log.Printf("[TRACKS] %s: stored as track %d", path, id)
			imported++
		}
	}

	log.Printf("[TRACKS] Import done: %d imported, %d skipped, %d failed", imported, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func findTrackFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.track"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func loadTrackFile(path string, maxBytes int) (string, *course.Track, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, err
	}
	if maxBytes > 0 && info.Size() > int64(maxBytes) {
		return "", nil, errors.New("file exceeds MAX_TRACK_BYTES")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	raw := string(data)
	track, err := course.ParseTrackString(raw)
	if err != nil {
		return "", nil, err
	}
	return raw, track, nil
}

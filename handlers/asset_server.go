package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AssetServer serves stored uploads from the media storage root. It expects
// to be mounted at a wildcard route whose prefix is routePrefix, e.g.
//
//	r.Get("/uploads/*", handlers.AssetServer(cfg.MediaStoragePath, "/uploads/"))
func AssetServer(baseStoragePath, routePrefix string) http.HandlerFunc {
	cleanBase := filepath.Clean(baseStoragePath)

	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, routePrefix)

		if relativePath == "" || strings.Contains(relativePath, "..") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		requestedAssetPath := filepath.Join(cleanBase, relativePath)
		cleanedAssetPath := filepath.Clean(requestedAssetPath)

		if !strings.HasPrefix(cleanedAssetPath, cleanBase+string(os.PathSeparator)) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			log.Printf("SECURITY: Attempted asset access outside storage root: Request='%s', Resolved='%s'",
				r.URL.Path, cleanedAssetPath)
			return
		}

		if info, err := os.Stat(cleanedAssetPath); os.IsNotExist(err) || (err == nil && info.IsDir()) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error stating asset file %s: %v", cleanedAssetPath, err)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, cleanedAssetPath)
	}
}

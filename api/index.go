package handler

import (
	"net/http"

	garmentlyhttp "github.com/garmently/garmently/http"
)

// Handler is the entry point for Vercel serverless functions.
func Handler(w http.ResponseWriter, r *http.Request) {
	garmentlyhttp.ServerlessHandler(w, r)
}

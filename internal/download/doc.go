// Package download turns download jobs into yt-dlp runs (via github.com/lrstanley/go-ytdlp).
// It manages the task lifecycle, the parallelism limit, retries, playlist expansion
// and progress propagation to the UI.
package download

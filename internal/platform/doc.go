// Package platform holds the OS-facing helpers: download directories, revealing files,
// locating yt-dlp/ffmpeg, and reading video and playlist metadata through yt-dlp.
package platform

// Package updater keeps the external yt-dlp binary current and checks GitHub
// for newer application releases.
package updater

// Package ui contains the Fyne desktop interface: the download form with preview,
// the task list, history and settings tabs, and the dependency setup dialog.
// Service callbacks arrive on background goroutines and are marshalled with fyne.Do.
package ui

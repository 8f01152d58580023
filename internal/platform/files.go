package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	WindowsCmdFlag     = "/c"
)

// LinuxFileManagers are tried in order when xdg-open fails
var LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}

// PartialExtensions mark files yt-dlp is still writing
var PartialExtensions = []string{".part", ".ytdl", ".temp"}

// MaxNameDifference is how many characters a truncated file name may differ by
const MaxNameDifference = 10

// ErrNotWritable is returned when the download directory cannot be written
var ErrNotWritable = errors.New("directory is not writable")

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// EnsureWritableDir creates dirPath when missing and verifies a file can be created in it
func EnsureWritableDir(dirPath string) error {
	if strings.TrimSpace(dirPath) == "" {
		return fmt.Errorf("%w: empty path", ErrNotWritable)
	}
	if err := CreateDirectoryIfNotExists(dirPath); err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrNotWritable, dirPath)
	}

	probe, err := os.CreateTemp(dirPath, ".clip-write-test-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// OpenFolder opens a directory in the system file manager
func OpenFolder(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("folder does not exist: %w", err)
	}
	if !info.IsDir() {
		dirPath = filepath.Dir(dirPath)
	}

	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, absPath).Run()
	case OSLinux:
		return openDirLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// OpenFileInManager opens the file in the system file manager and highlights it
func OpenFileInManager(filePath string) error {
	foundPath, err := FindFileWithFallback(filePath)
	if err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	absPath, err := filepath.Abs(foundPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		// file selection is not standardized on Linux
		return openDirLinux(filepath.Dir(absPath))
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

func openDirLinux(dir string) error {
	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}

// OpenFileWithDefaultApp opens the file with the default system application
func OpenFileWithDefaultApp(filePath string) error {
	foundPath, err := FindFileWithFallback(filePath)
	if err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	absPath, err := filepath.Abs(foundPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", absPath).Run()
	case OSLinux:
		return exec.Command(XDGOpenCommand, absPath).Run()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// FindFileWithFallback returns filePath when it exists. Otherwise it looks in the same
// directory for a file with the same extension and a similar name (yt-dlp may sanitize
// or truncate titles), and finally for the newest finished file with that extension.
func FindFileWithFallback(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}

	if strings.HasPrefix(filePath, "http") {
		return "", fmt.Errorf("file path appears to be a URL: %s", filePath)
	}

	if !strings.ContainsAny(filePath, `/\`) {
		return "", fmt.Errorf("file path does not contain path separators: %s", filePath)
	}

	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil
	}

	dir := filepath.Dir(filePath)
	originalName := filepath.Base(filePath)
	originalExt := filepath.Ext(originalName)
	baseName := strings.TrimSuffix(originalName, originalExt)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var similar, sameExt []string
	for _, entry := range entries {
		if entry.IsDir() || isPartialFile(entry.Name()) {
			continue
		}

		entryName := entry.Name()
		entryExt := filepath.Ext(entryName)
		if entryExt != originalExt {
			continue
		}

		full := filepath.Join(dir, entryName)
		if isSimilarFileName(strings.TrimSuffix(entryName, entryExt), baseName) {
			similar = append(similar, full)
		}
		sameExt = append(sameExt, full)
	}

	if len(similar) > 0 {
		sort.Strings(similar)
		return similar[0], nil
	}

	if len(sameExt) > 0 {
		sort.Slice(sameExt, func(i, j int) bool {
			infoI, errI := os.Stat(sameExt[i])
			infoJ, errJ := os.Stat(sameExt[j])
			if errI != nil || errJ != nil {
				return false
			}
			return infoI.ModTime().After(infoJ.ModTime())
		})
		return sameExt[0], nil
	}

	return "", fmt.Errorf("file not found: %s", filePath)
}

func isPartialFile(name string) bool {
	for _, ext := range PartialExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isSimilarFileName checks if two file names are similar enough to be considered the same file
func isSimilarFileName(name1, name2 string) bool {
	clean1 := normalizeName(name1)
	clean2 := normalizeName(name2)

	if clean1 == clean2 {
		return true
	}

	// truncated names
	if strings.Contains(clean1, clean2) || strings.Contains(clean2, clean1) {
		diff := len(clean1) - len(clean2)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}

	return false
}

// normalizeName folds the separators yt-dlp substitutes in restricted mode
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, name)
}

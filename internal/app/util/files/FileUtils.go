package files

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// MaxAudioSize is the largest audio upload accepted, in bytes.
	MaxAudioSize int64 = 50 * 1024 * 1024

	// MaxAvatarSize is the largest avatar image accepted, in bytes.
	MaxAvatarSize int64 = 2 * 1024 * 1024

	// AcceptTypes is the accept attribute clients should offer in file pickers.
	AcceptTypes = "audio/*,.mp3,.wav,.m4a,.flac,.ogg"
)

// ValidExtensions lists the audio extensions accepted for transcription.
var ValidExtensions = []string{".mp3", ".wav", ".m4a", ".flac", ".ogg"}

const (
	ErrUnsupportedFormat = "Formato não suportado. Use: MP3, WAV, M4A, FLAC ou OGG"
	ErrFileTooLarge      = "Arquivo muito grande. Máximo: 50MB"
)

// ValidationResult lists every reason a file was rejected.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

// Error joins the rejection reasons, or returns "" for a valid file.
func (r ValidationResult) Error() string {
	return strings.Join(r.Errors, "; ")
}

// ValidateAudioFile checks the extension and byte length only; the content
// is never inspected.
func ValidateAudioFile(name string, size int64) ValidationResult {
	var errs []string

	if !HasValidExtension(name) {
		errs = append(errs, ErrUnsupportedFormat)
	}
	if size > MaxAudioSize {
		errs = append(errs, ErrFileTooLarge)
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// HasValidExtension reports whether name ends in an accepted audio extension.
func HasValidExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, valid := range ValidExtensions {
		if ext == valid {
			return true
		}
	}
	return false
}

// ValidateLocalAudioFile stats path and validates it like an upload.
func ValidateLocalAudioFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if result := ValidateAudioFile(info.Name(), info.Size()); !result.IsValid {
		return nil, fmt.Errorf("%s", result.Errors[0])
	}
	return info, nil
}

// GetProjectRoot walks up from this source file to the directory holding go.mod.
func GetProjectRoot() (string, error) {
	_, filename, _, _ := runtime.Caller(0)
	return findGoModRoot(filename)
}

// DataDir returns dir when set, else <project root>/data.
func DataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	root, err := GetProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "data"), nil
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func findGoModRoot(path string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, nil
		}
		newPath := filepath.Dir(path)
		if newPath == path {
			return "", fmt.Errorf("go.mod not found")
		}
		path = newPath
	}
}

// Package artifacts validates the files the pipeline stages exchange:
// NumPy arrays, mu/sigma statistics archives, model checkpoints and
// image directories.
package artifacts

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

// npyMagic is the NumPy array file signature.
var npyMagic = []byte("\x93NUMPY")

// imageExtensions matches the extension set the statistics tool scans for.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// CheckNPY verifies that path is a NumPy .npy array file.
func CheckNPY(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryNotFound).
			FileContext(path, -1).
			Build()
	}
	defer f.Close()

	header := make([]byte, len(npyMagic))
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return errors.Newf("reading npy header: %w", err).
			Category(errors.CategoryArtifact).
			FileContext(path, -1).
			Build()
	}
	if n < len(npyMagic) || string(header) != string(npyMagic) {
		return errors.Newf("%s is not a NumPy array file", path).
			Category(errors.CategoryArtifact).
			FileContext(path, -1).
			Build()
	}
	return nil
}

// CheckNPZ verifies that path is a statistics archive holding the mu and
// sigma arrays the evaluation tools expect.
func CheckNPZ(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return errors.Newf("opening stats archive %s: %w", path, err).
			Category(errors.CategoryArtifact).
			FileContext(path, -1).
			Build()
	}
	defer r.Close()

	found := map[string]bool{}
	for _, f := range r.File {
		found[f.Name] = true
	}
	for _, name := range []string{"mu.npy", "sigma.npy"} {
		if !found[name] {
			return errors.Newf("stats archive %s is missing %s", path, name).
				Category(errors.CategoryArtifact).
				FileContext(path, -1).
				Build()
		}
	}
	return nil
}

// CheckCheckpoint verifies that path looks like a usable model checkpoint.
// Modern .pth checkpoints are zip containers; legacy pickle checkpoints
// pass on being non-empty.
func CheckCheckpoint(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryNotFound).
			FileContext(path, -1).
			Build()
	}
	if info.IsDir() {
		return errors.Newf("checkpoint path %s is a directory", path).
			Category(errors.CategoryArtifact).
			Build()
	}
	if info.Size() == 0 {
		return errors.Newf("checkpoint %s is empty", path).
			Category(errors.CategoryArtifact).
			FileContext(path, 0).
			Build()
	}

	if r, err := zip.OpenReader(path); err == nil {
		r.Close()
	}
	return nil
}

// CountImages returns the number of image files directly inside dir.
func CountImages(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.New(err).
			Category(errors.CategoryNotFound).
			Context("dir", dir).
			Build()
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if imageExtensions[ext] {
			count++
		}
	}
	return count, nil
}

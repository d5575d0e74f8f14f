package dataset

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

// CopyReport accounts for the outcome of an image copy pass.
type CopyReport struct {
	Copied  int
	Missing int
}

// CopyImages copies the selected images from srcDir into dstDir. Missing
// source files are counted, not fatal; a missing source directory is.
// Modification times are preserved so downstream tools see stable inputs.
func CopyImages(ctx context.Context, sel Selection, srcDir, dstDir string, log *slog.Logger) (CopyReport, error) {
	var report CopyReport

	if _, err := os.Stat(srcDir); err != nil {
		return report, errors.New(err).
			Category(errors.CategoryNotFound).
			Context("source_dir", srcDir).
			Build()
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return report, errors.New(err).
			Category(errors.CategoryFileIO).
			Context("dir", dstDir).
			Build()
	}

	for i, item := range sel {
		if err := ctx.Err(); err != nil {
			return report, errors.New(err).
				Category(errors.CategoryCancellation).
				Context("copied", report.Copied).
				Build()
		}

		src := filepath.Join(srcDir, item.Filename)
		dst := filepath.Join(dstDir, item.Filename)

		if err := copyFile(src, dst); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				report.Missing++
				continue
			}
			return report, errors.New(err).
				Category(errors.CategoryFileIO).
				FileContext(src, -1).
				Build()
		}
		report.Copied++

		if report.Copied%10 == 0 || i == len(sel)-1 {
			log.Info("copy progress", "copied", report.Copied, "total", len(sel))
		}
	}

	return report, nil
}

// copyFile copies src to dst and carries over the source modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSelection() Selection {
	return Selection{
		{ImageID: "00000", ImageNumber: 0, Filename: "00000.png", AgeGroup: "0-2", AgeGroupConfidence: 0.93, Gender: "female", GenderConfidence: 0.99},
		{ImageID: "00003", ImageNumber: 3, Filename: "00003.png", AgeGroup: "0-2", AgeGroupConfidence: 0.91, Gender: "female", GenderConfidence: 0.95},
		{ImageID: "00007", ImageNumber: 7, Filename: "00007.png", AgeGroup: "0-2", AgeGroupConfidence: 0.88, Gender: "male", GenderConfidence: 0.97},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	sel := testSelection()

	csvPath, err := WriteManifest(sel, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "image_id,image_number,filename,age_group,age_group_confidence,gender,gender_confidence", lines[0])
	assert.Equal(t, "00000,0,00000.png,0-2,0.93,female,0.99", lines[1])

	ids, err := os.ReadFile(filepath.Join(dir, IDListFileName))
	require.NoError(t, err)
	assert.Equal(t, "00000\n00003\n00007\n", string(ids))
}

func TestCopyImages(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	sel := testSelection()

	// Stage two of three source images; 00003.png stays missing.
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "00000.png"), []byte("png-0"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "00007.png"), []byte("png-7"), 0o644))

	report, err := CopyImages(context.Background(), sel, srcDir, dstDir, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Copied)
	assert.Equal(t, 1, report.Missing)

	copied, err := os.ReadFile(filepath.Join(dstDir, "00007.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-7", string(copied))
	assert.NoFileExists(t, filepath.Join(dstDir, "00003.png"))
}

func TestCopyImagesMissingSourceDir(t *testing.T) {
	_, err := CopyImages(context.Background(), testSelection(),
		filepath.Join(t.TempDir(), "does-not-exist"), t.TempDir(), discardLogger())
	assert.Error(t, err)
}

func TestCopyImagesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "00000.png"), []byte("x"), 0o644))

	_, err := CopyImages(ctx, testSelection(), srcDir, t.TempDir(), discardLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

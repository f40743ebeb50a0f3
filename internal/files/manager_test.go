package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcellcli/internal/config"
)

func setupTestManager(t *testing.T) (*Manager, *config.Layout) {
	t.Helper()
	layout, err := config.NewLayout(t.TempDir())
	require.NoError(t, err)
	return NewManager(layout, nil), layout
}

func TestManager_EnsureDirectory(t *testing.T) {
	m, layout := setupTestManager(t)

	require.NoError(t, m.EnsureDirectory("summary"))
	assert.DirExists(t, layout.SummaryDir)
	assert.NoDirExists(t, layout.FiguresDir)
	assert.Same(t, layout, m.Layout())
}

func TestManager_WriteAtomic(t *testing.T) {
	m, layout := setupTestManager(t)
	path := layout.FolderSummaryPath()

	err := m.WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "first")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	// overwrite
	require.NoError(t, m.WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "second")
		return err
	}))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(layout.SummaryDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestManager_WriteAtomic_FailureKeepsPrevious(t *testing.T) {
	m, layout := setupTestManager(t)
	path := filepath.Join(layout.TempDir, config.TempWorkbookName)

	require.NoError(t, m.WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "good")
		return err
	}))

	boom := errors.New("disk full")
	err := m.WriteAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "half")
		return boom
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "good", string(data))

	entries, err := os.ReadDir(layout.TempDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestManager_WriteAtomic_RelativePath(t *testing.T) {
	m, layout := setupTestManager(t)

	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("figures/plot-%d.png", i)
		require.NoError(t, m.WriteAtomic(name, func(w io.Writer) error { return nil }))
	}
	assert.FileExists(t, filepath.Join(layout.FiguresDir, "plot-2.png"))
}

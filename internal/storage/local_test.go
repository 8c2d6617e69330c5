package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalPDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func TestReserve_UniqueKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	const n = 64
	keys := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Reserve(context.Background(), "generated_document.pdf")
			assert.NoError(t, err)
			keys <- res.Key
		}()
	}
	wg.Wait()
	close(keys)

	seen := make(map[string]bool, n)
	for k := range keys {
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
		assert.True(t, strings.HasPrefix(k, "generated_document_"))
		assert.True(t, strings.HasSuffix(k, ".pdf"))
	}
	assert.Len(t, seen, n)
}

func TestGetFile_DetectsPDF(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	res, err := s.Reserve(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, res.Key), res.Path)
	require.NoError(t, os.WriteFile(res.Path, []byte(minimalPDF), 0600))

	rc, contentType, err := s.GetFile(context.Background(), res.Key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, minimalPDF, string(data))
	assert.Equal(t, "application/pdf", contentType)
}

func TestGetFile_MissingAndEmpty(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, _, err = s.GetFile(context.Background(), "nope.pdf")
	assert.ErrorContains(t, err, "file not found")

	res, err := s.Reserve(context.Background(), "empty.pdf")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(res.Path, nil, 0600))
	_, _, err = s.GetFile(context.Background(), res.Key)
	assert.ErrorContains(t, err, "file is empty")
}

func TestDeleteFile(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	res, err := s.Reserve(context.Background(), "doc.pdf")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(res.Path, []byte(minimalPDF), 0600))

	require.NoError(t, s.DeleteFile(context.Background(), res.Key))
	_, err = os.Stat(res.Path)
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.DeleteFile(context.Background(), res.Key))
}

func TestKeysCannotEscapeBaseDir(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "/etc/passwd", "a/b.pdf", `a\b.pdf`} {
		_, _, err := s.GetFile(context.Background(), key)
		assert.ErrorContains(t, err, "invalid storage key", key)
		assert.ErrorContains(t, s.DeleteFile(context.Background(), key), "invalid storage key", key)
	}
}

func TestReserve_SanitizesFilename(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	res, err := s.Reserve(context.Background(), "../../my report.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "my_report_"), res.Key)
	assert.Equal(t, s.BaseDir(), filepath.Dir(res.Path))
}

func TestWritable(t *testing.T) {
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "nested", "scratch"))
	require.NoError(t, err)
	assert.NoError(t, s.Writable())
}

func TestReserve_CanceledContext(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Reserve(ctx, "doc.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

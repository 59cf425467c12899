package filestorage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"testing"

	"github.com/kazakovdmitriy/go-cert-signer/internal/service/keyservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFileStorage_MissingFile(t *testing.T) {
	storage := NewFileStorage(filepath.Join(t.TempDir(), "key.pem"), zaptest.NewLogger(t))

	pemKey, found, err := storage.Load(context.Background())

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, pemKey)
}

func TestFileStorage_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "key.pem")
	storage := NewFileStorage(path, zaptest.NewLogger(t))

	require.NoError(t, storage.Save(ctx, "pem-data"))

	pemKey, found, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pem-data", pemKey)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be cleaned up")
}

func TestFileStorage_SaveDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o600))
	storage := NewFileStorage(path, zaptest.NewLogger(t))

	err := storage.Save(ctx, "new")

	assert.ErrorIs(t, err, keyservice.ErrKeyExists)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestFileStorage_ConcurrentSaveKeepsFirstKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "key.pem")

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// отдельный экземпляр на каждого писателя, как у разных процессов
			errs[i] = NewFileStorage(path, nil).Save(ctx, "key-"+strconv.Itoa(i))
		}(i)
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "only one writer may publish the key")
			winner = i
			continue
		}
		assert.ErrorIs(t, err, keyservice.ErrKeyExists)
	}
	require.NotEqual(t, -1, winner)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "key-"+strconv.Itoa(winner), string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStorage_SaveReplacesEmptyFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	storage := NewFileStorage(path, zaptest.NewLogger(t))

	require.NoError(t, storage.Save(ctx, "pem-data"))

	pemKey, found, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pem-data", pemKey)
}

func TestFileStorage_EmptyFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	storage := NewFileStorage(path, nil)

	_, found, err := storage.Load(context.Background())

	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStorage_Name(t *testing.T) {
	assert.Equal(t, "file:/tmp/key.pem", NewFileStorage("/tmp/key.pem", nil).Name())
}

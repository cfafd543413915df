package configsqlite

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE IF NOT EXISTS records (
    user_id TEXT NOT NULL,
    platform TEXT NOT NULL,
    value INTEGER NOT NULL,
    UNIQUE (user_id, platform)
);
`

// file-backed sqlite only tolerates writers from multiple goroutines
// with the single-connection + WAL setup, the default pool surfaces
// SQLITE_BUSY as hard errors
func TestOpenDBConcurrentWrites(t *testing.T) {
	db, err := Struct{
		File: filepath.Join(t.TempDir(), "concurrent.db"),
	}.OpenDB(testSchema)
	require.NoError(t, err)
	defer db.Close()

	const writers = 8
	const writesEach = 25

	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_, err := db.Exec(`
					INSERT INTO records (user_id, platform, value) VALUES (?, ?, ?)
					ON CONFLICT (user_id, platform) DO UPDATE SET value = excluded.value
				`, fmt.Sprintf("user-%d", writer), "facebook", j)
				if err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&count))
	require.Equal(t, writers, count)
}

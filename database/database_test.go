package database

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-reconx/models"
	"path/filepath"
	"testing"
)

func newDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_Settings(t *testing.T) {
	db := newDB(t)

	_, err := db.FetchSettings()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.UpdateSettings(SettingsDB{
		PSConfigDB: PSConfigDB{StartPort: 1, EndPort: 1024, Timeout: 500, MinWorkers: 2, MaxWorkers: 8, IdleTimeout: 1000},
		PluginsDB:  PluginsDB{PortScanner: true, WebScanner: true},
	}))

	// A second update overwrites the single row.
	require.NoError(t, db.UpdateSettings(SettingsDB{
		PSConfigDB: PSConfigDB{StartPort: 80, EndPort: 90, Timeout: 200, MinWorkers: 1, MaxWorkers: 4, IdleTimeout: 500},
		PluginsDB:  PluginsDB{DirScanner: true},
	}))

	s, err := db.FetchSettings()
	require.NoError(t, err)
	assert.Equal(t, uint(1), s.PSConfigDB.ID)
	assert.Equal(t, 80, s.StartPort)
	assert.Equal(t, 90, s.EndPort)
	assert.False(t, s.PluginsDB.PortScanner)
	assert.True(t, s.PluginsDB.DirScanner)

	var count int64
	db.conn.Model(&PSConfigDB{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDB_Scans(t *testing.T) {
	db := newDB(t)

	first := &models.ScanResult{
		ID:              "a",
		Target:          "http://a.test",
		Ports:           []string{"80/tcp"},
		Vulnerabilities: []string{"Missing Security Headers: X-Frame-Options"},
	}
	second := &models.ScanResult{
		ID:     "b",
		Target: "http://b.test",
		Paths:  []string{"http://b.test/admin/"},
		Report: "reconx_report_20260101_000000.pdf",
	}
	require.NoError(t, db.SaveScan(first))
	require.NoError(t, db.SaveScan(second))

	got, err := db.GetScan("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"80/tcp"}, got.Ports)
	assert.Equal(t, []string{}, got.Subdomains)
	assert.Equal(t, first.Vulnerabilities, got.Vulnerabilities)

	_, err = db.GetScan("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := db.ListScans(0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "reconx_report_20260101_000000.pdf", list[0].Report)

	list, err = db.ListScans(1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Scan IDs are unique.
	assert.Error(t, db.SaveScan(first))
}

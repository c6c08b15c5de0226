package database

import (
	"errors"
	"fmt"
	"go-reconx/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DB defines the database instance containing the
// connection to the SQLite type database.
type DB struct {
	conn *gorm.DB
}

// New returns a new *DB instance backed by the SQLite file at path.
func New(path string) (*DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	db := &DB{conn: conn}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate migrates the current database structures.
func (db *DB) Migrate() error {
	return db.conn.AutoMigrate(&PSConfigDB{}, &PluginsDB{}, &ScanRecordDB{})
}

// SaveScan saves the scan data.
func (db *DB) SaveScan(result *models.ScanResult) error {
	if err := db.conn.Create(NewScanRecord(result)).Error; err != nil {
		return fmt.Errorf("save scan %s: %w", result.ID, err)
	}
	return nil
}

// ListScans returns the most recent scans first. A non-positive limit
// returns every scan.
func (db *DB) ListScans(limit int) ([]models.ScanResult, error) {
	var recs []ScanRecordDB
	q := db.conn.Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}

	results := make([]models.ScanResult, 0, len(recs))
	for i := range recs {
		results = append(results, recs[i].ToResult())
	}
	return results, nil
}

// GetScan returns the scan with the given ID.
func (db *DB) GetScan(scanID string) (models.ScanResult, error) {
	var rec ScanRecordDB
	err := db.conn.Where("scan_id = ?", scanID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ScanResult{}, ErrNotFound
	}
	if err != nil {
		return models.ScanResult{}, err
	}
	return rec.ToResult(), nil
}

// UpdateSettings update current settings.
func (db *DB) UpdateSettings(data SettingsDB) error {
	var psConfig PSConfigDB
	if err := db.conn.FirstOrCreate(&psConfig, PSConfigDB{Model: gorm.Model{ID: 1}}).Error; err != nil {
		return err
	}
	data.PSConfigDB.Model = psConfig.Model
	if err := db.conn.Save(&data.PSConfigDB).Error; err != nil {
		return err
	}

	var pluginsDB PluginsDB
	if err := db.conn.FirstOrCreate(&pluginsDB, PluginsDB{Model: gorm.Model{ID: 1}}).Error; err != nil {
		return err
	}
	data.PluginsDB.Model = pluginsDB.Model
	if err := db.conn.Save(&data.PluginsDB).Error; err != nil {
		return err
	}

	return nil
}

// FetchSettings fetches the last used settings. ErrNotFound means no
// settings were saved yet.
func (db *DB) FetchSettings() (SettingsDB, error) {
	var result SettingsDB
	if err := db.conn.First(&result.PSConfigDB).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, ErrNotFound
		}
		return result, err
	}
	if err := db.conn.First(&result.PluginsDB).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, ErrNotFound
		}
		return result, err
	}
	return result, nil
}

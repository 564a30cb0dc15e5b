package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GeoDocumentModel is the GORM model for the geo_documents table
type GeoDocumentModel struct {
	IP        string    `gorm:"column:ip;primaryKey;size:64"`
	Body      string    `gorm:"column:body;type:text"`
	FetchedAt time.Time `gorm:"column:fetched_at"`
}

// TableName overrides GORM's default pluralized name
func (GeoDocumentModel) TableName() string {
	return "geo_documents"
}

// MySQLFetcher implements Fetcher over documents archived in MySQL
type MySQLFetcher struct {
	db *gorm.DB
}

// NewMySQLFetcher creates a new MySQL fetcher using GORM
//
// Parameters:
//   - dsn: Data Source Name
//     Format: user:password@tcp(host:port)/dbname?parseTime=true
//
// Returns:
//   - *MySQLFetcher: pointer to the created fetcher
//   - error: any error that occurred during connection
func NewMySQLFetcher(dsn string) (*MySQLFetcher, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required for the mysql source")
	}

	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL with GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// A CLI run performs a single query
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	return &MySQLFetcher{db: db}, nil
}

// Name implements the Fetcher interface
func (f *MySQLFetcher) Name() string {
	return "mysql"
}

// Fetch implements the Fetcher interface
// GORM query: SELECT * FROM geo_documents WHERE ip = ? LIMIT 1
func (f *MySQLFetcher) Fetch(ctx context.Context, ip string) ([]byte, error) {
	var record GeoDocumentModel

	result := f.db.WithContext(ctx).Where("ip = ?", ip).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("database query failed: %w", result.Error)
	}

	return []byte(record.Body), nil
}

// Save stores the raw document for an IP address, replacing any existing row
// GORM query: INSERT INTO geo_documents ... ON DUPLICATE KEY UPDATE ...
func (f *MySQLFetcher) Save(ctx context.Context, ip string, body []byte) error {
	record := GeoDocumentModel{
		IP:        ip,
		Body:      string(body),
		FetchedAt: time.Now().UTC(),
	}

	result := f.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to store document for %s: %w", ip, result.Error)
	}
	return nil
}

// LoadFromFiles copies every document from a FileFetcher directory into MySQL
// Returns the number of documents stored
func (f *MySQLFetcher) LoadFromFiles(ctx context.Context, dir string) (int, error) {
	files, err := NewFileFetcher(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to open documents: %w", err)
	}
	defer files.Close()

	count := 0
	err = files.Each(func(ip string, body []byte) error {
		if err := f.Save(ctx, ip, body); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// Close closes the database connection
func (f *MySQLFetcher) Close() error {
	if f.db != nil {
		sqlDB, err := f.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

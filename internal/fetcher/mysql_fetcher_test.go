package fetcher

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB creates a mock database for testing
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return db, mock, sqlDB
}

// TestMySQLFetcher_Fetch_Success tests successful lookup
func TestMySQLFetcher_Fetch_Success(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	f := &MySQLFetcher{db: db}

	// GORM adds LIMIT 1 to First() queries, so we expect 2 args: ip and limit
	rows := sqlmock.NewRows([]string{"ip", "body"}).
		AddRow("8.8.8.8", `{"city": "Mountain View"}`)

	mock.ExpectQuery("SELECT \\* FROM `geo_documents` WHERE ip = \\? .*").
		WithArgs("8.8.8.8", 1).
		WillReturnRows(rows)

	body, err := f.Fetch(context.Background(), "8.8.8.8")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"city": "Mountain View"}` {
		t.Errorf("unexpected body: %s", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestMySQLFetcher_Fetch_NotFound tests a missing row
func TestMySQLFetcher_Fetch_NotFound(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	f := &MySQLFetcher{db: db}

	mock.ExpectQuery("SELECT \\* FROM `geo_documents` WHERE ip = \\? .*").
		WithArgs("192.168.1.1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"ip", "body"}))

	_, err := f.Fetch(context.Background(), "192.168.1.1")

	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestMySQLFetcher_Fetch_DatabaseError tests a failing query
func TestMySQLFetcher_Fetch_DatabaseError(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	f := &MySQLFetcher{db: db}

	mock.ExpectQuery("SELECT \\* FROM `geo_documents` WHERE ip = \\? .*").
		WithArgs("8.8.8.8", 1).
		WillReturnError(sql.ErrConnDone)

	_, err := f.Fetch(context.Background(), "8.8.8.8")

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("expected wrapped sql.ErrConnDone, got %v", err)
	}
	if errors.Is(err, ErrDocumentNotFound) {
		t.Error("expected database error, got not found")
	}
}

// TestMySQLFetcher_Close tests closing the connection
func TestMySQLFetcher_Close(t *testing.T) {
	db, mock, _ := setupMockDB(t)
	mock.ExpectClose()

	f := &MySQLFetcher{db: db}

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestNewMySQLFetcher_MissingDSN tests that a DSN is required
func TestNewMySQLFetcher_MissingDSN(t *testing.T) {
	if _, err := NewMySQLFetcher(""); err == nil {
		t.Error("expected error for empty DSN, got nil")
	}
}

// TestTableName tests the GORM table name override
func TestTableName(t *testing.T) {
	if (GeoDocumentModel{}).TableName() != "geo_documents" {
		t.Errorf("unexpected table name: %s", GeoDocumentModel{}.TableName())
	}
}

// TestMySQLFetcher_Save tests storing a document as an upsert
func TestMySQLFetcher_Save(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	f := &MySQLFetcher{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `geo_documents` .* ON DUPLICATE KEY UPDATE").
		WithArgs("8.8.8.8", `{"city": "Mountain View"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := f.Save(context.Background(), "8.8.8.8", []byte(`{"city": "Mountain View"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestMySQLFetcher_Save_DatabaseError tests a failing insert
func TestMySQLFetcher_Save_DatabaseError(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	f := &MySQLFetcher{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `geo_documents`").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := f.Save(context.Background(), "8.8.8.8", []byte("{}"))

	if !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("expected wrapped sql.ErrConnDone, got %v", err)
	}
}

// TestMySQLFetcher_LoadFromFiles tests copying a documents directory into MySQL
func TestMySQLFetcher_LoadFromFiles(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	f := &MySQLFetcher{db: db}
	dir := writeDocuments(t, map[string]string{
		"1.1.1.1.json": `{"city": "Sydney"}`,
		"8.8.8.8.json": `{"city": "Mountain View"}`,
	})

	// Documents are visited in name order
	for _, doc := range []struct{ ip, body string }{
		{"1.1.1.1", `{"city": "Sydney"}`},
		{"8.8.8.8", `{"city": "Mountain View"}`},
	} {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `geo_documents`").
			WithArgs(doc.ip, doc.body, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
	}

	count, err := f.LoadFromFiles(context.Background(), dir)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 documents, got %d", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

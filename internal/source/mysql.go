package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/dbsmedya/docsmith/internal/config"
	"github.com/dbsmedya/docsmith/internal/logger"
	"github.com/dbsmedya/docsmith/internal/record"
	"github.com/dbsmedya/docsmith/internal/sqlutil"
	"github.com/dbsmedya/docsmith/internal/value"
)

// MySQLIngestor loads records from a MySQL table or query. Column names
// containing the field separator nest the same way CSV columns do, so a
// column `profile_age` yields {profile: {age: ...}}.
type MySQLIngestor struct {
	dsn        string
	table      string
	query      string
	opts       config.MySQLConfig
	maxRecords int
	log        *logger.Logger
	db         *sql.DB
	ownsDB     bool
}

// NewMySQLIngestor builds a MySQL ingestor from configuration. The
// connection is opened lazily on first use.
func NewMySQLIngestor(cfg *config.Config, log *logger.Logger) (*MySQLIngestor, error) {
	if log == nil {
		log = logger.NewDefault()
	}
	dsn := cfg.Source.MySQL.DSN
	if dsn == "" {
		dsn = cfg.Source.Location
	}
	m := &MySQLIngestor{
		dsn:        dsn,
		table:      cfg.Source.MySQL.Table,
		query:      cfg.Source.MySQL.Query,
		opts:       cfg.Source.MySQL,
		maxRecords: cfg.Processing.MaxRecords,
		ownsDB:     true,
	}
	m.log = log.WithSource(m.origin())
	return m, nil
}

// NewMySQLIngestorWithDB builds a MySQL ingestor over an existing
// connection. The caller keeps ownership of the connection.
func NewMySQLIngestorWithDB(db *sql.DB, cfg *config.Config, log *logger.Logger) *MySQLIngestor {
	m, _ := NewMySQLIngestor(cfg, log)
	m.db = db
	m.ownsDB = false
	return m
}

// Kind returns "mysql".
func (m *MySQLIngestor) Kind() string { return "mysql" }

// origin describes the source without exposing DSN credentials.
func (m *MySQLIngestor) origin() string {
	if m.table != "" {
		return "mysql:" + m.table
	}
	return "mysql:query"
}

func (m *MySQLIngestor) ensureDB(ctx context.Context) error {
	if m.db != nil {
		return nil
	}

	db, err := sql.Open("mysql", m.dsn)
	if err != nil {
		return &SourceError{Origin: m.origin(), Op: "connect", Err: err}
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return &SourceError{Origin: m.origin(), Op: "connect", Err: err}
	}
	m.db = db
	return nil
}

// Close releases the connection when the ingestor opened it itself.
func (m *MySQLIngestor) Close() error {
	if m.db == nil || !m.ownsDB {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

func (m *MySQLIngestor) buildQuery() (string, error) {
	if m.query != "" {
		return m.query, nil
	}
	quoted, err := sqlutil.QuoteIdentifierSafe(m.table)
	if err != nil {
		return "", err
	}
	return "SELECT * FROM " + quoted, nil
}

// Validate checks the configuration and connectivity.
func (m *MySQLIngestor) Validate(ctx context.Context) *Validation {
	v := &Validation{}
	if m.dsn == "" {
		v.AddError("mysql dsn is empty")
	}
	if m.table == "" && m.query == "" {
		v.AddError("either a table or a query is required")
	}
	if m.table != "" && !sqlutil.IsValidIdentifier(m.table) {
		v.AddError("invalid table name: %s", m.table)
	}
	if !v.OK() {
		return v
	}

	if err := m.ensureDB(ctx); err != nil {
		v.AddError("cannot connect: %v", err)
		return v
	}
	if err := m.db.PingContext(ctx); err != nil {
		v.AddError("ping failed: %v", err)
	}
	return v
}

// scan runs the query and hands each converted record to fn in row order.
func (m *MySQLIngestor) scan(ctx context.Context, fn func(rec *record.Record) error) error {
	if err := m.ensureDB(ctx); err != nil {
		return err
	}

	q, err := m.buildQuery()
	if err != nil {
		return &SourceError{Origin: m.origin(), Op: "query", Err: err}
	}

	rows, err := m.db.QueryContext(ctx, q)
	if err != nil {
		return &SourceError{Origin: m.origin(), Op: "query", Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return &SourceError{Origin: m.origin(), Op: "query", Err: err}
	}

	convertOpts := record.ConvertOptions{
		Separator:   m.opts.FieldSeparator,
		DetectTypes: m.opts.DetectTypes,
	}

	vals := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	index := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return &SourceError{Origin: m.origin(), Op: "scan",
				Err: &ConversionError{Row: index, Err: err}}
		}

		rowVals := make(map[string]value.Value, len(columns))
		for i, col := range columns {
			rowVals[col] = value.FromGo(vals[i])
		}

		fields := record.ConvertValues(columns, rowVals, convertOpts)
		rec := record.New(fields, record.SourceInfo{
			Origin: m.origin(),
			Kind:   "mysql",
			Index:  index,
		}, "mysql")

		if err := fn(rec); err != nil {
			return err
		}

		index++
		if m.maxRecords > 0 && index >= m.maxRecords {
			m.log.Infof("reached maximum record limit: %d", m.maxRecords)
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return &SourceError{Origin: m.origin(), Op: "read", Err: err}
	}
	return nil
}

// LoadAll reads the whole result set into a collection.
func (m *MySQLIngestor) LoadAll(ctx context.Context) (*record.Collection, error) {
	coll := record.NewCollection(record.SourceInfo{Origin: m.origin(), Kind: "mysql"}, "mysql")
	err := m.scan(ctx, func(rec *record.Record) error {
		coll.Add(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Infof("loaded %d records", coll.Len())
	return coll, nil
}

// StreamBatches reads the result set in fixed-size batches while the cursor
// stays open.
func (m *MySQLIngestor) StreamBatches(ctx context.Context, size int, fn func(batch []*record.Record) error) error {
	if size <= 0 {
		size = 1
	}
	batch := make([]*record.Record, 0, size)
	err := m.scan(ctx, func(rec *record.Record) error {
		batch = append(batch, rec)
		if len(batch) >= size {
			if err := fn(batch); err != nil {
				return err
			}
			batch = make([]*record.Record, 0, size)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStop) {
			return nil
		}
		return err
	}
	if len(batch) > 0 {
		if err := fn(batch); err != nil && !errors.Is(err, ErrStop) {
			return err
		}
	}
	return nil
}

// EstimateSize runs COUNT(*) in table mode. Query sources report no
// estimate.
func (m *MySQLIngestor) EstimateSize(ctx context.Context) (int, bool) {
	if m.query != "" || m.table == "" {
		return 0, false
	}
	if err := m.ensureDB(ctx); err != nil {
		return 0, false
	}

	quoted, err := sqlutil.QuoteIdentifierSafe(m.table)
	if err != nil {
		return 0, false
	}

	var count int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)
	if err := m.db.QueryRowContext(ctx, q).Scan(&count); err != nil {
		return 0, false
	}
	return count, true
}

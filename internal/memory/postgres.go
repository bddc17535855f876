package memory

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// tablePrefixPattern restricts the configurable table prefix to a safe SQL
// identifier fragment, since the table name is interpolated into statements.
var tablePrefixPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// PostgresStore persists conversation history in a PostgreSQL table keyed by
// (partition_key, row_key), mirroring a partitioned sorted key-value table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresStore(ctx context.Context, databaseURL, tablePrefix string) (*PostgresStore, error) {
	if !tablePrefixPattern.MatchString(tablePrefix) {
		return nil, fmt.Errorf("memory: invalid table prefix %q", tablePrefix)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &PostgresStore{pool: pool, table: tablePrefix + "_messages"}, nil
}

// CreateTable is idempotent: it only errors on a genuine backend failure,
// never because the table already exists.
func (s *PostgresStore) CreateTable(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		partition_key TEXT NOT NULL,
		row_key TEXT NOT NULL,
		payload TEXT NOT NULL,
		user_id TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		msg_type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (partition_key, row_key)
	);`, s.table)

	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, record MessageRecord) error {
	partitionKey, err := record.PartitionKey()
	if err != nil {
		return err
	}
	rowKey, err := record.RowKey()
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (partition_key, row_key, payload, user_id, sender_id, msg_type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`, s.table)
	_, err = s.pool.Exec(ctx, stmt,
		partitionKey,
		rowKey,
		record.Payload,
		record.UserID,
		record.SenderID,
		string(record.Type),
		record.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("insert %s/%s: %w", partitionKey, rowKey, ErrDuplicateKey)
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// List streams one partition in ascending row-key order (newest turn first).
// Rows are fetched lazily by the driver, so closing the cursor early does not
// page through the whole partition.
func (s *PostgresStore) List(ctx context.Context, filter ListFilter) (Cursor, error) {
	stmt := fmt.Sprintf(`SELECT partition_key, row_key, payload, user_id, sender_id, msg_type, created_at
		 FROM %s WHERE partition_key = $1 ORDER BY row_key ASC`, s.table)
	rows, err := s.pool.Query(ctx, stmt, filter.PartitionKey)
	if err != nil {
		return nil, fmt.Errorf("list partition %s: %w", filter.PartitionKey, err)
	}
	return &pgxCursor{rows: rows}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

type pgxCursor struct {
	rows    pgx.Rows
	current MessageRecord
	err     error
}

func (c *pgxCursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	var rec MessageRecord
	var msgType string
	if err := c.rows.Scan(&rec.partitionKey, &rec.rowKey, &rec.Payload, &rec.UserID, &rec.SenderID, &msgType, &rec.CreatedAt); err != nil {
		c.err = fmt.Errorf("scan message row: %w", err)
		return false
	}
	rec.Type = MessageType(msgType)
	c.current = rec
	return true
}

func (c *pgxCursor) Record() MessageRecord { return c.current }

func (c *pgxCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	if err := c.rows.Err(); err != nil {
		return fmt.Errorf("iterate message rows: %w", err)
	}
	return nil
}

func (c *pgxCursor) Close() { c.rows.Close() }

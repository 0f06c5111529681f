package database

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const pqUniqueViolation = "23505"

// PostgresStore keeps each collection in a table of JSONB documents.
type PostgresStore struct {
	DB *sql.DB
}

func ConnectPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error open connecting: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	s := &PostgresStore{DB: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Println("Successfully connected to the database")
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	for _, name := range Collections {
		query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		)`, pq.QuoteIdentifier(name))
		if _, err := s.DB.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("unable to create table %s: %w", name, err)
		}
	}
	return nil
}

func (s *PostgresStore) Collection(name string) Collection {
	return &postgresCollection{db: s.DB, table: pq.QuoteIdentifier(name)}
}

func (s *PostgresStore) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	query := fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ((doc->>%s))`,
		pq.QuoteIdentifier(collection+"_"+field+"_key"),
		pq.QuoteIdentifier(collection),
		pq.QuoteLiteral(field),
	)
	_, err := s.DB.ExecContext(ctx, query)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.DB.Close()
}

type postgresCollection struct {
	db    *sql.DB
	table string
}

func (c *postgresCollection) Find(ctx context.Context, filter Filter, out interface{}) error {
	f, err := marshalFilter(filter)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`SELECT doc FROM %s WHERE doc @> $1::jsonb ORDER BY seq`, c.table)
	rows, err := c.db.QueryContext(ctx, query, f)
	if err != nil {
		return err
	}
	defer rows.Close()

	docs := [][]byte{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return decodeDocuments(docs, out)
}

func (c *postgresCollection) FindOne(ctx context.Context, filter Filter, out interface{}) error {
	f, err := marshalFilter(filter)
	if err != nil {
		return err
	}

	var doc []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE doc @> $1::jsonb ORDER BY seq LIMIT 1`, c.table)
	err = c.db.QueryRowContext(ctx, query, f).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(doc, out)
}

func (c *postgresCollection) FindByID(ctx context.Context, id primitive.ObjectID, out interface{}) error {
	var doc []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table)
	err := c.db.QueryRowContext(ctx, query, id.Hex()).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(doc, out)
}

func (c *postgresCollection) Insert(ctx context.Context, id primitive.ObjectID, doc interface{}) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, c.table)
	_, err = c.db.ExecContext(ctx, query, id.Hex(), b)
	return mapPQError(err)
}

func (c *postgresCollection) Replace(ctx context.Context, id primitive.ObjectID, doc interface{}) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET doc = $2 WHERE id = $1`, c.table)
	res, err := c.db.ExecContext(ctx, query, id.Hex(), b)
	if err != nil {
		return mapPQError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *postgresCollection) Delete(ctx context.Context, id primitive.ObjectID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	res, err := c.db.ExecContext(ctx, query, id.Hex())
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrDuplicateKey
	}
	return err
}

func marshalFilter(filter Filter) ([]byte, error) {
	if filter == nil {
		filter = Filter{}
	}
	return json.Marshal(filter)
}

// decodeDocuments unmarshals a list of JSON documents into out, a pointer
// to a slice.
func decodeDocuments(docs [][]byte, out interface{}) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, doc := range docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(doc)
	}
	buf.WriteByte(']')
	return json.Unmarshal(buf.Bytes(), out)
}

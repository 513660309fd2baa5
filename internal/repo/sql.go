package repo

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// sqlTable builds the statements shared by the relational backends.
// Columns come from the record's Fields, so the table must have one column
// per field with matching names and "id" as primary key.
type sqlTable[T any, P RecordPtr[T]] struct {
	name    string
	builder sq.StatementBuilderType
}

func newSQLTable[T any, P RecordPtr[T]](name string, format sq.PlaceholderFormat) sqlTable[T, P] {
	return sqlTable[T, P]{
		name:    name,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
	}
}

func (t sqlTable[T, P]) columns() []string {
	return fieldNames(P(new(T)).Fields())
}

// upsert inserts e, or overwrites every non-id column when the id exists.
// This matches the memory backend's last-write-wins Add.
func (t sqlTable[T, P]) upsert(e P) (string, []any, error) {
	fields := e.Fields()
	cols := fieldNames(fields)

	set := make([]string, 0, len(cols)-1)
	for _, c := range cols {
		if c == "id" {
			continue
		}
		set = append(set, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	return t.builder.
		Insert(t.name).
		Columns(cols...).
		Values(fieldValues(fields)...).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(set, ", ")).
		ToSql()
}

func (t sqlTable[T, P]) selectByID(id uuid.UUID) (string, []any, error) {
	return t.builder.
		Select(t.columns()...).
		From(t.name).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
}

func (t sqlTable[T, P]) selectAll(orderBy string) (string, []any, error) {
	q := t.builder.Select(t.columns()...).From(t.name)
	if orderBy != "" {
		q = q.OrderBy(orderBy)
	}
	return q.ToSql()
}

func (t sqlTable[T, P]) deleteByID(id uuid.UUID) (string, []any, error) {
	return t.builder.
		Delete(t.name).
		Where(sq.Eq{"id": id}).
		ToSql()
}

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord allocates a new T and scans one row into its fields.
func scanRecord[T any, P RecordPtr[T]](s scanner) (P, error) {
	p := P(new(T))
	if err := s.Scan(fieldPointers(p.Fields())...); err != nil {
		return nil, err
	}
	return p, nil
}

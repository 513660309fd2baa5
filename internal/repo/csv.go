package repo

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/viking/internal/domain"
)

// CSVRepo persists records as rows of a comma-separated file with a header
// row naming the fields. Columns come from the record's Fields, so any
// domain.Record can be stored without a schema.
//
//   - Add always appends. Adding the same identifier twice leaves two rows.
//   - Remove rewrites the file without the matching rows. All duplicates go in
//     one call, and removing an absent identifier changes nothing.
//   - Get returns the first row with a matching identifier.
//   - List returns rows in file order, or nothing when the file is missing.
//   - encoding/csv reads "\r\n" inside a quoted field back as "\n", so a
//     name containing a carriage return does not round-trip byte for byte.
//
// The mutex serialises calls on one instance. There is no protection across
// processes and Remove is not atomic: a crash between deleting and rewriting
// the file loses its contents.
type CSVRepo[T any, P RecordPtr[T]] struct {
	mu   sync.Mutex
	path string
}

// compile-time check: CSVRepo must satisfy Repository.
var _ Repository[*domain.Task] = (*CSVRepo[domain.Task, *domain.Task])(nil)

// NewCSVRepo returns a CSVRepo backed by the file at path.
// The file is created on the first Add.
func NewCSVRepo[T any, P RecordPtr[T]](path string) *CSVRepo[T, P] {
	return &CSVRepo[T, P]{path: path}
}

// Path returns the backing file path.
func (r *CSVRepo[T, P]) Path() string {
	return r.path
}

// Add appends e as a new row, writing the header first if the file is new
// or empty.
func (r *CSVRepo[T, P]) Add(_ context.Context, e P) error {
	row, err := encodeRecord(e)
	if err != nil {
		return fmt.Errorf("repo.CSVRepo.Add: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.appendRows(fieldNames(e.Fields()), [][]string{row}); err != nil {
		return fmt.Errorf("repo.CSVRepo.Add: %w", err)
	}
	return nil
}

// Get scans the file for the first row whose id matches.
func (r *CSVRepo[T, P]) Get(_ context.Context, id uuid.UUID) (P, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	header, rows, err := r.readRows()
	if err != nil {
		return nil, false, fmt.Errorf("repo.CSVRepo.Get: %w", err)
	}

	col := idColumn(header)
	if col < 0 {
		return nil, false, nil
	}
	want := id.String()
	for _, row := range rows {
		if col < len(row) && row[col] == want {
			rec, err := decodeRecord[T, P](header, row)
			if err != nil {
				return nil, false, fmt.Errorf("repo.CSVRepo.Get: %w: %w", domain.ErrStorage, err)
			}
			return rec, true, nil
		}
	}
	return nil, false, nil
}

// Remove deletes the file and writes back every row whose id differs from
// e's. When no rows remain the file is left absent.
func (r *CSVRepo[T, P]) Remove(_ context.Context, e P) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	header, rows, err := r.readRows()
	if err != nil {
		return fmt.Errorf("repo.CSVRepo.Remove: %w", err)
	}

	col := idColumn(header)
	target := e.ID().String()
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if col >= 0 && col < len(row) && row[col] == target {
			continue
		}
		kept = append(kept, row)
	}

	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("repo.CSVRepo.Remove: %w: %w", domain.ErrStorage, err)
	}
	if len(kept) == 0 {
		return nil
	}
	if err := r.appendRows(header, kept); err != nil {
		return fmt.Errorf("repo.CSVRepo.Remove: %w", err)
	}
	return nil
}

// List rehydrates every row in file order.
func (r *CSVRepo[T, P]) List(_ context.Context) ([]P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	header, rows, err := r.readRows()
	if err != nil {
		return nil, fmt.Errorf("repo.CSVRepo.List: %w", err)
	}

	out := make([]P, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeRecord[T, P](header, row)
		if err != nil {
			return nil, fmt.Errorf("repo.CSVRepo.List: row %d: %w: %w", i+1, domain.ErrStorage, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// readRows returns the header and data rows. A missing or empty file yields
// no header and no rows.
func (r *CSVRepo[T, P]) readRows() ([]string, [][]string, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read header: %w", domain.ErrStorage, err)
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read rows: %w", domain.ErrStorage, err)
	}
	return header, rows, nil
}

// appendRows opens the file for appending and writes rows, preceded by
// header when the file is empty.
func (r *CSVRepo[T, P]) appendRows(header []string, rows [][]string) (err error) {
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", domain.ErrStorage, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("%w: write header: %w", domain.ErrStorage, err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("%w: write rows: %w", domain.ErrStorage, err)
	}
	return nil
}

func idColumn(header []string) int {
	for i, name := range header {
		if name == "id" {
			return i
		}
	}
	return -1
}

// WriteCSV writes records to w in the CSV backend's file format: a header
// row followed by one row per record. The header is written even when there
// are no records.
func WriteCSV[T any, P RecordPtr[T]](w io.Writer, records []P) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fieldNames(P(new(T)).Fields())); err != nil {
		return fmt.Errorf("repo.WriteCSV: %w", err)
	}
	for _, rec := range records {
		row, err := encodeRecord(rec)
		if err != nil {
			return fmt.Errorf("repo.WriteCSV: %w", err)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("repo.WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("repo.WriteCSV: %w", err)
	}
	return nil
}

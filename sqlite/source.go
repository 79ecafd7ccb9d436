package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/evidmap/evidmap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ evidmap.SourceService = (*SourceService)(nil)

// SourceService implements evidmap.SourceService using SQLite.
type SourceService struct {
	db *DB
}

// NewSourceService creates a new SourceService.
func NewSourceService(db *DB) *SourceService {
	return &SourceService{db: db}
}

// CreateSource creates a new source.
func (s *SourceService) CreateSource(ctx context.Context, source *evidmap.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}

	source.ID = uuid.New().String()
	source.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (id, name, type, url, last_polled, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, source.ID, source.Name, source.Type, source.URL,
		formatNullableTime(source.LastPolled), source.CreatedAt.Format(time.RFC3339))

	return err
}

// FindSourceByID retrieves a source by ID.
func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*evidmap.Source, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, url, last_polled, created_at
		FROM sources
		WHERE id = ?
	`, id)

	source, err := scanSource(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, evidmap.Errorf(evidmap.ENOTFOUND, "source not found")
	}
	return source, err
}

// FindSources retrieves all sources, most recently created first.
func (s *SourceService) FindSources(ctx context.Context) ([]*evidmap.Source, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, url, last_polled, created_at
		FROM sources
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*evidmap.Source
	for rows.Next() {
		source, err := scanSource(rows.Scan)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// MarkSourcePolled records the time a source's feed was last fetched.
func (s *SourceService) MarkSourcePolled(ctx context.Context, id string, polledAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sources SET last_polled = ? WHERE id = ?
	`, polledAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return evidmap.Errorf(evidmap.ENOTFOUND, "source not found")
	}
	return nil
}

func scanSource(scan func(...any) error) (*evidmap.Source, error) {
	var source evidmap.Source
	var lastPolled sql.NullString
	var createdAt string

	if err := scan(&source.ID, &source.Name, &source.Type, &source.URL, &lastPolled, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if source.LastPolled, err = parseNullableRFC3339(lastPolled, "last_polled"); err != nil {
		return nil, err
	}
	if source.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &source, nil
}

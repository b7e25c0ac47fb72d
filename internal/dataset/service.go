package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epochml/epoch-ml/internal/models"
	"github.com/epochml/epoch-ml/internal/storage"
	"github.com/epochml/epoch-ml/pkg/textextract"
)

var (
	ErrNotFound        = errors.New("dataset not found")
	ErrNotOwner        = errors.New("dataset belongs to another user")
	ErrUnsupportedType = errors.New("unsupported file type")
)

const datasetColumns = `id, name, description, kind, source, file_path, record_count, owner_id, created_at`

type Service struct {
	db       *pgxpool.Pool
	storage  storage.Storage
	bucket   string
	builtins map[string]models.Dataset
	order    []string
}

func NewService(db *pgxpool.Pool, store storage.Storage, bucket string) *Service {
	s := &Service{
		db:       db,
		storage:  store,
		bucket:   bucket,
		builtins: make(map[string]models.Dataset),
	}
	for _, d := range builtinDatasets() {
		s.builtins[d.ID] = d
		s.order = append(s.order, d.ID)
	}
	return s
}

func (s *Service) Get(ctx context.Context, id string) (*models.Dataset, error) {
	if d, ok := s.builtins[id]; ok {
		cp := d
		return &cp, nil
	}
	if s.db == nil {
		return nil, ErrNotFound
	}

	var d models.Dataset
	err := s.db.QueryRow(ctx,
		`SELECT `+datasetColumns+` FROM datasets WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Description, &d.Kind, &d.Source, &d.FilePath, &d.RecordCount, &d.OwnerID, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	return &d, nil
}

// List returns the built-in datasets followed by the caller's uploads.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]models.Dataset, error) {
	out := make([]models.Dataset, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.builtins[id])
	}
	if s.db == nil {
		return out, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+datasetColumns+` FROM datasets WHERE owner_id = $1 ORDER BY created_at`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.Dataset
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Kind, &d.Source, &d.FilePath, &d.RecordCount, &d.OwnerID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type UploadRequest struct {
	Name        string
	Description string
	FileType    string
	Data        io.Reader
	OwnerID     uuid.UUID
}

// Upload stores a user corpus. Text is extracted from the file to count
// records (non-empty lines) before the raw bytes are pushed to storage.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*models.Dataset, error) {
	raw, err := io.ReadAll(req.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	doc, err := textextract.Extract(bytes.NewReader(raw), int64(len(raw)), req.FileType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, req.FileType)
	}

	id := "dataset-" + uuid.NewString()
	path := fmt.Sprintf("%s/%s%s", req.OwnerID, id, normalizeExt(req.FileType))
	if s.storage != nil {
		if err := s.storage.Upload(ctx, s.bucket, path, bytes.NewReader(raw), "application/octet-stream"); err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
	}

	d := &models.Dataset{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Kind:        models.DatasetKindText,
		Source:      models.DatasetSourceUpload,
		FilePath:    path,
		RecordCount: countRecords(doc.Content),
		OwnerID:     &req.OwnerID,
		CreatedAt:   time.Now().UTC(),
	}

	if s.db != nil {
		_, err = s.db.Exec(ctx,
			`INSERT INTO datasets (id, name, description, kind, source, file_path, record_count, owner_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			d.ID, d.Name, d.Description, d.Kind, d.Source, d.FilePath, d.RecordCount, d.OwnerID, d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert dataset: %w", err)
		}
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id string, ownerID uuid.UUID) error {
	if _, ok := s.builtins[id]; ok {
		return ErrNotOwner
	}
	if s.db == nil {
		return ErrNotFound
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if d.OwnerID == nil || *d.OwnerID != ownerID {
		return ErrNotOwner
	}

	if s.storage != nil && d.FilePath != "" {
		if err := s.storage.Delete(ctx, s.bucket, d.FilePath); err != nil {
			return fmt.Errorf("delete stored file: %w", err)
		}
	}
	_, err = s.db.Exec(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return nil
}

func countRecords(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

func normalizeExt(fileType string) string {
	ft := strings.ToLower(strings.TrimPrefix(fileType, "."))
	return "." + ft
}

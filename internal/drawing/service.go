package drawing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vectorpad/vectorpad/internal/db"
	"github.com/vectorpad/vectorpad/internal/document"
	"github.com/vectorpad/vectorpad/internal/export"
	"github.com/vectorpad/vectorpad/internal/shape"
	"github.com/vectorpad/vectorpad/internal/typeid"
)

var (
	ErrNotFound  = errors.New("drawing not found")
	ErrForbidden = errors.New("forbidden")

	ErrInvalidSize = errors.New("invalid canvas size")
)

// Store is the subset of db.Queries the service needs.
type Store interface {
	CreateDrawing(ctx context.Context, arg db.CreateDrawingParams) (db.Drawing, error)
	GetDrawing(ctx context.Context, id string) (db.Drawing, error)
	ListDrawingsForOwner(ctx context.Context, ownerID string) ([]db.Drawing, error)
	DeleteDrawing(ctx context.Context, id string) error
	TouchDrawing(ctx context.Context, id string) error
	CreateSnapshot(ctx context.Context, arg db.CreateSnapshotParams) (db.Snapshot, error)
	GetLatestSnapshot(ctx context.Context, drawingID string) (db.Snapshot, error)

	// InTx runs fn against a store whose writes commit together or not at all.
	InTx(ctx context.Context, fn func(Store) error) error
}

// NewStore adapts the database queries to Store.
func NewStore(q *db.Queries) Store {
	return queriesStore{q}
}

type queriesStore struct {
	*db.Queries
}

func (s queriesStore) InTx(ctx context.Context, fn func(Store) error) error {
	return s.Queries.InTx(ctx, func(tx *db.Queries) error {
		return fn(queriesStore{tx})
	})
}

type Service struct {
	store         Store
	defaultWidth  int
	defaultHeight int
}

func NewService(store Store, defaultWidth, defaultHeight int) *Service {
	return &Service{store: store, defaultWidth: defaultWidth, defaultHeight: defaultHeight}
}

type Drawing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Snapshot struct {
	Version   int             `json:"version"`
	Document  json.RawMessage `json:"document"`
	CreatedAt string          `json:"createdAt"`
}

// Create stores a new drawing owned by ownerID with an empty first snapshot.
// Non-positive sizes take the configured canvas size.
func (s *Service) Create(ctx context.Context, name, ownerID string, width, height int) (*Drawing, error) {
	if width <= 0 {
		width = s.defaultWidth
	}
	if height <= 0 {
		height = s.defaultHeight
	}
	if width > export.MaxDimension || height > export.MaxDimension {
		return nil, fmt.Errorf("%w: canvas larger than %d pixels", ErrInvalidSize, export.MaxDimension)
	}

	drawingID := typeid.NewDrawingID()
	var dbDrawing db.Drawing
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		dbDrawing, err = tx.CreateDrawing(ctx, db.CreateDrawingParams{
			ID:      drawingID,
			Name:    name,
			OwnerID: ownerID,
			Width:   int32(width),
			Height:  int32(height),
		})
		if err != nil {
			return fmt.Errorf("create drawing: %w", err)
		}

		// Seed empty document snapshot
		_, err = tx.CreateSnapshot(ctx, db.CreateSnapshotParams{
			ID:        typeid.NewSnapshotID(),
			DrawingID: drawingID,
			Document:  []byte("[]"),
		})
		if err != nil {
			return fmt.Errorf("create initial snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dbDrawingToDrawing(dbDrawing), nil
}

func (s *Service) Get(ctx context.Context, drawingID, userID string) (*Drawing, error) {
	dbDrawing, err := s.owned(ctx, drawingID, userID)
	if err != nil {
		return nil, err
	}
	return dbDrawingToDrawing(dbDrawing), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Drawing, error) {
	dbDrawings, err := s.store.ListDrawingsForOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	drawings := make([]Drawing, len(dbDrawings))
	for i, d := range dbDrawings {
		drawings[i] = *dbDrawingToDrawing(d)
	}

	return drawings, nil
}

func (s *Service) Delete(ctx context.Context, drawingID, userID string) error {
	if _, err := s.owned(ctx, drawingID, userID); err != nil {
		return err
	}
	return s.store.DeleteDrawing(ctx, drawingID)
}

func (s *Service) LatestSnapshot(ctx context.Context, drawingID, userID string) (*Snapshot, error) {
	if _, err := s.owned(ctx, drawingID, userID); err != nil {
		return nil, err
	}
	snap, err := s.latest(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	return dbSnapshotToSnapshot(snap), nil
}

// SaveSnapshot validates raw as a drawing and stores it as the next version.
// A document that does not decode is rejected with its *shape.FormatError and
// nothing is stored.
func (s *Service) SaveSnapshot(ctx context.Context, drawingID, userID string, raw []byte) (*Snapshot, error) {
	if _, err := s.owned(ctx, drawingID, userID); err != nil {
		return nil, err
	}

	records, err := document.ParseRecords(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	shapes, err := document.DecodeRecords(records)
	if err != nil {
		return nil, err
	}
	// Store the normalised form so defaults are explicit.
	records = make([]shape.Record, len(shapes))
	for i, sh := range shapes {
		records[i] = sh.Record()
	}
	snap, err := s.save(ctx, drawingID, records)
	if err != nil {
		return nil, err
	}
	return dbSnapshotToSnapshot(snap), nil
}

// Records returns the shapes of the latest snapshot. Editing sessions use it
// after the caller has been authorised.
func (s *Service) Records(ctx context.Context, drawingID string) ([]shape.Record, error) {
	snap, err := s.latest(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	var records []shape.Record
	if err := json.Unmarshal(snap.Document, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot of %s: %w", drawingID, err)
	}
	return records, nil
}

// SaveRecords stores records as the next version and returns its number.
func (s *Service) SaveRecords(ctx context.Context, drawingID string, records []shape.Record) (int, error) {
	snap, err := s.save(ctx, drawingID, records)
	if err != nil {
		return 0, err
	}
	return int(snap.Version), nil
}

// Export renders the latest snapshot at the drawing's canvas size.
func (s *Service) Export(ctx context.Context, drawingID, userID string, format export.Format) ([]byte, *Drawing, error) {
	dbDrawing, err := s.owned(ctx, drawingID, userID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.Records(ctx, drawingID)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := export.Render(&buf, format, records, int(dbDrawing.Width), int(dbDrawing.Height)); err != nil {
		return nil, nil, fmt.Errorf("render %s: %w", drawingID, err)
	}
	return buf.Bytes(), dbDrawingToDrawing(dbDrawing), nil
}

func (s *Service) save(ctx context.Context, drawingID string, records []shape.Record) (db.Snapshot, error) {
	if records == nil {
		records = []shape.Record{}
	}
	docJSON, err := json.Marshal(records)
	if err != nil {
		return db.Snapshot{}, fmt.Errorf("marshal document: %w", err)
	}

	snap, err := s.insertSnapshot(ctx, drawingID, docJSON)
	if isVersionConflict(err) {
		// A concurrent save took the version number; the retry numbers past it.
		snap, err = s.insertSnapshot(ctx, drawingID, docJSON)
	}
	if err != nil {
		return db.Snapshot{}, err
	}
	return snap, nil
}

func (s *Service) insertSnapshot(ctx context.Context, drawingID string, docJSON []byte) (db.Snapshot, error) {
	var snap db.Snapshot
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		snap, err = tx.CreateSnapshot(ctx, db.CreateSnapshotParams{
			ID:        typeid.NewSnapshotID(),
			DrawingID: drawingID,
			Document:  docJSON,
		})
		if err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		if err := tx.TouchDrawing(ctx, drawingID); err != nil {
			return fmt.Errorf("touch drawing: %w", err)
		}
		return nil
	})
	return snap, err
}

func isVersionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Service) latest(ctx context.Context, drawingID string) (db.Snapshot, error) {
	snap, err := s.store.GetLatestSnapshot(ctx, drawingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Snapshot{}, ErrNotFound
		}
		return db.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// owned loads a drawing and checks that userID owns it.
func (s *Service) owned(ctx context.Context, drawingID, userID string) (db.Drawing, error) {
	if err := typeid.Validate(drawingID, typeid.PrefixDrawing); err != nil {
		return db.Drawing{}, ErrNotFound
	}
	dbDrawing, err := s.store.GetDrawing(ctx, drawingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Drawing{}, ErrNotFound
		}
		return db.Drawing{}, fmt.Errorf("get drawing: %w", err)
	}
	if dbDrawing.OwnerID != userID {
		return db.Drawing{}, ErrForbidden
	}
	return dbDrawing, nil
}

func dbDrawingToDrawing(d db.Drawing) *Drawing {
	return &Drawing{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		Width:     int(d.Width),
		Height:    int(d.Height),
		CreatedAt: d.CreatedAt.Time.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: d.UpdatedAt.Time.Format("2006-01-02T15:04:05Z"),
	}
}

func dbSnapshotToSnapshot(s db.Snapshot) *Snapshot {
	return &Snapshot{
		Version:   int(s.Version),
		Document:  json.RawMessage(s.Document),
		CreatedAt: s.CreatedAt.Time.Format("2006-01-02T15:04:05Z"),
	}
}

package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// WithTx runs the queries inside tx.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InTx calls fn with queries bound to a new transaction, committing when fn
// returns nil and rolling back otherwise. Inside a transaction it nests as a
// savepoint.
func (q *Queries) InTx(ctx context.Context, fn func(*Queries) error) error {
	b, ok := q.db.(beginner)
	if !ok {
		return errors.New("db: connection cannot begin a transaction")
	}
	return pgx.BeginFunc(ctx, b, func(tx pgx.Tx) error {
		return fn(q.WithTx(tx))
	})
}

// --- users ---

const createUser = `
INSERT INTO users (id, email, password, display_name)
VALUES ($1, $2, $3, $4)
RETURNING id, email, password, display_name, created_at`

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.ID, arg.Email, arg.Password, arg.DisplayName)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, password, display_name, created_at FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, email, password, display_name, created_at FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

// --- drawings ---

const drawingColumns = `id, name, owner_id, width, height, created_at, updated_at`

const createDrawing = `
INSERT INTO drawings (id, name, owner_id, width, height)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + drawingColumns

type CreateDrawingParams struct {
	ID      string
	Name    string
	OwnerID string
	Width   int32
	Height  int32
}

func (q *Queries) CreateDrawing(ctx context.Context, arg CreateDrawingParams) (Drawing, error) {
	row := q.db.QueryRow(ctx, createDrawing, arg.ID, arg.Name, arg.OwnerID, arg.Width, arg.Height)
	return scanDrawing(row)
}

const getDrawing = `SELECT ` + drawingColumns + ` FROM drawings WHERE id = $1`

func (q *Queries) GetDrawing(ctx context.Context, id string) (Drawing, error) {
	return scanDrawing(q.db.QueryRow(ctx, getDrawing, id))
}

const listDrawingsForOwner = `
SELECT ` + drawingColumns + ` FROM drawings
WHERE owner_id = $1
ORDER BY updated_at DESC`

func (q *Queries) ListDrawingsForOwner(ctx context.Context, ownerID string) ([]Drawing, error) {
	rows, err := q.db.Query(ctx, listDrawingsForOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Drawing
	for rows.Next() {
		d, err := scanDrawing(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const deleteDrawing = `DELETE FROM drawings WHERE id = $1`

func (q *Queries) DeleteDrawing(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, deleteDrawing, id)
	return err
}

const touchDrawing = `UPDATE drawings SET updated_at = now() WHERE id = $1`

func (q *Queries) TouchDrawing(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, touchDrawing, id)
	return err
}

func scanDrawing(row pgx.Row) (Drawing, error) {
	var d Drawing
	err := row.Scan(&d.ID, &d.Name, &d.OwnerID, &d.Width, &d.Height, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// --- snapshots ---

const createSnapshot = `
INSERT INTO snapshots (id, drawing_id, version, document)
SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3::jsonb
FROM snapshots WHERE drawing_id = $2
RETURNING id, drawing_id, version, document, created_at`

type CreateSnapshotParams struct {
	ID        string
	DrawingID string
	Document  []byte
}

// CreateSnapshot stores a new version of a drawing, numbered one past the
// latest existing version.
func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := q.db.QueryRow(ctx, createSnapshot, arg.ID, arg.DrawingID, arg.Document)
	var s Snapshot
	err := row.Scan(&s.ID, &s.DrawingID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}

const getLatestSnapshot = `
SELECT id, drawing_id, version, document, created_at FROM snapshots
WHERE drawing_id = $1
ORDER BY version DESC
LIMIT 1`

func (q *Queries) GetLatestSnapshot(ctx context.Context, drawingID string) (Snapshot, error) {
	row := q.db.QueryRow(ctx, getLatestSnapshot, drawingID)
	var s Snapshot
	err := row.Scan(&s.ID, &s.DrawingID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tosifAN/sunrise-2024/internal/models"
	"github.com/tosifAN/sunrise-2024/internal/seed"
)

// MemoryDSN keeps the sqlite database in process memory.
const MemoryDSN = ":memory:"

// DB wraps the SQLite connection with initialization logic.
type DB struct {
	*sql.DB
}

// Open creates or opens the SQLite database at dbPath and runs schema
// initialization. MemoryDSN opens a private in-memory database.
func Open(dbPath string) (*DB, error) {
	dsn := dbPath
	if dbPath != MemoryDSN {
		dir := filepath.Dir(dbFile(dbPath))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = sqliteDSN(dbPath)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// exists only as long as its connection does.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &DB{db}, nil
}

const sqlitePragmas = "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"

// sqliteDSN appends the connection pragmas to dbPath, which may be a plain
// path or a file: URI that already carries query parameters.
func sqliteDSN(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath + "&" + sqlitePragmas
	}
	return dbPath + "?" + sqlitePragmas
}

// dbFile strips the file: scheme and any query from dbPath.
func dbFile(dbPath string) string {
	p := strings.TrimPrefix(dbPath, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS tasks (
  id INTEGER PRIMARY KEY,
  position INTEGER NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  persona TEXT NOT NULL DEFAULT '',
  group_num INTEGER NOT NULL,
  stage TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);
CREATE INDEX IF NOT EXISTS idx_tasks_stage ON tasks(stage);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// SQLiteStore is a TaskStore backed by the tasks table. Store order is the
// position column, which only ever grows.
type SQLiteStore struct {
	db   *DB
	seed []models.Task
}

// NewSQLiteStore wraps db. An empty tasks table is filled from seedTasks;
// an existing one is left alone.
func NewSQLiteStore(db *DB, seedTasks []models.Task) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, seed: seed.Clone(seedTasks)}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	if count == 0 {
		if err := s.Reset(context.Background()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

const taskColumns = `id, title, description, persona, group_num, stage`

func (s *SQLiteStore) ListAll(ctx context.Context) ([]models.Task, error) {
	return s.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY position`)
}

func (s *SQLiteStore) ListActive(ctx context.Context) ([]models.Task, error) {
	return s.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE stage IN (?, ?) ORDER BY position`,
		models.StageToDo, models.StageInProgress)
}

func (s *SQLiteStore) ListCompleted(ctx context.Context) ([]models.Task, error) {
	return s.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE stage = ? ORDER BY position`,
		models.StageCompleted)
}

func (s *SQLiteStore) Get(ctx context.Context, id int) (*models.Task, error) {
	var t models.Task
	err := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Persona, &t.Group, &t.Stage)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (s *SQLiteStore) Create(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	var maxID, maxPos int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0), COALESCE(MAX(position), 0) FROM tasks`,
	).Scan(&maxID, &maxPos); err != nil {
		return nil, fmt.Errorf("next task id: %w", err)
	}

	t := models.Task{
		ID:          maxID + 1,
		Title:       req.Title,
		Description: req.Description,
		Persona:     req.Persona,
		Group:       req.Group,
		Stage:       models.StageToDo,
	}
	if err := insertTask(ctx, tx, t, maxPos+1); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}
	return &t, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int, req *models.UpdateTaskRequest) (*models.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	t.Apply(req)

	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, persona = ?, group_num = ?, stage = ?
		WHERE id = ?
	`, t.Title, t.Description, t.Persona, t.Group, t.Stage, id)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Complete(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE tasks SET stage = ? WHERE id = ?`, models.StageCompleted, id); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for i, t := range s.seed {
		if err := insertTask(ctx, tx, t, i+1); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Persona, &t.Group, &t.Stage); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func insertTask(ctx context.Context, tx *sql.Tx, t models.Task, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (id, position, title, description, persona, group_num, stage)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, position, t.Title, t.Description, t.Persona, t.Group, t.Stage)
	if err != nil {
		return fmt.Errorf("insert task %d: %w", t.ID, err)
	}
	return nil
}

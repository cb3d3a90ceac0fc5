package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const taskColumns = `task_id, title, category, difficulty, status,
	assignees, estimated_hours,
	started_at, completed_at, deadline,
	source, created_at, updated_at`

func (s *PostgresStore) CreateTask(ctx context.Context, task *Task) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO crew_tasks (title, category, difficulty, status,
			assignees, estimated_hours, started_at, completed_at, deadline, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING task_id, created_at, updated_at`,
		task.Title, task.Category, task.Difficulty, task.Status,
		task.Assignees, task.EstimatedHours,
		task.StartedAt, task.CompletedAt, task.Deadline, task.Source,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (s *PostgresStore) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	t := &Task{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM crew_tasks WHERE task_id = $1`, id,
	).Scan(
		&t.ID, &t.Title, &t.Category, &t.Difficulty, &t.Status,
		&t.Assignees, &t.EstimatedHours,
		&t.StartedAt, &t.CompletedAt, &t.Deadline,
		&t.Source, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM crew_tasks WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, string(*filter.Status))
	}
	if filter.Category != "" {
		n++
		query += fmt.Sprintf(" AND category = $%d", n)
		args = append(args, filter.Category)
	}
	if filter.Assignee != nil {
		n++
		query += fmt.Sprintf(" AND $%d = ANY(assignees)", n)
		args = append(args, *filter.Assignee)
	}
	if filter.Source != "" {
		n++
		query += fmt.Sprintf(" AND source = $%d", n)
		args = append(args, filter.Source)
	}

	query += " ORDER BY created_at ASC"

	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (s *PostgresStore) GetActiveTasksForStudent(ctx context.Context, studentID uuid.UUID) ([]*Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM crew_tasks WHERE $1 = ANY(assignees) AND status IN ('pending', 'in_progress')`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (s *PostgresStore) UpdateTask(ctx context.Context, task *Task) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE crew_tasks SET
			title = $2, category = $3, difficulty = $4, status = $5,
			assignees = $6, estimated_hours = $7,
			started_at = $8, completed_at = $9, deadline = $10,
			source = $11, updated_at = now()
		WHERE task_id = $1`,
		task.ID, task.Title, task.Category, task.Difficulty, task.Status,
		task.Assignees, task.EstimatedHours,
		task.StartedAt, task.CompletedAt, task.Deadline,
		task.Source,
	)
	return err
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0)
		FROM crew_tasks`,
	).Scan(&stats.TasksPending, &stats.TasksInProgress, &stats.TasksCompleted)
	if err != nil {
		return nil, err
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(load), 0), COALESCE(AVG(danger), 0)
		FROM crew_students`,
	).Scan(&stats.TotalStudents, &stats.AvgStudentLoad, &stats.AvgStudentDanger)
	if err != nil {
		return nil, err
	}

	err = s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM crew_teams),
			(SELECT COUNT(*) FROM crew_suggestions)`,
	).Scan(&stats.TotalTeams, &stats.OpenSuggestions)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func scanTasks(rows pgx.Rows) ([]*Task, error) {
	var tasks []*Task
	for rows.Next() {
		t := &Task{}
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Category, &t.Difficulty, &t.Status,
			&t.Assignees, &t.EstimatedHours,
			&t.StartedAt, &t.CompletedAt, &t.Deadline,
			&t.Source, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

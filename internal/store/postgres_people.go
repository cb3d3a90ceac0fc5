package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const studentColumns = `student_id, name, personality_code, team_id,
	load, motivation, danger, skills,
	preferred_partners, avoided_partners,
	created_at, updated_at`

func (s *PostgresStore) CreateStudent(ctx context.Context, student *Student) error {
	skillsJSON, _ := json.Marshal(student.Skills)
	return s.pool.QueryRow(ctx, `
		INSERT INTO crew_students (name, personality_code, team_id,
			load, motivation, danger, skills, preferred_partners, avoided_partners)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING student_id, created_at, updated_at`,
		student.Name, student.PersonalityCode, student.TeamID,
		student.Load, student.Motivation, student.Danger, skillsJSON,
		student.PreferredPartners, student.AvoidedPartners,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
}

func (s *PostgresStore) GetStudent(ctx context.Context, id uuid.UUID) (*Student, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM crew_students WHERE student_id = $1`, id)
	student, err := scanStudent(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return student, err
}

func (s *PostgresStore) ListStudents(ctx context.Context, filter StudentFilter) ([]*Student, error) {
	query := `SELECT ` + studentColumns + ` FROM crew_students WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.TeamID != nil {
		n++
		query += fmt.Sprintf(" AND team_id = $%d", n)
		args = append(args, *filter.TeamID)
	}

	query += " ORDER BY name ASC"

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

	var students []*Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (s *PostgresStore) UpdateStudent(ctx context.Context, student *Student) error {
	skillsJSON, _ := json.Marshal(student.Skills)
	_, err := s.pool.Exec(ctx, `
		UPDATE crew_students SET
			name = $2, personality_code = $3, team_id = $4,
			load = $5, motivation = $6, danger = $7, skills = $8,
			preferred_partners = $9, avoided_partners = $10,
			updated_at = now()
		WHERE student_id = $1`,
		student.ID, student.Name, student.PersonalityCode, student.TeamID,
		student.Load, student.Motivation, student.Danger, skillsJSON,
		student.PreferredPartners, student.AvoidedPartners,
	)
	return err
}

func (s *PostgresStore) CreateTeam(ctx context.Context, team *Team) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO crew_teams (name)
		VALUES ($1)
		RETURNING team_id, created_at`,
		team.Name,
	).Scan(&team.ID, &team.CreatedAt)
}

func (s *PostgresStore) GetTeam(ctx context.Context, id uuid.UUID) (*Team, error) {
	t := &Team{}
	err := s.pool.QueryRow(ctx, `
		SELECT team_id, name, created_at
		FROM crew_teams WHERE team_id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) ListTeams(ctx context.Context) ([]*Team, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT team_id, name, created_at
		FROM crew_teams ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		t := &Team{}
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *PostgresStore) UpsertSelfAssessment(ctx context.Context, a *SelfAssessment) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO crew_self_assessments (student_id, category, score, confidence)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, category)
		DO UPDATE SET score = EXCLUDED.score, confidence = EXCLUDED.confidence, updated_at = now()
		RETURNING id, created_at, updated_at`,
		a.StudentID, a.Category, a.Score, a.Confidence,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (s *PostgresStore) ListSelfAssessments(ctx context.Context, studentID uuid.UUID) ([]*SelfAssessment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, student_id, category, score, confidence, created_at, updated_at
		FROM crew_self_assessments WHERE student_id = $1
		ORDER BY category ASC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []*SelfAssessment
	for rows.Next() {
		a := &SelfAssessment{}
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Category, &a.Score, &a.Confidence, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

func (s *PostgresStore) ReplaceSuggestions(ctx context.Context, computedAt time.Time, suggestions []*Suggestion) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM crew_suggestions`); err != nil {
		return err
	}
	for _, sg := range suggestions {
		err := tx.QueryRow(ctx, `
			INSERT INTO crew_suggestions (task_id, task_title,
				from_student_id, from_name, to_student_id, to_name,
				reason, priority, score, computed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at`,
			sg.TaskID, sg.TaskTitle,
			sg.FromID, sg.FromName, sg.ToID, sg.ToName,
			sg.Reason, sg.Priority, sg.Score, computedAt,
		).Scan(&sg.ID, &sg.CreatedAt)
		if err != nil {
			return err
		}
		sg.ComputedAt = computedAt
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) ListLatestSuggestions(ctx context.Context, limit int) ([]*Suggestion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, task_id, task_title,
			from_student_id, from_name, to_student_id, to_name,
			reason, priority, score, computed_at, created_at
		FROM crew_suggestions
		ORDER BY score DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []*Suggestion
	for rows.Next() {
		sg := &Suggestion{}
		if err := rows.Scan(
			&sg.ID, &sg.TaskID, &sg.TaskTitle,
			&sg.FromID, &sg.FromName, &sg.ToID, &sg.ToName,
			&sg.Reason, &sg.Priority, &sg.Score, &sg.ComputedAt, &sg.CreatedAt,
		); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, sg)
	}
	return suggestions, rows.Err()
}

func scanStudent(row pgx.Row) (*Student, error) {
	student := &Student{}
	var skillsJSON []byte
	err := row.Scan(
		&student.ID, &student.Name, &student.PersonalityCode, &student.TeamID,
		&student.Load, &student.Motivation, &student.Danger, &skillsJSON,
		&student.PreferredPartners, &student.AvoidedPartners,
		&student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &student.Skills)
	}
	return student, nil
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/student"
)

type studentRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	IsActive     bool      `db:"is_active"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r studentRow) domain() student.Student {
	isActive := r.IsActive
	return student.Student{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		IsActive:     &isActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type StudentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*StudentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo StudentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo StudentRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedStudents ...student.Student) error {
	query := `SELECT EXISTS (SELECT 1 FROM student WHERE email = $1`
	args := []interface{}{email}
	if len(excludedStudents) > 0 {
		ids := make([]string, 0, len(excludedStudents))
		for _, s := range excludedStudents {
			ids = append(ids, s.ID)
		}
		query += ` AND id <> ALL($2)`
		args = append(args, idArray(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	if exists {
		return student.ErrEmailExists
	}
	return nil
}

func (repo StudentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO student (id, name, email, role, is_active, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		std.ID, std.Name, std.Email, std.Role, std.IsActive == nil || *std.IsActive,
		std.PasswordHash, std.CreatedAt, std.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo StudentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM student ORDER BY created_at DESC`,
	); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.domain())
	}
	return students, nil
}

func (repo StudentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "getting student by id")
	}
	return row.domain(), nil
}

func (repo StudentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE email = $1`, email); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "getting student by email")
	}
	return row.domain(), nil
}

func (repo StudentRepository) UpdateStudent(ctx context.Context, std student.Student, isActive *bool) (student.Student, error) {
	orig, err := repo.GetStudentByID(ctx, std.ID)
	if err != nil {
		return student.Student{}, err
	}

	if std.Name == "" {
		std.Name = orig.Name
	}
	if std.Email == "" {
		std.Email = orig.Email
	}
	if std.Role == "" {
		std.Role = orig.Role
	}
	if std.PasswordHash == nil {
		std.PasswordHash = orig.PasswordHash
	}
	if isActive == nil {
		isActive = orig.IsActive
	}
	std.IsActive = isActive
	std.CreatedAt = orig.CreatedAt

	_, err = repo.db.ExecContext(ctx,
		`UPDATE student SET name = $2, email = $3, role = $4, is_active = $5, password_hash = $6, updated_at = $7
		 WHERE id = $1`,
		std.ID, std.Name, std.Email, std.Role, *std.IsActive, std.PasswordHash, std.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

func (repo StudentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

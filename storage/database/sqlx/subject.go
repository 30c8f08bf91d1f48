package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/subject"
)

// scheduleJSON maps []subject.ScheduleEntry to a JSONB column.
type scheduleJSON []subject.ScheduleEntry

func (s scheduleJSON) Value() (driver.Value, error) {
	if s == nil {
		s = scheduleJSON{}
	}
	return json.Marshal(s)
}

func (s *scheduleJSON) Scan(src interface{}) error {
	data, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unexpected schedule column type %T", src)
	}
	return json.Unmarshal(data, s)
}

type subjectRow struct {
	ID              string       `db:"id"`
	Name            string       `db:"name"`
	AssignedTeacher string       `db:"assigned_teacher"`
	Color           string       `db:"color"`
	Schedule        scheduleJSON `db:"schedule"`
	OwnerID         string       `db:"owner_id"`
	CreatedAt       time.Time    `db:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"`
}

func (r subjectRow) domain() subject.Subject {
	return subject.Subject{
		ID:              r.ID,
		Name:            r.Name,
		AssignedTeacher: r.AssignedTeacher,
		Color:           r.Color,
		Schedule:        r.Schedule,
		OwnerID:         r.OwnerID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type SubjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*SubjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (repo SubjectRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return subject.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo SubjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	sub.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO subject (id, name, assigned_teacher, color, schedule, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sub.ID, sub.Name, sub.AssignedTeacher, sub.Color, scheduleJSON(sub.Schedule),
		sub.OwnerID, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return sub, nil
}

func (repo SubjectRepository) GetSubjectByID(ctx context.Context, id string) (subject.Subject, error) {
	var row subjectRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM subject WHERE id = $1`, id); err != nil {
		return subject.Subject{}, repo.trapNoRowsErr(err, "getting subject by id")
	}
	return row.domain(), nil
}

func (repo SubjectRepository) QuerySubjectsByOwner(ctx context.Context, ownerID string) ([]subject.Subject, error) {
	var rows []subjectRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM subject WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID,
	); err != nil {
		return nil, errors.Wrap(err, "querying subjects by owner")
	}
	subjects := make([]subject.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.domain())
	}
	return subjects, nil
}

func (repo SubjectRepository) UpdateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	orig, err := repo.GetSubjectByID(ctx, sub.ID)
	if err != nil {
		return subject.Subject{}, err
	}
	sub.CreatedAt = orig.CreatedAt
	sub.OwnerID = orig.OwnerID // owner is immutable

	_, err = repo.db.ExecContext(ctx,
		`UPDATE subject SET name = $2, assigned_teacher = $3, color = $4, schedule = $5, updated_at = $6
		 WHERE id = $1`,
		sub.ID, sub.Name, sub.AssignedTeacher, sub.Color, scheduleJSON(sub.Schedule), sub.UpdatedAt,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	return sub, nil
}

func (repo SubjectRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM subject WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting subjects")
	}
	return nil
}

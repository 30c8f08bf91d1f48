package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/task"
)

type taskRow struct {
	ID           string    `db:"id"`
	SubjectID    string    `db:"subject_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	StartDate    time.Time `db:"start_date"`
	DeliveryDate time.Time `db:"delivery_date"`
	Priority     string    `db:"priority"`
	State        string    `db:"state"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r taskRow) domain() task.Task {
	return task.Task{
		ID:           r.ID,
		SubjectID:    r.SubjectID,
		Title:        r.Title,
		Description:  r.Description,
		StartDate:    r.StartDate,
		DeliveryDate: r.DeliveryDate,
		Priority:     task.Priority(r.Priority),
		State:        task.State(r.State),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type TaskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*TaskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (repo TaskRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return task.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo TaskRepository) CreateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	tsk.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO task (id, subject_id, title, description, start_date, delivery_date, priority, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		tsk.ID, tsk.SubjectID, tsk.Title, tsk.Description, tsk.StartDate, tsk.DeliveryDate,
		string(tsk.Priority), string(tsk.State), tsk.CreatedAt, tsk.UpdatedAt,
	)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return tsk, nil
}

func (repo TaskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	var row taskRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM task WHERE id = $1`, id); err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "getting task by id")
	}
	return row.domain(), nil
}

func (repo TaskRepository) QueryTasksBySubject(ctx context.Context, subjectID string) ([]task.Task, error) {
	var rows []taskRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM task WHERE subject_id = $1 ORDER BY delivery_date`, subjectID,
	); err != nil {
		return nil, errors.Wrap(err, "querying tasks by subject")
	}
	return repo.domainSlice(rows), nil
}

func (repo TaskRepository) QueryTasksByOwner(ctx context.Context, ownerID string) ([]task.Task, error) {
	var rows []taskRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT t.* FROM task t
		 JOIN subject s ON s.id = t.subject_id
		 WHERE s.owner_id = $1
		 ORDER BY t.delivery_date`, ownerID,
	); err != nil {
		return nil, errors.Wrap(err, "querying tasks by owner")
	}
	return repo.domainSlice(rows), nil
}

func (repo TaskRepository) QueryTasksDueBetween(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	var rows []taskRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM task WHERE delivery_date BETWEEN $1 AND $2 ORDER BY delivery_date`, from, to,
	); err != nil {
		return nil, errors.Wrap(err, "querying tasks due between")
	}
	return repo.domainSlice(rows), nil
}

func (repo TaskRepository) UpdateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	orig, err := repo.GetTaskByID(ctx, tsk.ID)
	if err != nil {
		return task.Task{}, err
	}
	tsk.SubjectID = orig.SubjectID
	tsk.CreatedAt = orig.CreatedAt

	_, err = repo.db.ExecContext(ctx,
		`UPDATE task SET title = $2, description = $3, start_date = $4, delivery_date = $5, priority = $6, state = $7, updated_at = $8
		 WHERE id = $1`,
		tsk.ID, tsk.Title, tsk.Description, tsk.StartDate, tsk.DeliveryDate,
		string(tsk.Priority), string(tsk.State), tsk.UpdatedAt,
	)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	return tsk, nil
}

func (repo TaskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM task WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return nil
}

func (repo TaskRepository) domainSlice(rows []taskRow) []task.Task {
	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.domain())
	}
	return tasks
}

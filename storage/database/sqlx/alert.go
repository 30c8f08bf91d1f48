package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/alert"
)

type alertRow struct {
	ID        string    `db:"id"`
	TaskID    string    `db:"task_id"`
	AlertDate time.Time `db:"alert_date"`
	Message   string    `db:"message"`
}

func (r alertRow) domain() alert.Alert {
	return alert.Alert{
		ID:        r.ID,
		TaskID:    r.TaskID,
		AlertDate: r.AlertDate,
		Message:   r.Message,
	}
}

type AlertRepository struct {
	db *sqlx.DB
}

var _ alert.Repository = (*AlertRepository)(nil) // interface compliance check

func NewAlertRepository(db *sqlx.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (repo AlertRepository) CreateAlert(ctx context.Context, alt alert.Alert) (alert.Alert, error) {
	alt.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO alert (id, task_id, alert_date, message) VALUES ($1, $2, $3, $4)`,
		alt.ID, alt.TaskID, alt.AlertDate, alt.Message,
	)
	if err != nil {
		return alert.Alert{}, errors.Wrap(err, "inserting alert")
	}
	return alt, nil
}

func (repo AlertRepository) QueryAlertsByOwner(ctx context.Context, ownerID string) ([]alert.Alert, error) {
	var rows []alertRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT a.* FROM alert a
		 JOIN task t ON t.id = a.task_id
		 JOIN subject s ON s.id = t.subject_id
		 WHERE s.owner_id = $1
		 ORDER BY a.alert_date DESC`, ownerID,
	); err != nil {
		return nil, errors.Wrap(err, "querying alerts by owner")
	}
	alerts := make([]alert.Alert, 0, len(rows))
	for _, r := range rows {
		alerts = append(alerts, r.domain())
	}
	return alerts, nil
}

func (repo AlertRepository) AlertExistsForTaskOn(ctx context.Context, taskID string, day time.Time) (bool, error) {
	var exists bool
	if err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (
		   SELECT 1 FROM alert WHERE task_id = $1 AND alert_date >= $2 AND alert_date < $3
		 )`,
		taskID, day, day.AddDate(0, 0, 1),
	); err != nil {
		return false, errors.Wrap(err, "checking existing alerts")
	}
	return exists, nil
}

package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/alert"
)

type alertRepository struct {
	db       *alertTable
	tasks    *taskTable
	subjects *subjectTable
}

var _ alert.Repository = (*alertRepository)(nil) // interface compliance check

func NewAlertRepository(db *DB) alert.Repository {
	return &alertRepository{db: db.alert, tasks: db.task, subjects: db.subject}
}

func (repo *alertRepository) CreateAlert(_ context.Context, alt alert.Alert) (alert.Alert, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	alt.ID = uuid.New().String()
	repo.db.table[alt.ID] = &alt
	return alt, nil
}

func (repo *alertRepository) QueryAlertsByOwner(_ context.Context, ownerID string) ([]alert.Alert, error) {
	// resolve owner's task IDs via the subject chain
	repo.subjects.RLock()
	subjectIDs := make(map[string]struct{})
	for _, sub := range repo.subjects.table {
		if sub.OwnerID == ownerID {
			subjectIDs[sub.ID] = struct{}{}
		}
	}
	repo.subjects.RUnlock()

	repo.tasks.RLock()
	taskIDs := make(map[string]struct{})
	for _, tsk := range repo.tasks.table {
		if _, ok := subjectIDs[tsk.SubjectID]; ok {
			taskIDs[tsk.ID] = struct{}{}
		}
	}
	repo.tasks.RUnlock()

	repo.db.RLock()
	defer repo.db.RUnlock()

	alerts := make([]alert.Alert, 0)
	for _, alt := range repo.db.table {
		if _, ok := taskIDs[alt.TaskID]; ok {
			alerts = append(alerts, *alt)
		}
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].AlertDate.After(alerts[j].AlertDate) })
	return alerts, nil
}

func (repo *alertRepository) AlertExistsForTaskOn(_ context.Context, taskID string, day time.Time) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	next := day.AddDate(0, 0, 1)
	for _, alt := range repo.db.table {
		if alt.TaskID == taskID && !alt.AlertDate.Before(day) && alt.AlertDate.Before(next) {
			return true, nil
		}
	}
	return false, nil
}

package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/task"
)

type taskRepository struct {
	db       *taskTable
	subjects *subjectTable
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db.task, subjects: db.subject}
}

func (repo *taskRepository) CreateTask(_ context.Context, tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tsk.ID = uuid.New().String()
	repo.db.table[tsk.ID] = &tsk
	return tsk, nil
}

func (repo *taskRepository) GetTaskByID(_ context.Context, id string) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tsk, ok := repo.db.table[id]; ok {
		return *tsk, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) QueryTasksBySubject(_ context.Context, subjectID string) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := make([]task.Task, 0)
	for _, tsk := range repo.db.table {
		if tsk.SubjectID == subjectID {
			tasks = append(tasks, *tsk)
		}
	}
	sortByDelivery(tasks)
	return tasks, nil
}

func (repo *taskRepository) QueryTasksByOwner(_ context.Context, ownerID string) ([]task.Task, error) {
	repo.subjects.RLock()
	subjectIDs := make(map[string]struct{})
	for _, sub := range repo.subjects.table {
		if sub.OwnerID == ownerID {
			subjectIDs[sub.ID] = struct{}{}
		}
	}
	repo.subjects.RUnlock()

	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := make([]task.Task, 0)
	for _, tsk := range repo.db.table {
		if _, ok := subjectIDs[tsk.SubjectID]; ok {
			tasks = append(tasks, *tsk)
		}
	}
	sortByDelivery(tasks)
	return tasks, nil
}

func (repo *taskRepository) QueryTasksDueBetween(_ context.Context, from, to time.Time) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := make([]task.Task, 0)
	for _, tsk := range repo.db.table {
		if !tsk.DeliveryDate.Before(from) && !tsk.DeliveryDate.After(to) {
			tasks = append(tasks, *tsk)
		}
	}
	sortByDelivery(tasks)
	return tasks, nil
}

func (repo *taskRepository) UpdateTask(_ context.Context, tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[tsk.ID]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	tsk.SubjectID = orig.SubjectID
	tsk.CreatedAt = orig.CreatedAt

	repo.db.table[tsk.ID] = &tsk
	return tsk, nil
}

func (repo *taskRepository) DeleteTasksByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func sortByDelivery(tasks []task.Task) {
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].DeliveryDate.Before(tasks[j].DeliveryDate) })
}

package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/subject"
)

type subjectRepository struct {
	db *subjectTable
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db.subject}
}

func (repo *subjectRepository) CreateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub.ID = uuid.New().String()
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *subjectRepository) GetSubjectByID(_ context.Context, id string) (subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.table[id]; ok {
		return *sub, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) QuerySubjectsByOwner(_ context.Context, ownerID string) ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subjects := make([]subject.Subject, 0)
	for _, sub := range repo.db.table {
		if sub.OwnerID == ownerID {
			subjects = append(subjects, *sub)
		}
	}
	return subjects, nil
}

func (repo *subjectRepository) UpdateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[sub.ID]
	if !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	sub.OwnerID = orig.OwnerID // owner is immutable
	sub.CreatedAt = orig.CreatedAt

	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *subjectRepository) DeleteSubjectsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

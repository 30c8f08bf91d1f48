package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	return students
}

func (repo *studentRepository) CheckEmailUniqueness(_ context.Context, email string, excludedStudents ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.query() {
		if std.Email != email {
			continue
		}
		if isExcluded(std, excludedStudents) {
			continue
		}
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = uuid.New().String()
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(_ context.Context, email string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.query() {
		if std.Email == email {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student, isActive *bool) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
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

	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func isExcluded(std student.Student, excluded []student.Student) bool {
	for _, ex := range excluded {
		if std.ID == ex.ID {
			return true
		}
	}
	return false
}

package dummydb

import (
	"sync"

	"github.com/trezcool/academia/core/alert"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/task"
)

// DB is an in-memory store handy for tests and local hacking.
type DB struct {
	student *studentTable
	subject *subjectTable
	task    *taskTable
	alert   *alertTable
}

type (
	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}
	subjectTable struct {
		sync.RWMutex
		table map[string]*subject.Subject
	}
	taskTable struct {
		sync.RWMutex
		table map[string]*task.Task
	}
	alertTable struct {
		sync.RWMutex
		table map[string]*alert.Alert
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{table: make(map[string]*student.Student)},
		subject: &subjectTable{table: make(map[string]*subject.Subject)},
		task:    &taskTable{table: make(map[string]*task.Task)},
		alert:   &alertTable{table: make(map[string]*alert.Alert)},
	}
	return db, nil
}

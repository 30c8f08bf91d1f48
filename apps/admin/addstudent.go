package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

// addStudent updates or creates a student.Student
func (cli *commandLine) addStudent(name, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	std, err := cli.stdRepo.GetStudentByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != student.ErrNotFound {
			return err
		}
		std = student.Student{
			Name:      name,
			Email:     email,
			Role:      student.RoleStudent,
			CreatedAt: time.Now().UTC(),
		}
	} else {
		std.Name = name
	}
	if isAdmin {
		std.Role = student.RoleAdmin
	}
	std.SetActive(true)
	if err := std.SetPassword(pwd); err != nil {
		return err
	}
	std.UpdatedAt = time.Now().UTC()

	if std.ID == "" {
		_, err = cli.stdRepo.CreateStudent(ctx, std)
	} else {
		_, err = cli.stdRepo.UpdateStudent(ctx, std, std.IsActive)
	}
	return err
}

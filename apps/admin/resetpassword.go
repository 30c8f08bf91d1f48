package main

import (
	"context"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	std, err := cli.stdRepo.GetStudentByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := std.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.stdRepo.UpdateStudent(ctx, std, nil); err != nil {
		return err
	}
	return nil
}

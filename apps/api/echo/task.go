package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/task"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

type taskAPI struct {
	svc      task.ServiceInterface
	subjects subject.ServiceInterface
}

func registerTaskAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc task.ServiceInterface, subjects subject.ServiceInterface) {
	api := taskAPI{svc: svc, subjects: subjects}

	tg := g.Group("/tasks", jwt)
	tg.GET("", api.query)
	tg.GET("/subject/:subjectId", api.queryBySubject)
	tg.GET("/:id", api.retrieve)
	tg.POST("", api.create)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.delete)
}

// checkSubjectOwnership ensures the subject belongs to the authenticated
// student. Admins may access any subject's tasks.
func (api *taskAPI) checkSubjectOwnership(ctx echo.Context, subjectID string) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	sub, err := api.subjects.GetByID(ctx.Request().Context(), subjectID)
	if err != nil {
		return err
	}
	if sub.OwnerID != claims.Subject && !claims.IsAdmin {
		return errHTTPNotFound
	}
	return nil
}

// getOwnedTask fetches the task and enforces subject ownership.
func (api *taskAPI) getOwnedTask(ctx echo.Context) (task.Task, error) {
	tsk, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return task.Task{}, err
	}
	if err = api.checkSubjectOwnership(ctx, tsk.SubjectID); err != nil {
		return task.Task{}, err
	}
	return tsk, nil
}

func (api *taskAPI) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	tasks, err := api.svc.QueryByOwner(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskAPI) queryBySubject(ctx echo.Context) error {
	subjectID := ctx.Param("subjectId")
	if err := api.checkSubjectOwnership(ctx, subjectID); err != nil {
		return err
	}
	tasks, err := api.svc.QueryBySubject(ctx.Request().Context(), subjectID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskAPI) retrieve(ctx echo.Context) error {
	tsk, err := api.getOwnedTask(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskAPI) create(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := data.Validate(validate, timeNow()); err != nil {
		return err
	}
	if err := api.checkSubjectOwnership(ctx, data.SubjectID); err != nil {
		return err
	}

	tsk, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, tsk)
}

func (api *taskAPI) update(ctx echo.Context) error {
	orig, err := api.getOwnedTask(ctx)
	if err != nil {
		return err
	}

	var data task.UpdateTask
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(validate, orig); err != nil {
		return err
	}

	tsk, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskAPI) delete(ctx echo.Context) error {
	if _, err := api.getOwnedTask(ctx); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

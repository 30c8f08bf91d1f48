package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/subject"
)

type subjectAPI struct {
	svc subject.ServiceInterface
}

func registerSubjectAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc subject.ServiceInterface) {
	api := subjectAPI{svc: svc}

	sg := g.Group("/subjects", jwt)
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
	sg.POST("", api.create)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.delete)
}

// getOwnedSubject fetches the subject and enforces that it belongs to the
// authenticated student. Admins may access any subject.
func (api *subjectAPI) getOwnedSubject(ctx echo.Context) (subject.Subject, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return subject.Subject{}, err
	}
	sub, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return subject.Subject{}, err
	}
	if sub.OwnerID != claims.Subject && !claims.IsAdmin {
		return subject.Subject{}, errHTTPNotFound
	}
	return sub, nil
}

func (api *subjectAPI) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	subs, err := api.svc.QueryByOwner(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *subjectAPI) retrieve(ctx echo.Context) error {
	sub, err := api.getOwnedSubject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *subjectAPI) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data subject.NewSubject
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(validate); err != nil {
		return err
	}

	sub, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *subjectAPI) update(ctx echo.Context) error {
	orig, err := api.getOwnedSubject(ctx)
	if err != nil {
		return err
	}

	var data subject.UpdateSubject
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(validate, orig); err != nil {
		return err
	}

	sub, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *subjectAPI) delete(ctx echo.Context) error {
	if _, err := api.getOwnedSubject(ctx); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

type (
	studentAPI struct {
		svc student.ServiceInterface
	}

	// LoginRequest is the expected login credentials payload.
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	// LoginResponse wraps a fresh token and the authenticated student.
	LoginResponse struct {
		Token   string          `json:"token"`
		Student student.Student `json:"student"`
	}

	// TokenResponse wraps a refreshed token.
	TokenResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc student.ServiceInterface) {
	api := studentAPI{svc: svc}

	sg := g.Group("/students")
	sg.POST("/register", api.register)
	sg.POST("/login", api.login)

	ag := sg.Group("", jwt)
	ag.POST("/token-refresh", api.tokenRefresh)
	ag.GET("/me", api.profile)
	ag.PUT("/me", api.updateProfile)

	adm := sg.Group("", jwt, adminMiddleware())
	adm.GET("", api.query)
	adm.GET("/:id", api.retrieve)
	adm.POST("", api.create)
	adm.PUT("/:id", api.update)
	adm.DELETE("/:id", api.delete)
}

func (api *studentAPI) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	// self-registration is always a plain student account
	data.Role = student.RoleStudent
	if err := data.Validate(validate, api.svc); err != nil {
		return err
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentAPI) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(ctx, data.Email, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return err
	}
	std, err := getContextStudent(ctx, api.svc, *claims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Student: std})
}

func (api *studentAPI) tokenRefresh(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	newClaims, err := refreshClaims(claims, api.svc, ctx)
	if err != nil {
		return err
	}
	token, err := GenerateToken(newClaims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *studentAPI) profile(ctx echo.Context) error {
	std, err := getContextStudent(ctx, api.svc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentAPI) updateProfile(ctx echo.Context) error {
	std, err := getContextStudent(ctx, api.svc)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	// students cannot promote themselves
	data.Role = std.Role
	if err = data.Validate(validate, std, api.svc); err != nil {
		return err
	}

	upd, err := api.svc.Update(ctx.Request().Context(), std.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, upd)
}

func (api *studentAPI) query(ctx echo.Context) error {
	all, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, all)
}

func (api *studentAPI) retrieve(ctx echo.Context) error {
	std, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentAPI) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := data.Validate(validate, api.svc); err != nil {
		return err
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentAPI) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(validate, orig, api.svc); err != nil {
		return err
	}

	std, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentAPI) delete(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

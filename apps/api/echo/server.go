package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/alert"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/task"
)

// package-level validation machinery; shared by handlers and the error handler.
var (
	validate   *validator.Validate
	translator ut.Translator
)

type (
	// ServerDeps defines the dependencies needed by the server.
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		StudentSvc student.ServiceInterface
		SubjectSvc subject.ServiceInterface
		TaskSvc    task.ServiceInterface
		AlertSvc   alert.ServiceInterface
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	validate = deps.Validate
	translator = deps.Translator

	srv := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(srv.shutdown, os.Interrupt, syscall.SIGTERM)
	srv.setup()
	return srv
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Debug = conf.Debug
	s.app.HideBanner = true
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(
		middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}),
		middleware.Secure(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	jwt := ConfigureAuth(conf)

	s.app.GET("/", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"app": conf.AppName, "build": conf.Build})
	})

	v1 := s.app.Group("/v1")
	registerStudentAPI(v1, jwt, s.deps.StudentSvc)
	registerSubjectAPI(v1, jwt, s.deps.SubjectSvc)
	registerTaskAPI(v1, jwt, s.deps.TaskSvc, s.deps.SubjectSvc)
	registerAlertAPI(v1, jwt, s.deps.AlertSvc)
}

// Start runs the server; it does not block. Watch Errors() and ShutdownSignal().
func (s *Server) Start() {
	go func() {
		s.deps.Logger.Info("api server listening on " + s.deps.Conf.Server.Addr)
		s.errs <- s.app.Start(s.deps.Conf.Server.Addr)
	}()
}

func (s *Server) Errors() <-chan error { return s.errs }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() { s.shutdown <- syscall.SIGTERM }

func (s *Server) Shutdown(ctx context.Context) error { return s.app.Shutdown(ctx) }

func (s *Server) Close() error { return s.app.Close() }

// ServeHTTP lets tests drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.app.ServeHTTP(w, r) }

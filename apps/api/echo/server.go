package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/mwalimu/darasa/core"
	"github.com/mwalimu/darasa/core/assignment"
	"github.com/mwalimu/darasa/core/department"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		AssignmentSvc *assignment.Service
		DepartmentSvc *department.Service
		SheetWriter   core.SheetWriter
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, func() {
		_ = s.Stop(context.Background())
	})
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerAssignmentAPI(v1, jwt, s.opts.AssignmentSvc, s.opts.SheetWriter)
	registerDepartmentAPI(v1, jwt, s.opts.DepartmentSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Conf.Server.Address()))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}

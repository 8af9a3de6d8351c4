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

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/user"
)

type (
	Options struct {
		DisableReqLogs bool
	}

	// Server is the development implementation of the classroom API.
	Server struct {
		conf       *core.Config
		app        *echo.Echo
		auth       *tokenAuth
		logger     core.Logger
		usrSvc     *user.Service
		cwSvc      *classwork.Service
		validate   *validator.Validate
		translator ut.Translator
		errs       chan error
		shutdown   chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(
	conf *core.Config,
	logger core.Logger,
	usrSvc *user.Service,
	cwSvc *classwork.Service,
	validate *validator.Validate,
	translator ut.Translator,
	opts ...Options,
) *Server {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	s := &Server{
		conf:       conf,
		app:        echo.New(),
		auth:       newTokenAuth(conf),
		logger:     logger,
		usrSvc:     usrSvc,
		cwSvc:      cwSvc,
		validate:   validate,
		translator: translator,
		errs:       make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	s.setup(opt)
	return s
}

func (s *Server) setup(opt Options) {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !opt.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORS())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger)
	s.app.Debug = s.conf.Debug && !s.conf.TestMode

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(s.auth.middlewareConfig())

	registerUserAPI(api, s)
	registerAssignmentAPI(api, jwt, s)
	registerStudentAPI(api, jwt, s)
}

// Start listens on conf.Server.Address until Shutdown is called.
// Listener errors are reported on Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errs
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Classwork API!")
}

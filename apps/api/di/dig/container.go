package dig_container

import (
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/classwork/apps/api/echo"
	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/user"
	logsvc "github.com/trezcool/classwork/services/logger"
	"github.com/trezcool/classwork/storage/database/inmem"
)

func newLogger(conf *core.Config) (core.Logger, error) {
	return logsvc.NewLogger(conf)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator)
	return validate
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	usrSvc *user.Service,
	cwSvc *classwork.Service,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(conf, logger, usrSvc, cwSvc, validate, translator)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(inmemdb.Open))
	must(c.Provide(inmemdb.NewUserRepository))
	must(c.Provide(inmemdb.NewAssignmentRepository))
	must(c.Provide(user.NewService))
	must(c.Provide(classwork.NewService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}

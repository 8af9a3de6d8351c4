// Command classroom is the command line client of the classroom API.
package main

import (
	"io"
	"log"
	"os"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/dashboard"
	"github.com/trezcool/classwork/core/session"
	"github.com/trezcool/classwork/core/store"
	classroomsvc "github.com/trezcool/classwork/services/classroom"
	logsvc "github.com/trezcool/classwork/services/logger"
	"github.com/trezcool/classwork/storage/session/bolt"
)

func main() {
	conf := core.NewConfig()

	logger, err := logsvc.NewLogger(conf)
	errAndDie(err)

	storage, err := boltsession.Open(conf.Session.Path)
	errAndDie(err)

	cli, err := newCommandLine(os.Stdout, conf, storage, logger)
	if err != nil {
		_ = storage.Close()
		errAndDie(err)
	}

	err = cli.run(os.Args)
	_ = storage.Close()
	if err != nil {
		if err != errHelp {
			cli.report(err)
		}
		os.Exit(1)
	}
}

// newCommandLine wires the session, API client, stores & dashboards.
func newCommandLine(out io.Writer, conf *core.Config, storage session.Storage, logger core.Logger) (*commandLine, error) {
	sess, err := session.NewStore(storage)
	if err != nil {
		return nil, err
	}
	client, err := classroomsvc.NewClient(conf, sess, logger)
	if err != nil {
		return nil, err
	}
	assignments := store.NewAssignments()
	cache := store.NewStudentCache()

	cli := &commandLine{
		out:     out,
		client:  client,
		sess:    sess,
		teacher: dashboard.NewTeacher(client, assignments, logger),
		student: dashboard.NewStudent(client, cache, logger),
	}
	dashboard.ResetOnLogout(sess, assignments, cache, logger)
	sess.OnLogout(cli.onLogout)
	return cli, nil
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

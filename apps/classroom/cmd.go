package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/classwork/core/dashboard"
	"github.com/trezcool/classwork/core/session"
	"github.com/trezcool/classwork/core/user"
	classroomsvc "github.com/trezcool/classwork/services/classroom"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type command struct {
	role user.Role // empty: no login required
	run  func(cli *commandLine, ctx context.Context, args []string) error
}

var usages = map[string]string{
	"register":    "-name NAME -email EMAIL -role teacher|student - create an account; the password is prompted next",
	"login":       "-email EMAIL - log in; the password is prompted next",
	"logout":      "- end the session",
	"whoami":      "- show the logged in user",
	"assignments": "[-status draft|published|completed] - list your assignments",
	"create":      "-title TITLE -description TEXT -due YYYY-MM-DD - create a draft",
	"publish":     "-id ID - publish a draft",
	"complete":    "-id ID - close a published assignment",
	"edit":        "-id ID [-title TITLE] [-description TEXT] [-due YYYY-MM-DD] - edit a draft",
	"delete":      "-id ID - delete a draft",
	"submissions": "-id ID - list the submissions of an assignment",
	"review":      "-id ID -submission ID - mark a submission as reviewed",
	"published":   "[-filter all|submitted|pending] - list published assignments",
	"history":     "- list your submissions, newest first",
	"submit":      "-id ID -answer TEXT - answer a published assignment",
}

var commands = map[string]command{
	"register":    {run: (*commandLine).register},
	"login":       {run: (*commandLine).login},
	"logout":      {run: (*commandLine).logout},
	"whoami":      {run: (*commandLine).whoami},
	"assignments": {role: user.RoleTeacher, run: (*commandLine).assignments},
	"create":      {role: user.RoleTeacher, run: (*commandLine).create},
	"publish":     {role: user.RoleTeacher, run: (*commandLine).publish},
	"complete":    {role: user.RoleTeacher, run: (*commandLine).complete},
	"edit":        {role: user.RoleTeacher, run: (*commandLine).edit},
	"delete":      {role: user.RoleTeacher, run: (*commandLine).delete},
	"submissions": {role: user.RoleTeacher, run: (*commandLine).submissions},
	"review":      {role: user.RoleTeacher, run: (*commandLine).review},
	"published":   {role: user.RoleStudent, run: (*commandLine).published},
	"history":     {role: user.RoleStudent, run: (*commandLine).history},
	"submit":      {role: user.RoleStudent, run: (*commandLine).submit},
}

type commandLine struct {
	out     io.Writer
	client  *classroomsvc.Client
	sess    *session.Store
	teacher *dashboard.Teacher
	student *dashboard.Student
}

func (cli *commandLine) printUsage() {
	names := make([]string, 0, len(usages))
	for name := range usages {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(cli.out, "Usage:")
	for _, name := range names {
		fmt.Fprintf(cli.out, "  %s %s\n", name, usages[name])
	}
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	cmd, ok := commands[args[1]]
	if !ok {
		cli.printUsage()
		return errHelp
	}
	if err := cli.checkRole(cmd.role); err != nil {
		return err
	}
	return cmd.run(cli, context.Background(), args[2:])
}

// checkRole keeps users off the other role's commands without calling the API.
func (cli *commandLine) checkRole(role user.Role) error {
	if role == "" {
		return nil
	}
	usr, ok := cli.sess.User()
	if !ok {
		return &classroomsvc.Error{Kind: classroomsvc.KindUnauthenticated, Message: "You are not logged in. Run `classroom login` first."}
	}
	if usr.Role != role {
		return &classroomsvc.Error{Kind: classroomsvc.KindForbidden, Message: fmt.Sprintf("This command is only available to %ss.", role)}
	}
	return nil
}

// newFlagSet returns a flag set writing its usage to the CLI output.
func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	fs.Usage = func() {
		fmt.Fprintf(cli.out, "Usage:\n  %s %s\n", name, usages[name])
		fs.PrintDefaults()
	}
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// report prints a failed command's message for the user.
func (cli *commandLine) report(err error) {
	fmt.Fprintf(cli.out, "error: %s\n", err)
}

// onLogout prints the re-login notice once the API has rejected the session.
func (cli *commandLine) onLogout(reason session.Reason) {
	if reason == session.Expired {
		fmt.Fprintln(cli.out, "Your session has expired. Log in again with `classroom login -email EMAIL`.")
	}
}

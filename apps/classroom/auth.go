package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/trezcool/classwork/core/user"
)

func (cli *commandLine) register(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("register")
	name := fs.String("name", "", "Your full name.")
	email := fs.String("email", "", "Your email address.")
	role := fs.String("role", string(user.RoleStudent), "One of: "+joinRoles(user.AllRoles)+".")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		fs.Usage()
		return errHelp
	}
	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}

	nu := user.NewUser{Name: *name, Email: *email, Password: pwd, Role: user.Role(*role)}
	if err := cli.client.Register(ctx, nu); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Registration successful. You can now log in.")
	return nil
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("login")
	email := fs.String("email", "", "Your email address. The password will be prompted next.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" {
		fs.Usage()
		return errHelp
	}
	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}
	if pwd == "" {
		fs.Usage()
		return errHelp
	}

	usr, err := cli.client.Login(ctx, user.Credentials{Email: *email, Password: pwd})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s (%s).\n", usr.Name, usr.Role)
	return nil
}

func (cli *commandLine) logout(_ context.Context, args []string) error {
	if err := parse(cli.newFlagSet("logout"), args); err != nil {
		return err
	}
	if err := cli.client.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Logged out.")
	return nil
}

func (cli *commandLine) whoami(_ context.Context, args []string) error {
	if err := parse(cli.newFlagSet("whoami"), args); err != nil {
		return err
	}
	usr, ok := cli.sess.User()
	if !ok {
		fmt.Fprintln(cli.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(cli.out, "%s <%s> (%s)\n", usr.Name, usr.Email, usr.Role)
	return nil
}

func joinRoles(roles []user.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

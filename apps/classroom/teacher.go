package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/classwork"
)

func (cli *commandLine) assignments(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("assignments")
	status := fs.String("status", "", "Only list assignments with this status: "+joinStatuses(classwork.AllStatuses)+".")
	if err := parse(fs, args); err != nil {
		return err
	}
	filter := classwork.Status(*status)
	if filter != "" && !filter.IsValid() {
		fs.Usage()
		return errHelp
	}

	if err := cli.teacher.Load(ctx); err != nil {
		return err
	}
	view := cli.teacher.View(filter)

	c := view.Counts
	fmt.Fprintf(cli.out, "All: %d  Draft: %d  Published: %d  Completed: %d\n\n", c.All, c.Draft, c.Published, c.Completed)
	if len(view.Assignments) == 0 {
		fmt.Fprintln(cli.out, "No assignments.")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDUE\tSUBMISSIONS")
	for _, a := range view.Assignments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", a.ID, a.Title, a.Status, a.DueDate.Format(core.DateLayout), len(a.Submissions))
	}
	return w.Flush()
}

func (cli *commandLine) create(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("create")
	title := fs.String("title", "", "The assignment title.")
	description := fs.String("description", "", "What the students must do.")
	due := fs.String("due", "", "The due date (YYYY-MM-DD).")
	if err := parse(fs, args); err != nil {
		return err
	}

	a, err := cli.teacher.Create(ctx, classwork.NewAssignment{Title: *title, Description: *description, DueDate: *due})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created draft %q (%s).\n", a.Title, a.ID)
	return nil
}

// idFlag parses a command whose only flag is the assignment -id.
func (cli *commandLine) idFlag(name string, args []string) (string, error) {
	fs := cli.newFlagSet(name)
	id := fs.String("id", "", "The assignment ID.")
	if err := parse(fs, args); err != nil {
		return "", err
	}
	if *id == "" {
		fs.Usage()
		return "", errHelp
	}
	return *id, nil
}

func (cli *commandLine) publish(ctx context.Context, args []string) error {
	id, err := cli.idFlag("publish", args)
	if err != nil {
		return err
	}
	a, err := cli.teacher.Publish(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Published %q.\n", a.Title)
	return nil
}

func (cli *commandLine) complete(ctx context.Context, args []string) error {
	id, err := cli.idFlag("complete", args)
	if err != nil {
		return err
	}
	a, err := cli.teacher.Complete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Completed %q.\n", a.Title)
	return nil
}

func (cli *commandLine) edit(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("edit")
	id := fs.String("id", "", "The assignment ID.")
	title := fs.String("title", "", "The new title.")
	description := fs.String("description", "", "The new description.")
	due := fs.String("due", "", "The new due date (YYYY-MM-DD).")
	if err := parse(fs, args); err != nil {
		return err
	}
	ua := classwork.UpdateAssignment{Title: *title, Description: *description, DueDate: *due}
	if *id == "" || ua.IsEmpty() {
		fs.Usage()
		return errHelp
	}

	a, err := cli.teacher.Edit(ctx, *id, ua)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Updated %q.\n", a.Title)
	return nil
}

func (cli *commandLine) delete(ctx context.Context, args []string) error {
	id, err := cli.idFlag("delete", args)
	if err != nil {
		return err
	}
	if err := cli.teacher.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Assignment deleted.")
	return nil
}

func (cli *commandLine) submissions(ctx context.Context, args []string) error {
	id, err := cli.idFlag("submissions", args)
	if err != nil {
		return err
	}
	subs, err := cli.teacher.Submissions(ctx, id)
	if err != nil {
		return err
	}

	stats := classwork.CountReviews(subs)
	fmt.Fprintf(cli.out, "Total: %d  Reviewed: %d  Pending: %d\n\n", stats.Total, stats.Reviewed, stats.Pending)
	if len(subs) == 0 {
		fmt.Fprintln(cli.out, "No submissions yet.")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTUDENT\tSUBMITTED\tREVIEWED\tANSWER")
	for _, sub := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", sub.ID, sub.StudentName, sub.SubmittedDate.Format(core.DateLayout), yesNo(sub.Reviewed), sub.Answer)
	}
	return w.Flush()
}

func (cli *commandLine) review(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("review")
	id := fs.String("id", "", "The assignment ID.")
	subID := fs.String("submission", "", "The submission ID.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" || *subID == "" {
		fs.Usage()
		return errHelp
	}

	sub, err := cli.teacher.Review(ctx, *id, *subID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Marked %s's submission as reviewed.\n", sub.StudentName)
	return nil
}

func joinStatuses(statuses []classwork.Status) string {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

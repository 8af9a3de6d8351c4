package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/classwork"
)

func (cli *commandLine) published(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("published")
	filterStr := fs.String("filter", string(classwork.FilterAll), "all, submitted or pending.")
	if err := parse(fs, args); err != nil {
		return err
	}
	filter := classwork.StudentFilter(*filterStr)
	if !filter.IsValid() {
		fs.Usage()
		return errHelp
	}

	if err := cli.student.Load(ctx); err != nil {
		return err
	}
	view := cli.student.View(filter)

	c := view.Counts
	fmt.Fprintf(cli.out, "Published: %d  Submitted: %d  Pending: %d\n\n", c.Published, c.Submitted, c.Pending)
	if len(view.Assignments) == 0 {
		fmt.Fprintln(cli.out, "No assignments.")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDUE\tSUBMITTED")
	for _, a := range view.Assignments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Title, a.DueDate.Format(core.DateLayout), yesNo(view.Submitted[a.ID]))
	}
	return w.Flush()
}

func (cli *commandLine) history(ctx context.Context, args []string) error {
	if err := parse(cli.newFlagSet("history"), args); err != nil {
		return err
	}
	if err := cli.student.Load(ctx); err != nil {
		return err
	}
	history := cli.student.View(classwork.FilterAll).History
	if len(history) == 0 {
		fmt.Fprintln(cli.out, "No submissions yet.")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ASSIGNMENT\tSUBMITTED\tREVIEWED\tANSWER")
	for _, sub := range history {
		title := sub.AssignmentTitle
		if title == "" {
			title = sub.AssignmentID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", title, sub.SubmittedDate.Format(core.DateLayout), yesNo(sub.Reviewed), sub.Answer)
	}
	return w.Flush()
}

func (cli *commandLine) submit(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("submit")
	id := fs.String("id", "", "The assignment ID.")
	answer := fs.String("answer", "", "Your answer.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}

	if _, err := cli.student.Submit(ctx, *id, classwork.NewSubmission{Answer: *answer}); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Answer submitted.")
	return nil
}

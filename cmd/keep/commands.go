package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"keep/internal/task"
)

const shortIDLen = 8

func listCmd(configPath *string) *cobra.Command {
	var dateFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the scheduled tasks for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			entries := a.store.Scheduled(date)
			out := cmd.OutOrStdout()
			st := task.Count(entries)
			fmt.Fprintf(out, "%s  (%d total, %d pending, %d done)\n", date.In(time.Local).Format("Mon Jan 02 2006"), st.Total, st.Pending, st.Done)
			for _, e := range entries {
				printTask(out, e.Task, false)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Day to show, YYYY-MM-DD (default today)")
	return cmd
}

func overdueCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "Print incomplete tasks dated before today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			entries := a.store.Overdue(civil.DateOf(time.Now()))
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "All caught up!")
				return nil
			}
			fmt.Fprintf(out, "Overdue (%d)\n", len(entries))
			shown := entries
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			for _, e := range shown {
				printTask(out, e.Task, true)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum tasks to print (0 for all)")
	return cmd
}

func addCmd(configPath *string) *cobra.Command {
	var dateFlag, start, end string
	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			idx, err := a.store.Upsert(task.NoIndex, task.Draft{
				Content: strings.Join(args, " "),
				Date:    &date,
				Start:   start,
				End:     end,
			})
			if err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), a.store.Tasks[idx], true)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Day, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&start, "start", "s", "", "Start time, HH:MM")
	cmd.Flags().StringVarP(&end, "end", "e", "", "End time, HH:MM")
	return cmd
}

func doneCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Toggle completion of a task by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			idx, err := findByPrefix(a.store, args[0])
			if err != nil {
				return err
			}
			a.store.Toggle(idx)
			if err := a.save(); err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), a.store.Tasks[idx], true)
			return nil
		},
	}
}

func notesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "notes",
		Short: "Print the notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			fmt.Fprintln(cmd.OutOrStdout(), a.store.Notes)
			return nil
		},
	}
}

var (
	errNoMatch   = errors.New("no task matches id")
	errAmbiguous = errors.New("id prefix matches more than one task")
)

func findByPrefix(s *task.Store, prefix string) (int, error) {
	if idx := s.IndexOf(prefix); idx >= 0 {
		return idx, nil
	}
	found := -1
	for i, t := range s.Tasks {
		if prefix == "" || !strings.HasPrefix(t.ID, prefix) {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("%w: %s", errAmbiguous, prefix)
		}
		found = i
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %s", errNoMatch, prefix)
	}
	return found, nil
}

func parseDateFlag(v string) (civil.Date, error) {
	if v == "" {
		return civil.DateOf(time.Now()), nil
	}
	d, err := civil.ParseDate(v)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", v)
	}
	return d, nil
}

func printTask(w io.Writer, t task.Task, withDate bool) {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	when := "--:--"
	if t.StartTime != nil {
		when = task.FormatClock(t.StartTime)
		if t.EndTime != nil {
			when += "-" + task.FormatClock(t.EndTime)
		}
	}
	id := t.ID
	if len(id) > shortIDLen {
		id = id[:shortIDLen]
	}
	date := ""
	if withDate && t.Date != nil {
		date = t.Date.String() + " "
	}
	fmt.Fprintf(w, "%s %s %s%-11s %s\n", id, check, date, when, t.Content)
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/resumekit/internal/jobs"
	"github.com/KaramelBytes/resumekit/internal/store"
)

var (
	jobCompany  string
	jobPosition string
	jobDate     string
	jobIndustry string
	jobSalary   string
	jobStatus   string

	jobListIndustry  string
	jobStatsIndustry string
)

var jobCmd = &cobra.Command{
	Use:     "job",
	Aliases: []string{"jobs"},
	Short:   "Track job applications",
}

var jobAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j := jobs.New(jobCompany, jobPosition, jobDate, jobIndustry, jobSalary)
		if cmd.Flags().Changed("status") {
			st, err := jobs.ParseStatus(jobStatus)
			if err != nil {
				return err
			}
			j.Status = st
		}
		ctx := cmd.Context()
		s, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		if _, err := s.SaveJob(ctx, j); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s at %s (%s)\n", j.Position, j.Company, j.ID)
		return nil
	},
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications grouped by status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		out := cmd.OutOrStdout()
		list := jobs.Filter(s.LoadJobs(ctx), jobListIndustry)
		if len(list) == 0 {
			fmt.Fprintln(out, "(no applications)")
			return nil
		}
		groups := jobs.ByStatus(list)
		for _, st := range jobs.Statuses {
			fmt.Fprintf(out, "%s (%d)\n", st, len(groups[st]))
			for _, j := range groups[st] {
				line := fmt.Sprintf("  - %s: %s at %s, applied %s", j.ID, j.Position, j.Company, j.DateApplied)
				if j.Industry != "" {
					line += ", " + j.Industry
				}
				if j.EstimatedSalary != "" {
					line += ", " + j.EstimatedSalary
				}
				fmt.Fprintln(out, line)
			}
		}
		return nil
	},
}

var jobMoveCmd = &cobra.Command{
	Use:   "move <job-id> <forward|backward>",
	Short: "Move an application to the next or previous status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir jobs.Direction
		switch strings.ToLower(args[1]) {
		case "forward", "next", "f":
			dir = jobs.Forward
		case "backward", "back", "prev", "b":
			dir = jobs.Backward
		default:
			return fmt.Errorf("invalid direction %q (use forward or backward)", args[1])
		}
		ctx := cmd.Context()
		s, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		j, err := findJob(ctx, s, args[0])
		if err != nil {
			return err
		}
		moved := jobs.Move(j, dir)
		if moved.Status == j.Status {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s at %s stays %s\n", j.Position, j.Company, j.Status)
			return nil
		}
		if _, err := s.SaveJob(ctx, moved); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s at %s: %s → %s\n", j.Position, j.Company, j.Status, moved.Status)
		return nil
	},
}

var jobDeleteCmd = &cobra.Command{
	Use:     "delete <job-id>",
	Aliases: []string{"rm"},
	Short:   "Delete an application",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		id := args[0]
		if j, err := findJob(ctx, s, id); err == nil {
			id = j.ID
		}
		if _, err := s.DeleteJob(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted application %s\n", id)
		return nil
	},
}

var jobStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show application counts and rejection rate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		all := s.LoadJobs(ctx)
		stats := jobs.Summarize(jobs.Filter(all, jobStatsIndustry))
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total Applications: %d\n", stats.Total)
		for _, st := range jobs.Statuses {
			fmt.Fprintf(out, "%s: %d\n", st, stats.Counts[st])
		}
		fmt.Fprintf(out, "Rejection Rate: %d%%\n", stats.RejectionRate)
		if inds := jobs.Industries(all); len(inds) > 0 && jobStatsIndustry == "" {
			fmt.Fprintf(out, "Industries: %s\n", strings.Join(inds, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobAddCmd, jobListCmd, jobMoveCmd, jobDeleteCmd, jobStatsCmd)

	jobAddCmd.Flags().StringVar(&jobCompany, "company", "", "company name (required)")
	jobAddCmd.Flags().StringVar(&jobPosition, "position", "", "position title (required)")
	jobAddCmd.Flags().StringVar(&jobDate, "date", "", "date applied, YYYY-MM-DD (default today)")
	jobAddCmd.Flags().StringVar(&jobIndustry, "industry", "", "industry")
	jobAddCmd.Flags().StringVar(&jobSalary, "salary", "", "estimated salary")
	jobAddCmd.Flags().StringVar(&jobStatus, "status", "", "initial status (default Applied)")
	_ = jobAddCmd.MarkFlagRequired("company")
	_ = jobAddCmd.MarkFlagRequired("position")

	jobListCmd.Flags().StringVar(&jobListIndustry, "industry", "", "only show this industry")
	jobStatsCmd.Flags().StringVar(&jobStatsIndustry, "industry", "", "only count this industry")
}

// findJob resolves an exact id or a unique id prefix.
func findJob(ctx context.Context, s *store.Store, ref string) (jobs.Job, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return jobs.Job{}, fmt.Errorf("job id is required")
	}
	var matches []jobs.Job
	for _, j := range s.LoadJobs(ctx) {
		if j.ID == ref {
			return j, nil
		}
		if strings.HasPrefix(j.ID, ref) {
			matches = append(matches, j)
		}
	}
	switch len(matches) {
	case 0:
		return jobs.Job{}, fmt.Errorf("application not found: %s", ref)
	case 1:
		return matches[0], nil
	}
	return jobs.Job{}, fmt.Errorf("application id %q is ambiguous (%d matches)", ref, len(matches))
}

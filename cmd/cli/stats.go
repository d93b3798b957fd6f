package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/cmd"
	"github.com/axellelanca/linkbio/internal/database"
	"github.com/axellelanca/linkbio/internal/repository"
	"github.com/axellelanca/linkbio/internal/services"
)

// StatsCmd prints click counts for every link and domain of a profile.
var StatsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Show click statistics for a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		db, err := cmd.OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		return runStats(c.Context(), db, args[0], c.OutOrStdout())
	},
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(ctx context.Context, db *gorm.DB, username string, out io.Writer) error {
	profiles := repository.NewProfileRepository(db)
	profile, err := profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return err
	}

	analytics := services.NewAnalyticsService(
		repository.NewLinkRepository(db),
		repository.NewDomainRepository(db),
		repository.NewClickRepository(db),
	)
	report, err := analytics.Report(ctx, profile.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Statistics for %s\n", profile.Username)
	fmt.Fprintf(out, "Total clicks: %d (links: %d, domains: %d)\n\n", report.Total, report.TotalLinks, report.TotalDomains)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tID\tNAME\tCLICKS")
	for _, l := range report.Links {
		fmt.Fprintf(tw, "link\t%s\t%s\t%d\n", l.ID, l.Title, l.Clicks)
	}
	for _, d := range report.Domains {
		fmt.Fprintf(tw, "domain\t%s\t%s\t%d\n", d.ID, d.DomainName, d.Clicks)
	}
	return tw.Flush()
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/cmd"
	"github.com/axellelanca/linkbio/internal/database"
	"github.com/axellelanca/linkbio/internal/repository"
	"github.com/axellelanca/linkbio/internal/services"
)

var (
	userFlag  string
	titleFlag string
	urlFlag   string
	iconFlag  string
)

// CreateLinkCmd appends a link to a profile from the command line.
var CreateLinkCmd = &cobra.Command{
	Use:   "create-link",
	Short: "Append a link to a profile",
	Long: `Appends a link after the last one of the given profile.

Example:
  linkbio create-link --user=alice --title="My blog" --url="https://blog.example.com"`,
	RunE: func(c *cobra.Command, _ []string) error {
		db, err := cmd.OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		return runCreateLink(c.Context(), db, cmd.Log, userFlag, services.LinkInput{
			Title: titleFlag,
			URL:   urlFlag,
			Icon:  iconFlag,
		}, c.OutOrStdout())
	},
}

func init() {
	CreateLinkCmd.Flags().StringVar(&userFlag, "user", "", "username of the profile (required)")
	CreateLinkCmd.Flags().StringVar(&titleFlag, "title", "", "link title (required)")
	CreateLinkCmd.Flags().StringVar(&urlFlag, "url", "", "destination URL, http or https (required)")
	CreateLinkCmd.Flags().StringVar(&iconFlag, "icon", "", "optional emoji icon")
	_ = CreateLinkCmd.MarkFlagRequired("user")
	_ = CreateLinkCmd.MarkFlagRequired("title")
	_ = CreateLinkCmd.MarkFlagRequired("url")
	cmd.RootCmd.AddCommand(CreateLinkCmd)
}

func runCreateLink(ctx context.Context, db *gorm.DB, log *zap.Logger, username string, in services.LinkInput, out io.Writer) error {
	profile, err := repository.NewProfileRepository(db).GetProfileByUsername(ctx, username)
	if err != nil {
		return err
	}

	link, err := services.NewLinkService(repository.NewLinkRepository(db), log).CreateLink(ctx, profile.ID, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Link created: %s (position %d)\n", link.ID, link.OrderIndex)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/cmd"
	"github.com/axellelanca/linkbio/internal/database"
	"github.com/axellelanca/linkbio/internal/repository"
	"github.com/axellelanca/linkbio/internal/services"
)

// ReorderCmd moves a link to the position of another one.
var ReorderCmd = &cobra.Command{
	Use:   "reorder <username> <moved-link-id> <target-link-id>",
	Short: "Move a link to the position of another link",
	Args:  cobra.ExactArgs(3),
	RunE: func(c *cobra.Command, args []string) error {
		db, err := cmd.OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		return runReorder(c.Context(), db, cmd.Log, args[0], args[1], args[2], c.OutOrStdout())
	},
}

func init() {
	cmd.RootCmd.AddCommand(ReorderCmd)
}

func runReorder(ctx context.Context, db *gorm.DB, log *zap.Logger, username, movedID, targetID string, out io.Writer) error {
	profile, err := repository.NewProfileRepository(db).GetProfileByUsername(ctx, username)
	if err != nil {
		return err
	}

	res, err := services.NewLinkService(repository.NewLinkRepository(db), log).MoveLink(ctx, profile.ID, movedID, targetID)
	if err != nil {
		return err
	}

	for i, l := range res.Links {
		fmt.Fprintf(out, "%2d. %s (%s)\n", i+1, l.Title, l.ID)
	}
	if !res.OK() {
		return fmt.Errorf("order not saved for %d link(s): %s", len(res.Failures), strings.Join(res.FailedIDs(), ", "))
	}
	return nil
}

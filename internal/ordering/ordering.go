// Package ordering keeps a profile's links in a dense, zero-based display order.
//
// Reordering is split in two steps: Reorder moves one link inside an in-memory
// snapshot, Commit assigns the new order keys and persists the ones that changed.
package ordering

import (
	"context"
	"fmt"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
)

// OrderUpdater persists a single link's order key.
type OrderUpdater interface {
	UpdateLinkOrder(ctx context.Context, linkID string, orderIndex int) error
}

// UpdaterFunc adapts a plain function to OrderUpdater.
type UpdaterFunc func(ctx context.Context, linkID string, orderIndex int) error

func (f UpdaterFunc) UpdateLinkOrder(ctx context.Context, linkID string, orderIndex int) error {
	return f(ctx, linkID, orderIndex)
}

// Reorder moves the link movedID to the slot currently held by targetID.
// Links between the two positions shift by one. The input slice is never modified.
//
// Moving a link onto itself returns list as is. If either id is absent the
// returned error wraps ErrNotFound and list is returned unchanged.
func Reorder(list []models.Link, movedID, targetID string) ([]models.Link, error) {
	if movedID == targetID {
		return list, nil
	}

	from := indexOf(list, movedID)
	if from < 0 {
		return list, fmt.Errorf("link %s: %w", movedID, customerrors.ErrNotFound)
	}
	to := indexOf(list, targetID)
	if to < 0 {
		return list, fmt.Errorf("link %s: %w", targetID, customerrors.ErrNotFound)
	}

	out := make([]models.Link, len(list))
	copy(out, list)

	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved

	return out, nil
}

func indexOf(list []models.Link, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// CommitResult is the outcome of a Commit.
// Links always holds the new order, whatever happened during persistence.
type CommitResult struct {
	Links    []models.Link
	Updated  []string
	Failures []customerrors.PersistenceFailure
}

// OK reports whether every issued update succeeded.
func (r CommitResult) OK() bool {
	return len(r.Failures) == 0
}

// FailedIDs returns the identifiers whose order key could not be persisted.
func (r CommitResult) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		ids = append(ids, f.ID)
	}
	return ids
}

// Commit gives each link an order key equal to its index in list, then issues
// one update per link whose key changed, one at a time and in index order.
//
// Updates are independent calls: a failure is recorded for that id and the
// remaining updates are still attempted. Earlier successes are not rolled back,
// so after a partial failure the persisted keys mix the old and new order.
func Commit(ctx context.Context, list []models.Link, updater OrderUpdater) CommitResult {
	res := CommitResult{Links: make([]models.Link, len(list))}

	for i, link := range list {
		changed := link.OrderIndex != i
		link.OrderIndex = i
		res.Links[i] = link

		if !changed {
			continue
		}
		if err := updater.UpdateLinkOrder(ctx, link.ID, i); err != nil {
			res.Failures = append(res.Failures, customerrors.PersistenceFailure{ID: link.ID, Err: err})
			continue
		}
		res.Updated = append(res.Updated, link.ID)
	}

	return res
}

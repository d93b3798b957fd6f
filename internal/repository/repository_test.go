package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/internal/database"
	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.InMemory, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createProfile(t *testing.T, repo *repository.GormProfileRepository, username string) *models.Profile {
	t.Helper()
	p := &models.Profile{Email: username + "@example.com", PasswordHash: "x", Username: username}
	require.NoError(t, repo.CreateProfile(context.Background(), p))
	return p
}

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(openDB(t))

	p := createProfile(t, repo, "alice")
	assert.NotEmpty(t, p.ID)

	got, err := repo.GetProfileByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = repo.GetProfileByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	dup := &models.Profile{Email: "other@example.com", PasswordHash: "x", Username: "alice"}
	assert.ErrorIs(t, repo.CreateProfile(ctx, dup), customerrors.ErrUsernameTaken)

	bio := "hello"
	got.Bio = &bio
	got.Theme = &models.Theme{BackgroundColor: "#000", TextColor: "#fff", AccentColor: "#f00", ButtonStyle: models.ButtonSolid}
	require.NoError(t, repo.UpdateProfile(ctx, got))

	reloaded, err := repo.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Bio)
	assert.Equal(t, "hello", *reloaded.Bio)
	require.NotNil(t, reloaded.Theme)
	assert.Equal(t, models.ButtonSolid, reloaded.Theme.ButtonStyle)
}

func TestLinkRepository_OrderAndUpdates(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	profiles := repository.NewProfileRepository(db)
	links := repository.NewLinkRepository(db)
	owner := createProfile(t, profiles, "bob")

	maxIndex, err := links.MaxOrderIndex(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, maxIndex)

	for i, title := range []string{"c", "a", "b"} {
		l := &models.Link{ProfileID: owner.ID, Title: title, URL: "https://example.com/" + title, OrderIndex: []int{2, 0, 1}[i]}
		require.NoError(t, links.CreateLink(ctx, l))
	}

	list, err := links.ListLinksByProfile(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{list[0].Title, list[1].Title, list[2].Title})

	maxIndex, err = links.MaxOrderIndex(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, maxIndex)

	require.NoError(t, links.UpdateLinkOrder(ctx, list[2].ID, 0))
	require.NoError(t, links.UpdateLinkOrder(ctx, list[0].ID, 2))
	list, err = links.ListLinksByProfile(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "c", list[0].Title)
	assert.Equal(t, "a", list[2].Title)

	assert.ErrorIs(t, links.UpdateLinkOrder(ctx, "missing", 1), customerrors.ErrNotFound)

	icon := "🔗"
	list[0].Title = "renamed"
	list[0].Icon = &icon
	require.NoError(t, links.UpdateLink(ctx, &list[0]))
	got, err := links.GetLink(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	require.NotNil(t, got.Icon)
	assert.Equal(t, icon, *got.Icon)

	require.NoError(t, links.DeleteLink(ctx, got.ID))
	_, err = links.GetLink(ctx, got.ID)
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
	assert.ErrorIs(t, links.DeleteLink(ctx, got.ID), customerrors.ErrNotFound)
}

func TestDomainRepository(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	owner := createProfile(t, repository.NewProfileRepository(db), "carol")
	domains := repository.NewDomainRepository(db)

	older := &models.Domain{ProfileID: owner.ID, DomainName: "old.io", Price: decimal.RequireFromString("10.50"),
		CreatedAt: time.Now().UTC().Add(-time.Hour)}
	newer := &models.Domain{ProfileID: owner.ID, DomainName: "new.io", Price: decimal.RequireFromString("1500")}
	require.NoError(t, domains.CreateDomain(ctx, older))
	require.NoError(t, domains.CreateDomain(ctx, newer))

	list, err := domains.ListDomainsByProfile(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new.io", list[0].DomainName)
	assert.True(t, list[1].Price.Equal(decimal.RequireFromString("10.5")))

	buy := "https://buy.example.com/old.io"
	older.Price = decimal.RequireFromString("99.99")
	older.BuyURL = &buy
	require.NoError(t, domains.UpdateDomain(ctx, older))

	got, err := domains.GetDomain(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("99.99")))
	require.NotNil(t, got.BuyURL)
	assert.Equal(t, buy, *got.BuyURL)

	require.NoError(t, domains.DeleteDomain(ctx, older.ID))
	all, err := domains.GetAllDomains(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestClickRepository_Fetch(t *testing.T) {
	ctx := context.Background()
	clicks := repository.NewClickRepository(openDB(t))

	for _, e := range []models.ClickEvent{
		models.NewLinkClick("L1", nil, nil),
		models.NewLinkClick("L1", nil, nil),
		models.NewLinkClick("L2", nil, nil),
		models.NewDomainClick("D1", nil, nil),
		models.NewLinkClick("other", nil, nil),
	} {
		e := e
		require.NoError(t, clicks.CreateClick(ctx, &e))
	}

	got, err := clicks.FetchClickEvents(ctx, []string{"L1", "L2"}, []string{"D1"})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = clicks.FetchClickEvents(ctx, []string{"L1"}, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = clicks.FetchClickEvents(ctx, nil, []string{"D1"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = clicks.FetchClickEvents(ctx, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

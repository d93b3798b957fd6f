package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/internal/auth"
	"github.com/axellelanca/linkbio/internal/database"
	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
	"github.com/axellelanca/linkbio/internal/services"
	"github.com/axellelanca/linkbio/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type fixture struct {
	db       *gorm.DB
	links    repository.LinkRepository
	domains  repository.DomainRepository
	clicks   repository.ClickRepository
	profiles repository.ProfileRepository
	fs       afero.Fs
	profile  *services.ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(database.InMemory, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	f := &fixture{
		db:       db,
		links:    repository.NewLinkRepository(db),
		domains:  repository.NewDomainRepository(db),
		clicks:   repository.NewClickRepository(db),
		profiles: repository.NewProfileRepository(db),
		fs:       afero.NewMemMapFs(),
	}
	tokens := auth.NewTokenService("test-secret", "linkbio-test", time.Hour)
	avatars := storage.NewAvatarStore(f.fs, "avatars", "/avatars", 1024)
	f.profile = services.NewProfileService(f.profiles, f.links, f.domains, tokens, avatars, zap.NewNop())
	return f
}

func (f *fixture) signUp(t *testing.T, username string) *models.Profile {
	t.Helper()
	p, token, err := f.profile.SignUp(context.Background(), services.SignUpInput{
		Email:    username + "@example.com",
		Password: "correct horse",
		Username: username,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return p
}

// flakyLinks fails order updates for one link id.
type flakyLinks struct {
	repository.LinkRepository
	failID string
}

func (r flakyLinks) UpdateLinkOrder(ctx context.Context, linkID string, orderIndex int) error {
	if linkID == r.failID {
		return errors.New("connection reset")
	}
	return r.LinkRepository.UpdateLinkOrder(ctx, linkID, orderIndex)
}

func titles(links []models.Link) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Title
	}
	return out
}

func TestLinkService_CreateAppends(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.signUp(t, "alice")
	svc := services.NewLinkService(f.links, zap.NewNop())

	for i, title := range []string{"A", "B", "C"} {
		l, err := svc.CreateLink(ctx, owner.ID, services.LinkInput{Title: title, URL: "https://example.com/" + title})
		require.NoError(t, err)
		assert.Equal(t, i, l.OrderIndex)
	}

	_, err := svc.CreateLink(ctx, owner.ID, services.LinkInput{Title: "bad", URL: "ftp://example.com"})
	assert.ErrorIs(t, err, customerrors.ErrInvalidURL)

	var verr customerrors.ValidationError
	_, err = svc.CreateLink(ctx, owner.ID, services.LinkInput{Title: "  ", URL: "https://example.com"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestLinkService_MoveAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.signUp(t, "alice")
	svc := services.NewLinkService(f.links, zap.NewNop())

	ids := map[string]string{}
	for _, title := range []string{"A", "B", "C", "D"} {
		l, err := svc.CreateLink(ctx, owner.ID, services.LinkInput{Title: title, URL: "https://example.com"})
		require.NoError(t, err)
		ids[title] = l.ID
	}

	res, err := svc.MoveLink(ctx, owner.ID, ids["A"], ids["C"])
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"B", "C", "A", "D"}, titles(res.Links))

	stored, err := svc.ListLinks(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A", "D"}, titles(stored))

	require.NoError(t, svc.DeleteLink(ctx, owner.ID, ids["C"]))
	stored, err = svc.ListLinks(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"B", "A", "D"}, titles(stored))
	for i, l := range stored {
		assert.Equal(t, i, l.OrderIndex, "keys stay dense after delete")
	}

	_, err = svc.MoveLink(ctx, owner.ID, ids["A"], "missing")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestLinkService_MovePartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.signUp(t, "alice")

	seed := services.NewLinkService(f.links, zap.NewNop())
	var created []*models.Link
	for _, title := range []string{"A", "B", "C"} {
		l, err := seed.CreateLink(ctx, owner.ID, services.LinkInput{Title: title, URL: "https://example.com"})
		require.NoError(t, err)
		created = append(created, l)
	}

	svc := services.NewLinkService(flakyLinks{LinkRepository: f.links, failID: created[1].ID}, zap.NewNop())
	res, err := svc.MoveLink(ctx, owner.ID, created[2].ID, created[0].ID)
	require.NoError(t, err)

	assert.False(t, res.OK())
	assert.Equal(t, []string{created[1].ID}, res.FailedIDs())
	assert.Equal(t, []string{"C", "A", "B"}, titles(res.Links))
}

func TestLinkService_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signUp(t, "alice")
	bob := f.signUp(t, "bob")
	svc := services.NewLinkService(f.links, zap.NewNop())

	l, err := svc.CreateLink(ctx, alice.ID, services.LinkInput{Title: "A", URL: "https://example.com"})
	require.NoError(t, err)

	_, err = svc.UpdateLink(ctx, bob.ID, l.ID, services.LinkInput{Title: "x", URL: "https://evil.example"})
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteLink(ctx, bob.ID, l.ID), customerrors.ErrNotFound)

	updated, err := svc.UpdateLink(ctx, alice.ID, l.ID, services.LinkInput{Title: "A2", URL: "https://example.org", Icon: "🔗"})
	require.NoError(t, err)
	require.NotNil(t, updated.Icon)
	assert.Equal(t, "🔗", *updated.Icon)
}

func TestDomainService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signUp(t, "alice")
	bob := f.signUp(t, "bob")
	svc := services.NewDomainService(f.domains, zap.NewNop())

	d, err := svc.CreateDomain(ctx, alice.ID, services.DomainInput{
		DomainName: " Example.IO ",
		Price:      decimal.RequireFromString("1500.005"),
		BuyURL:     "https://sedo.com/example.io",
	})
	require.NoError(t, err)
	assert.Equal(t, "example.io", d.DomainName)
	assert.Equal(t, "1500.01", d.Price.StringFixed(2))
	assert.Nil(t, d.Description)

	_, err = svc.CreateDomain(ctx, alice.ID, services.DomainInput{DomainName: "cheap.dev", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, customerrors.ErrInvalidPrice)

	_, err = svc.CreateDomain(ctx, alice.ID, services.DomainInput{DomainName: "cheap.dev", BuyURL: "javascript:alert(1)"})
	assert.ErrorIs(t, err, customerrors.ErrInvalidURL)

	_, err = svc.CreateDomain(ctx, alice.ID, services.DomainInput{DomainName: "https://cheap.dev"})
	var verr customerrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateDomain(ctx, bob.ID, d.ID, services.DomainInput{DomainName: "example.io"})
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	updated, err := svc.UpdateDomain(ctx, alice.ID, d.ID, services.DomainInput{DomainName: "example.io", Price: decimal.NewFromInt(900), Description: "Short and brandable"})
	require.NoError(t, err)
	assert.Nil(t, updated.BuyURL)
	require.NotNil(t, updated.Description)

	require.NoError(t, svc.DeleteDomain(ctx, alice.ID, d.ID))
	list, err := svc.ListDomains(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProfileService_SignUpAndLogIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.signUp(t, "Alice")
	assert.Equal(t, "alice", p.Username)
	require.NotNil(t, p.Theme)
	assert.Equal(t, "#0f0f0f", p.Theme.BackgroundColor)

	_, _, err := f.profile.SignUp(ctx, services.SignUpInput{Email: "alice2@example.com", Password: "correct horse", Username: "alice"})
	assert.ErrorIs(t, err, customerrors.ErrUsernameTaken)

	_, _, err = f.profile.SignUp(ctx, services.SignUpInput{Email: "carol@example.com", Password: "short", Username: "carol"})
	var verr customerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	_, _, err = f.profile.SignUp(ctx, services.SignUpInput{Email: "api@example.com", Password: "correct horse", Username: "api"})
	assert.ErrorAs(t, err, &verr)

	got, token, err := f.profile.LogIn(ctx, "ALICE@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.NotEmpty(t, token)

	_, _, err = f.profile.LogIn(ctx, "alice@example.com", "wrong password")
	assert.ErrorIs(t, err, customerrors.ErrInvalidCredentials)
	_, _, err = f.profile.LogIn(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, customerrors.ErrInvalidCredentials)
}

func TestProfileService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.signUp(t, "alice")
	f.signUp(t, "bob")

	preset := "ocean"
	bio := "  Builder of things  "
	updated, err := f.profile.UpdateSettings(ctx, p.ID, services.SettingsInput{Preset: &preset, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "#0a1929", updated.Theme.BackgroundColor)
	assert.Equal(t, "Builder of things", *updated.Bio)

	bad := models.Theme{BackgroundColor: "red", TextColor: "#fff", AccentColor: "#000", ButtonStyle: models.ButtonSolid}
	_, err = f.profile.UpdateSettings(ctx, p.ID, services.SettingsInput{Theme: &bad})
	assert.ErrorIs(t, err, customerrors.ErrInvalidTheme)

	unknown := "neon"
	_, err = f.profile.UpdateSettings(ctx, p.ID, services.SettingsInput{Preset: &unknown})
	assert.ErrorIs(t, err, customerrors.ErrInvalidTheme)

	taken := "bob"
	_, err = f.profile.UpdateSettings(ctx, p.ID, services.SettingsInput{Username: &taken})
	assert.ErrorIs(t, err, customerrors.ErrUsernameTaken)

	renamed := "alice.dev"
	updated, err = f.profile.UpdateSettings(ctx, p.ID, services.SettingsInput{Username: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "alice.dev", updated.Username)
}

func TestProfileService_UploadAvatar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.signUp(t, "alice")

	first, err := f.profile.UploadAvatar(ctx, p.ID, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	require.NotNil(t, first.AvatarURL)
	firstURL := *first.AvatarURL

	second, err := f.profile.UploadAvatar(ctx, p.ID, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.NotEqual(t, firstURL, *second.AvatarURL)

	files, err := afero.ReadDir(f.fs, "avatars")
	require.NoError(t, err)
	assert.Len(t, files, 1, "previous avatar removed")

	_, err = f.profile.UploadAvatar(ctx, p.ID, bytes.NewReader([]byte("plain text")))
	assert.ErrorIs(t, err, customerrors.ErrUnsupportedAvatar)
}

func TestProfileService_PublicProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.signUp(t, "alice")

	links := services.NewLinkService(f.links, zap.NewNop())
	for _, title := range []string{"A", "B"} {
		_, err := links.CreateLink(ctx, p.ID, services.LinkInput{Title: title, URL: "https://example.com"})
		require.NoError(t, err)
	}

	page, err := f.profile.PublicProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(page.Links))
	assert.Empty(t, page.Domains)
	assert.Equal(t, "#ff7e29", page.Theme.AccentColor)

	_, err = f.profile.PublicProfile(ctx, "nobody")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestAnalyticsService_Report(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.signUp(t, "alice")
	other := f.signUp(t, "bob")

	links := services.NewLinkService(f.links, zap.NewNop())
	domains := services.NewDomainService(f.domains, zap.NewNop())
	l1, err := links.CreateLink(ctx, p.ID, services.LinkInput{Title: "A", URL: "https://example.com"})
	require.NoError(t, err)
	l2, err := links.CreateLink(ctx, p.ID, services.LinkInput{Title: "B", URL: "https://example.com"})
	require.NoError(t, err)
	d1, err := domains.CreateDomain(ctx, p.ID, services.DomainInput{DomainName: "example.io", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	foreign, err := links.CreateLink(ctx, other.ID, services.LinkInput{Title: "X", URL: "https://example.com"})
	require.NoError(t, err)

	for _, e := range []models.ClickEvent{
		models.NewLinkClick(l1.ID, nil, nil),
		models.NewLinkClick(l1.ID, nil, nil),
		models.NewDomainClick(d1.ID, nil, nil),
		models.NewLinkClick(foreign.ID, nil, nil),
	} {
		e := e
		require.NoError(t, f.clicks.CreateClick(ctx, &e))
	}

	report, err := services.NewAnalyticsService(f.links, f.domains, f.clicks).Report(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.TotalLinks)
	assert.Equal(t, 1, report.TotalDomains)
	require.Len(t, report.Links, 2)
	assert.Equal(t, l1.ID, report.Links[0].ID)
	assert.Equal(t, 2, report.Links[0].Clicks)
	assert.Equal(t, l2.ID, report.Links[1].ID)
	assert.Equal(t, 0, report.Links[1].Clicks)
	assert.Equal(t, 1, report.Domains[0].Clicks)

	empty, err := services.NewAnalyticsService(f.links, f.domains, f.clicks).Report(ctx, "no-such-profile")
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
}

func TestValidateURL(t *testing.T) {
	for _, raw := range []string{"https://example.com", "http://example.com/a?b=c", " https://x.io "} {
		assert.NoError(t, services.ValidateURL(raw), raw)
	}
	for _, raw := range []string{"", "example.com", "ftp://example.com", "https://", "javascript:alert(1)"} {
		assert.ErrorIs(t, services.ValidateURL(raw), customerrors.ErrInvalidURL, raw)
	}
}

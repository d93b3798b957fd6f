package monitor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/axellelanca/linkbio/internal/database"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/monitor"
	"github.com/axellelanca/linkbio/internal/repository"
)

func TestCheckNow(t *testing.T) {
	ctx := context.Background()
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/gone" || !healthy.Load() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	db, err := database.Open(database.InMemory, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	defer database.Close(db)

	links := repository.NewLinkRepository(db)
	domains := repository.NewDomainRepository(db)

	ok := &models.Link{ProfileID: "p1", Title: "ok", URL: srv.URL + "/ok", OrderIndex: 0}
	gone := &models.Link{ProfileID: "p1", Title: "gone", URL: srv.URL + "/gone", OrderIndex: 1}
	require.NoError(t, links.CreateLink(ctx, ok))
	require.NoError(t, links.CreateLink(ctx, gone))

	buy := srv.URL + "/buy"
	listed := &models.Domain{ProfileID: "p1", DomainName: "example.io", Price: decimal.NewFromInt(10), BuyURL: &buy}
	unlisted := &models.Domain{ProfileID: "p1", DomainName: "example.dev", Price: decimal.NewFromInt(10)}
	require.NoError(t, domains.CreateDomain(ctx, listed))
	require.NoError(t, domains.CreateDomain(ctx, unlisted))

	m := monitor.NewUrlMonitor(links, domains, time.Minute, zap.NewNop()).WithHTTPClient(srv.Client())

	assert.Equal(t, 1, m.CheckNow(ctx))

	state, known := m.State(models.ClickKindLink, ok.ID)
	assert.True(t, known)
	assert.True(t, state)
	state, _ = m.State(models.ClickKindLink, gone.ID)
	assert.False(t, state)
	_, known = m.State(models.ClickKindDomain, unlisted.ID)
	assert.False(t, known, "domains without a buy URL are not monitored")

	healthy.Store(false)
	assert.Equal(t, 3, m.CheckNow(ctx))
	state, _ = m.State(models.ClickKindDomain, listed.ID)
	assert.False(t, state)

	require.NoError(t, links.DeleteLink(ctx, gone.ID))
	m.CheckNow(ctx)
	_, known = m.State(models.ClickKindLink, gone.ID)
	assert.False(t, known, "deleted targets are forgotten")
}

func TestStart_StopsOnCancel(t *testing.T) {
	db, err := database.Open(database.InMemory, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	defer database.Close(db)

	m := monitor.NewUrlMonitor(repository.NewLinkRepository(db), repository.NewDomainRepository(db), time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}
}

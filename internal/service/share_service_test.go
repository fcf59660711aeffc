package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
	"github.com/shaed-rp/Endera/internal/repository"
	"github.com/shaed-rp/Endera/internal/store"
)

type shareFixture struct {
	svc        ShareService
	sessions   *repository.MemorySessionsRepo
	selections *repository.MemorySelectionsRepo
	saved      *repository.MemorySavedConfigurationsRepo
	cache      store.KV
	sessionID  string
}

func newShareFixture(t *testing.T, cache store.KV) *shareFixture {
	t.Helper()
	sessions := repository.NewMemorySessionsRepo()
	selections := repository.NewMemorySelectionsRepo()
	saved := repository.NewMemorySavedConfigurationsRepo()
	logger := zap.NewNop()

	svc := NewShareService(sessions, selections, saved, cache, time.Hour, time.Second, logger)

	sessionSvc := NewSessionService(sessions, selections, time.Second, logger)
	resp, err := sessionSvc.Create(context.Background(), CreateSessionRequest{})
	require.NoError(t, err)

	chassisID := testChassisID
	total := 227840.0
	_, err = sessions.UpdateSession(context.Background(), resp.SessionID, repository.SessionUpdate{
		SelectedChassisID: &chassisID,
		TotalPrice:        &total,
	})
	require.NoError(t, err)

	return &shareFixture{
		svc:        svc,
		sessions:   sessions,
		selections: selections,
		saved:      saved,
		cache:      cache,
		sessionID:  resp.SessionID,
	}
}

func TestShareService_SaveAndGet(t *testing.T) {
	f := newShareFixture(t, store.NewMemoryKV())
	ctx := context.Background()

	require.NoError(t, f.selections.AddSelection(ctx, &domain.Selection{
		ID: "sel-1", SessionID: f.sessionID,
		Type: domain.SelectionChassis, ItemID: testChassisID, Quantity: 1,
	}))

	resp, err := f.svc.Save(ctx, SaveConfigurationRequest{
		SessionID: f.sessionID,
		Name:      "Airport shuttle build",
		UserEmail: "fleet@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ConfigurationID)
	require.Len(t, resp.ShareToken, 64)

	sc, err := f.svc.GetByToken(ctx, resp.ShareToken)
	require.NoError(t, err)
	require.Equal(t, "Airport shuttle build", sc.Name)
	require.InDelta(t, 227840, sc.TotalPrice, 0.001)

	var snap domain.ConfigurationSnapshot
	require.NoError(t, json.Unmarshal(sc.Snapshot, &snap))
	require.Equal(t, testChassisID, snap.ChassisID)
	require.Len(t, snap.Selections, 1)
}

func TestShareService_SnapshotImmutable(t *testing.T) {
	f := newShareFixture(t, nil)
	ctx := context.Background()

	resp, err := f.svc.Save(ctx, SaveConfigurationRequest{SessionID: f.sessionID})
	require.NoError(t, err)

	// 保存后继续改会话：快照不受影响
	other := "replaced-chassis"
	_, err = f.sessions.UpdateSession(ctx, f.sessionID, repository.SessionUpdate{SelectedChassisID: &other})
	require.NoError(t, err)
	require.NoError(t, f.selections.AddSelection(ctx, &domain.Selection{
		ID: "late-sel", SessionID: f.sessionID, Type: domain.SelectionOption, Quantity: 1,
	}))

	sc, err := f.svc.GetByToken(ctx, resp.ShareToken)
	require.NoError(t, err)

	var snap domain.ConfigurationSnapshot
	require.NoError(t, json.Unmarshal(sc.Snapshot, &snap))
	require.Equal(t, testChassisID, snap.ChassisID)
	require.Empty(t, snap.Selections)
}

func TestShareService_CacheReadThrough(t *testing.T) {
	cache := store.NewMemoryKV()
	f := newShareFixture(t, cache)
	ctx := context.Background()

	resp, err := f.svc.Save(ctx, SaveConfigurationRequest{SessionID: f.sessionID})
	require.NoError(t, err)

	// 保存即预热：直接命中缓存，不依赖存储
	val, err := cache.Get(ctx, "share:"+resp.ShareToken)
	require.NoError(t, err)
	require.NotEmpty(t, val)

	sc, err := f.svc.GetByToken(ctx, resp.ShareToken)
	require.NoError(t, err)
	require.Equal(t, resp.ConfigurationID, sc.ID)
}

func TestShareService_CorruptCacheFallsThrough(t *testing.T) {
	cache := store.NewMemoryKV()
	f := newShareFixture(t, cache)
	ctx := context.Background()

	resp, err := f.svc.Save(ctx, SaveConfigurationRequest{SessionID: f.sessionID})
	require.NoError(t, err)

	// 缓存内容损坏：当作未命中回源
	require.NoError(t, cache.Set(ctx, "share:"+resp.ShareToken, "{not json", 0))

	sc, err := f.svc.GetByToken(ctx, resp.ShareToken)
	require.NoError(t, err)
	require.Equal(t, resp.ConfigurationID, sc.ID)
}

func TestShareService_UnknownToken(t *testing.T) {
	f := newShareFixture(t, store.NewMemoryKV())

	_, err := f.svc.GetByToken(context.Background(), "deadbeef")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestShareService_SaveUnknownSession(t *testing.T) {
	f := newShareFixture(t, nil)

	_, err := f.svc.Save(context.Background(), SaveConfigurationRequest{SessionID: "no-such-session"})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
	"github.com/shaed-rp/Endera/internal/repository"
)

func newSessionFixture() (SessionService, *repository.MemorySessionsRepo, *repository.MemorySelectionsRepo) {
	sessions := repository.NewMemorySessionsRepo()
	selections := repository.NewMemorySelectionsRepo()
	svc := NewSessionService(sessions, selections, time.Second, zap.NewNop())
	return svc, sessions, selections
}

func TestSessionService_Create(t *testing.T) {
	svc, _, _ := newSessionFixture()

	resp, err := svc.Create(context.Background(), CreateSessionRequest{UserEmail: "fleet@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	require.Len(t, resp.SessionToken, 64)
	require.Equal(t, domain.StepChassisSelection, resp.CurrentStep)

	session, err := svc.Get(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, session.Status)
	require.Equal(t, TierCustomer, session.UserType)
	require.Empty(t, session.Selections)
	// 有效期在创建时一次性定格为 30 天
	require.WithinDuration(t, session.CreatedAt.Add(SessionTTL), session.ExpiresAt, time.Second)
}

func TestSessionService_CreateDealer(t *testing.T) {
	svc, _, _ := newSessionFixture()

	resp, err := svc.Create(context.Background(), CreateSessionRequest{UserType: TierDealer})
	require.NoError(t, err)

	session, err := svc.Get(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.Equal(t, TierDealer, session.UserType)
}

func TestSessionService_GetUnknown(t *testing.T) {
	svc, _, _ := newSessionFixture()

	_, err := svc.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSessionService_GetExpired(t *testing.T) {
	svc, sessions, _ := newSessionFixture()

	// 已过期的会话：必须返回 ErrExpired 而不是 ErrNotFound
	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, sessions.CreateSession(context.Background(), &domain.ConfigurationSession{
		ID:           "e1e1e1e1-0000-0000-0000-000000000001",
		SessionToken: "token",
		UserType:     TierCustomer,
		CurrentStep:  domain.StepChassisSelection,
		Status:       domain.StatusActive,
		CreatedAt:    past.Add(-SessionTTL),
		ExpiresAt:    past,
	}))

	_, err := svc.Get(context.Background(), "e1e1e1e1-0000-0000-0000-000000000001")
	require.ErrorIs(t, err, errs.ErrExpired)
	require.NotErrorIs(t, err, errs.ErrNotFound)

	// 惰性过期落库
	stored, err := sessions.GetSession(context.Background(), "e1e1e1e1-0000-0000-0000-000000000001")
	require.NoError(t, err)
	require.Equal(t, domain.StatusExpired, stored.Status)
}

func TestSessionService_UpdateStep(t *testing.T) {
	svc, _, _ := newSessionFixture()

	resp, err := svc.Create(context.Background(), CreateSessionRequest{})
	require.NoError(t, err)

	step := domain.StepReview
	updated, err := svc.Update(context.Background(), resp.SessionID, UpdateSessionRequest{CurrentStep: &step})
	require.NoError(t, err)
	require.Equal(t, domain.StepReview, updated.CurrentStep)

	// 回退步骤不重置已有选择
	back := domain.StepBodySelection
	chassisID := "11111111-1111-1111-1111-111111111111"
	updated, err = svc.Update(context.Background(), resp.SessionID, UpdateSessionRequest{SelectedChassisID: &chassisID})
	require.NoError(t, err)
	require.Equal(t, chassisID, updated.SelectedChassisID)

	updated, err = svc.Update(context.Background(), resp.SessionID, UpdateSessionRequest{CurrentStep: &back})
	require.NoError(t, err)
	require.Equal(t, domain.StepBodySelection, updated.CurrentStep)
	require.Equal(t, chassisID, updated.SelectedChassisID)
}

func TestSessionService_UpdateUnknownStep(t *testing.T) {
	svc, _, _ := newSessionFixture()

	resp, err := svc.Create(context.Background(), CreateSessionRequest{})
	require.NoError(t, err)

	step := "paint_selection"
	_, err = svc.Update(context.Background(), resp.SessionID, UpdateSessionRequest{CurrentStep: &step})
	require.ErrorIs(t, err, errs.ErrInvalid)
}

func TestSessionService_Transitions(t *testing.T) {
	svc, _, _ := newSessionFixture()

	resp, err := svc.Create(context.Background(), CreateSessionRequest{})
	require.NoError(t, err)

	completed, err := svc.Complete(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, completed.Status)

	// completed 没有出边
	_, err = svc.Abandon(context.Background(), resp.SessionID)
	require.ErrorIs(t, err, errs.ErrInvalid)
	_, err = svc.Complete(context.Background(), resp.SessionID)
	require.ErrorIs(t, err, errs.ErrInvalid)
}

func TestSessionService_Abandon(t *testing.T) {
	svc, _, _ := newSessionFixture()

	resp, err := svc.Create(context.Background(), CreateSessionRequest{})
	require.NoError(t, err)

	abandoned, err := svc.Abandon(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAbandoned, abandoned.Status)
}

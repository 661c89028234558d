package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fixnet/fixnet/app/dto"
	"github.com/fixnet/fixnet/models"
	"github.com/fixnet/fixnet/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContactFlow() (*fakeContactRepo, *fakeNotifier, ContactFlow) {
	repo := newFakeContactRepo()
	notifier := &fakeNotifier{ok: true}
	flow := NewContactFlow(repo, notifier)
	return repo, notifier, flow
}

func seedContactMessage(t *testing.T, repo *fakeContactRepo, mutate func(*models.ContactMessage)) *models.ContactMessage {
	t.Helper()
	m := &models.ContactMessage{
		UUID:      uuid.New(),
		Name:      "John Smith",
		Email:     "john@example.com",
		Subject:   "Question about pricing",
		Message:   "Do you repair water damaged laptops?",
		IsRead:    utils.ToPtr(false),
		CreatedAt: utils.UTCNow(),
	}
	if mutate != nil {
		mutate(m)
	}
	require.NoError(t, repo.Save(context.Background(), m))
	return m
}

func TestContactFlowCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("StoresTrimmedMessageAndNotifies", func(t *testing.T) {
		repo, notifier, flow := newTestContactFlow()

		result, err := flow.Create(ctx, &dto.CreateContactMessageRequest{
			Name:    "  John Smith  ",
			Email:   " john@example.com ",
			Subject: " Question about pricing ",
			Message: "Do you repair water damaged laptops?",
		}, NewClientMetadata("127.0.0.1", "test"))
		require.NoError(t, err)
		require.NotNil(t, result)

		saved, ok := repo.rows[result.ID]
		require.True(t, ok)
		assert.Equal(t, "John Smith", saved.Name)
		assert.Equal(t, "john@example.com", saved.Email)
		assert.Equal(t, "Question about pricing", saved.Subject)
		assert.False(t, utils.IsTrue(saved.IsRead))

		assert.Equal(t, []string{result.ID}, notifier.contacts)
	})

	t.Run("SucceedsWhenNotificationFails", func(t *testing.T) {
		repo, notifier, flow := newTestContactFlow()
		notifier.ok = false

		result, err := flow.Create(ctx, &dto.CreateContactMessageRequest{
			Name:    "John Smith",
			Email:   "john@example.com",
			Subject: "Question",
			Message: "Do you repair water damaged laptops?",
		}, nil)
		require.NoError(t, err)
		assert.Contains(t, repo.rows, result.ID)
	})

	t.Run("SaveFailure", func(t *testing.T) {
		repo, notifier, flow := newTestContactFlow()
		repo.saveErr = errors.New("connection refused")

		result, err := flow.Create(ctx, &dto.CreateContactMessageRequest{
			Name:    "John Smith",
			Email:   "john@example.com",
			Subject: "Question",
			Message: "Do you repair water damaged laptops?",
		}, nil)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Empty(t, notifier.contacts)
	})
}

func TestContactFlowList(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsAllByDefault", func(t *testing.T) {
		repo, _, flow := newTestContactFlow()
		seedContactMessage(t, repo, nil)
		seedContactMessage(t, repo, func(m *models.ContactMessage) { m.IsRead = utils.ToPtr(true) })

		result, err := flow.List(ctx, &dto.ListContactMessagesRequest{}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
		assert.Len(t, result.Items, 2)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, utils.DefaultPageSize, result.Limit)
	})

	t.Run("UnreadOnly", func(t *testing.T) {
		repo, _, flow := newTestContactFlow()
		unread := seedContactMessage(t, repo, nil)
		seedContactMessage(t, repo, func(m *models.ContactMessage) { m.IsRead = utils.ToPtr(true) })

		result, err := flow.List(ctx, &dto.ListContactMessagesRequest{UnreadOnly: true}, nil)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, unread.UUID.String(), result.Items[0].UUID)
		assert.Equal(t, int64(1), result.Total)
	})

	t.Run("NewestFirst", func(t *testing.T) {
		repo, _, flow := newTestContactFlow()
		older := seedContactMessage(t, repo, func(m *models.ContactMessage) {
			m.CreatedAt = utils.UTCNow().Add(-time.Hour)
		})
		newer := seedContactMessage(t, repo, nil)

		result, err := flow.List(ctx, &dto.ListContactMessagesRequest{}, nil)
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, newer.UUID.String(), result.Items[0].UUID)
		assert.Equal(t, older.UUID.String(), result.Items[1].UUID)
	})

	t.Run("Paginates", func(t *testing.T) {
		repo, _, flow := newTestContactFlow()
		for i := 0; i < 3; i++ {
			offset := time.Duration(i) * time.Minute
			seedContactMessage(t, repo, func(m *models.ContactMessage) {
				m.CreatedAt = utils.UTCNow().Add(-offset)
			})
		}

		result, err := flow.List(ctx, &dto.ListContactMessagesRequest{Page: 2, Limit: 2}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 2, result.Page)
		assert.Equal(t, 2, result.Limit)
	})
}

func TestContactFlowMarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("MarksMessageRead", func(t *testing.T) {
		repo, _, flow := newTestContactFlow()
		seeded := seedContactMessage(t, repo, nil)

		require.NoError(t, flow.MarkRead(ctx, seeded.UUID.String()))
		assert.True(t, utils.IsTrue(repo.rows[seeded.UUID.String()].IsRead))
	})

	t.Run("UnknownIDIsNotFound", func(t *testing.T) {
		_, _, flow := newTestContactFlow()

		err := flow.MarkRead(ctx, uuid.NewString())
		require.Error(t, err)
		assert.True(t, IsContactMessageNotFound(err))
	})

	t.Run("MalformedIDIsNotFound", func(t *testing.T) {
		_, _, flow := newTestContactFlow()

		err := flow.MarkRead(ctx, "not-a-uuid")
		require.Error(t, err)
		assert.True(t, IsContactMessageNotFound(err))
	})
}

func TestContactFlowDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesMessage", func(t *testing.T) {
		repo, _, flow := newTestContactFlow()
		seeded := seedContactMessage(t, repo, nil)

		require.NoError(t, flow.Delete(ctx, seeded.UUID.String()))
		assert.Empty(t, repo.rows)

		err := flow.Delete(ctx, seeded.UUID.String())
		require.Error(t, err)
		assert.True(t, IsContactMessageNotFound(err))
	})

	t.Run("MalformedIDIsNotFound", func(t *testing.T) {
		_, _, flow := newTestContactFlow()

		err := flow.Delete(ctx, "not-a-uuid")
		require.Error(t, err)
		assert.True(t, IsContactMessageNotFound(err))
	})
}

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-prospector-go/internal/model"
	"social-prospector-go/internal/testutil"
)

func TestCreateAutoOncePerLead(t *testing.T) {
	repo := NewReplyQueueRepository(testutil.NewDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	created := make(chan bool, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.CreateAuto(ctx, &model.ReplyQueueItem{LeadID: 42, ReplyText: "hi", TargetURL: "https://x"})
			assert.NoError(t, err)
			created <- ok
		}()
	}
	wg.Wait()
	close(created)

	n := 0
	for ok := range created {
		if ok {
			n++
		}
	}
	assert.Equal(t, 1, n)

	// manual drafts are not limited
	require.NoError(t, repo.Create(ctx, &model.ReplyQueueItem{LeadID: 42, ReplyText: "manual", TargetURL: "https://x"}))
	items, err := repo.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	has, err := repo.HasItemForLead(ctx, 42)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestTransitionIsConditional(t *testing.T) {
	repo := NewReplyQueueRepository(testutil.NewDB(t))
	ctx := context.Background()
	item := &model.ReplyQueueItem{LeadID: 1, ReplyText: "hi", TargetURL: "https://x"}
	require.NoError(t, repo.Create(ctx, item))

	ok, err := repo.Transition(ctx, item.ID, []model.ReplyStatus{model.ReplyPending}, model.ReplySkipped, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Transition(ctx, item.ID, []model.ReplyStatus{model.ReplyPending}, model.ReplyApproved, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReplySkipped, stored.Status)

	_, err = repo.GetByID(ctx, 404)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOldestApproved(t *testing.T) {
	repo := NewReplyQueueRepository(testutil.NewDB(t))
	ctx := context.Background()

	none, err := repo.OldestApproved(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	first := &model.ReplyQueueItem{LeadID: 1, ReplyText: "a", TargetURL: "https://a"}
	second := &model.ReplyQueueItem{LeadID: 2, ReplyText: "b", TargetURL: "https://b"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	now := time.Now()
	_, err = repo.Transition(ctx, second.ID, []model.ReplyStatus{model.ReplyPending}, model.ReplyApproved,
		map[string]interface{}{"approved_at": now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = repo.Transition(ctx, first.ID, []model.ReplyStatus{model.ReplyPending}, model.ReplyApproved,
		map[string]interface{}{"approved_at": now})
	require.NoError(t, err)

	oldest, err := repo.OldestApproved(ctx)
	require.NoError(t, err)
	require.NotNil(t, oldest)
	assert.Equal(t, second.ID, oldest.ID)
}

func TestUpdateTextOnlyWhenEditable(t *testing.T) {
	repo := NewReplyQueueRepository(testutil.NewDB(t))
	ctx := context.Background()
	editable := []model.ReplyStatus{model.ReplyPending, model.ReplyFailed}
	item := &model.ReplyQueueItem{LeadID: 1, ReplyText: "draft", TargetURL: "https://x"}
	require.NoError(t, repo.Create(ctx, item))

	ok, err := repo.UpdateText(ctx, item.ID, "edited", editable)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Transition(ctx, item.ID, []model.ReplyStatus{model.ReplyPending}, model.ReplyApproved, nil)
	require.NoError(t, err)

	ok, err = repo.UpdateText(ctx, item.ID, "too late", editable)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", stored.ReplyText)
}

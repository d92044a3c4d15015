package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/giftwrap-jax/service-booking/internal/domain"
)

func TestWaitlistJoin_NewContact(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	svc := NewWaitlistService(repo, zap.NewNop())

	result, err := svc.Join(context.Background(), JoinWaitlistRequest{Email: "Jane@Example.com"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "You're on the list! We'll notify you when spots open up.", result.Message)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "jane@example.com", repo.entries[0].Email(), "email stored lowercased")
}

func TestWaitlistJoin_DuplicateStillSucceedsWithoutSecondRow(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	svc := NewWaitlistService(repo, zap.NewNop())

	_, err := svc.Join(context.Background(), JoinWaitlistRequest{Email: "jane@example.com"})
	require.NoError(t, err)

	result, err := svc.Join(context.Background(), JoinWaitlistRequest{Email: "JANE@example.com"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "You're already on our waitlist! We'll notify you when spots open up.", result.Message)

	assert.Len(t, repo.entries, 1, "duplicate contact never inserts a second row")
}

func TestWaitlistJoin_PhoneOnly(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	svc := NewWaitlistService(repo, zap.NewNop())

	result, err := svc.Join(context.Background(), JoinWaitlistRequest{Phone: "9045550123"})
	require.NoError(t, err)
	assert.True(t, result.Success)

	dup, err := svc.Join(context.Background(), JoinWaitlistRequest{Phone: "9045550123"})
	require.NoError(t, err)
	assert.Contains(t, dup.Message, "already on our waitlist")
	assert.Len(t, repo.entries, 1)
}

func TestWaitlistJoin_RequiresContact(t *testing.T) {
	svc := NewWaitlistService(&fakeWaitlistRepo{}, zap.NewNop())

	result, err := svc.Join(context.Background(), JoinWaitlistRequest{})
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestWaitlistList_NewestFirst(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	svc := NewWaitlistService(repo, zap.NewNop())

	_, err := svc.Join(context.Background(), JoinWaitlistRequest{Email: "first@example.com"})
	require.NoError(t, err)
	_, err = svc.Join(context.Background(), JoinWaitlistRequest{Email: "second@example.com"})
	require.NoError(t, err)

	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second@example.com", entries[0].Email)
	assert.Equal(t, "first@example.com", entries[1].Email)
}

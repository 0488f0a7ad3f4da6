package actors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterhole/internal/models"
	"waterhole/internal/search"
	"waterhole/internal/utils"
)

func TestCommunityActorCreateAndLookup(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnCommunityActor()

	result, err := env.ask(pid, &CreateCommunityMsg{Name: "golang", Description: "All about Go"})
	require.NoError(t, err)
	community := result.(*models.Community)
	assert.Equal(t, 1, community.ID)
	assert.Equal(t, "golang", community.Name)
	assert.Equal(t, 1, community.MemberCount)
	assert.Equal(t, models.DefaultCommunityIcon, community.Icon)
	assert.Equal(t, models.DefaultCommunityColor, community.Color)

	result, err = env.ask(pid, &GetCommunityByNameMsg{Name: "golang"})
	require.NoError(t, err)
	assert.Equal(t, community.ID, result.(*models.Community).ID)

	result, err = env.ask(pid, &GetCommunityByNameMsg{Name: "nope"})
	require.NoError(t, err)
	assert.Equal(t, utils.ErrNotFound, result.(*utils.AppError).Code)

	result, err = env.ask(pid, &GetCommunityMsg{CommunityID: 999})
	require.NoError(t, err)
	assert.Equal(t, utils.ErrNotFound, result.(*utils.AppError).Code)

	result, err = env.ask(pid, &CreateCommunityMsg{})
	require.NoError(t, err)
	assert.Equal(t, utils.ErrInvalidInput, result.(*utils.AppError).Code)
}

func TestCommunityActorUpdateAndCount(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnCommunityActor()

	_, err := env.ask(pid, &CreateCommunityMsg{Name: "golang"})
	require.NoError(t, err)
	_, err = env.ask(pid, &CreateCommunityMsg{Name: "rust"})
	require.NoError(t, err)

	desc := "Gophers only"
	result, err := env.ask(pid, &UpdateCommunityMsg{
		CommunityID: 1,
		Patch:       models.CommunityPatch{Description: &desc},
	})
	require.NoError(t, err)
	assert.Equal(t, "Gophers only", result.(*models.Community).Description)

	result, err = env.ask(pid, &CountCommunitiesMsg{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.(int))

	result, err = env.ask(pid, &DeleteCommunityMsg{CommunityID: 2})
	require.NoError(t, err)
	assert.Equal(t, true, result)

	result, err = env.ask(pid, &CountCommunitiesMsg{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.(int))
}

func TestCommunityActorMemberships(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnCommunityActor()

	result, err := env.ask(pid, &JoinCommunityMsg{UserID: 1, CommunityID: 5})
	require.NoError(t, err)
	assert.Equal(t, true, result)

	_, err = env.ask(pid, &JoinCommunityMsg{UserID: 1, CommunityID: 9})
	require.NoError(t, err)

	result, err = env.ask(pid, &IsJoinedMsg{UserID: 1, CommunityID: 5})
	require.NoError(t, err)
	assert.True(t, result.(bool))

	result, err = env.ask(pid, &GetJoinedCommunitiesMsg{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 9}, result.([]int))

	result, err = env.ask(pid, &LeaveCommunityMsg{UserID: 1, CommunityID: 5})
	require.NoError(t, err)
	assert.Equal(t, true, result)

	result, err = env.ask(pid, &IsJoinedMsg{UserID: 1, CommunityID: 5})
	require.NoError(t, err)
	assert.False(t, result.(bool))

	// Empty for a user with no memberships
	result, err = env.ask(pid, &GetJoinedCommunitiesMsg{UserID: 2})
	require.NoError(t, err)
	assert.Empty(t, result.([]int))
}

func TestCommunityActorSearch(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnCommunityActor()

	_, err := env.ask(pid, &CreateCommunityMsg{Name: "golang", Description: "All about Go"})
	require.NoError(t, err)
	_, err = env.ask(pid, &CreateCommunityMsg{Name: "python", Description: "snakes"})
	require.NoError(t, err)

	result, err := env.ask(pid, &SearchCommunitiesMsg{Query: "go"})
	require.NoError(t, err)
	results := result.([]search.CommunityResult)
	require.Len(t, results, 1)
	assert.Equal(t, "golang", results[0].Community.Name)

	result, err = env.ask(pid, &SearchCommunitiesMsg{Query: ""})
	require.NoError(t, err)
	assert.Empty(t, result.([]search.CommunityResult))
}

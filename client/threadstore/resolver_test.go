package threadstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadkeep/threadkeep/shared/domain"
)

func TestResolveAuthors(t *testing.T) {
	mockMembers := &MockMemberAPI{
		GetMembersFunc: func(ids []domain.MemberId) ([]domain.Member, error) {
			assert.Equal(t, []domain.MemberId{"m2"}, ids)
			return []domain.Member{{Id: "m2", Nickname: "bob"}}, nil
		},
	}
	store := newTestStore(nil, mockMembers)

	alice := &domain.Member{Id: "m1", Nickname: "alice"}
	comments := []domain.Comment{
		{Id: "A", AuthorId: "m1", Author: alice},
		{Id: "B", AuthorId: "m2"},
		{Id: "C", AuthorId: "m1"}, // resolvable from the batch itself
	}

	resolved := store.resolveAuthors(comments)

	require.Len(t, resolved, 3)
	assert.Equal(t, alice, resolved[0].Author)
	require.NotNil(t, resolved[1].Author)
	assert.Equal(t, domain.Nickname("bob"), resolved[1].Author.Nickname)
	require.NotNil(t, resolved[2].Author)
	assert.Equal(t, domain.Nickname("alice"), resolved[2].Author.Nickname)

	// One lookup for the whole batch
	assert.Equal(t, 1, mockMembers.GetMembersCalls)
}

func TestResolveAuthors_UnknownMemberLeftNil(t *testing.T) {
	mockMembers := &MockMemberAPI{
		GetMembersFunc: func(ids []domain.MemberId) ([]domain.Member, error) {
			return []domain.Member{}, nil
		},
	}
	store := newTestStore(nil, mockMembers)

	resolved := store.resolveAuthors([]domain.Comment{{Id: "A", AuthorId: "ghost"}})

	require.Len(t, resolved, 1)
	assert.Nil(t, resolved[0].Author)
}

func TestResolveAuthors_LookupFailureDoesNotFailBatch(t *testing.T) {
	mockMembers := &MockMemberAPI{
		GetMembersFunc: func(ids []domain.MemberId) ([]domain.Member, error) {
			return nil, errors.New("backend unavailable")
		},
	}
	store := newTestStore(nil, mockMembers)

	resolved := store.resolveAuthors([]domain.Comment{{Id: "A", AuthorId: "m1"}})

	require.Len(t, resolved, 1)
	assert.Nil(t, resolved[0].Author)
}

func TestResolveAuthors_NoLookupWhenAllPresent(t *testing.T) {
	mockMembers := &MockMemberAPI{}
	store := newTestStore(nil, mockMembers)

	alice := &domain.Member{Id: "m1"}
	resolved := store.resolveAuthors([]domain.Comment{{Id: "A", AuthorId: "m1", Author: alice}})

	require.Len(t, resolved, 1)
	assert.Zero(t, mockMembers.GetMembersCalls)

	// Tombstones have no author id; nothing to resolve
	resolved = store.resolveAuthors([]domain.Comment{{Id: "B", Status: domain.StatusDeleted}})
	assert.Nil(t, resolved[0].Author)
	assert.Zero(t, mockMembers.GetMembersCalls)
}

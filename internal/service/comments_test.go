package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateCommentAuthorOnly(t *testing.T) {
	svc := newTestService(t)
	alice := newFixture(t, svc, "alice@example.com", "Alice")
	bob := newFixture(t, svc, "bob@example.com", "Bob")

	issue := alice.createIssue(t, "Shared context")
	comment, err := svc.CreateComment(alice.actorID, issue.ID, "", "original")
	require.NoError(t, err)

	// Bob is not a member of Alice's project at all.
	_, err = svc.UpdateComment(bob.actorID, comment.ID, CommentUpdate{Text: strptr("hijacked")})
	require.Error(t, err)
	require.Equal(t, CodeForbidden, CodeOf(err))

	updated, err := svc.UpdateComment(alice.actorID, comment.ID, CommentUpdate{Text: strptr("edited")})
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Text)
}

func TestCommentLikeToggle(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	issue := f.createIssue(t, "Liked")
	comment, err := svc.CreateComment(f.actorID, issue.ID, "", "nice")
	require.NoError(t, err)
	require.Empty(t, comment.LikedByUserIDs)

	liked := true
	updated, err := svc.UpdateComment(f.actorID, comment.ID, CommentUpdate{Liked: &liked})
	require.NoError(t, err)
	require.Equal(t, []string{f.userID}, updated.LikedByUserIDs)

	// Liking twice is a no-op.
	updated, err = svc.UpdateComment(f.actorID, comment.ID, CommentUpdate{Liked: &liked})
	require.NoError(t, err)
	require.Len(t, updated.LikedByUserIDs, 1)

	liked = false
	updated, err = svc.UpdateComment(f.actorID, comment.ID, CommentUpdate{Liked: &liked})
	require.NoError(t, err)
	require.Empty(t, updated.LikedByUserIDs)
}

func TestIssueHistoryRecordsScalarChanges(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	issue := f.createIssue(t, "Before")
	_, err := svc.UpdateIssue(f.actorID, issue.ID, IssueUpdate{Title: strptr("After")})
	require.NoError(t, err)

	history, err := svc.IssueHistory(f.actorID, issue.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "title", history[0].Topic)
	require.Equal(t, "Before", history[0].Previous)
	require.Equal(t, "After", history[0].Current)
}

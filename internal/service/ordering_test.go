package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaceIssueAppendsAfterMax(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	first := f.createIssue(t, "First")
	second := f.createIssue(t, "Second")

	itemA, err := svc.PlaceIssue(f.actorID, first.ID, f.columnIDs[0], nil)
	require.NoError(t, err)
	require.Equal(t, 1, itemA.Position)

	itemB, err := svc.PlaceIssue(f.actorID, second.ID, f.columnIDs[0], nil)
	require.NoError(t, err)
	require.Equal(t, 2, itemB.Position)
}

func TestPlaceIssueExplicitPosition(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	issue := f.createIssue(t, "Pinned")
	position := 42
	item, err := svc.PlaceIssue(f.actorID, issue.ID, f.columnIDs[1], &position)
	require.NoError(t, err)
	require.Equal(t, 42, item.Position)
}

func TestPlaceIssueRejectsSecondPlacement(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	issue := f.createIssue(t, "Once")
	_, err := svc.PlaceIssue(f.actorID, issue.ID, f.columnIDs[0], nil)
	require.NoError(t, err)

	_, err = svc.PlaceIssue(f.actorID, issue.ID, f.columnIDs[1], nil)
	require.Error(t, err)
	require.Equal(t, CodeConflict, CodeOf(err))
}

func TestPlaceIssueRejectsForeignProject(t *testing.T) {
	svc := newTestService(t)
	alice := newFixture(t, svc, "alice@example.com", "Alice")
	bob := newFixture(t, svc, "bob@example.com", "Bob")

	issue := alice.createIssue(t, "Mine")
	_, err := svc.PlaceIssue(alice.actorID, issue.ID, bob.columnIDs[0], nil)
	require.Error(t, err)
	require.Equal(t, CodeInvalidRelation, CodeOf(err))
}

func TestRemoveItemAllowsReplacement(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	issue := f.createIssue(t, "Recycled")
	item, err := svc.PlaceIssue(f.actorID, issue.ID, f.columnIDs[0], nil)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(f.actorID, item.PublicID))

	replaced, err := svc.PlaceIssue(f.actorID, issue.ID, f.columnIDs[2], nil)
	require.NoError(t, err)
	require.NotEqual(t, item.PublicID, replaced.PublicID)
}

func TestMoveItemRejectsCrossBoard(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	other, err := svc.CreateBoard(f.actorID, f.projectID, "Second Board", "")
	require.NoError(t, err)
	foreign, err := svc.CreateColumn(f.actorID, other.ID, "Elsewhere", "", 1)
	require.NoError(t, err)

	issue := f.createIssue(t, "Stays put")
	item, err := svc.PlaceIssue(f.actorID, issue.ID, f.columnIDs[0], nil)
	require.NoError(t, err)

	err = svc.MoveItem(f.actorID, item.PublicID, foreign.ID, 1)
	require.Error(t, err)
	require.Equal(t, CodeInvalidRelation, CodeOf(err))
}

func TestMoveItemPositionTiesBreakByAge(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	older := f.createIssue(t, "Older")
	newer := f.createIssue(t, "Newer")

	position := 5
	olderItem, err := svc.PlaceIssue(f.actorID, older.ID, f.columnIDs[0], &position)
	require.NoError(t, err)
	newerItem, err := svc.PlaceIssue(f.actorID, newer.ID, f.columnIDs[1], nil)
	require.NoError(t, err)

	// Move the newer item onto the same position: the earlier row wins
	// the tie on read.
	require.NoError(t, svc.MoveItem(f.actorID, newerItem.PublicID, f.columnIDs[0], 5))

	board, err := svc.GetBoard(f.actorID, f.boardID)
	require.NoError(t, err)
	items := board.Columns[0].Items
	require.Len(t, items, 2)
	require.Equal(t, olderItem.PublicID, items[0].ID)
	require.Equal(t, newerItem.PublicID, items[1].ID)
}

func TestMoveItemBelowSiblingsReordersColumn(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	first := f.createIssue(t, "First")
	second := f.createIssue(t, "Second")
	itemA, err := svc.PlaceIssue(f.actorID, first.ID, f.columnIDs[0], nil)
	require.NoError(t, err)
	itemB, err := svc.PlaceIssue(f.actorID, second.ID, f.columnIDs[0], nil)
	require.NoError(t, err)

	require.NoError(t, svc.MoveItem(f.actorID, itemB.PublicID, f.columnIDs[0], 0))

	board, err := svc.GetBoard(f.actorID, f.boardID)
	require.NoError(t, err)
	items := board.Columns[0].Items
	require.Len(t, items, 2)
	require.Equal(t, itemB.PublicID, items[0].ID)
	require.Equal(t, itemA.PublicID, items[1].ID)
}

func TestBulkReorderAppliesFullLayout(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")

	first := f.createIssue(t, "First")
	second := f.createIssue(t, "Second")
	itemA, err := svc.PlaceIssue(f.actorID, first.ID, f.columnIDs[0], nil)
	require.NoError(t, err)
	itemB, err := svc.PlaceIssue(f.actorID, second.ID, f.columnIDs[0], nil)
	require.NoError(t, err)

	view, err := svc.BulkReorder(f.actorID, f.boardID, []ColumnReorder{
		{ColumnID: f.columnIDs[2], Name: "Shipped", Position: 1, Items: []ItemReorder{
			{ItemID: itemB.PublicID, Position: 1},
		}},
		{ColumnID: f.columnIDs[0], Position: 2, Items: []ItemReorder{
			{ItemID: itemA.PublicID, Position: 1},
		}},
		{ColumnID: f.columnIDs[1], Position: 3},
	})
	require.NoError(t, err)

	require.Len(t, view.Columns, 3)
	require.Equal(t, "Shipped", view.Columns[0].Name)
	require.Equal(t, itemB.PublicID, view.Columns[0].Items[0].ID)
	require.Equal(t, "To Do", view.Columns[1].Name)
	require.Equal(t, itemA.PublicID, view.Columns[1].Items[0].ID)
}

func TestBulkReorderRejectsForeignColumnAtomically(t *testing.T) {
	svc := newTestService(t)
	f := newFixture(t, svc, "alice@example.com", "Alice")
	other := newFixture(t, svc, "bob@example.com", "Bob")

	issue := f.createIssue(t, "Steady")
	item, err := svc.PlaceIssue(f.actorID, issue.ID, f.columnIDs[0], nil)
	require.NoError(t, err)

	_, err = svc.BulkReorder(f.actorID, f.boardID, []ColumnReorder{
		{ColumnID: f.columnIDs[0], Name: "Renamed", Position: 9},
		{ColumnID: other.columnIDs[0], Position: 1},
	})
	require.Error(t, err)
	require.Equal(t, CodeInvalidRelation, CodeOf(err))

	// The first column's rename must have rolled back with the rest.
	board, err := svc.GetBoard(f.actorID, f.boardID)
	require.NoError(t, err)
	require.Equal(t, "To Do", board.Columns[0].Name)
	require.Equal(t, item.PublicID, board.Columns[0].Items[0].ID)
}

package service

import (
	"errors"

	"github.com/taskboard/backend/internal/store"
)

// The hierarchy guard walks ancestor chains before any parent link is
// written. Both walks run inside the same transaction as the write that
// follows, so the check and the link update see one consistent snapshot.
// A missing ancestor truncates the walk and counts as "no cycle": the chain
// cannot loop back through a row that does not exist. Walking back to the
// starting parent also counts as a cycle, which catches a chain that was
// already corrupt before this request.

func issueWouldCycle(tx *store.Tx, candidateParentID, subjectID int64) (bool, error) {
	if candidateParentID == subjectID {
		return true, nil
	}
	current, err := tx.IssueByID(candidateParentID)
	if err != nil {
		return false, err
	}
	for current.ParentID.Valid {
		next := current.ParentID.Int64
		if next == subjectID || next == candidateParentID {
			return true, nil
		}
		current, err = tx.IssueByID(next)
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	return false, nil
}

// commentChainLoops walks an existing parent chain and reports whether it
// revisits its starting comment. Create paths use it: the reply being
// created has no row yet, so only a pre-existing loop can close a cycle.
func commentChainLoops(tx *store.Tx, startID int64) (bool, error) {
	current, err := tx.CommentByID(startID)
	if err != nil {
		return false, err
	}
	for current.ParentID.Valid {
		next := current.ParentID.Int64
		if next == startID {
			return true, nil
		}
		current, err = tx.CommentByID(next)
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	return false, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so relation helpers can run
// inside or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// placeholders returns "?,?,?" with n markers for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// uniqueIDs drops duplicate ids while keeping first-seen order.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ensureOwned verifies that every id resolves to a row in table owned by
// ownerID. Unresolvable or foreign-owned ids yield a RelationError naming
// the given field.
func ensureOwned(ctx context.Context, q dbtx, table, field string, ids []uint64, ownerID uint64) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE owner_id = ? AND id IN (%s)", table, placeholders(len(ids)))
	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return err
	}
	if n != len(ids) {
		return &RelationError{Field: field}
	}
	return nil
}

// replaceEdges rewrites a many-to-many edge set: all existing rows for the
// parent are removed and the given child ids inserted. An empty id list
// clears the relation.
func replaceEdges(ctx context.Context, q dbtx, table, parentCol, childCol string, parentID uint64, childIDs []uint64) error {
	if _, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, parentCol), parentID); err != nil {
		return err
	}
	childIDs = uniqueIDs(childIDs)
	if len(childIDs) == 0 {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s, %s) VALUES ", table, parentCol, childCol)
	args := make([]any, 0, 2*len(childIDs))
	for i, id := range childIDs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?)")
		args = append(args, parentID, id)
	}
	_, err := q.ExecContext(ctx, sb.String(), args...)
	return err
}

// edgeIDsByParent loads child ids for a set of parents in one query and
// groups them by parent id.
func edgeIDsByParent(ctx context.Context, q dbtx, table, parentCol, childCol string, parentIDs []uint64) (map[uint64][]uint64, error) {
	out := make(map[uint64][]uint64, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s IN (%s) ORDER BY %s, %s",
		parentCol, childCol, table, parentCol, placeholders(len(parentIDs)), parentCol, childCol)
	args := make([]any, 0, len(parentIDs))
	for _, id := range parentIDs {
		args = append(args, id)
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var parent, child uint64
		if err := rows.Scan(&parent, &child); err != nil {
			return nil, err
		}
		out[parent] = append(out[parent], child)
	}
	return out, rows.Err()
}

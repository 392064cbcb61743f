package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rivulet/expr"
	"github.com/roach88/rivulet/internal/testutil"
	"github.com/roach88/rivulet/query"
	"github.com/roach88/rivulet/schema"
)

func TestBatch_CommitAppliesAllOperations(t *testing.T) {
	td := testutil.NewTodos()
	cat := testutil.NewCategories()
	sess := testutil.NewSession(t, td.Table, cat.Table)
	ctx := context.Background()

	id := insertTodo(t, sess, td, "A", "x")

	err := sess.Batch().
		InsertAll(
			schema.NewCompanion(td.Table).Set(td.Title, schema.V("B")),
			schema.NewCompanion(td.Table).Set(td.Title, schema.V("C")),
		).
		Insert(schema.NewCompanion(cat.Table).Set(cat.Name, schema.V("work"))).
		Update(schema.NewCompanion(td.Table).Set(td.Content, schema.V("z")), expr.Eq(td.ID, id)).
		Delete(td.Table, expr.Eq(td.Title, "C")).
		Commit(ctx)
	require.NoError(t, err)

	rows, err := sess.Select(td.Table).OrderBy(expr.Asc(expr.Column(td.ID))).Get(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "z", rows[0].Text("content"))
	assert.Equal(t, "B", rows[1].Text("title"))

	cats, err := sess.Select(cat.Table).Get(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestBatch_ExecutionFailureRollsBackEverything(t *testing.T) {
	td := testutil.NewTodos()
	sess := testutil.NewSession(t, td.Table)
	ctx := context.Background()

	// Op 1 passes companion validation (content is present-null, which is a
	// bound slot) but violates NOT NULL at execution time. The earlier insert
	// must not survive.
	err := sess.Batch().
		Insert(schema.NewCompanion(td.Table).Set(td.Title, schema.V("A"))).
		Insert(schema.NewCompanion(td.Table).
			Set(td.Title, schema.V("B")).
			Set(td.Content, schema.Null())).
		Commit(ctx)
	require.Error(t, err)

	var be *query.BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 1, be.Index)

	rows, err := sess.Select(td.Table).Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows, "a failed batch leaves no partial state")
}

func TestBatch_ValidationFailsBeforeTransaction(t *testing.T) {
	td := testutil.NewTodos()
	// No executor: validation errors must surface without Begin ever running.
	sess := query.NewSession(nil, nil)

	err := sess.Batch().
		Insert(schema.NewCompanion(td.Table).Set(td.Content, schema.V("x"))).
		Commit(context.Background())
	require.Error(t, err)

	var be *query.BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 0, be.Index)
	assert.True(t, query.IsMissingRequiredField(err), "the operation error unwraps through BatchError")
}

func TestBatch_IndexSurvivesNoopSkipping(t *testing.T) {
	td := testutil.NewTodos()
	sess := testutil.NewSession(t, td.Table)
	ctx := context.Background()

	// Op 0 is a no-op update, op 1 fails at execution time. The reported index
	// must be the submission-order index, not the post-skip position.
	err := sess.Batch().
		UpdateAll(schema.NewCompanion(td.Table)).
		Insert(schema.NewCompanion(td.Table).
			Set(td.Title, schema.V("A")).
			Set(td.Content, schema.Null())).
		Commit(ctx)
	require.Error(t, err)

	var be *query.BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 1, be.Index)
}

func TestBatch_EmptyCommitIsNoop(t *testing.T) {
	td := testutil.NewTodos()
	sess := testutil.NewSession(t, td.Table)

	require.NoError(t, sess.Batch().Commit(context.Background()))

	// All-no-op batches skip the transaction entirely.
	require.NoError(t, sess.Batch().
		UpdateAll(schema.NewCompanion(td.Table)).
		Commit(context.Background()))
}

func TestBatch_InsertAllRejectsMixedTables(t *testing.T) {
	td := testutil.NewTodos()
	cat := testutil.NewCategories()
	sess := testutil.NewSession(t, td.Table, cat.Table)

	err := sess.Batch().
		InsertAll(
			schema.NewCompanion(td.Table).Set(td.Title, schema.V("A")),
			schema.NewCompanion(cat.Table).Set(cat.Name, schema.V("work")),
		).
		Commit(context.Background())
	require.Error(t, err)

	var be *query.BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 1, be.Index)
}

func TestBatch_NilFilterUpdateRejected(t *testing.T) {
	td := testutil.NewTodos()
	sess := testutil.NewSession(t, td.Table)

	err := sess.Batch().
		Update(schema.NewCompanion(td.Table).Set(td.Title, schema.V("A")), nil).
		Commit(context.Background())
	assert.ErrorIs(t, err, query.ErrNoPredicate)

	err = sess.Batch().
		Delete(td.Table, nil).
		Commit(context.Background())
	assert.ErrorIs(t, err, query.ErrNoPredicate)
}

func TestBatch_CoalescedNotification(t *testing.T) {
	td := testutil.NewTodos()
	sess := testutil.NewSession(t, td.Table)
	ctx := context.Background()

	signals := make(chan struct{}, 16)
	handle, err := sess.Notifier().Subscribe([]string{td.Table.Name}, func() {
		signals <- struct{}{}
	})
	require.NoError(t, err)
	t.Cleanup(func() { sess.Notifier().Unsubscribe(handle) })

	err = sess.Batch().
		InsertAll(
			schema.NewCompanion(td.Table).Set(td.Title, schema.V("A")),
			schema.NewCompanion(td.Table).Set(td.Title, schema.V("B")),
			schema.NewCompanion(td.Table).Set(td.Title, schema.V("C")),
		).
		Commit(ctx)
	require.NoError(t, err)

	assert.Len(t, signals, 1, "one signal per distinct table, not per operation")
}

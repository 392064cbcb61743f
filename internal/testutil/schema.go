// Package testutil provides the shared schema fixtures and database helpers
// used across the test suites.
package testutil

import (
	"context"
	"testing"

	"github.com/roach88/rivulet/query"
	"github.com/roach88/rivulet/schema"
	"github.com/roach88/rivulet/store"
	"github.com/roach88/rivulet/stream"
)

// Todos is the canonical fixture table:
//
//	id       integer primary key autoincrement
//	title    text not null
//	content  text not null default ""
//	category text nullable
type Todos struct {
	Table    *schema.Table
	ID       *schema.Column
	Title    *schema.Column
	Content  *schema.Column
	Category *schema.Column
}

// NewTodos builds a fresh todos descriptor. Each call returns independent
// descriptors so tests cannot observe each other's schema.
func NewTodos() Todos {
	id := schema.Int("id").AutoIncrement()
	title := schema.Text("title")
	content := schema.Text("content").Default("")
	category := schema.Text("category").AsNullable()
	return Todos{
		Table:    schema.MustTable("todos", id, title, content, category),
		ID:       id,
		Title:    title,
		Content:  content,
		Category: category,
	}
}

// Categories is a second fixture table for multi-table tests.
type Categories struct {
	Table *schema.Table
	ID    *schema.Column
	Name  *schema.Column
}

// NewCategories builds a fresh categories descriptor.
func NewCategories() Categories {
	id := schema.Int("id").AutoIncrement()
	name := schema.Text("name")
	return Categories{
		Table: schema.MustTable("categories", id, name),
		ID:    id,
		Name:  name,
	}
}

// NewSession opens an in-memory store with a notifier, creates the given
// tables, and returns the session. Everything is torn down via t.Cleanup.
func NewSession(t *testing.T, tables ...*schema.Table) *query.Session {
	t.Helper()

	st, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	notifier := stream.NewNotifier()
	t.Cleanup(func() {
		notifier.Close()
		st.Close()
	})

	sess := query.NewSession(st, notifier)
	if err := sess.CreateTables(context.Background(), tables...); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return sess
}

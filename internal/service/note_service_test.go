package service

import (
	"context"
	"strings"
	"testing"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newUsers(t *testing.T, f *fixture) (uuid.UUID, uuid.UUID) {
	t.Helper()
	a := register(t, f, "Ana", "ana@x.com", "secret1")
	b := register(t, f, "Bob", "bob@x.com", "secret1")
	return a.User.Id, b.User.Id
}

func createNote(t *testing.T, f *fixture, owner uuid.UUID, title, content string) *dto.NoteResponse {
	t.Helper()
	note, err := f.notes.Create(context.Background(), owner, &dto.CreateNoteRequest{Title: title, Content: content})
	require.NoError(t, err)
	return note
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	var nErr *apperror.NotFoundError
	require.ErrorAs(t, err, &nErr)
}

func TestCreateAndShowRoundTrip(t *testing.T) {
	f := newFixture(t)
	a, _ := newUsers(t, f)

	created := createNote(t, f, a, "  Shopping ", "\nmilk, eggs  ")
	assert.Equal(t, "Shopping", created.Title)
	assert.Equal(t, "milk, eggs", created.Content)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	shown, err := f.notes.Show(context.Background(), a, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, shown.Id)
	assert.Equal(t, "Shopping", shown.Title)
	assert.Equal(t, "milk, eggs", shown.Content)

	last := f.publisher.last()
	assert.Equal(t, events.NoteCreated, last.Type)
	assert.Equal(t, a.String(), last.UserId)
	assert.Equal(t, created.Id.String(), last.EntityId)
}

func TestCreateBoundaries(t *testing.T) {
	f := newFixture(t)
	a, _ := newUsers(t, f)
	ctx := context.Background()

	_, err := f.notes.Create(ctx, a, &dto.CreateNoteRequest{Title: strings.Repeat("t", 200), Content: strings.Repeat("c", 10000)})
	require.NoError(t, err)

	_, err = f.notes.Create(ctx, a, &dto.CreateNoteRequest{Title: strings.Repeat("t", 201), Content: "ok"})
	var vErr *apperror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.HasField("title"))

	_, err = f.notes.Create(ctx, a, &dto.CreateNoteRequest{Title: "ok", Content: strings.Repeat("c", 10001)})
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.HasField("content"))

	_, err = f.notes.Create(ctx, a, &dto.CreateNoteRequest{Title: "   ", Content: "\t"})
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.HasField("title"))
	assert.True(t, vErr.HasField("content"))

	// Bounds apply after trimming.
	_, err = f.notes.Create(ctx, a, &dto.CreateNoteRequest{Title: " " + strings.Repeat("t", 200) + " ", Content: "ok"})
	require.NoError(t, err)
}

func TestListOrderAndSearch(t *testing.T) {
	f := newFixture(t)
	a, b := newUsers(t, f)
	ctx := context.Background()

	createNote(t, f, a, "Shopping", "milk, eggs")
	f.tick()
	createNote(t, f, a, "Ideas", "Buy more MILK")
	f.tick()
	work := createNote(t, f, a, "Work", "standup notes")
	f.tick()
	createNote(t, f, b, "Bob milk", "not visible to Ana")

	titles := func(notes []*dto.NoteResponse) []string {
		out := make([]string, 0, len(notes))
		for _, n := range notes {
			out = append(out, n.Title)
		}
		return out
	}

	all, err := f.notes.List(ctx, a, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Work", "Ideas", "Shopping"}, titles(all))

	found, err := f.notes.List(ctx, a, "Milk")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ideas", "Shopping"}, titles(found))

	// Updating moves a note to the top.
	f.tick()
	_, err = f.notes.Update(ctx, a, work.Id, &dto.UpdateNoteRequest{Content: strPtr("retro notes")})
	require.NoError(t, err)
	f.tick()
	_, err = f.notes.Update(ctx, a, found[1].Id, &dto.UpdateNoteRequest{Title: strPtr("Groceries")})
	require.NoError(t, err)

	all, err = f.notes.List(ctx, a, "   ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries", "Work", "Ideas"}, titles(all))
}

func TestPartialUpdate(t *testing.T) {
	f := newFixture(t)
	a, _ := newUsers(t, f)
	ctx := context.Background()

	note := createNote(t, f, a, "Title", "Content")
	f.tick()

	updated, err := f.notes.Update(ctx, a, note.Id, &dto.UpdateNoteRequest{Title: strPtr("  New title ")})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "Content", updated.Content)
	assert.True(t, updated.UpdatedAt.After(note.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(note.CreatedAt))
	assert.Equal(t, events.NoteUpdated, f.publisher.last().Type)

	published := len(f.publisher.types())
	same, err := f.notes.Update(ctx, a, note.Id, &dto.UpdateNoteRequest{})
	require.NoError(t, err)
	assert.Equal(t, updated.Title, same.Title)
	assert.True(t, same.UpdatedAt.Equal(updated.UpdatedAt))
	assert.Len(t, f.publisher.types(), published, "an empty update publishes nothing")

	_, err = f.notes.Update(ctx, a, note.Id, &dto.UpdateNoteRequest{Content: strPtr("   ")})
	var vErr *apperror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.HasField("content"))

	_, err = f.notes.Update(ctx, a, note.Id, &dto.UpdateNoteRequest{Title: strPtr(strings.Repeat("x", 201))})
	require.ErrorAs(t, err, &vErr)
}

func TestCrossUserIsolation(t *testing.T) {
	f := newFixture(t)
	a, b := newUsers(t, f)
	ctx := context.Background()

	note := createNote(t, f, a, "Private", "only Ana")

	list, err := f.notes.List(ctx, b, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.notes.Show(ctx, b, note.Id)
	assertNotFound(t, err)

	_, err = f.notes.Update(ctx, b, note.Id, &dto.UpdateNoteRequest{Title: strPtr("Hijacked")})
	assertNotFound(t, err)

	_, err = f.notes.Update(ctx, b, note.Id, &dto.UpdateNoteRequest{})
	assertNotFound(t, err)

	assertNotFound(t, f.notes.Delete(ctx, b, note.Id))

	shown, err := f.notes.Show(ctx, a, note.Id)
	require.NoError(t, err)
	assert.Equal(t, "Private", shown.Title)

	_, err = f.notes.Show(ctx, a, uuid.New())
	assertNotFound(t, err)
}

func TestDeleteTwice(t *testing.T) {
	f := newFixture(t)
	a, _ := newUsers(t, f)
	ctx := context.Background()

	note := createNote(t, f, a, "Temp", "bye")

	require.NoError(t, f.notes.Delete(ctx, a, note.Id))
	assert.Equal(t, events.NoteDeleted, f.publisher.last().Type)

	assertNotFound(t, f.notes.Delete(ctx, a, note.Id))
	_, err := f.notes.Show(ctx, a, note.Id)
	assertNotFound(t, err)
}

package controller

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/maloquacious/contactbook/internal/logger"
	"github.com/maloquacious/contactbook/internal/store"
	"github.com/maloquacious/contactbook/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupController(t *testing.T, opts ...sqlite.Option) (*Controller, *sqlite.SQLiteStore) {
	t.Helper()
	opts = append([]sqlite.Option{sqlite.WithLogger(logger.Discard())}, opts...)
	s := sqlite.New(filepath.Join(t.TempDir(), store.DefaultDBFile), opts...)
	require.NoError(t, s.Open())
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Initialize(context.Background()))

	c := New(s, logger.Discard())
	require.True(t, c.Load(context.Background()).OK())
	return c, s
}

func labels(c *Controller) []string {
	var out []string
	for _, r := range c.Rows() {
		out = append(out, r.Label)
	}
	return out
}

func TestController_Add(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		form      Form
		wantLevel Level
		wantClear bool
		wantRows  []string
	}{
		{
			name:      "valid contact",
			form:      Form{Name: "Alice", Phone: "555-1000", Email: "a@x.com", Address: "1 Main St"},
			wantLevel: LevelInfo,
			wantClear: true,
			wantRows:  []string{"1 Alice (555-1000)"},
		},
		{
			name:      "optional fields empty",
			form:      Form{Name: "Bob", Phone: "555-2000"},
			wantLevel: LevelInfo,
			wantClear: true,
			wantRows:  []string{"1 Bob (555-2000)"},
		},
		{
			name:      "missing name",
			form:      Form{Phone: "555-2000"},
			wantLevel: LevelWarning,
		},
		{
			name:      "missing phone",
			form:      Form{Name: "Bob"},
			wantLevel: LevelWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setupController(t)

			out := c.Add(ctx, tt.form)
			assert.Equal(t, tt.wantLevel, out.Notice.Level)
			assert.Equal(t, tt.wantClear, out.ClearForm)
			assert.Equal(t, tt.wantRows, labels(c))
		})
	}
}

func TestController_AddDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	c, s := setupController(t)

	require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"}).OK())

	out := c.Add(ctx, Form{Name: "Carl", Phone: "555-1000"})
	assert.Equal(t, duplicatePhone, out.Notice)
	assert.False(t, out.ClearForm)

	all, err := s.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestController_UpdateRequiresSelection(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t)
	require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"}).OK())

	out := c.Update(ctx, Form{Name: "Alicia", Phone: "555-1000"})
	assert.Equal(t, noSelection, out.Notice)

	out = c.Delete(ctx)
	assert.Equal(t, noSelection, out.Notice)
	assert.Len(t, c.Rows(), 1)
}

func TestController_Update(t *testing.T) {
	ctx := context.Background()
	c, s := setupController(t)
	require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"}).OK())
	require.True(t, c.Add(ctx, Form{Name: "Bob", Phone: "555-2000"}).OK())

	require.NoError(t, c.Select(2))
	row, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "Bob", row.Contact.Name)

	out := c.Update(ctx, Form{Name: "Robert", Phone: "555-2001", Email: "r@x.com"})
	require.True(t, out.OK(), out.Notice.String())
	assert.True(t, out.ClearForm)
	assert.Equal(t, []string{"1 Alice (555-1000)", "2 Robert (555-2001)"}, labels(c))

	_, ok = c.Selected()
	assert.False(t, ok, "reload clears the selection")

	all, err := s.QueryAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Contact{ID: 2, Name: "Robert", Phone: "555-2001", Email: "r@x.com"}, all[1])
}

func TestController_UpdateValidation(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t)
	require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"}).OK())
	require.NoError(t, c.Select(1))

	out := c.Update(ctx, Form{Name: "", Phone: "555-1000"})
	assert.Equal(t, requiredFields, out.Notice)

	row, ok := c.Selected()
	require.True(t, ok, "validation failures keep the selection")
	assert.Equal(t, "Alice", row.Contact.Name)
}

func TestController_UpdateDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t)
	require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"}).OK())
	require.True(t, c.Add(ctx, Form{Name: "Bob", Phone: "555-2000"}).OK())
	require.NoError(t, c.Select(2))

	out := c.Update(ctx, Form{Name: "Bob", Phone: "555-1000"})
	assert.Equal(t, duplicatePhone, out.Notice)
	assert.Equal(t, []string{"1 Alice (555-1000)", "2 Bob (555-2000)"}, labels(c))
}

func TestController_UpdateVanishedRow(t *testing.T) {
	ctx := context.Background()

	t.Run("default reloads silently", func(t *testing.T) {
		c, s := setupController(t)
		require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"}).OK())
		require.NoError(t, c.Select(1))
		require.NoError(t, s.Delete(ctx, 1))

		out := c.Update(ctx, Form{Name: "Alicia", Phone: "555-1000"})
		assert.True(t, out.OK())
		assert.Empty(t, c.Rows())
	})

	t.Run("strict warns after reload", func(t *testing.T) {
		c, s := setupController(t, sqlite.WithStrict(true))
		require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"}).OK())
		require.NoError(t, c.Select(1))
		require.NoError(t, s.Delete(ctx, 1))

		out := c.Update(ctx, Form{Name: "Alicia", Phone: "555-1000"})
		assert.Equal(t, notFound, out.Notice)
		assert.Empty(t, c.Rows())

		require.True(t, c.Add(ctx, Form{Name: "Bob", Phone: "555-2000"}).OK())
		require.NoError(t, c.Select(2))
		require.NoError(t, s.Delete(ctx, 2))
		assert.Equal(t, notFound, c.Delete(ctx).Notice)
	})
}

func TestController_Delete(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t)
	require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"}).OK())
	require.True(t, c.Add(ctx, Form{Name: "Bob", Phone: "555-2000"}).OK())

	require.NoError(t, c.Select(1))
	out := c.Delete(ctx)
	require.True(t, out.OK())
	assert.False(t, out.ClearForm)
	assert.Equal(t, []string{"2 Bob (555-2000)"}, labels(c))
}

func TestController_Select(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t)
	require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"}).OK())

	assert.Error(t, c.Select(99))
	_, ok := c.Selected()
	assert.False(t, ok)

	require.NoError(t, c.Select(1))
	c.ClearSelection()
	_, ok = c.Selected()
	assert.False(t, ok)
}

func TestController_Search(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t)
	require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000", Email: "a@x.com", Address: "1 Main St"}).OK())
	require.True(t, c.Add(ctx, Form{Name: "Bob", Phone: "555-2000"}).OK())

	out := c.Search(ctx, "")
	assert.Equal(t, emptySearch, out.Notice)
	assert.Len(t, c.Rows(), 2, "a rejected search leaves the list alone")

	out = c.Search(ctx, "555-1")
	require.True(t, out.OK())
	assert.Equal(t, []string{"1 Alice (555-1000)"}, labels(c))

	out = c.Search(ctx, "Bo")
	require.True(t, out.OK())
	assert.Equal(t, []string{"2 Bob (555-2000)"}, labels(c))

	out = c.Search(ctx, "nobody")
	require.True(t, out.OK())
	assert.Empty(t, c.Rows())

	require.True(t, c.Load(ctx).OK())
	assert.Len(t, c.Rows(), 2)
}

func TestController_EndToEnd(t *testing.T) {
	ctx := context.Background()
	c, _ := setupController(t)

	require.True(t, c.Add(ctx, Form{Name: "Alice", Phone: "555-1000", Email: "a@x.com", Address: "1 Main St"}).OK())
	require.True(t, c.Add(ctx, Form{Name: "Bob", Phone: "555-2000"}).OK())
	assert.Equal(t, duplicatePhone, c.Add(ctx, Form{Name: "Carl", Phone: "555-1000"}).Notice)
	assert.Len(t, c.Rows(), 2)

	require.True(t, c.Search(ctx, "555-1").OK())
	require.Len(t, c.Rows(), 1)
	assert.Equal(t, int64(1), c.Rows()[0].Contact.ID)

	require.NoError(t, c.Select(1))
	require.True(t, c.Delete(ctx).OK())
	assert.Equal(t, []string{"2 Bob (555-2000)"}, labels(c))
}

// failingStore fails every call with err.
type failingStore struct {
	err   error
	calls int
}

func (f *failingStore) Insert(context.Context, store.Contact) (int64, error) {
	f.calls++
	return 0, f.err
}

func (f *failingStore) Update(context.Context, store.Contact) error {
	f.calls++
	return f.err
}

func (f *failingStore) Delete(context.Context, int64) error {
	f.calls++
	return f.err
}

func (f *failingStore) QueryAll(context.Context) ([]store.Contact, error) {
	f.calls++
	return nil, f.err
}

func (f *failingStore) Search(context.Context, string) ([]store.Contact, error) {
	f.calls++
	return nil, f.err
}

func TestController_StorageErrorsBecomeNotices(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{err: errors.New("unable to open database file")}
	c := New(fs, logger.Discard())

	for name, out := range map[string]Outcome{
		"load":   c.Load(ctx),
		"add":    c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"}),
		"search": c.Search(ctx, "Al"),
	} {
		assert.Equal(t, LevelError, out.Notice.Level, name)
		assert.Equal(t, "Storage Error", out.Notice.Title, name)
		assert.Contains(t, out.Notice.Message, "unable to open database file", name)
	}
	assert.Equal(t, 3, fs.calls)
}

// insertOnlyStore stores inserts but fails every read.
type insertOnlyStore struct {
	failingStore
}

func (s *insertOnlyStore) Insert(context.Context, store.Contact) (int64, error) {
	s.calls++
	return 1, nil
}

func TestController_AddClearsFormWhenReloadFails(t *testing.T) {
	ctx := context.Background()
	s := &insertOnlyStore{failingStore{err: errors.New("disk I/O error")}}
	c := New(s, logger.Discard())

	out := c.Add(ctx, Form{Name: "Alice", Phone: "555-1000"})
	assert.True(t, out.ClearForm, "the stored contact must not stay in the form")
	assert.Equal(t, LevelError, out.Notice.Level)
	assert.Equal(t, "Storage Error", out.Notice.Title)
	assert.Equal(t, "Contact added, but the list could not be reloaded: disk I/O error", out.Notice.Message)
	assert.Equal(t, 2, s.calls)
}

func TestController_ValidationSkipsStore(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{err: errors.New("must not be called")}
	c := New(fs, logger.Discard())

	c.Add(ctx, Form{Name: "Alice"})
	c.Update(ctx, Form{Name: "Alice", Phone: "1"})
	c.Delete(ctx)
	c.Search(ctx, "")
	assert.Zero(t, fs.calls)
}

func TestNotice_String(t *testing.T) {
	assert.Equal(t, "", Notice{}.String())
	assert.Equal(t, "Error: Phone number already exists.", duplicatePhone.String())
	assert.Equal(t, "warning", LevelWarning.String())
}

func TestFormFrom(t *testing.T) {
	c := store.Contact{ID: 3, Name: "Alice", Phone: "555-1000", Email: "a@x.com", Address: "1 Main St"}
	f := FormFrom(c)
	assert.Equal(t, c, f.contact(3))
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package story

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/storybook-go/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func img(tag string) model.ImageRef {
	return model.ImageRef{MimeType: model.MimeTypePNG, Data: []byte(tag), Width: 9, Height: 16}
}

// newCollection returns a collection with pages whose image data is "p0".."pN-1".
func newCollection(t *testing.T, n int) *Collection {
	t.Helper()
	c := New(testLogger())
	if n == 0 {
		return c
	}
	images := make([]model.ImageRef, n)
	for i := range images {
		images[i] = img(fmt.Sprintf("p%d", i))
	}
	_, err := c.CommitForm(Form{Images: images})
	require.NoError(t, err)
	return c
}

// order returns the image tags in page order.
func order(c *Collection) []string {
	snap := c.Snapshot()
	out := make([]string, len(snap.Pages))
	for i, p := range snap.Pages {
		out[i] = string(p.Image.Data)
	}
	return out
}

func TestCommitFormAppendsInOrder(t *testing.T) {
	c := newCollection(t, 3)
	assert.Equal(t, []string{"p0", "p1", "p2"}, order(c))
	assert.Equal(t, ModeIdle, c.Mode().Kind())

	for _, p := range c.Snapshot().Pages {
		assert.Empty(t, p.Text, "multi-image batch must not apply text")
		assert.NotEmpty(t, p.ID)
		assert.NotNil(t, p.Stickers)
	}
}

func TestCommitFormSingleImageKeepsText(t *testing.T) {
	c := newCollection(t, 0)
	res, err := c.CommitForm(Form{Text: "Once upon a time", Title: "Chapter 1", TitleColor: "#ff0000", Images: []model.ImageRef{img("a")}})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Indices)

	p, err := c.Page(0)
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time", p.Text)
	assert.Equal(t, "Chapter 1", p.Title)
	assert.Equal(t, "#ff0000", p.TitleColor)
}

func TestCommitFormMultiImageDropsTextKeepsColor(t *testing.T) {
	c := newCollection(t, 0)
	_, err := c.CommitForm(Form{Text: "ignored", Title: "ignored", TitleColor: "#00ff00", Images: []model.ImageRef{img("a"), img("b")}})
	require.NoError(t, err)
	for _, p := range c.Snapshot().Pages {
		assert.Empty(t, p.Text)
		assert.Empty(t, p.Title)
		assert.Equal(t, "#00ff00", p.TitleColor)
	}
}

func TestCommitFormInsertAfter(t *testing.T) {
	c := newCollection(t, 3)
	require.NoError(t, c.RequestInsertAfter(0))
	assert.Equal(t, ModeInserting, c.Mode().Kind())

	res, err := c.CommitForm(Form{Images: []model.ImageRef{img("x"), img("y")}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, res.Indices)
	assert.Equal(t, []string{"p0", "x", "y", "p1", "p2"}, order(c))
	assert.Equal(t, ModeIdle, c.Mode().Kind())
}

func TestCommitFormInsertAfterLastPage(t *testing.T) {
	c := newCollection(t, 2)
	require.NoError(t, c.RequestInsertAfter(1))
	_, err := c.CommitForm(Form{Images: []model.ImageRef{img("x")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p1", "x"}, order(c))
}

func TestCommitFormValidation(t *testing.T) {
	t.Run("insert needs an image", func(t *testing.T) {
		c := newCollection(t, 1)
		require.NoError(t, c.RequestInsertAfter(0))
		_, err := c.CommitForm(Form{Text: "text only"})
		assert.ErrorIs(t, err, ErrImageRequired)
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, ModeInserting, c.Mode().Kind(), "failed commit keeps the mode")
	})

	t.Run("page limit", func(t *testing.T) {
		c := newCollection(t, model.MaxPages-1)
		_, err := c.CommitForm(Form{Images: []model.ImageRef{img("a"), img("b")}})
		assert.ErrorIs(t, err, ErrTooManyPages)
		assert.Equal(t, model.MaxPages-1, c.Len())

		_, err = c.CommitForm(Form{Images: []model.ImageRef{img("a")}})
		assert.NoError(t, err)
		assert.Equal(t, model.MaxPages, c.Len())
	})

	t.Run("edit needs text", func(t *testing.T) {
		c := newCollection(t, 1)
		_, err := c.RequestEdit(0)
		require.NoError(t, err)
		_, err = c.CommitForm(Form{Text: "   "})
		assert.ErrorIs(t, err, ErrTextRequired)
		assert.Equal(t, ModeEditing, c.Mode().Kind())
	})
}

func TestCommitFormEdit(t *testing.T) {
	c := newCollection(t, 2)
	_, err := c.UpdatePage(1, PagePatch{Text: ptr("old text"), Title: ptr("old title")})
	require.NoError(t, err)

	form, err := c.RequestEdit(1)
	require.NoError(t, err)
	assert.Equal(t, "old text", form.Text)
	assert.Equal(t, "old title", form.Title)
	assert.Equal(t, model.DefaultTheme().Story.TextColor, form.TitleColor)

	t.Run("without image keeps image", func(t *testing.T) {
		res, err := c.CommitForm(Form{Text: "new text", Title: "new title", TitleColor: "#123456"})
		require.NoError(t, err)
		assert.Equal(t, []int{1}, res.Indices)
		p, _ := c.Page(1)
		assert.Equal(t, "new text", p.Text)
		assert.Equal(t, "new title", p.Title)
		assert.Equal(t, "#123456", p.TitleColor)
		assert.Equal(t, "p1", string(p.Image.Data))
		assert.Equal(t, 2, c.Len())
	})

	t.Run("with image replaces image", func(t *testing.T) {
		_, err := c.RequestEdit(1)
		require.NoError(t, err)
		_, err = c.CommitForm(Form{Text: "again", Images: []model.ImageRef{img("replacement"), img("ignored")}})
		require.NoError(t, err)
		p, _ := c.Page(1)
		assert.Equal(t, "replacement", string(p.Image.Data))
		assert.Equal(t, 2, c.Len())
	})
}

func TestRequestInsertAfterAbandonsEdit(t *testing.T) {
	c := newCollection(t, 2)
	_, err := c.RequestEdit(0)
	require.NoError(t, err)
	require.NoError(t, c.RequestInsertAfter(1))
	assert.Equal(t, ModeInserting, c.Mode().Kind())

	c.CancelPending()
	assert.Equal(t, ModeIdle, c.Mode().Kind())
	assert.Equal(t, -1, c.Snapshot().Mode.Index)
}

func TestCommitFormKeepsTextAsTyped(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"angle brackets", "if a<b and c>d then", "if a<b and c>d then"},
		{"markup-like", `<b>Tom</b> & Jerry &amp;`, `<b>Tom</b> & Jerry &amp;`},
		{"arabic", "كان يا ما كان", "كان يا ما كان"},
		{"line endings", "one\r\ntwo\tthree", "one\ntwo\tthree"},
		{"control characters", "be\x00ll\x07", "bell"},
		{"invalid utf-8", "a\xffb", "a\uFFFDb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCollection(t, 0)
			_, err := c.CommitForm(Form{Text: tt.in, Title: tt.in, Images: []model.ImageRef{img("a")}})
			require.NoError(t, err)
			p, _ := c.Page(0)
			assert.Equal(t, tt.want, p.Text)
			assert.Equal(t, tt.want, p.Title)
		})
	}
}

func TestUpdatePageKeepsTextAsTyped(t *testing.T) {
	c := newCollection(t, 1)
	text := "if a<b and c>d then"
	_, err := c.UpdatePage(0, PagePatch{Text: &text, BoxText: &text})
	require.NoError(t, err)

	p, _ := c.Page(0)
	assert.Equal(t, text, p.Text)
	require.NotNil(t, p.Box)
	assert.Equal(t, text, p.Box.Text)
}

func TestIndexOutOfRange(t *testing.T) {
	c := newCollection(t, 1)
	assert.ErrorIs(t, c.RequestInsertAfter(1), ErrIndexOutOfRange)
	_, err := c.RequestEdit(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, c.DeletePage(5), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.RequestCut(3), ErrIndexOutOfRange)
}

func ptr[T any](v T) *T { return &v }

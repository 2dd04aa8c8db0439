package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Eggie20/Online-Supermarket/pkg/errors"
)

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Set(ctx, "p1:shopping_cart", []byte(`[]`)))

	got, err := s.Get(ctx, "p1:shopping_cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestStore_Get_NotFound(t *testing.T) {
	s := New()

	got, err := s.Get(context.Background(), "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_Set_Overwrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Set(ctx, "k", []byte("first")))
	require.NoError(t, s.Set(ctx, "k", []byte("second")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New()

	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Remove(ctx, "k"))
	require.NoError(t, s.Remove(ctx, "never-set"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

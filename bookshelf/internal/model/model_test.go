package model_test

import (
	"testing"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	"github.com/stretchr/testify/require"
)

func TestParseFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want model.Flag
	}{
		{in: "0", want: model.FlagFalse},
		{in: "1", want: model.FlagTrue},
		{in: "", want: model.FlagUnset},
		{in: "x", want: model.FlagUnset},
		{in: "true", want: model.FlagUnset},
		{in: " 1", want: model.FlagUnset},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, model.ParseFlag(tt.in), "input %q", tt.in)
	}
}

func TestFlag_Match(t *testing.T) {
	t.Parallel()
	require.True(t, model.FlagUnset.Match(true))
	require.True(t, model.FlagUnset.Match(false))
	require.True(t, model.FlagTrue.Match(true))
	require.False(t, model.FlagTrue.Match(false))
	require.True(t, model.FlagFalse.Match(false))
	require.False(t, model.FlagFalse.Match(true))
}

func TestBook_Apply(t *testing.T) {
	t.Parallel()
	b := model.Book{ID: "id", PageCount: 10, ReadPage: 10, Finished: true}
	b.Apply(model.BookRequest{Name: "Dune", PageCount: 412, ReadPage: 100, Reading: true})

	require.Equal(t, "id", b.ID)
	require.Equal(t, "Dune", b.Name)
	require.False(t, b.Finished)
	require.True(t, b.Reading)

	b.Apply(model.BookRequest{Name: "Dune", PageCount: 412, ReadPage: 412})
	require.True(t, b.Finished)
}

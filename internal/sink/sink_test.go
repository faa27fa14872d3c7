package sink_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
	"github.com/Ftibw/mongo-modelgen/internal/sink"
)

const module = "example.com/app"

func TestAFS_URL(t *testing.T) {
	s := sink.NewAFS(afs.New(), "mem://localhost/out", module)

	got, err := s.URL(sink.Unit{PkgPath: "example.com/app/meta", Filename: "user_meta.go"})
	require.NoError(t, err)
	assert.Equal(t, "mem://localhost/out/meta/user_meta.go", got)

	got, err = s.URL(sink.Unit{PkgPath: module, Filename: "root.go"})
	require.NoError(t, err)
	assert.Equal(t, "mem://localhost/out/root.go", got)

	_, err = s.URL(sink.Unit{PkgPath: "example.com/application/meta", Filename: "x.go"})
	require.Error(t, err)
}

func TestAFS_Write(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	s := sink.NewAFS(fs, "mem://localhost/sink/write", module)

	unit := sink.Unit{
		QualifiedName: "example.com/app/backend/dto.AddUserDTO",
		PkgPath:       "example.com/app/backend/dto",
		Filename:      "add_user_dto.go",
		Content:       []byte("package dto\n"),
	}

	require.NoError(t, s.Write(ctx, unit))

	data, err := fs.DownloadWithURL(ctx, "mem://localhost/sink/write/backend/dto/add_user_dto.go")
	require.NoError(t, err)
	assert.Equal(t, "package dto\n", string(data))
}

func TestAFS_WriteOutsideModule(t *testing.T) {
	s := sink.NewAFS(nil, "mem://localhost/sink/outside", module)

	err := s.Write(context.Background(), sink.Unit{QualifiedName: "other/meta.X_", PkgPath: "other/meta", Filename: "x.go"})
	require.Error(t, err)
	assert.ErrorIs(t, err, diagnostic.ErrSinkWrite)

	var unitErr *diagnostic.UnitError
	require.True(t, errors.As(err, &unitErr))
	assert.Equal(t, diagnostic.CodeSinkWriteFailed, unitErr.Code)
	assert.Equal(t, "other/meta.X_", unitErr.Unit)
}

func TestCollector(t *testing.T) {
	c := &sink.Collector{}
	ctx := context.Background()

	require.NoError(t, c.Write(ctx, sink.Unit{PkgPath: "a", Filename: "one.go"}))
	require.NoError(t, c.Write(ctx, sink.Unit{PkgPath: "b", Filename: "two.go"}))

	assert.Equal(t, []string{"one.go", "two.go"}, c.Filenames())

	u, ok := c.Get("b", "two.go")
	require.True(t, ok)
	assert.Equal(t, "two.go", u.Filename)

	_, ok = c.Get("a", "two.go")
	assert.False(t, ok)
}

func TestFunc(t *testing.T) {
	boom := errors.New("boom")
	s := sink.Func(func(context.Context, sink.Unit) error { return boom })

	assert.ErrorIs(t, s.Write(context.Background(), sink.Unit{}), boom)
}

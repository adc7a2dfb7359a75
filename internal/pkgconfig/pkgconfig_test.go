package pkgconfig

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeRunner(outputs map[string]string) Runner {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		key := strings.Join(args, " ")
		out, ok := outputs[key]
		if !ok {
			return nil, errors.Newf("%s %s: exit status 1", name, key)
		}
		return []byte(out), nil
	}
}

var vipsOutputs = map[string]string{
	"--modversion vips": "8.15.2\n",
	"--cflags vips":     `-I/usr/include/vips -I"/opt/my libs/glib-2.0/include" -pthread` + "\n",
	"--libs vips":       "-L/usr/lib -lvips -lgobject-2.0 -lglib-2.0\n",
}

func TestSplitFlags(t *testing.T) {
	flags, err := SplitFlags(`-I/usr/include -I"/opt/my libs/include" -I'/a b' -DX=1`)
	require.NoError(t, err)
	assert.Equal(t, []string{"-I/usr/include", "-I/opt/my libs/include", "-I/a b", "-DX=1"}, flags)

	flags, err = SplitFlags("")
	require.NoError(t, err)
	assert.Empty(t, flags)

	_, err = SplitFlags(`-I"/unterminated`)
	assert.Error(t, err)
}

func TestLibraryNames(t *testing.T) {
	assert.Equal(t, []string{"libvips", "libglib-2.0", "libgobject-2.0"}, LibraryNames("windows"))
	assert.Equal(t, []string{"vips", "glib-2.0", "gobject-2.0"}, LibraryNames("linux"))
	assert.Equal(t, []string{"vips", "glib-2.0", "gobject-2.0"}, LibraryNames("darwin"))
}

func TestDiscover(t *testing.T) {
	lib, err := New(DefaultPackage).WithRunner(fakeRunner(vipsOutputs)).Discover(context.Background(), ">= 8.10")
	require.NoError(t, err)
	assert.Equal(t, "8.15.2", lib.Version.String())
	assert.Equal(t, []string{"-I/usr/include/vips", "-I/opt/my libs/glib-2.0/include", "-pthread"}, lib.CFlags)
	assert.Equal(t, []string{"-L/usr/lib", "-lvips", "-lgobject-2.0", "-lglib-2.0"}, lib.Libs)

	assert.Equal(t,
		"#cgo CFLAGS: -I/usr/include/vips \"-I/opt/my libs/glib-2.0/include\" -pthread\n"+
			"#cgo LDFLAGS: -L/usr/lib -lvips -lgobject-2.0 -lglib-2.0\n",
		lib.Directives("linux"))
}

func TestDiscoverVersionConstraint(t *testing.T) {
	q := New(DefaultPackage).WithRunner(fakeRunner(vipsOutputs))

	_, err := q.Discover(context.Background(), ">= 8.16")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "8.15.2 does not satisfy >= 8.16")
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = q.Discover(context.Background(), "not a constraint")
	assert.Error(t, err)

	lib, err := q.Discover(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, uint64(8), lib.Version.Major())
}

func TestDiscoverFailures(t *testing.T) {
	_, err := New("vips-missing").WithRunner(fakeRunner(vipsOutputs)).Discover(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--modversion vips-missing")

	_, err = New(DefaultPackage).WithRunner(fakeRunner(map[string]string{
		"--modversion vips": "eight\n",
	})).Discover(context.Background(), "")
	assert.ErrorContains(t, err, `invalid vips version "eight"`)

	_, err = New(DefaultPackage).WithRunner(fakeRunner(map[string]string{
		"--modversion vips": "8.15.2",
		"--cflags vips":     `-I"/broken`,
	})).Discover(context.Background(), "")
	assert.ErrorContains(t, err, "malformed flags")
}

func TestDirectivesWithoutLinkFlags(t *testing.T) {
	lib := &Library{Package: DefaultPackage}
	assert.Equal(t, "#cgo LDFLAGS: -llibvips -llibglib-2.0 -llibgobject-2.0\n", lib.Directives("windows"))
	assert.Equal(t, "#cgo LDFLAGS: -lvips -lglib-2.0 -lgobject-2.0\n", lib.Directives("linux"))
}

func TestPkgConfigOverride(t *testing.T) {
	t.Setenv("PKG_CONFIG", "/opt/bin/pkgconf")
	assert.Equal(t, "/opt/bin/pkgconf", New(DefaultPackage).Tool)
}

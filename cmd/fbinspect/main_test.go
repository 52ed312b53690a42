package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	fbs "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weaponSchema = `
root = "Weapon"
identifier = "WEAP"

[[table]]
name = "Weapon"
field = [
  { name = "name", type = "string", slot = 0 },
  { name = "damage", type = "short", slot = 1, default = 1 },
]
`

func buildWeapon(name string, damage int16) []byte {
	b := fbs.NewBuilder(0)
	n := b.CreateString(name)
	b.StartObject(2)
	b.PrependUOffsetTSlot(0, n, 0)
	b.PrependInt16Slot(1, damage, 1)
	b.FinishWithFileIdentifier(b.EndObject(), []byte("WEAP"))
	return b.FinishedBytes()
}

type fixture struct {
	dir, schema, axe, bow string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		schema: filepath.Join(dir, "weapon.toml"),
		axe:    filepath.Join(dir, "axe.bin"),
		bow:    filepath.Join(dir, "bow.bin"),
	}
	require.NoError(t, os.WriteFile(f.schema, []byte(weaponSchema), 0o644))
	require.NoError(t, os.WriteFile(f.axe, buildWeapon("axe", 5), 0o644))
	require.NoError(t, os.WriteFile(f.bow, buildWeapon("bow", 1), 0o644))
	return f
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestInspectFile(t *testing.T) {
	f := newFixture(t)
	for _, source := range []string{"file", "mmap"} {
		t.Run(source, func(t *testing.T) {
			code, out, errOut := runCmd(t, "-schema", f.schema, "-source", source, f.axe, f.bow)
			require.Equal(t, 0, code, errOut)
			assert.Equal(t, "name: axe\ndamage: 5\n---\nname: bow\ndamage: 1\n", out)
		})
	}
}

func TestInspectBolt(t *testing.T) {
	f := newFixture(t)
	db := filepath.Join(f.dir, "store.db")

	code, _, errOut := runCmd(t, "-source", "bolt", "-db", db, "-put", "-compress", f.axe, f.bow)
	require.Equal(t, 0, code, errOut)

	code, out, errOut := runCmd(t, "-source", "bolt", "-db", db, "-list")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "axe.bin\nbow.bin\n", out)

	code, out, errOut = runCmd(t, "-schema", f.schema, "-source", "bolt", "-db", db, "-framed", "bow.bin")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "name: bow\ndamage: 1\n", out)

	// unframed read of framed bytes fails the identifier check
	code, _, errOut = runCmd(t, "-schema", f.schema, "-source", "bolt", "-db", db, "bow.bin")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "identifier")
}

func TestInspectErrors(t *testing.T) {
	f := newFixture(t)
	for _, tc := range []struct {
		name string
		args []string
		code int
		want string
	}{
		{"bad flag", []string{"-nope"}, 2, "flag provided but not defined"},
		{"no schema", []string{f.axe}, 1, "-schema is required"},
		{"no names", []string{"-schema", f.schema}, 1, "no buffers named"},
		{"bad source", []string{"-schema", f.schema, "-source", "tape", f.axe}, 1, `unknown source "tape"`},
		{"bolt without db", []string{"-schema", f.schema, "-source", "bolt", "x"}, 1, "-db is required"},
		{"put without bolt", []string{"-put", f.axe}, 1, "need -source bolt"},
		{"missing file", []string{"-schema", f.schema, filepath.Join(f.dir, "none.bin")}, 1, "not found"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := runCmd(t, tc.args...)
			assert.Equal(t, tc.code, code)
			assert.Contains(t, errOut, tc.want)
		})
	}
}

package schema

import (
	"testing"

	fbs "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/require"
)

const monsterSlots = 16

func mustLoad(t testing.TB) *Schema {
	t.Helper()
	s, err := Load("testdata/monster.toml")
	require.NoError(t, err)
	return s
}

func buildWeapon(b *fbs.Builder, name string, damage int16) fbs.UOffsetT {
	n := b.CreateString(name)
	b.StartObject(2)
	b.PrependUOffsetTSlot(0, n, 0)
	b.PrependInt16Slot(1, damage, 0)
	return b.EndObject()
}

func createVec3(b *fbs.Builder, x, y, z float32) fbs.UOffsetT {
	b.Prep(4, 12)
	b.PrependFloat32(z)
	b.PrependFloat32(y)
	b.PrependFloat32(x)
	return b.Offset()
}

type monsterOpts struct {
	unionTag     uint8
	sizePrefixed bool
	identifier   string
}

// buildMonster encodes a Monster matching testdata/monster.toml. mana and
// speed are left at their defaults.
func buildMonster(t testing.TB, o monsterOpts) []byte {
	t.Helper()
	if o.identifier == "" {
		o.identifier = "MONS"
	}
	b := fbs.NewBuilder(0)
	name := b.CreateString("Orc")
	inv := b.CreateByteVector([]byte{0, 1, 2})

	axe := buildWeapon(b, "axe", 5)
	bow := buildWeapon(b, "bow", 2)
	b.StartVector(fbs.SizeUOffsetT, 2, fbs.SizeUOffsetT)
	b.PrependUOffsetT(bow)
	b.PrependUOffsetT(axe)
	weapons := b.EndVector(2)

	club := buildWeapon(b, "club", 4)

	green := b.CreateString("green")
	angry := b.CreateString("angry")
	b.StartVector(fbs.SizeUOffsetT, 2, fbs.SizeUOffsetT)
	b.PrependUOffsetT(angry)
	b.PrependUOffsetT(green)
	tags := b.EndVector(2)

	b.StartVector(12, 2, 4)
	createVec3(b, 4, 5, 6)
	createVec3(b, 1, 2, 3)
	path := b.EndVector(2)

	b.StartVector(8, 2, 8)
	b.PrependFloat64(0.25)
	b.PrependFloat64(1.5)
	scores := b.EndVector(2)

	b.StartVector(1, 3, 1)
	b.PrependBool(true)
	b.PrependBool(false)
	b.PrependBool(true)
	flags := b.EndVector(3)

	b.StartObject(monsterSlots)
	b.PrependStructSlot(0, createVec3(b, 1, 2, 3), 0)
	b.PrependInt16Slot(2, 300, 100)
	b.PrependUOffsetTSlot(3, name, 0)
	b.PrependInt32Slot(4, 77, 0)
	b.PrependUOffsetTSlot(5, inv, 0)
	b.PrependInt8Slot(6, 2, 8)
	if o.unionTag != 0 {
		b.PrependUint8Slot(7, o.unionTag, 0)
		b.PrependUOffsetTSlot(8, club, 0)
	}
	b.PrependUOffsetTSlot(9, weapons, 0)
	b.PrependBoolSlot(10, true, false)
	b.PrependUOffsetTSlot(11, path, 0)
	b.PrependUOffsetTSlot(12, tags, 0)
	b.PrependUOffsetTSlot(13, scores, 0)
	b.PrependUOffsetTSlot(14, flags, 0)
	root := b.EndObject()
	if o.sizePrefixed {
		b.FinishSizePrefixedWithFileIdentifier(root, []byte(o.identifier))
	} else {
		b.FinishWithFileIdentifier(root, []byte(o.identifier))
	}
	return b.FinishedBytes()
}

// buildChain encodes n Node tables, each pointing at the next.
func buildChain(n int) []byte {
	b := fbs.NewBuilder(0)
	var next fbs.UOffsetT
	for i := 0; i < n; i++ {
		b.StartObject(2)
		if next != 0 {
			b.PrependUOffsetTSlot(0, next, 0)
		}
		b.PrependInt32Slot(1, int32(i), -1)
		next = b.EndObject()
	}
	b.Finish(next)
	return b.FinishedBytes()
}

const chainSchema = `
root = "Node"

[[table]]
name = "Node"
field = [
  { name = "next", type = "table:Node", slot = 0 },
  { name = "id", type = "int", slot = 1, default = -1 },
]
`

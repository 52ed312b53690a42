package flatbuffers_test

import (
	"testing"

	fbs "github.com/google/flatbuffers/go"

	"github.com/blastbao/gomem/flatbuffers"
)

// Monster slots, in schema order.
const (
	slotPos flatbuffers.VOffsetT = iota
	slotMana
	slotHP
	slotName
	slotDeprecated
	slotInventory
	slotColor
	slotTestType
	slotTest
	slotWeapons
	slotFriendly
	slotNested
	slotPath
	slotTags
	numMonsterSlots
)

// Weapon slots.
const (
	slotWeaponName flatbuffers.VOffsetT = iota
	slotWeaponDamage
)

type color int8

const colorBlue color = 8

type vec3Layout struct{}

func (vec3Layout) Size() flatbuffers.UOffsetT { return 12 }

func buildWeapon(b *fbs.Builder, name string, damage int16) fbs.UOffsetT {
	n := b.CreateString(name)
	b.StartObject(2)
	b.PrependUOffsetTSlot(int(slotWeaponName), n, 0)
	b.PrependInt16Slot(int(slotWeaponDamage), damage, 0)
	return b.EndObject()
}

func createVec3(b *fbs.Builder, x, y, z float32) fbs.UOffsetT {
	b.Prep(4, 12)
	b.PrependFloat32(z)
	b.PrependFloat32(y)
	b.PrependFloat32(x)
	return b.Offset()
}

// buildMonster encodes a Monster with every slot populated except mana and
// the deprecated slot.
func buildMonster(t testing.TB) []byte {
	t.Helper()

	inner := fbs.NewBuilder(0)
	inner.Finish(buildWeapon(inner, "dagger", 3))
	nestedBytes := inner.FinishedBytes()

	b := fbs.NewBuilder(0)
	name := b.CreateString("Orc")
	inv := b.CreateByteVector([]byte{0, 1, 2, 3, 4})
	nested := b.CreateByteVector(nestedBytes)

	// sorted by name for keyed lookup
	axe := buildWeapon(b, "axe", 5)
	bow := buildWeapon(b, "bow", 2)
	sword := buildWeapon(b, "sword", 9)
	b.StartVector(fbs.SizeUOffsetT, 3, fbs.SizeUOffsetT)
	b.PrependUOffsetT(sword)
	b.PrependUOffsetT(bow)
	b.PrependUOffsetT(axe)
	weapons := b.EndVector(3)

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

	b.StartObject(int(numMonsterSlots))
	pos := createVec3(b, 1, 2, 3)
	b.PrependStructSlot(int(slotPos), pos, 0)
	b.PrependInt16Slot(int(slotHP), 300, 100)
	b.PrependUOffsetTSlot(int(slotName), name, 0)
	b.PrependUOffsetTSlot(int(slotInventory), inv, 0)
	b.PrependInt8Slot(int(slotColor), 2, int8(colorBlue))
	b.PrependUint8Slot(int(slotTestType), 1, 0)
	b.PrependUOffsetTSlot(int(slotTest), club, 0)
	b.PrependUOffsetTSlot(int(slotWeapons), weapons, 0)
	b.PrependBoolSlot(int(slotFriendly), true, false)
	b.PrependUOffsetTSlot(int(slotNested), nested, 0)
	b.PrependUOffsetTSlot(int(slotPath), path, 0)
	b.PrependUOffsetTSlot(int(slotTags), tags, 0)
	root := b.EndObject()
	b.FinishWithFileIdentifier(root, []byte("MONS"))
	return b.FinishedBytes()
}

// scenarioTable is a table whose vtable has a single slot holding the int32
// 42 at table offset 4.
var scenarioTable = []byte{
	0x0c, 0x00, 0x00, 0x00, // root uoffset -> 12
	0x06, 0x00, // vtable size
	0x08, 0x00, // table size
	0x04, 0x00, // slot 0
	0x00, 0x00, // padding
	0x08, 0x00, 0x00, 0x00, // soffset, vtable at 12-8
	0x2a, 0x00, 0x00, 0x00, // 42
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}

func recoverErr(f func()) (err error) {
	defer func() {
		err, _ = recover().(error)
	}()
	f()
	return nil
}

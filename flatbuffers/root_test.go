package flatbuffers_test

import (
	"errors"
	"testing"

	fbs "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastbao/gomem/flatbuffers"
)

func TestBufferIdentifier(t *testing.T) {
	b := flatbuffers.Trust(buildMonster(t))

	assert.Equal(t, "MONS", flatbuffers.BufferIdentifier(b))
	assert.True(t, flatbuffers.BufferHasIdentifier(b, "MONS"))
	assert.False(t, flatbuffers.BufferHasIdentifier(b, "WEAP"))
	assert.False(t, flatbuffers.BufferHasIdentifier(b, "MON"))
	assert.False(t, flatbuffers.BufferHasIdentifier(flatbuffers.Trust([]byte{1, 2}), "MONS"))
}

func TestSizePrefixedRoot(t *testing.T) {
	b := fbs.NewBuilder(0)
	b.FinishSizePrefixedWithFileIdentifier(buildWeapon(b, "spear", 6), []byte("WEAP"))
	raw := b.FinishedBytes()
	buf := flatbuffers.Trust(raw)

	assert.Equal(t, uint32(len(raw)-4), flatbuffers.GetSizePrefix(buf))
	assert.True(t, flatbuffers.SizePrefixedBufferHasIdentifier(buf, "WEAP"))

	w := flatbuffers.GetSizePrefixedRoot(buf)
	name, ok := w.String(slotWeaponName)
	require.True(t, ok)
	assert.Equal(t, "spear", name.Text())
	assert.Equal(t, int16(6), flatbuffers.GetField[int16](w, slotWeaponDamage, 0))
}

func TestTrustVerified(t *testing.T) {
	raw := buildMonster(t)
	errShort := errors.New("too short")
	minLen := flatbuffers.VerifierFunc(func(b []byte) error {
		if len(b) < 8 {
			return errShort
		}
		return nil
	})

	buf, err := flatbuffers.TrustVerified(raw, minLen)
	require.NoError(t, err)
	assert.False(t, buf.Writable())
	assert.Equal(t, len(raw), buf.Len())
	assert.Equal(t, int16(300), flatbuffers.GetField[int16](flatbuffers.GetRoot(buf), slotHP, 0))

	_, err = flatbuffers.TrustVerified(raw[:4], minLen)
	require.Error(t, err)
	assert.ErrorIs(t, err, flatbuffers.ErrUnverified)
	assert.ErrorIs(t, err, errShort)
	var verr *flatbuffers.VerifyError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "too short")
}

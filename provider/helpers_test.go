package provider

import (
	"io"
	"log/slog"
	"testing"

	fbs "github.com/google/flatbuffers/go"

	"github.com/blastbao/gomem/flatbuffers"
	"github.com/blastbao/gomem/memory"
)

const (
	slotName flatbuffers.VOffsetT = 0
	slotHP   flatbuffers.VOffsetT = 1
)

// buildItem encodes a two-field table {name: string, hp: short} finished
// with the identifier "ITEM".
func buildItem(t testing.TB, name string, hp int16, sizePrefixed bool) []byte {
	t.Helper()
	b := fbs.NewBuilder(64)
	n := b.CreateString(name)
	b.StartObject(2)
	b.PrependUOffsetTSlot(int(slotName), n, 0)
	b.PrependInt16Slot(int(slotHP), hp, 0)
	root := b.EndObject()
	if sizePrefixed {
		b.FinishSizePrefixedWithFileIdentifier(root, []byte("ITEM"))
	} else {
		b.FinishWithFileIdentifier(root, []byte("ITEM"))
	}
	return b.FinishedBytes()
}

func testOptions() (Options, *memory.CheckedAllocator) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	return Options{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Allocator: mem,
	}, mem
}

func itemName(t testing.TB, h *Handle) string {
	t.Helper()
	s, ok := h.Root().String(slotName)
	if !ok {
		t.Fatalf("name missing in %s", h.Name())
	}
	return s.Text()
}

func itemHP(h *Handle) int16 {
	return flatbuffers.GetField[int16](h.Root(), slotHP, -1)
}

package heap

import (
	"testing"

	"github.com/orizon-lang/jsheap/internal/heap/gcmock"
	"go.uber.org/mock/gomock"
)

func TestGCEngineEscalatesSeverity(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockGC := gcmock.NewMockGCCallback(ctrl)

	// The area holds exactly one 32-byte block; asking for a second one
	// must drive the retry ladder through LOW then HIGH before giving up,
	// since the mock GC callback never actually frees anything.
	gomock.InOrder(
		mockGC.EXPECT().RunFreeUnusedMemory(SeverityLow),
		mockGC.EXPECT().RunFreeUnusedMemory(SeverityHigh),
	)

	cfg := &Config{
		Alignment:    8,
		AreaSize:     32,
		DesiredLimit: 64,
		Backend:      BackendStatic,
		GC:           mockGC,
	}

	core, err := newRegionHeap(cfg)
	if err != nil {
		t.Fatalf("newRegionHeap: %v", err)
	}

	engine := newGCEngine(core, cfg)

	first := engine.allocInternal(32, false, true)
	if first == nil {
		t.Fatal("first allocation should fit the entire area")
	}

	second := engine.allocInternal(8, false, true)
	if second != nil {
		t.Error("second allocation should fail: no space, no segments to grow, GC never frees anything")
	}
}

func TestGCEngineSucceedsAfterCallbackFrees(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockGC := gcmock.NewMockGCCallback(ctrl)

	cfg := &Config{
		Alignment:    8,
		AreaSize:     32,
		DesiredLimit: 64,
		Backend:      BackendStatic,
		GC:           mockGC,
	}

	core, err := newRegionHeap(cfg)
	if err != nil {
		t.Fatalf("newRegionHeap: %v", err)
	}

	engine := newGCEngine(core, cfg)

	held := engine.allocInternal(32, false, true)
	if held == nil {
		t.Fatal("setup allocation failed")
	}

	mockGC.EXPECT().RunFreeUnusedMemory(SeverityLow).Do(func(Severity) {
		engine.freeInternal(held, 32, false)
	})

	got := engine.allocInternal(16, false, true)
	if got == nil {
		t.Error("allocation should succeed once the LOW-severity callback frees the held block")
	}
}

func TestGCEngineReentrancyGuardPanics(t *testing.T) {
	cfg := &Config{
		Alignment:    8,
		AreaSize:     32,
		DesiredLimit: 8,
		Backend:      BackendStatic,
		GC:           noopGC{},
	}

	core, err := newRegionHeap(cfg)
	if err != nil {
		t.Fatalf("newRegionHeap: %v", err)
	}

	engine := newGCEngine(core, cfg)
	engine.insideAlloc = true

	defer func() {
		if recover() == nil {
			t.Error("Alloc called while insideAlloc must panic")
		}
	}()

	engine.allocInternal(8, false, true)
}

package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/neha-pm/npc-learn/internal/config"
	"github.com/neha-pm/npc-learn/pkg/wire"
	"github.com/neha-pm/npc-learn/pkg/world"
)

func testUI() ConsoleUI {
	return ConsoleUI{
		config:       &config.ConsoleConfig{Timeout: time.Second, FeedCapacity: 10},
		store:        world.NewStore(80, 24),
		feed:         world.NewFeed(10),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		feedViewport: viewport.New(30, 20),
		ready:        true,
		width:        100,
		height:       30,
		dragID:       -1,
		hoverID:      -1,
		detailID:     -1,
	}
}

func TestQuitModalAppliesResetFrame(t *testing.T) {
	ui := testUI()
	ui.store.ApplySnapshot([]wire.SnapshotRow{{ID: 1, Name: "Dwight"}, {ID: 2, Name: "Pam"}})
	ui.showQuitModal = true

	model, cmd := ui.Update(frameMsg{frame: wire.Frame{Reset: true}, ok: true})

	m := model.(ConsoleUI)
	if m.store.Len() != 0 {
		t.Errorf("reset frame behind the quit modal left %d records", m.store.Len())
	}
	if cmd == nil {
		t.Error("frame pump not re-armed after a frame behind the quit modal")
	}
	if !m.showQuitModal {
		t.Error("the quit modal should stay open while frames flow")
	}
}

func TestQuitModalAppliesUpdateFrame(t *testing.T) {
	ui := testUI()
	ui.store.ApplySnapshot([]wire.SnapshotRow{{ID: 3, Name: "Jim"}})
	ui.showQuitModal = true

	update := wire.Update{ID: 3, Name: "Jim", Action: "dance", Zone: "DANCEFLOOR"}
	model, cmd := ui.Update(frameMsg{frame: wire.Frame{Update: update}, ok: true})

	m := model.(ConsoleUI)
	n, ok := m.store.Get(3)
	if !ok || n.Zone != "DANCEFLOOR" {
		t.Errorf("update behind the quit modal not applied: %+v", n)
	}
	if m.feed.Len() != 1 {
		t.Errorf("expected 1 feed entry, got %d", m.feed.Len())
	}
	if cmd == nil {
		t.Error("frame pump not re-armed after a frame behind the quit modal")
	}
}

func TestQuitModalClearsRecallSpinner(t *testing.T) {
	ui := testUI()
	ui.showQuitModal = true
	ui.loadingRecall = true

	model, _ := ui.Update(recallMsg{id: 7, memories: []string{"danced"}})

	m := model.(ConsoleUI)
	if m.loadingRecall {
		t.Error("recall spinner stuck after the response arrived behind the quit modal")
	}
	if m.showDetailModal {
		t.Error("detail modal must not open over the quit modal")
	}
}

func TestRecallAfterResetSkipsDetailModal(t *testing.T) {
	ui := testUI()
	ui.store.ApplySnapshot([]wire.SnapshotRow{{ID: 5, Name: "Kevin"}})
	ui.store.ApplyReset()

	model, _ := ui.Update(recallMsg{id: 5, name: "Kevin", memories: []string{"ate chili"}})

	m := model.(ConsoleUI)
	if m.showDetailModal {
		t.Error("detail modal opened for a record removed by reset")
	}
}

func TestRecallOpensDetailModal(t *testing.T) {
	ui := testUI()
	ui.store.ApplySnapshot([]wire.SnapshotRow{{ID: 5, Name: "Kevin"}})
	ui.loadingRecall = true

	model, _ := ui.Update(recallMsg{id: 5, name: "Kevin", memories: []string{"ate chili"}})

	m := model.(ConsoleUI)
	if !m.showDetailModal {
		t.Fatal("detail modal did not open")
	}
	if m.detailName != "Kevin" || len(m.detailMemories) != 1 {
		t.Errorf("unexpected detail state: %q %v", m.detailName, m.detailMemories)
	}
	if m.loadingRecall {
		t.Error("recall spinner stuck after the detail modal opened")
	}
}

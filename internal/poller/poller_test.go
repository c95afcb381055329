package poller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/psewdon1m/hermes/internal/telegram"
)

type fakeDedup struct {
	mu   sync.Mutex
	seen map[int]bool
}

func (f *fakeDedup) MarkProcessed(ctx context.Context, updateID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = map[int]bool{}
	}
	if f.seen[updateID] {
		return false, nil
	}
	f.seen[updateID] = true
	return true, nil
}

func TestPollerDispatchesAndAdvancesOffset(t *testing.T) {
	var mu sync.Mutex
	var offsets []int
	poll := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Offset int `json:"offset"`
		}
		json.NewDecoder(r.Body).Decode(&params)

		mu.Lock()
		offsets = append(offsets, params.Offset)
		poll++
		n := poll
		mu.Unlock()

		var updates []telegram.Update
		if n == 1 {
			// Update 11 appears twice, as overlapping polls can deliver.
			updates = []telegram.Update{{UpdateID: 10}, {UpdateID: 11}, {UpdateID: 11}}
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": updates})
	}))
	defer srv.Close()

	dispatched := make(chan int, 8)
	dispatch := func(ctx context.Context, upd telegram.Update) {
		dispatched <- upd.UpdateID
	}

	tg := telegram.NewClient(srv.URL, "TEST", zap.NewNop().Sugar())
	p := New(tg, &fakeDedup{}, dispatch, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	got := map[int]int{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-dispatched:
			got[id]++
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for dispatched updates")
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	if got[10] != 1 || got[11] != 1 {
		t.Errorf("dispatch counts = %v, want update 10 and 11 exactly once", got)
	}
	select {
	case id := <-dispatched:
		t.Errorf("unexpected extra dispatch of update %d", id)
	default:
	}

	mu.Lock()
	defer mu.Unlock()
	if len(offsets) < 2 {
		t.Fatalf("expected at least 2 polls, got %d", len(offsets))
	}
	if offsets[0] != 0 || offsets[1] != 12 {
		t.Errorf("offsets = %v, want first 0 then 12", offsets[:2])
	}
}

func TestPollerBacksOffOnError(t *testing.T) {
	fails := 0
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fails++
		mu.Unlock()
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tg := telegram.NewClient(srv.URL, "TEST", zap.NewNop().Sugar())
	p := New(tg, &fakeDedup{}, func(ctx context.Context, upd telegram.Update) {}, zap.NewNop().Sugar())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	// With a 5s backoff the failing server is hit once, not hammered.
	if fails != 1 {
		t.Errorf("poll attempts = %d, want 1 within the backoff window", fails)
	}
}

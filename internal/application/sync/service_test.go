package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/store"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

type stubConnectivity bool

func (s stubConnectivity) Offline(context.Context) bool { return bool(s) }

type stubMarket struct {
	records map[string][]domain.MarketRecord
	err     error
}

func (m *stubMarket) List(_ context.Context, commodity string, _, _ int) ([]domain.MarketRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records[commodity], nil
}

type stubChatArchive struct {
	messages []domain.ChatMessage
	err      error
}

func (c *stubChatArchive) Recent(context.Context, int) ([]domain.ChatMessage, error) {
	return c.messages, c.err
}

type stubLibrary struct {
	items []domain.LibraryItem
	err   error
}

func (l *stubLibrary) List(context.Context) ([]domain.LibraryItem, error) {
	return l.items, l.err
}

func newTestService(mem *store.MemoryStore, market *stubMarket, chat *stubChatArchive, lib *stubLibrary) *Service {
	return &Service{
		Store:        mem,
		Connectivity: stubConnectivity(false),
		Market:       market,
		Chat:         chat,
		Library:      lib,
		Commodities:  []string{"Tomato"},
		TaskTimeout:  2 * time.Second,
	}
}

func TestRunOfflineIsNoOp(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := newTestService(mem, &stubMarket{}, &stubChatArchive{}, &stubLibrary{})
	svc.Connectivity = stubConnectivity(true)

	report := svc.Run(context.Background())
	if report.Outcome != domain.SyncSkippedOffline {
		t.Fatalf("outcome = %s, want skipped_offline", report.Outcome)
	}
	if n, _ := mem.Count(context.Background(), ports.TableMarketData); n != 0 {
		t.Fatalf("offline sync wrote %d records", n)
	}
	if svc.Status() != domain.SyncIdle {
		t.Fatalf("status = %s, want idle", svc.Status())
	}
}

func TestRunUpsertsAllTables(t *testing.T) {
	mem := store.NewMemoryStore()
	market := &stubMarket{records: map[string][]domain.MarketRecord{
		"Tomato": {{ID: "tomato|delhi", Commodity: "Tomato", Market: "Delhi", PricePerQuintal: 1800}},
	}}
	chat := &stubChatArchive{messages: []domain.ChatMessage{{ID: "m1", Role: "user", Text: "hello"}}}
	lib := &stubLibrary{items: []domain.LibraryItem{{ID: "l1", Title: "Drip basics"}}}

	svc := newTestService(mem, market, chat, lib)
	report := svc.Run(context.Background())

	if report.Outcome != domain.SyncCompleted {
		t.Fatalf("outcome = %s, want completed", report.Outcome)
	}
	if report.Upserted != 3 {
		t.Fatalf("upserted = %d, want 3", report.Upserted)
	}

	data, found, err := mem.Get(context.Background(), ports.TableMarketData, "tomato|delhi")
	if err != nil || !found {
		t.Fatal("market record not stored")
	}
	var rec domain.MarketRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatal(err)
	}
	if !rec.Synced {
		t.Fatal("stored record not marked synced")
	}
}

func TestRunToleratesPartialFailure(t *testing.T) {
	mem := store.NewMemoryStore()
	market := &stubMarket{err: errors.New("endpoint unreachable")}
	chat := &stubChatArchive{messages: []domain.ChatMessage{{ID: "m1", Role: "user", Text: "hi"}}}
	lib := &stubLibrary{items: []domain.LibraryItem{{ID: "l1", Title: "Mulching"}}}

	svc := newTestService(mem, market, chat, lib)
	report := svc.Run(context.Background())

	if report.Outcome != domain.SyncPartiallyFailed {
		t.Fatalf("outcome = %s, want partially_failed", report.Outcome)
	}
	if len(report.TaskErrors) != 1 {
		t.Fatalf("task errors = %d, want 1", len(report.TaskErrors))
	}
	if _, ok := report.TaskErrors["market:Tomato"]; !ok {
		t.Fatalf("missing market task error, got %v", report.TaskErrors)
	}

	ctx := context.Background()
	if n, _ := mem.Count(ctx, ports.TableChatHistory); n != 1 {
		t.Fatal("chat history not synced despite market failure")
	}
	if n, _ := mem.Count(ctx, ports.TableLibraryItems); n != 1 {
		t.Fatal("library not synced despite market failure")
	}
	if svc.Status() != domain.SyncIdle {
		t.Fatalf("status = %s, want idle after cycle", svc.Status())
	}
}

func TestRunIsIdempotent(t *testing.T) {
	mem := store.NewMemoryStore()
	market := &stubMarket{records: map[string][]domain.MarketRecord{
		"Tomato": {{ID: "tomato|delhi", Commodity: "Tomato", PricePerQuintal: 1800}},
	}}
	svc := newTestService(mem, market, &stubChatArchive{}, &stubLibrary{})

	svc.Run(context.Background())
	svc.Run(context.Background())

	if n, _ := mem.Count(context.Background(), ports.TableMarketData); n != 1 {
		t.Fatalf("record count = %d after repeated sync, want 1", n)
	}
}

func TestRunAssignsIDsToUnkeyedRecords(t *testing.T) {
	mem := store.NewMemoryStore()
	chat := &stubChatArchive{messages: []domain.ChatMessage{{Role: "user", Text: "no id"}}}
	svc := newTestService(mem, &stubMarket{}, chat, &stubLibrary{})

	report := svc.Run(context.Background())
	if report.Outcome != domain.SyncCompleted {
		t.Fatalf("outcome = %s", report.Outcome)
	}
	if n, _ := mem.Count(context.Background(), ports.TableChatHistory); n != 1 {
		t.Fatal("unkeyed message not stored")
	}
}

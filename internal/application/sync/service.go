// Package sync implements the background synchronizer: opportunistic,
// fan-out prefetch of market prices, chat history and library items into
// the local store so later offline sessions have fresher data.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// Service runs sync cycles. One cycle fans out independent tasks with
// per-task timeouts; a task failure degrades the cycle to PartiallyFailed
// but never aborts the other tasks.
type Service struct {
	Store        ports.KeyValueStore
	Connectivity ports.ConnectivityDetector
	Market       ports.MarketClient
	Chat         ports.ChatArchive
	Library      ports.LibraryClient
	Logger       ports.Logger

	Commodities []string
	TaskTimeout time.Duration

	running atomic.Bool
}

// Status reports the coarse lifecycle state.
func (s *Service) Status() domain.SyncState {
	if s.running.Load() {
		return domain.SyncRunning
	}
	return domain.SyncIdle
}

// Run executes one sync cycle. It is a no-op offline and always leaves the
// service Idle again.
func (s *Service) Run(ctx context.Context) domain.SyncReport {
	if s.Connectivity != nil && s.Connectivity.Offline(ctx) {
		return domain.SyncReport{Outcome: domain.SyncSkippedOffline}
	}
	if !s.running.CompareAndSwap(false, true) {
		// A cycle is already in flight; syncing is opportunistic, so just skip.
		return domain.SyncReport{Outcome: domain.SyncSkippedBusy}
	}
	defer s.running.Store(false)

	timeout := s.TaskTimeout
	if timeout <= 0 {
		timeout = domain.DefaultSyncTaskTimeout
	}

	type taskResult struct {
		name     string
		upserted int
		err      error
	}

	tasks := map[string]func(context.Context) (int, error){
		"chat_history":  s.syncChatHistory,
		"library_items": s.syncLibrary,
	}
	for _, commodity := range s.Commodities {
		c := commodity
		tasks["market:"+c] = func(taskCtx context.Context) (int, error) {
			return s.syncMarket(taskCtx, c)
		}
	}

	results := make(chan taskResult, len(tasks))
	var wg sync.WaitGroup
	for name, task := range tasks {
		wg.Add(1)
		go func(name string, task func(context.Context) (int, error)) {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			n, err := task(taskCtx)
			results <- taskResult{name: name, upserted: n, err: err}
		}(name, task)
	}
	wg.Wait()
	close(results)

	report := domain.SyncReport{Outcome: domain.SyncCompleted, TaskErrors: map[string]error{}}
	for res := range results {
		report.Upserted += res.upserted
		if res.err != nil {
			report.Outcome = domain.SyncPartiallyFailed
			report.TaskErrors[res.name] = res.err
			if s.Logger != nil {
				s.Logger.Warn("sync task failed", map[string]interface{}{
					"task":  res.name,
					"error": res.err.Error(),
				})
			}
		}
	}
	if s.Logger != nil {
		s.Logger.Info("sync cycle finished", map[string]interface{}{
			"outcome":  string(report.Outcome),
			"upserted": report.Upserted,
		})
	}
	return report
}

func (s *Service) syncMarket(ctx context.Context, commodity string) (int, error) {
	if s.Market == nil {
		return 0, nil
	}
	records, err := s.Market.List(ctx, commodity, domain.DefaultMarketLimit, 0)
	if err != nil {
		return 0, fmt.Errorf("list %s prices: %w", commodity, err)
	}
	upserted := 0
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		rec.Synced = true
		if err := s.upsert(ctx, ports.TableMarketData, rec.ID, rec); err != nil {
			// Skip the record and keep going; sync never deletes and never
			// fails the task over one bad row.
			continue
		}
		upserted++
	}
	return upserted, nil
}

func (s *Service) syncChatHistory(ctx context.Context) (int, error) {
	if s.Chat == nil {
		return 0, nil
	}
	messages, err := s.Chat.Recent(ctx, domain.DefaultSyncChatLimit)
	if err != nil {
		return 0, fmt.Errorf("fetch chat history: %w", err)
	}
	upserted := 0
	for _, msg := range messages {
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		msg.Synced = true
		if err := s.upsert(ctx, ports.TableChatHistory, msg.ID, msg); err != nil {
			continue
		}
		upserted++
	}
	return upserted, nil
}

func (s *Service) syncLibrary(ctx context.Context) (int, error) {
	if s.Library == nil {
		return 0, nil
	}
	items, err := s.Library.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch library: %w", err)
	}
	upserted := 0
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.Synced = true
		if err := s.upsert(ctx, ports.TableLibraryItems, item.ID, item); err != nil {
			continue
		}
		upserted++
	}
	return upserted, nil
}

func (s *Service) upsert(ctx context.Context, table, id string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.Store.Put(ctx, table, id, data)
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := NewPool(context.Background(), 4)

	var mu sync.Mutex
	ran := make(map[string]bool)

	const jobs = 20
	go func() {
		for i := 0; i < jobs; i++ {
			id := fmt.Sprintf("job-%d", i)
			p.Submit(Job{ID: id, Run: func(context.Context) error {
				mu.Lock()
				ran[id] = true
				mu.Unlock()
				return nil
			}})
		}
		p.Wait()
	}()

	got := 0
	for res := range p.Results() {
		if res.Err != nil {
			t.Errorf("job %s: %v", res.ID, res.Err)
		}
		got++
	}
	if got != jobs {
		t.Errorf("results = %d, want %d", got, jobs)
	}
	if len(ran) != jobs {
		t.Errorf("ran = %d, want %d", len(ran), jobs)
	}
	if p.Completed() != jobs {
		t.Errorf("completed = %d, want %d", p.Completed(), jobs)
	}
}

func TestPoolDeliversJobErrors(t *testing.T) {
	p := NewPool(context.Background(), 2)
	wantErr := errors.New("boom")

	go func() {
		p.Submit(Job{ID: "ok", Run: func(context.Context) error { return nil }})
		p.Submit(Job{ID: "bad", Run: func(context.Context) error { return wantErr }})
		p.Wait()
	}()

	errIDs := map[string]error{}
	for res := range p.Results() {
		errIDs[res.ID] = res.Err
	}
	if errIDs["ok"] != nil {
		t.Errorf("ok job err = %v", errIDs["ok"])
	}
	if !errors.Is(errIDs["bad"], wantErr) {
		t.Errorf("bad job err = %v, want %v", errIDs["bad"], wantErr)
	}
}

func TestPoolRejectsAfterClose(t *testing.T) {
	p := NewPool(context.Background(), 1)
	go func() {
		for range p.Results() {
		}
	}()
	p.Wait()
	if p.Submit(Job{ID: "late", Run: func(context.Context) error { return nil }}) {
		t.Error("submit accepted after close")
	}
}

package scheduler

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// Workers arm reminders, re-arm every key once and cancel one task each.
// Only the surviving keys may fire, each exactly once.
func TestEngineStressReplaceAndCancel(t *testing.T) {
	engine := NewEngine(4096)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 200
	const tasksPerWorker = 10

	fireAt := time.Now().Add(300 * time.Millisecond)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for pass := 0; pass < 2; pass++ {
				for i := 0; i < perWorker; i++ {
					ev := ReminderEvent{
						Key:       fmt.Sprintf("w%d/%d", w, i),
						TaskID:    fmt.Sprintf("w%d-task%d", w, i%tasksPerWorker),
						Title:     "Drink water",
						TriggerAt: fireAt.Add(time.Duration(i%20+pass) * time.Millisecond),
					}
					if err := engine.Schedule(ev); err != nil {
						t.Errorf("schedule failed: %v", err)
						return
					}
				}
			}
			engine.Cancel(fmt.Sprintf("w%d-task0", w))
		}()
	}
	wg.Wait()

	want := workers * (perWorker - perWorker/tasksPerWorker)
	if got := engine.Pending(); got != want {
		t.Fatalf("unexpected pending count before firing: got=%d want=%d", got, want)
	}

	seen := make(map[string]bool, want)
	deadline := time.After(5 * time.Second)
	for len(seen) < want {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting events: received=%d want=%d dropped=%d", len(seen), want, engine.Dropped())
		case ev := <-engine.C():
			if seen[ev.Key] {
				t.Fatalf("key fired twice: %s", ev.Key)
			}
			if strings.HasSuffix(ev.TaskID, "-task0") {
				t.Fatalf("cancelled task fired: %s", ev.TaskID)
			}
			seen[ev.Key] = true
		}
	}

	select {
	case ev := <-engine.C():
		t.Fatalf("unexpected extra event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got=%d", engine.Dropped())
	}
}

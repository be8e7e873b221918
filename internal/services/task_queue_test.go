package services

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestTaskTypeExport_Constant(t *testing.T) {
	if TaskTypeExport != "export:process" {
		t.Errorf("TaskTypeExport = %q, expected %q", TaskTypeExport, "export:process")
	}
}

func TestSyncQueue_New(t *testing.T) {
	queue := NewSyncQueue()
	if queue == nil {
		t.Error("NewSyncQueue should not return nil")
	}
}

func TestSyncQueue_IsAsync(t *testing.T) {
	queue := NewSyncQueue()
	if queue.IsAsync() {
		t.Error("SyncQueue.IsAsync() should return false")
	}
}

func TestSyncQueue_Close(t *testing.T) {
	queue := NewSyncQueue()
	err := queue.Close()
	if err != nil {
		t.Errorf("SyncQueue.Close() should return nil, got %v", err)
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	queue := NewSyncQueue()
	task := &ExportTask{
		JobID:      1,
		ExportType: "searches",
	}

	err := queue.Enqueue(task)
	if err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueue_RunsProcessor(t *testing.T) {
	queue := NewSyncQueue()

	var mu sync.Mutex
	var got *ExportTask
	done := make(chan struct{})

	queue.SetProcessor(func(ctx context.Context, task *ExportTask) error {
		mu.Lock()
		got = task
		mu.Unlock()
		close(done)
		return nil
	})

	if err := queue.Enqueue(&ExportTask{JobID: 7, ExportType: "contacts", RequestedBy: 3}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor was not invoked within 1s")
	}

	mu.Lock()
	defer mu.Unlock()
	if got.JobID != 7 {
		t.Errorf("JobID = %d, expected 7", got.JobID)
	}
	if got.ExportType != "contacts" {
		t.Errorf("ExportType = %q, expected %q", got.ExportType, "contacts")
	}
	if got.RequestedBy != 3 {
		t.Errorf("RequestedBy = %d, expected 3", got.RequestedBy)
	}
}

func TestAsyncQueue_IsAsync(t *testing.T) {
	queue := &AsyncQueue{}
	if !queue.IsAsync() {
		t.Error("AsyncQueue.IsAsync() should return true")
	}
}

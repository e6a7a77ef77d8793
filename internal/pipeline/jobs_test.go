package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "hello world",
			data: []byte("hello world"),
			want: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
		{
			name: "empty",
			data: []byte{},
			want: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ContentHashHex(tc.data); got != tc.want {
				t.Errorf("ContentHashHex(%q) = %s, want %s", tc.data, got, tc.want)
			}
		})
	}
}

func TestJobStatusTransitions(t *testing.T) {
	job := &Job{ID: "j1", Status: StatusQueued}

	job.SetStatus(StatusParsing, "parsing")
	if job.Status != StatusParsing || job.Phase != "parsing" {
		t.Errorf("got status=%s phase=%s", job.Status, job.Phase)
	}

	job.SetTotalChunks(10)
	job.SetStatus(StatusIndexing, "indexing")
	job.AddChunksIndexed(4)
	job.AddChunksIndexed(6)

	snap := job.Snapshot()
	if snap.Progress.ChunksIndexed != 10 {
		t.Errorf("ChunksIndexed = %d, want 10", snap.Progress.ChunksIndexed)
	}
	if snap.Progress.TotalChunks != 10 {
		t.Errorf("TotalChunks = %d, want 10", snap.Progress.TotalChunks)
	}
}

func TestJobAddError(t *testing.T) {
	job := &Job{ID: "j1"}
	job.AddError("batch 0: boom")
	job.AddError("batch 3: boom")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("errors = %v, want 2 entries", snap.Progress.Errors)
	}
	if snap.Progress.Errors[0] != "batch 0: boom" {
		t.Errorf("first error = %q", snap.Progress.Errors[0])
	}
}

func TestSnapshotErrorsNeverNil(t *testing.T) {
	job := &Job{ID: "j1"}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("Snapshot Errors should be empty slice, not nil")
	}
}

func TestJobStorePutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "abc", UpdatedAt: time.Now()}
	store.Put(job)

	if got := store.Get("abc"); got != job {
		t.Errorf("Get returned %v, want the stored job", got)
	}
	if got := store.Get("missing"); got != nil {
		t.Errorf("Get of unknown id returned %v, want nil", got)
	}
}

func TestJobStoreCleanup(t *testing.T) {
	store := NewJobStore(time.Minute)
	old := &Job{ID: "old", UpdatedAt: time.Now().Add(-2 * time.Minute)}
	fresh := &Job{ID: "fresh", UpdatedAt: time.Now()}
	store.Put(old)
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expired job should have been evicted")
	}
	if store.Get("fresh") == nil {
		t.Error("fresh job should survive cleanup")
	}
}

func TestDedupIndexClaim(t *testing.T) {
	d := newDedupIndex()

	owner, fresh := d.claim("hash1", "doc-a")
	if !fresh || owner != "doc-a" {
		t.Errorf("first claim: owner=%s fresh=%v", owner, fresh)
	}

	owner, fresh = d.claim("hash1", "doc-b")
	if fresh || owner != "doc-a" {
		t.Errorf("second claim: owner=%s fresh=%v, want doc-a/false", owner, fresh)
	}

	d.reset()
	owner, fresh = d.claim("hash1", "doc-b")
	if !fresh || owner != "doc-b" {
		t.Errorf("claim after reset: owner=%s fresh=%v", owner, fresh)
	}
}

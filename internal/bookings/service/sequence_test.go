package service

import (
	"context"
	"sort"
	"sync"
	"testing"
)

func TestFormatBookingNumber(t *testing.T) {
	tests := []struct {
		seq  int64
		want string
	}{
		{1, "KMT-000001"},
		{42, "KMT-000042"},
		{999999, "KMT-999999"},
		{1000000, "KMT-1000000"},
	}
	for _, tt := range tests {
		if got := FormatBookingNumber("KMT", tt.seq); got != tt.want {
			t.Errorf("FormatBookingNumber(KMT, %d) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}

func TestMemorySequencerConcurrent(t *testing.T) {
	const workers = 50
	const perWorker = 20

	var seq MemorySequencer
	results := make(chan int64, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				v, err := seq.Next(context.Background())
				if err != nil {
					t.Errorf("Next: %v", err)
					return
				}
				results <- v
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make([]int64, 0, workers*perWorker)
	for v := range results {
		seen = append(seen, v)
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("got %d values, want %d", len(seen), workers*perWorker)
	}

	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	for i, v := range seen {
		if v != int64(i+1) {
			t.Fatalf("sorted value at %d = %d, want %d (duplicate or gap)", i, v, i+1)
		}
	}
}

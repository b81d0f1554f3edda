package logger

import (
	"strings"
	"sync"
	"testing"
)

func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		width    int
		expected string
	}{
		{"nothing answered", 0, 4, 10, "[          ] 0/4 (0%)"},
		{"half answered", 2, 4, 10, "[=====     ] 2/4 (50%)"},
		{"all answered", 4, 4, 10, "[==========] 4/4 (100%)"},
		{"one of three", 1, 3, 6, "[=     ] 1/3 (33%)"},
		{"empty survey", 0, 0, 5, "[     ] 0/0 (0%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewProgressBar(tt.total, tt.width, false)
			pb.Update(tt.current)
			if got := pb.Render(); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProgressBarClampsPercentage(t *testing.T) {
	pb := NewProgressBar(3, 10, false)
	pb.Update(7)
	if got := pb.Percentage(); got != 100 {
		t.Errorf("Percentage() = %d, want 100", got)
	}
	pb.Update(-2)
	if got := pb.Percentage(); got != 0 {
		t.Errorf("Percentage() = %d, want 0", got)
	}
}

func TestProgressBarDefaultsWidth(t *testing.T) {
	pb := NewProgressBar(2, 0, false)
	pb.Update(1)
	if got := pb.Render(); got != "[=====     ] 1/2 (50%)" {
		t.Errorf("Render() = %q", got)
	}
}

func TestProgressBarPrefix(t *testing.T) {
	pb := NewProgressBar(2, 4, false)
	pb.SetPrefix("Answered ")
	pb.Increment()
	if got := pb.Render(); !strings.HasPrefix(got, "Answered [==  ]") {
		t.Errorf("Render() = %q, want prefix", got)
	}
	if pb.Current() != 1 || pb.Total() != 2 {
		t.Errorf("Current/Total = %d/%d, want 1/2", pb.Current(), pb.Total())
	}
}

func TestProgressBarConcurrentIncrement(t *testing.T) {
	pb := NewProgressBar(100, 10, false)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pb.Increment()
			_ = pb.Render()
		}()
	}
	wg.Wait()
	if pb.Current() != 100 {
		t.Errorf("Current() = %d, want 100", pb.Current())
	}
}

package montecarlo

import (
	"errors"
	"testing"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name      string
		paths     int
		workers   int
		want      []int
		remainder int
	}{
		{"even split", 100000, 4, []int{12500, 12500, 12500, 12500}, 0},
		{"remainder spread", 22, 4, []int{3, 3, 3, 2}, 3},
		{"more workers than pairs", 6, 8, []int{1, 1, 1}, 0},
		{"single pair", 2, 16, []int{1}, 0},
		{"zero workers", 10, 0, []int{5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Partition(tt.paths, tt.workers)
			if err != nil {
				t.Fatalf("Partition failed: %v", err)
			}
			if plan.Workers != len(tt.want) {
				t.Fatalf("Workers = %d, want %d", plan.Workers, len(tt.want))
			}
			for i, n := range tt.want {
				if plan.Pairs[i] != n {
					t.Errorf("Pairs[%d] = %d, want %d", i, plan.Pairs[i], n)
				}
			}
			if plan.Total != tt.paths/2 {
				t.Errorf("Total = %d, want %d", plan.Total, tt.paths/2)
			}
			if plan.Remainder != tt.remainder {
				t.Errorf("Remainder = %d, want %d", plan.Remainder, tt.remainder)
			}
		})
	}
}

func TestPartitionNoIdleWorkers(t *testing.T) {
	for paths := 2; paths <= 200; paths += 2 {
		for workers := 1; workers <= 32; workers++ {
			plan, err := Partition(paths, workers)
			if err != nil {
				t.Fatalf("Partition(%d, %d) failed: %v", paths, workers, err)
			}
			for i, n := range plan.Pairs {
				if n == 0 {
					t.Fatalf("Partition(%d, %d): worker %d has no pairs", paths, workers, i)
				}
			}
		}
	}
}

func TestPartitionRejectsInvalidPaths(t *testing.T) {
	for _, paths := range []int{0, -2, 3, 99999} {
		if _, err := Partition(paths, 4); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Partition(%d) err = %v, want ErrInvalidRequest", paths, err)
		}
	}
}

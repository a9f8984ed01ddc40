package input

import "testing"

func TestAccumulatorChunking(t *testing.T) {
	tests := []struct {
		name         string
		deltas       []int64
		wantSteps    int
		wantResidual int
	}{
		{"single detent in one poll", []int64{4}, 1, 0},
		{"detent split across polls", []int64{1, 1, 1, 1}, 1, 0},
		{"two detents plus remainder", []int64{3, 3, 3}, 2, 1},
		{"negative detent", []int64{-4}, -1, 0},
		{"negative split with remainder", []int64{-3, -2}, -1, -1},
		{"direction reversal cancels", []int64{3, -3}, 0, 0},
		{"sub-detent motion retained", []int64{2}, 0, 2},
		{"large burst", []int64{17}, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Accumulator
			a.Rebase(0)

			pos := int64(0)
			steps := 0
			for _, d := range tt.deltas {
				pos += d
				steps += a.Feed(pos)
			}

			if steps != tt.wantSteps {
				t.Errorf("steps = %d, want %d", steps, tt.wantSteps)
			}
			if a.Residual() != tt.wantResidual {
				t.Errorf("residual = %d, want %d", a.Residual(), tt.wantResidual)
			}
		})
	}
}

func TestAccumulatorChunkingInvariance(t *testing.T) {
	// The same total motion must yield the same steps regardless of how
	// the raw counts arrive.
	chunkings := [][]int64{
		{11},
		{5, 6},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{10, 1},
	}

	for _, deltas := range chunkings {
		var a Accumulator
		a.Rebase(0)
		pos := int64(0)
		steps := 0
		for _, d := range deltas {
			pos += d
			steps += a.Feed(pos)
		}
		if steps != 2 || a.Residual() != 3 {
			t.Errorf("chunking %v: steps=%d residual=%d, want 2 and 3", deltas, steps, a.Residual())
		}
	}
}

func TestAccumulatorRebaseDropsResidual(t *testing.T) {
	var a Accumulator
	a.Rebase(0)
	a.Feed(3)
	if a.Residual() != 3 {
		t.Fatalf("residual = %d, want 3", a.Residual())
	}

	a.Rebase(3)
	if a.Residual() != 0 {
		t.Errorf("residual after rebase = %d, want 0", a.Residual())
	}
	if steps := a.Feed(4); steps != 0 {
		t.Errorf("steps after rebase = %d, want 0", steps)
	}
}

func TestAccumulatorFirstFeedBaselines(t *testing.T) {
	var a Accumulator
	if steps := a.Feed(100); steps != 0 {
		t.Errorf("first feed emitted %d steps, want 0", steps)
	}
	if steps := a.Feed(104); steps != 1 {
		t.Errorf("steps = %d, want 1", steps)
	}
}

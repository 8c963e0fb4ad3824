package service

import "testing"

// cumulativeThreshold devuelve el XP total necesario para alcanzar el nivel.
func cumulativeThreshold(level int) int {
	total := 0
	for i := 2; i <= level; i++ {
		total += i * baseLevelXP
	}
	return total
}

func TestLevelFromXP_Base(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 1},
		{199, 1},
		{200, 2},
		{250, 2},
		{400, 2},
		{499, 2},
		{500, 3},
		{899, 3},
		{900, 4},
	}
	for _, tc := range cases {
		if got := LevelFromXP(tc.xp); got != tc.want {
			t.Errorf("LevelFromXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestLevelFromXP_ThresholdRoundTrip(t *testing.T) {
	for level := 2; level <= 50; level++ {
		threshold := cumulativeThreshold(level)
		if got := LevelFromXP(threshold); got != level {
			t.Errorf("LevelFromXP(%d) = %d, want %d", threshold, got, level)
		}
		if got := LevelFromXP(threshold - 1); got != level-1 {
			t.Errorf("LevelFromXP(%d) = %d, want %d", threshold-1, got, level-1)
		}
	}
}

func TestLevelProgress_Level1(t *testing.T) {
	xpToNext, progress := LevelProgress(0, 1)
	if xpToNext != 100 {
		t.Errorf("xpToNext = %d, want 100", xpToNext)
	}
	if progress != 0 {
		t.Errorf("progress = %f, want 0", progress)
	}

	xpToNext, progress = LevelProgress(50, 1)
	if xpToNext != 50 {
		t.Errorf("xpToNext = %d, want 50", xpToNext)
	}
	if progress != 50 {
		t.Errorf("progress = %f, want 50", progress)
	}
}

func TestLevelProgress_HigherLevels(t *testing.T) {
	// Nivel 2: base 100, tramo 200.
	xpToNext, progress := LevelProgress(200, 2)
	if xpToNext != 100 {
		t.Errorf("xpToNext = %d, want 100", xpToNext)
	}
	if progress != 50 {
		t.Errorf("progress = %f, want 50", progress)
	}

	// Nivel 3: base 300, tramo 300.
	xpToNext, progress = LevelProgress(450, 3)
	if xpToNext != 150 {
		t.Errorf("xpToNext = %d, want 150", xpToNext)
	}
	if progress != 50 {
		t.Errorf("progress = %f, want 50", progress)
	}
}

func TestLevelProgress_Bounds(t *testing.T) {
	for level := 1; level <= 50; level++ {
		for _, xp := range []int{0, 1, 99, 100, 250, 500, 1000, 5000, 100000} {
			_, progress := LevelProgress(xp, level)
			if progress < 0 || progress > 100 {
				t.Errorf("LevelProgress(%d, %d) fuera de rango: %f", xp, level, progress)
			}
		}
	}
}

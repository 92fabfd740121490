package recommend

import "testing"

func TestAffinityWeighting(t *testing.T) {
	a := make(Affinity)
	a.Add([]int{28, 18}, 2) // favorite
	a.Add([]int{18, 35}, 1) // watched

	if a[18] != 3 {
		t.Errorf("Expected genre 18 weight 3, got %d", a[18])
	}
	if a[28] != 2 {
		t.Errorf("Expected genre 28 weight 2, got %d", a[28])
	}
	if a[35] != 1 {
		t.Errorf("Expected genre 35 weight 1, got %d", a[35])
	}
}

func TestAffinityTopOrdering(t *testing.T) {
	a := Affinity{18: 3, 28: 2, 35: 1}

	top := a.Top(3)
	want := []int{18, 28, 35}
	if len(top) != len(want) {
		t.Fatalf("Expected %d genres, got %d", len(want), len(top))
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("Position %d: expected %d, got %d", i, want[i], top[i])
		}
	}
}

func TestAffinityTopTruncatesAndBreaksTies(t *testing.T) {
	a := Affinity{10: 2, 5: 2, 99: 1}

	top := a.Top(2)
	// Equal weights break by genre id ascending
	if len(top) != 2 || top[0] != 5 || top[1] != 10 {
		t.Errorf("Expected [5 10], got %v", top)
	}
}

func TestAffinityTopEmpty(t *testing.T) {
	a := make(Affinity)
	if top := a.Top(3); len(top) != 0 {
		t.Errorf("Expected no genres, got %v", top)
	}
}

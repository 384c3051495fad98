package updater

import (
	"testing"
	"time"
)

func TestPacing(t *testing.T) {
	u := &Updater{cfg: Config{PacingBudget: 5 * time.Second, MaxPacing: time.Second}}
	cases := map[int]time.Duration{
		0:   0,
		1:   0,
		5:   time.Second,
		10:  500 * time.Millisecond,
		100: 50 * time.Millisecond,
	}
	for n, want := range cases {
		if got := u.pacing(n); got != want {
			t.Errorf("pacing(%d) = %v, want %v", n, got, want)
		}
	}
	u.cfg.MaxPacing = 0
	if got := u.pacing(2); got != 2500*time.Millisecond {
		t.Errorf("uncapped pacing(2) = %v", got)
	}
}

func TestNextInterval(t *testing.T) {
	base := 30 * time.Second
	for failures, want := range map[int]time.Duration{0: base, 2: base, 3: 2 * base, 5: 2 * base, 6: 4 * base, 20: 4 * base} {
		if got := nextInterval(base, failures); got != want {
			t.Errorf("nextInterval(%d) = %v, want %v", failures, got, want)
		}
	}
}

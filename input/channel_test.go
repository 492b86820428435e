package input

import (
	"sync"
	"testing"
)

func TestChannelDrainOrder(t *testing.T) {
	tx, rx := NewChannel("test", 16, DropOldest)

	for i := 0; i < 10; i++ {
		tx.TryPush(Sample(i))
	}

	got := rx.Drain(nil)
	if len(got) != 10 {
		t.Fatalf("drained %d samples, want 10", len(got))
	}

	for i, v := range got {
		if v != Sample(i) {
			t.Errorf("sample %d = %v, want %v", i, v, i)
		}
	}

	if got = rx.Drain(got[:0]); len(got) != 0 {
		t.Errorf("second drain returned %d samples, want 0", len(got))
	}
}

func TestChannelCapacity(t *testing.T) {
	for _, tc := range []struct {
		in, want int
	}{
		{0, 2},
		{1, 2},
		{4, 4},
		{5, 8},
		{4096, 4096},
		{4097, 8192},
	} {
		_, rx := NewChannel("test", tc.in, DropOldest)
		if rx.Cap() != tc.want {
			t.Errorf("capacity(%d) = %d, want %d", tc.in, rx.Cap(), tc.want)
		}
	}
}

func TestChannelOverflow(t *testing.T) {
	for _, tc := range []struct {
		policy Policy
		first  Sample
	}{
		{DropOldest, 36},
		{DropIncoming, 0},
	} {
		t.Run(tc.policy.String(), func(t *testing.T) {
			tx, rx := NewChannel("test", 64, tc.policy)

			for i := 0; i < 100; i++ {
				tx.TryPush(Sample(i))
			}

			got := rx.Drain(nil)
			if len(got) != rx.Cap() {
				t.Fatalf("drained %d samples, want %d", len(got), rx.Cap())
			}

			for i, v := range got {
				if want := tc.first + Sample(i); v != want {
					t.Fatalf("sample %d = %v, want %v", i, v, want)
				}
			}

			if rx.Dropped() != 36 {
				t.Errorf("dropped %d, want 36", rx.Dropped())
			}

			// The channel is usable again once drained.
			tx.TryPush(1000)
			if got = rx.Drain(got[:0]); len(got) != 1 || got[0] != 1000 {
				t.Errorf("drain after overflow = %v, want [1000]", got)
			}
		})
	}
}

func TestChannelDrainAppends(t *testing.T) {
	tx, rx := NewChannel("test", 4, DropOldest)
	tx.TryPush(3)

	got := rx.Drain([]Sample{1, 2})
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("drain = %v, want [1 2 3]", got)
	}
}

func TestChannelConcurrent(t *testing.T) {
	const total = 200000

	tx, rx := NewChannel("test", 1024, DropOldest)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for i := 1; i <= total; i++ {
			tx.TryPush(Sample(i))
		}
	}()

	var (
		buf  []Sample
		last Sample
		seen int
	)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	check := func() {
		buf = rx.Drain(buf[:0])
		if len(buf) > rx.Cap() {
			t.Fatalf("drained %d samples, more than capacity %d", len(buf), rx.Cap())
		}

		for _, v := range buf {
			if v <= last {
				t.Fatalf("sample %v arrived after %v", v, last)
			}
			last = v
			seen++
		}
	}

	for {
		select {
		case <-done:
			check()
			if last != total {
				t.Errorf("last sample = %v, want %v", last, total)
			}
			if uint64(seen)+rx.Dropped() != total {
				t.Errorf("seen %d + dropped %d != %d", seen, rx.Dropped(), total)
			}
			return
		default:
			check()
		}
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{DropOldest, DropIncoming} {
		got, ok := ParsePolicy(p.String())
		if !ok || got != p {
			t.Errorf("ParsePolicy(%q) = %v, %v", p.String(), got, ok)
		}
	}

	if _, ok := ParsePolicy("newest"); ok {
		t.Error("ParsePolicy accepted an unknown policy")
	}
}

func BenchmarkTryPush(b *testing.B) {
	tx, rx := NewChannel("bench", 4096, DropOldest)
	buf := make([]Sample, 0, rx.Cap())

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		tx.TryPush(Sample(i))
		if i&2047 == 0 {
			buf = rx.Drain(buf[:0])
		}
	}
}

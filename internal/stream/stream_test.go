package stream

import (
	"reflect"
	"testing"
)

func TestFactoryList(t *testing.T) {
	f := NewDefaultFactory()
	want := []string{"hyperplane", "rbf"}
	if got := f.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestFactoryGet(t *testing.T) {
	f := NewDefaultFactory()

	t.Run("known generator", func(t *testing.T) {
		s, err := f.Get("hyperplane", 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s == nil {
			t.Fatal("expected non-nil stream")
		}
	})

	t.Run("unknown generator", func(t *testing.T) {
		if _, err := f.Get("nope", 42); err == nil {
			t.Error("expected error for unknown generator")
		}
	})
}

func TestGeneratorsDeterministic(t *testing.T) {
	builders := map[string]func() Stream{
		"hyperplane": func() Stream { return NewHyperplane(DefaultHyperplaneConfig(), 7) },
		"rbf":        func() Stream { return NewRandomRBF(DefaultRBFConfig(), 7) },
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			a, b := build(), build()
			for i := 0; i < 100; i++ {
				ia, ib := a.Next(), b.Next()
				if !reflect.DeepEqual(ia, ib) {
					t.Fatalf("instance %d differs between identical seeds: %v vs %v", i, ia, ib)
				}
			}
		})
	}
}

func TestGeneratorRestartReplays(t *testing.T) {
	s := NewHyperplane(DefaultHyperplaneConfig(), 13)
	first := make([]Instance, 50)
	for i := range first {
		first[i] = s.Next()
	}
	s.Restart()
	for i := range first {
		if got := s.Next(); !reflect.DeepEqual(got, first[i]) {
			t.Fatalf("instance %d differs after Restart: %v vs %v", i, got, first[i])
		}
	}
}

func TestGeneratorOutputShape(t *testing.T) {
	tests := []struct {
		name       string
		stream     Stream
		features   int
		numClasses int
	}{
		{"hyperplane", NewHyperplane(DefaultHyperplaneConfig(), 1), 10, 2},
		{"rbf", NewRandomRBF(RBFConfig{NumFeatures: 5, NumCentroids: 10, NumClasses: 3}, 1), 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.stream.HasMore() {
				t.Error("synthetic stream should always have more instances")
			}
			if got := tt.stream.NumClasses(); got != tt.numClasses {
				t.Errorf("NumClasses() = %d, want %d", got, tt.numClasses)
			}
			seen := make(map[int]bool)
			for i := 0; i < 500; i++ {
				inst := tt.stream.Next()
				if len(inst.Features) != tt.features {
					t.Fatalf("instance has %d features, want %d", len(inst.Features), tt.features)
				}
				if inst.Class < 0 || inst.Class >= tt.numClasses {
					t.Fatalf("class %d out of range [0, %d)", inst.Class, tt.numClasses)
				}
				seen[inst.Class] = true
			}
			if len(seen) < 2 {
				t.Error("expected at least two distinct classes in 500 instances")
			}
		})
	}
}

package window

import (
	"reflect"
	"testing"
)

var cpuMeta = Metadata{Label: "Processor", Color: "rgb(59, 130, 246)"}

func TestNewDefaultsCapacity(t *testing.T) {
	for _, c := range []int{0, -4} {
		if got := New(c).Capacity(); got != DefaultCapacity {
			t.Errorf("New(%d).Capacity() = %d, want %d", c, got, DefaultCapacity)
		}
	}
	if got := New(7).Capacity(); got != 7 {
		t.Errorf("New(7).Capacity() = %d", got)
	}
}

func TestAppendEvictsOldest(t *testing.T) {
	s := New(3)
	for _, v := range []float64{10, 20, 30, 40} {
		s.Append("cpu", v, cpuMeta)
	}

	got := s.SnapshotAll()["cpu"]
	if want := []float64{20, 30, 40}; !reflect.DeepEqual(got, want) {
		t.Errorf("window = %v, want %v", got, want)
	}
}

func TestAppendLengthIsMinOfTicksAndCapacity(t *testing.T) {
	const capacity = 20
	s := New(capacity)

	for n := 1; n <= 45; n++ {
		s.Append("processor.usage", float64(n), cpuMeta)

		want := min(n, capacity)
		if got := s.Len("processor.usage"); got != want {
			t.Fatalf("after %d appends len = %d, want %d", n, got, want)
		}
		values := s.SnapshotAll()["processor.usage"]
		if last := values[len(values)-1]; last != float64(n) {
			t.Fatalf("after %d appends last = %v", n, last)
		}
	}
}

func TestAppendKeepsCallOrder(t *testing.T) {
	s := New(5)
	for _, v := range []float64{3, 3, 1, 2} {
		s.Append("k", v, Metadata{})
	}
	if got := s.SnapshotAll()["k"]; !reflect.DeepEqual(got, []float64{3, 3, 1, 2}) {
		t.Errorf("window = %v", got)
	}
}

func TestMetadataFixedAtCreation(t *testing.T) {
	s := New(3)
	s.Append("gpu.usage", 1, Metadata{Label: "GPU", Color: "a"})
	s.Append("gpu.usage", 2, Metadata{Label: "ignored", Color: "b"})

	series := s.Series()
	if len(series) != 1 || series[0].Label != "GPU" || series[0].Color != "a" {
		t.Errorf("unexpected series %+v", series)
	}
}

func TestRemoveStream(t *testing.T) {
	s := New(3)
	s.Append("a", 1, Metadata{})
	s.Append("b", 1, Metadata{})
	s.Append("c", 1, Metadata{})

	s.RemoveStream("b")
	s.RemoveStream("missing")

	if s.Has("b") {
		t.Error("stream b still present")
	}
	if s.Len("b") != 0 {
		t.Errorf("Len of removed stream = %d", s.Len("b"))
	}
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("keys = %v", got)
	}

	s.Append("b", 9, Metadata{})
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"a", "c", "b"}) {
		t.Errorf("re-created stream should register last, keys = %v", got)
	}
	if got := s.SnapshotAll()["b"]; !reflect.DeepEqual(got, []float64{9}) {
		t.Errorf("re-created stream kept old samples: %v", got)
	}
}

func TestSnapshotAllIsIdempotentAndDetached(t *testing.T) {
	s := New(4)
	s.Append("a", 1, Metadata{})
	s.Append("a", 2, Metadata{})

	first := s.SnapshotAll()
	second := s.SnapshotAll()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("SnapshotAll not idempotent: %v vs %v", first, second)
	}

	first["a"][0] = 99
	if s.SnapshotAll()["a"][0] != 1 {
		t.Error("mutating a snapshot changed the store")
	}

	series := s.Series()
	series[0].Values[1] = 99
	if s.SnapshotAll()["a"][1] != 2 {
		t.Error("mutating a series changed the store")
	}
}

func TestSnapshotAllEarlySession(t *testing.T) {
	s := New(20)
	s.Append("a", 5, Metadata{})

	if got := s.SnapshotAll()["a"]; len(got) != 1 {
		t.Errorf("store must not pad short windows, got %v", got)
	}
}

func TestAppendAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		value    float64
		capacity int
		want     []float64
	}{
		{"empty", nil, 1, 3, []float64{1}},
		{"below capacity", []float64{1, 2}, 3, 3, []float64{1, 2, 3}},
		{"at capacity", []float64{1, 2, 3}, 4, 3, []float64{2, 3, 4}},
		{"capacity one", []float64{7}, 8, 1, []float64{8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := appendAndTrim(tt.input, tt.value, tt.capacity)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("appendAndTrim = %v, want %v", got, tt.want)
			}
		})
	}
}

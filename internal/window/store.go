// Package window keeps fixed-capacity histories of metric samples for charting.
package window

// DefaultCapacity is the number of samples kept per stream when none is given.
const DefaultCapacity = 20

// Metadata is display information carried by a stream. Hidden streams are
// charted only when a consumer toggles them on.
type Metadata struct {
	Label  string `json:"label"`
	Color  string `json:"color"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Stream is the rolling history of one metric.
type Stream struct {
	Key      string
	Metadata Metadata
	samples  []float64
}

// Series is a read-only copy of a stream for consumers.
type Series struct {
	Key    string    `json:"key"`
	Label  string    `json:"label"`
	Color  string    `json:"color"`
	Hidden bool      `json:"hidden,omitempty"`
	Values []float64 `json:"values"`
}

// Store owns every stream. It has no locking: a single goroutine writes it and
// readers only ever see copies.
type Store struct {
	capacity int
	streams  map[string]*Stream
	order    []string
}

func New(capacity int) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		streams:  make(map[string]*Stream),
	}
}

func (s *Store) Capacity() int {
	return s.capacity
}

// Append pushes value onto the stream at key, creating the stream with meta on
// first use. The oldest sample is evicted once the stream is full.
func (s *Store) Append(key string, value float64, meta Metadata) {
	st, ok := s.streams[key]
	if !ok {
		st = &Stream{Key: key, Metadata: meta, samples: make([]float64, 0, s.capacity)}
		s.streams[key] = st
		s.order = append(s.order, key)
	}
	st.samples = appendAndTrim(st.samples, value, s.capacity)
}

// RemoveStream drops the stream at key. Unknown keys are ignored.
func (s *Store) RemoveStream(key string) {
	if _, ok := s.streams[key]; !ok {
		return
	}
	delete(s.streams, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) Has(key string) bool {
	_, ok := s.streams[key]
	return ok
}

// Len returns the number of samples in the stream, 0 when it does not exist.
func (s *Store) Len(key string) int {
	if st, ok := s.streams[key]; ok {
		return len(st.samples)
	}
	return 0
}

// Keys returns stream keys in registration order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.order...)
}

// SnapshotAll returns a copy of every stream's samples, oldest first. Streams
// shorter than the capacity are returned as they are.
func (s *Store) SnapshotAll() map[string][]float64 {
	out := make(map[string][]float64, len(s.streams))
	for key, st := range s.streams {
		out[key] = clone(st.samples)
	}
	return out
}

// Series returns a copy of every stream with its metadata, in registration order.
func (s *Store) Series() []Series {
	out := make([]Series, 0, len(s.order))
	for _, key := range s.order {
		st := s.streams[key]
		out = append(out, Series{
			Key:    key,
			Label:  st.Metadata.Label,
			Color:  st.Metadata.Color,
			Hidden: st.Metadata.Hidden,
			Values: clone(st.samples),
		})
	}
	return out
}

// appendAndTrim appends value and drops the oldest samples beyond capacity.
// The backing array is reused so a full stream does not grow.
func appendAndTrim(samples []float64, value float64, capacity int) []float64 {
	if len(samples) >= capacity {
		n := copy(samples, samples[len(samples)-capacity+1:])
		samples = samples[:n]
	}
	return append(samples, value)
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

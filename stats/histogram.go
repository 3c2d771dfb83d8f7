package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Histogram represents counts by integer bins.
type Histogram map[int]int

// Update adds the counts of another Histogram.
func (h Histogram) Update(other Histogram) {
	for k, v := range other {
		h[k] += v
	}
}

// Total returns the sum of the counts.
func (h Histogram) Total() (sum int) {
	for _, v := range h {
		sum += v
	}
	return
}

// Keys returns the bins in increasing order.
func (h Histogram) Keys() []int {
	keys := make([]int, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// MarshalJSON returns a JSON representation of a Histogram, numerically sorting the keys.
func (h Histogram) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range h.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(buf, "%q:%d", strconv.Itoa(k), h[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON representation of a Histogram.
func (h *Histogram) UnmarshalJSON(b []byte) error {
	smap := make(map[string]int)
	if err := json.Unmarshal(b, &smap); err != nil {
		return err
	}
	hist := make(Histogram, len(smap))
	for key, value := range smap {
		// JSON objects have string keys
		k, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("invalid histogram bin %q: %w", key, err)
		}
		hist[k] = value
	}
	*h = hist
	return nil
}

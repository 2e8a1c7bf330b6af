package logging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		size  int
		adds  int
		last  int
		want  []string
		count int
	}{
		{name: "empty", size: 3, adds: 0, last: 2, want: nil, count: 0},
		{name: "partial", size: 3, adds: 2, last: 5, want: []string{"m0", "m1"}, count: 2},
		{name: "exactly full", size: 3, adds: 3, last: 3, want: []string{"m0", "m1", "m2"}, count: 3},
		{name: "wrapped", size: 3, adds: 5, last: 3, want: []string{"m2", "m3", "m4"}, count: 3},
		{name: "wrapped subset", size: 3, adds: 7, last: 2, want: []string{"m5", "m6"}, count: 3},
		{name: "non-positive size uses default", size: 0, adds: 1, last: 1, want: []string{"m0"}, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tail := NewTail(tt.size)
			for i := 0; i < tt.adds; i++ {
				tail.Add(Entry{Message: fmt.Sprintf("m%d", i)})
			}

			var got []string
			for _, e := range tail.Last(tt.last) {
				got = append(got, e.Message)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, tail.Len())
		})
	}
}

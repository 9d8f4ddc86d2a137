package manager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

func layout(links []PageLink) []any {
	var out []any
	for _, l := range links {
		switch {
		case l.Gap:
			out = append(out, "...")
		case l.Current:
			out = append(out, []int{l.Number})
		default:
			out = append(out, l.Number)
		}
	}
	return out
}

func TestPages(t *testing.T) {
	tests := []struct {
		current, total int
		want           []any
	}{
		{1, 1, []any{[]int{1}}},
		{1, 3, []any{[]int{1}, 2, 3}},
		{5, 10, []any{1, "...", 3, 4, []int{5}, 6, 7, "...", 10}},
		{1, 10, []any{[]int{1}, 2, 3, "...", 10}},
		{10, 10, []any{1, "...", 8, 9, []int{10}}},
		{4, 7, []any{1, 2, 3, []int{4}, 5, 6, 7}},
		{0, 0, []any{[]int{1}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, layout(Pages(tt.current, tt.total, 2)), "Pages(%d, %d)", tt.current, tt.total)
	}
}

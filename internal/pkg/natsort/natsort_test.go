package natsort

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"12", "12", 0},
		{"007", "7", -1},
		{"12", "12A", -1},
		{"12a", "12B", -1},
		{"room 9", "Room 10", -1},
		{"12", "Unassigned", -1},
		{"B1", "b2", -1},
		{"A", "a", -1},
		{"", "1", -1},
		{"99999999999999999999", "100000000000000000000", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestSortRoomNumbers(t *testing.T) {
	rooms := []string{"12", "3", "101", "Unassigned", "12B", "12A", "7"}
	slices.SortFunc(rooms, Compare)
	assert.Equal(t, []string{"3", "7", "12", "12A", "12B", "101", "Unassigned"}, rooms)
}

func TestSortAllNumericIsNumericAscending(t *testing.T) {
	rooms := []string{"20", "1", "100", "9", "10"}
	slices.SortFunc(rooms, Compare)
	assert.Equal(t, []string{"1", "9", "10", "20", "100"}, rooms)
}

package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalance_Overflows(t *testing.T) {
	tests := []struct {
		name string
		have Balance
		add  Delta
		want bool
	}{
		{"small credit", Balance{Gold: 10}, Delta{Gold: 5}, false},
		{"exactly at max", Balance{Gold: math.MaxInt64 - 5}, Delta{Gold: 5}, false},
		{"one past max", Balance{Gold: math.MaxInt64 - 5}, Delta{Gold: 6}, true},
		{"debit near max", Balance{Gold: math.MaxInt64}, Delta{Gold: -1}, false},
		{"other field", Balance{Quartz: math.MaxInt64}, Delta{Gold: 1, Quartz: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.have.Overflows(tt.add))
		})
	}
}

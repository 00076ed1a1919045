package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDivRound(t *testing.T) {
	tests := []struct {
		name string
		num  int64
		den  int64
		want int64
	}{
		{
			name: "Exact division",
			num:  1000,
			den:  10,
			want: 100,
		},
		{
			name: "Round down below half",
			num:  1004,
			den:  10,
			want: 100,
		},
		{
			name: "Round up above half",
			num:  1006,
			den:  10,
			want: 101,
		},
		{
			name: "Half rounds to even - down",
			num:  1005,
			den:  10,
			want: 100,
		},
		{
			name: "Half rounds to even - up",
			num:  1015,
			den:  10,
			want: 102,
		},
		{
			name: "Negative numerator half to even",
			num:  -1005,
			den:  10,
			want: -100,
		},
		{
			name: "Negative numerator rounds away above half",
			num:  -1006,
			den:  10,
			want: -101,
		},
		{
			name: "Zero numerator",
			num:  0,
			den:  10,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DivRound(tt.num, tt.den))
		})
	}
}

func TestApplyRate(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		rateBp int32
		want   int64
	}{
		{
			name:   "Ten percent",
			amount: 100000,
			rateBp: 1000,
			want:   10000,
		},
		{
			name:   "Full rate",
			amount: 100000,
			rateBp: 10000,
			want:   100000,
		},
		{
			name:   "Zero rate",
			amount: 100000,
			rateBp: 0,
			want:   0,
		},
		{
			name:   "Half paisa rounds to even",
			amount: 25,
			rateBp: 1000, // 2.5 paise
			want:   2,
		},
		{
			name:   "Half paisa rounds to even - up",
			amount: 35,
			rateBp: 1000, // 3.5 paise
			want:   4,
		},
		{
			name:   "Small amount small rate",
			amount: 3,
			rateBp: 200, // 0.06 paise
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyRate(tt.amount, tt.rateBp))
		})
	}
}

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWon(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{71000, "71,000원"},
		{1234567.4, "1,234,567원"},
		{999, "999원"},
		{2.5, "2원"},
		{0, "0원"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWon(tt.in))
	}
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "12.34%", FormatWeight(0.1234))
	assert.Equal(t, "5.00%", FormatWeight(0.05))
	assert.Equal(t, "100.00%", FormatWeight(1))
}

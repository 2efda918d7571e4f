package energy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Period
		wantErr bool
	}{
		{"canonical", "01/2024", Period{Month: 1, Year: 2024}, false},
		{"single digit month", "3/2024", Period{Month: 3, Year: 2024}, false},
		{"dash", "12-2023", Period{Month: 12, Year: 2023}, false},
		{"iso order", "2024-07", Period{Month: 7, Year: 2024}, false},
		{"padded", "  06/2024 ", Period{Month: 6, Year: 2024}, false},
		{"month out of range", "13/2024", Period{}, true},
		{"zero month", "00/2024", Period{}, true},
		{"text", "jan/2024", Period{}, true},
		{"empty", "", Period{}, true},
		{"too many parts", "01/01/2024", Period{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriod_Bounds(t *testing.T) {
	p := MustParsePeriod("02/2024")

	assert.Equal(t, "02/2024", p.String())
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), p.End())
}

func TestPeriod_Preceding(t *testing.T) {
	p := MustParsePeriod("02/2024")

	got := p.Preceding(3)

	require.Len(t, got, 3)
	assert.Equal(t, "11/2023", got[0].String())
	assert.Equal(t, "12/2023", got[1].String())
	assert.Equal(t, "01/2024", got[2].String())
	assert.True(t, got[0].Before(p))
	assert.False(t, p.Before(got[2]))
}

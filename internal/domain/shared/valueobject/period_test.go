package valueobject

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
		year    int
		month   time.Month
	}{
		{"2026-01", false, 2026, time.January},
		{"2025-12", false, 2025, time.December},
		{" 2026-03 ", false, 2026, time.March},
		{"2026-13", true, 0, 0},
		{"2026-00", true, 0, 0},
		{"2026-1", true, 0, 0},
		{"202601", true, 0, 0},
		{"", true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, p.Year())
			assert.Equal(t, tt.month, p.Month())
		})
	}
}

func TestPeriod_String(t *testing.T) {
	p, err := NewPeriod(2026, time.January)
	require.NoError(t, err)
	assert.Equal(t, "2026-01", p.String())
}

func TestPeriod_Next(t *testing.T) {
	p, _ := NewPeriod(2025, time.December)
	assert.Equal(t, "2026-01", p.Next().String())

	p, _ = NewPeriod(2026, time.May)
	assert.Equal(t, "2026-06", p.Next().String())
}

func TestPeriod_Ordering(t *testing.T) {
	jan, _ := NewPeriod(2026, time.January)
	feb, _ := NewPeriod(2026, time.February)
	dec25, _ := NewPeriod(2025, time.December)

	assert.True(t, jan.Before(feb))
	assert.True(t, dec25.Before(jan))
	assert.False(t, feb.Before(jan))
	assert.True(t, jan.Equals(jan))
	assert.False(t, jan.Equals(feb))
}

func TestPeriodsBetween(t *testing.T) {
	t.Run("enumerates inclusive range", func(t *testing.T) {
		start, _ := NewPeriod(2025, time.November)
		end, _ := NewPeriod(2026, time.February)

		periods := PeriodsBetween(start, end)
		require.Len(t, periods, 4)
		assert.Equal(t, "2025-11", periods[0].String())
		assert.Equal(t, "2026-02", periods[3].String())
	})

	t.Run("single month", func(t *testing.T) {
		p, _ := NewPeriod(2026, time.March)
		periods := PeriodsBetween(p, p)
		require.Len(t, periods, 1)
	})

	t.Run("start after end yields nil", func(t *testing.T) {
		start, _ := NewPeriod(2026, time.March)
		end, _ := NewPeriod(2026, time.January)
		assert.Nil(t, PeriodsBetween(start, end))
	})
}

func TestPeriodOf(t *testing.T) {
	p := PeriodOf(time.Date(2026, time.January, 27, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-01", p.String())
}

func TestPeriod_JSON(t *testing.T) {
	p, _ := NewPeriod(2026, time.January)
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `"2026-01"`, string(data))

	var decoded Period
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equals(p))

	assert.Error(t, json.Unmarshal([]byte(`"2026-1"`), &decoded))
}

func TestPeriod_Scan(t *testing.T) {
	var p Period
	require.NoError(t, p.Scan("2026-05"))
	assert.Equal(t, time.May, p.Month())

	require.NoError(t, p.Scan(nil))
	assert.True(t, p.IsZero())

	assert.Error(t, p.Scan(5))
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Period
		wantErr bool
	}{
		{name: "seven days", raw: "7 days", want: Last7Days},
		{name: "thirty days", raw: "30 days", want: Last30Days},
		{name: "ninety days", raw: "90 days", want: Last90Days},
		{name: "one year", raw: "365 days", want: Last365Days},
		{name: "empty defaults", raw: "", want: DefaultPeriod},
		{name: "whitespace defaults", raw: "   ", want: DefaultPeriod},
		{name: "unknown count", raw: "14 days", wantErr: true},
		{name: "bare number", raw: "30", wantErr: true},
		{name: "sql injection attempt", raw: "30 days'; DROP TABLE sales;--", wantErr: true},
		{name: "union injection attempt", raw: "7 days UNION SELECT * FROM tenants", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodCutoffFrom(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 6, 8, 10, 30, 0, 0, time.UTC), Last7Days.CutoffFrom(now))
	assert.Equal(t, time.Date(2023, 6, 16, 10, 30, 0, 0, time.UTC), Last365Days.CutoffFrom(now))
}

func TestParseDateWindow(t *testing.T) {
	t.Run("both empty means no window", func(t *testing.T) {
		window, err := ParseDateWindow("", "")
		require.NoError(t, err)
		assert.Nil(t, window)
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		window, err := ParseDateWindow("2024-01-01", "2024-01-31")
		require.NoError(t, err)
		require.NotNil(t, window)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), window.Start)
		assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), window.End)
	})

	t.Run("open start", func(t *testing.T) {
		window, err := ParseDateWindow("", "2024-01-31")
		require.NoError(t, err)
		require.NotNil(t, window)
		assert.True(t, window.Start.IsZero())
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := ParseDateWindow("01/02/2024", "")
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := ParseDateWindow("2024-02-01", "2024-01-01")
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

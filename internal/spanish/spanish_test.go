package spanish

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLongDate(t *testing.T) {
	d := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "10 de junio de 2025", LongDate(d))
	assert.Equal(t, "10 de junio", DayMonth(d))
	assert.Equal(t, "junio de 2025", MonthYear(d))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{
			name: "days hours and minutes",
			d:    49*time.Hour + 5*time.Minute,
			want: "2 días, 1 hora, 5 minutos",
		},
		{
			name: "hours only",
			d:    3 * time.Hour,
			want: "3 horas",
		},
		{
			name: "single minute",
			d:    time.Minute,
			want: "1 minuto",
		},
		{
			name: "under a minute",
			d:    30 * time.Second,
			want: "en menos de un minuto",
		},
		{
			name: "negative clamps to zero",
			d:    -time.Hour,
			want: "en menos de un minuto",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.d))
		})
	}
}

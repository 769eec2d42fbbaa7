// Package spanish formats dates and durations for user-facing messages.
// Go's time package has no locale support, so month names are mapped here.
package spanish

import (
	"fmt"
	"strings"
	"time"
)

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Month returns the lowercase Spanish name of m.
func Month(m time.Month) string {
	return months[m-1]
}

// DayMonth formats t as "2 de enero".
func DayMonth(t time.Time) string {
	return fmt.Sprintf("%d de %s", t.Day(), Month(t.Month()))
}

// LongDate formats t as "2 de enero de 2006".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), Month(t.Month()), t.Year())
}

// MonthYear formats t as "enero de 2006".
func MonthYear(t time.Time) string {
	return fmt.Sprintf("%s de %d", Month(t.Month()), t.Year())
}

// Duration renders d as a human-readable countdown, e.g.
// "2 días, 3 horas, 5 minutos". Sub-minute durations collapse to
// "en menos de un minuto".
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "día", "días"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hora", "horas"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minuto", "minutos"))
	}
	if len(parts) == 0 {
		return "en menos de un minuto"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}

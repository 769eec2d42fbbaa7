package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/calendar"
	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/spanish"
)

// Embed colors, matching the community's established palette.
const (
	ColorOrange  = 0xE67E22
	ColorGreen   = 0x2ECC71
	ColorGold    = 0xF1C40F
	ColorDarkRed = 0x992D22
)

// Embed renders the reminder as a Discord embed. The Clash info table
// supplies the first-place prize for tournament-day reminders.
// Notes-published reminders are rendered separately because their
// content comes from the scraped article, not the calendar.
func (r *Reminder) Embed(info calendar.ClashInfo) *discordgo.MessageEmbed {
	switch r.Kind {
	case KindPrePatch:
		return r.prePatchEmbed()
	case KindClashFormation:
		return r.formationEmbed()
	case KindClashMorning:
		return r.morningEmbed(info)
	case KindClashFinal:
		return r.finalCallEmbed(info)
	default:
		return nil
	}
}

func (r *Reminder) prePatchEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "⏰ ¡Recordatorio de Parche!",
		Description: fmt.Sprintf(
			"Mañana, **%s**, es día de parche. Las colas clasificatorias se desactivarán aproximadamente a la 1:30 AM (CDMX).",
			spanish.DayMonth(r.PatchDate)),
		Color: ColorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Tiempo Restante para la Desactivación",
				Value: spanish.Duration(r.Remaining),
			},
		},
	}
}

func (r *Reminder) formationEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📢 ¡La Formación de Equipos para Clash: %s ha comenzado!", r.Event.Name),
		Color: ColorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Días del Torneo",
				Value: TournamentDays(r.Event.TournamentDays),
			},
			{
				Name:  "Tiempo Restante para el Torneo",
				Value: spanish.Duration(r.Remaining),
			},
			{
				Name:  "Hora de Confirmación General",
				Value: "A partir de las 17:00 CDMX.",
			},
		},
	}
}

func (r *Reminder) morningEmbed(info calendar.ClashInfo) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("⚔️ ¡Hoy es día de Torneo Clash: %s!", r.Event.Name),
		Color: ColorGold,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Premio del 1er Lugar",
				Value: info.FirstPlaceReward(),
			},
			{
				Name:  "La Fase de Confirmación inicia a las 17:00 CDMX",
				Value: fmt.Sprintf("(Faltan: %s)", spanish.Duration(r.Remaining)),
			},
		},
	}
}

func (r *Reminder) finalCallEmbed(info calendar.ClashInfo) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🚨 ¡ÚLTIMA LLAMADA PARA CLASH: %s!", r.Event.Name),
		Description: "**¡SOLO QUEDAN 10 MINUTOS PARA CONFIRMAR!**",
		Color:       ColorDarkRed,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Premio del 1er Lugar",
				Value: info.FirstPlaceReward(),
			},
			{
				Name:  "La Fase de Confirmación termina a las 19:00 CDMX",
				Value: fmt.Sprintf("(Cierra en: %s)", spanish.Duration(r.Remaining)),
			},
		},
	}
}

// NotesPublishedEmbed announces that the patch notes are online.
func NotesPublishedEmbed(title, url string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ ¡Notas del Parche ya Disponibles!",
		Description: fmt.Sprintf("Ya puedes consultar las notas de la versión **%s**.", title),
		Color:       ColorGreen,
		URL:         url,
	}
}

// NewPatchDetectedEmbed announces a patch found by the page check that
// was not in the calendar.
func NewPatchDetectedEmbed(title, url string, published time.Time, imageURL string) *discordgo.MessageEmbed {
	dateText := "fecha desconocida"
	if !published.IsZero() {
		dateText = published.Format("02/01/2006")
	}
	embed := &discordgo.MessageEmbed{
		Title:       "¡Nuevas Notas de Parche Disponibles!",
		Description: fmt.Sprintf("**%s** - Publicado el %s", title, dateText),
		Color:       ColorGold,
		URL:         url,
	}
	if imageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
	}
	return embed
}

// TournamentDays renders 1–2 tournament dates as "5 y 6 de julio".
func TournamentDays(days []time.Time) string {
	nums := make([]string, len(days))
	for i, d := range days {
		nums[i] = fmt.Sprintf("%d", d.Day())
	}
	return fmt.Sprintf("%s de %s", strings.Join(nums, " y "), spanish.Month(days[0].Month()))
}

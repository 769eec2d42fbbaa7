package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/reminder"
	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/spanish"
)

// Command prefixes. Patch and Clash commands have their own prefix so
// the two command families can share short names like "calendario".
const (
	prefixGlobal = "!"
	prefixPatch  = "p!"
	prefixClash  = "c!"
)

const (
	colorBlue       = 0x3498DB
	colorTeal       = 0x1ABC9C
	colorPurple     = 0x9B59B6
	colorRed        = 0xE74C3C
	colorLightGrey  = 0x979C9F
	colorDarkPurple = 0x71368A
	colorDarkGreen  = 0x1F8B4C
	colorDarkRed    = 0x992D22
)

// splitCommand separates "ver Ahri" into command "ver" and argument
// "Ahri". The command is lowercased, the argument is kept as typed.
func splitCommand(s string) (cmd, arg string) {
	parts := strings.SplitN(strings.TrimSpace(s), " ", 2)
	cmd = strings.ToLower(parts[0])
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}

// handleMessage routes prefix commands. Command handlers only read the
// calendar store and the scraper; they never touch the reminder ledger.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	content := m.Content
	switch {
	case strings.HasPrefix(content, prefixPatch):
		cmd, arg := splitCommand(content[len(prefixPatch):])
		b.dispatchPatch(s, m, cmd, arg)
	case strings.HasPrefix(content, prefixClash):
		cmd, _ := splitCommand(content[len(prefixClash):])
		b.dispatchClash(s, m, cmd)
	case strings.HasPrefix(content, prefixGlobal):
		cmd, _ := splitCommand(content[len(prefixGlobal):])
		if cmd == "ayuda" {
			b.handleHelp(s, m)
		}
	}
}

func (b *Bot) dispatchPatch(s *discordgo.Session, m *discordgo.MessageCreate, cmd, arg string) {
	switch cmd {
	case "parche":
		b.handleLatestPatch(s, m)
	case "campeones":
		b.handleChampions(s, m)
	case "ver":
		if arg == "" {
			b.sendText(s, m, "Debes especificar un campeón. Ej: `p!ver Ahri`")
			return
		}
		b.handleChampionDetail(s, m, arg)
	case "objetos":
		b.handleSection(s, m, "patch-items", "Objetos", colorRed)
	case "runas":
		b.handleSection(s, m, "patch-runes", "Runas", colorLightGrey)
	case "calendario":
		b.handlePatchCalendar(s, m)
	case "siguiente":
		b.handleNextPatch(s, m)
	default:
		b.sendText(s, m, fmt.Sprintf("Comando `p!%s` no reconocido. Usa `!ayuda` para ver los comandos.", cmd))
	}
}

func (b *Bot) dispatchClash(s *discordgo.Session, m *discordgo.MessageCreate, cmd string) {
	switch cmd {
	case "clash":
		b.handleNextClash(s, m)
	case "calendario":
		b.handleClashCalendar(s, m)
	case "horarios":
		b.handleClashSchedule(s, m)
	case "premios":
		b.handleClashPrizes(s, m)
	default:
		b.sendText(s, m, fmt.Sprintf("Comando `c!%s` no reconocido. Usa `!ayuda` para ver los comandos.", cmd))
	}
}

// --- Patch commands ---

func (b *Bot) handleLatestPatch(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	patch, err := b.patches.LatestPatch(ctx)
	if err != nil {
		slog.Warn("p!parche lookup failed", "error", err)
		b.sendText(s, m, "No se pudo obtener la información del parche en este momento.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Notas del Parche: %s", patch.Title),
		Description: publishedLine(patch.Published),
		Color:       colorBlue,
		URL:         patch.URL,
	}
	if imageURL, err := b.patches.SummaryImage(ctx, patch.URL); err == nil && imageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
	}
	b.sendEmbed(s, m, embed)
}

func (b *Bot) handleChampions(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	patch, err := b.patches.LatestPatch(ctx)
	if err != nil {
		slog.Warn("p!campeones lookup failed", "error", err)
		b.sendText(s, m, "Error: No se pudo encontrar el último parche.")
		return
	}

	champions, err := b.patches.ChampionList(ctx, patch.URL)
	if err != nil || len(champions) == 0 {
		b.sendText(s, m, "No se encontraron campeones en estas notas del parche.")
		return
	}

	b.sendEmbed(s, m, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Campeones en el Parche: %s", patch.Title),
		Description: "- " + strings.Join(champions, "\n- "),
		Color:       colorTeal,
	})
}

func (b *Bot) handleChampionDetail(s *discordgo.Session, m *discordgo.MessageCreate, championName string) {
	if !b.store.IsChampion(championName) {
		b.sendEmbed(s, m, &discordgo.MessageEmbed{
			Title: "❌ Error: Campeón no encontrado",
			Description: fmt.Sprintf(
				"No se encontró un campeón llamado **'%s'**.\n\nRevisa la ortografía o usa `p!campeones` para ver la lista.",
				championName),
			Color: colorRed,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	patch, err := b.patches.LatestPatch(ctx)
	if err != nil {
		slog.Warn("p!ver lookup failed", "error", err)
		b.sendText(s, m, "Error: No se pudo encontrar el último parche.")
		return
	}

	details, err := b.patches.ChampionDetails(ctx, patch.URL, championName)
	if err != nil {
		slog.Warn("p!ver scrape failed", "champion", championName, "error", err)
		b.sendText(s, m, "No se pudo obtener la información del parche en este momento.")
		return
	}
	if details == nil {
		b.sendEmbed(s, m, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("No se encontraron cambios para **%s** en las notas del parche actual.", championName),
			Color:       colorLightGrey,
		})
		return
	}

	main := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Cambios para %s (%s)", details.Name, patch.Title),
		Description: orDefault(details.Summary, "Sin resumen."),
		Color:       colorPurple,
	}
	if details.PortraitURL != "" {
		main.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: details.PortraitURL}
	}
	b.sendEmbed(s, m, main)

	for _, block := range details.Blocks {
		embed := &discordgo.MessageEmbed{
			Description: orDefault(strings.Join(block.Changes, "\n"), "Sin detalles específicos."),
			Color:       colorPurple,
			Author:      &discordgo.MessageEmbedAuthor{Name: block.Title, IconURL: block.IconURL},
		}
		b.sendEmbed(s, m, embed)
	}
}

func (b *Bot) handleSection(s *discordgo.Session, m *discordgo.MessageCreate, sectionID, label string, color int) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	patch, err := b.patches.LatestPatch(ctx)
	if err != nil {
		slog.Warn("Section lookup failed", "section", sectionID, "error", err)
		b.sendText(s, m, "Error: No se pudo encontrar el último parche.")
		return
	}

	blocks, err := b.patches.SectionDetails(ctx, patch.URL, sectionID)
	if err != nil {
		slog.Warn("Section scrape failed", "section", sectionID, "error", err)
		b.sendText(s, m, "No se pudo obtener la información del parche en este momento.")
		return
	}
	if len(blocks) == 0 {
		b.sendEmbed(s, m, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("No hay cambios a %s en el parche **%s**.", strings.ToLower(label), patch.Title),
			Color:       color,
		})
		return
	}

	b.sendEmbed(s, m, &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Cambios a %s (%s)", label, patch.Title),
		Color: color,
	})

	for _, block := range blocks {
		description := orDefault(block.Summary, "Sin resumen.")
		if len(block.Changes) > 0 {
			description += fmt.Sprintf("\n\n**Cambios:**\n%s", strings.Join(block.Changes, "\n"))
		}
		embed := &discordgo.MessageEmbed{
			Title:       block.Title,
			Description: description,
			Color:       color,
		}
		if block.IconURL != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: block.IconURL}
		}
		b.sendEmbed(s, m, embed)
	}
}

func (b *Bot) handlePatchCalendar(s *discordgo.Session, m *discordgo.MessageCreate) {
	now := b.now()
	future := b.store.FuturePatches(now)
	if len(future) == 0 {
		b.sendText(s, m, "No hay más parches programados en el calendario.")
		return
	}

	lines := make([]string, 0, len(future))
	for i, date := range future {
		if i == 0 {
			// The queues come back with the patch around 03:00.
			live := time.Date(date.Year(), date.Month(), date.Day(), 3, 0, 0, 0, date.Location())
			lines = append(lines, fmt.Sprintf("• **%s** (Faltan: %s)", spanish.LongDate(date), spanish.Duration(live.Sub(now))))
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s", spanish.LongDate(date)))
	}

	b.sendEmbed(s, m, &discordgo.MessageEmbed{
		Title:       "🗓️ Calendario de Futuros Parches",
		Description: strings.Join(lines, "\n"),
		Color:       colorDarkPurple,
	})
}

func (b *Bot) handleNextPatch(s *discordgo.Session, m *discordgo.MessageCreate) {
	now := b.now()
	next, ok := b.store.NextPatch(now)
	if !ok {
		b.sendText(s, m, "No hay más parches programados en el calendario para este año.")
		return
	}

	live := time.Date(next.Year(), next.Month(), next.Day(), 3, 0, 0, 0, next.Location())
	b.sendEmbed(s, m, &discordgo.MessageEmbed{
		Title:       "📅 Próximo Parche de LoL",
		Description: fmt.Sprintf("La próxima actualización está programada para el **%s**.", spanish.LongDate(next)),
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Tiempo Restante", Value: spanish.Duration(live.Sub(now))},
		},
	})
}

// --- Clash commands ---

func (b *Bot) handleNextClash(s *discordgo.Session, m *discordgo.MessageCreate) {
	now := b.now()
	event, ok := b.store.NextEvent(now)
	if !ok {
		b.sendText(s, m, "No hay más torneos de Clash programados.")
		return
	}

	description := fmt.Sprintf(
		"Corresponde a la versión %s.\n\n"+
			"**Inicio de Formación de Equipos:** %s\n"+
			"**Días del Torneo:** %s de %d\n\n"+
			"**Tiempo para Formar Equipo:** %s",
		event.Version,
		spanish.DayMonth(event.TeamFormationStart),
		reminder.TournamentDays(event.TournamentDays),
		event.TournamentDays[0].Year(),
		spanish.Duration(event.TeamFormationStart.Sub(now)),
	)

	b.sendEmbed(s, m, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🏆 Próximo Clash: %s", event.Name),
		Description: description,
		Color:       colorRed,
	})
}

func (b *Bot) handleClashCalendar(s *discordgo.Session, m *discordgo.MessageCreate) {
	future := b.store.FutureEvents(b.now())
	if len(future) == 0 {
		b.sendText(s, m, "No hay más torneos de Clash programados.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "⚔️ Calendario de Futuros Torneos de Clash",
		Color: colorDarkRed,
	}
	for _, event := range future {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s (Versión %s)", event.Name, event.Version),
			Value: fmt.Sprintf("Torneo: **%s de %d**.",
				reminder.TournamentDays(event.TournamentDays),
				event.TournamentDays[0].Year()),
		})
	}
	b.sendEmbed(s, m, embed)
}

func (b *Bot) handleClashSchedule(s *discordgo.Session, m *discordgo.MessageCreate) {
	schedule := b.store.Info.Schedule
	if len(schedule.Tiers) == 0 {
		b.sendText(s, m, "No se encontró la información de horarios de Clash.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: orDefault(schedule.Title, "Horarios de Clash"),
		Color: colorLightGrey,
	}
	for _, tier := range schedule.Tiers {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  tier.Name,
			Value: tier.Hours,
		})
	}
	b.sendEmbed(s, m, embed)
}

func (b *Bot) handleClashPrizes(s *discordgo.Session, m *discordgo.MessageCreate) {
	prizes := b.store.Info.Prizes
	if len(prizes.List) == 0 {
		b.sendText(s, m, "No se encontró la información de premios de Clash.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       orDefault(prizes.Title, "Premios de Clash"),
		Description: prizes.Description,
		Color:       reminder.ColorGold,
	}
	for _, prize := range prizes.List {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  prize.Place,
			Value: prize.Reward,
		})
	}
	b.sendEmbed(s, m, embed)
}

// --- Help ---

func (b *Bot) handleHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	patchCommands := "`p!parche` - Información del último **parche**.\n" +
		"`p!campeones` - Lista de **campeones** con cambios.\n" +
		"`p!ver <campeón>` - Cambios detallados del **campeón**.\n" +
		"`p!objetos` - Cambios a **objetos**.\n" +
		"`p!runas` - Cambios a **runas**.\n" +
		"`p!siguiente` - Muestra el **siguiente parche** programado.\n" +
		"`p!calendario` - Visualiza el **calendario de parches** futuros."

	clashCommands := "`c!clash` - Próximo **Clash**.\n" +
		"`c!calendario` - **Calendario** de Clash futuros.\n" +
		"`c!horarios` - **Horarios** fase de confirmación.\n" +
		"`c!premios` - Despliega los **premios**."

	b.sendEmbed(s, m, &discordgo.MessageEmbed{
		Title:       "Ayuda - El Rincón del Poro",
		Description: "Comandos disponibles:",
		Color:       colorDarkGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "--- 📜 Comandos de Parche ---", Value: patchCommands},
			{Name: "--- 🏆 Comandos de Clash ---", Value: clashCommands},
		},
	})
}

// --- Helpers ---

func (b *Bot) sendText(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
		slog.Error("Failed to send message", "channel", m.ChannelID, "error", err)
	}
}

func (b *Bot) sendEmbed(s *discordgo.Session, m *discordgo.MessageCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		slog.Error("Failed to send embed", "channel", m.ChannelID, "error", err)
	}
}

func publishedLine(published time.Time) string {
	if published.IsZero() {
		return "Anunciadas recientemente."
	}
	return fmt.Sprintf("Anunciadas el %s.", published.Format("02/01/2006"))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

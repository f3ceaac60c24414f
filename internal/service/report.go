package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/pitch"
)

const BuiltinSource = "builtin"

const systemPrompt = "Tu es un expert en analyse énergétique et développement personnel, " +
	"spécialisé dans l'analyse des fréquences vocales et leur impact sur l'équilibre global. " +
	"Tu fournis des recommandations précises et personnalisées. " +
	"Réponds avec un résumé et des sections numérotées dont les éléments sont des phrases courtes."

// TimeOfDay names the part of the day of t: matin before noon, après-midi
// before 18h, soir otherwise.
func TimeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "matin"
	case h < 18:
		return "après-midi"
	default:
		return "soir"
	}
}

var reportSectionTitles = []string{
	"Analyse de l'état actuel et de la signature vocale",
	"Programme d'exercices et d'activités",
	"Recommandations par sphère de vie",
	"Points de vigilance",
	"Suivi et ajustements",
}

func formatFrequency(f *float64) string {
	if f == nil {
		return "non mesurée"
	}
	return fmt.Sprintf("%.1f Hz", *f)
}

func formatDominantNotes(counts map[string]int) string {
	top := pitch.TopNotes(counts, len(counts))
	if len(top) == 0 {
		return "aucune"
	}
	parts := make([]string, len(top))
	for i, n := range top {
		parts[i] = fmt.Sprintf("%s (%d fois)", n.Note, n.Count)
	}
	return strings.Join(parts, ", ")
}

func formatAnswers(answers map[string]string) string {
	if len(answers) == 0 {
		return "non renseigné"
	}
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + answers[k]
	}
	return strings.Join(parts, ", ")
}

type sphere struct {
	label   string
	answers map[string]string
}

func spheresOf(ls internal.LifeSpheres) []sphere {
	return []sphere{
		{"Santé", ls.Health},
		{"Carrière", ls.Career},
		{"Finances", ls.Financial},
		{"Relations", ls.Relationships},
	}
}

// BuildPrompt composes the system and user prompts for an analysis taken at
// local time t.
func BuildPrompt(a *internal.Analysis, t time.Time) (string, string) {
	st := a.UserState
	var b strings.Builder
	b.WriteString("En tant qu'expert en analyse énergétique et développement personnel, ")
	b.WriteString("génère un programme personnalisé pour la journée basé sur les données suivantes :\n\n")

	b.WriteString("Données vocales :\n")
	fmt.Fprintf(&b, "- Fréquence dominante : %s\n", formatFrequency(a.CurrentFrequency))
	fmt.Fprintf(&b, "- Notes dominantes : %s\n\n", formatDominantNotes(a.DominantNotes))

	b.WriteString("État actuel :\n")
	fmt.Fprintf(&b, "- État physique : %d/10\n", st.PhysicalState)
	fmt.Fprintf(&b, "- État mental : %d/10\n", st.MentalState)
	fmt.Fprintf(&b, "- Niveau de stress : %d/10\n", st.StressLevel)
	fmt.Fprintf(&b, "- Qualité du sommeil : %d/10\n\n", st.SleepQuality)

	b.WriteString("Sphères de vie :\n")
	for _, s := range spheresOf(st.LifeSpheres) {
		fmt.Fprintf(&b, "%s : %s\n", s.label, formatAnswers(s.answers))
	}
	fmt.Fprintf(&b, "\nNotes supplémentaires : %s\n\n", st.Notes)

	fmt.Fprintf(&b, "Génère un programme détaillé pour ce %s incluant :\n", TimeOfDay(t))
	for i, title := range reportSectionTitles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}
	return systemPrompt, b.String()
}

// BuiltinReport derives a report from the analysis data alone. It is used
// when no completion endpoint is configured.
func BuiltinReport(a *internal.Analysis, t time.Time) *internal.AIReport {
	st := a.UserState
	dominant := pitch.DominantNote(a.DominantNotes)

	var state []string
	if a.CurrentFrequency != nil {
		if band, ok := pitch.BandFor(*a.CurrentFrequency); ok {
			state = append(state, fmt.Sprintf("Votre voix se situe dans le %s (%.0f–%.0f Hz).", strings.ToLower(band.Name), band.MinHz, band.MaxHz))
			state = append(state, "Effets associés : "+strings.Join(band.Effects.Emotional, ", ")+".")
		} else {
			state = append(state, fmt.Sprintf("Fréquence dominante mesurée : %s.", formatFrequency(a.CurrentFrequency)))
		}
	}
	if dominant != "" {
		state = append(state, fmt.Sprintf("Note dominante : %s.", dominant))
	}
	avg := float64(st.PhysicalState+st.MentalState+st.SleepQuality+(11-st.StressLevel)) / 4
	state = append(state, fmt.Sprintf("Équilibre global estimé à %.1f/10.", avg))

	moment := TimeOfDay(t)
	program := []string{}
	switch moment {
	case "matin":
		program = append(program, "Échauffement vocal de 5 minutes sur des sons graves.", "Respiration abdominale : 10 cycles lents.")
	case "après-midi":
		program = append(program, "Pause sonore de 3 minutes en fredonnant votre note dominante.", "Marche de 10 minutes en respirant par le nez.")
	default:
		program = append(program, "Sons doux et descendants pendant 5 minutes.", "Cohérence cardiaque : 5 minutes avant le coucher.")
	}
	if st.StressLevel >= 7 {
		program = append(program, "Expiration prolongée sur le son « ou » pour relâcher les tensions.")
	}
	if st.PhysicalState <= 4 {
		program = append(program, "Privilégiez des exercices assis et de faible intensité.")
	}

	spheres := []string{}
	for _, s := range spheresOf(st.LifeSpheres) {
		if len(s.answers) == 0 {
			continue
		}
		spheres = append(spheres, fmt.Sprintf("%s : prenez un moment pour revenir sur « %s ».", s.label, formatAnswers(s.answers)))
	}
	if len(spheres) == 0 {
		spheres = append(spheres, "Complétez le questionnaire des sphères de vie pour des recommandations ciblées.")
	}

	vigilance := []string{}
	if st.StressLevel >= 7 {
		vigilance = append(vigilance, "Niveau de stress élevé : surveillez les tensions dans la gorge et les épaules.")
	}
	if st.SleepQuality <= 4 {
		vigilance = append(vigilance, "Sommeil insuffisant : évitez de forcer la voix aujourd'hui.")
	}
	if st.MentalState <= 4 {
		vigilance = append(vigilance, "Moral bas : accordez-vous des pauses et des sons apaisants.")
	}
	if len(vigilance) == 0 {
		vigilance = append(vigilance, "Aucun signal d'alerte particulier.")
	}

	followUp := []string{
		"Refaites une analyse vocale dans quelques jours pour comparer votre note dominante.",
		"Notez votre état émotionnel dans le journal chaque jour.",
	}

	summary := fmt.Sprintf("Programme du %s", moment)
	if dominant != "" {
		summary += fmt.Sprintf(" centré sur votre note dominante %s", dominant)
	}
	summary += fmt.Sprintf(", équilibre estimé à %.1f/10.", avg)

	items := [][]string{state, program, spheres, vigilance, followUp}
	sections := make([]internal.ReportSection, len(reportSectionTitles))
	for i, title := range reportSectionTitles {
		sections[i] = internal.ReportSection{Title: title, Items: items[i]}
	}
	return &internal.AIReport{Summary: summary, Sections: sections, Source: BuiltinSource}
}

// RenderReport is the downloadable plain-text version of an analysis.
func RenderReport(a *internal.Analysis, loc *time.Location) string {
	st := a.UserState
	var b strings.Builder
	b.WriteString("RAPPORT D'ANALYSE VOCALE\n")
	fmt.Fprintf(&b, "Date : %s\n\n", a.CreatedAt.In(loc).Format("02/01/2006 15:04"))

	b.WriteString("ANALYSE VOCALE\n")
	fmt.Fprintf(&b, "Fréquence dominante : %s\n", formatFrequency(a.CurrentFrequency))
	fmt.Fprintf(&b, "Notes dominantes : %s\n", formatDominantNotes(a.DominantNotes))
	fmt.Fprintf(&b, "Notes détectées : %d\n\n", len(a.Notes))

	b.WriteString("ÉTAT ACTUEL\n")
	fmt.Fprintf(&b, "État physique : %d/10\n", st.PhysicalState)
	fmt.Fprintf(&b, "État mental : %d/10\n", st.MentalState)
	fmt.Fprintf(&b, "Niveau de stress : %d/10\n", st.StressLevel)
	fmt.Fprintf(&b, "Qualité du sommeil : %d/10\n\n", st.SleepQuality)

	b.WriteString("SPHÈRES DE VIE\n")
	for _, s := range spheresOf(st.LifeSpheres) {
		fmt.Fprintf(&b, "%s : %s\n", s.label, formatAnswers(s.answers))
	}
	b.WriteString("\n")

	if st.Notes != "" {
		b.WriteString("NOTES\n")
		b.WriteString(st.Notes)
		b.WriteString("\n\n")
	}

	if a.Report != nil {
		b.WriteString("ANALYSE IA\n")
		if a.Report.Summary != "" {
			b.WriteString(a.Report.Summary)
			b.WriteString("\n")
		}
		for i, sec := range a.Report.Sections {
			fmt.Fprintf(&b, "\n%d. %s\n", i+1, sec.Title)
			for _, it := range sec.Items {
				fmt.Fprintf(&b, "  - %s\n", it)
			}
		}
	}
	return b.String()
}

package menu

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/insumos/internal/calculator"
	"github.com/mmynk/insumos/internal/models"
)

// Palette shared with the other terminal tools of the team.
var (
	colorTeal    = lipgloss.Color("#20B9B4")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#2C4A54")
)

type paint func(strs ...string) string

type styles struct {
	title   paint
	success paint
	warning paint
	err     paint
	muted   paint
}

func newStyles(w io.Writer, plain bool) styles {
	if plain {
		identity := func(strs ...string) string { return strings.Join(strs, " ") }
		return styles{title: identity, success: identity, warning: identity, err: identity, muted: identity}
	}

	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(colorTeal).Render,
		success: r.NewStyle().Foreground(colorSuccess).Render,
		warning: r.NewStyle().Foreground(colorWarning).Render,
		err:     r.NewStyle().Foreground(colorError).Render,
		muted:   r.NewStyle().Foreground(colorMuted).Render,
	}
}

const (
	listRule   = "------------------------------"
	reportRule = "----------------------------------------"
)

func renderList(w io.Writer, st styles, items []models.NamedSupply) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.title("Lista de Insumos:"))
	fmt.Fprintln(w, st.muted(listRule))
	if len(items) == 0 {
		fmt.Fprintln(w, "Nenhum insumo cadastrado.")
	}
	for _, item := range items {
		fmt.Fprintf(w, "%s: %d unidades a R$%s cada\n",
			capitalize(item.Name), item.Quantity, item.UnitPrice.StringFixed(2))
	}
	fmt.Fprintln(w, st.muted(listRule))
}

// RenderReport prints a monthly usage report. plain disables styling.
func RenderReport(w io.Writer, report []models.MonthlyTotal, plain bool) {
	renderReport(w, newStyles(w, plain), report)
}

func renderReport(w io.Writer, st styles, report []models.MonthlyTotal) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.title("Relatório de Uso de Insumos por Mês:"))
	fmt.Fprintln(w, st.muted(reportRule))
	if len(report) == 0 {
		fmt.Fprintln(w, "Nenhum uso registrado.")
	}
	for _, m := range report {
		fmt.Fprintf(w, "Mês: %s, Total de Insumos Usados: %d unidades\n", m.Month, m.Quantity)
	}
	if len(report) > 0 {
		fmt.Fprintf(w, "Total geral: %d unidades\n", calculator.ReportTotal(report))
	}
	fmt.Fprintln(w, st.muted(reportRule))
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

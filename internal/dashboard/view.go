package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"buybackScope/internal/format"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Margin(1, 0, 0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Margin(0, 1).
			Width(30)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	cardValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	cardSubStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Margin(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Margin(1, 1)
)

// View renders the stat-card grid. It never renders a blank screen: Loading
// shows a spinner line, and any later state renders the last known (or
// placeholder) snapshot, with a banner when the data is stale.
func (m Model) View() string {
	if m.phase == phaseLoading {
		return titleStyle.Render("buyback dashboard") +
			"\n\n  " + m.spinner.View() + "reading chain telemetry...\n"
	}
	if m.data == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("buyback dashboard"))
	b.WriteString("\n")

	symbol := "TOKEN"
	if m.data.Token != nil {
		symbol = m.data.Token.Symbol
		b.WriteString(cardSubStyle.Margin(0, 1).Render(
			fmt.Sprintf("%s (%s)  robot %s", m.data.Token.Name, symbol, m.data.Robot.Address)))
	} else {
		b.WriteString(cardSubStyle.Margin(0, 1).Render(
			fmt.Sprintf("no token bound yet  robot %s", m.data.Robot.Address)))
	}
	b.WriteString("\n")

	if m.phase == phaseDegraded && m.errMsg != "" {
		b.WriteString(bannerStyle.Render("! showing last known data: " + m.errMsg))
		b.WriteString("\n")
	}

	countdown := "buyback ready"
	countdownSub := "conditions met"
	if m.remaining > 0 {
		countdown = format.Duration(m.remaining)
		countdownSub = "until next buyback"
	}

	priceValue := "—"
	priceSub := "no price data"
	if m.price != nil {
		priceValue = fmt.Sprintf("%.6f USD", parseFloat(m.price.Price.TokenPriceUsd))
		priceSub = "from pool reserves + feed"
	} else if m.priceErr != "" {
		priceSub = m.priceErr
	}

	burned := "—"
	marketCap := "—"
	if m.data.Token != nil {
		burned = m.data.Robot.TotalBurnedFormatted + " " + symbol
		if m.price != nil {
			cap := parseFloat(m.data.Token.TotalSupplyFormatted) * parseFloat(m.price.Price.TokenPriceUsd)
			marketCap = fmt.Sprintf("%.2f USD", cap)
		}
	}

	cards := []string{
		card("countdown", countdown, countdownSub),
		card("buybacks", m.data.Robot.BuybackCount, "completed so far"),
		card("native reserve", m.data.Robot.NativeReserveFormatted, "held for buybacks"),
		card("price", priceValue, priceSub),
		card("total burned", burned, "cumulative"),
		card("base spent", m.data.Robot.TotalBaseUsedFormatted, "cumulative buyback spend"),
		card("market cap", marketCap, "supply x price"),
	}

	perRow := 3
	if m.width > 0 && m.width < 96 {
		perRow = 2
	}
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
		b.WriteString("\n")
	}

	footer := "q quit"
	if !m.updatedAt.IsZero() {
		footer = "updated " + m.updatedAt.Format("15:04:05") + "  -  " + footer
	}
	b.WriteString(footerStyle.Render(footer))
	b.WriteString("\n")

	return b.String()
}

func card(title, value, sub string) string {
	return cardStyle.Render(
		cardTitleStyle.Render(title) + "\n" +
			cardValueStyle.Render(value) + "\n" +
			cardSubStyle.Render(sub))
}

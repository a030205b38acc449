// Package dashboard is the terminal client for the buyback telemetry server.
// All display state lives in one bubbletea model, so the poll-result merge
// and the countdown tick flow through a single serialized update path and
// can never race.
package dashboard

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"buybackScope/internal/model"
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

// Fetcher is the API capability the model polls.
type Fetcher interface {
	FetchRobot(ctx context.Context) (*model.RobotResponse, error)
	FetchPrice(ctx context.Context, token string) (*model.PriceResponse, error)
}

type phase int

const (
	phaseLoading phase = iota
	phaseReady
	phaseDegraded
)

// Messages driving the model.

type tickMsg time.Time

type pollDueMsg time.Time

type robotMsg struct {
	resp *model.RobotResponse
}

type robotErrMsg struct {
	err error
}

type priceMsg struct {
	resp *model.PriceResponse
}

type priceErrMsg struct {
	err error
}

// Model is the dashboard state machine: Loading until the first poll
// resolves, then Ready, degrading to stale-data-plus-banner when a poll
// fails and recovering on the next success.
type Model struct {
	api          Fetcher
	pollInterval time.Duration
	robotAddr    string

	phase     phase
	data      *model.RobotResponse
	price     *model.PriceResponse
	errMsg    string
	priceErr  string
	remaining int64
	updatedAt time.Time

	// pollInFlight serializes polls: a timer firing while a poll (and its
	// dependent price fetch) is still outstanding is skipped.
	pollInFlight bool

	spinner spinner.Model
	width   int
}

// New creates the dashboard model. robotAddr is only used to label the
// placeholder shown when the very first poll fails.
func New(api Fetcher, pollInterval time.Duration, robotAddr string) Model {
	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	return Model{
		api:          api,
		pollInterval: pollInterval,
		robotAddr:    robotAddr,
		phase:        phaseLoading,
		spinner:      sp,
		// Init issues the first poll unconditionally, so it counts as in
		// flight from the start. A timer firing before its result lands
		// must be skipped like any other overlap.
		pollInFlight: true,
	}
}

// Init fires the first poll immediately and starts both timers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pollCmd(), m.tickTimer(), m.pollTimer(), m.spinner.Tick)
}

// Update handles all state transitions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		// The ticker only touches the countdown, nothing else.
		m.remaining = Tick(m.remaining)
		return m, m.tickTimer()

	case spinner.TickMsg:
		if m.phase != phaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pollDueMsg:
		if m.pollInFlight {
			return m, m.pollTimer()
		}
		m.pollInFlight = true
		return m, tea.Batch(m.pollCmd(), m.pollTimer())

	case robotMsg:
		m.phase = phaseReady
		m.errMsg = ""
		m.data = msg.resp
		m.updatedAt = time.UnixMilli(msg.resp.ServerTimeMs)
		m.remaining = Reconcile(m.remaining, parseInt(msg.resp.Robot.NextBuybackIn))

		if msg.resp.Token != nil && msg.resp.Token.Address != zeroAddress {
			return m, m.priceCmd(msg.resp.Token.Address)
		}
		m.price = nil
		m.priceErr = ""
		m.pollInFlight = false
		return m, nil

	case robotErrMsg:
		m.pollInFlight = false
		m.errMsg = msg.err.Error()
		m.phase = phaseDegraded
		if m.data == nil {
			// First poll failed: give the view a defined zero shape.
			m.data = placeholder(m.robotAddr)
		}
		return m, nil

	case priceMsg:
		// Price is independently optional; its success never changes phase.
		m.pollInFlight = false
		m.price = msg.resp
		m.priceErr = ""
		return m, nil

	case priceErrMsg:
		m.pollInFlight = false
		m.price = nil
		m.priceErr = msg.err.Error()
		return m, nil
	}

	return m, nil
}

func (m Model) tickTimer() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) pollTimer() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return pollDueMsg(t)
	})
}

func (m Model) pollCmd() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		resp, err := api.FetchRobot(context.Background())
		if err != nil {
			return robotErrMsg{err: err}
		}
		return robotMsg{resp: resp}
	}
}

func (m Model) priceCmd(token string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		resp, err := api.FetchPrice(context.Background(), token)
		if err != nil {
			return priceErrMsg{err: err}
		}
		return priceMsg{resp: resp}
	}
}

// placeholder is the zero-valued snapshot shown when no poll ever succeeded.
func placeholder(robotAddr string) *model.RobotResponse {
	if robotAddr == "" {
		robotAddr = zeroAddress
	}
	return &model.RobotResponse{
		OK: true,
		Robot: model.RobotView{
			Address:                robotAddr,
			Token:                  zeroAddress,
			BuybackCount:           "0",
			TotalBurned:            "0",
			TotalBurnedFormatted:   "0",
			LastBuyback:            "0",
			Interval:               "0",
			BuyPercent:             "0",
			NextBuybackIn:          "0",
			Reserve:                "0",
			ReserveFormatted:       "0",
			NativeReserve:          "0",
			NativeReserveFormatted: "0",
			TotalBaseUsed:          "0",
			TotalBaseUsedFormatted: "0",
		},
		ServerTimeMs: time.Now().UnixMilli(),
	}
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

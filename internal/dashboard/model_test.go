package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"buybackScope/internal/model"
)

type fakeFetcher struct {
	robot    *model.RobotResponse
	robotErr error
	price    *model.PriceResponse
	priceErr error
}

func (f *fakeFetcher) FetchRobot(context.Context) (*model.RobotResponse, error) {
	return f.robot, f.robotErr
}

func (f *fakeFetcher) FetchPrice(context.Context, string) (*model.PriceResponse, error) {
	return f.price, f.priceErr
}

type countingFetcher struct {
	fakeFetcher
	robotCalls int
}

func (f *countingFetcher) FetchRobot(ctx context.Context) (*model.RobotResponse, error) {
	f.robotCalls++
	return f.fakeFetcher.FetchRobot(ctx)
}

// drain runs a command tree to completion, discarding the resulting
// messages. Timer commands block until they fire.
func drain(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(c)
		}
	}
}

func robotResponse(token *model.RobotTokenView, nextIn string) *model.RobotResponse {
	return &model.RobotResponse{
		OK:      true,
		ChainID: 56,
		Robot: model.RobotView{
			Address:       "0x00000000000000000000000000000000000000aa",
			Token:         zeroAddress,
			NextBuybackIn: nextIn,
			BuybackCount:  "3",
		},
		Token:        token,
		ServerTimeMs: time.Now().UnixMilli(),
	}
}

func update(t *testing.T, m Model, msg interface{}) Model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got
}

func TestFirstPollFailureShowsPlaceholder(t *testing.T) {
	m := New(&fakeFetcher{}, time.Second, "0x00000000000000000000000000000000000000aa")

	m = update(t, m, robotErrMsg{err: errors.New("connection refused")})

	if m.phase != phaseDegraded {
		t.Fatalf("phase = %d, want degraded", m.phase)
	}
	if m.data == nil {
		t.Fatal("expected placeholder snapshot, got nil")
	}
	if m.data.Robot.BuybackCount != "0" {
		t.Fatalf("placeholder buyback count = %q, want 0", m.data.Robot.BuybackCount)
	}
	if m.errMsg != "connection refused" {
		t.Fatalf("errMsg = %q", m.errMsg)
	}
}

func TestLaterPollFailureKeepsLastGoodData(t *testing.T) {
	m := New(&fakeFetcher{}, time.Second, "")

	m = update(t, m, robotMsg{resp: robotResponse(nil, "100")})
	if m.phase != phaseReady {
		t.Fatalf("phase = %d, want ready", m.phase)
	}

	m = update(t, m, robotErrMsg{err: errors.New("timeout")})
	if m.phase != phaseDegraded {
		t.Fatalf("phase = %d, want degraded", m.phase)
	}
	if m.data == nil || m.data.Robot.BuybackCount != "3" {
		t.Fatal("expected last good snapshot to survive the failed poll")
	}

	// Degraded is never terminal: the next success recovers.
	m = update(t, m, robotMsg{resp: robotResponse(nil, "90")})
	if m.phase != phaseReady || m.errMsg != "" {
		t.Fatalf("phase = %d errMsg = %q, want ready recovery", m.phase, m.errMsg)
	}
}

func TestUnboundTokenSkipsPriceFetch(t *testing.T) {
	m := New(&fakeFetcher{}, time.Second, "")
	m.price = &model.PriceResponse{OK: true}

	next, cmd := m.Update(robotMsg{resp: robotResponse(nil, "10")})
	m = next.(Model)

	if cmd != nil {
		t.Fatal("expected no dependent price fetch for unbound token")
	}
	if m.price != nil {
		t.Fatal("expected stale price data to be cleared")
	}
	if m.pollInFlight {
		t.Fatal("poll should be finished")
	}
}

func TestBoundTokenIssuesPriceFetch(t *testing.T) {
	m := New(&fakeFetcher{}, time.Second, "")
	token := &model.RobotTokenView{Address: "0x00000000000000000000000000000000000000bb", Symbol: "TKN"}

	_, cmd := m.Update(robotMsg{resp: robotResponse(token, "10")})
	if cmd == nil {
		t.Fatal("expected a dependent price fetch command")
	}
}

func TestPriceFailureDoesNotDegrade(t *testing.T) {
	m := New(&fakeFetcher{}, time.Second, "")
	token := &model.RobotTokenView{Address: "0x00000000000000000000000000000000000000bb"}
	m = update(t, m, robotMsg{resp: robotResponse(token, "10")})

	m = update(t, m, priceErrMsg{err: errors.New("pair not found")})

	if m.phase != phaseReady {
		t.Fatalf("phase = %d, want ready: price is independently optional", m.phase)
	}
	if m.priceErr == "" {
		t.Fatal("expected price error to be retained for display")
	}
}

func TestPollSerialization(t *testing.T) {
	m := New(&fakeFetcher{}, time.Second, "")

	// The initial poll resolves, then the timer starts the next one.
	m = update(t, m, robotMsg{resp: robotResponse(nil, "10")})
	if m.pollInFlight {
		t.Fatal("poll should be finished after its result is applied")
	}
	m = update(t, m, pollDueMsg(time.Now()))
	if !m.pollInFlight {
		t.Fatal("expected poll to be marked in flight")
	}

	// A second timer firing while the poll is outstanding is skipped.
	next, cmd := m.Update(pollDueMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected the poll timer to be rescheduled")
	}
	if !m.pollInFlight {
		t.Fatal("in-flight poll must not be cleared by a skipped firing")
	}
}

func TestFirstPollIsSerialized(t *testing.T) {
	api := &countingFetcher{}
	api.robot = robotResponse(nil, "10")
	m := New(api, time.Millisecond, "")

	if !m.pollInFlight {
		t.Fatal("initial poll must be marked in flight before its result lands")
	}

	drain(m.Init())
	if api.robotCalls != 1 {
		t.Fatalf("FetchRobot called %d times by startup, want 1", api.robotCalls)
	}

	// The timer fires before the initial poll's result is applied. It must
	// be skipped, not start a second concurrent poll.
	next, cmd := m.Update(pollDueMsg(time.Now()))
	m = next.(Model)
	drain(cmd)
	if api.robotCalls != 1 {
		t.Fatalf("FetchRobot called %d times with the first result unapplied, want 1", api.robotCalls)
	}

	m = update(t, m, robotMsg{resp: api.robot})
	if m.pollInFlight {
		t.Fatal("poll should be finished after the result is applied")
	}
}

func TestTickOnlyTouchesCountdown(t *testing.T) {
	m := New(&fakeFetcher{}, time.Second, "")
	m = update(t, m, robotMsg{resp: robotResponse(nil, "100")})
	before := m.data

	m = update(t, m, tickMsg(time.Now()))

	if m.remaining != 99 {
		t.Fatalf("remaining = %d, want 99", m.remaining)
	}
	if m.data != before {
		t.Fatal("tick must not replace the snapshot")
	}
}

func TestCountdownReconciliationOnPoll(t *testing.T) {
	m := New(&fakeFetcher{}, time.Second, "")
	m = update(t, m, robotMsg{resp: robotResponse(nil, "100")})
	if m.remaining != 100 {
		t.Fatalf("remaining = %d, want 100", m.remaining)
	}

	for i := 0; i < 2; i++ {
		m = update(t, m, tickMsg(time.Now()))
	}

	// Stale server value must not push the countdown back up.
	m = update(t, m, robotMsg{resp: robotResponse(nil, "100")})
	if m.remaining != 98 {
		t.Fatalf("remaining = %d, want local 98 kept", m.remaining)
	}

	m = update(t, m, robotMsg{resp: robotResponse(nil, "42")})
	if m.remaining != 42 {
		t.Fatalf("remaining = %d, want 42", m.remaining)
	}
}

package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/PauperCube/internal/core"
	tea "github.com/charmbracelet/bubbletea"
)

// recentRunsShown is how many runs the Recent Runs item lists.
const recentRunsShown = 5

// CubeActions adapts the card-list service to menu commands. Each command
// runs on bubbletea's command goroutine and reports back with a message.
type CubeActions struct {
	Service *core.Service
}

// UpdateCardList rebuilds the Card List from the Change Log.
func (a *CubeActions) UpdateCardList() tea.Cmd {
	return func() tea.Msg {
		rec, err := a.Service.UpdateCardList(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DoneMsg(fmt.Sprintf("Card List updated: %d cards in %s", rec.Rows, rec.Duration().Round(time.Millisecond)))
	}
}

// SortCardList re-sorts the existing Card List.
func (a *CubeActions) SortCardList() tea.Cmd {
	return func() tea.Msg {
		rec, err := a.Service.SortCardList(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DoneMsg(fmt.Sprintf("Card List sorted: %d rows", rec.Rows))
	}
}

// RecentRuns lists the last few runs.
func (a *CubeActions) RecentRuns() tea.Cmd {
	return func() tea.Msg {
		runs, err := a.Service.RecentRuns(context.Background(), recentRunsShown)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if len(runs) == 0 {
			return InfoMsg("No runs yet.")
		}

		var b strings.Builder
		for _, run := range runs {
			result := "ok"
			if !run.Succeeded() {
				result = "failed " + run.Code
			}
			fmt.Fprintf(&b, "%s  %-6s  %4d rows  %s\n",
				run.StartedAt.Local().Format(time.DateTime), run.Action, run.Rows, result)
		}
		return InfoMsg(strings.TrimRight(b.String(), "\n"))
	}
}

// RunStatus reports whether a run is in progress.
func (a *CubeActions) RunStatus() tea.Cmd {
	return func() tea.Msg {
		st := a.Service.LimiterStatus()
		if !st.Busy {
			return InfoMsg("Idle.")
		}
		return InfoMsg(fmt.Sprintf("Running %s since %s", st.Action, st.Since.Local().Format(time.TimeOnly)))
	}
}

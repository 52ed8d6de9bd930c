package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/bft-labs/credrot/internal/adapters/fs"
	"github.com/bft-labs/credrot/pkg/credrot"
)

// status is the snapshot printed by `credrot status`.
type status struct {
	HostRunning bool       `json:"host_running"`
	Active      bool       `json:"active"`
	SessionID   string     `json:"session_id,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	Step        int        `json:"step,omitempty"`
	Total       int        `json:"total,omitempty"`
	Remaining   int        `json:"remaining,omitempty"`
	Invalid     int        `json:"invalid,omitempty"`
	Destination string     `json:"destination,omitempty"`
	StateDir    string     `json:"state_dir"`
}

func collectStatus(ctx context.Context, rotor *credrot.Rotor, stateDir string) status {
	st := status{StateDir: stateDir, HostRunning: hostRunning(stateDir)}

	session, ok := rotor.Session(ctx)
	if !ok {
		return st
	}
	st.Active = true
	st.SessionID = session.SessionID
	st.Step = session.Current
	st.Total = session.TotalValid
	st.Remaining = session.Remaining()
	st.Invalid = session.TotalInvalid
	st.Destination = session.Destination
	if !session.StartedAt.IsZero() {
		started := session.StartedAt
		st.StartedAt = &started
	}
	return st
}

// hostRunning probes the host lock.
func hostRunning(stateDir string) bool {
	_, held, _ := fs.RunningHost(stateDir)
	return held
}

func writeStatusJSON(w io.Writer, st status) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

func renderStatus(w io.Writer, st status) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendRow(table.Row{"Host", yesNo(st.HostRunning, "running", "not running")})
	t.AppendRow(table.Row{"State dir", st.StateDir})
	if !st.Active {
		t.AppendRow(table.Row{"Session", "none"})
		t.Render()
		return
	}

	t.AppendRow(table.Row{"Session", st.SessionID})
	if st.StartedAt != nil {
		t.AppendRow(table.Row{"Started", st.StartedAt.Local().Format(time.RFC3339)})
	}
	t.AppendRow(table.Row{"Next step", fmt.Sprintf("%d/%d", st.Step, st.Total)})
	t.AppendRow(table.Row{"Remaining", st.Remaining})
	t.AppendRow(table.Row{"Rejected at start", st.Invalid})
	if st.Destination != "" {
		t.AppendRow(table.Row{"Destination", st.Destination})
	}
	t.Render()
}

func renderBulkReport(w io.Writer, r credrot.BulkReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("apply " + r.Target)
	t.AppendHeader(table.Row{"Result", "Count"})
	t.AppendRow(table.Row{"success", r.Success})
	t.AppendRow(table.Row{"challenge", r.Challenge})
	t.AppendRow(table.Row{"failure", r.Failure})
	t.AppendFooter(table.Row{"total", r.Total()})
	t.Render()
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

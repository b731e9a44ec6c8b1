package core

// shell.go holds the two-state application shell.
//
//	Idle   --Load ok-------> Loaded
//	Idle   --Load failed---> Idle (with error)
//	Loaded --Unload--------> Idle
//
// Render is a pure function of the state; it is invoked fresh for every
// interaction.

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Shell runs the Import → Classify pipeline and renders views from a State.
type Shell struct {
	importer *Importer
	opts     RenderOptions
}

// NewShell creates a Shell with the given rendering constants.
func NewShell(importer *Importer, opts RenderOptions) *Shell {
	if importer == nil {
		importer = NewImporter()
	}
	return &Shell{importer: importer, opts: opts.withDefaults()}
}

// Options returns the rendering constants in effect.
func (sh *Shell) Options() RenderOptions {
	return sh.opts
}

// Load imports data and returns a Loaded state, or an Idle state carrying
// the failure. Failures are never retried.
func (sh *Shell) Load(ctx context.Context, fileName string, data []byte) State {
	table, err := sh.importer.Import(ctx, fileName, data)
	if err != nil {
		return Idle(err)
	}
	return State{
		Phase: PhaseLoaded,
		Upload: &Upload{
			ID:        uuid.New(),
			FileName:  fileName,
			Format:    table.Format,
			Size:      len(data),
			CreatedAt: time.Now(),
		},
		Table:   table,
		Numeric: NumericColumns(table),
	}
}

// Unload discards the table and returns to Idle.
func (sh *Shell) Unload(State) State {
	return Idle(nil)
}

// Render produces the view of the selected tab. An Idle state renders nothing.
func (sh *Shell) Render(s State, tab Tab) *View {
	if !s.Loaded() {
		return nil
	}
	switch tab {
	case TabAnalysis:
		return &View{Tab: TabAnalysis, Analysis: BuildAnalysis(s.Table, s.Numeric, sh.opts)}
	default:
		return &View{Tab: TabOverview, Overview: BuildOverview(s.Table, sh.opts)}
	}
}

// ParseTab maps a query value to a Tab; anything unknown selects Overview.
func ParseTab(s string) Tab {
	if Tab(strings.ToLower(strings.TrimSpace(s))) == TabAnalysis {
		return TabAnalysis
	}
	return TabOverview
}

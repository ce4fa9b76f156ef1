package services

import (
	"github.com/praekeltfoundation/contentrepo-go/modules/content/importexport"
)

// ImportCompletedEvent is published after an import transaction commits.
type ImportCompletedEvent struct {
	Kind    importexport.Kind
	Format  importexport.Format
	Summary importexport.Summary
}

// ImportFailedEvent is published after an import rolls back.
type ImportFailedEvent struct {
	Kind   importexport.Kind
	Format importexport.Format
	Error  string
	// Row is the 1-based source row the failure points at, 0 when the
	// failure is not tied to a row.
	Row int
}

// ExportCompletedEvent is published after an export has been rendered.
type ExportCompletedEvent struct {
	Kind   importexport.Kind
	Format importexport.Format
	Bytes  int
}

package alfredwf

import (
	"github.com/halfyak/alfred-workflows/internal/engine"
	"github.com/halfyak/alfred-workflows/internal/reconcile"
)

// Re-export result types for library consumers.
type (
	Outcome      = reconcile.Outcome
	Action       = reconcile.Action
	Plan         = engine.Plan
	StatusResult = engine.StatusResult
	RolePath     = engine.RolePath
	ImportResult = engine.ImportResult
	UpdateResult = engine.UpdateResult
)

// Actions a sync can take for one name.
const (
	None   = reconcile.None
	Copy   = reconcile.Copy
	Delete = reconcile.Delete
	Fail   = reconcile.Fail
)

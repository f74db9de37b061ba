package dto

type RunStatus string

const (
	StatusSuccess         RunStatus = "success"
	StatusModelLoadFailed RunStatus = "model_load_failed"
	StatusFolderNotFound  RunStatus = "folder_not_found"
	StatusCancelled       RunStatus = "cancelled"
)

// RunOutcome is what a pipeline run hands back to its caller.
type RunOutcome struct {
	RunID     string      `json:"run_id"`
	Status    RunStatus   `json:"status"`
	Message   string      `json:"message"`
	AlertSent bool        `json:"alert_sent"`
	Counters  RunCounters `json:"counters"`
}

func (o RunOutcome) Failed() bool {
	return o.Status == StatusFolderNotFound || o.Status == StatusModelLoadFailed
}

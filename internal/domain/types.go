package domain

// Stage names one step of the booking-payment workflow. Failures are tagged
// with the stage they happened in so the dashboard can word its error
// messaging per stage.
type Stage string

const (
	StageValidate Stage = "validate"
	StageReserve  Stage = "reserve"
	StageInitiate Stage = "initiate"
	StagePoll     Stage = "poll"
)

// RequestContext carries authenticated staff info when available.
type RequestContext struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

package domain

import "github.com/bwmarrin/snowflake"

// Sweep response caps. Counters always cover the full batch; only the
// per-item listings are truncated.
const (
	MaxSweepDetails = 50
	MaxSweepErrors  = 20

	DefaultSweepBatchSize = 100
	MaxSweepBatchSize     = 500
)

type SweepRequest struct {
	BatchSize   int  `json:"batch_size"`
	DryRun      bool `json:"dry_run"`
	ForceUpdate bool `json:"force_update"`
}

type SweepAction string

const (
	SweepActionUpdated SweepAction = "updated"
	SweepActionSkipped SweepAction = "skipped"
	SweepActionLinked  SweepAction = "linked"
)

type SweepDetail struct {
	StagingID  snowflake.ID  `json:"staging_id"`
	ExternalID string        `json:"external_id"`
	ChargeID   *snowflake.ID `json:"charge_id,omitempty"`
	Status     string        `json:"status"`
	Action     SweepAction   `json:"action"`
}

type SweepError struct {
	StagingID  snowflake.ID `json:"staging_id"`
	ExternalID string       `json:"external_id"`
	Error      string       `json:"error"`
}

type SweepResult struct {
	DryRun      bool `json:"dry_run"`
	ForceUpdate bool `json:"force_update"`

	Scanned  int `json:"scanned"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Unlinked int `json:"unlinked"`
	Failed   int `json:"failed"`

	Details []SweepDetail `json:"details,omitempty"`
	Errors  []SweepError  `json:"errors,omitempty"`

	DetailsTruncated bool `json:"details_truncated,omitempty"`
	ErrorsTruncated  bool `json:"errors_truncated,omitempty"`
}

// AddDetail appends a detail entry up to the response cap. Counters are
// maintained by the caller.
func (r *SweepResult) AddDetail(d SweepDetail) {
	if len(r.Details) >= MaxSweepDetails {
		r.DetailsTruncated = true
		return
	}
	r.Details = append(r.Details, d)
}

func (r *SweepResult) AddError(e SweepError) {
	if len(r.Errors) >= MaxSweepErrors {
		r.ErrorsTruncated = true
		return
	}
	r.Errors = append(r.Errors, e)
}

package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/validator"
)

func strPtr(s string) *string { return &s }

func TestCreateCorrectionRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       CreateCorrectionRequest
		wantField string
	}{
		{
			"clock correction",
			CreateCorrectionRequest{WorkDate: "2026-03-02", Kind: "clock", ProposedClockIn: strPtr("2026-03-02T09:00:00Z")},
			"",
		},
		{
			"break correction",
			CreateCorrectionRequest{WorkDate: "2026-03-02", Kind: "break", ProposedBreakEnd: strPtr("2026-03-02T10:30:00Z")},
			"",
		},
		{
			"bad work date",
			CreateCorrectionRequest{WorkDate: "yesterday", Kind: "clock", ProposedClockIn: strPtr("2026-03-02T09:00:00Z")},
			"work_date",
		},
		{
			"unknown kind",
			CreateCorrectionRequest{WorkDate: "2026-03-02", Kind: "shift"},
			"kind",
		},
		{
			"clock correction proposing nothing",
			CreateCorrectionRequest{WorkDate: "2026-03-02", Kind: "clock"},
			"proposed_clock_in",
		},
		{
			"break correction proposing nothing",
			CreateCorrectionRequest{WorkDate: "2026-03-02", Kind: "break"},
			"proposed_break_start",
		},
		{
			"malformed proposed timestamp",
			CreateCorrectionRequest{WorkDate: "2026-03-02", Kind: "clock", ProposedClockOut: strPtr("6pm")},
			"proposed_clock_out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.wantField)
		})
	}
}

func TestDecideCorrectionRequestValidate(t *testing.T) {
	id := "123e4567-e89b-42d3-a456-426614174000"

	ok := DecideCorrectionRequest{ID: id, Decision: DecisionApprove}
	assert.NoError(t, ok.Validate())

	missingID := DecideCorrectionRequest{Decision: DecisionReject}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, missingID.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "id")

	// Path params are untrusted input; anything that is not a UUID is
	// rejected before it reaches the repository.
	malformedID := DecideCorrectionRequest{ID: "cor-1", Decision: DecisionApprove}
	require.ErrorAs(t, malformedID.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "id")

	badDecision := DecideCorrectionRequest{ID: id, Decision: "maybe"}
	require.ErrorAs(t, badDecision.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "decision")
}

package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
)

func TestRecord_CountersMatchLedger(t *testing.T) {
	rec := NewRecorder()

	outcomes := []domain.Severity{
		domain.SeverityPass, domain.SeverityPass, domain.SeverityPass,
		domain.SeverityFail,
		domain.SeverityWarning,
		domain.SeverityInfo,
	}
	for i, severity := range outcomes {
		require.NoError(t, rec.Record("req1", "check", severity, "narrative", ""))
		assert.Equal(t, i+1, rec.Snapshot().Total)
	}

	counters := rec.Snapshot()
	assert.Equal(t, 6, counters.Total)
	assert.Equal(t, 3, counters.Passed)
	assert.Equal(t, 1, counters.Failed)
	assert.Equal(t, 1, counters.Warned)
	assert.Equal(t, 1, counters.Info)
	assert.Equal(t, counters.Total, counters.Passed+counters.Failed+counters.Warned+counters.Info+counters.Manual)

	// Info stays in the percentage base: 3*100/6.
	assert.Equal(t, 50, counters.SuccessPercent())
}

func TestRecord_RejectsUnknownSeverity(t *testing.T) {
	rec := NewRecorder()

	err := rec.Record("req1", "check", domain.Severity("PASS"), "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidSeverity)
	assert.Equal(t, 0, rec.Snapshot().Total)
}

func TestRecord_RequiresSectionAndTitle(t *testing.T) {
	rec := NewRecorder()

	assert.Error(t, rec.Record("", "check", domain.SeverityPass, "", ""))
	assert.Error(t, rec.Record("req1", "", domain.SeverityPass, "", ""))
	assert.Equal(t, 0, rec.Snapshot().Total)
}

func TestRecords_ReturnsInsertionOrderCopy(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.Record("req1", "first", domain.SeverityPass, "", ""))
	require.NoError(t, rec.Record("req1", "second", domain.SeverityFail, "", ""))

	records := rec.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Title)
	assert.Equal(t, "second", records[1].Title)

	records[0].Title = "mutated"
	assert.Equal(t, "first", rec.Records()[0].Title)
}

func TestSuccessPercent_ZeroTotal(t *testing.T) {
	assert.Equal(t, 0, domain.RunCounters{}.SuccessPercent())
}

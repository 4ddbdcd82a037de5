package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityOrdering(t *testing.T) {
	assert.Less(t, Priority(BigQueryGroup), Priority(CalendarStaff))
	assert.Less(t, Priority(CalendarStaff), Priority(CalendarLS))
	assert.Less(t, Priority(CalendarLS), Priority(CalendarMS))
	assert.Less(t, Priority(CalendarMS), Priority(BigQueryResource))
	assert.Less(t, Priority(BigQueryResource), Priority(Manual))
}

func TestPriorityUnknownRanksLast(t *testing.T) {
	unknown := Source("sis_export")
	for _, s := range All() {
		assert.Less(t, Priority(s), Priority(unknown))
	}
}

func TestParse(t *testing.T) {
	src, err := Parse("calendar_staff")
	assert.NoError(t, err)
	assert.Equal(t, CalendarStaff, src)

	_, err = Parse("dropbox")
	assert.Error(t, err)
}

package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	j := New(" Acme ", "Engineer", "2024-03-01", "Tech", "")
	assert.NotEmpty(t, j.ID)
	assert.Equal(t, "Acme", j.Company)
	assert.Equal(t, StatusApplied, j.Status)
	require.NoError(t, j.Validate())

	today := New("Acme", "Engineer", "", "", "")
	assert.Len(t, today.DateApplied, len(DateLayout))
	assert.NoError(t, today.Validate())
}

func TestValidate(t *testing.T) {
	j := New("Acme", "Engineer", "2024-03-01", "", "")
	bad := j
	bad.Company = ""
	assert.Error(t, bad.Validate())

	bad = j
	bad.DateApplied = "03/01/2024"
	assert.Error(t, bad.Validate())

	bad = j
	bad.Status = "Ghosted"
	assert.Error(t, bad.Validate())
}

func TestMoveClampsAtEnds(t *testing.T) {
	j := New("Acme", "Engineer", "2024-03-01", "", "")
	assert.Equal(t, StatusApplied, Move(j, Backward).Status)

	j = Move(j, Forward)
	assert.Equal(t, StatusInterviewing, j.Status)
	j = Move(Move(j, Forward), Forward)
	assert.Equal(t, StatusRejected, j.Status)
	assert.Equal(t, StatusRejected, Move(j, Forward).Status)
	assert.Equal(t, StatusOffer, Move(j, Backward).Status)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("interviewing")
	require.NoError(t, err)
	assert.Equal(t, StatusInterviewing, st)
	_, err = ParseStatus("hired")
	assert.Error(t, err)
}

func TestFilterAndIndustries(t *testing.T) {
	list := []Job{
		{ID: "1", Industry: "Tech"},
		{ID: "2", Industry: "Finance"},
		{ID: "3", Industry: "tech"},
		{ID: "4"},
	}
	got := Filter(list, "TECH")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
	assert.Len(t, Filter(list, ""), 4)
	assert.Equal(t, []string{"Tech", "Finance", "tech"}, Industries(list))
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 0, empty.RejectionRate)
	assert.Equal(t, 0, empty.Counts[StatusOffer])

	list := []Job{
		{Status: StatusApplied},
		{Status: StatusRejected},
		{Status: StatusInterviewing},
	}
	s := Summarize(list)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Counts[StatusRejected])
	assert.Equal(t, 33, s.RejectionRate)

	groups := ByStatus(list)
	assert.Len(t, groups[StatusApplied], 1)
	assert.Empty(t, groups[StatusOffer])
}

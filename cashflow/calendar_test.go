package cashflow_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cashflow-engine/cashflow"
)

func TestStartDate_DefaultLabels(t *testing.T) {
	var d cashflow.StartDate

	assert.Equal(t, "January 2026", d.Label(0))
	assert.Equal(t, "March 2027", d.Label(14))
	assert.Equal(t, "December 2045", d.Label(239))
}

func TestStartDate_MidYearStartRollsOver(t *testing.T) {
	d, err := cashflow.ParseStartDate("2026-11")
	require.NoError(t, err)

	assert.Equal(t, "November 2026", d.Label(0))
	assert.Equal(t, "January 2027", d.Label(2))

	year, month := d.At(14)
	assert.Equal(t, 2028, year)
	assert.Equal(t, time.January, month)
}

func TestParseStartDate_Invalid(t *testing.T) {
	_, err := cashflow.ParseStartDate("2026/01")
	assert.Error(t, err)

	_, err = cashflow.ParseStartDate("2026-13")
	assert.Error(t, err)
}

func TestStartDate_JSON(t *testing.T) {
	d := cashflow.StartDate{Year: 2030, Month: time.June}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2030-06"`, string(data))

	var back cashflow.StartDate
	require.NoError(t, json.Unmarshal([]byte(`"2031-02"`), &back))
	assert.Equal(t, cashflow.StartDate{Year: 2031, Month: time.February}, back)
}

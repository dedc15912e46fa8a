package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestVotesCast_CountsByDirection(t *testing.T) {
	before := testutil.ToFloat64(VotesCast.WithLabelValues("for"))

	VotesCast.WithLabelValues("for").Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(VotesCast.WithLabelValues("for")))
}

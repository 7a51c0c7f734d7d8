// internal/service/design_service_test.go
package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The screening defaults come from the published methodology: an ingredient
// is high risk when it sits inside the cumulative top 20% of ingredient spend
// and feeds at least three menus.
func TestHighRiskScreeningDefaults(t *testing.T) {
	assert.Equal(t, 20.0, highRiskCostSharePct)
	assert.Equal(t, 3, highRiskMenuLinks)
}

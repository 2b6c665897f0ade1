package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/intellirefer/referctl/api/v1alpha1"
)

func TestParseKind(t *testing.T) {
	for _, kind := range []string{"profile", "jds", "recommendations", "selected"} {
		got, err := parseKind(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	_, err := parseKind("widgets")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("forty-two")
	assert.Error(t, err)
}

func TestFilterByStatus(t *testing.T) {
	recommendations := []api.Recommendation{
		{ReferralId: 41, Status: api.ReferralStatusPending},
		{ReferralId: 42, Status: api.ReferralStatusReserved},
		{ReferralId: 43, Status: api.ReferralStatusPending},
	}

	pending := filterByStatus(recommendations, api.StringToReferralStatus("PENDING"))
	require.Len(t, pending, 2)
	assert.Equal(t, int64(41), pending[0].ReferralId)
	assert.Equal(t, int64(43), pending[1].ReferralId)

	assert.Empty(t, filterByStatus(recommendations, api.ReferralStatusSelected))
}

func TestRouteForKind(t *testing.T) {
	assert.Equal(t, "/employee/dashboard", routeForKind(ProfileKind, nil))
	assert.Equal(t, "/manager/dashboard", routeForKind(JdKind, nil))
	assert.Equal(t, "/manager/jds/42", routeForKind(RecommendationKind, []string{"recommendations", "42"}))
	assert.Equal(t, "/manager/selected", routeForKind(SelectedKind, nil))
}

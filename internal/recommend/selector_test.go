package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuyx05/propensity/internal/predict"
)

func mustByCount(t *testing.T, n int) Policy {
	t.Helper()
	p, err := ByCount(n)
	require.NoError(t, err)
	return p
}

func mustByRatio(t *testing.T, ratio float64) Policy {
	t.Helper()
	p, err := ByRatio(ratio)
	require.NoError(t, err)
	return p
}

func TestRecommend_ThresholdAndCap(t *testing.T) {
	// three clients, one product: client 2 fails the threshold despite the
	// largest raw revenue
	predictions := []predict.Prediction{
		{Client: 1, Product: "CC", Propensity: 0.9, Revenue: 100},
		{Client: 2, Product: "CC", Propensity: 0.4, Revenue: 1000},
		{Client: 3, Product: "CC", Propensity: 0.7, Revenue: 50},
	}

	recs, stats := NewSelector(mustByCount(t, 1)).Recommend(predictions)

	assert.Equal(t, 2, stats.Qualified)
	require.Len(t, recs, 1)
	assert.Equal(t, Recommendation{Client: 1, Product: "CC"}, recs[0], "expected revenue 90 beats 35")
}

func TestRecommend_OneRowPerClient(t *testing.T) {
	// both products qualify for client 1; only the higher expected revenue
	// survives even with room in the cap
	predictions := []predict.Prediction{
		{Client: 1, Product: "CC", Propensity: 0.9, Revenue: 100}, // 90
		{Client: 1, Product: "MF", Propensity: 0.8, Revenue: 200}, // 160
	}

	recs, stats := NewSelector(mustByCount(t, 10)).Recommend(predictions)

	assert.Equal(t, 2, stats.Qualified)
	assert.Equal(t, 1, stats.Distinct)
	require.Len(t, recs, 1)
	assert.Equal(t, Recommendation{Client: 1, Product: "MF"}, recs[0])
}

func TestRecommend_FullRatioKeepsAllClients(t *testing.T) {
	var predictions []predict.Prediction
	for i := int64(1); i <= 10; i++ {
		predictions = append(predictions, predict.Prediction{
			Client: i, Product: "CL", Propensity: 0.6, Revenue: float64(i * 10),
		})
	}

	recs, _ := NewSelector(mustByRatio(t, 1.0)).Recommend(predictions)

	require.Len(t, recs, 10)
	// descending expected revenue
	assert.Equal(t, int64(10), recs[0].Client)
	assert.Equal(t, int64(1), recs[9].Client)
}

func TestRecommend_NoQualifiedCandidates(t *testing.T) {
	predictions := []predict.Prediction{
		{Client: 1, Product: "CC", Propensity: 0.49, Revenue: 1e9},
	}

	recs, stats := NewSelector(DefaultPolicy()).Recommend(predictions)

	assert.Empty(t, recs)
	assert.Equal(t, 0, stats.Qualified)

	recs, _ = NewSelector(DefaultPolicy()).Recommend(nil)
	assert.Empty(t, recs)
}

func TestRecommend_ThresholdIsInclusive(t *testing.T) {
	predictions := []predict.Prediction{
		{Client: 1, Product: "CC", Propensity: 0.5, Revenue: 10},
	}
	_, stats := NewSelector(mustByCount(t, 1)).Recommend(predictions)
	assert.Equal(t, 1, stats.Qualified)
}

func TestRecommend_RatioCutoffUsesQualifiedCount(t *testing.T) {
	// 4 qualified rows over 2 clients: ratio 0.5 cuts at floor(4*0.5)=2,
	// then clamps to the 2 distinct clients
	predictions := []predict.Prediction{
		{Client: 1, Product: "CC", Propensity: 0.9, Revenue: 100},
		{Client: 1, Product: "MF", Propensity: 0.9, Revenue: 90},
		{Client: 2, Product: "CC", Propensity: 0.9, Revenue: 80},
		{Client: 2, Product: "MF", Propensity: 0.9, Revenue: 70},
	}

	recs, _ := NewSelector(mustByRatio(t, 0.5)).Recommend(predictions)
	assert.Len(t, recs, 2)

	// ratio 0.25 cuts at floor(4*0.25)=1
	recs, _ = NewSelector(mustByRatio(t, 0.25)).Recommend(predictions)
	require.Len(t, recs, 1)
	assert.Equal(t, Recommendation{Client: 1, Product: "CC"}, recs[0])
}

func TestRecommend_CapNeverExceedsDistinctClients(t *testing.T) {
	predictions := []predict.Prediction{
		{Client: 1, Product: "CC", Propensity: 0.9, Revenue: 100},
		{Client: 1, Product: "MF", Propensity: 0.9, Revenue: 90},
	}

	recs, _ := NewSelector(mustByCount(t, 5)).Recommend(predictions)
	assert.Len(t, recs, 1)
}

func TestRecommend_DeterministicTieBreak(t *testing.T) {
	// identical expected revenue everywhere: order by client id, then
	// product code, regardless of input order
	predictions := []predict.Prediction{
		{Client: 2, Product: "MF", Propensity: 0.8, Revenue: 100},
		{Client: 1, Product: "MF", Propensity: 0.8, Revenue: 100},
		{Client: 1, Product: "CC", Propensity: 0.8, Revenue: 100},
		{Client: 2, Product: "CC", Propensity: 0.8, Revenue: 100},
	}

	for i := 0; i < 3; i++ {
		recs, _ := NewSelector(mustByCount(t, 2)).Recommend(predictions)
		require.Len(t, recs, 2)
		assert.Equal(t, Recommendation{Client: 1, Product: "CC"}, recs[0])
		assert.Equal(t, Recommendation{Client: 2, Product: "CC"}, recs[1])

		// rotate input order
		predictions = append(predictions[1:], predictions[0])
	}
}

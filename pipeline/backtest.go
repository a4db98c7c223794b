package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/mashuzza/DTSA-5301/sarima"
	"github.com/mashuzza/DTSA-5301/timeseries"
)

// Accuracy holds out-of-sample forecast accuracy on a held-out tail.
type Accuracy struct {
	Holdout    int          `json:"holdout"`
	Order      sarima.Order `json:"-"`
	Model      string       `json:"model"`
	RMSE       float64      `json:"rmse"`
	MAE        float64      `json:"mae"`
	MAPE       float64      `json:"mape"`
	Coverage80 float64      `json:"coverage_80"`
	Coverage95 float64      `json:"coverage_95"`
}

// Backtest fits the pipeline on all but the last holdout observations,
// forecasts them and scores the forecasts against the actual values.
func (p *Pipeline) Backtest(ctx context.Context, series *timeseries.Series, holdout int) (*Accuracy, error) {
	n := series.Len()
	if holdout < 1 || holdout >= n {
		return nil, fmt.Errorf("pipeline: holdout must be in [1, %d), got %d", n, holdout)
	}

	train := series.Slice(0, n-holdout)
	test := series.Slice(n-holdout, n)

	result, err := p.run(ctx, train, holdout, []float64{0.80, 0.95})
	if err != nil {
		return nil, fmt.Errorf("pipeline: backtest: %w", err)
	}

	acc := &Accuracy{
		Holdout: holdout,
		Order:   result.Model.Order,
		Model:   result.Model.Order.String(),
	}
	acc.RMSE, acc.MAE, acc.MAPE = metrics(test.Values, result.Forecast.Point)
	iv80, _ := result.Forecast.Interval(0.80)
	iv95, _ := result.Forecast.Interval(0.95)
	acc.Coverage80 = coverage(test.Values, iv80)
	acc.Coverage95 = coverage(test.Values, iv95)

	p.logger.Info("backtest complete", "order", acc.Model, "holdout", holdout, "rmse", acc.RMSE, "coverage_95", acc.Coverage95)
	return acc, nil
}

// metrics calculates forecast accuracy metrics. MAPE skips zero actuals.
func metrics(actual, predicted []float64) (rmse, mae, mape float64) {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return
	}
	nonZero := 0
	for i := 0; i < n; i++ {
		d := actual[i] - predicted[i]
		rmse += d * d
		mae += math.Abs(d)
		if actual[i] != 0 {
			mape += math.Abs(d) / math.Abs(actual[i]) * 100
			nonZero++
		}
	}
	if nonZero > 0 {
		mape /= float64(nonZero)
	}
	return math.Sqrt(rmse / float64(n)), mae / float64(n), mape
}

func coverage(actual []float64, iv *sarima.Interval) float64 {
	if iv == nil || len(actual) == 0 {
		return 0
	}
	inside := 0
	for i, v := range actual {
		if v >= iv.Lower[i] && v <= iv.Upper[i] {
			inside++
		}
	}
	return float64(inside) / float64(len(actual))
}

package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Coefficient is one estimated model term.
type Coefficient struct {
	Term     string   `json:"term"`
	Estimate float64  `json:"estimate"`
	StdErr   *float64 `json:"std_err"`
}

// ForecastRow is the forecast for one step ahead.
type ForecastRow struct {
	Step      int     `json:"step"`
	Period    string  `json:"period,omitempty"`
	Point     float64 `json:"point"`
	StdErr    float64 `json:"std_err"`
	Intervals []Bound `json:"intervals"`
}

// Bound is an interval at one confidence level for a single step.
type Bound struct {
	Level float64 `json:"level"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Report is the serialisable form of a pipeline result consumed by the
// reporting layer.
type Report struct {
	Name            string        `json:"name,omitempty"`
	Order           string        `json:"order"`
	NObs            int           `json:"n_obs"`
	Drift           float64       `json:"drift"`
	Intercept       float64       `json:"intercept"`
	Variance        float64       `json:"variance"`
	LogLik          float64       `json:"log_lik"`
	AIC             float64       `json:"aic"`
	AICc            float64       `json:"aicc"`
	BIC             float64       `json:"bic"`
	Criterion       string        `json:"criterion"`
	ModelsEvaluated int           `json:"models_evaluated"`
	ModelsFailed    int           `json:"models_failed"`
	LjungBoxPValue  *float64      `json:"ljung_box_p_value,omitempty"`
	Coefficients    []Coefficient `json:"coefficients"`
	Forecast        []ForecastRow `json:"forecast"`
	Accuracy        *Accuracy     `json:"accuracy,omitempty"`
}

// NewReport builds a report from a pipeline result.
func NewReport(result *Result) *Report {
	s := result.Summary
	r := &Report{
		Name:            result.Name,
		Order:           s.Order.String(),
		NObs:            s.NObs,
		Drift:           s.Drift,
		Intercept:       s.Intercept,
		Variance:        s.Variance,
		LogLik:          s.LogLik,
		AIC:             s.AIC,
		AICc:            s.AICc,
		BIC:             s.BIC,
		Criterion:       result.Search.Criterion,
		ModelsEvaluated: result.Search.ModelsEvaluated,
		ModelsFailed:    result.Search.ModelsFailed,
		Coefficients:    []Coefficient{},
	}
	if s.LjungBox != nil {
		r.LjungBoxPValue = finite(s.LjungBox.PValue)
	}

	terms := func(prefix string, coefs, se []float64) {
		for i, c := range coefs {
			coef := Coefficient{Term: prefix + strconv.Itoa(i+1), Estimate: c}
			if i < len(se) {
				coef.StdErr = finite(se[i])
			}
			r.Coefficients = append(r.Coefficients, coef)
		}
	}
	terms("ar", s.ARCoeffs, s.ARStdErrors)
	terms("ma", s.MACoeffs, s.MAStdErrors)
	terms("sar", s.SARCoeffs, s.SARStdErrors)
	terms("sma", s.SMACoeffs, s.SMAStdErrors)
	if result.Model.HasConstant {
		term := "intercept"
		if s.Order.Differences() > 0 {
			term = "drift"
		}
		r.Coefficients = append(r.Coefficients, Coefficient{
			Term:     term,
			Estimate: result.Model.Constant,
			StdErr:   finite(s.ConstantStdError),
		})
	}

	f := result.Forecast
	r.Forecast = make([]ForecastRow, f.Horizon)
	for i := range r.Forecast {
		row := ForecastRow{
			Step:      i + 1,
			Point:     f.Point[i],
			StdErr:    f.StdErr[i],
			Intervals: make([]Bound, len(f.Intervals)),
		}
		if i < len(result.Periods) {
			row.Period = result.Periods[i].String()
		}
		for j, iv := range f.Intervals {
			row.Intervals[j] = Bound{Level: iv.Level, Lower: iv.Lower[i], Upper: iv.Upper[i]}
		}
		r.Forecast[i] = row
	}
	return r
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes the forecast table, one row per step, with a lower and
// upper column per confidence level.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"step", "period", "point", "std_err"}
	if len(r.Forecast) > 0 {
		for _, b := range r.Forecast[0].Intervals {
			pct := levelLabel(b.Level)
			header = append(header, "lower_"+pct, "upper_"+pct)
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range r.Forecast {
		rec := []string{
			strconv.Itoa(row.Step),
			row.Period,
			formatFloat(row.Point),
			formatFloat(row.StdErr),
		}
		for _, b := range row.Intervals {
			rec = append(rec, formatFloat(b.Lower), formatFloat(b.Upper))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes a human readable model summary followed by the forecast
// table.
func (r *Report) WriteText(w io.Writer, summary fmt.Stringer) error {
	if summary != nil {
		if _, err := fmt.Fprintln(w, summary.String()); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "%-6s %-8s %12s", "step", "period", "point")
	if len(r.Forecast) > 0 {
		for _, b := range r.Forecast[0].Intervals {
			pct := levelLabel(b.Level)
			fmt.Fprintf(w, " %12s %12s", "lo"+pct, "hi"+pct)
		}
	}
	fmt.Fprintln(w)
	for _, row := range r.Forecast {
		fmt.Fprintf(w, "%-6d %-8s %12.2f", row.Step, row.Period, row.Point)
		for _, b := range row.Intervals {
			fmt.Fprintf(w, " %12.2f %12.2f", b.Lower, b.Upper)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	if r.Accuracy != nil {
		a := r.Accuracy
		_, err := fmt.Fprintf(w, "\nBacktest (%d held out): RMSE=%.3f MAE=%.3f MAPE=%.2f%% coverage80=%.2f coverage95=%.2f\n",
			a.Holdout, a.RMSE, a.MAE, a.MAPE, a.Coverage80, a.Coverage95)
		return err
	}
	return nil
}

func levelLabel(level float64) string {
	return strconv.FormatFloat(math.Round(level*1000)/10, 'f', -1, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// finite returns nil for NaN and infinite values, which JSON cannot encode.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Package pipeline wires preprocessing, order search, estimation and
// forecasting into a single entry point for monthly count series.
//
// # Usage
//
//	p := pipeline.New(pipeline.DefaultConfig(), logger)
//	result, err := p.Run(ctx, series)
//	if err != nil {
//		return err
//	}
//	fmt.Println(result.Summary)
//	_ = pipeline.NewReport(result).WriteJSON(os.Stdout)
//
// Backtest refits on all but the last months and scores the forecasts of the
// held-out tail:
//
//	acc, err := p.Backtest(ctx, series, 12)
//	fmt.Printf("RMSE %.2f, 95%% coverage %.2f\n", acc.RMSE, acc.Coverage95)
//
// Run never modifies its input and returns no forecast when any step fails.
package pipeline

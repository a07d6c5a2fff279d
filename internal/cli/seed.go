package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/model"
)

// seedCommand creates the seed command for the sample portfolio.
func (c *CLI) seedCommand() *cobra.Command {
	var (
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a sample portfolio snapshot",
		Long: `Generate a sample portfolio snapshot.

The sample portfolio spans the four asset classes: equities across shared
sectors, treasury and corporate bond ETFs, gold and crude oil futures,
and three major currency pairs, plus regulatory events that link assets
across classes. It is useful for trying out the build, metrics, viz, and
render commands without real market data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSeed(cmd.Context(), output, name)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "portfolio.json", "output snapshot file")
	cmd.Flags().StringVarP(&name, "name", "n", "", "also save as a named snapshot")

	return cmd
}

func (c *CLI) runSeed(ctx context.Context, output, name string) error {
	g, err := sampleGraph()
	if err != nil {
		return err
	}

	if err := writeSnapshotFile(output, g.Snapshot()); err != nil {
		return err
	}
	printSuccess("Generated sample portfolio")
	printStats(g.AssetCount(), 0, false)
	printFile(output)

	if name != "" {
		runner, err := c.newRunner(ctx, false)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()
		if err := runner.SaveSnapshot(ctx, name, g); err != nil {
			return err
		}
		printSuccess("Saved as snapshot %q", name)
	}

	printNewline()
	printNextStep("Build relationships", fmt.Sprintf("%s build %s -o graph.json", appName, output))
	return nil
}

// sampleAsset describes one row of the sample portfolio.
type sampleAsset struct {
	class    model.AssetClass
	id       string
	symbol   string
	name     string
	sector   string
	price    float64
	issuerID string
}

// sampleGraph builds the sample portfolio: four equities, two bond ETFs,
// two commodity futures, three currencies, and three regulatory events.
func sampleGraph() (*graph.Graph, error) {
	assets := []sampleAsset{
		{class: model.ClassEquity, id: "AAPL", symbol: "AAPL", name: "Apple Inc.", sector: "Technology", price: 178.50},
		{class: model.ClassEquity, id: "MSFT", symbol: "MSFT", name: "Microsoft Corporation", sector: "Technology", price: 420.75},
		{class: model.ClassEquity, id: "XOM", symbol: "XOM", name: "Exxon Mobil Corporation", sector: "Energy", price: 112.30},
		{class: model.ClassEquity, id: "JPM", symbol: "JPM", name: "JPMorgan Chase & Co.", sector: "Financial Services", price: 195.40},
		{class: model.ClassFixedIncome, id: "TLT", symbol: "TLT", name: "iShares 20+ Year Treasury Bond ETF", sector: "Government", price: 92.15},
		{class: model.ClassFixedIncome, id: "LQD", symbol: "LQD", name: "iShares iBoxx $ Investment Grade Corporate Bond ETF", sector: "Corporate", price: 108.60, issuerID: "JPM"},
		{class: model.ClassCommodity, id: "GC_FUTURE", symbol: "GC=F", name: "Gold Futures", sector: "Metals", price: 2385.00},
		{class: model.ClassCommodity, id: "CL_FUTURE", symbol: "CL=F", name: "Crude Oil Futures", sector: "Energy", price: 78.25},
		{class: model.ClassCurrency, id: "EURUSD", symbol: "EUR", name: "Euro", sector: "Forex", price: 1.0850},
		{class: model.ClassCurrency, id: "GBPUSD", symbol: "GBP", name: "British Pound", sector: "Forex", price: 1.2710},
		{class: model.ClassCurrency, id: "JPYUSD", symbol: "JPY", name: "Japanese Yen", sector: "Forex", price: 0.0064},
	}

	g := graph.New()
	for _, sa := range assets {
		a, err := model.NewAsset(sa.class, sa.id, sa.symbol, sa.name, sa.sector, sa.price)
		if err != nil {
			return nil, err
		}
		a.IssuerID = sa.issuerID
		g.AddAsset(a)
	}

	events := []struct {
		assetID     string
		typ         model.EventType
		date        time.Time
		description string
		impact      float64
		related     []string
	}{
		{
			assetID:     "AAPL",
			typ:         model.EventEarningsReport,
			date:        time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
			description: "Q4 2024 Earnings Report - Record iPhone sales",
			impact:      0.12,
			related:     []string{"TLT", "MSFT"},
		},
		{
			assetID:     "MSFT",
			typ:         model.EventDividendAnnouncement,
			date:        time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
			description: "Quarterly dividend increase - Cloud growth continues",
			impact:      0.08,
			related:     []string{"AAPL", "LQD"},
		},
		{
			assetID:     "XOM",
			typ:         model.EventSECFiling,
			date:        time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
			description: "10-K Filing - Increased oil reserves and sustainability initiatives",
			impact:      0.05,
			related:     []string{"CL_FUTURE"},
		},
	}
	for _, se := range events {
		e, err := model.NewRegulatoryEvent(uuid.NewString(), se.assetID, se.typ, se.date, se.description, se.impact, se.related)
		if err != nil {
			return nil, err
		}
		g.AddEvent(e)
	}

	return g, nil
}

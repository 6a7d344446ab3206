package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/rumor-ml/commons.systems/fraudmon/internal/fraud"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/monitor"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/regions"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/store"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/ui"
)

const version = "0.1.0"

var (
	versionFlag = flag.Bool("version", false, "Show version")

	accountsPath     = flag.String("accounts", "", "Account info CSV feed (required)")
	transactionsPath = flag.String("transactions", "", "Transaction CSV feed (required)")
	amountReport     = flag.String("amount-report", "amount_fraud_log.txt", "Amount-fraud report output path")
	geoReport        = flag.String("geo-report", "state_fraud_log.txt", "Geographic-fraud report output path")
	dbPath           = flag.String("db", "", "SQLite database path (default: $FRAUDMON_DB or fraudmon.db)")
	configFile       = flag.String("config", "", "Engine tuning YAML file (default: embedded thresholds)")
	regionsFile      = flag.String("regions", "", "Region table YAML file (default: embedded US table)")
	echoReports      = flag.Bool("echo", true, "Echo both reports to stdout after the run")
	verbose          = flag.Bool("verbose", false, "Show detailed run logs")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `fraudmon - Batch fraud monitor for account and transaction feeds

Usage:
  fraudmon [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, `
Examples:
  # Check two feeds with default thresholds
  fraudmon -accounts account_info.csv -transactions transactions.csv

  # Custom thresholds and report destinations
  fraudmon -accounts account_info.csv -transactions transactions.csv \
    -config fraud.yaml -amount-report amount.txt -geo-report geo.txt

`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("fraudmon version %s\n", version)
		os.Exit(0)
	}

	if *accountsPath == "" || *transactionsPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -accounts and -transactions flags are required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		ui.Error(fmt.Sprintf("%v", err))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// .env can supply FRAUDMON_DB; a missing file is fine.
	_ = godotenv.Load()

	database := *dbPath
	if database == "" {
		database = os.Getenv("FRAUDMON_DB")
	}
	if database == "" {
		database = "fraudmon.db"
	}

	if !*verbose {
		ui.Header("Fraud Monitor")
		ui.Step(1, 3, "Loading configuration")
	}

	var (
		engineCfg *fraud.Config
		err       error
	)
	if *configFile != "" {
		engineCfg, err = fraud.LoadFromFile(*configFile)
	} else {
		engineCfg, err = fraud.LoadEmbedded()
	}
	if err != nil {
		return err
	}

	var table *regions.Table
	if *regionsFile != "" {
		table, err = regions.LoadFromFile(*regionsFile)
	} else {
		table, err = regions.LoadEmbedded()
	}
	if err != nil {
		return err
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d regions, thresholds: min=%.2f multiplier=%.1f\n",
			table.Len(), engineCfg.AmountRule.MinTransactionAmount, engineCfg.AmountRule.ThresholdMultiplier)
	}

	st, err := store.Open(database)
	if err != nil {
		return err
	}
	defer st.Close()

	if !*verbose {
		ui.Step(2, 3, "Ingesting feeds and running fraud rules")
	}

	mon, err := monitor.New(monitor.Config{
		AccountsPath:         *accountsPath,
		TransactionsPath:     *transactionsPath,
		AmountReportPath:     *amountReport,
		GeographicReportPath: *geoReport,
		Engine:               engineCfg,
		Regions:              table,
		Verbose:              *verbose,
	}, st)
	if err != nil {
		return err
	}

	findings, stats, err := mon.Run(ctx)
	if err != nil {
		return err
	}

	if !*verbose {
		ui.Step(3, 3, "Writing reports")
		ui.Success(fmt.Sprintf("Checked %d transactions: %d amount findings, %d geographic findings",
			stats.RowsChecked, stats.AmountFindings, stats.GeographicFindings))
	} else {
		fmt.Fprintf(os.Stderr, "Run %s complete: %d accounts, %d transactions, %d findings\n",
			stats.RunID, stats.AccountsLoaded, stats.TransactionsLoaded, findings.Total())
	}

	// The rule pass interleaves the two kinds of findings, so the reports
	// are echoed back from their files to print them grouped by rule.
	if *echoReports {
		if err := echoFile(*amountReport); err != nil {
			return err
		}
		if err := echoFile(*geoReport); err != nil {
			return err
		}
	}

	return nil
}

// echoFile copies a written report to stdout.
func echoFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open report %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(os.Stdout, f); err != nil {
		return fmt.Errorf("failed to echo report %s: %w", path, err)
	}
	fmt.Println()
	return nil
}

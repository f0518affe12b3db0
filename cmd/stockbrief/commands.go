package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/bobmcallan/stockbrief/internal/app"
	"github.com/bobmcallan/stockbrief/internal/models"
)

var (
	configPath = flag.String("config", "", "Path to stockbrief.toml (default: STOCKBRIEF_CONFIG, then next to the binary, then config/stockbrief.toml)")
	rawOutput  = flag.Bool("raw", false, "Print plain markdown instead of styled terminal output")
)

// register adds the subcommands.
func register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "workflows")
	c.Register(&portfolioCmd{}, "workflows")
	c.Register(&analyzeCmd{}, "workflows")
	c.Register(&searchCmd{}, "lookup")
	c.Register(&mcpCmd{}, "integration")
}

func openApp() (*app.App, error) {
	return app.NewApp(*configPath)
}

// printMarkdown renders md for the terminal, falling back to plain text.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// allocationFlags are shared by the portfolio workflows.
type allocationFlags struct {
	model  string
	risk   int
	amount float64
}

func (a *allocationFlags) set(f *flag.FlagSet) {
	f.StringVar(&a.model, "model", models.DefaultModel, "Portfolio model ("+strings.Join(models.KnownModels, ", ")+")")
	f.IntVar(&a.risk, "risk", models.DefaultRiskLevel, "Risk level 1-10")
	f.Float64Var(&a.amount, "amount", 0, "Investment amount in won, passed to the allocation source")
}

func (a *allocationFlags) request() models.AllocationRequest {
	return models.AllocationRequest{Model: a.model, RiskLevel: a.risk, Amount: a.amount}.WithDefaults()
}

type reportCmd struct {
	alloc  allocationFlags
	output string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "compose a portfolio, analyse every holding and write the PDF" }
func (*reportCmd) Usage() string {
	return `stockbrief report [-model <model>] [-risk <n>] [-amount <won>] [-o <file.pdf>]

  Composes the model portfolio, requests one report per holding plus the
  portfolio summary, and writes the PDF.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.alloc.set(f)
	f.StringVar(&c.output, "o", "gpt-report.pdf", "Output PDF path")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	req := c.alloc.request()
	report, err := a.ReportService.GenerateFile(ctx, req, c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(app.FormatPortfolio(report.Request, report.Entries) + "\n" + app.FormatGeneratedReport(report))
	return subcommands.ExitSuccess
}

type portfolioCmd struct {
	alloc allocationFlags
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "compose a model portfolio and summarise it" }
func (*portfolioCmd) Usage() string {
	return `stockbrief portfolio [-model <model>] [-risk <n>] [-amount <won>]

  Prints the composition (cash excluded, sorted by weight) and the summary.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	c.alloc.set(f)
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	overview, err := a.ReportService.Overview(ctx, c.alloc.request())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(app.FormatOverview(overview))
	return subcommands.ExitSuccess
}

type analyzeCmd struct{}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "write a research report for one instrument" }
func (*analyzeCmd) Usage() string {
	return `stockbrief analyze <name> <ticker>

  Example: stockbrief analyze 삼성전자 005930
`
}

func (*analyzeCmd) SetFlags(f *flag.FlagSet) {}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report := a.ReportService.Analyze(ctx, f.Arg(0), f.Arg(1))
	printMarkdown(app.FormatStockReport(report))
	if report.Failure != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search the sample instrument list by name" }
func (*searchCmd) Usage() string {
	return `stockbrief search [query]

  Case-insensitive substring match; no query lists every entry.
`
}

func (*searchCmd) SetFlags(f *flag.FlagSet) {}

func (*searchCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	var sb strings.Builder
	sb.WriteString("| 종목 이름 | 종목 코드 |\n|---|---|\n")
	for _, s := range models.SearchStocks(models.SampleStocks, strings.Join(f.Args(), " ")) {
		fmt.Fprintf(&sb, "| %s | %s |\n", s.Name, s.Ticker)
	}
	printMarkdown(sb.String())
	return subcommands.ExitSuccess
}

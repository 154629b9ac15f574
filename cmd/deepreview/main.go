// Command deepreview is a maintenance entrypoint for the journal data: it
// loads the store, prints the collection statistics and runs an integrity
// check. The interactive UI lives elsewhere and talks to the same packages.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/Kenneth-cs/DeepReview/internal/cli"
	"github.com/Kenneth-cs/DeepReview/internal/config"
	"github.com/Kenneth-cs/DeepReview/internal/prefs"
	"github.com/Kenneth-cs/DeepReview/pkg/analysis"
	"github.com/Kenneth-cs/DeepReview/pkg/store"
)

var configFile = flag.String("f", "etc/deepreview.yaml", "the config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if pf, err := prefs.Open(cfg.PrefsPath()); err != nil {
		// Recoverable: the config file and environment still apply.
		logx.Errorf("open preferences: %v", err)
	} else {
		cfg.ApplyPreferences(pf)
	}
	cli.LogConfigSummary(cfg)

	st, err := store.New(cfg.DataPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Flush()

	if err := st.Load(); err != nil {
		// Recoverable: the collection resets to empty and the app stays up.
		logx.Errorf("load store: %v", err)
	}

	fmt.Printf("Entries: %d\n", st.TotalReviews())
	fmt.Printf("Streak: %d days\n", st.StreakDays())
	fmt.Printf("This month: %d\n", st.MonthlyReviews())
	fmt.Printf("Completion rate: %.0f%%\n", st.CompletionRate()*100)
	if last := st.LastBackupAt(); !last.IsZero() {
		fmt.Printf("Last backup: %s\n", last.Format("2006-01-02 15:04:05"))
	}

	report := st.PerformIntegrityCheck()
	fmt.Printf("Integrity: %s\n", report.Status)
	for _, issue := range report.Issues {
		fmt.Printf("  - %s\n", issue)
	}

	gw, err := analysis.NewGateway(cfg.AnalysisConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init gateway: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Providers:")
	for name, ok := range gw.ValidateCredentials() {
		fmt.Printf("  %-10s %s\n", name, usability(ok))
	}
}

func usability(ok bool) string {
	if ok {
		return "ready"
	}
	return "not configured"
}

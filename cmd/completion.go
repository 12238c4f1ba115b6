package cmd

import (
	"flag"
	"os"
	"strconv"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers shell completion requests and exits, it returns immediately otherwise.
//
// Install the bash completion with:
//
//	COMP_INSTALL=1 mm
func Complete(cdr *subcommands.Commander, name string) {
	if os.Getenv("COMP_LINE") == "" && os.Getenv("COMP_INSTALL") == "" && os.Getenv("COMP_UNINSTALL") == "" {
		return
	}
	categories := moneymanager.DefaultCategories()
	if cfg, err := LoadConfig(); err == nil && len(cfg.Account.Categories) > 0 {
		categories = cfg.Account.Categories
	}
	completionCommand(cdr, categories).Complete(name)
}

// completionCommand describes the registered subcommands and their flags.
func completionCommand(cdr *subcommands.Commander, categories []string) *complete.Command {
	kinds := make([]string, 0, 3)
	for _, k := range moneymanager.Kinds() {
		kinds = append(kinds, k.String())
	}
	topics, _ := docs.GetAllTopics()
	var years []string
	for _, y := range date.Years(date.Today(), 10) {
		years = append(years, strconv.Itoa(y))
	}

	// predictors of flags that have a known set of values.
	known := map[string]complete.Predictor{
		"c":     predict.Set(categories),
		"month": predict.Set(date.Months()),
		"year":  predict.Set(years),
		"kind":  predict.Set(kinds),
		"o":     predict.Files("*.png"),
	}

	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"config":   predict.Files("*"),
			"env-file": predict.Files("*"),
			"plain":    predict.Nothing,
			"v":        predict.Nothing,
		},
	}
	cdr.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		f.VisitAll(func(fl *flag.Flag) {
			switch {
			case known[fl.Name] != nil:
				sub.Flags[fl.Name] = known[fl.Name]
			case isBool(fl):
				sub.Flags[fl.Name] = predict.Nothing
			default:
				sub.Flags[fl.Name] = predict.Something
			}
		})
		if c.Name() == "topic" {
			sub.Args = predict.Set(topics)
		}
		root.Sub[c.Name()] = sub
	})
	return root
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

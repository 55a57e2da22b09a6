package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sgostarter/growthfit/analysis"
	"github.com/sgostarter/growthfit/dataset"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"gopkg.in/yaml.v3"
)

const (
	defaultRegionsFile = "dpc-covid19-ita-regioni.json"
	defaultNationFile  = "dpc-covid19-ita-andamento-nazionale.json"
)

func main() {
	var (
		fConfig   = flag.String("config", "", "yaml config file")
		fDataDir  = flag.String("data", ".", "directory holding the json data files")
		fRegions  = flag.String("regions", defaultRegionsFile, "per-region json file")
		fNation   = flag.String("nation", defaultNationFile, "national json file")
		fMode     = flag.String("mode", "summary", "summary | plot | nation")
		fEntities = flag.String("entities", "", "comma separated regions to plot (plot mode)")
		fModel    = flag.String("model", "", "override model: exponential | logistic")
		fYField   = flag.String("y", "", "override the fitted field")
		fForward  = flag.Int("forward", 0, "override extrapolation days")
		fParallel = flag.Bool("parallel", false, "fit summary regions in parallel")
	)
	flag.Parse()

	logger := l.NewConsoleLoggerWrapper()

	cfg := &analysis.Config{}

	if *fConfig != "" {
		var err error

		cfg, err = analysis.LoadConfig(*fConfig)
		if err != nil {
			logger.WithFields(l.ErrorField(err), l.StringField("file", *fConfig)).Fatal("load config failed")
		}
	}

	if *fModel != "" {
		cfg.Model = *fModel
	}

	if *fYField != "" {
		cfg.YField = *fYField
	}

	if *fForward > 0 {
		cfg.ForwardDays = *fForward
	}

	if *fParallel {
		cfg.Parallel = true
	}

	analyzer, err := analysis.NewAnalyzer(cfg, logger)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("invalid config")
	}

	effective := analyzer.Config()
	loader := dataset.NewLoader(rawfs.NewFSStorage(*fDataDir), time.Minute, logger)

	switch *fMode {
	case "summary":
		ds, err := loader.LoadDataset(*fRegions, effective.EntityField, "")
		if err != nil {
			logger.WithFields(l.ErrorField(err)).Fatal("load regions failed")
		}

		lines, err := analyzer.Summary(context.Background(), ds)
		if err != nil {
			logger.WithFields(l.ErrorField(err)).Fatal("summary failed")
		}

		fmt.Print(analysis.FormatSummary(lines))
	case "plot":
		ds, err := loader.LoadDataset(*fRegions, effective.EntityField, "")
		if err != nil {
			logger.WithFields(l.ErrorField(err)).Fatal("load regions failed")
		}

		dumpPlot(logger, analyzer, ds, splitEntities(*fEntities))
	case "nation":
		ds, err := loader.LoadDataset(*fNation, "", effective.NationName)
		if err != nil {
			logger.WithFields(l.ErrorField(err)).Fatal("load nation failed")
		}

		dumpPlot(logger, analyzer, ds, nil)
	default:
		logger.Fatalf("unknown mode %q", *fMode)
	}
}

func splitEntities(s string) (entities []string) {
	for _, entity := range strings.Split(s, ",") {
		if entity = strings.TrimSpace(entity); entity != "" {
			entities = append(entities, entity)
		}
	}

	return
}

func dumpPlot(logger l.Wrapper, analyzer *analysis.Analyzer, ds *dataset.Dataset, entities []string) {
	group, err := analyzer.PlotGroup(ds, entities)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("plot failed")
	}

	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()

	if err = encoder.Encode(group); err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("encode plot data failed")
	}
}

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	// various formatters
	"github.com/bahetianjali/flow-low-parser/format"
	_ "github.com/bahetianjali/flow-low-parser/format/csv"
	_ "github.com/bahetianjali/flow-low-parser/format/json"

	// various transports
	"github.com/bahetianjali/flow-low-parser/transport"
	_ "github.com/bahetianjali/flow-low-parser/transport/file"

	// core libraries
	"github.com/bahetianjali/flow-low-parser/config"
	"github.com/bahetianjali/flow-low-parser/lookup"
	"github.com/bahetianjali/flow-low-parser/metrics"
	"github.com/bahetianjali/flow-low-parser/producer"
	"github.com/bahetianjali/flow-low-parser/utils"
	"github.com/bahetianjali/flow-low-parser/utils/debug"

	log "github.com/sirupsen/logrus"
)

var (
	version    = ""
	buildinfos = ""
	AppVersion = "flow-low-parser " + version + " " + buildinfos

	defaults = config.Defaults()

	ConfigFile = flag.String("config", "", "YAML configuration file")

	LookupTable = flag.String("lookuptable", defaults.LookupTable, "Path to the lookup table CSV file")
	FlowLogs    = flag.String("flowlogs", defaults.FlowLogs, "Path to the flow logs file")

	LogLevel = flag.String("loglevel", defaults.LogLevel, "Log level")
	LogFile  = flag.String("log.file", defaults.LogFile, "Log file (empty for console only)")

	Format    = flag.String("format", defaults.Format, fmt.Sprintf("Choose the format (available: %s)", strings.Join(format.GetFormats(), ", ")))
	Transport = flag.String("transport", defaults.Transport, fmt.Sprintf("Choose the transport (available: %s)", strings.Join(transport.GetTransports(), ", ")))

	ErrCnt = flag.Int("err.cnt", 100, "Maximum invalid-record warnings per interval before muting")
	ErrInt = flag.Duration("err.int", time.Second*10, "Muting interval for invalid-record warnings")

	MetricsPush = flag.String("metrics.push", "", "Pushgateway URI for end-of-run metrics (empty to disable)")

	Version = flag.Bool("v", false, "Print version")
)

// resolveConfig merges defaults, YAML file, and environment, then overlays
// any flag set explicitly on the command line.
func resolveConfig() (config.Config, error) {
	cfg, err := config.Resolve(*ConfigFile)
	if err != nil {
		return cfg, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lookuptable":
			cfg.LookupTable = *LookupTable
		case "flowlogs":
			cfg.FlowLogs = *FlowLogs
		case "loglevel":
			cfg.LogLevel = *LogLevel
		case "log.file":
			cfg.LogFile = *LogFile
		case "format":
			cfg.Format = *Format
		case "transport":
			cfg.Transport = *Transport
		case "metrics.push":
			cfg.MetricsPush = *MetricsPush
		}
	})
	return cfg, nil
}

func setupLogging(cfg config.Config) {
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	if cfg.LogFile == "" {
		return
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.WithError(err).Warn("could not open log file, logging to console only")
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
}

func main() {
	flag.Parse()

	if *Version {
		fmt.Println(AppVersion)
		os.Exit(0)
	}

	cfg, err := resolveConfig()
	if err != nil {
		log.Fatal(err)
	}

	setupLogging(cfg)

	protocols, err := lookup.LoadProtocolTable(config.ProtocolNumbersFile)
	if err != nil {
		log.Fatal(err)
	}
	log.WithField("entries", len(protocols)).Info("protocol table loaded")

	log.Info("loading lookup table")
	table, err := lookup.LoadTable(cfg.LookupTable)
	if err != nil {
		log.Fatal(err)
	}
	log.WithField("entries", len(table)).Info("lookup table loaded")

	formatter, err := format.FindFormat(cfg.Format)
	if err != nil {
		log.Fatal(err)
	}

	transporter, err := transport.FindTransport(cfg.Transport)
	if err != nil {
		log.Fatal(err)
	}

	var flowProducer producer.ProducerInterface
	flowProducer = producer.NewClassifierProducer(protocols, table)
	// intercept panics during validation and classification
	flowProducer = debug.WrapPanicProducer(flowProducer)

	pipe := utils.NewBatchPipe(&utils.PipeConfig{
		Format:         formatter,
		Transport:      transporter,
		Producer:       flowProducer,
		ErrorsMax:      *ErrCnt,
		ErrorsInterval: *ErrInt,
	})

	if err := pipe.ProcessFile(cfg.FlowLogs); err != nil {
		log.Fatal(err)
	}

	if err := pipe.Finish(); err != nil {
		log.Fatal(err)
	}
	pipe.Close()

	if err := transporter.Close(); err != nil {
		log.Fatal(err)
	}

	logger := log.StandardLogger()
	if pathFct, ok := transporter.TransportDriver.(interface {
		Path() string
	}); ok && pathFct.Path() != "" {
		logger.WithField("file", pathFct.Path()).Info("tag counts and port/protocol counts written")
	} else {
		logger.Info("report written")
	}

	if cfg.MetricsPush != "" {
		if err := metrics.Push(cfg.MetricsPush); err != nil {
			log.WithError(err).Warn("metrics push failed")
		}
	}

	log.Info("program finished execution")
}

/*

Ratesig assigns, per gene and per kinetic rate (RNA synthesis,
degradation and processing), a combined p-value measuring whether
time-dependent variation of that rate is statistically supported,
given a bank of nested kinetic models fit to each gene's expression
trajectory.

The basic usage of ratesig looks like this:

	ratesig bank.json

, this will combine the configured likelihood-ratio tests with Brown's
method and print the per-gene table as JSON.

You can switch to best-model selection by AIC and override the
goodness-of-fit threshold:

	ratesig -mode aic bank.json
	ratesig -ctsh 0.05 bank.json

To see all the options run:

	ratesig -h

*/
package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"github.com/rnadyn/ratesig/checkpoint"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("ratesig")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("ratesig", "rate variability significance from nested kinetic model fits").Version(version)

	// input fit banks
	bankFileNames = app.Arg("bank", "fit bank JSON file(s)").Required().ExistingFiles()

	// computation parameters
	modeOverride = app.Flag("mode", "override model selection mode (llr or aic)").String()
	cTsh         = app.Flag("ctsh", "override chi-squared goodness-of-fit threshold").Default("NaN").Float64()

	// technical
	nThreads    = app.Flag("nt", "number of threads to use").Int()
	checkpointF = app.Flag("checkpoint", "checkpoint database filename").String()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file (stdout by default)").String()
)

// processFile computes (or reuses from a checkpoint) the rate p-value
// table of one fit bank.
func processFile(fileName string, db *bolt.DB) (fs FileSummary) {
	startTime := time.Now()

	content, err := os.ReadFile(fileName)
	if err != nil {
		log.Fatal(err)
	}

	m, err := readBank(bytes.NewReader(content))
	if err != nil {
		log.Fatalf("%s: %v", fileName, err)
	}

	if *modeOverride != "" {
		m.Config.ModelSelection = *modeOverride
	}

	fs.File = fileName
	fs.NGenes = len(m.Bank.Genes())
	fs.Mode = m.Config.ModelSelection
	if m.Config.ModelSelection == "llr" {
		threshold := *cTsh
		if math.IsNaN(threshold) {
			threshold = m.Config.ChisqThreshold
		}
		fs.Threshold = fptr(threshold)
	}

	log.Infof("%s: %d genes, mode %q", fileName, fs.NGenes, fs.Mode)

	// the checkpoint key covers the input document and every
	// configuration override
	h := sha256.New()
	h.Write(content)
	fmt.Fprintf(h, "|%s|%v", m.Config.ModelSelection, *cTsh)
	cio := checkpoint.NewResultIO(db, h.Sum(nil))

	res, err := cio.GetResult()
	if err != nil {
		log.Error("Error reading checkpoint:", err)
	}
	if res != nil {
		log.Noticef("%s: reusing checkpointed result", fileName)
		fs.Checkpointed = true
		fs.Table = res.Rows
		fs.Rates = rateSummaries(rowsToTable(res.Rows))
		fs.Time = time.Since(startTime).Seconds()
		return
	}

	tab, err := m.RatePvals(*cTsh)
	if err != nil {
		log.Fatalf("%s: %v", fileName, err)
	}

	fs.Table = tableRows(tab)
	fs.Rates = rateSummaries(tab)

	if err := cio.Save(&checkpoint.ResultData{Rows: fs.Table, Final: true}); err != nil {
		log.Error("Error saving checkpoint:", err)
	}

	fs.Time = time.Since(startTime).Seconds()
	log.Noticef("%s: computation time: %.3fs", fileName, fs.Time)
	return
}

func main() {
	startTime := time.Now()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "ratesig")
	logging.SetLevel(level, "rates")
	logging.SetLevel(level, "checkpoint")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	runtime.GOMAXPROCS(*nThreads)
	effectiveNThreads := runtime.GOMAXPROCS(0)
	log.Infof("Using threads: %d.", effectiveNThreads)

	var db *bolt.DB
	if *checkpointF != "" {
		db, err = bolt.Open(*checkpointF, 0644, nil)
		if err != nil {
			log.Fatal("Error opening checkpoint database:", err)
		}
		defer db.Close()
	}

	summary := CallSummary{
		Version:     version,
		CommandLine: os.Args,
		NThreads:    effectiveNThreads,
	}

	for _, fileName := range *bankFileNames {
		summary.Files = append(summary.Files, processFile(fileName, db))
	}

	summary.TotalTime = time.Since(startTime).Seconds()
	log.Noticef("Running time: %.3fs", summary.TotalTime)

	// output summary in json format
	j, err := json.Marshal(summary)
	if err != nil {
		log.Fatal(err)
	}
	if *jsonF != "" {
		f, err := os.Create(*jsonF)
		if err != nil {
			log.Fatal("Error creating json output file:", err)
		}
		f.Write(j)
		f.Write([]byte("\n"))
		f.Close()
	} else {
		os.Stdout.Write(j)
		os.Stdout.Write([]byte("\n"))
	}
}

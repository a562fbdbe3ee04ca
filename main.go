package main

import (
	"fmt"
	"os"

	"github.com/servicecomb/springmvc-contract-tests/framework"
	"github.com/servicecomb/springmvc-contract-tests/springmvctests"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args) {
		return 1
	}

	zapLogger, err := newProcessLogger(params.debugAll)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not create logger: %s\n", err)
		return 1
	}
	processLogger := framework.NewZapLogger(zapLogger)
	defer func() { _ = processLogger.Sync() }()

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = framework.LoggerWithPrefix(processLogger, "[harness] ")
	}

	harness, err := framework.NewTestHarness(framework.HarnessConfig{
		Registry:           params.buildRegistry(),
		SourceMicroservice: params.serviceName,
		Provider:           params.provider,
		BasePath:           springmvctests.BasePath,
		TestRunID:          params.testRunID,
		RequestTimeout:     params.requestTimeout(),
		StartupTimeout:     startupTimeout,
		DebugLogger:        mainDebugLogger,
		ErrorLogger:        errorLogger{processLogger},
	}, os.Stdout)
	if err != nil {
		processLogger.Errorf("Provider error: %s", err)
		return 1
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Printf("Running test suite (run ID %s)\n", params.testRunID)

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := springmvctests.RunTestSuite(harness, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To run only the failed tests:")
		fmt.Printf("  %s\n", params.rerunCommand(args[0], failedTests(results)))
		return 1
	}
	return 0
}

// newProcessLogger logs everything in development format when debugging, and otherwise only
// errors, to stderr.
func newProcessLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	config.Encoding = "console"
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

// errorLogger writes Printf messages at error level.
type errorLogger struct {
	base *framework.ZapLogger
}

func (e errorLogger) Printf(message string, args ...interface{}) {
	e.base.Errorf(message, args...)
}

// failedTests returns the tests that recorded errors of their own, leaving out parents that
// failed only because of a subtest.
func failedTests(results framework.Results) []framework.TestID {
	var ret []framework.TestID
	for _, f := range results.Failures {
		if len(f.Errors) > 0 {
			ret = append(ret, f.TestID)
		}
	}
	return ret
}

package framework

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loggedEvent struct {
	kind string
	id   string
	info string
}

type recordingTestLogger struct {
	events []loggedEvent
}

func (r *recordingTestLogger) TestStarted(id TestID) {
	r.events = append(r.events, loggedEvent{kind: "started", id: id.String()})
}

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.events = append(r.events, loggedEvent{kind: "error", id: id.String(), info: err.Error()})
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, _ CapturedOutput) {
	r.events = append(r.events, loggedEvent{kind: "finished", id: id.String(), info: fmt.Sprint(failed)})
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.events = append(r.events, loggedEvent{kind: "skipped", id: id.String(), info: reason})
}

func failureIDs(results Results) []string {
	var ret []string
	for _, f := range results.Failures {
		ret = append(ret, f.TestID.String())
	}
	return ret
}

func TestErrorfDoesNotStopTest(t *testing.T) {
	reached := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Errorf("first %d", 1)
			c.Errorf("second")
			reached = true
		})
	})
	assert.True(t, reached)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "a", results.Failures[0].TestID.String())
	require.Len(t, results.Failures[0].Errors, 2)
	assert.EqualError(t, results.Failures[0].Errors[0], "first 1")
	assert.False(t, results.OK())
}

func TestFailNowStopsOnlyCurrentTest(t *testing.T) {
	var ran []string
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Errorf("bad")
			c.FailNow()
			ran = append(ran, "after FailNow")
		})
		c.Run("b", func(c *Context) {
			ran = append(ran, "b")
		})
	})
	assert.Equal(t, []string{"b"}, ran)
	assert.Equal(t, []string{"a"}, failureIDs(results))
	assert.Equal(t, 1, results.Passed())
}

func TestFailNowWithoutMessage(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) { c.FailNow() })
	})
	require.Len(t, results.Failures, 1)
	assert.EqualError(t, results.Failures[0].Errors[0], "test failed with no failure message")
}

func TestPanicIsRecordedAsFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) { panic("oops") })
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: oops")
}

func TestSubtestFailureMarksParentFailed(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("parent", func(c *Context) {
			c.Run("child", func(c *Context) { c.Errorf("bad") })
			c.Run("sibling", func(c *Context) {})
		})
	})
	assert.ElementsMatch(t, []string{"parent/child", "parent"}, failureIDs(results))
	assert.Len(t, results.Tests, 3)
	assert.Equal(t, 1, results.Passed())
}

func TestSkip(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.SkipWithReason("no temp dir")
			c.Errorf("not reached")
		})
	})
	assert.True(t, results.OK())
	assert.Equal(t, 1, results.Skipped())
	assert.Equal(t, 0, results.Passed())
	assert.Equal(t, []loggedEvent{
		{kind: "started", id: "a"},
		{kind: "skipped", id: "a", info: "no temp dir"},
	}, logger.events)
}

func TestDeferRunsInReverseOrder(t *testing.T) {
	var order []string
	Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Defer(func() { order = append(order, "first") })
			c.Defer(func() { order = append(order, "second") })
			c.FailNow()
		})
	})
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestFilterExcludesTests(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("^a/skipme$"))
	logger := &recordingTestLogger{}
	var ran []string
	Run(filters.AsFilter, logger, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Run("skipme", func(c *Context) { ran = append(ran, c.ID().String()) })
			c.Run("keep", func(c *Context) { ran = append(ran, c.ID().String()) })
		})
	})
	assert.Equal(t, []string{"a/keep"}, ran)
	assert.Contains(t, logger.events, loggedEvent{kind: "skipped", id: "a/skipme", info: "excluded by filter parameters"})
}

func TestTestLoggerEvents(t *testing.T) {
	logger := &recordingTestLogger{}
	Run(nil, logger, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Debug("hidden")
			c.Errorf("bad")
		})
	})
	assert.Equal(t, []loggedEvent{
		{kind: "started", id: "a"},
		{kind: "error", id: "a", info: "bad"},
		{kind: "finished", id: "a", info: "true"},
	}, logger.events)
}

func TestDebugOutputIsCaptured(t *testing.T) {
	var output CapturedOutput
	logger := &capturingTestLogger{onFinish: func(o CapturedOutput) { output = o }}
	Run(nil, logger, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Debug("value is %d", 3)
			c.DebugLogger().Printf("second")
		})
	})
	require.Len(t, output, 2)
	assert.Equal(t, "value is 3", output[0].Message)
	assert.Equal(t, "second", output[1].Message)
}

type capturingTestLogger struct {
	recordingTestLogger
	onFinish func(CapturedOutput)
}

func (c *capturingTestLogger) TestFinished(_ TestID, _ bool, output CapturedOutput) {
	c.onFinish(output)
}

// Package drivertest provides vendor-agnostic conformance testing for device drivers.
package drivertest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"

	"github.com/fabric-control/fcc/internal/driver"
	"github.com/fabric-control/fcc/internal/xmlconfig"
)

// Capabilities defines what the driver under test is expected to accept.
type Capabilities struct {
	DeviceID string

	// ValidFragments must render without error.
	ValidFragments []xmlconfig.Fragment

	// OutOfRangeFragments must each be rejected with driver.ErrInvalidRange.
	// Drivers that do no vendor validation leave this empty.
	OutOfRangeFragments []xmlconfig.Fragment
}

// ConformanceResult represents the result of a conformance test.
type ConformanceResult struct {
	TestName string
	Passed   bool
	Error    string
	Duration time.Duration
	Details  map[string]interface{}
}

// ConformanceReport represents the complete conformance test report.
type ConformanceReport struct {
	DriverName    string
	TotalTests    int
	PassedTests   int
	FailedTests   int
	Results       []ConformanceResult
	OverallPassed bool
	Duration      time.Duration
}

// RunConformance runs the complete conformance test suite for a driver.
func RunConformance(t *testing.T, newDriver func() driver.Driver, caps Capabilities) {
	startTime := time.Now()

	report := &ConformanceReport{
		DriverName:    newDriver().GetModel(),
		Results:       []ConformanceResult{},
		OverallPassed: true,
	}

	runIdentityTests(newDriver, caps, report)
	runEmptyDocumentTests(newDriver, report)
	runOrderingTests(newDriver, caps, report)
	runInvalidFragmentTests(newDriver, caps, report)
	runCancellationTests(newDriver, caps, report)
	runIdempotencyTests(newDriver, caps, report)
	runRangeTests(newDriver, caps, report)

	report.Duration = time.Since(startTime)

	printConformanceReport(t, report)

	if !report.OverallPassed {
		t.Fatalf("Driver conformance test failed: %d/%d tests passed", report.PassedTests, report.TotalTests)
	}
}

func runIdentityTests(newDriver func() driver.Driver, caps Capabilities, report *ConformanceReport) {
	drv := newDriver()
	result := ConformanceResult{TestName: "Identity", Details: map[string]interface{}{}}

	switch {
	case drv.GetDeviceID() != caps.DeviceID:
		result.Error = fmt.Sprintf("GetDeviceID() = %q, want %q", drv.GetDeviceID(), caps.DeviceID)
	case drv.GetModel() == "":
		result.Error = "GetModel() returned an empty model"
	default:
		result.Passed = true
		result.Details["model"] = drv.GetModel()
	}

	report.addResult(result)
}

func runEmptyDocumentTests(newDriver func() driver.Driver, report *ConformanceReport) {
	result := ConformanceResult{TestName: "Render_Empty", Details: map[string]interface{}{}}
	start := time.Now()

	doc, err := newDriver().RenderConfig(context.Background(), nil)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = fmt.Sprintf("RenderConfig(nil) failed: %v", err)
	} else if root, perr := parseRoot(doc); perr != nil {
		result.Error = perr.Error()
	} else if len(root.ChildElements()) != 0 {
		result.Error = fmt.Sprintf("empty render has %d children", len(root.ChildElements()))
	} else {
		result.Passed = true
	}

	report.addResult(result)
}

func runOrderingTests(newDriver func() driver.Driver, caps Capabilities, report *ConformanceReport) {
	result := ConformanceResult{TestName: "Render_Order", Details: map[string]interface{}{}}
	start := time.Now()

	doc, err := newDriver().RenderConfig(context.Background(), caps.ValidFragments)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = fmt.Sprintf("RenderConfig failed: %v", err)
		report.addResult(result)
		return
	}

	root, err := parseRoot(doc)
	if err != nil {
		result.Error = err.Error()
		report.addResult(result)
		return
	}

	children := root.ChildElements()
	if len(children) != len(caps.ValidFragments) {
		result.Error = fmt.Sprintf("document has %d children, want %d", len(children), len(caps.ValidFragments))
		report.addResult(result)
		return
	}

	for i, f := range caps.ValidFragments {
		want := f.ToXMLElement().FullTag()
		if children[i].FullTag() != want {
			result.Error = fmt.Sprintf("child %d is <%s>, want <%s>", i, children[i].FullTag(), want)
			report.addResult(result)
			return
		}
	}

	result.Passed = true
	result.Details["children"] = len(children)
	report.addResult(result)
}

func runInvalidFragmentTests(newDriver func() driver.Driver, caps Capabilities, report *ConformanceReport) {
	result := ConformanceResult{TestName: "Render_InvalidFragment", Details: map[string]interface{}{}}

	fragments := append(append([]xmlconfig.Fragment{}, caps.ValidFragments...), nil)
	doc, err := newDriver().RenderConfig(context.Background(), fragments)

	var cfgErr *xmlconfig.ConfigurationError
	switch {
	case err == nil:
		result.Error = "RenderConfig accepted a nil fragment"
	case doc != "":
		result.Error = "RenderConfig returned partial output with an error"
	case !errors.As(err, &cfgErr):
		result.Error = fmt.Sprintf("expected ConfigurationError, got %T: %v", err, err)
	default:
		result.Passed = true
		result.Details["index"] = cfgErr.Index
	}

	report.addResult(result)
}

func runCancellationTests(newDriver func() driver.Driver, caps Capabilities, report *ConformanceReport) {
	result := ConformanceResult{TestName: "Render_Cancelled", Details: map[string]interface{}{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newDriver().RenderConfig(ctx, caps.ValidFragments)
	if !errors.Is(err, context.Canceled) {
		result.Error = fmt.Sprintf("expected context.Canceled, got %v", err)
	} else {
		result.Passed = true
	}

	report.addResult(result)
}

func runIdempotencyTests(newDriver func() driver.Driver, caps Capabilities, report *ConformanceReport) {
	result := ConformanceResult{TestName: "Render_Idempotent", Details: map[string]interface{}{}}
	drv := newDriver()
	ctx := context.Background()

	first, err1 := drv.RenderConfig(ctx, caps.ValidFragments)
	second, err2 := drv.RenderConfig(ctx, caps.ValidFragments)

	switch {
	case err1 != nil || err2 != nil:
		result.Error = fmt.Sprintf("RenderConfig failed: %v / %v", err1, err2)
	case first != second:
		result.Error = "repeated renders differ"
	default:
		result.Passed = true
	}

	report.addResult(result)
}

func runRangeTests(newDriver func() driver.Driver, caps Capabilities, report *ConformanceReport) {
	for i, f := range caps.OutOfRangeFragments {
		result := ConformanceResult{
			TestName: fmt.Sprintf("Render_OutOfRange_%d", i),
			Details:  map[string]interface{}{},
		}

		_, err := newDriver().RenderConfig(context.Background(), []xmlconfig.Fragment{f})
		if err == nil {
			result.Error = "out-of-range fragment was accepted"
		} else if !errors.Is(err, driver.ErrInvalidRange) {
			result.Error = fmt.Sprintf("expected INVALID_RANGE, got: %v", err)
		} else {
			result.Passed = true
			result.Details["actualError"] = err.Error()
		}

		report.addResult(result)
	}
}

func parseRoot(doc string) (*etree.Element, error) {
	d := etree.NewDocument()
	if err := d.ReadFromString(doc); err != nil {
		return nil, fmt.Errorf("rendered document is not XML: %v", err)
	}
	root := d.Root()
	if root == nil || root.FullTag() != xmlconfig.RootTag {
		return nil, fmt.Errorf("rendered document has no <%s> root", xmlconfig.RootTag)
	}
	return root, nil
}

func (r *ConformanceReport) addResult(result ConformanceResult) {
	r.TotalTests++
	if result.Passed {
		r.PassedTests++
	} else {
		r.FailedTests++
		r.OverallPassed = false
	}
	r.Results = append(r.Results, result)
}

func printConformanceReport(t *testing.T, report *ConformanceReport) {
	t.Logf("\n%s", strings.Repeat("=", 80))
	t.Logf("DRIVER CONFORMANCE REPORT")
	t.Logf("%s", strings.Repeat("=", 80))
	t.Logf("Driver: %s", report.DriverName)
	t.Logf("Total Tests: %d", report.TotalTests)
	t.Logf("Passed: %d", report.PassedTests)
	t.Logf("Failed: %d", report.FailedTests)
	t.Logf("Overall: %s", map[bool]string{true: "PASS", false: "FAIL"}[report.OverallPassed])
	t.Logf("Duration: %v", report.Duration)
	t.Logf("%s", strings.Repeat("-", 80))

	t.Logf("%-30s %-8s %-12s %-s", "TEST NAME", "RESULT", "DURATION", "DETAILS")
	t.Logf("%s", strings.Repeat("-", 80))

	for _, result := range report.Results {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}

		details := ""
		if result.Error != "" {
			details = result.Error
		} else if len(result.Details) > 0 {
			var detailParts []string
			for k, v := range result.Details {
				detailParts = append(detailParts, fmt.Sprintf("%s=%v", k, v))
			}
			details = strings.Join(detailParts, ", ")
		}

		t.Logf("%-30s %-8s %-12s %-s",
			result.TestName,
			status,
			result.Duration.String(),
			details)
	}

	t.Logf("%s", strings.Repeat("=", 80))
}

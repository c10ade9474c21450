package testutil

import (
	"math"
	"testing"
)

func TestSampleReport(t *testing.T) {
	report := SampleReport(t)

	if report.Growth == nil || report.Retirement == nil || report.Bond == nil {
		t.Fatalf("expected every section, got %+v", report)
	}
	if math.Abs(report.Growth.FinalBalance-1420) > 1e-9 {
		t.Errorf("final balance = %v, expected 1420", report.Growth.FinalBalance)
	}
	if report.Bond.PresentValueTotal != 957.87 {
		t.Errorf("bond price = %v, expected 957.87", report.Bond.PresentValueTotal)
	}
	if math.Abs(report.Retirement.Tax.Tax-123.9) > 1e-9 {
		t.Errorf("tax = %v, expected 123.9", report.Retirement.Tax.Tax)
	}
}

func TestSamplePlanIsIndependent(t *testing.T) {
	a := SamplePlan()
	a.Growth.Years = 99
	if SamplePlan().Growth.Years != 2 {
		t.Errorf("SamplePlan should return fresh sections on every call")
	}
}

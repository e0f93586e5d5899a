package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StressTestIntensity controls how many adversarial scenarios a run exercises.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type StressTestIntensity string

const (
	// IntensityLight runs a small scenario set.
	IntensityLight StressTestIntensity = "light"
	// IntensityModerate runs a medium scenario set.
	IntensityModerate StressTestIntensity = "moderate"
	// IntensityAggressive runs the full scenario catalog.
	IntensityAggressive StressTestIntensity = "aggressive"
)

// Valid returns true if the intensity is a known value.
func (i StressTestIntensity) Valid() bool {
	return i == IntensityLight || i == IntensityModerate || i == IntensityAggressive
}

// UnmarshalText implements encoding.TextUnmarshaler for StressTestIntensity.
func (i *StressTestIntensity) UnmarshalText(text []byte) error {
	v := StressTestIntensity(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid StressTestIntensity: %q", string(text))
	}
	*i = v
	return nil
}

// StressTestParameters is the immutable input snapshot for a stress-test run.
type StressTestParameters struct {
	Intensity     StressTestIntensity `json:"intensity"`
	HypothesisIDs []string            `json:"hypothesis_ids,omitempty"`
}

// Validate validates stress-test parameters.
func (p *StressTestParameters) Validate() error {
	if !p.Intensity.Valid() {
		return errors.New("intensity must be one of light, moderate, aggressive")
	}
	return nil
}

// ScenarioResult captures the outcome of one adversarial scenario against one hypothesis.
type ScenarioResult struct {
	Scenario     string  `json:"scenario"`
	HypothesisID string  `json:"hypothesis_id"`
	RiskScore    float64 `json:"risk_score"`
	Vulnerable   bool    `json:"vulnerable"`
	Notes        string  `json:"notes,omitempty"`
}

// StressTestResult is the result payload written when a stress-test run completes.
type StressTestResult struct {
	Intensity            StressTestIntensity `json:"intensity"`
	ScenariosRun         int                 `json:"scenarios_run"`
	HypothesesTested     int                 `json:"hypotheses_tested"`
	OverallRiskScore     float64             `json:"overall_risk_score"`
	VulnerabilitiesFound int                 `json:"vulnerabilities_found"`
	Scenarios            []ScenarioResult    `json:"scenarios,omitempty"`
}

// StressTestStats summarises stress-test runs for one engagement.
type StressTestStats struct {
	ByStatus        WorkItemStats  `json:"by_status"`
	ByIntensity     map[string]int `json:"by_intensity"`
	AvgRiskScore    *float64       `json:"avg_risk_score,omitempty"`
	AvgDurationSecs *float64       `json:"avg_duration_secs,omitempty"`
	LastRunAt       *time.Time     `json:"last_run_at,omitempty"`
}

package params

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	q := p
	q.Validate()
	if p != q {
		t.Errorf("Validate changed defaults:\n got %+v\nwant %+v", q, p)
	}
}

func TestValidateHysteresis(t *testing.T) {
	p := Default()
	p.EngageThreshold = 0.2
	p.DisengageThreshold = 0.5
	p.LocalEngageThreshold = -0.1
	p.LocalDisengageThreshold = 0.3
	p.Validate()
	if p.DisengageThreshold != 0.2 {
		t.Errorf("DisengageThreshold = %v, want 0.2", p.DisengageThreshold)
	}
	if p.LocalDisengageThreshold != -0.1 {
		t.Errorf("LocalDisengageThreshold = %v, want -0.1", p.LocalDisengageThreshold)
	}
}

func TestValidateClamps(t *testing.T) {
	p := Default()
	p.LanchesterDimension = 3
	p.SimSteps = 0
	p.GasRatio = -1
	p.Validate()
	if p.LanchesterDimension != 2 {
		t.Errorf("LanchesterDimension = %v, want 2", p.LanchesterDimension)
	}
	if p.SimSteps != 1 {
		t.Errorf("SimSteps = %v, want 1", p.SimSteps)
	}
	if p.GasRatio != 0 {
		t.Errorf("GasRatio = %v, want 0", p.GasRatio)
	}
}

func TestFromVector(t *testing.T) {
	p, err := Default().FromVector(map[string]float64{
		"engage_threshold":     0.25,
		"tech_priority.offset": -0.5,
		"sim_steps":            12,
		"not_a_parameter":      1,
	})
	if err != nil {
		t.Fatalf("FromVector: %v", err)
	}
	if p.EngageThreshold != 0.25 {
		t.Errorf("EngageThreshold = %v, want 0.25", p.EngageThreshold)
	}
	if p.TechPriority.Offset != -0.5 {
		t.Errorf("TechPriority.Offset = %v, want -0.5", p.TechPriority.Offset)
	}
	if p.TechPriority.Value != Default().TechPriority.Value {
		t.Errorf("TechPriority.Value = %v, want default", p.TechPriority.Value)
	}
	if p.SimSteps != 12 {
		t.Errorf("SimSteps = %v, want 12", p.SimSteps)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	content := "counter_factor: 3\nbuild_order: POOL_FIRST\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.CounterFactor != 3 {
		t.Errorf("CounterFactor = %v, want 3", p.CounterFactor)
	}
	if p.BuildOrder != "POOL_FIRST" {
		t.Errorf("BuildOrder = %q, want POOL_FIRST", p.BuildOrder)
	}
	if p.Tier1Drones != 32 {
		t.Errorf("Tier1Drones = %v, want default 32", p.Tier1Drones)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) returned nil error")
	}
}

func TestTransformApply(t *testing.T) {
	tr := Transform{Value: 2, Confidence: 0.5, Offset: -1}
	if got := tr.Apply(1, 2); got != 2 {
		t.Errorf("Apply = %v, want 2", got)
	}
}

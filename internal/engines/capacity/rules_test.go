package capacity

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/enermodel/capacity-planner/pkg/config"
	"github.com/enermodel/capacity-planner/pkg/core"
	"github.com/enermodel/capacity-planner/pkg/params"
)

// applyAll runs the full rule set over every index set, as the builder does.
func applyAll(t *testing.T, m *core.Model, store *params.Store, cfg config.RunConfig) {
	t.Helper()
	for _, rule := range Rules(cfg) {
		for _, lt := range m.LocTechs(rule.Kind()) {
			if err := rule.Apply(m, store, lt); err != nil {
				t.Fatalf("rule %s: %v", rule.Name(), err)
			}
		}
	}
}

func Test_energyCapacityRule_equals(t *testing.T) {
	m := core.NewModel()
	store := params.NewStore()
	lt := core.LocTech{Node: "region1", Tech: "ccgt"}
	v := m.AddCapacityVariable(core.EnergyCap, lt)
	store.Set("energy_cap_equals", lt, params.Number(50))

	applyAll(t, m, store, config.Default())

	c, ok := m.Constraint("energy_cap_constraint[region1,ccgt]")
	if !ok {
		t.Fatal("energy_cap constraint not registered")
	}
	want := core.Equality("energy_cap_constraint[region1,ccgt]", core.VarExpr(v), 50)
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("constraint mismatch (-want +got):\n%s", diff)
	}
}

func Test_energyCapacityRule_scale(t *testing.T) {
	m := core.NewModel()
	store := params.NewStore()
	lt := core.LocTech{Node: "region1", Tech: "ccgt"}
	m.AddCapacityVariable(core.EnergyCap, lt)
	store.Set("energy_cap_equals", lt, params.Number(50))
	store.Set("energy_cap_scale", lt, params.Number(0.5))

	applyAll(t, m, store, config.Default())

	c, ok := m.Constraint("energy_cap_constraint[region1,ccgt]")
	if !ok {
		t.Fatal("energy_cap constraint not registered")
	}
	if c.Lower != 25 || c.Upper != 25 {
		t.Errorf("scaled equality = [%g, %g], want [25, 25]", c.Lower, c.Upper)
	}
}

func Test_energyCapacityRule_noBoundsNoConstraint(t *testing.T) {
	m := core.NewModel()
	store := params.NewStore()
	lt := core.LocTech{Node: "region1", Tech: "ccgt"}
	m.AddCapacityVariable(core.EnergyCap, lt)

	applyAll(t, m, store, config.Default())

	if _, ok := m.Constraint("energy_cap_constraint[region1,ccgt]"); ok {
		t.Error("no bounds configured, but a constraint was registered")
	}
	if !m.IsUnconstrained("energy_cap_constraint[region1,ccgt]") {
		t.Error("expected an explicit no-constraint marker")
	}
}

func Test_storageAndResourceRules_bounds(t *testing.T) {
	m := core.NewModel()
	store := params.NewStore()
	lt := core.LocTech{Node: "region2", Tech: "battery"}
	m.AddCapacityVariable(core.StorageCap, lt)
	m.AddCapacityVariable(core.ResourceCap, lt)
	store.Set("storage_cap_max", lt, params.Number(5000))
	store.Set("resource_cap_min", lt, params.Number(10))
	store.Set("resource_cap_max", lt, params.Number(100))

	applyAll(t, m, store, config.Default())

	sc, ok := m.Constraint("storage_cap_constraint[region2,battery]")
	if !ok {
		t.Fatal("storage_cap constraint not registered")
	}
	if sc.Lower != 0 || sc.Upper != 5000 {
		t.Errorf("storage_cap bounds = [%g, %g], want [0, 5000]", sc.Lower, sc.Upper)
	}

	rc, ok := m.Constraint("resource_cap_constraint[region2,battery]")
	if !ok {
		t.Fatal("resource_cap constraint not registered")
	}
	if rc.Lower != 10 || rc.Upper != 100 {
		t.Errorf("resource_cap bounds = [%g, %g], want [10, 100]", rc.Lower, rc.Upper)
	}
}

func Test_resourceAreaRule_zeroForcing(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(s *params.Store, lt core.LocTech)
		wantLower float64
		wantUpper float64
	}{
		{
			name: "zero energy_cap_max without ratio forces area to zero",
			setup: func(s *params.Store, lt core.LocTech) {
				s.Set("energy_cap_max", lt, params.Number(0))
				// configured area bounds are overridden by the forcing
				s.Set("resource_area_max", lt, params.Number(100))
				s.Set("resource_area_min", lt, params.Number(1))
			},
			wantLower: 0,
			wantUpper: 0,
		},
		{
			name: "zero energy_cap_max with ratio set keeps normal bounds",
			setup: func(s *params.Store, lt core.LocTech) {
				s.Set("energy_cap_max", lt, params.Number(0))
				s.Set("resource_area_per_energy_cap", lt, params.Number(0.1))
				s.Set("resource_area_max", lt, params.Number(100))
			},
			wantLower: 0,
			wantUpper: 100,
		},
		{
			name: "positive energy_cap_max keeps normal bounds",
			setup: func(s *params.Store, lt core.LocTech) {
				s.Set("energy_cap_max", lt, params.Number(10))
				s.Set("resource_area_max", lt, params.Number(100))
			},
			wantLower: 0,
			wantUpper: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := core.NewModel()
			store := params.NewStore()
			lt := core.LocTech{Node: "region1", Tech: "pv"}
			m.AddCapacityVariable(core.ResourceArea, lt)
			m.AddCapacityVariable(core.EnergyCap, lt)
			tt.setup(store, lt)

			if err := (resourceAreaRule{}).Apply(m, store, lt); err != nil {
				t.Fatalf("resourceAreaRule: %v", err)
			}
			c, ok := m.Constraint("resource_area_constraint[region1,pv]")
			if !ok {
				t.Fatal("resource_area constraint not registered")
			}
			if c.Lower != tt.wantLower || c.Upper != tt.wantUpper {
				t.Errorf("resource_area bounds = [%g, %g], want [%g, %g]",
					c.Lower, c.Upper, tt.wantLower, tt.wantUpper)
			}
		})
	}
}

func Test_rules_skipPairsOutsideIndexSet(t *testing.T) {
	m := core.NewModel()
	store := params.NewStore()
	present := core.LocTech{Node: "region1", Tech: "pv"}
	m.AddCapacityVariable(core.EnergyCap, present)
	store.Set("energy_cap_max", present, params.Number(10))

	// region2 has parameters configured but no variable: not buildable there.
	absent := core.LocTech{Node: "region2", Tech: "pv"}
	store.Set("energy_cap_max", absent, params.Number(99))

	applyAll(t, m, store, config.Default())

	if _, ok := m.Constraint("energy_cap_constraint[region2,pv]"); ok {
		t.Error("constraint registered for a pair outside the index set")
	}
	if c, ok := m.Constraint("energy_cap_constraint[region1,pv]"); !ok || math.IsInf(c.Upper, 1) {
		t.Errorf("expected bounded constraint for the buildable pair, got %+v (present=%t)", c, ok)
	}
}

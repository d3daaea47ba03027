package builder

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enermodel/capacity-planner/pkg/config"
	"github.com/enermodel/capacity-planner/pkg/core"
	"github.com/enermodel/capacity-planner/pkg/params"
)

// testSystem declares a two-node system: a gas plant with an exact capacity
// at region1, solar with an area budget at both nodes, storage at region2.
func testSystem() (*core.Model, *params.Store) {
	m := core.NewModel()
	store := params.NewStore()

	ccgt := core.LocTech{Node: "region1", Tech: "ccgt"}
	pv1 := core.LocTech{Node: "region1", Tech: "pv"}
	pv2 := core.LocTech{Node: "region2", Tech: "pv"}
	battery := core.LocTech{Node: "region2", Tech: "battery"}

	for _, lt := range []core.LocTech{ccgt, pv1, pv2, battery} {
		m.AddCapacityVariable(core.EnergyCap, lt)
		m.AddCostVariable("monetary", lt)
	}
	m.AddCapacityVariable(core.ResourceArea, pv1)
	m.AddCapacityVariable(core.ResourceArea, pv2)
	m.AddCapacityVariable(core.StorageCap, battery)

	store.Set("energy_cap_equals", ccgt, params.Number(50))
	store.Set("energy_cap_max", pv1, params.Number(10000))
	store.Set("energy_cap_max", pv2, params.Number(10000))
	store.Set("storage_cap_max", battery, params.Number(5000))
	store.Set("energy_cap_per_storage_cap_max", battery, params.Number(4))
	store.SetTech("energy_cap_max_systemwide", "pv", params.Number(15000))
	store.SetNode("available_area", "region1", params.Number(100))

	m.AddTimestep(core.Timestep{Name: "t0", Weight: 1})
	m.AddTimestep(core.Timestep{Name: "t1", Weight: 2})
	for _, ts := range []string{"t0", "t1"} {
		m.AddSlackVariables("region1", "power", ts)
		m.AddSlackVariables("region2", "power", ts)
	}
	return m, store
}

var _ = Describe("Builder", func() {
	var (
		model *core.Model
		store *params.Store
		cfg   config.RunConfig
		ctx   context.Context
	)

	BeforeEach(func() {
		model, store = testSystem()
		cfg = config.Default()
		ctx = context.Background()
	})

	Context("construction", func() {
		It("rejects a nil model", func() {
			_, err := New(nil, store, cfg)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a nil resolver", func() {
			_, err := New(model, nil, cfg)
			Expect(err).To(HaveOccurred())
		})

		It("rejects an invalid run config", func() {
			cfg.Objective = "profit"
			_, err := New(model, store, cfg)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("building the full model", func() {
		JustBeforeEach(func() {
			b, err := New(model, store, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Build(ctx)).To(Succeed())
		})

		It("pins the gas plant capacity to its exact value", func() {
			c, ok := model.Constraint("energy_cap_constraint[region1,ccgt]")
			Expect(ok).To(BeTrue())
			Expect(c.IsEquality()).To(BeTrue())
			Expect(c.Lower).To(Equal(50.0))
		})

		It("bounds solar capacity at both nodes", func() {
			for _, name := range []string{
				"energy_cap_constraint[region1,pv]",
				"energy_cap_constraint[region2,pv]",
			} {
				c, ok := model.Constraint(name)
				Expect(ok).To(BeTrue(), name)
				Expect(c.Upper).To(Equal(10000.0))
			}
		})

		It("marks the battery energy capacity slot unconstrained", func() {
			Expect(model.IsUnconstrained("energy_cap_constraint[region2,battery]")).To(BeTrue())
		})

		It("ties battery energy capacity to its storage capacity", func() {
			c, ok := model.Constraint("energy_cap_per_storage_cap_max_constraint[region2,battery]")
			Expect(ok).To(BeTrue())
			Expect(c.Upper).To(Equal(0.0))
			Expect(math.IsInf(c.Lower, -1)).To(BeTrue())
		})

		It("caps systemwide solar capacity", func() {
			c, ok := model.Constraint("energy_cap_systemwide_constraint[pv]")
			Expect(ok).To(BeTrue())
			Expect(c.Body.Terms).To(HaveLen(2))
			Expect(c.Upper).To(Equal(15000.0))
		})

		It("caps area use only at the budgeted node", func() {
			c, ok := model.Constraint("available_area_constraint[region1]")
			Expect(ok).To(BeTrue())
			Expect(c.Upper).To(Equal(100.0))

			_, ok = model.Constraint("available_area_constraint[region2]")
			Expect(ok).To(BeFalse())
		})

		It("registers a cost objective without slack terms", func() {
			obj, ok := model.Objective()
			Expect(ok).To(BeTrue())
			Expect(obj.Sense).To(Equal(core.Minimize))
			for _, term := range obj.Expr.Terms {
				Expect(term.Var.Set).To(Equal(core.CostSet))
			}
		})
	})

	Context("with ensure_feasibility set", func() {
		BeforeEach(func() {
			cfg.EnsureFeasibility = true
			cfg.BigM = 1e6
		})

		It("adds weighted slack terms to the objective", func() {
			b, err := New(model, store, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Build(ctx)).To(Succeed())

			obj, _ := model.Objective()
			var unmet, unused int
			for _, term := range obj.Expr.Terms {
				switch term.Var.Set {
				case core.UnmetDemandSet:
					unmet++
					Expect(term.Coeff).To(BeNumerically(">", 0))
				case core.UnusedSupplySet:
					unused++
					Expect(term.Coeff).To(BeNumerically("<", 0))
				}
			}
			// two nodes x two timesteps
			Expect(unmet).To(Equal(4))
			Expect(unused).To(Equal(4))
		})
	})

	Context("with a contradictory configuration", func() {
		It("aborts on an infinite equals bound", func() {
			store.Set("energy_cap_equals", core.LocTech{Node: "region1", Tech: "pv"}, params.Number(math.Inf(1)))

			b, err := New(model, store, cfg)
			Expect(err).NotTo(HaveOccurred())

			err = b.Build(ctx)
			Expect(err).To(HaveOccurred())
			var modelErr *core.ModelError
			Expect(errors.As(err, &modelErr)).To(BeTrue())
			Expect(modelErr.Param).To(Equal("energy_cap_equals"))
		})
	})
})

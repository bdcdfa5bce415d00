package sim_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stardust/internal/config"
	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/input"
	"github.com/san-kum/stardust/internal/particle"
	"github.com/san-kum/stardust/internal/sim"
)

type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

var _ = Describe("particle lifecycle", func() {
	var (
		s     *sim.Simulation
		start time.Time
	)

	at := func(d time.Duration) time.Time { return start.Add(d) }

	pointer := func(kind input.Kind, x, y float64, when time.Time) {
		s.HandleEvent(input.Event{Kind: kind, Source: input.Mouse, Pos: geom.LogicalPoint{X: x, Y: y}, At: when})
	}

	BeforeEach(func() {
		start = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		cfg := config.DefaultConfig()
		cfg.Particles.Count = 5000
		cfg.Family = nil
		s = sim.New(cfg, geom.NewBounds(800, 600, 1), fixed(0.5))
		for i := range s.Particles() {
			s.Particles()[i].Pos = geom.LogicalPoint{X: 50, Y: 50}
		}
		s.Particles()[0].Pos = geom.LogicalPoint{X: 402, Y: 300}
	})

	It("walks free → attracted → flicked → free", func() {
		p := &s.Particles()[0]

		pointer(input.Down, 400, 300, at(0))
		s.Step(at(0))
		Expect(p.State).To(Equal(particle.Attracted))
		Expect(p.Vel.IsZero()).To(BeTrue())

		pointer(input.Move, 404, 300, time.Time{})
		Expect(p.State).To(Equal(particle.Flicked))
		Expect(p.Vel.Len()).To(BeNumerically("~", 20, 1e-9))

		ticks := 0
		for p.State == particle.Flicked && ticks < 1000 {
			s.Step(at(time.Duration(ticks) * time.Millisecond))
			ticks++
		}
		Expect(p.State).To(Equal(particle.Free))
		Expect(p.Vel).To(Equal(geom.Vec{}))
		// 20·0.98^n < 0.1 first holds at n = 263.
		Expect(ticks).To(Equal(263))
	})

	It("keeps attracted particles captured after the pointer lifts", func() {
		pointer(input.Down, 400, 300, at(0))
		s.Step(at(0))
		pointer(input.Up, 0, 0, time.Time{})

		for i := 0; i < 10; i++ {
			s.Step(at(time.Duration(i) * time.Second))
		}
		Expect(s.Particles()[0].State).To(Equal(particle.Attracted))
		Expect(s.Counts().Attracted).To(Equal(1))
		Expect(s.Pointer().Interacting()).To(BeFalse())
	})

	It("caps attraction per tick once the radius covers the crowd", func() {
		for i := range s.Particles() {
			s.Particles()[i].Pos = geom.LogicalPoint{X: 420, Y: 320}
		}
		pointer(input.Down, 400, 300, at(0))
		stats := s.Step(at(10 * time.Second))
		Expect(stats.Radius).To(Equal(300.0))
		Expect(stats.Captured).To(Equal(5))
	})

	It("ends the interaction when the pointer leaves the surface", func() {
		pointer(input.Down, 400, 300, at(0))
		out := s.HandleEvent(input.Event{Kind: input.Move, Source: input.Mouse, Pos: geom.LogicalPoint{X: 900, Y: 300}})
		Expect(out.Ended).To(BeTrue())
		Expect(s.DynamicRadius(at(5 * time.Second))).To(Equal(15.0))
	})

	It("rebuilds every particle on resize", func() {
		pointer(input.Down, 400, 300, at(0))
		s.Step(at(0))
		pointer(input.Move, 404, 300, time.Time{})

		s.Resize(geom.NewBounds(100, 80, 1))
		for _, p := range s.Particles() {
			Expect(p.State).To(Equal(particle.Free))
			Expect(p.Vel.IsZero()).To(BeTrue())
			Expect(p.Pos.X).To(BeNumerically("<=", 99))
			Expect(p.Pos.Y).To(BeNumerically("<=", 79))
		}
		Expect(math.IsNaN(s.DynamicRadius(at(0)))).To(BeFalse())
	})
})

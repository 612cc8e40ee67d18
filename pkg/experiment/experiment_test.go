package experiment_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/christopher-wolff-zz/lab-old/pkg/agent"
	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
	"github.com/christopher-wolff-zz/lab-old/pkg/environment"
	"github.com/christopher-wolff-zz/lab-old/pkg/experiment"
	"github.com/christopher-wolff-zz/lab-old/pkg/logger"
	"github.com/christopher-wolff-zz/lab-old/pkg/statistics"
)

var _ = Describe("Experiment", func() {
	var (
		ag  *recordingAgent
		env *fixedEnv
	)

	BeforeEach(func() {
		ag = &recordingAgent{}
		env = &fixedEnv{length: 3}
	})

	newExperiment := func(rawEnv core.Environment, opts ...experiment.Option) *experiment.Experiment {
		ex, err := experiment.New(ag, rawEnv, opts...)
		Expect(err).ToNot(HaveOccurred())
		return ex
	}

	Describe("New", func() {
		DescribeTable("rejects invalid settings",
			func(opt experiment.Option) {
				_, err := experiment.New(&recordingAgent{}, &fixedEnv{length: 3}, opt)
				Expect(errors.Is(err, labError.ErrInvalidConfig)).To(BeTrue())
			},
			Entry("zero iterations", experiment.WithIterations(0)),
			Entry("negative training steps", experiment.WithTrainingSteps(-1)),
			Entry("negative evaluation steps", experiment.WithEvaluationSteps(-5)),
			Entry("zero step cap", experiment.WithMaxStepsPerEpisode(0)),
			Entry("nil logger", experiment.WithLogger(nil)),
		)

		It("rejects a missing agent or environment", func() {
			_, err := experiment.New(nil, env)
			Expect(errors.Is(err, labError.ErrInvalidConfig)).To(BeTrue())
			_, err = experiment.New(ag, nil)
			Expect(errors.Is(err, labError.ErrInvalidConfig)).To(BeTrue())
		})

		It("forwards the seed once to agent and environment", func() {
			ex := newExperiment(env, experiment.WithSeed(9), experiment.WithIterations(2), experiment.WithTrainingSteps(3))
			Expect(ag.seeds).To(Equal([]int64{9}))
			Expect(env.seeds).To(Equal([]int64{9}))

			_, err := ex.Run()
			Expect(err).ToNot(HaveOccurred())
			Expect(ag.seeds).To(HaveLen(1))
			Expect(env.seeds).To(HaveLen(1))
		})

		It("does not seed without a seed option", func() {
			newExperiment(env)
			Expect(ag.seeds).To(BeEmpty())
			Expect(env.seeds).To(BeEmpty())
		})

		It("assigns a run id", func() {
			a := newExperiment(env, experiment.WithName("first"))
			b := newExperiment(env)
			Expect(a.ID()).ToNot(BeEmpty())
			Expect(a.ID()).ToNot(Equal(b.ID()))
			Expect(a.Name()).To(Equal("first"))
		})
	})

	Describe("RunOneEpisode", func() {
		It("runs until the environment terminates", func() {
			ex := newExperiment(env, experiment.WithMaxStepsPerEpisode(10))
			result, err := ex.RunOneEpisode()
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Steps).To(Equal(3))
			Expect(result.Return).To(Equal(3.0))
			Expect(result.Terminal).To(BeTrue())
			Expect(ag.calls).To(Equal([]string{"begin", "act", "learn", "act", "learn", "act", "learn", "end"}))
			Expect(ag.terminals).To(Equal([]bool{false, false, true}))
		})

		It("cuts an endless episode at the step cap", func() {
			ex := newExperiment(endlessEnv{}, experiment.WithMaxStepsPerEpisode(5))
			result, err := ex.RunOneEpisode()
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Steps).To(Equal(5))
			Expect(result.Return).To(Equal(2.5))
			Expect(result.Terminal).To(BeFalse())
			Expect(ag.count("act")).To(Equal(5))
			Expect(ag.count("end")).To(Equal(1))
		})

		It("records per episode statistics", func() {
			ex := newExperiment(env)
			_, err := ex.RunOneEpisode()
			Expect(err).ToNot(HaveOccurred())
			stats := ex.Statistics()
			Expect(stats.Get("train_episode_lengths")).To(Equal([]float64{3}))
			Expect(stats.Get("train_episode_returns")).To(Equal([]float64{3}))
		})
	})

	Describe("RunPhase", func() {
		It("finishes the last episode past the step floor", func() {
			ex := newExperiment(env, experiment.WithMaxStepsPerEpisode(3))
			result, err := ex.RunPhase(10, core.Train)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Steps).To(Equal(12))
			Expect(result.Episodes).To(Equal(4))
			Expect(result.AverageReturn()).To(Equal(3.0))
			Expect(env.resets).To(Equal(4))
			Expect(ex.Statistics().Get("train_episode_lengths")).To(Equal([]float64{3, 3, 3, 3}))
		})

		It("records zero episodes for an empty budget", func() {
			ex := newExperiment(env)
			result, err := ex.RunPhase(0, core.Eval)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Episodes).To(BeZero())
			stats := ex.Statistics()
			Expect(stats.Get("eval_average_returns")).To(Equal([]float64{0}))
			Expect(stats.Get("eval_episode_counts")).To(Equal([]float64{0}))
			Expect(stats.Get("eval_steps")).To(Equal([]float64{0}))
		})

		It("sets the agent mode", func() {
			ex := newExperiment(env)
			_, err := ex.RunPhase(1, core.Eval)
			Expect(err).ToNot(HaveOccurred())
			Expect(ag.EvalMode()).To(BeTrue())
			_, err = ex.RunPhase(1, core.Train)
			Expect(err).ToNot(HaveOccurred())
			Expect(ag.EvalMode()).To(BeFalse())
			Expect(ag.evalActs).To(Equal([]bool{true, true, true, false, false, false}))
		})
	})

	Describe("Run", func() {
		var opts []experiment.Option

		BeforeEach(func() {
			opts = []experiment.Option{
				experiment.WithIterations(3),
				experiment.WithTrainingSteps(10),
				experiment.WithEvaluationSteps(6),
				experiment.WithMaxStepsPerEpisode(10),
			}
		})

		It("records one value per iteration for every phase metric", func() {
			stats, err := newExperiment(env, opts...).Run()
			Expect(err).ToNot(HaveOccurred())
			Expect(stats.Keys()).To(Equal([]string{
				"train_episode_lengths",
				"train_episode_returns",
				"train_average_returns",
				"train_episode_counts",
				"train_steps",
				"eval_episode_lengths",
				"eval_episode_returns",
				"eval_average_returns",
				"eval_episode_counts",
				"eval_steps",
			}))
			Expect(stats.Get("train_steps")).To(Equal([]float64{12, 12, 12}))
			Expect(stats.Get("train_episode_counts")).To(Equal([]float64{4, 4, 4}))
			Expect(stats.Get("eval_steps")).To(Equal([]float64{6, 6, 6}))
			Expect(stats.Get("eval_average_returns")).To(Equal([]float64{3, 3, 3}))
			Expect(stats.Len("train_episode_lengths")).To(Equal(12))
		})

		It("runs training before evaluation in every iteration", func() {
			_, err := newExperiment(env, opts...).Run()
			Expect(err).ToNot(HaveOccurred())
			var want []bool
			for i := 0; i < 3; i++ {
				for j := 0; j < 12; j++ {
					want = append(want, false)
				}
				for j := 0; j < 6; j++ {
					want = append(want, true)
				}
			}
			Expect(ag.evalActs).To(Equal(want))
		})

		It("resets statistics on every run", func() {
			ex := newExperiment(env, opts...)
			_, err := ex.Run()
			Expect(err).ToNot(HaveOccurred())
			stats, err := ex.Run()
			Expect(err).ToNot(HaveOccurred())
			Expect(stats.Len("train_average_returns")).To(Equal(3))
		})

		It("returns a snapshot", func() {
			ex := newExperiment(env, opts...)
			stats, err := ex.Run()
			Expect(err).ToNot(HaveOccurred())
			_, err = ex.RunPhase(1, core.Train)
			Expect(err).ToNot(HaveOccurred())
			Expect(stats.Len("train_average_returns")).To(Equal(3))
			Expect(ex.Statistics().Len("train_average_returns")).To(Equal(4))
		})

		It("invokes the callbacks", func() {
			var iterations []int
			episodes := 0
			opts = append(opts,
				experiment.WithIterationCallback(func(e *experiment.Experiment, i int, stats *statistics.IterationStatistics) {
					Expect(stats.Len("eval_average_returns")).To(Equal(i + 1))
					iterations = append(iterations, i)
				}),
				experiment.WithEpisodeCallback(func(e *experiment.Experiment, result core.EpisodeResult, stats *statistics.IterationStatistics) {
					Expect(result.Steps).To(Equal(3))
					episodes++
				}),
			)
			_, err := newExperiment(env, opts...).Run()
			Expect(err).ToNot(HaveOccurred())
			Expect(iterations).To(Equal([]int{0, 1, 2}))
			Expect(episodes).To(Equal(3 * (4 + 2)))
		})

		It("aborts on an environment failure and keeps completed iterations", func() {
			failing := &failingEnv{fixedEnv: fixedEnv{length: 3}, failAt: 20}
			ex := newExperiment(failing, opts...)
			stats, err := ex.Run()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, labError.ErrOutOfRange)).To(BeTrue())
			Expect(stats).To(BeNil())
			Expect(ex.Statistics().Get("eval_average_returns")).To(Equal([]float64{3}))
		})

		It("logs the run", func() {
			var buf bytes.Buffer
			log := logger.NewBufferLogger(&buf)
			opts = append(opts, experiment.WithLogger(log), experiment.WithName("logged"))
			ex := newExperiment(env, opts...)
			_, err := ex.Run()
			Expect(err).ToNot(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("Iteration finished"))
			Expect(buf.String()).To(ContainSubstring(ex.ID()))
		})
	})

	Describe("with real components", func() {
		It("learns the best bandit arm", func() {
			bandit, err := environment.NewBandit([]float64{1, 0}, 5)
			Expect(err).ToNot(HaveOccurred())
			q, err := agent.NewQLearningAgent(1, 2,
				agent.WithLearningRate(0.5),
				agent.WithDiscount(0.9),
				agent.WithEpsilonSchedule(1, 0, 40),
			)
			Expect(err).ToNot(HaveOccurred())

			ex, err := experiment.New(q, bandit,
				experiment.WithSeed(1),
				experiment.WithIterations(1),
				experiment.WithTrainingSteps(50),
				experiment.WithEvaluationSteps(50),
				experiment.WithMaxStepsPerEpisode(100),
			)
			Expect(err).ToNot(HaveOccurred())
			stats, err := ex.Run()
			Expect(err).ToNot(HaveOccurred())
			Expect(stats.Get("eval_average_returns")).To(HaveLen(1))
			Expect(stats.Get("eval_average_returns")[0]).To(BeNumerically("~", 5.0, 1e-9))
			Expect(q.Epsilon()).To(BeZero())
		})

		It("reproduces runs from the same seed", func() {
			run := func() *statistics.IterationStatistics {
				lake, err := environment.NewFrozenLake(environment.FrozenLakeParams{
					Map:      environment.DefaultFrozenLakeMap,
					Slippery: true,
				})
				Expect(err).ToNot(HaveOccurred())
				q, err := agent.NewQLearningAgent(lake.ObservationSpaceN(), lake.ActionSpaceN(),
					agent.WithEpsilonSchedule(1, 0.1, 500))
				Expect(err).ToNot(HaveOccurred())
				ex, err := experiment.New(q, lake,
					experiment.WithSeed(3),
					experiment.WithIterations(5),
					experiment.WithTrainingSteps(200),
					experiment.WithEvaluationSteps(50),
					experiment.WithMaxStepsPerEpisode(50),
				)
				Expect(err).ToNot(HaveOccurred())
				stats, err := ex.Run()
				Expect(err).ToNot(HaveOccurred())
				return stats
			}

			first, second := run(), run()
			Expect(second.Keys()).To(Equal(first.Keys()))
			for _, key := range first.Keys() {
				Expect(second.Get(key)).To(Equal(first.Get(key)), key)
			}
		})

		It("runs the random baseline", func() {
			lake, err := environment.NewFrozenLake(environment.FrozenLakeParams{Map: environment.DefaultFrozenLakeMap})
			Expect(err).ToNot(HaveOccurred())
			random, err := agent.NewRandomAgent(lake.ActionSpaceN())
			Expect(err).ToNot(HaveOccurred())
			ex, err := experiment.New(random, lake, experiment.WithSeed(5), experiment.WithIterations(2))
			Expect(err).ToNot(HaveOccurred())
			stats, err := ex.Run()
			Expect(err).ToNot(HaveOccurred())
			for _, ret := range stats.Get("train_episode_returns") {
				Expect(ret).To(BeNumerically(">=", 0))
				Expect(ret).To(BeNumerically("<=", 1))
			}
		})
	})
})

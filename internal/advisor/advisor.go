package advisor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/TeamPulse-Labs/Rebalance/internal/config"
	"github.com/TeamPulse-Labs/Rebalance/internal/pulse"
	"github.com/TeamPulse-Labs/Rebalance/internal/recommend"
	"github.com/TeamPulse-Labs/Rebalance/internal/scoring"
	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

// Advisor periodically refreshes derived load/danger scores, recomputes
// reassignment suggestions and publishes the results. It is the only
// component that writes engine output back to the store; the scoring
// packages themselves stay pure.
type Advisor struct {
	store       store.Store
	pulse       pulse.Client
	evaluator   *scoring.Evaluator
	recommender *recommend.Recommender
	tiered      scoring.TieredLoad
	weighted    scoring.WeightedLoad
	cache       *gocache.Cache
	cfg         *config.Config
	logger      *slog.Logger

	mutedMu sync.RWMutex
	muted   map[uuid.UUID]bool

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, p pulse.Client, cfg *config.Config, logger *slog.Logger) *Advisor {
	tunables := recommend.Tunables{
		SuggestThreshold: cfg.Recommend.SuggestThreshold,
		PreferredBonus:   cfg.Recommend.PreferredBonus,
		AvoidedPenalty:   cfg.Recommend.AvoidedPenalty,
	}

	return &Advisor{
		store:       s,
		pulse:       p,
		evaluator:   scoring.NewEvaluator(cfg.BlendWeights(), logger),
		recommender: recommend.New(tunables, logger),
		cache:       gocache.New(cfg.CacheTTL(), 2*cfg.CacheTTL()),
		cfg:         cfg,
		logger:      logger,
		muted:       make(map[uuid.UUID]bool),
		stopCh:      make(chan struct{}),
	}
}

func (a *Advisor) Start(ctx context.Context) {
	a.wg.Add(1)
	go a.scanLoop(ctx)
}

func (a *Advisor) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
	a.wg.Wait()
}

// SetupSubscriptions wires cache invalidation to task lifecycle events.
func (a *Advisor) SetupSubscriptions() {
	if a.pulse == nil {
		return
	}
	err := a.pulse.Subscribe(pulse.SubjectTaskChanged, func(subject string, _ []byte) {
		a.cache.Flush()
		a.logger.Debug("evaluation cache flushed", "subject", subject)
	})
	if err != nil {
		a.logger.Warn("failed to subscribe to task events", "error", err)
	}
}

// Mute stops suggestions being emitted for a student's tasks.
func (a *Advisor) Mute(studentID uuid.UUID) {
	a.mutedMu.Lock()
	a.muted[studentID] = true
	a.mutedMu.Unlock()
}

func (a *Advisor) Unmute(studentID uuid.UUID) {
	a.mutedMu.Lock()
	delete(a.muted, studentID)
	a.mutedMu.Unlock()
}

func (a *Advisor) IsMuted(studentID uuid.UUID) bool {
	a.mutedMu.RLock()
	defer a.mutedMu.RUnlock()
	return a.muted[studentID]
}

func (a *Advisor) scanLoop(ctx context.Context) {
	defer a.wg.Done()
	ticker := time.NewTicker(a.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runOnce(ctx, time.Now())
		}
	}
}

// runOnce performs one full advisory pass over the current snapshots.
func (a *Advisor) runOnce(ctx context.Context, now time.Time) {
	students, err := a.store.ListStudents(ctx, store.StudentFilter{})
	if err != nil {
		a.logger.Error("failed to list students", "error", err)
		return
	}
	tasks, err := a.store.ListTasks(ctx, store.TaskFilter{})
	if err != nil {
		a.logger.Error("failed to list tasks", "error", err)
		return
	}

	activeByStudent := make(map[uuid.UUID][]*store.Task)
	for _, t := range tasks {
		if t.Status == store.StatusCompleted {
			continue
		}
		for _, id := range t.Assignees {
			activeByStudent[id] = append(activeByStudent[id], t)
		}
	}

	for _, s := range students {
		a.refreshDerivedScores(ctx, s, activeByStudent[s.ID], now)
	}

	suggestions := a.recommender.Suggest(students, tasks)
	suggestions = a.filterMuted(suggestions)
	if limit := a.cfg.Advisor.SuggestionLimit; limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	a.persistSuggestions(ctx, suggestions, now)

	for _, s := range suggestions {
		_ = pulse.PublishSuggested(a.pulse, pulse.SuggestedEvent{
			TaskID:   s.TaskID.String(),
			FromID:   s.FromID.String(),
			ToID:     s.ToID.String(),
			Priority: s.Priority,
			Score:    s.Score,
			Reason:   s.Reason,
		})
	}
	_ = pulse.PublishAdvisorRun(a.pulse, pulse.AdvisorRunEvent{
		Students:    len(students),
		Tasks:       len(tasks),
		Suggestions: len(suggestions),
		Timestamp:   now,
	})

	a.logger.Info("advisory pass complete",
		"students", len(students),
		"tasks", len(tasks),
		"suggestions", len(suggestions),
	)
}

// refreshDerivedScores recomputes load, danger and the skill snapshot
// for one student and writes them back when they moved. TieredLoad runs
// when estimated hours exist on the active set; WeightedLoad covers the
// rest.
func (a *Advisor) refreshDerivedScores(ctx context.Context, s *store.Student, active []*store.Task, now time.Time) {
	load := a.loadFor(active, now)
	danger := scoring.EstimateDanger(load, s.Motivation, active, now)
	changed := load != s.Load || danger != s.Danger
	s.Load = load
	s.Danger = danger

	if eval, err := a.EvaluateStudent(ctx, s); err == nil {
		skills := eval.SkillMap()
		if !equalSkills(s.Skills, skills) {
			s.Skills = skills
			changed = true
			_ = pulse.PublishSkillEvaluated(a.pulse, pulse.SkillEvaluatedEvent{
				StudentID:  s.ID.String(),
				Scores:     skills,
				Confidence: confidenceMap(eval),
				Timestamp:  now,
			})
		}
	} else {
		a.logger.Warn("skill evaluation failed", "student", s.ID, "error", err)
	}

	if !changed {
		return
	}
	if err := a.store.UpdateStudent(ctx, s); err != nil {
		a.logger.Error("failed to update student scores", "student", s.ID, "error", err)
		return
	}

	if load >= 4.5 || danger >= 4.0 {
		_ = pulse.PublishLoadAlert(a.pulse, pulse.LoadAlertEvent{
			StudentID: s.ID.String(),
			Name:      s.Name,
			Load:      load,
			Danger:    danger,
			Timestamp: now,
		})
	}
}

func equalSkills(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func confidenceMap(eval *scoring.Evaluation) map[string]float64 {
	out := make(map[string]float64, len(eval.Confidence))
	for category, c := range eval.Confidence {
		out[string(category)] = c
	}
	return out
}

func (a *Advisor) loadFor(active []*store.Task, now time.Time) float64 {
	for _, t := range active {
		if t.EstimatedHours != nil {
			return a.tiered.Estimate(active, now)
		}
	}
	return a.weighted.Estimate(active, now)
}

func (a *Advisor) filterMuted(suggestions []recommend.Suggestion) []recommend.Suggestion {
	a.mutedMu.RLock()
	defer a.mutedMu.RUnlock()
	if len(a.muted) == 0 {
		return suggestions
	}
	out := suggestions[:0]
	for _, s := range suggestions {
		if !a.muted[s.FromID] {
			out = append(out, s)
		}
	}
	return out
}

func (a *Advisor) persistSuggestions(ctx context.Context, suggestions []recommend.Suggestion, now time.Time) {
	records := make([]*store.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		records = append(records, &store.Suggestion{
			TaskID:     s.TaskID,
			TaskTitle:  s.TaskTitle,
			FromID:     s.FromID,
			FromName:   s.FromName,
			ToID:       s.ToID,
			ToName:     s.ToName,
			Reason:     s.Reason,
			Priority:   s.Priority,
			Score:      s.Score,
			ComputedAt: now,
		})
	}
	if err := a.store.ReplaceSuggestions(ctx, now, records); err != nil {
		a.logger.Error("failed to persist suggestions", "error", err)
	}
}

// EvaluateStudent returns the cached skill evaluation for a student,
// computing and caching it on a miss. The cache is flushed whenever a
// task event arrives.
func (a *Advisor) EvaluateStudent(ctx context.Context, s *store.Student) (*scoring.Evaluation, error) {
	key := s.ID.String()
	if cached, ok := a.cache.Get(key); ok {
		return cached.(*scoring.Evaluation), nil
	}

	tasks, err := a.store.ListTasks(ctx, store.TaskFilter{Assignee: &s.ID})
	if err != nil {
		return nil, err
	}
	assessments, err := a.store.ListSelfAssessments(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	eval := a.evaluator.Evaluate(s, tasks, assessments)
	a.cache.Set(key, eval, gocache.DefaultExpiration)
	return eval, nil
}

// InvalidateStudent drops one student's cached evaluation, used by the
// API after self-assessment writes.
func (a *Advisor) InvalidateStudent(studentID uuid.UUID) {
	a.cache.Delete(studentID.String())
}

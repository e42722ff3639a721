package insight

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fiscus/fiscus/internal/event_bus"
	"github.com/fiscus/fiscus/internal/utils"
	"github.com/fiscus/fiscus/pkg/budget"
	"github.com/fiscus/fiscus/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// List returns the current user's notices, newest first.
	List(ctx context.Context) ([]Insight, error)
}

type ServiceImpl struct {
	clock utils.Clock

	mu sync.RWMutex
	// one notice per budget per user; a new crossing replaces the old notice
	byUser map[int]map[string]Insight
}

func NewInsightService(clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{clock: clock, byUser: map[int]map[string]Insight{}}
}

// Watch subscribes the service to budget threshold crossings.
// Returns the unsubscribe function.
func (s *ServiceImpl) Watch(bus *event_bus.EventBus) func() {
	return event_bus.SubscribeTyped[event_bus.BudgetThresholdCrossed](bus, event_bus.BudgetThresholdCrossedType,
		func(e event_bus.EventT[event_bus.BudgetThresholdCrossed]) error {
			s.record(e.Data)
			return nil
		})
}

func (s *ServiceImpl) record(crossing event_bus.BudgetThresholdCrossed) {
	notice, ok := render(crossing)
	if !ok {
		return
	}
	notice.CreatedAt = s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byUser[crossing.UserId] == nil {
		s.byUser[crossing.UserId] = map[string]Insight{}
	}
	s.byUser[crossing.UserId][crossing.BudgetUid] = notice
	log.Debugf("recorded %q insight for user %d, budget %s", notice.Title, crossing.UserId, crossing.BudgetUid)
}

func render(crossing event_bus.BudgetThresholdCrossed) (Insight, bool) {
	switch budget.BudgetStatus(crossing.Status) {
	case budget.StatusOver:
		over := crossing.CurrentSpent.Sub(crossing.MonthlyLimit)
		return Insight{
			Type:  TypeError,
			Title: "Budget Exceeded",
			Message: fmt.Sprintf("%s is %s over its %s limit this cycle.",
				crossing.CategoryName, over, crossing.MonthlyLimit),
		}, true
	case budget.StatusWarning:
		return Insight{
			Type:  TypeWarning,
			Title: "Budget Alert",
			Message: fmt.Sprintf("%s has reached %s of its %s limit this cycle.",
				crossing.CategoryName, crossing.CurrentSpent, crossing.MonthlyLimit),
		}, true
	}
	return Insight{}, false
}

func (s *ServiceImpl) List(ctx context.Context) ([]Insight, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	notices := make([]Insight, 0, len(s.byUser[userId]))
	for _, notice := range s.byUser[userId] {
		notices = append(notices, notice)
	}
	sort.Slice(notices, func(i, j int) bool {
		return notices[i].CreatedAt.After(notices[j].CreatedAt)
	})
	return notices, nil
}

// Package metadata serves automation definitions to the trigger and worker
// paths. Lookups go through a short lived read-through cache so a busy
// automation does not hit storage on every execution.
package metadata

import (
	"context"
	"time"

	c "github.com/patrickmn/go-cache"

	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
)

type AutomationService interface {
	GetAutomation(ctx context.Context, id string) (*model.Automation, error)
	Invalidate(id string)
}

type automationServiceImpl struct {
	automations persistence.AutomationDao
	cache       *c.Cache
}

var _ AutomationService = new(automationServiceImpl)

func NewAutomationService(automations persistence.AutomationDao, ttl time.Duration) AutomationService {
	return &automationServiceImpl{
		automations: automations,
		cache:       c.New(ttl, 10*time.Minute),
	}
}

func (s *automationServiceImpl) GetAutomation(ctx context.Context, id string) (*model.Automation, error) {
	if cached, found := s.cache.Get(id); found {
		automation := cached.(model.Automation)
		return &automation, nil
	}
	automation, err := s.automations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(id, *automation)
	return automation, nil
}

// Invalidate drops a cached definition; the authoring surface calls this
// after editing a rule.
func (s *automationServiceImpl) Invalidate(id string) {
	s.cache.Delete(id)
}

package app

import "askgpt/internal/model"

type PlanState int

const (
	PlanFree PlanState = iota
	PlanPaid
)

type PlanStatus struct {
	State  PlanState
	PlanID string
}

// BillingService answers the one billing question the ask flow has: which
// exhausted-credits message a project owner should see. Owners on the
// configured premium monthly plan are told to contact support; everyone else
// is told to upgrade.
type BillingService struct {
	premiumMonthlyPlanID string
}

func NewBillingService(premiumMonthlyPlanID string) *BillingService {
	return &BillingService{premiumMonthlyPlanID: premiumMonthlyPlanID}
}

func (s *BillingService) PlanStatus(user *model.User) PlanStatus {
	if user.SubscriptionActive && user.PlanID != "" {
		return PlanStatus{State: PlanPaid, PlanID: user.PlanID}
	}
	return PlanStatus{State: PlanFree, PlanID: user.PlanID}
}

func (s *BillingService) IsPremiumMonthly(status PlanStatus) bool {
	return status.State == PlanPaid && status.PlanID == s.premiumMonthlyPlanID
}

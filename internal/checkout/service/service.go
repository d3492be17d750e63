package service

import (
	"fmt"
	"sort"

	"bouncebook/internal/checkout/core"
	"bouncebook/internal/checkout/flows"
	"bouncebook/pkg/client"
	"bouncebook/pkg/logger"
)

type CheckoutService struct {
	client *client.Client
	log    *logger.Logger
}

func NewCheckoutService(client *client.Client, log *logger.Logger) *CheckoutService {
	return &CheckoutService{
		client: client,
		log:    log,
	}
}

type FlowFunc func(ctx *core.FlowContext) error

var flowRegistry = map[string]FlowFunc{
	"start_checkout":   flows.StartCheckout,
	"checkout_status":  flows.CheckoutStatus,
	"abandon_checkout": flows.AbandonCheckout,
}

func (s *CheckoutService) ExecuteFlow(flowName string, input map[string]any) (map[string]any, error) {
	flow, exists := flowRegistry[flowName]
	if !exists {
		return nil, fmt.Errorf("unknown flow: %s", flowName)
	}
	ctx := core.NewFlowContext(input, s.client, s.log)
	if err := flow(ctx); err != nil {
		return nil, fmt.Errorf("flow execution failed: %v", err)
	}
	return ctx.Output, nil
}

func (s *CheckoutService) GetAvailableFlows() []string {
	names := make([]string, 0, len(flowRegistry))
	for name := range flowRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

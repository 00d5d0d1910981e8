package payments

import (
	"payhub/internal/domain/entities"
	"payhub/internal/infrastructure/config"
	"payhub/internal/usecase/interfaces"
)

// Registry maps gateway tags to their adapters. It is read-only after construction.
type Registry struct {
	gateways map[entities.Gateway]interfaces.IPaymentGateway
}

var _ interfaces.IGatewayRegistry = (*Registry)(nil)

func NewRegistry(gateways ...interfaces.IPaymentGateway) *Registry {
	r := &Registry{gateways: make(map[entities.Gateway]interfaces.IPaymentGateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Name()] = g
	}
	return r
}

// NewRegistryFromConfig builds the three gateway adapters from the process configuration.
func NewRegistryFromConfig(cfg config.Config) *Registry {
	return NewRegistry(
		NewStripeGateway(cfg.Stripe, cfg.PublicBaseURL, cfg.GatewayTimeout),
		NewPayPalGateway(cfg.PayPal, cfg.PublicBaseURL, cfg.GatewayTimeout, cfg.MockGateways),
		NewGoPayGateway(cfg.GoPay, cfg.PublicBaseURL, cfg.GatewayTimeout, cfg.MockGateways),
	)
}

func (r *Registry) Get(gateway entities.Gateway) (interfaces.IPaymentGateway, bool) {
	g, ok := r.gateways[gateway]
	return g, ok
}

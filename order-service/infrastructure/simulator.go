package infrastructure

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/models"
)

// SimulatorConfig tunes the simulated resource managers. Rates are
// probabilities in [0,1]; latency is the upper bound of the random call delay.
type SimulatorConfig struct {
	PaymentDeclineRate  float64
	InventoryShortRate  float64
	FraudFlagRate       float64
	ShippingUnavailRate float64
	MaxLatency          time.Duration
	Seed                int64
}

// DefaultSimulatorConfig mirrors the demo failure profile: payments decline
// 10% of the time, inventory runs short 5%, fraud flags 3%, shipping is
// unavailable 2%.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		PaymentDeclineRate:  0.10,
		InventoryShortRate:  0.05,
		FraudFlagRate:       0.03,
		ShippingUnavailRate: 0.02,
		MaxLatency:          500 * time.Millisecond,
		Seed:                time.Now().UnixNano(),
	}
}

var shippingCarriers = []string{"FedEx", "UPS", "DHL", "USPS"}

// Simulator implements all four resource manager interfaces with random
// latency and configurable decline rates. It stands in for real payment,
// inventory, fraud and shipping backends in local and demo deployments.
type Simulator struct {
	cfg SimulatorConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a Simulator from the given config
func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Simulator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Authorize simulates a payment authorization
func (s *Simulator) Authorize(ctx context.Context, order *domain.Order) (*domain.PaymentResult, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	if s.roll() < s.cfg.PaymentDeclineRate {
		return &domain.PaymentResult{
			Success: false,
			Message: "Card declined by issuer",
		}, nil
	}

	return &domain.PaymentResult{
		Success:       true,
		PaymentID:     models.NewPrefixedID("PAY").String(),
		TransactionID: models.GenerateUUID().String(),
		Message:       fmt.Sprintf("Authorized %d %s", order.Total.Amount, order.Total.Currency),
	}, nil
}

// Refund simulates a payment refund
func (s *Simulator) Refund(ctx context.Context, orderID models.ID, paymentID string) error {
	return s.simulateLatency(ctx)
}

// Reserve simulates an inventory reservation
func (s *Simulator) Reserve(ctx context.Context, order *domain.Order) (*domain.InventoryResult, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	if s.roll() < s.cfg.InventoryShortRate {
		return &domain.InventoryResult{
			Success: false,
			Message: "Insufficient stock",
		}, nil
	}

	return &domain.InventoryResult{
		Success:       true,
		ReservationID: models.NewPrefixedID("RES").String(),
		Message:       fmt.Sprintf("Reserved %d line items", len(order.Items)),
	}, nil
}

// Release simulates releasing an inventory reservation
func (s *Simulator) Release(ctx context.Context, orderID models.ID, reservationID string) error {
	return s.simulateLatency(ctx)
}

// Check simulates a fraud screen. Flagged orders draw a score in [85,100),
// clean orders below 85, so the share of flags tracks FraudFlagRate.
func (s *Simulator) Check(ctx context.Context, order *domain.Order) (*domain.FraudCheckResult, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	score := s.roll() * 85
	if s.roll() < s.cfg.FraudFlagRate {
		score = 85 + s.roll()*15
	}

	if score >= 85 {
		return &domain.FraudCheckResult{
			Passed:    false,
			RiskScore: score,
			Message:   fmt.Sprintf("High risk score: %.1f", score),
		}, nil
	}

	return &domain.FraudCheckResult{
		Passed:    true,
		RiskScore: score,
		Message:   fmt.Sprintf("Risk score: %.1f", score),
	}, nil
}

// Arrange simulates arranging a shipment with a random carrier
func (s *Simulator) Arrange(ctx context.Context, order *domain.Order) (*domain.ShippingResult, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	if s.roll() < s.cfg.ShippingUnavailRate {
		return &domain.ShippingResult{
			Success: false,
			Message: "No carrier available",
		}, nil
	}

	carrier := shippingCarriers[s.intn(len(shippingCarriers))]
	return &domain.ShippingResult{
		Success:           true,
		ShippingID:        models.NewPrefixedID("SHIP").String(),
		TrackingNumber:    fmt.Sprintf("TRK%d", time.Now().UnixMilli()),
		Carrier:           carrier,
		EstimatedDelivery: time.Now().AddDate(0, 0, 3+s.intn(3)).Format("2006-01-02"),
		Message:           fmt.Sprintf("Shipment booked with %s", carrier),
	}, nil
}

// Cancel simulates cancelling a shipment
func (s *Simulator) Cancel(ctx context.Context, orderID models.ID, shippingID string) error {
	return s.simulateLatency(ctx)
}

// ConfirmTracking simulates confirming a delivery tracking number
func (s *Simulator) ConfirmTracking(ctx context.Context, orderID models.ID, trackingNumber string) error {
	return s.simulateLatency(ctx)
}

func (s *Simulator) simulateLatency(ctx context.Context) error {
	if s.cfg.MaxLatency <= 0 {
		return ctx.Err()
	}

	delay := time.Duration(s.roll() * float64(s.cfg.MaxLatency))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (s *Simulator) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Simulator) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

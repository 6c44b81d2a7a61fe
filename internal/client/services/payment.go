package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/gateway"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	paymentrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/payment"
	"github.com/dmitrijs2005/storefront/internal/client/state"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type PaymentOrderState struct {
	Phase Phase
	Order *models.PaymentOrder
	Error string
}

type VerificationState struct {
	Phase  Phase
	Result *models.VerificationResult
	Error  string
}

// PaymentState has two independent sub-states plus the last gateway
// outcome. Pending is the gateway success awaiting (or past) verification.
type PaymentState struct {
	Order        PaymentOrderState
	Verification VerificationState
	Pending      *gateway.Success
	Gateway      *gateway.Failure
}

// Paid reports whether the server verified the payment.
func (s PaymentState) Paid() bool {
	return s.Verification.Phase == PhaseSuccess
}

// AwaitingVerification reports a gateway payment that went through but was
// not verified by the server yet. Only ResetOrder discards it.
func (s PaymentState) AwaitingVerification() bool {
	return s.Pending != nil && s.Verification.Phase != PhaseSuccess
}

// PaymentService runs create-order, the external payment UI and
// verification.
//
// A gateway order is created at most once per local order id: calling
// CreateOrder or Checkout again for the same draft reuses it. A failed
// verification keeps the order and the gateway result so that
// RetryVerification can resend them; until it succeeds (or ResetOrder is
// called) no new order is created and the gateway is not reopened.
type PaymentService interface {
	State() PaymentState
	Subscribe(ctx context.Context) <-chan PaymentState

	CreateOrder(ctx context.Context, draft models.OrderDraft) (models.PaymentOrder, error)
	Verify(ctx context.Context, res gateway.Success) (models.VerificationResult, error)
	HandleGatewayResult(res gateway.Success, err error) error
	Checkout(ctx context.Context, gw gateway.Gateway, draft models.OrderDraft) (models.VerificationResult, error)
	RetryVerification(ctx context.Context) (models.VerificationResult, error)

	ResetOrder()
	ResetVerification()
}

type paymentService struct {
	repo  paymentrepo.Repository
	log   logging.Logger
	store *state.Store[PaymentState]
	mu    sync.Mutex
}

func NewPaymentService(repo paymentrepo.Repository, log logging.Logger) PaymentService {
	return &paymentService{repo: repo, log: log, store: state.NewStore(PaymentState{})}
}

func (s *paymentService) State() PaymentState {
	return s.store.Get()
}

func (s *paymentService) Subscribe(ctx context.Context) <-chan PaymentState {
	return s.store.Subscribe(ctx)
}

func (s *paymentService) CreateOrder(ctx context.Context, draft models.OrderDraft) (models.PaymentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createOrder(ctx, draft)
}

func (s *paymentService) createOrder(ctx context.Context, draft models.OrderDraft) (models.PaymentOrder, error) {
	cur := s.store.Get().Order
	if cur.Phase == PhaseSuccess && cur.Order != nil && cur.Order.LocalOrderID == draft.LocalOrderID {
		return *cur.Order, nil
	}
	if s.store.Get().AwaitingVerification() {
		return models.PaymentOrder{}, errAwaitingVerification()
	}

	s.store.Update(func(st PaymentState) PaymentState {
		st.Order = PaymentOrderState{Phase: PhaseLoading}
		st.Verification = VerificationState{}
		st.Pending = nil
		st.Gateway = nil
		return st
	})

	order, err := s.repo.CreateOrder(ctx, draft.Amount(), draft.LocalOrderID)
	if err != nil {
		s.store.Update(func(st PaymentState) PaymentState {
			st.Order = PaymentOrderState{Phase: PhaseError, Error: userMessage(err)}
			return st
		})
		return models.PaymentOrder{}, err
	}

	s.store.Update(func(st PaymentState) PaymentState {
		o := order
		st.Order = PaymentOrderState{Phase: PhaseSuccess, Order: &o}
		return st
	})
	return order, nil
}

func (s *paymentService) Verify(ctx context.Context, res gateway.Success) (models.VerificationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verify(ctx, res)
}

func (s *paymentService) verify(ctx context.Context, res gateway.Success) (models.VerificationResult, error) {
	st := s.store.Get()
	if st.Order.Phase != PhaseSuccess || st.Order.Order == nil {
		err := common.Validation("No payment order to verify")
		s.setVerificationError(err)
		return models.VerificationResult{}, err
	}
	order := *st.Order.Order
	if res.GatewayOrderID == "" {
		res.GatewayOrderID = order.GatewayOrderID
	}

	s.store.Update(func(st PaymentState) PaymentState {
		p := res
		st.Pending = &p
		st.Gateway = nil
		st.Verification = VerificationState{Phase: PhaseLoading}
		return st
	})

	result, err := s.repo.Verify(ctx, res.Verification(order.LocalOrderID))
	if err != nil {
		s.setVerificationError(err)
		return models.VerificationResult{}, err
	}

	s.store.Update(func(st PaymentState) PaymentState {
		r := result
		st.Verification = VerificationState{Phase: PhaseSuccess, Result: &r}
		return st
	})
	s.log.Info(ctx, "payment verified", "order", order.LocalOrderID, "payment", res.PaymentID)
	return result, nil
}

func (s *paymentService) setVerificationError(err error) {
	s.store.Update(func(st PaymentState) PaymentState {
		st.Verification = VerificationState{Phase: PhaseError, Error: userMessage(err)}
		return st
	})
}

// HandleGatewayResult records what the payment UI reported. On success the
// result becomes Pending; on failure the categorized *gateway.Failure is
// stored and returned. A cancellation is recorded but does not touch the
// order or verification sub-states.
func (s *paymentService) HandleGatewayResult(res gateway.Success, err error) error {
	if err == nil {
		s.store.Update(func(st PaymentState) PaymentState {
			p := res
			st.Pending = &p
			st.Gateway = nil
			return st
		})
		return nil
	}
	f := gateway.AsFailure(err)
	s.store.Update(func(st PaymentState) PaymentState {
		st.Gateway = f
		return st
	})
	return f
}

// Checkout creates (or reuses) the gateway order for draft, opens gw and
// verifies the result.
func (s *paymentService) Checkout(ctx context.Context, gw gateway.Gateway, draft models.OrderDraft) (models.VerificationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.createOrder(ctx, draft)
	if err != nil {
		return models.VerificationResult{}, err
	}
	if s.store.Get().AwaitingVerification() {
		return models.VerificationResult{}, errAwaitingVerification()
	}

	res, err := gw.Open(ctx, order)
	if err := s.HandleGatewayResult(res, err); err != nil {
		var f *gateway.Failure
		if errors.As(err, &f) && f.Category == gateway.CategoryCancelled {
			s.log.Info(ctx, "payment cancelled by user", "order", order.LocalOrderID)
		} else {
			s.log.Warn(ctx, "payment gateway failed", "order", order.LocalOrderID, "error", err)
		}
		return models.VerificationResult{}, err
	}
	return s.verify(ctx, res)
}

// RetryVerification resends the pending gateway result for the existing
// order. It never creates a new gateway order.
func (s *paymentService) RetryVerification(ctx context.Context) (models.VerificationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.store.Get()
	if st.Pending == nil {
		return models.VerificationResult{}, common.Validation("There is no payment to verify")
	}
	if st.Verification.Phase == PhaseSuccess && st.Verification.Result != nil {
		return *st.Verification.Result, nil
	}
	return s.verify(ctx, *st.Pending)
}

func errAwaitingVerification() error {
	return common.Validation("A payment is awaiting verification. Verify it before paying again")
}

// ResetOrder returns the whole flow to idle.
func (s *paymentService) ResetOrder() {
	s.store.Set(PaymentState{})
}

// ResetVerification clears only the verification sub-state; the gateway
// order and pending result stay.
func (s *paymentService) ResetVerification() {
	s.store.Update(func(st PaymentState) PaymentState {
		st.Verification = VerificationState{}
		return st
	})
}

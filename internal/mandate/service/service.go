// Package service orchestrates the mandate chain: Intent admission, Cart
// derivation, Payment derivation and gateway execution. Every transition
// re-verifies the cryptographic link to its predecessor before advancing,
// and every verification outcome lands in the audit ledger.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"paychain/internal/approval"
	"paychain/internal/audit"
	"paychain/internal/crypto"
	"paychain/internal/gateway"
	"paychain/internal/invoice"
	"paychain/internal/mandate/models"
	"paychain/internal/platform/metrics"
	dErrors "paychain/pkg/domain-errors"
	"paychain/pkg/platform/sentinel"
)

// IntentStore persists intent mandates.
type IntentStore interface {
	Create(ctx context.Context, mandate *models.IntentMandate) error
	FindByHash(ctx context.Context, intentHash string) (*models.IntentMandate, error)
	FindLatestByInvoiceAndStatus(ctx context.Context, invoiceRef string, status models.IntentStatus) (*models.IntentMandate, error)
	UpdateStatus(ctx context.Context, intentHash string, from, to models.IntentStatus) error
}

// CartStore persists cart mandates.
type CartStore interface {
	Create(ctx context.Context, mandate *models.CartMandate) error
	FindByCartID(ctx context.Context, cartID string) (*models.CartMandate, error)
	FindByHash(ctx context.Context, cartHash string) (*models.CartMandate, error)
	FindLiveByIntentHash(ctx context.Context, intentHash string) (*models.CartMandate, error)
	FindLatestByInvoiceAndStatus(ctx context.Context, invoiceRef string, status models.CartStatus) (*models.CartMandate, error)
	UpdateStatus(ctx context.Context, cartID string, from, to models.CartStatus) error
}

// PaymentStore persists payment mandates and transaction receipts.
type PaymentStore interface {
	Create(ctx context.Context, mandate *models.PaymentMandate) error
	FindByID(ctx context.Context, paymentMandateID string) (*models.PaymentMandate, error)
	FindLiveByCartID(ctx context.Context, cartID string) (*models.PaymentMandate, error)
	FindLatestByInvoiceAndStatus(ctx context.Context, invoiceRef string, status models.PaymentStatus) (*models.PaymentMandate, error)
	UpdateStatus(ctx context.Context, paymentMandateID string, from, to models.PaymentStatus) error
	SetGatewayRefs(ctx context.Context, paymentMandateID, orderID, paymentID string) error
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactionsByInvoice(ctx context.Context, invoiceRef string) ([]*models.Transaction, error)
}

// InvoiceProvider is the system-of-record lookup intents are validated
// against.
type InvoiceProvider interface {
	FindByRef(ctx context.Context, invoiceRef string) (*invoice.Invoice, error)
	ListOpenByMerchant(ctx context.Context, merchantName string) ([]*invoice.Invoice, error)
	MarkPaid(ctx context.Context, invoiceRef string) error
}

// Approver reviews a cart before a payment mandate may be created.
type Approver interface {
	Review(ctx context.Context, req approval.Request) (approval.Decision, error)
}

// Gateway executes charges.
type Gateway interface {
	Charge(ctx context.Context, req gateway.ChargeRequest) (gateway.ChargeResult, error)
}

// Signer is the slice of the crypto service the chain needs.
type Signer interface {
	SignAgent(contents []byte) (string, error)
	VerifyAgent(contents []byte, signature string) bool
	VerifyUser(ctx context.Context, contents []byte, signature, userID string) (bool, error)
}

// Service is the mandate chain orchestrator.
type Service struct {
	intents  IntentStore
	carts    CartStore
	payments PaymentStore
	invoices InvoiceProvider
	signer   Signer
	approver Approver
	gateway  Gateway
	recorder *audit.Recorder
	locker   Locker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLocker replaces the in-process lock, e.g. with the Redis lock when
// running more than one replica.
func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

// WithClock fixes the clock for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates the orchestrator.
func New(
	intents IntentStore,
	carts CartStore,
	payments PaymentStore,
	invoices InvoiceProvider,
	signer Signer,
	approver Approver,
	gw Gateway,
	recorder *audit.Recorder,
	opts ...Option,
) *Service {
	s := &Service{
		intents:  intents,
		carts:    carts,
		payments: payments,
		invoices: invoices,
		signer:   signer,
		approver: approver,
		gateway:  gw,
		recorder: recorder,
		locker:   NewKeyedLock(),
		logger:   slog.Default(),
		tracer:   otel.Tracer("paychain/mandate"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AdmitIntent verifies a user-signed intent against the invoice it claims
// to pay and persists it as the root of a new mandate chain.
func (s *Service) AdmitIntent(ctx context.Context, invoiceRef string, contents models.IntentContents, userSignature string) (*models.IntentMandate, error) {
	ctx, span := s.tracer.Start(ctx, "mandate.AdmitIntent",
		trace.WithAttributes(attribute.String("invoice_ref", invoiceRef)))
	defer span.End()
	defer s.observe("admit_intent", s.now())

	if err := contents.Validate(); err != nil {
		return nil, err
	}
	if contents.InvoiceRef != invoiceRef {
		return nil, dErrors.New(dErrors.CodeValidation, "intent invoiceRef does not match request")
	}

	inv, err := s.invoices.FindByRef(ctx, invoiceRef)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "invoice %s not found", invoiceRef)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "invoice lookup failed")
	}

	canonical, err := crypto.Canonicalize(contents)
	if err != nil {
		return nil, err
	}
	intentHash := crypto.HashBytes(canonical)

	ok, err := s.signer.VerifyUser(ctx, canonical, userSignature, contents.UserID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "user signature verification failed")
	}
	if !ok {
		s.countSignatureFailure()
		s.recorder.Record(ctx, audit.Event{
			MandateType:          audit.MandateIntent,
			MandateID:            intentHash,
			InvoiceRef:           invoiceRef,
			Action:               audit.ActionVerify,
			Actor:                contents.UserID,
			Status:               audit.StatusFailure,
			Details:              "user signature does not verify against registered key",
			SignatureFingerprint: audit.Fingerprint(userSignature),
		})
		return nil, dErrors.New(dErrors.CodeInvalidSignature, "intent signature does not verify")
	}

	// The signed intent must match the invoice exactly. Any drift in
	// merchant, amount or currency is a mismatch, not a rounding question.
	if contents.MerchantName != inv.MerchantName || contents.Amount != inv.Amount || contents.Currency != inv.Currency {
		s.recorder.Record(ctx, audit.Event{
			MandateType:  audit.MandateIntent,
			MandateID:    intentHash,
			InvoiceRef:   invoiceRef,
			Action:       audit.ActionValidate,
			Actor:        contents.UserID,
			Status:       audit.StatusFailure,
			Details:      fmt.Sprintf("intent %s/%s does not match invoice %s/%s", contents.MerchantName, contents.Amount.Display(contents.Currency), inv.MerchantName, inv.Amount.Display(inv.Currency)),
			Amount:       &contents.Amount,
			Currency:     contents.Currency,
			MerchantName: contents.MerchantName,
		})
		return nil, dErrors.New(dErrors.CodeIntentMismatch, "intent does not match invoice")
	}

	if contents.Expired(s.now()) {
		s.recorder.Record(ctx, audit.Event{
			MandateType: audit.MandateIntent,
			MandateID:   intentHash,
			InvoiceRef:  invoiceRef,
			Action:      audit.ActionValidate,
			Actor:       contents.UserID,
			Status:      audit.StatusFailure,
			Details:     "intent expired before admission",
		})
		return nil, dErrors.New(dErrors.CodeValidation, "intent has expired")
	}

	mandate, err := models.NewIntentMandate(uuid.NewString(), intentHash, userSignature, contents, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.intents.Create(ctx, mandate); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeDuplicateKey, "intent already admitted")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist intent mandate")
	}

	s.recorder.Record(ctx, audit.Event{
		MandateType:          audit.MandateIntent,
		MandateID:            intentHash,
		InvoiceRef:           invoiceRef,
		Action:               audit.ActionCreate,
		Actor:                contents.UserID,
		Status:               audit.StatusSuccess,
		Details:              "intent admitted",
		SignatureFingerprint: audit.Fingerprint(userSignature),
		Amount:               &mandate.Amount,
		Currency:             mandate.Currency,
		MerchantName:         mandate.MerchantName,
	})
	if s.metrics != nil {
		s.metrics.IntentsAdmitted.Inc()
	}
	span.SetAttributes(attribute.String("intent_hash", intentHash))
	return mandate, nil
}

// CancelIntent retires an intent that has not yet been consumed by a cart.
func (s *Service) CancelIntent(ctx context.Context, intentHash string) error {
	ctx, span := s.tracer.Start(ctx, "mandate.CancelIntent")
	defer span.End()

	release, ok := s.locker.Acquire(ctx, intentHash)
	if !ok {
		return s.concurrentModification(intentHash)
	}
	defer release()

	if _, err := s.carts.FindLiveByIntentHash(ctx, intentHash); err == nil {
		return dErrors.New(dErrors.CodeInvalidState, "intent is consumed by a live cart")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "cart lookup failed")
	}

	err := s.intents.UpdateStatus(ctx, intentHash, models.IntentStatusCreated, models.IntentStatusCancelled)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "intent %s not found", intentHash)
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeInvalidState, "intent is not cancellable")
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "cancel intent")
	}

	s.recorder.Record(ctx, audit.Event{
		MandateType: audit.MandateIntent,
		MandateID:   intentHash,
		Action:      audit.ActionValidate,
		Actor:       audit.ActorSystem,
		Status:      audit.StatusSuccess,
		Details:     "intent cancelled",
	})
	return nil
}

// DeriveCart consumes a CREATED intent and produces the agent-signed cart
// that locks in exactly what will be purchased.
func (s *Service) DeriveCart(ctx context.Context, intentHash string) (*models.CartMandate, error) {
	ctx, span := s.tracer.Start(ctx, "mandate.DeriveCart",
		trace.WithAttributes(attribute.String("intent_hash", intentHash)))
	defer span.End()
	defer s.observe("derive_cart", s.now())

	release, ok := s.locker.Acquire(ctx, intentHash)
	if !ok {
		return nil, s.concurrentModification(intentHash)
	}
	defer release()

	intent, err := s.intents.FindByHash(ctx, intentHash)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "intent %s not found", intentHash)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "intent lookup failed")
	}
	if intent.Status != models.IntentStatusCreated {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "intent is %s, cart derivation requires CREATED", intent.Status)
	}

	contents := models.IntentContents{
		UserID:                intent.UserID,
		InvoiceRef:            intent.InvoiceRef,
		MerchantName:          intent.MerchantName,
		Amount:                intent.Amount,
		Currency:              intent.Currency,
		Description:           intent.Description,
		Expiry:                intent.Expiry,
		RequiresRefundability: intent.RequiresRefundability,
	}
	if contents.Expired(s.now()) {
		s.recorder.Record(ctx, audit.Event{
			MandateType: audit.MandateCart,
			MandateID:   intentHash,
			InvoiceRef:  intent.InvoiceRef,
			Action:      audit.ActionValidate,
			Actor:       audit.ActorAgent,
			Status:      audit.StatusFailure,
			Details:     "intent expired before cart derivation",
		})
		return nil, dErrors.New(dErrors.CodeValidation, "intent has expired")
	}

	// Re-verify the stored user signature so a tampered intent row cannot
	// seed a cart.
	canonical, err := crypto.Canonicalize(contents)
	if err != nil {
		return nil, err
	}
	verified, err := s.signer.VerifyUser(ctx, canonical, intent.UserSignature, intent.UserID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "user signature verification failed")
	}
	if !verified || crypto.HashBytes(canonical) != intent.IntentHash {
		s.countSignatureFailure()
		s.recorder.Record(ctx, audit.Event{
			MandateType:          audit.MandateCart,
			MandateID:            intentHash,
			InvoiceRef:           intent.InvoiceRef,
			Action:               audit.ActionVerify,
			Actor:                audit.ActorAgent,
			Status:               audit.StatusFailure,
			Details:              "stored intent no longer verifies",
			SignatureFingerprint: audit.Fingerprint(intent.UserSignature),
		})
		return nil, dErrors.New(dErrors.CodeInvalidSignature, "stored intent signature does not verify")
	}

	items, err := s.cartItems(ctx, intent)
	if err != nil {
		return nil, err
	}
	var total models.Amount
	for _, item := range items {
		total += item.Amount
	}

	cartID := uuid.NewString()
	cartContents := models.CartContents{
		CartID:     cartID,
		IntentHash: intentHash,
		Items:      items,
		Total:      total,
		Currency:   intent.Currency,
		Timestamp:  s.now().UTC().Format(time.RFC3339),
	}
	if err := cartContents.Validate(); err != nil {
		return nil, err
	}

	cartCanonical, err := crypto.Canonicalize(cartContents)
	if err != nil {
		return nil, err
	}
	cartHash := crypto.HashBytes(cartCanonical)
	signature, err := s.signer.SignAgent(cartCanonical)
	if err != nil {
		return nil, err
	}

	now := s.now()
	mandate := &models.CartMandate{
		UUID:           uuid.NewString(),
		CartID:         cartID,
		IntentHash:     intentHash,
		InvoiceRef:     intent.InvoiceRef,
		CartHash:       cartHash,
		ContentsJSON:   string(cartCanonical),
		AgentSignature: signature,
		TotalAmount:    total,
		Currency:       intent.Currency,
		Status:         models.CartStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.carts.Create(ctx, mandate); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeDuplicateKey, "a live cart already consumes this intent")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist cart mandate")
	}

	s.recorder.Record(ctx, audit.Event{
		MandateType:  audit.MandateCart,
		MandateID:    cartID,
		InvoiceRef:   intent.InvoiceRef,
		Action:       audit.ActionCreate,
		Actor:        audit.ActorAgent,
		Status:       audit.StatusSuccess,
		Details:      "cart derived from intent " + intentHash,
		Amount:       &total,
		Currency:     intent.Currency,
		MerchantName: intent.MerchantName,
	})
	s.recorder.Record(ctx, audit.Event{
		MandateType:          audit.MandateCart,
		MandateID:            cartID,
		InvoiceRef:           intent.InvoiceRef,
		Action:               audit.ActionSign,
		Actor:                audit.ActorAgent,
		Status:               audit.StatusSuccess,
		Details:              "cart contents signed by agent key",
		SignatureFingerprint: audit.Fingerprint(signature),
	})
	if s.metrics != nil {
		s.metrics.CartsDerived.Inc()
	}
	span.SetAttributes(attribute.String("cart_id", cartID))
	return mandate, nil
}

// cartItems builds the payable lines for an intent from the merchant's open
// invoices.
func (s *Service) cartItems(ctx context.Context, intent *models.IntentMandate) ([]models.CartItem, error) {
	open, err := s.invoices.ListOpenByMerchant(ctx, intent.MerchantName)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "merchant invoice lookup failed")
	}
	for _, inv := range open {
		if inv.InvoiceRef == intent.InvoiceRef {
			return []models.CartItem{{
				InvoiceRef:  inv.InvoiceRef,
				Description: inv.Description,
				Amount:      inv.Amount,
			}}, nil
		}
	}
	return nil, dErrors.Newf(dErrors.CodeNotFound, "invoice %s is no longer open for %s", intent.InvoiceRef, intent.MerchantName)
}

// ConfirmCart records the user's confirmation of a derived cart.
func (s *Service) ConfirmCart(ctx context.Context, cartID string) error {
	return s.transitionCart(ctx, cartID, models.CartStatusCreated, models.CartStatusConfirmed, "cart confirmed by user")
}

// CancelCart retires a cart that has not been processed. Cancelling frees
// the intent for a fresh derivation.
func (s *Service) CancelCart(ctx context.Context, cartID string) error {
	cart, err := s.carts.FindByCartID(ctx, cartID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "cart %s not found", cartID)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "cart lookup failed")
	}
	if !cart.Status.CanTransitionTo(models.CartStatusCancelled) {
		return dErrors.Newf(dErrors.CodeInvalidState, "cart is %s and cannot be cancelled", cart.Status)
	}
	return s.transitionCart(ctx, cartID, cart.Status, models.CartStatusCancelled, "cart cancelled")
}

func (s *Service) transitionCart(ctx context.Context, cartID string, from, to models.CartStatus, detail string) error {
	ctx, span := s.tracer.Start(ctx, "mandate.TransitionCart",
		trace.WithAttributes(attribute.String("cart_id", cartID), attribute.String("to", string(to))))
	defer span.End()

	cart, err := s.carts.FindByCartID(ctx, cartID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "cart %s not found", cartID)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "cart lookup failed")
	}

	release, ok := s.locker.Acquire(ctx, cart.IntentHash)
	if !ok {
		return s.concurrentModification(cart.IntentHash)
	}
	defer release()

	err = s.carts.UpdateStatus(ctx, cartID, from, to)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "cart %s not found", cartID)
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Newf(dErrors.CodeInvalidState, "cart is no longer %s", from)
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "update cart status")
	}

	s.recorder.Record(ctx, audit.Event{
		MandateType: audit.MandateCart,
		MandateID:   cartID,
		InvoiceRef:  cart.InvoiceRef,
		Action:      audit.ActionValidate,
		Actor:       audit.ActorSystem,
		Status:      audit.StatusSuccess,
		Details:     detail,
	})
	return nil
}

// DerivePayment consumes a CONFIRMED cart: re-verifies the agent signature
// over the stored cart bytes, obtains AI approval, and persists the
// agent-signed payment mandate.
func (s *Service) DerivePayment(ctx context.Context, cartID string, method models.PaymentMethod) (*models.PaymentMandate, error) {
	ctx, span := s.tracer.Start(ctx, "mandate.DerivePayment",
		trace.WithAttributes(attribute.String("cart_id", cartID)))
	defer span.End()
	defer s.observe("derive_payment", s.now())

	cart, err := s.carts.FindByCartID(ctx, cartID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "cart %s not found", cartID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cart lookup failed")
	}

	release, ok := s.locker.Acquire(ctx, cart.IntentHash)
	if !ok {
		return nil, s.concurrentModification(cart.IntentHash)
	}
	defer release()

	// The pre-lock read only supplies the lock key. Re-read the cart now
	// that the chain is locked so a concurrent cancel cannot slip in
	// between the lookup and the status check.
	cart, err = s.carts.FindByCartID(ctx, cartID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "cart %s not found", cartID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cart lookup failed")
	}

	if cart.Status != models.CartStatusConfirmed {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "cart is %s, payment derivation requires CONFIRMED", cart.Status)
	}

	// Verification runs over the exact stored bytes the agent signed, so
	// any tampering with the persisted cart shows up here.
	stored := []byte(cart.ContentsJSON)
	if !s.signer.VerifyAgent(stored, cart.AgentSignature) || crypto.HashBytes(stored) != cart.CartHash {
		s.countSignatureFailure()
		s.recorder.Record(ctx, audit.Event{
			MandateType:          audit.MandatePayment,
			MandateID:            cartID,
			InvoiceRef:           cart.InvoiceRef,
			Action:               audit.ActionVerify,
			Actor:                audit.ActorAgent,
			Status:               audit.StatusFailure,
			Details:              "stored cart no longer verifies",
			SignatureFingerprint: audit.Fingerprint(cart.AgentSignature),
		})
		return nil, dErrors.New(dErrors.CodeInvalidSignature, "stored cart signature does not verify")
	}

	intent, err := s.intents.FindByHash(ctx, cart.IntentHash)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "intent lookup failed")
	}

	decision, err := s.approver.Review(ctx, approval.Request{
		CartID:       cartID,
		IntentHash:   cart.IntentHash,
		CartContents: cart.ContentsJSON,
		MerchantName: intent.MerchantName,
		Amount:       int64(cart.TotalAmount),
		Currency:     cart.Currency,
	})
	if err != nil {
		return nil, err
	}
	if !decision.Approved() {
		if s.metrics != nil {
			s.metrics.ApprovalsRejected.Inc()
		}
		s.recorder.Record(ctx, audit.Event{
			MandateType: audit.MandatePayment,
			MandateID:   cartID,
			InvoiceRef:  cart.InvoiceRef,
			Action:      audit.ActionValidate,
			Actor:       audit.ActorAI,
			Status:      audit.StatusFailure,
			Details:     "payment rejected: " + decision.Reason,
			Amount:      &cart.TotalAmount,
			Currency:    cart.Currency,
		})
		return nil, dErrors.Newf(dErrors.CodeApprovalDenied, "payment not approved: %s", decision.Reason)
	}
	s.recorder.Record(ctx, audit.Event{
		MandateType: audit.MandatePayment,
		MandateID:   cartID,
		InvoiceRef:  cart.InvoiceRef,
		Action:      audit.ActionValidate,
		Actor:       audit.ActorAI,
		Status:      audit.StatusSuccess,
		Details:     "payment approved: " + decision.Reason,
	})

	paymentMandateID := uuid.NewString()
	contents := models.PaymentContents{
		PaymentMandateID: paymentMandateID,
		CartID:           cartID,
		CartHash:         cart.CartHash,
		MerchantName:     intent.MerchantName,
		Amount:           cart.TotalAmount,
		Currency:         cart.Currency,
		PaymentMethod:    string(method),
		Timestamp:        s.now().UTC().Format(time.RFC3339),
	}
	canonical, err := crypto.Canonicalize(contents)
	if err != nil {
		return nil, err
	}
	signature, err := s.signer.SignAgent(canonical)
	if err != nil {
		return nil, err
	}

	now := s.now()
	mandate := &models.PaymentMandate{
		UUID:             uuid.NewString(),
		PaymentMandateID: paymentMandateID,
		CartID:           cartID,
		CartHash:         cart.CartHash,
		InvoiceRef:       cart.InvoiceRef,
		MerchantName:     intent.MerchantName,
		Amount:           cart.TotalAmount,
		Currency:         cart.Currency,
		PaymentMethod:    method,
		ContentsJSON:     string(canonical),
		AgentSignature:   signature,
		Status:           models.PaymentStatusCreated,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.payments.Create(ctx, mandate); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeDuplicateKey, "a live payment already charges this cart")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist payment mandate")
	}

	s.recorder.Record(ctx, audit.Event{
		MandateType:  audit.MandatePayment,
		MandateID:    paymentMandateID,
		InvoiceRef:   cart.InvoiceRef,
		Action:       audit.ActionCreate,
		Actor:        audit.ActorAgent,
		Status:       audit.StatusSuccess,
		Details:      "payment mandate derived from cart " + cartID,
		Amount:       &mandate.Amount,
		Currency:     mandate.Currency,
		MerchantName: mandate.MerchantName,
	})
	s.recorder.Record(ctx, audit.Event{
		MandateType:          audit.MandatePayment,
		MandateID:            paymentMandateID,
		InvoiceRef:           cart.InvoiceRef,
		Action:               audit.ActionSign,
		Actor:                audit.ActorAgent,
		Status:               audit.StatusSuccess,
		Details:              "payment contents signed by agent key",
		SignatureFingerprint: audit.Fingerprint(signature),
	})
	span.SetAttributes(attribute.String("payment_mandate_id", paymentMandateID))
	return mandate, nil
}

// ExecutePayment sends a CREATED payment mandate to the gateway. Success
// requires a transaction id in the gateway result; anything else fails the
// payment, leaves the cart CONFIRMED, and returns an error.
func (s *Service) ExecutePayment(ctx context.Context, paymentMandateID, methodToken string) (*models.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "mandate.ExecutePayment",
		trace.WithAttributes(attribute.String("payment_mandate_id", paymentMandateID)))
	defer span.End()
	defer s.observe("execute_payment", s.now())

	mandate, err := s.payments.FindByID(ctx, paymentMandateID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "payment mandate %s not found", paymentMandateID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "payment lookup failed")
	}

	cart, err := s.carts.FindByCartID(ctx, mandate.CartID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cart lookup failed")
	}

	release, ok := s.locker.Acquire(ctx, cart.IntentHash)
	if !ok {
		return nil, s.concurrentModification(cart.IntentHash)
	}
	defer release()

	if mandate.Status != models.PaymentStatusCreated {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "payment is %s, execution requires CREATED", mandate.Status)
	}

	stored := []byte(mandate.ContentsJSON)
	if !s.signer.VerifyAgent(stored, mandate.AgentSignature) {
		s.countSignatureFailure()
		s.recorder.Record(ctx, audit.Event{
			MandateType:          audit.MandatePayment,
			MandateID:            paymentMandateID,
			InvoiceRef:           mandate.InvoiceRef,
			Action:               audit.ActionVerify,
			Actor:                audit.ActorAgent,
			Status:               audit.StatusFailure,
			Details:              "stored payment mandate no longer verifies",
			SignatureFingerprint: audit.Fingerprint(mandate.AgentSignature),
		})
		return nil, dErrors.New(dErrors.CodeInvalidSignature, "stored payment signature does not verify")
	}

	if err := s.payments.UpdateStatus(ctx, paymentMandateID, models.PaymentStatusCreated, models.PaymentStatusSentToGateway); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.New(dErrors.CodeInvalidState, "payment already dispatched")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "mark payment sent")
	}

	result, err := s.gateway.Charge(ctx, gateway.ChargeRequest{
		PaymentMandateID: paymentMandateID,
		InvoiceRef:       mandate.InvoiceRef,
		Amount:           int64(mandate.Amount),
		Currency:         mandate.Currency,
		PaymentMethod:    string(mandate.PaymentMethod),
		MethodToken:      methodToken,
	})
	if err != nil {
		return nil, s.failPayment(ctx, mandate, err.Error(), err)
	}
	if !result.Succeeded() {
		cause := dErrors.New(dErrors.CodeGateway, "gateway returned no transaction id")
		return nil, s.failPayment(ctx, mandate, "gateway result carried no transaction id", cause)
	}

	if err := s.payments.SetGatewayRefs(ctx, paymentMandateID, result.OrderID, result.TransactionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to record gateway refs",
			"payment_mandate_id", paymentMandateID, "error", err)
	}
	if err := s.payments.UpdateStatus(ctx, paymentMandateID, models.PaymentStatusSentToGateway, models.PaymentStatusProcessed); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "mark payment processed")
	}
	if err := s.carts.UpdateStatus(ctx, mandate.CartID, models.CartStatusConfirmed, models.CartStatusProcessed); err != nil {
		s.logger.ErrorContext(ctx, "payment processed but cart transition failed",
			"cart_id", mandate.CartID, "error", err)
	}
	if err := s.invoices.MarkPaid(ctx, mandate.InvoiceRef); err != nil {
		s.logger.ErrorContext(ctx, "payment processed but invoice not marked paid",
			"invoice_ref", mandate.InvoiceRef, "error", err)
	}

	txn := &models.Transaction{
		UUID:          uuid.NewString(),
		InvoiceRef:    mandate.InvoiceRef,
		TransactionID: result.TransactionID,
		Amount:        mandate.Amount,
		Currency:      mandate.Currency,
		PaymentMethod: mandate.PaymentMethod,
		Status:        "SUCCESS",
		CreatedAt:     s.now(),
	}
	if err := s.payments.CreateTransaction(ctx, txn); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist transaction receipt",
			"payment_mandate_id", paymentMandateID, "error", err)
	}

	s.recorder.Record(ctx, audit.Event{
		MandateType:  audit.MandatePayment,
		MandateID:    paymentMandateID,
		InvoiceRef:   mandate.InvoiceRef,
		Action:       audit.ActionPay,
		Actor:        audit.ActorSystem,
		Status:       audit.StatusSuccess,
		Details:      "gateway charge completed, transaction " + result.TransactionID,
		Amount:       &mandate.Amount,
		Currency:     mandate.Currency,
		MerchantName: mandate.MerchantName,
	})
	if s.metrics != nil {
		s.metrics.PaymentsExecuted.WithLabelValues("success").Inc()
	}
	return txn, nil
}

// failPayment marks the mandate FAILED, audits the failure, and returns the
// causing error. The cart intentionally stays CONFIRMED so a retry payment
// can be derived.
func (s *Service) failPayment(ctx context.Context, mandate *models.PaymentMandate, detail string, cause error) error {
	if err := s.payments.UpdateStatus(ctx, mandate.PaymentMandateID, models.PaymentStatusSentToGateway, models.PaymentStatusFailed); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark payment failed",
			"payment_mandate_id", mandate.PaymentMandateID, "error", err)
	}
	s.recorder.Record(ctx, audit.Event{
		MandateType: audit.MandatePayment,
		MandateID:   mandate.PaymentMandateID,
		InvoiceRef:  mandate.InvoiceRef,
		Action:      audit.ActionFail,
		Actor:       audit.ActorSystem,
		Status:      audit.StatusFailure,
		Details:     detail,
		Amount:      &mandate.Amount,
		Currency:    mandate.Currency,
	})
	if s.metrics != nil {
		s.metrics.PaymentsExecuted.WithLabelValues("failure").Inc()
	}
	return cause
}

// GetIntent returns one intent mandate.
func (s *Service) GetIntent(ctx context.Context, intentHash string) (*models.IntentMandate, error) {
	mandate, err := s.intents.FindByHash(ctx, intentHash)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "intent %s not found", intentHash)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "intent lookup failed")
	}
	return mandate, nil
}

// FindOpenIntent returns the newest CREATED intent for an invoice, letting
// a client resume a chain it started earlier instead of admitting a
// duplicate.
func (s *Service) FindOpenIntent(ctx context.Context, invoiceRef string) (*models.IntentMandate, error) {
	mandate, err := s.intents.FindLatestByInvoiceAndStatus(ctx, invoiceRef, models.IntentStatusCreated)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no open intent for invoice %s", invoiceRef)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "intent lookup failed")
	}
	return mandate, nil
}

// FindLatestCart returns the newest cart for an invoice in the given status,
// letting a client pick a confirmation flow back up by invoice alone.
func (s *Service) FindLatestCart(ctx context.Context, invoiceRef string, status models.CartStatus) (*models.CartMandate, error) {
	mandate, err := s.carts.FindLatestByInvoiceAndStatus(ctx, invoiceRef, status)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no %s cart for invoice %s", status, invoiceRef)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cart lookup failed")
	}
	return mandate, nil
}

// FindLatestPayment returns the newest payment for an invoice in the given
// status.
func (s *Service) FindLatestPayment(ctx context.Context, invoiceRef string, status models.PaymentStatus) (*models.PaymentMandate, error) {
	mandate, err := s.payments.FindLatestByInvoiceAndStatus(ctx, invoiceRef, status)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no %s payment for invoice %s", status, invoiceRef)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "payment lookup failed")
	}
	return mandate, nil
}

// GetCart returns one cart mandate.
func (s *Service) GetCart(ctx context.Context, cartID string) (*models.CartMandate, error) {
	mandate, err := s.carts.FindByCartID(ctx, cartID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "cart %s not found", cartID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cart lookup failed")
	}
	return mandate, nil
}

// GetPayment returns one payment mandate.
func (s *Service) GetPayment(ctx context.Context, paymentMandateID string) (*models.PaymentMandate, error) {
	mandate, err := s.payments.FindByID(ctx, paymentMandateID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "payment mandate %s not found", paymentMandateID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "payment lookup failed")
	}
	return mandate, nil
}

// ListTransactions returns the receipts for an invoice.
func (s *Service) ListTransactions(ctx context.Context, invoiceRef string) ([]*models.Transaction, error) {
	txns, err := s.payments.ListTransactionsByInvoice(ctx, invoiceRef)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "transaction lookup failed")
	}
	return txns, nil
}

func (s *Service) concurrentModification(intentHash string) error {
	if s.metrics != nil {
		s.metrics.ConcurrencyConflicts.Inc()
	}
	return dErrors.Newf(dErrors.CodeConcurrentModification, "another transition holds intent %s", intentHash)
}

func (s *Service) countSignatureFailure() {
	if s.metrics != nil {
		s.metrics.SignatureFailures.Inc()
	}
}

func (s *Service) observe(transition string, start time.Time) {
	if s.metrics != nil {
		s.metrics.TransitionDuration.WithLabelValues(transition).Observe(time.Since(start).Seconds())
	}
}

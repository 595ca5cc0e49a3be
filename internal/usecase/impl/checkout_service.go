package impl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	minAddressLength = 5
	maxAddressLength = 200

	paymentStatusSuccessful = "successful"
)

type checkoutService struct {
	txManager      repository.TransactionManager
	cartRepo       repository.CartRepository
	userRepo       repository.UserRepository
	gateway        service.PaymentGateway
	checkoutTokens service.CheckoutTokenService
	notifier       service.Notifier
	paymentCfg     config.PaymentConfig
	notifyCfg      config.NotificationConfig
	logger         *slog.Logger
}

// CheckoutServiceParams holds dependencies for CheckoutService, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	CartRepo       repository.CartRepository
	UserRepo       repository.UserRepository
	Gateway        service.PaymentGateway
	CheckoutTokens service.CheckoutTokenService
	Notifier       service.Notifier
	Config         *config.Config
	Logger         *slog.Logger
}

// NewCheckoutService creates a new checkout service instance.
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	srv := &checkoutService{
		txManager:      params.TxManager,
		cartRepo:       params.CartRepo,
		userRepo:       params.UserRepo,
		gateway:        params.Gateway,
		checkoutTokens: params.CheckoutTokens,
		notifier:       params.Notifier,
		logger:         params.Logger,
	}
	if params.Config.Payment != nil {
		srv.paymentCfg = *params.Config.Payment
	}
	if params.Config.Notification != nil {
		srv.notifyCfg = *params.Config.Notification
	}

	return srv
}

func (s *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// Pay validates the cart without mutating it, opens a gateway session for its total and binds
// buyer, cart, address and tx_ref into a checkout token carried on the redirect URL.
func (s *checkoutService) Pay(ctx context.Context, input *usecase.PayInput) (*usecase.PayOutput, error) {
	address, err := normalizeAddress(input.Address)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.FindByID(ctx, input.CartID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to load cart")
	}

	if !cart.IsOwnedBy(input.UserID) {
		return nil, errors.WithStack(domainerrors.ErrForbidden)
	}

	if len(cart.Items) == 0 {
		return nil, errors.WithStack(domainerrors.ErrCartEmpty)
	}

	var shortages []string
	for _, item := range cart.Items {
		if item.Product == nil || !item.Product.InStock(item.Quantity) {
			shortages = append(shortages, describeShortage(item.ProductID, item.Product, item.Quantity))
		}
	}
	if len(shortages) > 0 {
		return nil, errors.WithStack(domainerrors.ErrInsufficientInventory.WithDetails(strings.Join(shortages, "; ")))
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to load buyer")
	}

	amount := cart.GrandTotal()
	txRef := uuid.NewString()

	token, err := s.checkoutTokens.IssueCheckoutToken(user.ID, cart.ID, txRef, address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue checkout token")
	}

	redirectURL, err := s.confirmationURL(cart.ID, token)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.InitiatePayment(ctx, &service.PaymentRequest{
		TxRef:       txRef,
		Amount:      amount,
		Currency:    s.paymentCfg.Currency,
		RedirectURL: redirectURL,
		Customer: service.PaymentCustomer{
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
			Name:        strings.TrimSpace(user.LastName + " " + user.FirstName),
		},
		Meta: map[string]string{
			"consumer_id": user.ID.String(),
			"cart_id":     cart.ID.String(),
		},
	})
	if err != nil {
		s.log(ctx).Warn("Payment initiation failed", slog.Any("cartID", cart.ID), slog.String("tx_ref", txRef), slog.Any("error", err))

		if domainerrors.KindOf(err) == domainerrors.KindExternal {
			return nil, errors.Wrap(err, "payment initiation failed")
		}

		return nil, errors.Wrap(domainerrors.ErrPaymentGateway.WithDetails(err.Error()), "payment initiation failed")
	}

	s.log(ctx).Info("Payment initiated",
		slog.Any("cartID", cart.ID),
		slog.String("tx_ref", txRef),
		slog.String("amount", amount.StringFixed(2)),
	)

	return &usecase.PayOutput{
		PaymentLink:   session.Link,
		TxRef:         txRef,
		Amount:        amount,
		CheckoutToken: token,
	}, nil
}

// ConfirmPayment handles the gateway redirect. Only a "successful" status with a token bound
// to the same cart places an order.
func (s *checkoutService) ConfirmPayment(ctx context.Context, input *usecase.ConfirmPaymentInput) (*entity.Order, error) {
	if !strings.EqualFold(strings.TrimSpace(input.Status), paymentStatusSuccessful) {
		return nil, errors.WithStack(domainerrors.ErrPaymentFailed.WithDetails("gateway status: " + input.Status))
	}

	claims, err := s.checkoutTokens.ParseCheckoutToken(input.Token)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidCheckoutToken, err.Error())
	}

	if claims.CartID != input.CartID {
		return nil, errors.WithStack(domainerrors.ErrInvalidCheckoutToken.WithDetails("token was issued for another cart"))
	}

	transactionID := strings.TrimSpace(input.TransactionID)
	if transactionID == "" {
		transactionID = claims.TxRef
	}

	return s.PlaceOrder(ctx, &usecase.PlaceOrderInput{
		UserID:        claims.UserID,
		CartID:        claims.CartID,
		Address:       claims.Address,
		TransactionID: transactionID,
	})
}

// PlaceOrder converts the cart into an order in one transaction: lock the cart, decrement
// every product with a conditional update in product ID order, record the order at the
// post-decrement prices and delete the cart. Any shortage rolls everything back.
func (s *checkoutService) PlaceOrder(ctx context.Context, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	address, err := normalizeAddress(input.Address)
	if err != nil {
		return nil, err
	}

	var order *entity.Order

	err = s.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		cartRepo := repos.CartRepo()
		productRepo := repos.ProductRepo()

		cart, err := lockOwnedCart(ctx, cartRepo, input.UserID, input.CartID)
		if err != nil {
			return err
		}

		if len(cart.Items) == 0 {
			return errors.WithStack(domainerrors.ErrCartEmpty)
		}

		items := make([]*entity.CartItem, len(cart.Items))
		copy(items, cart.Items)
		sort.Slice(items, func(i, j int) bool {
			return items[i].ProductID.String() < items[j].ProductID.String()
		})

		orderItems := make([]*entity.OrderItem, 0, len(items))
		var shortages []string

		for _, item := range items {
			product, err := productRepo.DecrementInventory(ctx, item.ProductID, item.Quantity)
			if errors.Is(err, repository.ErrInsufficientStock) {
				shortages = append(shortages, describeShortage(item.ProductID, item.Product, item.Quantity))

				continue
			}
			if err != nil {
				return wrapRepoError(err, "failed to reserve inventory")
			}

			orderItems = append(orderItems, &entity.OrderItem{
				OwnerID:   input.UserID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
		}

		if len(shortages) > 0 {
			return errors.WithStack(domainerrors.ErrInsufficientInventory.WithDetails(strings.Join(shortages, "; ")))
		}

		order = &entity.Order{
			OwnerID:       input.UserID,
			Address:       address,
			TransactionID: input.TransactionID,
			Items:         orderItems,
		}
		order.TotalPrice = order.SumItems()

		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return wrapRepoError(err, "failed to create order")
		}

		return wrapRepoError(cartRepo.Delete(ctx, cart.ID), "failed to delete cart")
	})
	if err != nil {
		s.log(ctx).Warn("Order placement failed", slog.Any("cartID", input.CartID), slog.Any("error", err))

		return nil, err
	}

	s.log(ctx).Info("Order placed",
		slog.Any("orderID", order.ID),
		slog.Any("userID", order.OwnerID),
		slog.String("total", order.TotalPrice.StringFixed(2)),
	)

	s.notifyOrderPlaced(ctx, order)

	return order, nil
}

// notifyOrderPlaced queues the operations notice and the customer receipt. Failures are logged only.
func (s *checkoutService) notifyOrderPlaced(ctx context.Context, order *entity.Order) {
	customer := &entity.User{ID: order.OwnerID}
	if user, err := s.userRepo.FindByID(ctx, order.OwnerID); err == nil {
		customer = user
	} else {
		s.log(ctx).Warn("Failed to load customer for order notification", slog.Any("orderID", order.ID), slog.Any("error", err))
	}

	if s.notifyCfg.OpsMailbox != "" || s.notifyCfg.OpsPushTopic != "" {
		subject, body := orderPlacedOpsMessage(order, greetingName(customer))
		event := &service.MailEvent{
			Kind:    service.MailKindOrderPlaced,
			Subject: subject,
			Body:    body,
		}
		if s.notifyCfg.OpsMailbox != "" {
			event.To = []string{s.notifyCfg.OpsMailbox}
		}
		if s.notifyCfg.OpsPushTopic != "" {
			event.Push = &service.PushMessage{
				Topic: s.notifyCfg.OpsPushTopic,
				Title: "New order",
				Body:  fmt.Sprintf("%d items, total %s", len(order.Items), order.TotalPrice.StringFixed(2)),
				Data:  map[string]string{"order_id": order.ID.String()},
			}
		}
		s.notifier.Enqueue(ctx, event)
	}

	if customer.Email != "" {
		subject, body := orderReceiptMessage(order, customer, s.notifyCfg.StorefrontURL)
		enqueueMail(ctx, s.notifier, service.MailKindOrderReceipt, customer.Email, subject, body)
	}
}

func (s *checkoutService) confirmationURL(cartID uuid.UUID, token string) (string, error) {
	u, err := url.Parse(s.paymentCfg.CallbackURL)
	if err != nil || s.paymentCfg.CallbackURL == "" {
		return "", errors.New("payment callback URL is not configured")
	}

	q := u.Query()
	q.Set("c_id", cartID.String())
	q.Set("token", token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func normalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	n := utf8.RuneCountInString(address)
	if n < minAddressLength || n > maxAddressLength {
		return "", errors.WithStack(domainerrors.ErrInvalidAddress.WithDetails(
			fmt.Sprintf("address must be between %d and %d characters", minAddressLength, maxAddressLength),
		))
	}

	return address, nil
}

func describeShortage(productID uuid.UUID, product *entity.Product, requested int) string {
	if product == nil {
		return fmt.Sprintf("product %s is no longer available", productID)
	}

	return fmt.Sprintf("%s: available %d, requested %d", product.Name, product.Inventory, requested)
}

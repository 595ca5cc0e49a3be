package impl

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "storefront"

// callMetrics holds the RED metrics of one usecase.
type callMetrics struct {
	reqs *prometheus.CounterVec
	errs *prometheus.CounterVec
	durs *prometheus.HistogramVec
}

func newCallMetrics(reg prometheus.Registerer, subsystem, what string) (*callMetrics, error) {
	m := &callMetrics{
		reqs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "call_total",
			Help:      "Number of calls to the " + what,
		}, []string{"method"}),
		errs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "error_total",
			Help:      "Number of errors returned by the " + what,
		}, []string{"method", "code"}),
		durs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Duration of " + what + " calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	for _, c := range []prometheus.Collector{m.reqs, m.errs, m.durs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *callMetrics) updateMetrics(method string) func(error) error {
	start := time.Now()

	return func(err error) error {
		m.reqs.With(prometheus.Labels{"method": method}).Inc()

		if err != nil {
			code := "unknown"
			var appErr domainerrors.AppError
			if errors.As(err, &appErr) {
				code = appErr.ErrorCode()
			}
			m.errs.With(prometheus.Labels{"method": method, "code": code}).Inc()
		}

		m.durs.With(prometheus.Labels{"method": method}).Observe(time.Since(start).Seconds())

		return err
	}
}

type checkoutMetrics struct {
	*callMetrics
	next usecase.CheckoutUsecase
}

var _ usecase.CheckoutUsecase = (*checkoutMetrics)(nil)

// MiddlewareCheckoutMetrics instruments the checkout usecase.
func MiddlewareCheckoutMetrics(reg prometheus.Registerer, svc usecase.CheckoutUsecase) (usecase.CheckoutUsecase, error) {
	m, err := newCallMetrics(reg, "checkout", "checkout usecase")
	if err != nil {
		return nil, err
	}

	return &checkoutMetrics{callMetrics: m, next: svc}, nil
}

func (mw *checkoutMetrics) Pay(ctx context.Context, input *usecase.PayInput) (*usecase.PayOutput, error) {
	m := mw.updateMetrics("pay")
	out, err := mw.next.Pay(ctx, input)
	return out, m(err)
}

func (mw *checkoutMetrics) ConfirmPayment(ctx context.Context, input *usecase.ConfirmPaymentInput) (*entity.Order, error) {
	m := mw.updateMetrics("confirm_payment")
	order, err := mw.next.ConfirmPayment(ctx, input)
	return order, m(err)
}

func (mw *checkoutMetrics) PlaceOrder(ctx context.Context, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	m := mw.updateMetrics("place_order")
	order, err := mw.next.PlaceOrder(ctx, input)
	return order, m(err)
}

type authMetrics struct {
	*callMetrics
	next usecase.AuthUsecase
}

var _ usecase.AuthUsecase = (*authMetrics)(nil)

// MiddlewareAuthMetrics instruments signup, OTP verification and session calls.
func MiddlewareAuthMetrics(reg prometheus.Registerer, svc usecase.AuthUsecase) (usecase.AuthUsecase, error) {
	m, err := newCallMetrics(reg, "auth", "auth usecase")
	if err != nil {
		return nil, err
	}

	return &authMetrics{callMetrics: m, next: svc}, nil
}

func (mw *authMetrics) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	m := mw.updateMetrics("signup")
	out, err := mw.next.Signup(ctx, input)
	return out, m(err)
}

func (mw *authMetrics) VerifySignup(ctx context.Context, input *usecase.VerifySignupInput) (*usecase.LoginOutput, error) {
	m := mw.updateMetrics("verify_signup")
	out, err := mw.next.VerifySignup(ctx, input)
	return out, m(err)
}

func (mw *authMetrics) ResendSignupOTP(ctx context.Context, email string) error {
	return mw.updateMetrics("resend_signup_otp")(mw.next.ResendSignupOTP(ctx, email))
}

func (mw *authMetrics) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	m := mw.updateMetrics("login")
	out, err := mw.next.Login(ctx, input)
	return out, m(err)
}

func (mw *authMetrics) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	m := mw.updateMetrics("refresh_token")
	out, err := mw.next.RefreshToken(ctx, input)
	return out, m(err)
}

func (mw *authMetrics) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	return mw.updateMetrics("logout")(mw.next.Logout(ctx, input))
}

func (mw *authMetrics) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return mw.updateMetrics("logout_all")(mw.next.LogoutAll(ctx, userID))
}

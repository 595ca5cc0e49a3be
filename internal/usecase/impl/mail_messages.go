package impl

import (
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/entity"
)

var otpSubjects = map[entity.OTPPurpose]string{
	entity.OTPPurposeSignup:         "Verify your email address",
	entity.OTPPurposeForgotPassword: "Password reset code",
	entity.OTPPurposePasswordChange: "Password change code",
	entity.OTPPurposeEmailChange:    "Confirm your new email address",
	entity.OTPPurposeNameChange:     "Name change code",
}

func otpMessage(purpose entity.OTPPurpose, code string, ttl time.Duration, resent bool) (string, string) {
	subject, ok := otpSubjects[purpose]
	if !ok {
		subject = "Your verification code"
	}
	if resent {
		subject += " (resent)"
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))

	return subject, body
}

func welcomeMessage(user *entity.User) (string, string) {
	return "Welcome to the store",
		fmt.Sprintf("Hi %s, your account is verified and ready to use.", greetingName(user))
}

func loginMessage(user *entity.User, at time.Time) (string, string) {
	return "New sign-in to your account",
		fmt.Sprintf("Hi %s, your account was signed in at %s. If this was not you, reset your password.",
			greetingName(user), at.UTC().Format(time.RFC1123))
}

func changeConfirmationMessage(user *entity.User, what string) (string, string) {
	return "Your account was updated",
		fmt.Sprintf("Hi %s, your %s was changed successfully.", greetingName(user), what)
}

func orderPlacedOpsMessage(order *entity.Order, customer string) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s placed by %s\n", order.ID, customer)
	fmt.Fprintf(&b, "Deliver to: %s\n", order.Address)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- product %s x%d @ %s\n", item.ProductID, item.Quantity, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s\n", order.TotalPrice.StringFixed(2))

	return "New order " + order.ID.String(), b.String()
}

func orderReceiptMessage(order *entity.Order, user *entity.User, storefrontURL string) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, thank you for your order.\n", greetingName(user))
	fmt.Fprintf(&b, "Order: %s\nTotal: %s\nDelivery address: %s\n", order.ID, order.TotalPrice.StringFixed(2), order.Address)
	if storefrontURL != "" {
		fmt.Fprintf(&b, "Track it at %s/orders/%s\n", strings.TrimRight(storefrontURL, "/"), order.ID)
	}

	return "Order confirmation", b.String()
}

func greetingName(user *entity.User) string {
	if name := user.FullName(); name != "" {
		return name
	}

	return user.Email
}

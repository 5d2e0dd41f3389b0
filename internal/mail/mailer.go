package mail

import "context"

// Mailer dispatches the two kinds of action-token emails. Delivery
// mechanics stay behind this interface so auth flows can be tested with
// a recording fake.
type Mailer interface {
	SendEmailVerification(ctx context.Context, to, verifyURL string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

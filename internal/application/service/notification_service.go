package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sunpay/installment-service/internal/domain"
	"github.com/sunpay/installment-service/internal/installment"
	"go.uber.org/zap"
)

const dueDateLayout = "2006-01-02"

// Notifier delivers a text message to a customer.
type Notifier interface {
	Send(ctx context.Context, phone, message string) error
}

// LogNotifier writes messages to the log instead of an SMS gateway.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, phone, message string) error {
	n.logger.Info("SMS notification sent",
		zap.String("phone", phone),
		zap.String("message", message),
	)
	return nil
}

// NotificationService renders customer messages from calculator figures.
type NotificationService struct {
	notifier     Notifier
	formatter    installment.CurrencyFormatter
	currencyCode string
	logger       *zap.Logger
}

func NewNotificationService(
	notifier Notifier,
	formatter installment.CurrencyFormatter,
	currencyCode string,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifier:     notifier,
		formatter:    formatter,
		currencyCode: currencyCode,
		logger:       logger,
	}
}

// HandlePaymentProcessed sends the payment receipt, and a congratulation when
// the payment unlocked the plan.
func (s *NotificationService) HandlePaymentProcessed(ctx context.Context, event domain.DomainEvent) error {
	paymentEvent, ok := event.(*domain.PaymentProcessedEvent)
	if !ok {
		return fmt.Errorf("invalid event type: %T", event)
	}

	payload := paymentEvent.Payload

	s.logger.Info("handling payment processed event",
		zap.String("event_id", event.GetEventID()),
		zap.String("plan_id", payload.PlanID),
		zap.Int64("amount", payload.Amount),
	)

	message, err := s.receiptMessage(payload)
	if err != nil {
		return err
	}
	if err := s.notifier.Send(ctx, payload.Phone, message); err != nil {
		return fmt.Errorf("failed to send receipt: %w", err)
	}

	if payload.IsUnlocked {
		congrats := fmt.Sprintf("Congratulations %s! Plan %s is fully paid and your solar system is now unlocked.",
			firstName(payload.CustomerName), payload.PlanID)
		if err := s.notifier.Send(ctx, payload.Phone, congrats); err != nil {
			return fmt.Errorf("failed to send unlock notice: %w", err)
		}
	}

	return nil
}

func (s *NotificationService) receiptMessage(p domain.PaymentProcessedPayload) (string, error) {
	amount, err := s.format(p.Amount)
	if err != nil {
		return "", err
	}
	balance, err := s.format(p.OutstandingBalance)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Payment of %s received for plan %s. Balance: %s (%s paid).", amount, p.PlanID, balance, installment.FormatPercent(p.PaymentProgress, 0))

	if p.Overpayment > 0 {
		over, err := s.format(p.Overpayment)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, " Overpayment: %s.", over)
	}

	if !p.IsUnlocked {
		fmt.Fprintf(&b, " %d %s left (%s). Next due %s.",
			p.RemainingInstallments,
			plural(p.RemainingInstallments, "installment"),
			installment.HumanReadableTerm(p.RemainingTermDays),
			p.NextDueDate.Format(dueDateLayout),
		)
	}

	return b.String(), nil
}

// SendReminder tells the customer an installment is coming up or overdue.
func (s *NotificationService) SendReminder(ctx context.Context, plan *domain.Plan, report installment.Report) error {
	if report.DaysUntilDue == nil {
		return nil
	}

	due := plan.MinimumPayment
	if outstanding := domain.NairaToKobo(report.OutstandingBalance); outstanding < due {
		due = outstanding
	}
	amount, err := s.format(due)
	if err != nil {
		return err
	}

	var when string
	switch days := *report.DaysUntilDue; {
	case days > 0:
		when = fmt.Sprintf("is due in %d %s (%s)", days, plural(days, "day"), plan.DueDate.Format(dueDateLayout))
	case days == 0:
		when = "is due today"
	default:
		when = fmt.Sprintf("is overdue by %d %s", -days, plural(-days, "day"))
	}

	message := fmt.Sprintf("Hi %s, your SunPay installment of %s for plan %s %s.",
		firstName(plan.CustomerName), amount, plan.ID, when)

	if err := s.notifier.Send(ctx, plan.Phone, message); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

func (s *NotificationService) format(kobo int64) (string, error) {
	formatted, err := s.formatter.Format(domain.KoboToNaira(kobo), s.currencyCode)
	if err != nil {
		return "", fmt.Errorf("failed to format amount: %w", err)
	}
	return formatted, nil
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

func firstName(full string) string {
	if fields := strings.Fields(full); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}

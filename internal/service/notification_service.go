package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/estimate-service/internal/config"
	"github.com/spec-kit/estimate-service/internal/events"
	"github.com/spec-kit/estimate-service/internal/notification"
)

// NotificationService turns domain events into transactional email.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     notification.Sender
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender notification.Sender, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventContractSigned, n.handleContractSigned)
	n.dispatcher.Subscribe(events.EventIntakeCompleted, n.handleIntakeCompleted)
}

func (n *NotificationService) handleContractSigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ContractSignedPayload)
	if !ok {
		return fmt.Errorf("contract_signed: unexpected payload %T", event.Payload)
	}

	n.logger.Info("ContractSigned",
		zap.String("project_id", payload.ProjectID),
		zap.String("contractor_id", payload.ContractorID))

	email := notification.Email{
		From:    n.cfg.EmailFrom,
		To:      payload.ContractorEmail,
		Subject: fmt.Sprintf("Contract signed: %s", payload.ProjectTitle),
		TextBody: fmt.Sprintf(
			"%s signed the estimate %q for $%.2f.\nSignature: %s\n",
			payload.CustomerName, payload.ProjectTitle, payload.TotalAmount, payload.SignatureName),
	}
	if err := n.sender.Send(ctx, email); err != nil {
		// surfaced to the dispatcher for logging; the signing itself stands
		return fmt.Errorf("contract_signed email: %w", err)
	}
	return nil
}

func (n *NotificationService) handleIntakeCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IntakeCompletedPayload)
	if !ok {
		return fmt.Errorf("intake_completed: unexpected payload %T", event.Payload)
	}

	n.logger.Info("IntakeCompleted",
		zap.String("customer_id", payload.CustomerID),
		zap.String("contractor_id", payload.ContractorID))
	return nil
}

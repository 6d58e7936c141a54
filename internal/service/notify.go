package service

import (
	"context"

	"github.com/membership-hub/membership-service/internal/notification"
	"github.com/membership-hub/membership-service/internal/observability"
	apperrors "github.com/membership-hub/membership-service/pkg/util/errorutil"
)

// dispatch sends msg and records the attempt. Failures come back as DeliveryError.
func dispatch(ctx context.Context, d notification.Dispatcher, kind string, msg notification.Message) error {
	if err := d.Send(ctx, msg); err != nil {
		observability.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		return apperrors.NewDeliveryError(err)
	}
	observability.NotificationsTotal.WithLabelValues(kind, "sent").Inc()
	return nil
}

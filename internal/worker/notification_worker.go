package worker

import (
	"github.com/civicfix/report-service/internal/service"
)

// StartNotificationWorker attaches the notification service's event
// subscriptions to the dispatcher. Must run before any service publishes;
// the dispatcher delivers synchronously and drops events with no listener.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

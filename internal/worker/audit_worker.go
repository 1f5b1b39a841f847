package worker

import (
	"github.com/spec-kit/coach-gateway/internal/service"
)

// StartAuditWorker registers the membership audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}

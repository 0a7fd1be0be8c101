package services

import (
	"log/slog"

	"task-timer/internal/repository/sqlite"
)

// NewServiceContainer wires every service over one repository
func NewServiceContainer(repo sqlite.Repository, logger *slog.Logger) *ServiceContainer {
	return &ServiceContainer{
		LedgerService:    NewLedgerService(repo, logger),
		TaskService:      NewTaskService(repo),
		SearchService:    NewSearchService(repo),
		ReportingService: NewReportingService(repo),
	}
}

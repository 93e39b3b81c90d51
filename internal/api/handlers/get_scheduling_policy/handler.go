package get_scheduling_policy

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/policy"
)

const (
	msgInvalidCompanyID = "некорректный ID компании"
	msgCompanyNotFound  = "компания не найдена"
)

type Handler struct {
	resolver PolicyResolver
	logger   Logger
}

func NewHandler(resolver PolicyResolver, logger Logger) *Handler {
	return &Handler{
		resolver: resolver,
		logger:   logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/scheduling-policy
// Возвращает политику с подставленными значениями по умолчанию, как её видит расчёт доступности
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]
	if _, err := uuid.Parse(companyID); err != nil {
		h.logger.Warn("GET /companies/{id}/scheduling-policy - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	p, err := h.resolver.Resolve(r.Context(), companyID)
	if err != nil {
		var cfgErr *domain.ConfigurationError

		switch {
		case errors.As(err, &cfgErr):
			h.logger.Warn("GET /companies/{id}/scheduling-policy - Policy misconfigured: company_id=%s, error=%v", companyID, err)
			handlers.RespondBadRequest(w, cfgErr.Error())

		case errors.Is(err, policy.ErrCompanyNotFound):
			h.logger.Warn("GET /companies/{id}/scheduling-policy - Company not found: company_id=%s", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		default:
			h.logger.Error("GET /companies/{id}/scheduling-policy - Failed to resolve policy: company_id=%s, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /companies/{id}/scheduling-policy - Policy resolved: company_id=%s, timezone=%s", companyID, p.Timezone)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewPolicyResponse(p))
}

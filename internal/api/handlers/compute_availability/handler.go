package compute_availability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	computeAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/compute_availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgCompanyNotFound    = "компания не найдена"
	msgRequestCanceled    = "запрос отменён клиентом"
)

type Handler struct {
	useCase  ComputeAvailabilityUseCase
	validate *validator.Validate
	timeout  time.Duration
	logger   Logger
}

// NewHandler timeout ограничивает время расчёта одного запроса (0 без ограничения)
func NewHandler(useCase ComputeAvailabilityUseCase, validate *validator.Validate, timeout time.Duration, logger Logger) *Handler {
	if validate == nil {
		validate = validator.New()
	}
	return &Handler{
		useCase:  useCase,
		validate: validate,
		timeout:  timeout,
		logger:   logger,
	}
}

// Handle POST /api/v1/availability
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ComputeAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.logger.Warn("POST /availability - Validation failed: %v", err)
		handlers.RespondBadRequest(w, validationMessage(err))
		return
	}

	useCaseReq, err := ToUseCaseRequest(&req)
	if err != nil {
		h.logger.Warn("POST /availability - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.useCase.Execute(ctx, useCaseReq)
	if err != nil {
		var cfgErr *domain.ConfigurationError

		switch {
		case errors.Is(err, computeAvailability.ErrInvalidInput):
			h.logger.Warn("POST /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.As(err, &cfgErr):
			h.logger.Warn("POST /availability - Scheduling policy misconfigured: company_id=%s, error=%v", req.CompanyID, err)
			handlers.RespondBadRequest(w, cfgErr.Error())

		case errors.Is(err, computeAvailability.ErrCompanyNotFound):
			h.logger.Warn("POST /availability - Company not found: company_id=%s", req.CompanyID)
			handlers.RespondBadRequest(w, msgCompanyNotFound)

		case errors.Is(err, context.DeadlineExceeded):
			h.logger.Error("POST /availability - Deadline exceeded: company_id=%s, timeout=%s", req.CompanyID, h.timeout)
			handlers.RespondGatewayTimeout(w)

		case errors.Is(err, context.Canceled):
			h.logger.Warn("POST /availability - Request canceled: company_id=%s", req.CompanyID)
			handlers.RespondError(w, http.StatusRequestTimeout, msgRequestCanceled)

		default:
			h.logger.Error("POST /availability - Failed to compute availability: company_id=%s, error=%v", req.CompanyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /availability - Availability computed: request_id=%s, company_id=%s, employees=%d, failed=%d",
		middleware.RequestIDFromContext(r.Context()), req.CompanyID, len(result.Resources), len(response.Failures))
	handlers.RespondJSON(w, http.StatusOK, response)
}

// validationMessage формирует понятное сообщение из ошибок validator
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgInvalidRequestBody
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return "invalid input data: " + strings.Join(parts, "; ")
}

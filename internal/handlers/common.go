package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netvista/netvista-api/internal/auth"
	"github.com/netvista/netvista-api/internal/interfaces"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/services"
	"github.com/netvista/netvista-api/internal/types/business"
	"go.uber.org/zap"
)

// CommonServices holds the shared dependencies used across handlers
type CommonServices struct {
	factory   *services.BusinessLogicFactory
	publisher interfaces.CommissionEventPublisher
	logger    *zap.Logger
}

// NewCommonServices creates the shared handler dependencies
func NewCommonServices(factory *services.BusinessLogicFactory, publisher interfaces.CommissionEventPublisher) *CommonServices {
	return &CommonServices{
		factory:   factory,
		publisher: publisher,
		logger:    logger.Log,
	}
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// portalOrAbort reads the authenticated portal context, aborting with 401
// when the auth middleware did not attach one
func (s *CommonServices) portalOrAbort(c *gin.Context) (business.PortalContext, bool) {
	portal, ok := auth.PortalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return business.PortalContext{}, false
	}
	return portal, true
}

// respondEngineError maps engine errors onto HTTP statuses: authorization
// and feature-gate errors are 403, upstream dependency failures are 502,
// everything else is caller error.
func (s *CommonServices) respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInsufficientPermissions),
		errors.Is(err, services.ErrCommissionTrackingDisabled),
		errors.Is(err, services.ErrUnknownPortalType):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case isDependencyFailure(err):
		s.logger.Error("Upstream dependency failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}

// isDependencyFailure reports whether the error came out of a provider
// fetch rather than input validation. Engines wrap every provider failure
// in a services.DependencyError; validation errors are returned bare.
func isDependencyFailure(err error) bool {
	var depErr *services.DependencyError
	return errors.As(err, &depErr)
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/variant-context-server/internal/domain"
)

// ContextResolver runs the annotation pipeline for one identifier.
type ContextResolver interface {
	Resolve(ctx context.Context, identifier string) (*domain.VariantContext, error)
}

// handleVariantContext handles GET /variant/context requests.
func (s *Server) handleVariantContext(c *gin.Context) {
	identifier := c.Query("variant_identifier")
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "variant_identifier query parameter is required",
		})
		return
	}

	vc, err := s.resolver.Resolve(c.Request.Context(), identifier)
	if err != nil {
		status := domain.HTTPStatus(err)
		s.log.WithFields(logrus.Fields{
			"identifier": identifier,
			"status":     status,
			"error":      err,
		}).Warn("Variant context request failed")
		c.JSON(status, gin.H{"error": statusMessage(status, identifier)})
		return
	}

	c.JSON(http.StatusOK, vc)
}

// statusMessage renders the caller-facing message for a failed request without
// leaking internal error chains.
func statusMessage(status int, identifier string) string {
	switch status {
	case http.StatusBadRequest:
		return fmt.Sprintf("Invalid or unparseable variant format: %s", identifier)
	case http.StatusNotFound:
		return fmt.Sprintf("Could not find annotation for variant: %s", identifier)
	case http.StatusBadGateway:
		return fmt.Sprintf("Annotation service failed for variant: %s", identifier)
	case http.StatusServiceUnavailable:
		return "Score store unavailable, please retry later"
	default:
		return "Internal server error"
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := gin.H{}
	for name, checker := range s.checkers {
		if checker == nil {
			continue
		}
		if err := checker.Health(ctx); err != nil {
			components[name] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			components[name] = "ok"
		}
	}

	body := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(components) > 0 {
		body["components"] = components
	}

	c.JSON(status, body)
}

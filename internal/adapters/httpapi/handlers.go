package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/adapters/classifier"
	"github.com/mikey/mailprobe/internal/core"
)

type validateRequest struct {
	Email string `json:"email"`
}

type validateResponse struct {
	Email                 string             `json:"email"`
	TraditionalValidation bool               `json:"traditionalValidation"`
	AIValidation          bool               `json:"aiValidation"`
	AIConfidence          float64            `json:"aiConfidence"`
	Features              map[string]float64 `json:"features"`
}

type trainRequest struct {
	Dataset []trainingSample `json:"dataset"`
}

type trainingSample struct {
	Email    string    `json:"email,omitempty"`
	Features []float64 `json:"features,omitempty"`
	Label    float64   `json:"label"`
}

// evaluateRequest accepts the documented testData field; dataset is
// also honored so a training payload can be replayed for evaluation.
type evaluateRequest struct {
	TestData []trainingSample `json:"testData"`
	Dataset  []trainingSample `json:"dataset"`
}

func (r evaluateRequest) samples() []trainingSample {
	if len(r.TestData) > 0 {
		return r.TestData
	}
	return r.Dataset
}

type evaluateResponse struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"ready":  s.service != nil,
	})
}

func (s *Server) handleValidate(c *fiber.Ctx) error {
	var req validateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email is required",
		})
	}

	result, err := s.service.Validate(c.Context(), req.Email)
	if err != nil {
		return s.serviceError(c, err)
	}

	return c.JSON(validateResponse{
		Email:                 result.Email,
		TraditionalValidation: result.TraditionalValidation,
		AIValidation:          result.AIValidation,
		AIConfidence:          result.AIConfidence,
		Features:              result.Features,
	})
}

func (s *Server) handleTrain(c *fiber.Ctx) error {
	var req trainRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if len(req.Dataset) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "dataset is empty",
		})
	}

	if err := s.service.Train(c.Context(), toSamples(req.Dataset)); err != nil {
		if errors.Is(err, classifier.ErrTrainingUnsupported) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "configured classifier does not support training",
			})
		}
		return s.serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"samples": len(req.Dataset),
	})
}

func (s *Server) handleEvaluate(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	samples := req.samples()
	if len(samples) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "testData is empty",
		})
	}

	report, err := s.service.Evaluate(c.Context(), toSamples(samples))
	if err != nil {
		return s.serviceError(c, err)
	}

	return c.JSON(evaluateResponse{
		Total:    report.Total,
		Correct:  report.Correct,
		Accuracy: report.Accuracy,
	})
}

// serviceError maps core errors to HTTP statuses. An uninitialized
// classifier is a temporary condition, not a client fault.
func (s *Server) serviceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, core.ErrClassifierNotReady) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "classifier is not ready",
		})
	}
	s.logger.Error("Request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}

func toSamples(in []trainingSample) []core.TrainingSample {
	out := make([]core.TrainingSample, len(in))
	for i, s := range in {
		out[i] = core.TrainingSample{
			Email:    s.Email,
			Features: s.Features,
			Label:    s.Label,
		}
	}
	return out
}

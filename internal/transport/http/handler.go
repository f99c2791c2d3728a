package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bauernschach/internal/core"
	"bauernschach/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler translates REST calls into service operations
type HTTPHandler struct {
	svc *service.Service
}

func NewHTTPHandler(svc *service.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func NewFiberApp(svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: service.WaitTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 10
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	games := api.Group("/games")
	games.Post("", h.CreateGame)
	games.Get("/:gameId", h.GetGame)
	games.Delete("/:gameId", h.DeleteGame)
	games.Post("/:gameId/select", h.SelectPiece)
	games.Post("/:gameId/deselect", h.DeselectPiece)
	games.Post("/:gameId/moves", h.MakeMove)
	games.Post("/:gameId/pass", h.Pass)
	games.Get("/:gameId/board", h.GetBoard)

	return app
}

// contentTypeValidator ensures POST requests carry JSON
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		response.Error = fe.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// serviceError maps service errors to HTTP responses
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	case errors.Is(err, service.ErrOperationFailed):
		return c.Status(fiber.StatusConflict).JSON(core.ErrorResponse{
			Error:   "operation not possible",
			Code:    core.ErrOperationFailed,
			Details: err.Error(),
		})
	case errors.Is(err, service.ErrTooManyGames):
		return c.Status(fiber.StatusServiceUnavailable).JSON(core.ErrorResponse{
			Error:   "too many active games",
			Code:    core.ErrResourceLimit,
			Details: err.Error(),
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "request rejected",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}
}

func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Unix(),
		"games":  h.svc.GameCount(),
	})
}

// CreateGame starts a game with optional board dimensions
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req := core.CreateGameRequest{}
	if body, ok := validatedBody[core.CreateGameRequest](c); ok {
		req = *body
	}

	view, err := h.svc.CreateGame(req.Rows, req.Columns)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toGameResponse(view))
}

// GetGame returns the game state, optionally long-polling for a newer version
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}

	if c.Query("wait", "false") != "true" {
		view, err := h.svc.GetGame(gameID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(toGameResponse(view))
	}

	version, err := strconv.Atoi(c.Query("version", "-1"))
	if err != nil {
		version = -1
	}

	view, err := h.svc.GetGame(gameID)
	if err != nil {
		return serviceError(c, err)
	}
	if view.Version != version {
		return c.JSON(toGameResponse(view))
	}

	ctx := c.Context()
	notify := h.svc.RegisterWait(ctx, gameID, version)

	// A change between the first read and registration would otherwise wait out the timeout
	if view, err = h.svc.GetGame(gameID); err == nil && view.Version != version {
		return c.JSON(toGameResponse(view))
	}

	select {
	case <-notify:
		// Changed, timed out or deleted
		view, err = h.svc.GetGame(gameID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(toGameResponse(view))
	case <-ctx.Done():
		return nil
	}
}

func (h *HTTPHandler) SelectPiece(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}
	req, ok := validatedBody[core.SelectRequest](c)
	if !ok {
		return validationBypassed(c)
	}

	view, err := h.svc.SelectPiece(gameID, *req.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(toGameResponse(view))
}

func (h *HTTPHandler) DeselectPiece(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}

	view, err := h.svc.DeselectPiece(gameID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(toGameResponse(view))
}

// MakeMove plays the selected piece's move at the requested index
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}
	req, ok := validatedBody[core.MoveRequest](c)
	if !ok {
		return validationBypassed(c)
	}

	view, err := h.svc.Move(gameID, *req.Move)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(toGameResponse(view))
}

func (h *HTTPHandler) Pass(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}

	view, err := h.svc.Pass(gameID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(toGameResponse(view))
}

func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteGame(gameID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns the ASCII rendering of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}

	view, err := h.svc.GetGame(gameID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(core.BoardResponse{Board: view.State.Board.ToASCII()})
}

func gameIDParam(c *fiber.Ctx) (string, error) {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid game ID format")
	}
	return gameID, nil
}

func validationBypassed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: "validation bypass detected",
		Code:  core.ErrInternalError,
	})
}

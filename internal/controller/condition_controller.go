package controller

import (
	"errors"

	"derma-triage-be/internal/dto"
	"derma-triage-be/internal/pkg/serverutils"
	"derma-triage-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConditionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Index(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type conditionController struct {
	conditionService service.IConditionService
}

func NewConditionController(conditionService service.IConditionService) IConditionController {
	return &conditionController{
		conditionService: conditionService,
	}
}

func (c *conditionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/condition/v1")
	h.Post("", c.Create)
	h.Get("", c.Index)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *conditionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateConditionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.conditionService.Create(ctx.Context(), &req)
	if err != nil {
		return mapConditionError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create condition", res))
}

func (c *conditionController) Index(ctx *fiber.Ctx) error {
	res, err := c.conditionService.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetching conditions", res))
}

func (c *conditionController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid condition ID"))
	}

	res, err := c.conditionService.GetById(ctx.Context(), id)
	if err != nil {
		return mapConditionError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show condition", res))
}

func (c *conditionController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid condition ID"))
	}

	var req dto.UpdateConditionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.conditionService.Update(ctx.Context(), id, &req)
	if err != nil {
		return mapConditionError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update condition", res))
}

func (c *conditionController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid condition ID"))
	}

	if err := c.conditionService.Delete(ctx.Context(), id); err != nil {
		return mapConditionError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Condition deleted", nil))
}

func mapConditionError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrConditionNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Condition not found"))
	case errors.Is(err, service.ErrConditionNameTaken):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, "Condition name already registered"))
	case errors.Is(err, service.ErrPredictionIndexTaken):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, "Prediction index already assigned"))
	}
	return err
}

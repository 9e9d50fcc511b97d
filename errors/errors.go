package errors

import (
	"github.com/gofiber/fiber/v2"
)

func RaiseError(context *fiber.Ctx, status int, message string, data interface{}) error {
	return context.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    data})
}

func RaisePermissionsError(context *fiber.Ctx, data interface{}) error {
	return RaiseError(context, fiber.StatusUnauthorized, "lack of permissions", data)
}

func RaiseInternalServerError(context *fiber.Ctx, data interface{}) error {
	return RaiseError(context, fiber.StatusInternalServerError, "internal error", data)
}

func RaiseBadRequestError(context *fiber.Ctx, data interface{}) error {
	return RaiseError(context, fiber.StatusBadRequest, "bad request", data)
}

func RaiseNotFoundError(context *fiber.Ctx, data interface{}) error {
	return RaiseError(context, fiber.StatusNotFound, "resource not found", data)
}

func RaiseConflictError(context *fiber.Ctx, data interface{}) error {
	return RaiseError(context, fiber.StatusConflict, "conflict", data)
}

func RaiseTooManyRequestsError(context *fiber.Ctx, data interface{}) error {
	return RaiseError(context, fiber.StatusTooManyRequests, "too many requests", data)
}

func Success(context *fiber.Ctx, message string, data interface{}) error {
	return context.JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data})
}

func Created(context *fiber.Ctx, message string, data interface{}) error {
	return context.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data})
}

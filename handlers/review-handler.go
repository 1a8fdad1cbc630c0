package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/krishkalaria12/spot-serve/dto"
	"github.com/krishkalaria12/spot-serve/middleware"
	"github.com/krishkalaria12/spot-serve/services"
)

type ReviewHandler struct {
	reviews services.ReviewService
}

func NewReviewHandler(reviews services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) ListForSpot(c *fiber.Ctx) error {
	spotID, err := paramID(c, "id", services.MsgSpotNotFound)
	if err != nil {
		return err
	}

	list, err := h.reviews.ListForSpot(c.UserContext(), spotID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *ReviewHandler) ListCurrent(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	list, err := h.reviews.ListForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	spotID, err := paramID(c, "id", services.MsgSpotNotFound)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err, req)
	}

	review, err := h.reviews.Create(c.UserContext(), userID, spotID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", services.MsgReviewNotFound)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err, req)
	}

	review, err := h.reviews.Update(c.UserContext(), userID, id, req)
	if err != nil {
		return err
	}
	return c.JSON(review)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", services.MsgReviewNotFound)
	if err != nil {
		return err
	}

	if err := h.reviews.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: services.MsgDeleted})
}

func (h *ReviewHandler) AddImage(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", services.MsgReviewNotFound)
	if err != nil {
		return err
	}
	var req dto.ReviewImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err, req)
	}

	img, err := h.reviews.AddImage(c.UserContext(), userID, id, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

func (h *ReviewHandler) DeleteImage(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", services.MsgReviewImageMissing)
	if err != nil {
		return err
	}

	if err := h.reviews.DeleteImage(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: services.MsgDeleted})
}

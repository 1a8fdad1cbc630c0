package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/krishkalaria12/spot-serve/apperr"
	"github.com/krishkalaria12/spot-serve/dto"
	"github.com/krishkalaria12/spot-serve/middleware"
	"github.com/krishkalaria12/spot-serve/services"
)

type SpotHandler struct {
	spots services.SpotService
}

func NewSpotHandler(spots services.SpotService) *SpotHandler {
	return &SpotHandler{spots: spots}
}

func (h *SpotHandler) List(c *fiber.Ctx) error {
	var q dto.SpotQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}

	list, err := h.spots.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *SpotHandler) ListCurrent(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	list, err := h.spots.ListOwned(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *SpotHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id", services.MsgSpotNotFound)
	if err != nil {
		return err
	}

	spot, err := h.spots.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(spot)
}

func (h *SpotHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	var req dto.SpotRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err, req)
	}

	spot, err := h.spots.Create(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(spot)
}

func (h *SpotHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", services.MsgSpotNotFound)
	if err != nil {
		return err
	}
	var req dto.SpotRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err, req)
	}

	spot, err := h.spots.Update(c.UserContext(), userID, id, req)
	if err != nil {
		return err
	}
	return c.JSON(spot)
}

func (h *SpotHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", services.MsgSpotNotFound)
	if err != nil {
		return err
	}

	if err := h.spots.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: services.MsgDeleted})
}

// AddImage attaches an image by url, or uploads the "file" part of a
// multipart form.
func (h *SpotHandler) AddImage(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", services.MsgSpotNotFound)
	if err != nil {
		return err
	}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return h.uploadImage(c, userID, id)
	}

	var req dto.SpotImageRequest
	if err := c.BodyParser(&req); err != nil {
		if errors.Is(err, dto.ErrNotBool) {
			return apperr.Validation(map[string]string{"preview": "Preview must be a boolean"})
		}
		return badBody(err, req)
	}
	img, err := h.spots.AddImage(c.UserContext(), userID, id, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

func (h *SpotHandler) uploadImage(c *fiber.Ctx, userID, spotID uint) error {
	preview, err := dto.ParseFlexBool(c.FormValue("preview"))
	if err != nil {
		return apperr.Validation(map[string]string{"preview": "Preview must be a boolean"})
	}
	file, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation(map[string]string{"file": "An image file is required"})
	}
	body, err := file.Open()
	if err != nil {
		return err
	}
	defer body.Close()

	img, err := h.spots.UploadImage(c.UserContext(), userID, spotID, services.Upload{
		Name:        file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Body:        body,
	}, preview)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

func (h *SpotHandler) DeleteImage(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", services.MsgSpotImageNotFound)
	if err != nil {
		return err
	}

	if err := h.spots.DeleteImage(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: services.MsgDeleted})
}

package controller

import (
	"errors"
	"io"

	"abend-assist-be/internal/pkg/serverutils"
	"abend-assist-be/internal/service"
	"abend-assist-be/pkg/speech"

	"github.com/gofiber/fiber/v2"
)

const maxAudioBytes = 10 << 20

type ISpeechController interface {
	RegisterRoutes(r fiber.Router)
	SpeechToText(ctx *fiber.Ctx) error
}

type speechController struct {
	service service.ISpeechService
}

func NewSpeechController(service service.ISpeechService) ISpeechController {
	return &speechController{service: service}
}

func (c *speechController) RegisterRoutes(r fiber.Router) {
	r.Post("/speech-to-text", c.SpeechToText)
}

// SpeechToText accepts a multipart "audio" file or a raw audio body.
func (c *speechController) SpeechToText(ctx *fiber.Ctx) error {
	audio, contentType, err := readAudio(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
	}

	res, err := c.service.Transcribe(ctx.UserContext(), audio, contentType)
	if err != nil {
		switch {
		case errors.Is(err, speech.ErrEmptyAudio):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
		case errors.Is(err, speech.ErrNoRecognized):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(fiber.StatusUnprocessableEntity, err.Error()))
		default:
			return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(fiber.StatusBadGateway, "Speech recognition is unavailable"))
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Speech recognized", res))
}

func readAudio(ctx *fiber.Ctx) ([]byte, string, error) {
	fh, err := ctx.FormFile("audio")
	if err != nil {
		body := ctx.Body()
		if len(body) > maxAudioBytes {
			return nil, "", errors.New("audio is too large")
		}
		return append([]byte(nil), body...), ctx.Get(fiber.HeaderContentType), nil
	}
	if fh.Size > maxAudioBytes {
		return nil, "", errors.New("audio is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fh.Header.Get(fiber.HeaderContentType), nil
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"propapi/internal/service"
	"propapi/internal/upload"
)

// UploadIDHeader lets clients choose the id they will poll on /uploads/:id.
const UploadIDHeader = "X-Upload-ID"

var (
	errFileRequired = errors.New("file is required")
	errFileOpen     = errors.New("cannot open uploaded file")
)

// formFile opens the multipart "file" field. The returned func closes it.
func formFile(c *fiber.Ctx) (service.FileUpload, func(), error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return service.FileUpload{}, nil, errFileRequired
	}
	f, err := fh.Open()
	if err != nil {
		return service.FileUpload{}, nil, errFileOpen
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	uploadID := c.FormValue("upload_id")
	if uploadID == "" {
		uploadID = c.Get(UploadIDHeader)
	}

	return service.FileUpload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		UploadID:    uploadID,
	}, func() { _ = f.Close() }, nil
}

func writeFileError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errFileOpen) {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", err.Error())
	}
	return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", err.Error())
}

// GetUploadProgress reports the transfer progress of an upload started with an upload id.
func GetUploadProgress(tracker *upload.Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, ok := tracker.Get(c.Params("id"))
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "upload not found")
		}
		return c.JSON(snap)
	}
}

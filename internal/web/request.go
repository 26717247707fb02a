package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/MinhBui2k4/CDTT/internal/api"
)

var ErrInvalidID = errors.New("invalid id")

// ParamID reads the :id route parameter.
func ParamID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// PageQuery reads ?page= and ?size= from the list URL.
func PageQuery(c *fiber.Ctx) api.PageQuery {
	return api.PageQuery{
		PageNumber: c.QueryInt("page", 0),
		PageSize:   c.QueryInt("size", api.DefaultPageSize),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}.WithDefaults()
}

// QueryInt64 returns a pointer to the parsed query value, or nil when absent or malformed.
func QueryInt64(c *fiber.Ctx, key string) *int64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func QueryFloat(c *fiber.Ctx, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func QueryString(c *fiber.Ctx, key string) *string {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	return &raw
}

// FormFloat parses a numeric form field; an empty field reads as zero.
func FormFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}

func FormInt(c *fiber.Ctx, key string) (int64, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", key)
	}
	return v, nil
}

// FormBool reads a checkbox.
func FormBool(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(c.FormValue(key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Upload is a file posted by the browser, read into memory for forwarding.
type Upload = api.Upload

// FormFiles returns the non-empty files posted under field. A request that is
// not multipart has none.
func FormFiles(c *fiber.Ctx, field string) ([]Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	var uploads []Upload
	for _, fh := range form.File[field] {
		if fh.Size == 0 || fh.Filename == "" {
			continue
		}
		b, err := readUpload(fh)
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, Upload{Filename: fh.Filename, Content: b})
	}
	return uploads, nil
}

// FormFile returns the first file posted under field, or nil.
func FormFile(c *fiber.Ctx, field string) (*Upload, error) {
	uploads, err := FormFiles(c, field)
	if err != nil || len(uploads) == 0 {
		return nil, err
	}
	return &uploads[0], nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// FormOptFloat is FormFloat for optional fields: an empty field reads as nil.
func FormOptFloat(c *fiber.Ctx, key string) (*float64, error) {
	if strings.TrimSpace(c.FormValue(key)) == "" {
		return nil, nil
	}
	v, err := FormFloat(c, key)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func FormOptInt(c *fiber.Ctx, key string) (*int64, error) {
	if strings.TrimSpace(c.FormValue(key)) == "" {
		return nil, nil
	}
	v, err := FormInt(c, key)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

package handlers

import (
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/cdanpc/CampusMart/models"
	"github.com/cdanpc/CampusMart/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"gorm.io/gorm"
)

// maxImageWidth is the width listings and avatars are downscaled to.
const maxImageWidth = 800

type UploadHandler struct {
	DB        *gorm.DB
	UploadDir string
}

func NewUploadHandler(db *gorm.DB, uploadDir string) *UploadHandler {
	return &UploadHandler{DB: db, UploadDir: uploadDir}
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// saveImage decodes the uploaded file, downscales it to maxImageWidth and
// re-encodes as JPEG under dir with a random name. Returns the public URL path.
func (h *UploadHandler) saveImage(c *fiber.Ctx, field, subdir string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "No image file provided")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		return "", fiber.NewError(fiber.StatusBadRequest, "Unsupported image type")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Could not read uploaded file")
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File is not a valid image")
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	dir := filepath.Join(h.UploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "Could not prepare upload directory")
	}

	name := uuid.NewString() + ".jpg"
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "Could not save image")
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "Could not encode image")
	}

	return "/uploads/" + subdir + "/" + name, nil
}

// UploadProductImage - POST /api/uploads/products
func (h *UploadHandler) UploadProductImage(c *fiber.Ctx) error {
	url, err := h.saveImage(c, "image", "products")
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

// UploadMessageImage - POST /api/uploads/messages
// Returns a URL suitable for a message's image_url field.
func (h *UploadHandler) UploadMessageImage(c *fiber.Ctx) error {
	url, err := h.saveImage(c, "image", "messages")
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

// UploadProfilePicture - POST /api/profiles/:id/upload-picture
// Stores the image and points the profile's picture URL at it.
func (h *UploadHandler) UploadProfilePicture(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	profileID, ok := utils.ProfileID(c)
	if !ok || profileID != uint(id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	var profile models.Profile
	if err := h.DB.First(&profile, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	url, err := h.saveImage(c, "image", "profiles")
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
	}

	if err := h.DB.Model(&profile).Update("profile_picture", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile picture updated", "url": url})
}

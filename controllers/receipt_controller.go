package controllers

import (
	"FairShare/models"
	"FairShare/services"
	"FairShare/utils"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ReceiptController struct {
	ReceiptService *services.ReceiptService
}

func NewReceiptController(receiptService *services.ReceiptService) *ReceiptController {
	return &ReceiptController{
		ReceiptService: receiptService,
	}
}

// ProcessReceipt accepts a multipart "file" upload or a JSON {"image": "<base64>"}
// body and responds with {"result": "<items JSON>"}.
func (rc *ReceiptController) ProcessReceipt(c *gin.Context) {
	var (
		result string
		err    error
	)

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		file, cerr := openUpload(c)
		if cerr != nil {
			utils.ErrorResponse(c, cerr.StatusCode, cerr.Message)
			return
		}
		defer file.Close()
		result, err = rc.ReceiptService.ProcessImage(c.Request.Context(), file)

	case gin.MIMEJSON:
		img, cerr := bindImage(c)
		if cerr != nil {
			utils.ErrorResponse(c, cerr.StatusCode, cerr.Message)
			return
		}
		result, err = rc.ReceiptService.ProcessImageData(c.Request.Context(), img)

	default:
		cerr := utils.UnsupportedMediaType()
		utils.ErrorResponse(c, cerr.StatusCode, cerr.Message)
		return
	}

	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.ResultResponse(c, http.StatusOK, result)
}

func openUpload(c *gin.Context) (multipart.File, *utils.CustomError) {
	header, err := c.FormFile("file")
	if err != nil {
		switch {
		case isTooLarge(err):
			return nil, utils.EntityTooLarge()
		case errors.Is(err, http.ErrMissingFile) && hasFormValue(c, "file"):
			return nil, utils.BadRequest("No selected file")
		case errors.Is(err, http.ErrMissingFile):
			return nil, utils.BadRequest("No file part")
		default:
			return nil, utils.BadRequest("Invalid multipart form")
		}
	}
	if header.Size == 0 {
		return nil, utils.BadRequest("Empty file")
	}

	file, err := header.Open()
	if err != nil {
		return nil, utils.NewCustomError(http.StatusInternalServerError, "Failed to open uploaded file")
	}
	return file, nil
}

func bindImage(c *gin.Context) (models.ImageInput, *utils.CustomError) {
	var req models.ProcessReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isTooLarge(err) {
			return models.ImageInput{}, utils.EntityTooLarge()
		}
		return models.ImageInput{}, utils.BadRequest("Invalid request format")
	}
	if req.Image == nil || strings.TrimSpace(*req.Image) == "" {
		return models.ImageInput{}, utils.BadRequest("No image data")
	}

	img, err := utils.DecodeBase64Image(*req.Image)
	if err != nil {
		return models.ImageInput{}, utils.BadRequest("Invalid image data")
	}
	return img, nil
}

// hasFormValue reports a non-file part named key. A file part sent with an
// empty filename, as browsers do when nothing was picked, is parsed as one.
func hasFormValue(c *gin.Context, key string) bool {
	form := c.Request.MultipartForm
	return form != nil && len(form.Value[key]) > 0
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

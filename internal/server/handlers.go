package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shouni/hyperreal-studio/internal/metrics"
	"github.com/shouni/hyperreal-studio/pkg/assets"
	"github.com/shouni/hyperreal-studio/pkg/domain"
	"github.com/shouni/hyperreal-studio/pkg/studio"
)

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type referenceURLRequest struct {
	URL string `json:"url" binding:"required"`
}

type referenceResponse struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
}

// decodedLen は Base64 文字列をデコードした後のバイト数を返します。
func decodedLen(b64 string) int64 {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return 0
	}
	return int64(len(data))
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (s *HttpServer) getState(c *gin.Context) {
	st, ok := s.studioFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st.Snapshot())
}

func (s *HttpServer) putPrompt(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	st, ok := s.studioFor(c)
	if !ok {
		return
	}
	st.SetPrompt(req.Prompt)
	c.JSON(http.StatusOK, st.Snapshot())
}

func (s *HttpServer) putSettings(c *gin.Context) {
	var req domain.GenerationSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	st, ok := s.studioFor(c)
	if !ok {
		return
	}
	st.UpdateSettings(req)
	c.JSON(http.StatusOK, st.Snapshot())
}

func (s *HttpServer) postReference(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		metrics.RecordReference("upload", "error", 0)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorJSON(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		errorJSON(c, http.StatusBadRequest, "file is required: "+err.Error())
		return
	}
	f, err := header.Open()
	if err != nil {
		metrics.RecordReference("upload", "error", 0)
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		metrics.RecordReference("upload", "error", 0)
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = assets.DetectMIME(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		metrics.RecordReference("upload", "rejected", 0)
		errorJSON(c, http.StatusUnsupportedMediaType, "only image/* files are accepted")
		return
	}

	st, ok := s.studioFor(c)
	if !ok {
		return
	}
	ref, err := st.UploadReference(c.Request.Context(), bytes.NewReader(data), mimeType)
	if err != nil {
		metrics.RecordReference("upload", "error", 0)
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.RecordReference("upload", "success", int64(len(data)))
	c.JSON(http.StatusCreated, referenceResponse{ID: ref.ID, MimeType: ref.MimeType})
}

func (s *HttpServer) postReferenceURL(c *gin.Context) {
	var req referenceURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	st, ok := s.studioFor(c)
	if !ok {
		return
	}

	ref, err := s.fetcher.LoadURL(c.Request.Context(), req.URL)
	if err != nil {
		metrics.RecordReference("url", "error", 0)
		switch {
		case errors.Is(err, assets.ErrUnsafeURL):
			errorJSON(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, assets.ErrNotImage):
			errorJSON(c, http.StatusUnsupportedMediaType, err.Error())
		default:
			errorJSON(c, http.StatusBadGateway, err.Error())
		}
		return
	}
	st.AddReference(ref)
	metrics.RecordReference("url", "success", decodedLen(ref.Data))
	c.JSON(http.StatusCreated, referenceResponse{ID: ref.ID, MimeType: ref.MimeType})
}

func (s *HttpServer) deleteReference(c *gin.Context) {
	st, ok := s.studioFor(c)
	if !ok {
		return
	}
	st.RemoveReference(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *HttpServer) postGenerate(c *gin.Context) {
	st, ok := s.studioFor(c)
	if !ok {
		return
	}
	// ブラウザの切断やリロードでは発行済みの生成を中断しない
	ctx := context.WithoutCancel(c.Request.Context())
	imageSize := string(st.Settings().ImageSize)

	start := time.Now()
	img, err := st.Generate(ctx)
	switch {
	case errors.Is(err, studio.ErrEmptyInput):
		errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, studio.ErrGenerationInFlight):
		errorJSON(c, http.StatusConflict, err.Error())
	case err != nil:
		metrics.RecordGeneration(imageSize, "error", time.Since(start).Seconds())
		slog.ErrorContext(ctx, "画像生成に失敗しました", "error", err)
		errorJSON(c, http.StatusBadGateway, studio.UserMessage(err))
	default:
		metrics.RecordGeneration(imageSize, "success", time.Since(start).Seconds())
		c.JSON(http.StatusOK, img)
	}
}

func (s *HttpServer) postSelect(c *gin.Context) {
	st, ok := s.studioFor(c)
	if !ok {
		return
	}
	if err := st.Select(c.Param("id")); err != nil {
		errorJSON(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, st.Snapshot())
}

func (s *HttpServer) getImage(c *gin.Context) {
	st, ok := s.studioFor(c)
	if !ok {
		return
	}
	img, found := st.Image(c.Param("id"))
	if !found {
		errorJSON(c, http.StatusNotFound, studio.ErrImageNotFound.Error())
		return
	}
	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	c.Data(http.StatusOK, mimeType, img.Data)
}

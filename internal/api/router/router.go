// Package router registers the HTTP routes and their middleware chains.
package router

import (
	"context"
	"errors"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/hertz-contrib/keyauth"

	"cv-insight/internal/analysis"
	"cv-insight/internal/api/handler"
	"cv-insight/internal/auth"
	"cv-insight/internal/config"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Analysis *handler.AnalysisHandler
	Auth     *handler.AuthHandler
	Contact  *handler.ContactHandler
	Reports  *handler.ReportHandler

	AuthService *auth.Service
}

// RegisterRoutes wires all API routes under /api/v1.
func RegisterRoutes(h *server.Hertz, cfg *config.Config, handlers Handlers) {
	api := h.Group("/api/v1")

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	registerAuthRoutes(api, cfg, handlers)
	registerAnalysisRoutes(api, cfg, handlers)
	registerReportRoutes(api, handlers)
	registerContactRoutes(api, handlers)
	registerAdminRoutes(api, cfg, handlers)
}

func registerAuthRoutes(api *route.RouterGroup, cfg *config.Config, handlers Handlers) {
	authGroup := api.Group("/auth")

	authGroup.POST("/register", RateLimitPerHour(cfg.RateLimits.RegisterPerHour),
		func(c context.Context, ctx *app.RequestContext) {
			var req struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := ctx.BindAndValidate(&req); err != nil {
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
				return
			}

			user, err := handlers.Auth.Register(c, req.Email, req.Password)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(consts.StatusCreated, user)
		})

	authGroup.POST("/login", RateLimitPerMinute(cfg.RateLimits.LoginPerMinute),
		func(c context.Context, ctx *app.RequestContext) {
			var req struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := ctx.BindAndValidate(&req); err != nil {
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
				return
			}

			resp, err := handlers.Auth.Login(c, req.Email, req.Password)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(consts.StatusOK, resp)
		})
}

func registerAnalysisRoutes(api *route.RouterGroup, cfg *config.Config, handlers Handlers) {
	optionalAuth := JWTAuth(handlers.AuthService, false)

	api.POST("/analyze", optionalAuth, RateLimitPerHour(cfg.RateLimits.AnalyzePerHour),
		func(c context.Context, ctx *app.RequestContext) {
			var req struct {
				CVText string `json:"cv_text"`
				JDText string `json:"jd_text"`
				Lang   string `json:"lang"`
			}
			if err := ctx.BindAndValidate(&req); err != nil {
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
				return
			}

			resp, err := handlers.Analysis.AnalyzeText(c, handler.AnalyzeTextRequest{
				CVText: req.CVText,
				JDText: req.JDText,
				Lang:   req.Lang,
				UserID: requesterID(ctx),
			})
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(consts.StatusOK, resp)
		})

	api.POST("/analyze/upload", optionalAuth, RateLimitPerHour(cfg.RateLimits.UploadPerHour),
		func(c context.Context, ctx *app.RequestContext) {
			fileHeader, err := ctx.FormFile("file")
			if err != nil {
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": "file field is required"})
				return
			}

			file, err := fileHeader.Open()
			if err != nil {
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "opening upload failed"})
				return
			}
			defer file.Close()

			resp, err := handlers.Analysis.AnalyzeUpload(
				c,
				file,
				fileHeader.Size,
				fileHeader.Filename,
				ctx.PostForm("jd_text"),
				ctx.PostForm("lang"),
				requesterID(ctx),
			)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(consts.StatusOK, resp)
		})
}

func registerReportRoutes(api *route.RouterGroup, handlers Handlers) {
	optionalAuth := JWTAuth(handlers.AuthService, false)
	requiredAuth := JWTAuth(handlers.AuthService, true)

	api.GET("/reports/:id", optionalAuth, func(c context.Context, ctx *app.RequestContext) {
		view, err := handlers.Reports.GetReport(c, ctx.Param("id"), requesterID(ctx), isAdmin(ctx))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, view)
	})

	api.GET("/reports/:id/download", optionalAuth, func(c context.Context, ctx *app.RequestContext) {
		url, err := handlers.Reports.GetCVDownloadURL(c, ctx.Param("id"), requesterID(ctx), isAdmin(ctx))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"url": url})
	})

	api.GET("/reports", requiredAuth, func(c context.Context, ctx *app.RequestContext) {
		userID := requesterID(ctx)
		if userID == nil {
			ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "authorization required"})
			return
		}

		limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

		resp, err := handlers.Reports.ListReports(c, *userID, limit, offset)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})
}

func registerContactRoutes(api *route.RouterGroup, handlers Handlers) {
	api.POST("/contact", func(c context.Context, ctx *app.RequestContext) {
		var req handler.ContactRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
			return
		}

		resp, err := handlers.Contact.HandleContact(c, req)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusAccepted, resp)
	})
}

func registerAdminRoutes(api *route.RouterGroup, cfg *config.Config, handlers Handlers) {
	adminKey := cfg.Server.AdminAPIKey

	guard := keyauth.New(
		keyauth.WithKeyLookUp("header:X-Admin-Key", ""),
		keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
			return adminKey != "" && key == adminKey, nil
		}),
		keyauth.WithErrorHandler(func(c context.Context, ctx *app.RequestContext, err error) {
			ctx.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": "a valid admin key is required"})
		}),
	)

	admin := api.Group("/admin", guard)

	admin.GET("/dashboard", func(c context.Context, ctx *app.RequestContext) {
		stats, err := handlers.Reports.Dashboard(c)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, stats)
	})
}

// writeError maps domain errors onto HTTP statuses. Unrecognized errors are
// hidden behind a generic 500.
func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, analysis.ErrTextTooShort),
		errors.Is(err, handler.ErrUnsupportedFileType),
		errors.Is(err, handler.ErrFileTooLarge),
		errors.Is(err, handler.ErrMissingFields):
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": err.Error()})
	case errors.Is(err, auth.ErrAccountLocked):
		ctx.JSON(consts.StatusTooManyRequests, utils.H{"error": err.Error()})
	case errors.Is(err, auth.ErrRegistrationDisabled), errors.Is(err, handler.ErrForbidden):
		ctx.JSON(consts.StatusForbidden, utils.H{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailTaken):
		ctx.JSON(consts.StatusConflict, utils.H{"error": err.Error()})
	case errors.Is(err, handler.ErrReportNotFound), errors.Is(err, handler.ErrNoArchivedFile):
		ctx.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
	default:
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "internal server error"})
	}
}

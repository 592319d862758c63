package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"snapgram/internal/adapters/httpapi/middleware"
	"snapgram/internal/core/apperr"
	"snapgram/internal/core/session"
	"snapgram/internal/metrics"
	userPort "snapgram/internal/ports/user"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type UserController struct {
	uc           UserUseCase
	logger       *zap.Logger
	secureCookie bool
}

func NewUserController(uc UserUseCase, logger *zap.Logger, secureCookie bool) *UserController {
	return &UserController{uc: uc, logger: logger, secureCookie: secureCookie}
}

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		badInput(c)
		return
	}
	u, err := ctl.uc.RegisterUser(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	metrics.RegisterSuccess.Inc()
	respond(c, http.StatusCreated, "User registered successfully!", gin.H{"user": u})
}

func (ctl *UserController) LoginUser(c *gin.Context) {
	var req struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		badInput(c)
		return
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		reason := "error"
		switch {
		case errors.Is(err, apperr.ErrUnauthorized):
			reason = "credentials"
		case errors.Is(err, apperr.ErrInvalidArgument):
			reason = "input"
		}
		metrics.LoginFailure.WithLabelValues(reason).Inc()
		respondError(c, ctl.logger, err)
		return
	}

	metrics.LoginSuccess.Inc()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, res.Token, int(session.TTL.Seconds()), "/", "", ctl.secureCookie, true)
	respond(c, http.StatusOK, fmt.Sprintf("Welcome back %s!", res.User.Username), gin.H{
		"user":  res.User,
		"token": res.Token,
	})
}

func (ctl *UserController) LogoutUser(c *gin.Context) {
	if err := ctl.uc.LogoutUser(c.Request.Context(), middleware.TokenFromRequest(c)); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", ctl.secureCookie, true)
	respond(c, http.StatusOK, "User logged out successfully!", nil)
}

func (ctl *UserController) GetProfile(c *gin.Context) {
	u, err := ctl.uc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "User fetched successfully!", gin.H{"user": u})
}

// EditProfile multipart with bio, gender and an optional profilePicture file,
// or a JSON body carrying only bio and gender.
func (ctl *UserController) EditProfile(c *gin.Context) {
	var in userPort.EditProfileInput
	if c.ContentType() == binding.MIMEJSON {
		var req struct {
			Bio    *string `json:"bio"`
			Gender *string `json:"gender"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badInput(c)
			return
		}
		in.Bio, in.Gender = req.Bio, req.Gender
	} else {
		f, ok := formFile(c, ctl.logger, "profilePicture")
		if !ok {
			return
		}
		if f != nil {
			defer f.Close()
			in.ProfilePicture = f
		}
		if bio, ok := c.GetPostForm("bio"); ok {
			in.Bio = &bio
		}
		if gender, ok := c.GetPostForm("gender"); ok {
			in.Gender = &gender
		}
	}

	u, err := ctl.uc.EditProfile(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated!", gin.H{"user": u})
}

func (ctl *UserController) Suggested(c *gin.Context) {
	users, err := ctl.uc.ListSuggested(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "Suggested users fetched!", gin.H{"users": users})
}

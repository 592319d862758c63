package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FollowerController struct {
	fc     FollowerUseCase
	logger *zap.Logger
}

func NewFollowerController(fc FollowerUseCase, logger *zap.Logger) *FollowerController {
	return &FollowerController{fc: fc, logger: logger}
}

func (ctl *FollowerController) ToggleFollow(c *gin.Context) {
	following, err := ctl.fc.ToggleFollow(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	message := "Unfollowed successfully!"
	if following {
		message = "Followed successfully!"
	}
	respond(c, http.StatusOK, message, gin.H{"following": following})
}

func (ctl *FollowerController) Followers(c *gin.Context) {
	ids, err := ctl.fc.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "Followers fetched!", gin.H{"followers": ids})
}

func (ctl *FollowerController) Following(c *gin.Context) {
	ids, err := ctl.fc.Following(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "Following fetched!", gin.H{"following": ids})
}

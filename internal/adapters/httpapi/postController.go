package httpapi

import (
	"io"
	"net/http"

	"snapgram/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostController struct {
	pc     PostUseCase
	logger *zap.Logger
}

func NewPostController(pc PostUseCase, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, logger: logger}
}

// AddPost multipart: image file and caption.
func (ctl *PostController) AddPost(c *gin.Context) {
	f, ok := formFile(c, ctl.logger, "image")
	if !ok {
		return
	}
	// a nil image makes the use case answer "Image is required"
	var image io.Reader
	if f != nil {
		defer f.Close()
		image = f
	}

	p, err := ctl.pc.CreatePost(c.Request.Context(), currentUserID(c), image, c.PostForm("caption"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	metrics.PostsCreated.Inc()
	respond(c, http.StatusCreated, "Post created successfully!", gin.H{"post": p})
}

func (ctl *PostController) AllPosts(c *gin.Context) {
	posts, err := ctl.pc.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "All Post fetched successfully!", gin.H{"posts": posts})
}

func (ctl *PostController) UserAllPosts(c *gin.Context) {
	posts, err := ctl.pc.ListPostsByAuthor(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "User posts fetched successfully!", gin.H{"posts": posts})
}

func (ctl *PostController) LikePost(c *gin.Context) {
	if err := ctl.pc.LikePost(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "Post liked!", nil)
}

func (ctl *PostController) DislikePost(c *gin.Context) {
	if err := ctl.pc.DislikePost(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "Post disliked!", nil)
}

func (ctl *PostController) Comment(c *gin.Context) {
	var req struct {
		Text string `json:"text" form:"text"`
	}
	if err := c.ShouldBind(&req); err != nil {
		badInput(c)
		return
	}
	comment, err := ctl.pc.AddComment(c.Request.Context(), currentUserID(c), c.Param("id"), req.Text)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusCreated, "Comment added!", gin.H{"comment": comment})
}

func (ctl *PostController) AllComments(c *gin.Context) {
	comments, err := ctl.pc.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "Comments fetched!", gin.H{"comments": comments})
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	if err := ctl.pc.DeletePost(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "Post deleted!", nil)
}

func (ctl *PostController) BookmarkPost(c *gin.Context) {
	saved, err := ctl.pc.ToggleBookmark(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	message := "Post removed from bookmarks!"
	if saved {
		message = "Post bookmarked!"
	}
	respond(c, http.StatusOK, message, gin.H{"saved": saved})
}

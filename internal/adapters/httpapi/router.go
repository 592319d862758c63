package httpapi

import (
	"context"
	"io"
	"net/http"

	"snapgram/internal/adapters/httpapi/middleware"
	conversationPort "snapgram/internal/ports/conversation"
	postPort "snapgram/internal/ports/post"
	userPort "snapgram/internal/ports/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// UserUseCase inbound port for identities and sessions
type UserUseCase interface {
	RegisterUser(ctx context.Context, username, email, password string) (*userPort.UserDTO, error)
	LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error)
	LogoutUser(ctx context.Context, token string) error
	GetProfile(ctx context.Context, id string) (*userPort.UserDTO, error)
	EditProfile(ctx context.Context, id string, in userPort.EditProfileInput) (*userPort.UserDTO, error)
	ListSuggested(ctx context.Context, id string) ([]*userPort.UserSummaryDTO, error)
}

type FollowerUseCase interface {
	ToggleFollow(ctx context.Context, actorID, targetID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, authorID string, image io.Reader, caption string) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context) ([]*postPort.PostDTO, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]*postPort.PostDTO, error)
	LikePost(ctx context.Context, actorID, postID string) error
	DislikePost(ctx context.Context, actorID, postID string) error
	AddComment(ctx context.Context, actorID, postID, text string) (*postPort.CommentDTO, error)
	ListComments(ctx context.Context, postID string) ([]*postPort.CommentDTO, error)
	DeletePost(ctx context.Context, actorID, postID string) error
	ToggleBookmark(ctx context.Context, actorID, postID string) (bool, error)
}

type MessageUseCase interface {
	SendMessage(ctx context.Context, senderID, receiverID, body string) (*conversationPort.MessageDTO, error)
	GetMessages(ctx context.Context, callerID, peerID string) ([]*conversationPort.MessageDTO, error)
}

const defaultMaxUploadBytes = 10 << 20

// Options for the parts of the router that depend on the environment.
type Options struct {
	CORSOrigin   string
	SecureCookie bool
	// MaxUploadBytes caps the request body of the upload routes; zero means 10 MiB.
	MaxUploadBytes int64
}

// SetupRoutes only routing: use cases and the session verifier are injected.
func SetupRoutes(
	userUC UserUseCase,
	followerUC FollowerUseCase,
	postUC PostUseCase,
	messageUC MessageUseCase,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
	opts Options,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Instrument(), middleware.CORS(opts.CORSOrigin))

	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	upload := middleware.LimitBody(maxUpload)

	uc := NewUserController(userUC, logger, opts.SecureCookie)
	fc := NewFollowerController(followerUC, logger)
	pc := NewPostController(postUC, logger)
	mc := NewMessageController(messageUC, logger)
	auth := middleware.JWTAuthMiddleware(verifier, logger)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	user := r.Group("/user")
	{
		// no session needed to get one or to drop one
		user.POST("/register", uc.RegisterUser)
		user.POST("/login", uc.LoginUser)
		user.GET("/logout", uc.LogoutUser)

		user.GET("/getProfile/:id", auth, uc.GetProfile)
		user.POST("/editProfile", auth, upload, uc.EditProfile)
		user.GET("/suggested", auth, uc.Suggested)

		user.GET("/follow/:id", auth, fc.ToggleFollow)
		user.POST("/follow/:id", auth, fc.ToggleFollow)
		user.GET("/followers/:id", auth, fc.Followers)
		user.GET("/following/:id", auth, fc.Following)
	}

	post := r.Group("/post", auth)
	{
		post.POST("/addPost", upload, pc.AddPost)
		post.GET("/allPost", pc.AllPosts)
		post.GET("/userAllPost", pc.UserAllPosts)
		post.GET("/likePost/:id", pc.LikePost)
		post.GET("/dislikePost/:id", pc.DislikePost)
		post.POST("/comment/:id", pc.Comment)
		post.POST("/allComments/:id", pc.AllComments)
		post.POST("/deletePost/:id", pc.DeletePost)
		post.POST("/bookmarkPost/:id", pc.BookmarkPost)
	}

	message := r.Group("/message", auth)
	{
		message.POST("/sendMessage/:id", mc.SendMessage)
		message.GET("/allMessage/:id", mc.AllMessages)
	}

	return r
}

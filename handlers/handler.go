package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"sushi-shop-api/cart"
	"sushi-shop-api/config"
	"sushi-shop-api/middleware"
	"sushi-shop-api/repository"
	"sushi-shop-api/storage"
)

// Handler carries the injected dependencies for all HTTP handlers.
type Handler struct {
	Repo  *repository.Repository
	Cfg   *config.Config
	Store storage.Storage
	Minio *minio.Client
}

func New(repo *repository.Repository, cfg *config.Config, store storage.Storage) (*Handler, error) {
	h := &Handler{Repo: repo, Cfg: cfg, Store: store}

	if cfg.Minio.Endpoint != "" {
		client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
			Secure: cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		h.Minio = client
	}
	return h, nil
}

// fail maps provider errors onto HTTP statuses and returns the message as-is;
// transport errors keep the backend's own wording.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, repository.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, repository.ErrUnsupported):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// actor returns the acting admin's login for audit entries.
func actor(c *gin.Context) string {
	if session, ok := middleware.GetSession(c); ok {
		return session.Login
	}
	return "admin"
}

const cartCookie = "cart_id"

// cartStore loads the caller's cart, assigning a cart cookie on first use.
func (h *Handler) cartStore(c *gin.Context) *cart.Store {
	id, err := c.Cookie(cartCookie)
	if err != nil || id == "" {
		id = repository.NewID("cart")
		c.SetCookie(cartCookie, id, 60*60*24*30, "/", "", false, true)
	}
	return cart.Load(h.Store, storage.KeyCart+":"+id)
}

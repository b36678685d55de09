package web

import (
	"strings"

	"bitbucket.org/sportshop/storefront/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxClientIDLength = 128

// PrepareClient resolves the client namespace from the x-client-id header,
// starting a new one when absent, and stores its repository.
func PrepareClient(engine storage.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := strings.TrimSpace(c.GetHeader(ClientIDHeader))
		if clientID == "" || len(clientID) > maxClientIDLength {
			clientID = uuid.New().String()
		}

		c.Header(ClientIDHeader, clientID)
		c.Set(ClientIDKey, clientID)
		c.Set(RepositoryKey, storage.NewRepository(engine, clientID, requestLogger(c)))
	}
}

// TapLogger tags the request logger with the client and a fresh operation id.
func TapLogger(c *gin.Context) {
	logger := requestLogger(c).
		With().
		Str(ClientIDKey, c.GetString(ClientIDKey)).
		Str("operationId", uuid.New().String()).
		Logger()

	c.Set(LoggerKey, &logger)
}

func repository(c *gin.Context) *storage.Repository {
	return c.MustGet(RepositoryKey).(*storage.Repository)
}

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"

	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// DefaultRequestsPerSecond is used when no positive rate is configured
const DefaultRequestsPerSecond = 5

func keyFunc(c *gin.Context) string {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		return "ip: " + c.ClientIP()
	}
	return "user: " + requester.User.ID.String()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	retry := int(math.Ceil(time.Until(info.ResetTime).Seconds()))
	if retry < 1 {
		retry = 1
	}
	c.Header("Retry-After", strconv.Itoa(retry))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, utilities.ErrorResponse{
		Error: "Too many requests. Please try again later.",
	})
}

// RateLimiterMiddleware limits each account, or each IP before authentication, to reqPerSec requests
func RateLimiterMiddleware(reqPerSec uint) gin.HandlerFunc {
	if reqPerSec == 0 {
		reqPerSec = DefaultRequestsPerSecond
	}

	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: reqPerSec,
	})

	return ratelimit.RateLimiter(store, &ratelimit.Options{
		KeyFunc:      keyFunc,
		ErrorHandler: errorHandler,
	})
}

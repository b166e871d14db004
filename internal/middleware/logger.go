package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorLogger logs failed requests and recovers from panics. Clients get
// a generic message; details stay in the server log.
func ErrorLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				requestFieldsFrom(log, c, start).
					WithField("panic", fmt.Sprintf("%v", recovered)).
					WithField("stack", string(debug.Stack())).
					Error("request panic")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
				return
			}

			for _, err := range c.Errors {
				requestFieldsFrom(log, c, start).WithError(err.Err).Error("request error")
			}
			if len(c.Errors) == 0 && c.Writer.Status() >= http.StatusInternalServerError {
				requestFieldsFrom(log, c, start).Error("request failed")
			}
		}()

		c.Next()
	}
}

// AccessLog writes one line per request at debug level.
func AccessLog(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		requestFieldsFrom(log, c, start).Debug("request")
	}
}

func requestFieldsFrom(log logrus.FieldLogger, c *gin.Context, start time.Time) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"query":      redactQuery(c.Request.URL.Query()),
		"client_ip":  c.ClientIP(),
		"user_id":    c.GetInt64(ctxUserID),
		"request_id": requestID(c),
		"latency":    time.Since(start).String(),
	})
}

var secretParams = []string{"token", "access_token", "password"}

// redactQuery masks credentials passed in the query string, such as the
// live feed's ?token=.
func redactQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	for _, name := range secretParams {
		if _, ok := q[name]; ok {
			q.Set(name, "REDACTED")
		}
	}
	return q.Encode()
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}

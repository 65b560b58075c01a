package middlewares

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// HSTS sets strict transport and hardening headers. Only installed when the
// server terminates TLS itself.
func HSTS() gin.HandlerFunc {
	return secure.New(secure.Config{
		SSLRedirect:          true,
		IsDevelopment:        false,
		STSSeconds:           31536000,
		STSIncludeSubdomains: true,
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		IENoOpen:             true,
		SSLProxyHeaders:      map[string]string{"X-Forwarded-Proto": "https"},
	})
}

package api

import "github.com/gin-gonic/gin"

func AbortWithError(ctx *gin.Context, status int, code string, err error) {
	ctx.Abort()
	ctx.Error(err)
	ctx.PureJSON(status, APIError{
		Code:    code,
		Message: err.Error(),
	})
}

// AbortWithMessage responds with `{msg}`, the shape the frontend expects for
// missing talents
func AbortWithMessage(ctx *gin.Context, status int, err error, msg string) {
	ctx.Abort()
	ctx.Error(err)
	ctx.PureJSON(status, gin.H{"msg": msg})
}

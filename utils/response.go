package utils

import "github.com/gin-gonic/gin"

// Lists and other plain payloads go out as {success, data}; failures that
// have no use case outcome go out as {success:false, message}.

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, errorBody(message))
}

// AbortJSONError is JSONError for middleware; later handlers do not run.
func AbortJSONError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, errorBody(message))
}

func errorBody(message string) gin.H {
	return gin.H{"success": false, "message": message}
}

package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/internal/dto"
)

// The upstream identity provider authenticates every request and forwards
// the principal in these headers; they are trusted as-is here.
const (
	HeaderStudentID = "X-Student-ID"
	HeaderRole      = "X-Role"

	RoleStaff = "staff"

	ctxPrincipalID = "principal_id"
	ctxRole        = "principal_role"
)

// Principal extracts the authenticated caller from the identity headers.
func Principal() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		idStr := ctx.GetHeader(HeaderStudentID)
		id, err := strconv.ParseUint(idStr, 10, 32)
		if idStr == "" || err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing or invalid principal"})
			return
		}
		ctx.Set(ctxPrincipalID, uint(id))
		ctx.Set(ctxRole, ctx.GetHeader(HeaderRole))
		ctx.Next()
	}
}

// RequireStaff guards grading and test-management routes.
func RequireStaff() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString(ctxRole) != RoleStaff {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Staff role required"})
			return
		}
		ctx.Next()
	}
}

// PrincipalID returns the authenticated caller's id. Routes behind
// Principal() always have one.
func PrincipalID(ctx *gin.Context) uint {
	return ctx.GetUint(ctxPrincipalID)
}

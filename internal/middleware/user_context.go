package middleware

import (
	"ieee-funding-portal/internal/database"
	"ieee-funding-portal/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// InjectStaff loads the logged-in staff account into the request context so
// handlers can read it without re-querying.
func InjectStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if idRaw := sess.Get("staff_id"); idRaw != nil {
			if id, ok := idRaw.(uint); ok && id > 0 {
				var staff models.StaffUser
				if err := database.DB.First(&staff, id).Error; err == nil {
					c.Set("CurrentStaff", staff)
				}
			}
		}

		c.Next()
	}
}

// CurrentStaff returns the account set by InjectStaff, if any.
func CurrentStaff(c *gin.Context) (models.StaffUser, bool) {
	val, ok := c.Get("CurrentStaff")
	if !ok {
		return models.StaffUser{}, false
	}
	staff, ok := val.(models.StaffUser)
	return staff, ok
}

// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/artledger/registry-backend/internal/i18n"
)

func I18nMiddleware() gin.HandlerFunc {
	supported := make(map[string]bool)
	for _, lang := range i18n.GetSupportedLanguages() {
		supported[lang] = true
	}

	return func(c *gin.Context) {
		lang := "en"

		// Handle cases like "zh-TW,zh;q=0.9,en;q=0.8"
		if header := c.GetHeader("Accept-Language"); header != "" {
			first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
			first = strings.ReplaceAll(first, "-", "_")
			if first == "zh_Hant" {
				first = "zh_TW"
			}
			if supported[first] {
				lang = first
			}
		}

		c.Set("lang", lang)
		c.Next()
	}
}

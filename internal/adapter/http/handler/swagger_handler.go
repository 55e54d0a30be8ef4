package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/andrewhigh08/weather-api/internal/adapter/http/response"
	"github.com/andrewhigh08/weather-api/internal/adapter/http/versioning"
)

// RegisterSwagger registers one Swagger UI per documentation group.
// RegisterSwagger регистрирует отдельный Swagger UI для каждой группы документации.
//
// The UI of group v1 is available at /swagger/v1/index.html and reads
// /swagger/v1/doc.json, which is served from the generated manifest.
// UI группы v1 доступен по адресу /swagger/v1/index.html и читает
// /swagger/v1/doc.json, который отдаётся из сгенерированного манифеста.
func RegisterSwagger(router gin.IRoutes, docs *versioning.Generator) {
	groups := docs.RegisterSwagger()

	handlers := make(map[string]gin.HandlerFunc, len(groups))
	for _, group := range groups {
		handlers[group] = ginSwagger.WrapHandler(swaggerFiles.Handler,
			ginSwagger.InstanceName(group),          // swag instance of the group / Экземпляр swag группы
			ginSwagger.DefaultModelsExpandDepth(-1), // Hide models by default / Скрыть модели по умолчанию
		)
	}

	router.GET("/swagger/:group/*any", func(c *gin.Context) {
		handler, ok := handlers[strings.ToLower(c.Param("group"))]
		if !ok {
			response.NotFound(c, "documentation group", c.Param("group"))
			return
		}
		handler(c)
	})

	// Redirect the bare UI path to the latest version / Перенаправляем корень UI на последнюю версию
	if len(groups) > 0 {
		latest := groups[len(groups)-1]
		router.GET("/swagger", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/swagger/"+latest+"/index.html")
		})
	}
}

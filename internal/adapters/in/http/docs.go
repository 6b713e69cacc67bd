package http

import (
	"encoding/json"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

type contractDoc struct {
	json string
}

func (d contractDoc) ReadDoc() string { return d.json }

// registerDocs publishes doc to swag so echo-swagger serves it as doc.json.
func registerDocs(e *echo.Echo, doc *openapi3.T) error {
	if swag.GetSwagger(swag.Name) == nil {
		raw, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		swag.Register(swag.Name, contractDoc{json: string(raw)})
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return nil
}
